package comment

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository"
)

// memStore is an in-memory CommentRepository. Ids start at 10 and every
// insert is one second after the previous one.
type memStore struct {
	mu     sync.Mutex
	rows   map[int64]domain.Comment
	nextID int64
	clock  time.Time

	// failDelete makes Delete of the given id fail
	failDelete map[int64]error
	// ghosts are children FindChildren reports although they were already removed
	ghosts map[domain.Commentable][]domain.Comment
	// locks records the lock hint seen by each FindChildren call
	locks []repository.LockStrength
}

func newMemStore() *memStore {
	return &memStore{
		rows:       make(map[int64]domain.Comment),
		nextID:     10,
		clock:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		failDelete: make(map[int64]error),
		ghosts:     make(map[domain.Commentable][]domain.Comment),
	}
}

func (m *memStore) Create(_ context.Context, c *domain.Comment) error {
	if err := domain.ValidateBody(c.Body); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	c.CreatedAt, c.UpdatedAt = m.clock, m.clock
	m.rows[c.ID] = *c
	return nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, nil
}

func (m *memStore) Update(_ context.Context, id int64, body string) (domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	m.clock = m.clock.Add(time.Second)
	c.Body, c.UpdatedAt = body, m.clock
	m.rows[id] = c
	return c, nil
}

func (m *memStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failDelete[id]; err != nil {
		return err
	}
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memStore) FindChildren(ctx context.Context, parent domain.Commentable) ([]domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, _ := repository.LockFrom(ctx)
	m.locks = append(m.locks, s)

	var res []domain.Comment
	for _, c := range m.rows {
		if c.Parent == parent {
			res = append(res, c)
		}
	}
	res = append(res, m.ghosts[parent]...)
	sortComments(res, domain.SortByCreatedAt, false)
	return res, nil
}

func (m *memStore) Query(_ context.Context, f domain.CommentFilter) ([]domain.Comment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []domain.Comment
	for _, c := range m.rows {
		if f.UserID != nil && c.UserID != *f.UserID {
			continue
		}
		if f.ParentKind != domain.CommentableNone && c.Parent.Kind != f.ParentKind {
			continue
		}
		if f.ParentID != nil && c.Parent.ID != *f.ParentID {
			continue
		}
		if f.CreatedOn != nil {
			y1, m1, d1 := c.CreatedAt.Date()
			y2, m2, d2 := f.CreatedOn.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		res = append(res, c)
	}
	sortComments(res, f.SortField, f.Order == domain.OrderDesc)

	total := int64(len(res))
	from := min(repository.Offset(f.Page, f.PageSize), len(res))
	to := min(from+f.PageSize, len(res))
	return res[from:to], total, nil
}

func (m *memStore) CountReplies(_ context.Context, ids []int64) (map[int64]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make(map[int64]int64)
	for _, c := range m.rows {
		if c.Parent.Kind == domain.CommentableComment && slices.Contains(ids, c.Parent.ID) {
			res[c.Parent.ID]++
		}
	}
	return res, nil
}

func (m *memStore) IDsByUser(_ context.Context, userID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []int64
	for _, id := range slices.Sorted(maps.Keys(m.rows)) {
		if m.rows[id].UserID == userID {
			res = append(res, id)
		}
	}
	return res, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func sortComments(cs []domain.Comment, field string, desc bool) {
	key := func(c domain.Comment) time.Time {
		if field == domain.SortByUpdatedAt {
			return c.UpdatedAt
		}
		return c.CreatedAt
	}
	slices.SortFunc(cs, func(a, b domain.Comment) int {
		r := key(a).Compare(key(b))
		if r == 0 {
			r = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -r
		}
		return r
	})
}

// memTx restores the store snapshot when fn fails, like a rolled back transaction.
type memTx struct {
	store *memStore
	calls int
}

func (t *memTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	t.store.mu.Lock()
	snapshot := maps.Clone(t.store.rows)
	t.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		t.store.mu.Lock()
		t.store.rows = snapshot
		t.store.mu.Unlock()
		return err
	}
	return nil
}
