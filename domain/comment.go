package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxCommentBodyLength is counted in code points, not bytes.
const MaxCommentBodyLength = 5000

// Comment domain model
type Comment struct {
	ID        int64
	Body      string
	UserID    int64
	Parent    Commentable
	CreatedAt time.Time
	UpdatedAt time.Time

	// User 评论作者信息
	User *User
	// RepliesCount is the number of direct replies, filled by listings
	RepliesCount int64
}

// CommentNode is a transient view of a comment and its reply subtree.
// Replies are ordered by created_at, id ascending at every level.
type CommentNode struct {
	Comment Comment
	Replies []*CommentNode
}

// ValidateBody checks the body bounds shared by create and update.
func ValidateBody(body string) error {
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("body is required: %w", ErrBadParamInput)
	}
	if utf8.RuneCountInString(body) > MaxCommentBodyLength {
		return fmt.Errorf("body must not exceed %d characters: %w", MaxCommentBodyLength, ErrBadParamInput)
	}
	return nil
}

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

const (
	SortByCreatedAt = "created_at"
	SortByUpdatedAt = "updated_at"
)

// CommentFilter drives flat comment listings. Nil/empty fields are not applied.
type CommentFilter struct {
	UserID     *int64
	ParentKind CommentableKind
	ParentID   *int64
	// CreatedOn matches every comment created on that calendar day
	CreatedOn *time.Time

	SortField string
	Order     SortOrder
	Page      int
	PageSize  int
}

// PageMeta describes one page of a filtered listing.
type PageMeta struct {
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
}

type Page[T any] struct {
	Items []T
	Meta  PageMeta
}

// Caller is the identity handed over by the HTTP layer. The zero value is anonymous.
type Caller struct {
	UserID int64
}

func (c Caller) Authenticated() bool {
	return c.UserID > 0
}

// CommentRepository 数据存取接口
type CommentRepository interface {
	// Create validates the body and persists c, backfilling ID and timestamps.
	// Parent existence is checked by the caller.
	Create(ctx context.Context, c *Comment) error

	// GetByID returns ErrNotFound if the comment doesn't exist.
	GetByID(ctx context.Context, id int64) (Comment, error)

	// Update replaces the body and bumps updated_at.
	// Returns ErrNotFound if the comment doesn't exist.
	Update(ctx context.Context, id int64, body string) (Comment, error)

	// Delete removes exactly one row, it never cascades.
	// Returns ErrNotFound if the row is already gone.
	Delete(ctx context.Context, id int64) error

	// FindChildren returns the direct replies of parent ordered by created_at, id ascending.
	FindChildren(ctx context.Context, parent Commentable) ([]Comment, error)

	// Query returns one page of filtered comments and the size of the whole filtered set.
	Query(ctx context.Context, f CommentFilter) ([]Comment, int64, error)

	// CountReplies returns direct reply counts keyed by comment id; ids without replies are absent.
	CountReplies(ctx context.Context, ids []int64) (map[int64]int64, error)

	// IDsByUser returns the ids of every comment written by userID, ascending.
	IDsByUser(ctx context.Context, userID int64) ([]int64, error)
}

// Transactor opens the storage collaborator's transaction boundary.
// Stores called with the ctx passed to fn take part in the transaction.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// CommentCascade deletes comment subtrees atomically.
type CommentCascade interface {
	// DeleteTree deletes the comment and all its descendants.
	// Returns ErrNotFound if the root is already gone.
	DeleteTree(ctx context.Context, rootID int64) (int, error)

	// DeleteUnder deletes every comment subtree attached to parent.
	DeleteUnder(ctx context.Context, parent Commentable) (int, error)
}

// CommentUsecase 业务逻辑接口
type CommentUsecase interface {
	Create(ctx context.Context, caller Caller, body string, parent Commentable) (Comment, error)
	Update(ctx context.Context, caller Caller, id int64, body string) (Comment, error)
	Delete(ctx context.Context, caller Caller, id int64) (Comment, error)
	GetWithReplies(ctx context.Context, id int64) (*CommentNode, error)
	List(ctx context.Context, f CommentFilter) (Page[Comment], error)
	ListPostComments(ctx context.Context, postID int64) ([]*CommentNode, error)
	ListReplies(ctx context.Context, commentID int64) ([]*CommentNode, error)
}
