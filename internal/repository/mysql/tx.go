package mysql

import (
	"context"
	"errors"
	"fmt"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/repository"
)

// MySQL server error numbers we translate into domain errors.
const (
	errDupEntry        = 1062
	errLockWaitTimeout = 1205
	errLockDeadlock    = 1213
)

// Postgres SQLSTATE codes with the same meaning, for DB_DRIVER=postgres.
const (
	pgUniqueViolation   = "23505"
	pgLockNotAvailable  = "55P03"
	pgDeadlockDetected  = "40P01"
	pgSerializationFail = "40001"
)

type txKey struct{}

type transactor struct {
	DB *gorm.DB
}

var _ domain.Transactor = (*transactor)(nil)

// NewTransactor 创建事务边界
func NewTransactor(db *gorm.DB) *transactor {
	return &transactor{DB: db}
}

// Transaction runs fn inside a database transaction. A ctx that already carries
// a transaction joins it instead of opening a nested one.
func (t *transactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	err := t.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
	return translateError(err)
}

// conn returns the transaction bound to ctx, or db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// withLock applies the row lock hint carried by ctx. Locks only make sense in a transaction.
func withLock(ctx context.Context, q *gorm.DB) *gorm.DB {
	if _, inTx := ctx.Value(txKey{}).(*gorm.DB); !inTx {
		return q
	}
	if s, ok := repository.LockFrom(ctx); ok {
		return q.Clauses(clause.Locking{Strength: string(s)})
	}
	return q
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	var myErr *mysqlDriver.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDupEntry, errLockWaitTimeout, errLockDeadlock:
			return fmt.Errorf("%w: %s", domain.ErrConflict, myErr.Message)
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgLockNotAvailable, pgDeadlockDetected, pgSerializationFail:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.Message)
		}
	}
	return err
}
