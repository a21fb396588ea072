package domain

import (
	"context"
	"time"
)

// User represents a user entity in the system.
// A user can register, login, and write posts and comments.
type User struct {
	ID        int64     // Unique identifier
	Name      string    // Display name
	Username  string    // Login username (unique)
	Password  string    // Bcrypt hashed password
	CreatedAt time.Time // Account creation timestamp
	UpdatedAt time.Time // Last profile update timestamp
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// Insert creates a new user account.
	// Backfills the ID in the provided User object upon success.
	// Returns ErrConflict if the username is taken.
	Insert(ctx context.Context, u *User) error

	// GetByUsername retrieves a user by their username.
	// Used during login to verify credentials.
	GetByUsername(ctx context.Context, username string) (User, error)

	// GetByIDs silently skips unknown ids.
	GetByIDs(ctx context.Context, userIDs []int64) ([]User, error)

	// Update writes name, username and password of an existing user.
	// Returns ErrNotFound if the user doesn't exist, ErrConflict if the username is taken.
	Update(ctx context.Context, u *User) error

	// Delete removes the user row only. Returns ErrNotFound if it is already gone.
	Delete(ctx context.Context, id int64) error
}

// UserPatch carries the fields of a profile update. Nil fields are left untouched.
type UserPatch struct {
	Name     *string
	Username *string
	Password *string
}

// AuthoredContentRemover deletes everything of one kind a user wrote.
// Implementations join the transaction carried by ctx.
type AuthoredContentRemover interface {
	DeleteByAuthor(ctx context.Context, userID int64) (int, error)
}

// UserUsecase defines the business logic contract for user operations.
// Handles authentication and registration.
type UserUsecase interface {
	// Register creates a new user account.
	// Returns ErrConflict if the username already exists.
	Register(ctx context.Context, name, username, password string) (User, error)

	// Login verifies user credentials and returns a JWT token.
	// Returns ErrUnauthorized if the username or password is wrong.
	Login(ctx context.Context, username, password string) (string, error)

	// ParseToken returns the user id carried by a valid token.
	ParseToken(token string) (int64, error)

	GetByID(ctx context.Context, id int64) (User, error)

	// Update changes the caller's own profile.
	Update(ctx context.Context, caller Caller, patch UserPatch) (User, error)

	// Delete removes the caller, their posts and their comments with every reply
	// below them in one transaction.
	Delete(ctx context.Context, caller Caller) (User, error)
}
