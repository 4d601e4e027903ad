package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/hongminglow/parts-inventory/internal/models"
	"github.com/hongminglow/parts-inventory/internal/storage"
)

// UserFinder is the slice of the user store the resolver needs.
type UserFinder interface {
	FindUserByID(ctx context.Context, id int64) (models.User, error)
}

// Resolver maps a verified subject to an Identity. It reads the user store on
// every call; admin status is never cached.
type Resolver struct {
	users UserFinder
}

// NewResolver constructs a Resolver over users.
func NewResolver(users UserFinder) *Resolver {
	return &Resolver{users: users}
}

// IsAdmin reports whether userID belongs to an admin. A subject with no user
// record is treated as a non-admin rather than an error.
func (r *Resolver) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	user, err := r.users.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("find user %d: %w", userID, err)
	}
	return user.IsAdmin, nil
}

// Resolve produces the (user id, admin) pair for a verified subject.
func (r *Resolver) Resolve(ctx context.Context, userID int64) (Identity, error) {
	admin, err := r.IsAdmin(ctx, userID)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: userID, IsAdmin: admin}, nil
}
