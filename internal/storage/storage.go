package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/parts-inventory/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// UserStore reads caller records. CreateUser exists for operator provisioning only.
type UserStore interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	FindUserByID(ctx context.Context, id int64) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
}

// PartStore captures persistence operations on parts. Ids come from the store
// and are never handed out twice.
type PartStore interface {
	CreatePart(ctx context.Context, part models.Part) (models.Part, error)
	ListParts(ctx context.Context) ([]models.Part, error)
	GetPart(ctx context.Context, id int64) (models.Part, error)
	UpdatePart(ctx context.Context, part models.Part) (models.Part, error)
	DeletePart(ctx context.Context, id int64) error
}

// Store is the full persistence surface the server is wired against.
type Store interface {
	UserStore
	PartStore
}
