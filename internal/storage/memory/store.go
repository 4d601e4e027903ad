package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hongminglow/parts-inventory/internal/models"
	"github.com/hongminglow/parts-inventory/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps users and parts in process memory. It mirrors the Postgres
// store's id policy: ids grow monotonically and are never reused.
type Store struct {
	mu         sync.Mutex
	users      map[int64]models.User
	parts      map[int64]models.Part
	nextUserID int64
	nextPartID int64
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		users: make(map[int64]models.User),
		parts: make(map[int64]models.Part),
	}
}

func (s *Store) CreateUser(_ context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return models.User{}, storage.ErrAlreadyExists
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) FindUserByID(_ context.Context, id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *Store) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (s *Store) CreatePart(_ context.Context, part models.Part) (models.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPartID++
	part.ID = s.nextPartID
	s.parts[part.ID] = part
	return part, nil
}

// ListParts returns parts ordered by id, which is insertion order.
func (s *Store) ListParts(_ context.Context) ([]models.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Part, 0, len(s.parts))
	for id := int64(1); id <= s.nextPartID; id++ {
		if part, ok := s.parts[id]; ok {
			out = append(out, part)
		}
	}
	return out, nil
}

func (s *Store) GetPart(_ context.Context, id int64) (models.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.parts[id]
	if !ok {
		return models.Part{}, storage.ErrNotFound
	}
	return part, nil
}

func (s *Store) UpdatePart(_ context.Context, part models.Part) (models.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parts[part.ID]; !ok {
		return models.Part{}, storage.ErrNotFound
	}
	s.parts[part.ID] = part
	return part, nil
}

func (s *Store) DeletePart(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.parts, id)
	return nil
}
