package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-records-api/internal/domain/entity"
	repo "github.com/oksasatya/user-records-api/internal/domain/repository"
	"github.com/oksasatya/user-records-api/pkg/validation"
)

// UserService orchestrates validation, the conflict/existence protocol and
// repository access. The pre-checks give better error messages; the unique
// index in the store remains the final authority under concurrent writes.
type UserService struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
}

func NewUserService(r repo.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Repo: r, Logger: logger}
}

// ListQuery mirrors the query parameters of the list endpoint.
type ListQuery struct {
	City   string
	Gender string
	Search string
	Limit  *int
	Offset *int
}

// Create validates and normalizes the candidate record, rejects duplicate
// emails, then persists a new row with a generated id.
func (s *UserService) Create(ctx context.Context, in validation.UserInput) (*entity.User, error) {
	norm, fieldErrs := validation.ValidateUser(in)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	existing, err := s.Repo.GetByEmail(ctx, norm.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("check existing email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	u := &entity.User{
		ID:     uuid.NewString(),
		Name:   norm.Name,
		Email:  norm.Email,
		Phone:  norm.Phone,
		City:   norm.City,
		Gender: norm.Gender,
		Age:    *norm.Age,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			// Lost the race between the pre-check and the insert.
			return nil, ErrEmailExists
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "city": u.City}).Info("user created")
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns the filtered page plus the total cardinality of the
// city/gender-filtered set for pagination metadata.
func (s *UserService) List(ctx context.Context, q ListQuery) ([]entity.User, int64, error) {
	filters := repo.ListFilters{
		City:   q.City,
		Gender: q.Gender,
		Search: q.Search,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	users, err := s.Repo.List(ctx, filters)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Repo.Count(ctx, repo.ListFilters{City: q.City, Gender: q.Gender})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Filter returns the whole filtered set without pagination metadata, for
// the path-parameter filter endpoints. Unlike List it never issues a
// separate count; callers use the slice length.
func (s *UserService) Filter(ctx context.Context, q ListQuery) ([]entity.User, error) {
	return s.Repo.List(ctx, repo.ListFilters{City: q.City, Gender: q.Gender})
}

func (s *UserService) Search(ctx context.Context, term string) ([]entity.User, error) {
	return s.Repo.Search(ctx, term)
}

// Update replaces all mutable fields of an existing record. The existence
// check gates the mutating statement; an email change must not collide with
// a different record.
func (s *UserService) Update(ctx context.Context, id string, in validation.UserInput) (*entity.User, error) {
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	norm, fieldErrs := validation.ValidateUser(in)
	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	if norm.Email != current.Email {
		other, err := s.Repo.GetByEmail(ctx, norm.Email)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("check existing email: %w", err)
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailExists
		}
	}

	u := &entity.User{
		ID:        id,
		Name:      norm.Name,
		Email:     norm.Email,
		Phone:     norm.Phone,
		City:      norm.City,
		Gender:    norm.Gender,
		Age:       *norm.Age,
		CreatedAt: current.CreatedAt,
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			// Target deleted between the existence check and the update.
			return nil, ErrUserNotFound
		case errors.Is(err, repo.ErrDuplicateEmail):
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return u, nil
}

// Delete removes the record. A second delete of the same id reports
// ErrUserNotFound rather than silently affecting zero rows.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.Repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func (s *UserService) Stats(ctx context.Context) (*entity.UserStats, error) {
	return s.Repo.Stats(ctx)
}
