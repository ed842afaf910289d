package testutil

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-records-api/internal/domain/entity"
	"github.com/oksasatya/user-records-api/internal/domain/repository"
)

// NewLogger returns a logger that discards output, for use in tests.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// FakeUserRepository is an in-memory repository.UserRepository. Creation
// timestamps advance by one second per insert so creation-order assertions
// are deterministic. Set Err to force a storage failure on every call.
// CountCalls tracks how often Count is invoked.
type FakeUserRepository struct {
	mu    sync.Mutex
	users map[string]entity.User
	base  time.Time
	seq   int

	Err        error
	CountCalls int
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{
		users: make(map[string]entity.User),
		base:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Len reports how many records are stored.
func (f *FakeUserRepository) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *FakeUserRepository) Create(_ context.Context, u *entity.User) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.seq++
	now := f.base.Add(time.Duration(f.seq) * time.Second)
	u.CreatedAt = now
	u.UpdatedAt = now
	f.users[u.ID] = *u
	return nil
}

func (f *FakeUserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (f *FakeUserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func matchesSubstring(u entity.User, term string) bool {
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(u.Name), term) ||
		strings.Contains(strings.ToLower(u.Email), term)
}

func (f *FakeUserRepository) List(_ context.Context, flt repository.ListFilters) ([]entity.User, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := []entity.User{}
	for _, u := range f.users {
		if flt.City != "" && u.City != flt.City {
			continue
		}
		if flt.Gender != "" && u.Gender != flt.Gender {
			continue
		}
		if flt.Search != "" && !matchesSubstring(u, flt.Search) {
			continue
		}
		matched = append(matched, u)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if flt.Offset != nil {
		if *flt.Offset >= len(matched) {
			matched = []entity.User{}
		} else {
			matched = matched[*flt.Offset:]
		}
	}
	if flt.Limit != nil && *flt.Limit < len(matched) {
		matched = matched[:*flt.Limit]
	}
	return matched, nil
}

func (f *FakeUserRepository) Search(ctx context.Context, term string) ([]entity.User, error) {
	return f.List(ctx, repository.ListFilters{Search: term})
}

func (f *FakeUserRepository) Update(_ context.Context, u *entity.User) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.users[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for id, existing := range f.users {
		if id != u.ID && existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.seq++
	u.CreatedAt = current.CreatedAt
	u.UpdatedAt = f.base.Add(time.Duration(f.seq) * time.Second)
	f.users[u.ID] = *u
	return nil
}

func (f *FakeUserRepository) Delete(_ context.Context, id string) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

func (f *FakeUserRepository) Count(_ context.Context, flt repository.ListFilters) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CountCalls++
	var total int64
	for _, u := range f.users {
		if flt.City != "" && u.City != flt.City {
			continue
		}
		if flt.Gender != "" && u.Gender != flt.Gender {
			continue
		}
		total++
	}
	return total, nil
}

func (f *FakeUserRepository) Stats(_ context.Context) (*entity.UserStats, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &entity.UserStats{
		TableSize: "unknown",
		ByCity:    []entity.CityCount{},
		ByGender:  []entity.GenderCount{},
	}
	cities := map[string]int64{}
	genders := map[string]int64{}
	var sum int
	for _, u := range f.users {
		stats.TotalUsers++
		cities[u.City]++
		genders[u.Gender]++
		sum += u.Age
		if stats.TotalUsers == 1 || u.Age < stats.Age.Min {
			stats.Age.Min = u.Age
		}
		if u.Age > stats.Age.Max {
			stats.Age.Max = u.Age
		}
	}
	if stats.TotalUsers > 0 {
		stats.Age.Average = float64(sum) / float64(stats.TotalUsers)
	}
	for city, n := range cities {
		stats.ByCity = append(stats.ByCity, entity.CityCount{City: city, Count: n})
	}
	for gender, n := range genders {
		stats.ByGender = append(stats.ByGender, entity.GenderCount{Gender: gender, Count: n})
	}
	sort.Slice(stats.ByCity, func(i, j int) bool { return stats.ByCity[i].Count > stats.ByCity[j].Count })
	sort.Slice(stats.ByGender, func(i, j int) bool { return stats.ByGender[i].Count > stats.ByGender[j].Count })
	return stats, nil
}

var _ repository.UserRepository = (*FakeUserRepository)(nil)
