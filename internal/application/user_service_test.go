package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-records-api/internal/testutil"
	"github.com/oksasatya/user-records-api/pkg/validation"
)

func strPtr(s string) *string { return &s }

func numPtr(s string) *json.Number {
	n := json.Number(s)
	return &n
}

func input(name, email, phone, city, gender, age string) validation.UserInput {
	return validation.UserInput{
		Name:   strPtr(name),
		Email:  strPtr(email),
		Phone:  strPtr(phone),
		City:   strPtr(city),
		Gender: strPtr(gender),
		Age:    numPtr(age),
	}
}

func newService() (*UserService, *testutil.FakeUserRepository) {
	repo := testutil.NewFakeUserRepository()
	return NewUserService(repo, testutil.NewLogger()), repo
}

func TestCreateThenGetRoundtrip(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, input("Ann", "Ann@X.com", "1", "NYC", "FEMALE", "29"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "ann@x.com", created.Email)
	assert.Equal(t, "female", created.Gender)
	assert.False(t, created.CreatedAt.IsZero())
	assert.False(t, created.UpdatedAt.Before(created.CreatedAt))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestCreateValidationFailureTouchesNothing(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Create(context.Background(), validation.UserInput{})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 6)
	assert.Zero(t, repo.Len())
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, input("Ann", "Ann@X.com", "1", "NYC", "FEMALE", "29"))
	require.NoError(t, err)

	// Same address with different casing must still conflict.
	_, err = svc.Create(ctx, input("Bob", "ANN@x.com", "2", "LA", "male", "30"))
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.Equal(t, 1, repo.Len())
}

func TestGetMissingUser(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Get(context.Background(), "no-such-id")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateMissingIDFailsBeforeValidation(t *testing.T) {
	svc, _ := newService()

	// Payload is invalid too; the existence check must win.
	_, err := svc.Update(context.Background(), "no-such-id", validation.UserInput{})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateEmailConflictWithOtherRecord(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	ann, err := svc.Create(ctx, input("Ann", "ann@x.com", "1", "NYC", "female", "29"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, input("Bob", "bob@x.com", "2", "LA", "male", "30"))
	require.NoError(t, err)

	_, err = svc.Update(ctx, ann.ID, input("Ann", "bob@x.com", "1", "NYC", "female", "29"))
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUpdateKeepingOwnEmailSucceeds(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	ann, err := svc.Create(ctx, input("Ann", "ann@x.com", "1", "NYC", "female", "29"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, ann.ID, input("Ann Lee", "ANN@X.com", "1", "Paris", "female", "30"))
	require.NoError(t, err)
	assert.Equal(t, "Ann Lee", updated.Name)
	assert.Equal(t, "ann@x.com", updated.Email)
	assert.Equal(t, "Paris", updated.City)
	assert.Equal(t, ann.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(ann.UpdatedAt))
}

func TestDeleteThenDeleteAgain(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	ann, err := svc.Create(ctx, input("Ann", "ann@x.com", "1", "NYC", "female", "29"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ann.ID))
	assert.ErrorIs(t, svc.Delete(ctx, ann.ID), ErrUserNotFound)
}

func TestListCityFilterAndPagination(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	// Insertion order fixes creation order: u1 oldest, u4 newest.
	u1, _ := svc.Create(ctx, input("A", "a@x.com", "1", "Paris", "female", "20"))
	_, _ = svc.Create(ctx, input("B", "b@x.com", "1", "NYC", "male", "21"))
	u3, _ := svc.Create(ctx, input("C", "c@x.com", "1", "Paris", "male", "22"))
	u4, _ := svc.Create(ctx, input("D", "d@x.com", "1", "Paris", "other", "23"))

	users, total, err := svc.List(ctx, ListQuery{City: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 3)
	assert.Equal(t, u4.ID, users[0].ID)
	assert.Equal(t, u3.ID, users[1].ID)
	assert.Equal(t, u1.ID, users[2].ID)

	limit, offset := 2, 1
	users, total, err = svc.List(ctx, ListQuery{City: "Paris", Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, u3.ID, users[0].ID)
	assert.Equal(t, u1.ID, users[1].ID)
}

func TestFilterSkipsTotalCount(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, input("A", "a@x.com", "1", "Paris", "female", "20"))
	_, _ = svc.Create(ctx, input("B", "b@x.com", "1", "NYC", "male", "21"))

	users, err := svc.Filter(ctx, ListQuery{City: "Paris"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "A", users[0].Name)
	assert.Zero(t, repo.CountCalls)

	users, err = svc.Filter(ctx, ListQuery{Gender: "male"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "B", users[0].Name)
	assert.Zero(t, repo.CountCalls)
}

func TestSearchMatchesNameOrEmail(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, input("John Doe", "jd@x.com", "1", "NYC", "male", "30"))
	_, _ = svc.Create(ctx, input("Mary", "a-john@x.com", "1", "LA", "female", "31"))
	_, _ = svc.Create(ctx, input("Pete", "pete@x.com", "1", "LA", "male", "32"))

	users, err := svc.Search(ctx, "john")
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		assert.NotEqual(t, "Pete", u.Name)
	}
}

func TestStatsAggregates(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, input("A", "a@x.com", "1", "Paris", "female", "20"))
	_, _ = svc.Create(ctx, input("B", "b@x.com", "1", "Paris", "male", "40"))
	_, _ = svc.Create(ctx, input("C", "c@x.com", "1", "NYC", "female", "60"))

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalUsers)
	require.NotEmpty(t, stats.ByCity)
	assert.Equal(t, "Paris", stats.ByCity[0].City)
	assert.Equal(t, int64(2), stats.ByCity[0].Count)
	assert.Equal(t, "female", stats.ByGender[0].Gender)
	assert.InDelta(t, 40.0, stats.Age.Average, 0.001)
	assert.Equal(t, 20, stats.Age.Min)
	assert.Equal(t, 60, stats.Age.Max)
}
