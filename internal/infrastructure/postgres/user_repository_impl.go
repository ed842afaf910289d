package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/user-records-api/internal/domain/entity"
	"github.com/oksasatya/user-records-api/internal/domain/repository"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// Querier is the query-execution facade the repository runs against.
// *pgxpool.Pool satisfies it; tests substitute a mock pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, name, email, phone, city, gender, age, created_at, updated_at"

func scanUser(row pgx.Row, u *entity.User) error {
	return row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.City, &u.Gender,
		&u.Age, &u.CreatedAt, &u.UpdatedAt)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Create inserts the record and fills in the server-assigned timestamps.
// The id must already be set by the caller.
func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, name, email, phone, city, gender, age)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, u.ID, u.Name, u.Email, u.Phone, u.City, u.Gender, u.Age)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email)

	if err := scanUser(row, u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// buildListQuery composes the filtered listing statement. Predicates and
// their parameters are appended in pairs; values are never interpolated
// into the SQL text.
func buildListQuery(f repository.ListFilters) (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT " + userColumns + " FROM users")

	where, args := buildPredicates(f, true)
	sb.WriteString(where)
	sb.WriteString(" ORDER BY created_at DESC")

	if f.Limit != nil {
		args = append(args, *f.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}
	if f.Offset != nil {
		args = append(args, *f.Offset)
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))
	}
	return sb.String(), args
}

// likeEscaper neutralizes ILIKE metacharacters so the search term always
// matches as a literal substring.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildPredicates renders the WHERE clause for the given filters. The
// substring predicate is only included when withSearch is set; Count
// deliberately ignores it.
func buildPredicates(f repository.ListFilters, withSearch bool) (string, []any) {
	var conds []string
	var args []any

	if f.City != "" {
		args = append(args, f.City)
		conds = append(conds, fmt.Sprintf("city = $%d", len(args)))
	}
	if f.Gender != "" {
		args = append(args, f.Gender)
		conds = append(conds, fmt.Sprintf("gender = $%d", len(args)))
	}
	if withSearch && f.Search != "" {
		args = append(args, "%"+likeEscaper.Replace(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(`(name ILIKE $%d ESCAPE '\' OR email ILIKE $%d ESCAPE '\')`, n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *UserRepository) List(ctx context.Context, f repository.ListFilters) ([]entity.User, error) {
	query, args := buildListQuery(f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := []entity.User{}
	for rows.Next() {
		var u entity.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}
	return users, nil
}

// Search lists records whose name or email contains the term,
// case-insensitively, most recent first.
func (r *UserRepository) Search(ctx context.Context, term string) ([]entity.User, error) {
	return r.List(ctx, repository.ListFilters{Search: term})
}

// Update replaces all mutable fields in one statement and refreshes
// updated_at. Returns ErrNotFound when the target row no longer exists.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, phone = $3, city = $4, gender = $5, age = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING created_at, updated_at
	`, u.Name, u.Email, u.Phone, u.City, u.Gender, u.Age, u.ID)

	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return repository.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// Delete removes the row by id and reports whether a row was actually
// removed, so callers can distinguish "already gone" from "deleted now".
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return res.RowsAffected() > 0, nil
}

// Count returns the cardinality of the filtered set. Only city and gender
// narrow the count; the substring filter does not apply here.
func (r *UserRepository) Count(ctx context.Context, f repository.ListFilters) (int64, error) {
	where, args := buildPredicates(f, false)

	var total int64
	row := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}

// Stats aggregates the whole table: total count, reported storage size,
// per-city and per-gender counts (descending) and age average/min/max.
func (r *UserRepository) Stats(ctx context.Context) (*entity.UserStats, error) {
	stats := &entity.UserStats{
		ByCity:   []entity.CityCount{},
		ByGender: []entity.GenderCount{},
	}

	row := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(AVG(age), 0), COALESCE(MIN(age), 0), COALESCE(MAX(age), 0)
		FROM users
	`)
	if err := row.Scan(&stats.TotalUsers, &stats.Age.Average, &stats.Age.Min, &stats.Age.Max); err != nil {
		return nil, fmt.Errorf("aggregate users: %w", err)
	}

	// Size is best-effort; a failure here must not fail the whole call.
	stats.TableSize = "unknown"
	var size string
	if err := r.db.QueryRow(ctx, `SELECT pg_size_pretty(pg_total_relation_size('users'))`).Scan(&size); err == nil {
		stats.TableSize = size
	}

	cityRows, err := r.db.Query(ctx, `
		SELECT city, COUNT(*) AS cnt
		FROM users
		GROUP BY city
		ORDER BY cnt DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("count users by city: %w", err)
	}
	defer cityRows.Close()
	for cityRows.Next() {
		var c entity.CityCount
		if err := cityRows.Scan(&c.City, &c.Count); err != nil {
			return nil, fmt.Errorf("scan city count: %w", err)
		}
		stats.ByCity = append(stats.ByCity, c)
	}
	if err := cityRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate city counts: %w", err)
	}

	genderRows, err := r.db.Query(ctx, `
		SELECT gender, COUNT(*) AS cnt
		FROM users
		GROUP BY gender
		ORDER BY cnt DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("count users by gender: %w", err)
	}
	defer genderRows.Close()
	for genderRows.Next() {
		var g entity.GenderCount
		if err := genderRows.Scan(&g.Gender, &g.Count); err != nil {
			return nil, fmt.Errorf("scan gender count: %w", err)
		}
		stats.ByGender = append(stats.ByGender, g)
	}
	if err := genderRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gender counts: %w", err)
	}

	return stats, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
