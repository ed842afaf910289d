package entity

import (
	"time"
)

// User is the single record type managed by the service.
// Email and gender are stored lower-cased; all string fields are trimmed
// before they ever reach the repository.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	City      string    `json:"city"`
	Gender    string    `json:"gender"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CityCount is one row of the per-city aggregate, ordered by count descending.
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// GenderCount is one row of the per-gender aggregate, ordered by count descending.
type GenderCount struct {
	Gender string `json:"gender"`
	Count  int64  `json:"count"`
}

// AgeStats holds the age aggregates across all records.
type AgeStats struct {
	Average float64 `json:"average"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

// UserStats is the response of the stats operation. TableSize is
// backend-reported and best-effort; "unknown" when it cannot be determined.
type UserStats struct {
	TotalUsers int64         `json:"total_users"`
	TableSize  string        `json:"table_size"`
	ByCity     []CityCount   `json:"by_city"`
	ByGender   []GenderCount `json:"by_gender"`
	Age        AgeStats      `json:"age"`
}
