package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/user-records-api/config"
)

type seedUser struct {
	name   string
	email  string
	phone  string
	city   string
	gender string
	age    int
}

var samples = []seedUser{
	{"John Doe", "john.doe@example.com", "+1-202-555-0101", "New York", "male", 34},
	{"Jane Smith", "jane.smith@example.com", "+1-202-555-0102", "Paris", "female", 28},
	{"Alex Chen", "alex.chen@example.com", "+1-202-555-0103", "New York", "other", 41},
	{"Maria Garcia", "maria.garcia@example.com", "+1-202-555-0104", "Madrid", "female", 52},
	{"Tom Brown", "tom.brown@example.com", "+1-202-555-0105", "Paris", "male", 19},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seeded := 0
	for _, s := range samples {
		res, err := db.Exec(`
			INSERT INTO users (id, name, email, phone, city, gender, age)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (email) DO NOTHING
		`, uuid.NewString(), s.name, s.email, s.phone, s.city, s.gender, s.age)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", s.email, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seeded++
		}
	}
	fmt.Printf("seeded %d of %d sample users\n", seeded, len(samples))
}
