// seed upserts an admin user and a handful of gyms into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/gym-checkin/internal/password"
)

const (
	seedEmail    = "admin@gym.local"
	seedPassword = "admin123"
)

type seedGym struct {
	title     string
	phone     string
	latitude  float64
	longitude float64
}

// Clustered around Uberlândia so /gyms/nearby returns most of them
// from (-18.9384705, -48.3090628); the last one is deliberately far.
var gyms = []seedGym{
	{"JavaScript Gym", "34999990001", -18.9384705, -48.3090628},
	{"TypeScript Gym", "34999990002", -18.9230654, -48.2939209},
	{"Go Fitness", "34999990003", -18.9186000, -48.2772000},
	{"Rust Strength Lab", "", -18.9446000, -48.2824000},
	{"Elixir CrossFit", "34999990005", -18.9128000, -48.2755000},
	{"Far Away Gym", "", -19.7833116, -47.9984856},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set; run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	hash, err := password.NewBcryptHasher(password.DefaultCost).Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin, err := postgres.NewUserRepository(pool).Upsert(ctx, &domain.User{
		Name:         "Gym Admin",
		Email:        seedEmail,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		log.Fatalf("upsert admin: %v", err)
	}

	// Insert gyms, skip titles that already exist (idempotent re-runs)
	var inserted, skipped int
	for _, g := range gyms {
		coord, err := domain.NewCoordinate(g.latitude, g.longitude)
		if err != nil {
			log.Fatalf("gym %q: %v", g.title, err)
		}

		var phone *string
		if g.phone != "" {
			phone = &g.phone
		}

		tag, err := pool.Exec(ctx, `
			INSERT INTO gyms (title, phone, latitude, longitude)
			SELECT $1::text, $2::text, $3::numeric, $4::numeric
			WHERE NOT EXISTS (SELECT 1 FROM gyms WHERE title = $1)`,
			g.title, phone, coord.Latitude, coord.Longitude,
		)
		if err != nil {
			log.Fatalf("insert gym %q: %v", g.title, err)
		}
		if tag.RowsAffected() == 0 {
			skipped++
		} else {
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Admin:        %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  Admin ID:     %s\n", admin.ID)
	fmt.Printf("  Gyms created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1: get a JWT for the admin:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:3333/sessions \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2: list gyms near the first one:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s 'http://localhost:3333/gyms/nearby?latitude=-18.9384705&longitude=-48.3090628' -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3: check in (use a gym id from step 2):")
	fmt.Println()
	fmt.Println("    curl -s -X POST http://localhost:3333/gyms/GYM_ID/check-ins -H \"Authorization: Bearer $JWT\" \\")
	fmt.Println("      -H 'Content-Type: application/json' -d '{\"latitude\":-18.9384705,\"longitude\":-48.3090628}'")
}
