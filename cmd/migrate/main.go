// migrate applies or rolls back the postgres schema.
// Run: go run ./cmd/migrate [up|status|down [version]]
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/ErlanBelekov/gym-checkin/internal/infrastructure/postgres"
	ctxlog "github.com/ErlanBelekov/gym-checkin/internal/log"
	"github.com/lmittmann/tint"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set; run: direnv allow")
	}

	logger := slog.New(ctxlog.NewContextHandler(tint.NewHandler(os.Stderr, nil)))
	migrator := postgres.NewMigrator(dbURL, logger)
	ctx := context.Background()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	var err error
	switch cmd {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "down":
		var target int64
		if len(os.Args) > 2 {
			target, err = strconv.ParseInt(os.Args[2], 10, 64)
			if err != nil {
				log.Fatalf("invalid target version %q: %v", os.Args[2], err)
			}
		}
		err = migrator.Down(ctx, target)
	default:
		log.Fatalf("unknown command %q (want up, status or down)", cmd)
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", cmd, err)
	}
}
