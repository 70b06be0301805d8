package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/tmavroeid/rockpaperscissors-game/internal/db"
	"github.com/tmavroeid/rockpaperscissors-game/internal/logger"
	"github.com/tmavroeid/rockpaperscissors-game/internal/migrations"

	"github.com/joho/godotenv"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations (default lists them)")
	flag.Parse()

	_ = godotenv.Load()

	if !*apply {
		names, err := migrations.Names()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn, 1)
	defer pool.Close()

	err := migrations.Apply(context.Background(), pool, func(name string) {
		fmt.Printf("applied %s\n", name)
	})
	if err != nil {
		pool.Close()
		logger.Fatal("migration failed", "error", err)
	}
}
