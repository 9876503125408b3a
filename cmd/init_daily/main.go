package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"ringstats-backend/config"
	"ringstats-backend/database"
	"ringstats-backend/wrestlers"
)

func main() {
	config.LoadEnv()

	startFlag := flag.String("start", "", "First day of the rotation in YYYY-MM-DD format (default today)")
	flag.Parse()

	start := time.Now().UTC()
	if *startFlag != "" {
		var err error
		if start, err = time.Parse("2006-01-02", *startFlag); err != nil {
			log.Fatalf("invalid --start value: %v", err)
		}
	}

	ctx := context.Background()
	db, err := database.ConnectDB(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	repo := wrestlers.NewPostgresRepository(db)
	ids, err := repo.IDs(ctx)
	if err != nil {
		log.Fatalf("load wrestler ids: %v", err)
	}
	if len(ids) == 0 {
		log.Fatal("no wrestlers to schedule; run import_wrestlers first")
	}

	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	if err := repo.ScheduleDaily(ctx, start, ids); err != nil {
		log.Fatalf("schedule daily wrestlers: %v", err)
	}

	fmt.Printf("Scheduled %d daily wrestlers starting %s\n", len(ids), start.Format("2006-01-02"))
}
