package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"ringstats-backend/config"
	"ringstats-backend/database"
	"ringstats-backend/wrestlers"
)

func main() {
	config.LoadEnv()

	jsonPath := flag.String("file", os.Getenv("WRESTLERS_FILE"), "Path to the wrestler database JSON file")
	flag.Parse()

	if strings.TrimSpace(*jsonPath) == "" {
		log.Fatal("--file is required")
	}

	data, err := os.ReadFile(*jsonPath)
	if err != nil {
		log.Fatalf("read wrestler database: %v", err)
	}
	records, err := wrestlers.ReadDatabase(data)
	if err != nil {
		log.Fatalf("parse wrestler database: %v", err)
	}

	ctx := context.Background()
	db, err := database.ConnectDB(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	n, err := wrestlers.NewPostgresRepository(db).Upsert(ctx, records)
	if err != nil {
		log.Fatalf("import wrestlers: %v", err)
	}

	fmt.Printf("Imported %d wrestlers from %s\n", n, *jsonPath)
}
