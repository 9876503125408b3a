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

	csvPath := flag.String("csv", "", "Path to CSV file with wrestler_id,opponent,result,date,event rows")
	flag.Parse()

	if strings.TrimSpace(*csvPath) == "" {
		log.Fatal("--csv is required")
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("open csv file: %v", err)
	}
	defer file.Close()

	rows, err := wrestlers.ParseMatchCSV(file)
	if err != nil {
		log.Fatalf("parse csv: %v", err)
	}

	ctx := context.Background()
	db, err := database.ConnectDB(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	n, err := wrestlers.NewPostgresRepository(db).AppendMatches(ctx, rows)
	if err != nil {
		log.Fatalf("import matches: %v", err)
	}

	fmt.Printf("Appended %d matches from %s\n", n, *csvPath)
}
