package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"ringstats-backend/config"
	"ringstats-backend/database"
	"ringstats-backend/logger"
	"ringstats-backend/news"
)

func main() {
	logger.Init()

	var (
		sourceIDs = flag.String("sources", "", "Comma-separated source ids to ingest (default all active)")
		timeout   = flag.Duration("timeout", 5*time.Minute, "Abort the run after this long")
	)
	flag.Parse()

	ids, err := parseIDs(*sourceIDs)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := news.NewPostgresRepository(db, news.Scorer(cfg.Credibility))
	fetcher := news.NewFetcher(news.FetcherOptions{
		Timeout:       20 * time.Second,
		HostInterval:  time.Second,
		RespectRobots: true,
	})
	ingester := news.NewIngester(repo, fetcher, news.NewThumbnailFinder(fetcher, 2048))

	result, err := ingester.Run(ctx, ids)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	fmt.Printf("Run %s: %d sources, %d inserted, %d failed\n", result.RunID, result.Sources, result.Inserted, result.Failed)
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid source id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
