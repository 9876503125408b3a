package wrestlers

import (
	"context"
	"errors"
	"time"

	"ringstats-backend/models"
)

var ErrNotFound = errors.New("wrestler not found")

// Repository is the datastore behind the wrestler routes. Every record it
// returns is already normalized and reshaped.
type Repository interface {
	List(ctx context.Context, search string) ([]models.Wrestler, error)
	Get(ctx context.Context, id string) (models.Wrestler, error)
	Daily(ctx context.Context, day time.Time) (models.Wrestler, error)
}
