package wrestlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"ringstats-backend/models"
)

// FileRepository serves a scraped wrestler database straight from disk. The
// file is read once; its top-level "wrestlers" value may be a list of records
// or an object keyed by wrestler id.
type FileRepository struct {
	wrestlers []models.Wrestler
	byID      map[string]int
}

func OpenFileRepository(path string) (*FileRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wrestler database: %w", err)
	}
	return NewFileRepository(data)
}

func NewFileRepository(data []byte) (*FileRepository, error) {
	records, err := DecodeDatabase(data)
	if err != nil {
		return nil, err
	}
	r := &FileRepository{
		wrestlers: make([]models.Wrestler, 0, len(records)),
		byID:      make(map[string]int, len(records)),
	}
	for _, w := range records {
		if _, dup := r.byID[w.ID]; dup {
			continue
		}
		r.byID[w.ID] = len(r.wrestlers)
		r.wrestlers = append(r.wrestlers, w)
	}
	return r, nil
}

// Record is one raw entry of a wrestler database file. Key is the object key
// it was stored under, empty for list entries.
type Record struct {
	Key string
	Raw json.RawMessage
}

// ReadDatabase splits a wrestler database file into its raw records, keeping
// file order.
func ReadDatabase(data []byte) ([]Record, error) {
	var doc struct {
		Wrestlers json.RawMessage `json:"wrestlers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode wrestler database: %w", err)
	}
	raw := bytes.TrimSpace(doc.Wrestlers)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Record{}, nil
	}

	var out []Record
	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("decode wrestler list: %w", err)
		}
		for _, item := range items {
			out = append(out, Record{Raw: item})
		}
	case '{':
		dec := json.NewDecoder(bytes.NewReader(raw))
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("decode wrestler object: %w", err)
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("decode wrestler key: %w", err)
			}
			key, _ := tok.(string)
			var item json.RawMessage
			if err := dec.Decode(&item); err != nil {
				return nil, fmt.Errorf("decode wrestler %q: %w", key, err)
			}
			out = append(out, Record{Key: key, Raw: item})
		}
	default:
		return nil, fmt.Errorf("decode wrestler database: wrestlers must be a list or an object")
	}
	return out, nil
}

// DecodeDatabase decodes and normalizes every record in a wrestler database
// file. Object keys become the id of records that carry none.
func DecodeDatabase(data []byte) ([]models.Wrestler, error) {
	records, err := ReadDatabase(data)
	if err != nil {
		return nil, err
	}
	out := make([]models.Wrestler, 0, len(records))
	for i, rec := range records {
		w, err := decodeRecord(rec.Raw, rec.Key)
		if err != nil {
			if rec.Key != "" {
				return nil, fmt.Errorf("wrestler %q: %w", rec.Key, err)
			}
			return nil, fmt.Errorf("wrestler %d: %w", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func decodeRecord(item json.RawMessage, fallbackID string) (models.Wrestler, error) {
	rec, err := DecodeRaw(item)
	if err != nil {
		return models.Wrestler{}, err
	}
	w := Normalize(rec)
	if w.ID == "" {
		w.ID = fallbackID
	}
	return w, nil
}

func (r *FileRepository) List(ctx context.Context, search string) ([]models.Wrestler, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Wrestler, 0, len(r.wrestlers))
	for _, w := range r.wrestlers {
		if needle != "" && !strings.Contains(strings.ToLower(w.Name), needle) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (r *FileRepository) Get(ctx context.Context, id string) (models.Wrestler, error) {
	if err := ctx.Err(); err != nil {
		return models.Wrestler{}, err
	}
	idx, ok := r.byID[id]
	if !ok {
		return models.Wrestler{}, ErrNotFound
	}
	return r.wrestlers[idx], nil
}

// Daily rotates through the collection one record per calendar day.
func (r *FileRepository) Daily(ctx context.Context, day time.Time) (models.Wrestler, error) {
	if err := ctx.Err(); err != nil {
		return models.Wrestler{}, err
	}
	if len(r.wrestlers) == 0 {
		return models.Wrestler{}, ErrNotFound
	}
	y, m, d := day.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return r.wrestlers[int(days%int64(len(r.wrestlers)))], nil
}

var _ Repository = (*FileRepository)(nil)
