package favorites

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringstats-backend/models"
)

func wrestler(id, name string) models.Wrestler {
	return models.Wrestler{ID: id, Name: name, AverageRating: 8.5}
}

func TestStoreAddRemove(t *testing.T) {
	ctx := context.Background()
	port := &MemoryPersistence{}
	s, err := Open(ctx, port)
	require.NoError(t, err)

	require.NoError(t, s.Add(ctx, wrestler("1", "Gunther")))
	require.NoError(t, s.Add(ctx, wrestler("2", "Cody Rhodes")))
	assert.Len(t, s.List(), 2)
	assert.True(t, s.Contains("1"))

	err = s.Add(ctx, wrestler("1", "Gunther"))
	require.ErrorIs(t, err, ErrDuplicate)
	assert.Len(t, s.List(), 2)

	require.NoError(t, s.Remove(ctx, "1"))
	assert.False(t, s.Contains("1"))
	assert.Equal(t, []models.Wrestler{wrestler("2", "Cody Rhodes")}, s.List())
}

func TestStoreRemoveAfterAddRestoresState(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &MemoryPersistence{})
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, wrestler("1", "Gunther")))

	before := s.List()
	require.NoError(t, s.Add(ctx, wrestler("9", "Okada")))
	require.NoError(t, s.Remove(ctx, "9"))
	assert.Equal(t, before, s.List())
}

func TestStoreRemoveAbsentStillPersists(t *testing.T) {
	ctx := context.Background()
	port := &MemoryPersistence{}
	s, err := Open(ctx, port)
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "missing"))
	assert.Equal(t, 1, port.Saves)
	assert.Empty(t, s.List())
}

func TestStoreListIsACopy(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &MemoryPersistence{})
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, wrestler("1", "Gunther")))

	list := s.List()
	list[0].Name = "changed"
	assert.Equal(t, "Gunther", s.List()[0].Name)
}

type failingPersistence struct {
	MemoryPersistence
	fail bool
}

func (f *failingPersistence) Save(ctx context.Context, favorites []models.Wrestler) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.MemoryPersistence.Save(ctx, favorites)
}

func TestStoreKeepsStateWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	port := &failingPersistence{}
	s, err := Open(ctx, port)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, wrestler("1", "Gunther")))

	port.fail = true
	require.Error(t, s.Add(ctx, wrestler("2", "Cody Rhodes")))
	require.Error(t, s.Remove(ctx, "1"))
	assert.Equal(t, []models.Wrestler{wrestler("1", "Gunther")}, s.List())
}

func TestStoreConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	port := &MemoryPersistence{}
	s, err := Open(ctx, port)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Add(ctx, wrestler(fmt.Sprint(i%10), "W"))
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.List(), 10)
	saved, err := port.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, saved, 10)
}

func TestFilePersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	port := FilePersistence{Path: filepath.Join(t.TempDir(), "nested", "favorites.json")}

	empty, err := port.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	s, err := Open(ctx, port)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, wrestler("1", "Gunther")))

	reopened, err := Open(ctx, port)
	require.NoError(t, err)
	assert.Equal(t, s.List(), reopened.List())
}

func TestRedisPersistence(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	port := RedisPersistence{Client: client, Key: "favorites:7"}
	s, err := Open(ctx, port)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, wrestler("1", "Gunther")))

	raw, err := mr.Get("favorites:7")
	require.NoError(t, err)
	assert.Contains(t, raw, `"name":"Gunther"`)

	reopened, err := Open(ctx, port)
	require.NoError(t, err)
	assert.Equal(t, s.List(), reopened.List())
}

func TestSQLitePersistence(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "favorites.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	a, err := Open(ctx, db.Port("user:1"))
	require.NoError(t, err)
	b, err := Open(ctx, db.Port("user:2"))
	require.NoError(t, err)

	require.NoError(t, a.Add(ctx, wrestler("1", "Gunther")))
	require.NoError(t, a.Add(ctx, wrestler("2", "Cody Rhodes")))
	require.NoError(t, b.Add(ctx, wrestler("3", "Okada")))
	require.NoError(t, a.Remove(ctx, "1"))

	reopened, err := Open(ctx, db.Port("user:1"))
	require.NoError(t, err)
	assert.Equal(t, []models.Wrestler{wrestler("2", "Cody Rhodes")}, reopened.List())

	other, err := Open(ctx, db.Port("user:2"))
	require.NoError(t, err)
	assert.Len(t, other.List(), 1)
}

func TestRegistryOpensOncePerKey(t *testing.T) {
	ctx := context.Background()
	opened := map[string]int{}
	r := NewRegistry(func(key string) Persistence {
		opened[key]++
		return &MemoryPersistence{}
	})

	a1, err := r.Get(ctx, "a")
	require.NoError(t, err)
	a2, err := r.Get(ctx, "a")
	require.NoError(t, err)
	b, err := r.Get(ctx, "b")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, map[string]int{"a": 1, "b": 1}, opened)
}
