package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/heartmonitor/internal/domain"
	"example.com/heartmonitor/internal/persistence"
)

func TestMissingFileLoadsEmptySeries(t *testing.T) {
	backend, err := NewBackend(filepath.Join(t.TempDir(), "data", "data.json"))
	require.NoError(t, err)

	store, err := persistence.Open(context.Background(), backend)
	require.NoError(t, err)
	require.Equal(t, 0, store.All().Len())
}

func TestAppendPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	backend, err := NewBackend(path)
	require.NoError(t, err)
	store, err := persistence.Open(context.Background(), backend)
	require.NoError(t, err)

	base := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	for i, hr := range []float64{45, 90, 150.5} {
		require.NoError(t, store.Append(context.Background(), domain.Reading{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			HeartRate: hr,
		}))
	}

	var doc struct {
		Timestamps []string  `json:"timestamps"`
		HeartRates []float64 `json:"heart_rates"`
	}
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, []string{"2024-03-01T08:00:00Z", "2024-03-01T08:01:00Z", "2024-03-01T08:02:00Z"}, doc.Timestamps)
	require.Equal(t, []float64{45, 90, 150.5}, doc.HeartRates)

	reopened, err := NewBackend(path)
	require.NoError(t, err)
	reloaded, err := persistence.Open(context.Background(), reopened)
	require.NoError(t, err)
	require.Equal(t, store.All(), reloaded.All())

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".data.json-*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestLoadsLegacyZonelessTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	legacy := `{"timestamps":["2023-11-02T09:15:00","2023-11-02T09:16:00"],"heart_rates":[72,155]}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	backend, err := NewBackend(path)
	require.NoError(t, err)
	series, err := backend.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, series.Len())
	require.Equal(t, time.Date(2023, time.November, 2, 9, 16, 0, 0, time.UTC), series.Timestamps[1])
	require.Equal(t, 155.0, series.HeartRates[1])
}

func TestCorruptStateIsStorageError(t *testing.T) {
	cases := map[string]string{
		"not json":        `{"timestamps": [`,
		"length mismatch": `{"timestamps":["2024-03-01T08:00:00Z"],"heart_rates":[]}`,
		"bad timestamp":   `{"timestamps":["yesterday"],"heart_rates":[70]}`,
		"null heart rate": `{"timestamps":["2024-03-01T08:00:00Z"],"heart_rates":[null]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			backend, err := NewBackend(path)
			require.NoError(t, err)

			_, err = persistence.Open(context.Background(), backend)
			var serr *domain.StorageError
			require.ErrorAs(t, err, &serr)
			require.Equal(t, domain.StorageCorrupt, serr.Kind)
		})
	}
}

func TestFailedWriteKeepsPreviousDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")
	backend, err := NewBackend(path)
	require.NoError(t, err)
	store, err := persistence.Open(context.Background(), backend)
	require.NoError(t, err)
	require.NoError(t, store.Append(context.Background(), domain.Reading{Timestamp: time.Now().UTC(), HeartRate: 70}))

	// A non-empty directory at the data path makes the final rename fail.
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o644))

	err = store.Append(context.Background(), domain.Reading{Timestamp: time.Now().UTC(), HeartRate: 71})
	require.ErrorIs(t, err, domain.ErrStorage)
	require.Equal(t, 1, store.All().Len())

	leftovers, err := filepath.Glob(filepath.Join(dir, ".data.json-*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestWriteAtomicSyncsParentDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.json")

	require.NoError(t, writeAtomic(path, []byte(`{"timestamps":[],"heart_rates":[]}`)))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"timestamps":[],"heart_rates":[]}`, string(raw))

	require.NoError(t, syncDir(dir))
	require.Error(t, syncDir(filepath.Join(dir, "missing")))
}
