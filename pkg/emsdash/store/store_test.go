package store

import (
	"os"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karushp/ems-dashboard/pkg/emsdash/clock"
	"github.com/karushp/ems-dashboard/pkg/emsdash/dataset"
)

func writeEnergyFixture(t *testing.T, dir string, region dataset.Region, industry dataset.Industry, records []dataset.EnergyRecord) {
	t.Helper()
	path := dataset.EnergyPath(dir, region, industry)
	require.NoError(t, parquet.WriteFile(path, records))
}

func record(day int, hour int32, total float64) dataset.EnergyRecord {
	return dataset.EnergyRecord{
		Date:         time.Date(2013, 1, day, 0, 0, 0, 0, time.UTC),
		Hour:         hour,
		BuildingType: "Single Building",
		AC:           total,
		Total:        total,
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeEnergyFixture(t, dir, dataset.RegionKansai, dataset.IndustryTransport, []dataset.EnergyRecord{
		record(1, 0, 10),
		record(2, 0, 20),
	})

	s := New(dir, nil)

	first, err := s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	require.NoError(t, err)
	second, err := s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	require.NoError(t, err)

	// Identity, not just equality: both calls see the same cached value.
	assert.Same(t, first, second)
	assert.Equal(t, 2, first.Len())

	hits, misses := s.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLoadReadsDiskOnce(t *testing.T) {
	dir := t.TempDir()
	writeEnergyFixture(t, dir, dataset.RegionKansai, dataset.IndustryTransport, []dataset.EnergyRecord{
		record(1, 0, 10),
	})

	s := New(dir, nil)
	first, err := s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	require.NoError(t, err)

	// Removing the file after the first load must not matter: the cache
	// is the only source from now on.
	require.NoError(t, os.Remove(dataset.EnergyPath(dir, dataset.RegionKansai, dataset.IndustryTransport)))

	second, err := s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestLoadUnknownKey(t *testing.T) {
	s := New(t.TempDir(), nil)

	_, err := s.Load("tohoku", dataset.IndustryTransport)
	assert.ErrorIs(t, err, dataset.ErrUnknownRegion)

	_, err = s.Load(dataset.RegionKansai, "retail")
	assert.ErrorIs(t, err, dataset.ErrUnknownIndustry)
}

func TestLoadMissingFile(t *testing.T) {
	s := New(t.TempDir(), nil)

	_, err := s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestLoadFailuresAreIndependent(t *testing.T) {
	dir := t.TempDir()
	writeEnergyFixture(t, dir, dataset.RegionKansai, dataset.IndustryTransport, []dataset.EnergyRecord{
		record(1, 0, 10),
	})
	// No kanto files on disk.

	s := New(dir, nil)

	_, err := s.Load(dataset.RegionKanto, dataset.IndustryTransport)
	require.ErrorIs(t, err, dataset.ErrNotFound)

	ds, err := s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestLoadCombined(t *testing.T) {
	dir := t.TempDir()
	writeEnergyFixture(t, dir, dataset.RegionKansai, dataset.IndustryTransport, []dataset.EnergyRecord{
		record(1, 0, 10),
	})
	writeEnergyFixture(t, dir, dataset.RegionKansai, dataset.IndustryWarehouse, []dataset.EnergyRecord{
		record(1, 0, 5),
		record(2, 0, 7),
	})

	s := New(dir, nil)

	combined, err := s.Load(dataset.RegionKansai, dataset.IndustryAll)
	require.NoError(t, err)
	assert.Equal(t, 3, combined.Len())

	industries := map[string]int{}
	for _, r := range combined.Records {
		industries[r.Industry]++
	}
	assert.Equal(t, 1, industries["transport"])
	assert.Equal(t, 2, industries["warehouse"])

	// The underlying industry datasets share cache entries with direct loads.
	transport, err := s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	require.NoError(t, err)
	assert.Equal(t, 1, transport.Len())
	hits, _ := s.Stats()
	assert.GreaterOrEqual(t, hits, int64(1))
}

func TestLoadCombinedMissingOneIndustry(t *testing.T) {
	dir := t.TempDir()
	writeEnergyFixture(t, dir, dataset.RegionKansai, dataset.IndustryTransport, []dataset.EnergyRecord{
		record(1, 0, 10),
	})

	s := New(dir, nil)

	_, err := s.Load(dataset.RegionKansai, dataset.IndustryAll)
	assert.ErrorIs(t, err, dataset.ErrNotFound)

	// The intact industry still loads on its own.
	_, err = s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	assert.NoError(t, err)
}

func TestLoadTemperature(t *testing.T) {
	dir := t.TempDir()
	path := dataset.TemperaturePath(dir, dataset.RegionKansai)
	require.NoError(t, parquet.WriteFile(path, []dataset.TemperatureRecord{
		{Date: time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC), Temperature: 4.2},
	}))

	s := New(dir, nil)

	first, err := s.LoadTemperature(dataset.RegionKansai)
	require.NoError(t, err)
	second, err := s.LoadTemperature(dataset.RegionKansai)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, first.Records, 1)

	_, err = s.LoadTemperature(dataset.RegionKanto)
	assert.ErrorIs(t, err, dataset.ErrNotFound)
}

func TestLoadedAtUsesClock(t *testing.T) {
	dir := t.TempDir()
	writeEnergyFixture(t, dir, dataset.RegionKansai, dataset.IndustryTransport, []dataset.EnergyRecord{
		record(1, 0, 10),
	})

	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s := New(dir, clock.NewMockClock(now))

	ds, err := s.Load(dataset.RegionKansai, dataset.IndustryTransport)
	require.NoError(t, err)
	assert.Equal(t, now, ds.LoadedAt)
}
