package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// EnergyPath returns the expected file path for a (region, industry)
// pair under the data directory.
func EnergyPath(dir string, region Region, industry Industry) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.parquet", region, industry))
}

// TemperaturePath returns the expected temperature file path for a region.
func TemperaturePath(dir string, region Region) string {
	return filepath.Join(dir, fmt.Sprintf("temperature_%s.parquet", region))
}

// ReadEnergyFile reads a processed energy Parquet file. Records are
// returned ordered by (date, hour); per-building timestamp ordering is
// preserved by the stable sort.
func ReadEnergyFile(path string) ([]EnergyRecord, error) {
	rows, err := parquet.ReadFile[EnergyRecord](path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, path, err)
	}
	if err := validateEnergyRecords(path, rows); err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Hour < rows[j].Hour
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

// ReadTemperatureFile reads a regional temperature Parquet file ordered
// by date.
func ReadTemperatureFile(path string) ([]TemperatureRecord, error) {
	rows, err := parquet.ReadFile[TemperatureRecord](path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSchemaMismatch, path, err)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows, nil
}

// validateEnergyRecords enforces the value-range part of the schema:
// consumption components are non-negative and hours are 0-23. A file
// violating these is treated the same as one with wrong columns.
func validateEnergyRecords(path string, rows []EnergyRecord) error {
	for i := range rows {
		r := &rows[i]
		if r.Hour < 0 || r.Hour > 23 {
			return fmt.Errorf("%w: %s: row %d has hour %d", ErrSchemaMismatch, path, i, r.Hour)
		}
		for name, v := range r.Components() {
			if v < 0 {
				return fmt.Errorf("%w: %s: row %d has negative %s", ErrSchemaMismatch, path, i, name)
			}
		}
	}
	return nil
}
