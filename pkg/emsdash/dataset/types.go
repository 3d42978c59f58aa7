package dataset

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Region identifies one of the covered Japanese regions.
type Region string

// Industry identifies a facility category within a region.
type Industry string

// BuildingType selects a facility subtype, or AllBuildings for no filter.
type BuildingType string

// Granularity is the temporal resampling unit for filtered views.
type Granularity string

const (
	RegionKansai Region = "kansai"
	RegionKanto  Region = "kanto"

	IndustryTransport Industry = "transport"
	IndustryWarehouse Industry = "warehouse"
	// IndustryAll combines transport and warehouse data for a region.
	IndustryAll Industry = "all"

	AllBuildings   BuildingType = "all"
	SingleBuilding BuildingType = "single-building"
	Tenant         BuildingType = "tenant"

	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

var (
	// ErrNotFound indicates a dataset file is missing for a known key.
	ErrNotFound = errors.New("dataset file not found")
	// ErrSchemaMismatch indicates a dataset file has unexpected columns,
	// types or out-of-range values.
	ErrSchemaMismatch = errors.New("dataset schema mismatch")

	ErrUnknownRegion       = errors.New("unknown region")
	ErrUnknownIndustry     = errors.New("unknown industry")
	ErrUnknownBuildingType = errors.New("unknown building type")
	ErrUnknownGranularity  = errors.New("unknown granularity")
)

// Regions lists the regions datasets exist for.
func Regions() []Region {
	return []Region{RegionKansai, RegionKanto}
}

// Industries lists selectable industries, including the combined view.
func Industries() []Industry {
	return []Industry{IndustryAll, IndustryTransport, IndustryWarehouse}
}

// ParseRegion validates a region selector.
func ParseRegion(s string) (Region, error) {
	switch Region(strings.ToLower(s)) {
	case RegionKansai:
		return RegionKansai, nil
	case RegionKanto:
		return RegionKanto, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
}

// ParseIndustry validates an industry selector. Anything other than
// transport, warehouse or all is rejected rather than treated as all.
func ParseIndustry(s string) (Industry, error) {
	switch Industry(strings.ToLower(s)) {
	case IndustryTransport:
		return IndustryTransport, nil
	case IndustryWarehouse:
		return IndustryWarehouse, nil
	case IndustryAll:
		return IndustryAll, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIndustry, s)
}

// ParseBuildingType validates a building type selector.
func ParseBuildingType(s string) (BuildingType, error) {
	switch BuildingType(strings.ToLower(s)) {
	case AllBuildings:
		return AllBuildings, nil
	case SingleBuilding:
		return SingleBuilding, nil
	case Tenant:
		return Tenant, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBuildingType, s)
}

// ParseGranularity validates a time aggregation selector.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(strings.ToLower(s)) {
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

// Label returns the display form of a building type as stored in the
// building_type column.
func (b BuildingType) Label() string {
	switch b {
	case SingleBuilding:
		return "Single Building"
	case Tenant:
		return "Tenant"
	}
	return "All"
}

// EnergyRecord is one hourly measurement row of a processed dataset.
type EnergyRecord struct {
	Date          time.Time `parquet:"date,timestamp" json:"date"`
	Hour          int32     `parquet:"hour" json:"hour"`
	BuildingID    string    `parquet:"building_id" json:"buildingId"`
	BuildingType  string    `parquet:"building_type" json:"buildingType"`
	FloorArea     float64   `parquet:"floor_area" json:"floorArea"`
	ContractPower float64   `parquet:"contract_power" json:"contractPower"`

	AC            float64 `parquet:"ac" json:"ac"`
	Lighting      float64 `parquet:"lighting" json:"lighting"`
	Power         float64 `parquet:"power" json:"power"`
	Lamp          float64 `parquet:"lamp" json:"lamp"`
	Refrigeration float64 `parquet:"refrigeration" json:"refrigeration"`
	Other         float64 `parquet:"other" json:"other"`
	Total         float64 `parquet:"total" json:"total"`

	IsWeekend          bool   `parquet:"is_weekend" json:"isWeekend"`
	Weekday            int32  `parquet:"weekday" json:"weekday"` // 0=Monday
	Month              int32  `parquet:"month" json:"month"`
	LoadSignatureClass string `parquet:"load_signature_class,optional" json:"loadSignatureClass,omitempty"`
	ClusterClass       string `parquet:"cluster_class,optional" json:"clusterClass,omitempty"`

	// Industry is attached at load time for combined views, not stored.
	Industry string `parquet:"-" json:"industry,omitempty"`
}

// Components returns the per-component consumption values keyed by the
// canonical component names.
func (r *EnergyRecord) Components() map[string]float64 {
	return map[string]float64{
		"AC":            r.AC,
		"Lighting":      r.Lighting,
		"Power":         r.Power,
		"Lamp":          r.Lamp,
		"Refrigeration": r.Refrigeration,
		"Other":         r.Other,
	}
}

// ComponentNames is the canonical ordering of energy components.
var ComponentNames = []string{"AC", "Lighting", "Power", "Lamp", "Refrigeration", "Other"}

// TemperatureRecord is one daily ambient temperature measurement.
type TemperatureRecord struct {
	Date        time.Time `parquet:"date,timestamp" json:"date"`
	Temperature float64   `parquet:"temperature" json:"temperature"`
}

// Dataset is the immutable, file-backed record collection for one
// (region, industry) pair. It is loaded once per process and never
// mutated; filtering always derives a new view.
type Dataset struct {
	Region   Region
	Industry Industry
	Records  []EnergyRecord
	Path     string
	LoadedAt time.Time
}

// Len returns the record count.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// DateRange returns the first and last record dates. ok is false for an
// empty dataset.
func (d *Dataset) DateRange() (min, max time.Time, ok bool) {
	if len(d.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = d.Records[0].Date, d.Records[0].Date
	for _, r := range d.Records[1:] {
		if r.Date.Before(min) {
			min = r.Date
		}
		if r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, true
}

// TemperatureSeries is the immutable temperature table for one region.
type TemperatureSeries struct {
	Region   Region
	Records  []TemperatureRecord
	Path     string
	LoadedAt time.Time
}
