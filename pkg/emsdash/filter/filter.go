// Package filter derives filtered, resampled views from immutable
// datasets. A view is recomputed from scratch on every interaction; the
// cached dataset is never mutated.
package filter

import (
	"errors"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/karushp/ems-dashboard/pkg/emsdash/dataset"
)

// ErrInvalidDateRange indicates a spec whose start date is after its end.
var ErrInvalidDateRange = errors.New("invalid date range")

// Spec captures the user-selected constraints for one interaction. It is
// ephemeral and has no identity beyond the request that carries it.
type Spec struct {
	Start        time.Time
	End          time.Time
	BuildingType dataset.BuildingType
	Granularity  dataset.Granularity
	Industry     dataset.Industry
}

// Validate rejects unknown selectors and inverted date ranges. Zero
// Start/End mean "unbounded" on that side and are always valid.
func (s Spec) Validate() error {
	if _, err := dataset.ParseIndustry(string(s.Industry)); err != nil {
		return err
	}
	if _, err := dataset.ParseBuildingType(string(s.BuildingType)); err != nil {
		return err
	}
	if _, err := dataset.ParseGranularity(string(s.Granularity)); err != nil {
		return err
	}
	if !s.Start.IsZero() && !s.End.IsZero() && s.Start.After(s.End) {
		return fmt.Errorf("%w: start %s is after end %s",
			ErrInvalidDateRange, s.Start.Format("2006-01-02"), s.End.Format("2006-01-02"))
	}
	return nil
}

// View is the result of applying a Spec to a dataset: the matching
// records plus their resampled rows. An empty view is well formed and
// renders as a "no data" state downstream.
type View struct {
	Spec    Spec
	Records []dataset.EnergyRecord
	Rows    []Row
}

// Empty reports whether no records matched the spec.
func (v *View) Empty() bool {
	return len(v.Records) == 0
}

// Apply filters ds by date range (both bounds inclusive) and building
// type, then resamples to the requested granularity. Energy components
// are summed per bucket; contract power is averaged.
func Apply(ds *dataset.Dataset, spec Spec) (*View, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	wantType := ""
	if spec.BuildingType != dataset.AllBuildings {
		wantType = spec.BuildingType.Label()
	}

	var matched []dataset.EnergyRecord
	for _, r := range ds.Records {
		if !spec.Start.IsZero() && r.Date.Before(spec.Start) {
			continue
		}
		if !spec.End.IsZero() && r.Date.After(spec.End) {
			continue
		}
		if wantType != "" && r.BuildingType != wantType {
			continue
		}
		matched = append(matched, r)
	}

	view := &View{
		Spec:    spec,
		Records: matched,
		Rows:    resample(matched, spec.Granularity),
	}

	klog.V(4).InfoS("Applied filter",
		"region", ds.Region,
		"industry", ds.Industry,
		"granularity", spec.Granularity,
		"buildingType", spec.BuildingType,
		"matched", len(matched),
		"buckets", len(view.Rows))

	return view, nil
}
