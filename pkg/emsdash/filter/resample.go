package filter

import (
	"sort"
	"time"

	"github.com/karushp/ems-dashboard/pkg/emsdash/dataset"
)

// Row is one resampled bucket of a view. Bucket is the bucket label:
// the calendar date for daily, the Monday of the ISO week for weekly,
// and the first of the month for monthly.
type Row struct {
	Bucket time.Time `json:"bucket"`

	AC            float64 `json:"ac"`
	Lighting      float64 `json:"lighting"`
	Power         float64 `json:"power"`
	Lamp          float64 `json:"lamp"`
	Refrigeration float64 `json:"refrigeration"`
	Other         float64 `json:"other"`
	Total         float64 `json:"total"`

	ContractPower float64 `json:"contractPower"` // mean over bucket

	Temperature    float64 `json:"temperature,omitempty"` // mean, when joined
	HasTemperature bool    `json:"hasTemperature"`

	Records int `json:"records"`
}

// BucketStart maps a record date to its bucket label for a granularity.
func BucketStart(g dataset.Granularity, t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	switch g {
	case dataset.Weekly:
		// ISO weeks run Monday through Sunday; label by the Monday.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case dataset.Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

type accumulator struct {
	row        Row
	powerSum   float64
	powerCount int
}

func resample(records []dataset.EnergyRecord, g dataset.Granularity) []Row {
	buckets := make(map[time.Time]*accumulator)
	for _, r := range records {
		key := BucketStart(g, r.Date)
		acc, ok := buckets[key]
		if !ok {
			acc = &accumulator{row: Row{Bucket: key}}
			buckets[key] = acc
		}
		acc.row.AC += r.AC
		acc.row.Lighting += r.Lighting
		acc.row.Power += r.Power
		acc.row.Lamp += r.Lamp
		acc.row.Refrigeration += r.Refrigeration
		acc.row.Other += r.Other
		acc.row.Total += r.Total
		acc.row.Records++
		acc.powerSum += r.ContractPower
		acc.powerCount++
	}

	rows := make([]Row, 0, len(buckets))
	for _, acc := range buckets {
		if acc.powerCount > 0 {
			acc.row.ContractPower = acc.powerSum / float64(acc.powerCount)
		}
		rows = append(rows, acc.row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Bucket.Before(rows[j].Bucket)
	})
	return rows
}

// JoinTemperature attaches bucket-mean ambient temperatures to the
// resampled rows of a view. Buckets with no temperature data keep
// HasTemperature false; the join never fails.
func JoinTemperature(view *View, series *dataset.TemperatureSeries) {
	if view == nil || series == nil || len(view.Rows) == 0 {
		return
	}

	type tempAgg struct {
		sum   float64
		count int
	}
	byBucket := make(map[time.Time]*tempAgg)
	for _, tr := range series.Records {
		key := BucketStart(view.Spec.Granularity, tr.Date)
		agg, ok := byBucket[key]
		if !ok {
			agg = &tempAgg{}
			byBucket[key] = agg
		}
		agg.sum += tr.Temperature
		agg.count++
	}

	for i := range view.Rows {
		if agg, ok := byBucket[view.Rows[i].Bucket]; ok && agg.count > 0 {
			view.Rows[i].Temperature = agg.sum / float64(agg.count)
			view.Rows[i].HasTemperature = true
		}
	}
}
