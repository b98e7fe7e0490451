package normalize

import (
	"encoding/json"
	"time"
)

// Func is the signature shared by the per-domain converters
type Func[T any] func(json.RawMessage, time.Time) (T, Report, error)

// Stats summarizes a batch conversion
type Stats struct {
	Records int `json:"records"`
	Skipped int `json:"skipped"`
	Misses  int `json:"misses"`
	Invalid int `json:"invalid"`
}

// All converts every record with fn. Malformed records are skipped and counted; the
// relative order of the remaining records is preserved.
func All[T any](records []json.RawMessage, now time.Time, fn Func[T]) ([]T, Stats) {
	out := make([]T, 0, len(records))
	var stats Stats
	for _, rec := range records {
		entity, rep, err := fn(rec, now)
		if err != nil {
			stats.Skipped++
			continue
		}
		stats.Records++
		stats.Misses += len(rep.Misses)
		stats.Invalid += len(rep.Invalid)
		out = append(out, entity)
	}
	return out, stats
}
