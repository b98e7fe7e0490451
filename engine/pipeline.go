package engine

import (
	"encoding/json"
	"time"

	"github.com/atakanbattal/Kademe-KYS-sub003/aggregate"
	"github.com/atakanbattal/Kademe-KYS-sub003/normalize"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// pipeline normalizes one domain's raw records and folds them into a summary.
// Summaries are returned as pointers so a cached value keeps its identity.
type pipeline func(records []json.RawMessage, now time.Time, revenueBaseline float64) (any, normalize.Stats)

var pipelines = map[quality.Domain]pipeline{
	quality.DomainCorrectiveAction: func(records []json.RawMessage, now time.Time, _ float64) (any, normalize.Stats) {
		actions, stats := normalize.All(records, now, normalize.CorrectiveAction)
		s := aggregate.CorrectiveActions(actions, now)
		return &s, stats
	},
	quality.DomainSupplier: func(records []json.RawMessage, now time.Time, _ float64) (any, normalize.Stats) {
		suppliers, stats := normalize.All(records, now, normalize.Supplier)
		s := aggregate.Suppliers(suppliers)
		return &s, stats
	},
	quality.DomainQualityCost: func(records []json.RawMessage, now time.Time, baseline float64) (any, normalize.Stats) {
		costs, stats := normalize.All(records, now, normalize.QualityCost)
		s := aggregate.QualityCosts(costs, baseline)
		return &s, stats
	},
	quality.DomainVehicle: func(records []json.RawMessage, now time.Time, _ float64) (any, normalize.Stats) {
		inspections, stats := normalize.All(records, now, normalize.VehicleInspection)
		s := aggregate.VehicleInspections(inspections)
		return &s, stats
	},
	quality.DomainAudit: func(records []json.RawMessage, now time.Time, _ float64) (any, normalize.Stats) {
		audits, stats := normalize.All(records, now, normalize.Audit)
		s := aggregate.Audits(audits)
		return &s, stats
	},
}

// zeroSummary is the fallback for a domain that has never computed successfully
func zeroSummary(d quality.Domain, now time.Time) any {
	switch d {
	case quality.DomainCorrectiveAction:
		s := aggregate.CorrectiveActions(nil, now)
		return &s
	case quality.DomainSupplier:
		s := aggregate.Suppliers(nil)
		return &s
	case quality.DomainQualityCost:
		s := aggregate.QualityCosts(nil, 0)
		return &s
	case quality.DomainVehicle:
		s := aggregate.VehicleInspections(nil)
		return &s
	case quality.DomainAudit:
		s := aggregate.Audits(nil)
		return &s
	}
	return nil
}
