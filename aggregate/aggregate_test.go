package aggregate

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atakanbattal/Kademe-KYS-sub003/normalize"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

var refTime = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func rawRecords(t *testing.T, doc string) []json.RawMessage {
	t.Helper()
	var records []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(doc), &records))
	return records
}

func TestCorrectiveActions_Scenario(t *testing.T) {
	records := rawRecords(t, `[
		{"status":"closed","createdDate":"2024-01-05","closedDate":"2024-01-18","dueDate":"2024-01-20"},
		{"status":"open","createdDate":"2024-03-01","dueDate":"2024-02-20"}
	]`)
	actions, _ := normalize.All(records, refTime, normalize.CorrectiveAction)

	s := CorrectiveActions(actions, refTime)

	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Closed)
	assert.Equal(t, 1, s.Open)
	assert.Equal(t, 1, s.Overdue)
	assert.Equal(t, float64(50), s.ClosureRate)
	assert.Equal(t, float64(13), s.AverageClosureTime)
}

func TestQualityCosts_Scenario(t *testing.T) {
	records := rawRecords(t, `[{"maliyetTuru":"hurda","maliyet":1000},{"maliyetTuru":"garanti","maliyet":500}]`)
	costs, _ := normalize.All(records, refTime, normalize.QualityCost)

	s := QualityCosts(costs, 0)

	assert.True(t, s.TotalCost.Equal(decimal.NewFromInt(1500)), s.TotalCost.String())
	assert.True(t, s.ScrapCost.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.WarrantyCost.Equal(decimal.NewFromInt(500)))
	assert.True(t, s.ReworkCost.IsZero())
	assert.Zero(t, s.CostRatio)
	assert.True(t, s.ByCategory(quality.CostScrap).Equal(s.ScrapCost))
}

func TestQualityCosts_RatioAgainstBaseline(t *testing.T) {
	costs := []quality.QualityCost{
		{Category: quality.CostRework, Cost: decimal.RequireFromString("250.10"), Department: "Kaynak"},
		{Category: quality.CostRework, Cost: decimal.RequireFromString("249.90"), Department: "Kaynak", CorrectiveActionID: "D1"},
	}
	s := QualityCosts(costs, 10000)
	assert.Equal(t, "500", s.TotalCost.String())
	assert.InDelta(t, 5.0, s.CostRatio, 1e-9)
	assert.Equal(t, "500", s.ByDepartment["Kaynak"].String())
	assert.Equal(t, 1, s.LinkedToDOF)

	assert.Equal(t, float64(100), QualityCosts(costs, 10).CostRatio)
}

func TestEmptyInputsAreZero(t *testing.T) {
	ca := CorrectiveActions(nil, refTime)
	assert.Zero(t, ca.ClosureRate)
	assert.Zero(t, ca.AverageClosureTime)

	sup := Suppliers(nil)
	assert.Zero(t, sup.AvgRating)
	assert.Zero(t, sup.RejectionRate)

	veh := VehicleInspections(nil)
	assert.Zero(t, veh.DefectRate)
	assert.Zero(t, veh.InspectionCompliance)

	aud := Audits(nil)
	assert.Zero(t, aud.ComplianceRate)
	assert.Zero(t, aud.AvgScore)
	assert.Zero(t, aud.EffectivenessRate)

	cost := QualityCosts(nil, 1000)
	assert.True(t, cost.TotalCost.IsZero())

	b, err := json.Marshal(ca)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "NaN")
}

func randomActions(r *rand.Rand, n int) []quality.CorrectiveAction {
	statuses := []quality.ActionStatus{
		quality.ActionOpen, quality.ActionInProgress, quality.ActionAwaitingApproval,
		quality.ActionOverdue, quality.ActionClosed, quality.ActionRejected,
	}
	out := make([]quality.CorrectiveAction, n)
	for i := range out {
		opening := refTime.AddDate(0, 0, -r.Intn(120))
		a := quality.CorrectiveAction{
			Status:      statuses[r.Intn(len(statuses))],
			OpeningDate: opening,
			DueDate:     opening.AddDate(0, 0, r.Intn(60)),
		}
		if a.IsClosed() {
			closed := opening.AddDate(0, 0, r.Intn(40))
			a.ClosedDate = &closed
		}
		out[i] = a
	}
	return out
}

func TestCorrectiveActions_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		s := CorrectiveActions(randomActions(r, r.Intn(30)), refTime)
		require.Equal(t, s.Total, s.Open+s.Closed)
		require.GreaterOrEqual(t, s.ClosureRate, 0.0)
		require.LessOrEqual(t, s.ClosureRate, 100.0)
		require.LessOrEqual(t, s.Overdue, s.Open)
	}
}

func TestSuppliers_Properties(t *testing.T) {
	statuses := []quality.SupplierStatus{
		quality.SupplierApproved, quality.SupplierAlternative,
		quality.SupplierUnderEvaluation, quality.SupplierSuspended,
	}
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := r.Intn(20)
		sups := make([]quality.Supplier, n)
		for j := range sups {
			sups[j] = quality.Supplier{
				Status:           statuses[r.Intn(len(statuses))],
				Rating:           math.Round(r.Float64()*50) / 10,
				DeliveredQty:     float64(r.Intn(1000)),
				NonConformingQty: float64(r.Intn(50)),
			}
		}
		s := Suppliers(sups)
		require.Equal(t, s.Total, s.Approved+s.Alternative+s.UnderEvaluation+s.Suspended)
		require.LessOrEqual(t, s.RejectionRate, 100.0)

		withUnrated := Suppliers(append(sups, quality.Supplier{Status: quality.SupplierApproved}))
		require.Equal(t, s.AvgRating, withUnrated.AvgRating)
	}
}

func TestSuppliers(t *testing.T) {
	s := Suppliers([]quality.Supplier{
		{Status: quality.SupplierApproved, Rating: 4, DeliveredQty: 900, NonConformingQty: 9, RiskLevel: quality.RiskHigh},
		{Status: quality.SupplierApproved, Rating: 0, DeliveredQty: 100, NonConformingQty: 1},
		{Status: quality.SupplierAlternative, Rating: 3},
		{Status: quality.SupplierSuspended},
	})
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Approved)
	assert.Equal(t, 1, s.Alternative)
	assert.Equal(t, 1, s.Suspended)
	assert.Equal(t, 1, s.HighRisk)
	assert.Equal(t, 2, s.Rated)
	assert.Equal(t, 3.5, s.AvgRating)
	assert.InDelta(t, 1.0, s.RejectionRate, 1e-9)
}

func TestVehicleInspections(t *testing.T) {
	s := VehicleInspections([]quality.VehicleInspection{
		{Outcome: quality.OutcomePass},
		{Outcome: quality.OutcomeFail, Defects: []quality.Defect{{RepeatCount: 2}, {RepeatCount: 1, Resolved: true}}},
		{Outcome: quality.OutcomeConditional, Defects: []quality.Defect{{RepeatCount: 1, Resolved: true}}},
		{Outcome: quality.OutcomePass, Defects: []quality.Defect{{RepeatCount: 1, Resolved: true}}},
	})
	assert.Equal(t, 5, s.TotalDefects)
	assert.Equal(t, 1, s.UnresolvedDefects)
	assert.Equal(t, float64(100), s.DefectRate)
	assert.Equal(t, float64(75), s.InspectionCompliance)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Conditional)
}

func TestAudits(t *testing.T) {
	score := func(v float64) *float64 { return &v }
	s := Audits([]quality.Audit{
		{Status: quality.AuditCompleted, Score: score(80), Findings: []quality.Finding{
			{CorrectiveActions: []quality.FindingAction{{Completed: true}, {Completed: false}}},
			{},
		}},
		{Status: quality.AuditCompleted, Score: score(90), Findings: []quality.Finding{
			{CorrectiveActions: []quality.FindingAction{{Completed: true}, {Completed: true}}},
		}},
		{Status: quality.AuditPending},
		{Status: quality.AuditInProgress},
	})
	assert.Equal(t, float64(50), s.ComplianceRate)
	assert.Equal(t, float64(85), s.AvgScore)
	assert.Equal(t, 2, s.Scored)
	assert.Equal(t, 3, s.TotalFindings)
	assert.Equal(t, 4, s.TotalCorrectiveActions)
	assert.Equal(t, float64(75), s.EffectivenessRate)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.InProgress)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, float64(0), Percent(5, 0))
	assert.Equal(t, float64(0), Percent(5, -1))
	assert.Equal(t, float64(0), Percent(math.NaN(), 10))
	assert.Equal(t, float64(0), Percent(5, math.Inf(1)))
	assert.Equal(t, float64(100), Percent(30, 10))
	assert.Equal(t, float64(0), Percent(-3, 10))
	assert.Equal(t, float64(25), Percent(1, 4))
	assert.Equal(t, 33.33, Round2(Percent(1, 3)))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		target   float64
		warn     float64
		higher   bool
		expected Health
	}{
		{"higher at target", 90, 90, 0.1, true, HealthGood},
		{"higher within warning band", 82, 90, 0.1, true, HealthWarning},
		{"higher near warning edge", 81.5, 90, 0.1, true, HealthWarning},
		{"higher below band", 80, 90, 0.1, true, HealthCritical},
		{"lower at target", 2, 2, 0.25, false, HealthGood},
		{"lower within band", 2.5, 2, 0.25, false, HealthWarning},
		{"lower above band", 2.6, 2, 0.25, false, HealthCritical},
		{"zero warning band", 89.9, 90, 0, true, HealthCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.current, tt.target, tt.warn, tt.higher))
		})
	}
}
