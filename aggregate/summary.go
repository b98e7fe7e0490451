package aggregate

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// CorrectiveActionSummary is the DOF/8D fold. Open counts every record that is not closed,
// rejected ones included.
type CorrectiveActionSummary struct {
	Total              int                          `json:"total"`
	Open               int                          `json:"open"`
	Closed             int                          `json:"closed"`
	Overdue            int                          `json:"overdue"`
	Critical           int                          `json:"critical"`
	ClosureRate        float64                      `json:"closureRate"`
	AverageClosureTime float64                      `json:"averageClosureTime"`
	ByStatus           map[quality.ActionStatus]int `json:"byStatus"`
	BySeverity         map[quality.Severity]int     `json:"bySeverity"`
	ByType             map[quality.ActionType]int   `json:"byType"`
	ByDepartment       map[string]int               `json:"byDepartment"`
}

// CorrectiveActions folds actions at reference time ref. An action is overdue when it is not
// closed and its due date is before ref. AverageClosureTime is the mean closure duration in
// whole days over closed actions.
func CorrectiveActions(actions []quality.CorrectiveAction, ref time.Time) CorrectiveActionSummary {
	s := CorrectiveActionSummary{
		Total:        len(actions),
		ByStatus:     make(map[quality.ActionStatus]int),
		BySeverity:   make(map[quality.Severity]int),
		ByType:       make(map[quality.ActionType]int),
		ByDepartment: make(map[string]int),
	}
	var closureDays []float64
	for _, a := range actions {
		s.ByStatus[a.Status]++
		s.BySeverity[a.Severity]++
		s.ByType[a.Type]++
		if a.Department != "" {
			s.ByDepartment[a.Department]++
		}
		if a.Severity == quality.SeverityCritical {
			s.Critical++
		}
		if a.IsClosed() {
			s.Closed++
			if a.ClosedDate != nil {
				closureDays = append(closureDays, wholeDays(a.ClosedDate.Sub(a.OpeningDate)))
			}
			continue
		}
		if a.DueDate.Before(ref) {
			s.Overdue++
		}
	}
	s.Open = s.Total - s.Closed
	s.ClosureRate = Percent(float64(s.Closed), float64(s.Total))
	s.AverageClosureTime = math.Round(Mean(closureDays))
	return s
}

func wholeDays(d time.Duration) float64 {
	if d < 0 {
		return 0
	}
	return math.Round(d.Hours() / 24)
}

// SupplierSummary is the supplier scorecard fold
type SupplierSummary struct {
	Total           int     `json:"total"`
	Approved        int     `json:"approved"`
	Alternative     int     `json:"alternative"`
	UnderEvaluation int     `json:"underEvaluation"`
	Suspended       int     `json:"suspended"`
	HighRisk        int     `json:"highRisk"`
	Rated           int     `json:"rated"`
	AvgRating       float64 `json:"avgRating"`
	RejectionRate   float64 `json:"rejectionRate"`
}

// Suppliers folds supplier records. Unrated suppliers (rating 0) are left out of AvgRating.
func Suppliers(suppliers []quality.Supplier) SupplierSummary {
	s := SupplierSummary{Total: len(suppliers)}
	var ratings []float64
	var delivered, nonConforming float64
	for _, sup := range suppliers {
		switch sup.Status {
		case quality.SupplierApproved:
			s.Approved++
		case quality.SupplierAlternative:
			s.Alternative++
		case quality.SupplierUnderEvaluation:
			s.UnderEvaluation++
		default:
			s.Suspended++
		}
		if sup.RiskLevel == quality.RiskHigh {
			s.HighRisk++
		}
		if sup.Rating > 0 {
			ratings = append(ratings, sup.Rating)
		}
		delivered += sup.DeliveredQty
		nonConforming += sup.NonConformingQty
	}
	s.Rated = len(ratings)
	s.AvgRating = Mean(ratings)
	s.RejectionRate = Percent(nonConforming, delivered)
	return s
}

// QualityCostSummary is the cost-of-quality fold. Amounts are exact decimals.
type QualityCostSummary struct {
	Entries       int                        `json:"entries"`
	TotalCost     decimal.Decimal            `json:"totalCost"`
	ReworkCost    decimal.Decimal            `json:"reworkCost"`
	ScrapCost     decimal.Decimal            `json:"scrapCost"`
	WasteCost     decimal.Decimal            `json:"wasteCost"`
	WarrantyCost  decimal.Decimal            `json:"warrantyCost"`
	ComplaintCost decimal.Decimal            `json:"complaintCost"`
	CostRatio     float64                    `json:"costRatio"`
	ByDepartment  map[string]decimal.Decimal `json:"byDepartment"`
	LinkedToDOF   int                        `json:"linkedToDof"`
}

// ByCategory returns the subtotal for one category
func (s QualityCostSummary) ByCategory(c quality.CostCategory) decimal.Decimal {
	switch c {
	case quality.CostRework:
		return s.ReworkCost
	case quality.CostScrap:
		return s.ScrapCost
	case quality.CostWaste:
		return s.WasteCost
	case quality.CostWarranty:
		return s.WarrantyCost
	case quality.CostComplaint:
		return s.ComplaintCost
	}
	return decimal.Zero
}

// QualityCosts folds cost entries. CostRatio is TotalCost as a percentage of revenueBaseline
// and is 0 when no baseline is configured.
func QualityCosts(costs []quality.QualityCost, revenueBaseline float64) QualityCostSummary {
	s := QualityCostSummary{
		Entries:       len(costs),
		TotalCost:     decimal.Zero,
		ReworkCost:    decimal.Zero,
		ScrapCost:     decimal.Zero,
		WasteCost:     decimal.Zero,
		WarrantyCost:  decimal.Zero,
		ComplaintCost: decimal.Zero,
		ByDepartment:  make(map[string]decimal.Decimal),
	}
	for _, c := range costs {
		s.TotalCost = s.TotalCost.Add(c.Cost)
		switch c.Category {
		case quality.CostScrap:
			s.ScrapCost = s.ScrapCost.Add(c.Cost)
		case quality.CostWaste:
			s.WasteCost = s.WasteCost.Add(c.Cost)
		case quality.CostWarranty:
			s.WarrantyCost = s.WarrantyCost.Add(c.Cost)
		case quality.CostComplaint:
			s.ComplaintCost = s.ComplaintCost.Add(c.Cost)
		default:
			s.ReworkCost = s.ReworkCost.Add(c.Cost)
		}
		if c.Department != "" {
			s.ByDepartment[c.Department] = s.ByDepartment[c.Department].Add(c.Cost)
		}
		if c.CorrectiveActionID != "" {
			s.LinkedToDOF++
		}
	}
	total, _ := s.TotalCost.Float64()
	s.CostRatio = Percent(total, revenueBaseline)
	return s
}

// VehicleQualitySummary is the vehicle inspection fold
type VehicleQualitySummary struct {
	Total                int     `json:"total"`
	TotalDefects         int     `json:"totalDefects"`
	UnresolvedDefects    int     `json:"unresolvedDefects"`
	Passed               int     `json:"passed"`
	Failed               int     `json:"failed"`
	Conditional          int     `json:"conditional"`
	DefectRate           float64 `json:"defectRate"`
	InspectionCompliance float64 `json:"inspectionCompliance"`
}

// VehicleInspections folds inspections. DefectRate is the sum of defect repeat counts per
// inspection as a percentage; compliance counts inspections with every defect resolved.
func VehicleInspections(inspections []quality.VehicleInspection) VehicleQualitySummary {
	s := VehicleQualitySummary{Total: len(inspections)}
	compliant := 0
	for _, v := range inspections {
		for _, d := range v.Defects {
			s.TotalDefects += d.RepeatCount
			if !d.Resolved {
				s.UnresolvedDefects++
			}
		}
		if v.AllDefectsResolved() {
			compliant++
		}
		switch v.Outcome {
		case quality.OutcomeFail:
			s.Failed++
		case quality.OutcomeConditional:
			s.Conditional++
		default:
			s.Passed++
		}
	}
	s.DefectRate = Percent(float64(s.TotalDefects), float64(s.Total))
	s.InspectionCompliance = Percent(float64(compliant), float64(s.Total))
	return s
}

// AuditSummary is the audit fold
type AuditSummary struct {
	Total                      int     `json:"total"`
	Completed                  int     `json:"completed"`
	Pending                    int     `json:"pending"`
	InProgress                 int     `json:"inProgress"`
	Scored                     int     `json:"scored"`
	TotalFindings              int     `json:"totalFindings"`
	TotalCorrectiveActions     int     `json:"totalCorrectiveActions"`
	CompletedCorrectiveActions int     `json:"completedCorrectiveActions"`
	ComplianceRate             float64 `json:"complianceRate"`
	AvgScore                   float64 `json:"avgScore"`
	EffectivenessRate          float64 `json:"effectivenessRate"`
}

// Audits folds audit records. EffectivenessRate is completed finding actions over all finding
// actions across every audit.
func Audits(audits []quality.Audit) AuditSummary {
	s := AuditSummary{Total: len(audits)}
	var scores []float64
	for _, a := range audits {
		switch a.Status {
		case quality.AuditCompleted:
			s.Completed++
		case quality.AuditInProgress:
			s.InProgress++
		default:
			s.Pending++
		}
		if a.Score != nil {
			scores = append(scores, *a.Score)
		}
		s.TotalFindings += len(a.Findings)
		for _, f := range a.Findings {
			for _, ca := range f.CorrectiveActions {
				s.TotalCorrectiveActions++
				if ca.Completed {
					s.CompletedCorrectiveActions++
				}
			}
		}
	}
	s.Scored = len(scores)
	s.ComplianceRate = Percent(float64(s.Completed), float64(s.Total))
	s.AvgScore = Mean(scores)
	s.EffectivenessRate = Percent(float64(s.CompletedCorrectiveActions), float64(s.TotalCorrectiveActions))
	return s
}
