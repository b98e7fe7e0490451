package quality

import (
	"time"

	"github.com/shopspring/decimal"
)

// Severity of a corrective action
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
)

// ActionStatus is the lifecycle state of a corrective action
type ActionStatus string

const (
	ActionOpen             ActionStatus = "open"
	ActionInProgress       ActionStatus = "in_progress"
	ActionAwaitingApproval ActionStatus = "awaiting_approval"
	ActionOverdue          ActionStatus = "overdue"
	ActionClosed           ActionStatus = "closed"
	ActionRejected         ActionStatus = "rejected"
)

// ActionType distinguishes DOF variants
type ActionType string

const (
	TypeCorrective        ActionType = "corrective"
	TypePreventive        ActionType = "preventive"
	TypeStructured8D      ActionType = "8d"
	TypeImprovement       ActionType = "improvement"
	TypeEngineeringChange ActionType = "engineering_change"
)

// Priority of a corrective action
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// EightDSteps records which of the D1–D8 disciplines are complete
type EightDSteps struct {
	Completed [8]bool `json:"completed"`
}

// CompletedCount returns how many disciplines are done
func (s EightDSteps) CompletedCount() int {
	n := 0
	for _, done := range s.Completed {
		if done {
			n++
		}
	}
	return n
}

// CorrectiveAction is a DOF/8D nonconformity resolution record.
// ClosedDate is set if and only if Status is ActionClosed; DueDate is never before OpeningDate.
type CorrectiveAction struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Severity      Severity     `json:"severity"`
	Status        ActionStatus `json:"status"`
	Type          ActionType   `json:"type"`
	OpeningDate   time.Time    `json:"openingDate"`
	DueDate       time.Time    `json:"dueDate"`
	ClosedDate    *time.Time   `json:"closedDate,omitempty"`
	Department    string       `json:"department"`
	Responsible   string       `json:"responsible"`
	Category      string       `json:"category"`
	Priority      Priority     `json:"priority"`
	EightD        *EightDSteps `json:"eightD,omitempty"`
	Progress      float64      `json:"progress"`
	Attachments   []string     `json:"attachments,omitempty"`
	SupplierID    string       `json:"supplierId,omitempty"`
	QualityCostID string       `json:"qualityCostId,omitempty"`
}

// IsClosed reports whether the action is closed
func (a CorrectiveAction) IsClosed() bool {
	return a.Status == ActionClosed
}

// SupplierStatus is a supplier's approval state
type SupplierStatus string

const (
	SupplierApproved        SupplierStatus = "approved"
	SupplierAlternative     SupplierStatus = "alternative"
	SupplierUnderEvaluation SupplierStatus = "under_evaluation"
	SupplierSuspended       SupplierStatus = "suspended"
)

// RiskLevel grades supplier risk
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Supplier is a supplier scorecard. Rating 0 means unrated; otherwise it lies in (0,5].
type Supplier struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Status           SupplierStatus `json:"status"`
	Rating           float64        `json:"rating"`
	RiskLevel        RiskLevel      `json:"riskLevel"`
	DeliveredQty     float64        `json:"deliveredQty"`
	NonConformingQty float64        `json:"nonConformingQty"`
}

// CostCategory classifies a cost-of-quality entry
type CostCategory string

const (
	CostRework    CostCategory = "rework"
	CostScrap     CostCategory = "scrap"
	CostWaste     CostCategory = "waste"
	CostWarranty  CostCategory = "warranty"
	CostComplaint CostCategory = "complaint"
)

// CostCategories lists categories in reporting order
var CostCategories = []CostCategory{CostRework, CostScrap, CostWaste, CostWarranty, CostComplaint}

// QualityCost is one cost-of-quality entry. Cost is never negative.
type QualityCost struct {
	ID                 string          `json:"id"`
	Date               time.Time       `json:"date"`
	Category           CostCategory    `json:"category"`
	Cost               decimal.Decimal `json:"cost"`
	Department         string          `json:"department"`
	CorrectiveActionID string          `json:"correctiveActionId,omitempty"`
}

// Defect is a finding recorded during a vehicle inspection
type Defect struct {
	Description string `json:"description"`
	RepeatCount int    `json:"repeatCount"`
	Resolved    bool   `json:"resolved"`
}

// InspectionOutcome is the verdict of a vehicle inspection
type InspectionOutcome string

const (
	OutcomePass        InspectionOutcome = "pass"
	OutcomeFail        InspectionOutcome = "fail"
	OutcomeConditional InspectionOutcome = "conditional"
)

// VehicleInspection is a production-quality inspection of one subject (vehicle/unit)
type VehicleInspection struct {
	ID        string            `json:"id"`
	SubjectID string            `json:"subjectId"`
	Date      time.Time         `json:"date"`
	Defects   []Defect          `json:"defects"`
	Inspector string            `json:"inspector"`
	Outcome   InspectionOutcome `json:"outcome"`
}

// AllDefectsResolved is true when there are no defects or every defect is resolved
func (v VehicleInspection) AllDefectsResolved() bool {
	for _, d := range v.Defects {
		if !d.Resolved {
			return false
		}
	}
	return true
}

// AuditStatus is the state of an audit
type AuditStatus string

const (
	AuditCompleted  AuditStatus = "completed"
	AuditPending    AuditStatus = "pending"
	AuditInProgress AuditStatus = "in_progress"
)

// FindingAction is a corrective action spawned by an audit finding
type FindingAction struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

// Finding is a nonconformity raised during an audit
type Finding struct {
	ID                string          `json:"id"`
	Description       string          `json:"description"`
	CorrectiveActions []FindingAction `json:"correctiveActions,omitempty"`
}

// Audit is an internal/supplier/process audit outcome
type Audit struct {
	ID        string      `json:"id"`
	AuditType string      `json:"auditType"`
	Date      time.Time   `json:"date"`
	Auditor   string      `json:"auditor"`
	Score     *float64    `json:"score,omitempty"`
	Status    AuditStatus `json:"status"`
	Findings  []Finding   `json:"findings,omitempty"`
}
