package normalize

import (
	"encoding/json"
)

// Raw* types are the schema-checked intermediate representation of store records.
// Every field is optional and tolerant of type drift; aliases from the wire contract are
// listed side by side and resolved by the converters in order.

// RawCorrectiveAction is a DOF/8D record as written by the corrective-action module
type RawCorrectiveAction struct {
	ID            FlexString                 `json:"id"`
	DofNumber     FlexString                 `json:"dofNumber"`
	Title         FlexString                 `json:"title"`
	Description   FlexString                 `json:"description"`
	Status        FlexString                 `json:"status"`
	Severity      FlexString                 `json:"severity"`
	Priority      FlexString                 `json:"priority"`
	Type          FlexString                 `json:"type"`
	CreatedDate   FlexTime                   `json:"createdDate"`
	OpeningDate   FlexTime                   `json:"openingDate"`
	Date          FlexTime                   `json:"date"`
	DueDate       FlexTime                   `json:"dueDate"`
	ClosedDate    FlexTime                   `json:"closedDate"`
	ClosingDate   FlexTime                   `json:"closingDate"`
	Department    FlexString                 `json:"department"`
	Responsible   FlexString                 `json:"responsible"`
	Category      FlexString                 `json:"category"`
	Progress      FlexFloat                  `json:"progress" validate:"omitempty,gte=0,lte=100"`
	Attachments   []FlexString               `json:"attachments"`
	EightDSteps   map[string]json.RawMessage `json:"eightDSteps"`
	SupplierID    FlexString                 `json:"supplierId"`
	QualityCostID FlexString                 `json:"qualityCostId"`
}

// RawQualityMetrics is the nested delivery block of a supplier record
type RawQualityMetrics struct {
	TotalDeliveredQty FlexFloat `json:"totalDeliveredQty" validate:"omitempty,gte=0"`
	NonConformingQty  FlexFloat `json:"nonConformingQty" validate:"omitempty,gte=0"`
}

// RawSupplier is a supplier scorecard record
type RawSupplier struct {
	ID             FlexString        `json:"id"`
	Name           FlexString        `json:"name"`
	CompanyName    FlexString        `json:"companyName"`
	Status         FlexString        `json:"status"`
	CurrentScore   FlexFloat         `json:"currentScore" validate:"omitempty,gte=0,lte=5"`
	Rating         FlexFloat         `json:"rating" validate:"omitempty,gte=0,lte=5"`
	RiskLevel      FlexString        `json:"riskLevel"`
	QualityMetrics RawQualityMetrics `json:"qualityMetrics"`
}

// RawQualityCost is a cost-of-quality entry; field names follow the cost module's wire format
type RawQualityCost struct {
	ID          FlexString `json:"id"`
	MaliyetTuru FlexString `json:"maliyetTuru"`
	CostType    FlexString `json:"costType"`
	Maliyet     FlexFloat  `json:"maliyet" validate:"omitempty,gte=0"`
	Amount      FlexFloat  `json:"amount" validate:"omitempty,gte=0"`
	Tarih       FlexTime   `json:"tarih"`
	Date        FlexTime   `json:"date"`
	Birim       FlexString `json:"birim"`
	Department  FlexString `json:"department"`
	DofID       FlexString `json:"dofId"`
}

// RawDefect is one defect line inside an inspection record
type RawDefect struct {
	Description FlexString `json:"description"`
	DefectType  FlexString `json:"defectType"`
	RepeatCount FlexFloat  `json:"repeatCount" validate:"omitempty,gte=0,lte=1000000"` // larger counts are data errors
	Status      FlexString `json:"status"`
	Resolved    FlexBool   `json:"resolved"`
}

// RawVehicleInspection is a production/vehicle quality record
type RawVehicleInspection struct {
	ID             FlexString  `json:"id"`
	VehicleID      FlexString  `json:"vehicleId"`
	SubjectID      FlexString  `json:"subjectId"`
	SerialNumber   FlexString  `json:"serialNumber"`
	InspectionDate FlexTime    `json:"inspectionDate"`
	Date           FlexTime    `json:"date"`
	CreatedAt      FlexTime    `json:"createdAt"`
	Inspector      FlexString  `json:"inspector"`
	Outcome        FlexString  `json:"outcome"`
	Result         FlexString  `json:"result"`
	Defects        []RawDefect `json:"defects" validate:"dive"`
}

// RawFindingAction is a corrective action nested in an audit finding
type RawFindingAction struct {
	ID        FlexString `json:"id"`
	Status    FlexString `json:"status"`
	Completed FlexBool   `json:"completed"`
}

// RawFinding is one audit finding
type RawFinding struct {
	ID                FlexString         `json:"id"`
	Description       FlexString         `json:"description"`
	CorrectiveActions []RawFindingAction `json:"correctiveActions"`
}

// RawAudit is an audit record
type RawAudit struct {
	ID           FlexString   `json:"id"`
	AuditType    FlexString   `json:"auditType"`
	Type         FlexString   `json:"type"`
	AuditDate    FlexTime     `json:"auditDate"`
	Date         FlexTime     `json:"date"`
	Auditor      FlexString   `json:"auditor"`
	LeadAuditor  FlexString   `json:"leadAuditor"`
	Status       FlexString   `json:"status"`
	OverallScore FlexFloat    `json:"overallScore" validate:"omitempty,gte=0,lte=100"`
	AuditScore   FlexFloat    `json:"auditScore" validate:"omitempty,gte=0,lte=100"`
	Score        FlexFloat    `json:"score" validate:"omitempty,gte=0,lte=100"`
	Findings     []RawFinding `json:"findings"`
}
