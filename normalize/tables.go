package normalize

import (
	"github.com/atakanbattal/Kademe-KYS-sub003/classify"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// Rule order is significant: the first rule with a matching synonym wins.
// Turkish and English synonyms are listed together; tokens are folded before matching
// (see classify.Fold), so synonyms may be written with or without diacritics.

// ActionStatusTable resolves DOF status tokens. Rejected precedes closed so that
// "kapatıldı - reddedildi" reads as a rejection, and negated forms such as "tamamlanmadı"
// precede closed so they stay open; unknown tokens are open.
var ActionStatusTable = classify.NewTable("dof.status", quality.ActionOpen,
	classify.Rule[quality.ActionStatus]{Synonyms: []string{"reddedil", "redded", "reject", "iptal", "cancel"}, Value: quality.ActionRejected},
	classify.Rule[quality.ActionStatus]{Synonyms: []string{"tamamlanmad", "kapatılmad", "kapanmad", "not closed", "not completed"}, Value: quality.ActionOpen},
	classify.Rule[quality.ActionStatus]{Synonyms: []string{"kapal", "kapatıl", "closed", "tamamlan", "completed", "done"}, Value: quality.ActionClosed},
	classify.Rule[quality.ActionStatus]{Synonyms: []string{"onay", "approval", "awaiting"}, Value: quality.ActionAwaitingApproval},
	classify.Rule[quality.ActionStatus]{Synonyms: []string{"gecik", "overdue", "past due", "süresi geç"}, Value: quality.ActionOverdue},
	classify.Rule[quality.ActionStatus]{Synonyms: []string{"devam", "progress", "işlem", "ongoing", "active"}, Value: quality.ActionInProgress},
	classify.Rule[quality.ActionStatus]{Synonyms: []string{"açık", "open", "yeni", "new", "taslak", "draft"}, Value: quality.ActionOpen},
)

// SeverityTable resolves severity (or priority, when severity is absent); unknown is minor
var SeverityTable = classify.NewTable("dof.severity", quality.SeverityMinor,
	classify.Rule[quality.Severity]{Synonyms: []string{"kritik", "critical", "acil", "urgent", "blocker"}, Value: quality.SeverityCritical},
	classify.Rule[quality.Severity]{Synonyms: []string{"yüksek", "major", "high", "önemli", "ciddi"}, Value: quality.SeverityMajor},
	classify.Rule[quality.Severity]{Synonyms: []string{"düşük", "minor", "low", "orta", "medium", "hafif"}, Value: quality.SeverityMinor},
)

// PriorityTable resolves priority; unknown is medium
var PriorityTable = classify.NewTable("dof.priority", quality.PriorityMedium,
	classify.Rule[quality.Priority]{Synonyms: []string{"acil", "urgent", "kritik", "critical"}, Value: quality.PriorityUrgent},
	classify.Rule[quality.Priority]{Synonyms: []string{"yüksek", "high"}, Value: quality.PriorityHigh},
	classify.Rule[quality.Priority]{Synonyms: []string{"düşük", "low"}, Value: quality.PriorityLow},
	classify.Rule[quality.Priority]{Synonyms: []string{"orta", "medium", "normal"}, Value: quality.PriorityMedium},
)

// ActionTypeTable resolves DOF type; unknown is corrective
var ActionTypeTable = classify.NewTable("dof.type", quality.TypeCorrective,
	classify.Rule[quality.ActionType]{Synonyms: []string{"8d"}, Value: quality.TypeStructured8D},
	classify.Rule[quality.ActionType]{Synonyms: []string{"önleyici", "preventive", "önlem"}, Value: quality.TypePreventive},
	classify.Rule[quality.ActionType]{Synonyms: []string{"iyileştir", "improvement", "kaizen"}, Value: quality.TypeImprovement},
	classify.Rule[quality.ActionType]{Synonyms: []string{"mühendislik", "engineering", "değişiklik", "ecr", "ecn"}, Value: quality.TypeEngineeringChange},
	classify.Rule[quality.ActionType]{Synonyms: []string{"düzeltici", "corrective", "döf", "dof"}, Value: quality.TypeCorrective},
)

// CostCategoryTable resolves the cost-type token (maliyetTuru); unknown is rework
var CostCategoryTable = classify.NewTable("quality_cost.category", quality.CostRework,
	classify.Rule[quality.CostCategory]{Synonyms: []string{"hurda", "scrap"}, Value: quality.CostScrap},
	classify.Rule[quality.CostCategory]{Synonyms: []string{"fire", "waste", "atık"}, Value: quality.CostWaste},
	classify.Rule[quality.CostCategory]{Synonyms: []string{"garanti", "warranty"}, Value: quality.CostWarranty},
	classify.Rule[quality.CostCategory]{Synonyms: []string{"şikayet", "complaint", "müşteri", "iade", "return"}, Value: quality.CostComplaint},
	classify.Rule[quality.CostCategory]{Synonyms: []string{"yeniden", "rework", "tamir", "onarım"}, Value: quality.CostRework},
)

// SupplierStatusTable resolves supplier status. Suspended precedes approved so that
// "inactive"/"inaktif" is not read as "active"/"aktif", and "onaylanmadı" is caught by
// evaluation before "onay"; unknown is under evaluation.
var SupplierStatusTable = classify.NewTable("supplier.status", quality.SupplierUnderEvaluation,
	classify.Rule[quality.SupplierStatus]{Synonyms: []string{"askı", "suspend", "blok", "block", "pasif", "inaktif", "inactive"}, Value: quality.SupplierSuspended},
	classify.Rule[quality.SupplierStatus]{Synonyms: []string{"onaylanmad", "onaysız", "not approved", "değerlendir", "evaluat", "review", "pending", "aday", "candidate"}, Value: quality.SupplierUnderEvaluation},
	classify.Rule[quality.SupplierStatus]{Synonyms: []string{"alternatif", "alternative", "backup", "yedek"}, Value: quality.SupplierAlternative},
	classify.Rule[quality.SupplierStatus]{Synonyms: []string{"onay", "approved", "aktif", "active"}, Value: quality.SupplierApproved},
)

// RiskLevelTable resolves supplier risk; unknown is low
var RiskLevelTable = classify.NewTable("supplier.risk", quality.RiskLow,
	classify.Rule[quality.RiskLevel]{Synonyms: []string{"yüksek", "high", "kritik", "critical"}, Value: quality.RiskHigh},
	classify.Rule[quality.RiskLevel]{Synonyms: []string{"orta", "medium", "moderate"}, Value: quality.RiskMedium},
	classify.Rule[quality.RiskLevel]{Synonyms: []string{"düşük", "low"}, Value: quality.RiskLow},
)

// AuditStatusTable resolves audit status; unknown is pending. "tamamlanmadı" is in progress.
var AuditStatusTable = classify.NewTable("audit.status", quality.AuditPending,
	classify.Rule[quality.AuditStatus]{Synonyms: []string{"tamamlanmad", "kapanmad", "not completed", "incomplete"}, Value: quality.AuditInProgress},
	classify.Rule[quality.AuditStatus]{Synonyms: []string{"tamamlan", "completed", "closed", "kapal", "bitti", "done"}, Value: quality.AuditCompleted},
	classify.Rule[quality.AuditStatus]{Synonyms: []string{"devam", "progress", "ongoing", "active"}, Value: quality.AuditInProgress},
	classify.Rule[quality.AuditStatus]{Synonyms: []string{"bekle", "pending", "plan", "scheduled"}, Value: quality.AuditPending},
)

// ResolutionTable resolves defect and finding-action status tokens to done/not-done.
// The negative rule precedes the positive one because "unresolved" contains "resolved".
var ResolutionTable = classify.NewTable("resolution", false,
	classify.Rule[bool]{Synonyms: []string{"unresolved", "çözülmedi", "çözülmemiş", "tamamlanmad", "giderilmed", "kapatılmad", "kapanmad", "not fixed", "not completed", "açık", "open", "bekle", "pending", "devam"}, Value: false},
	classify.Rule[bool]{Synonyms: []string{"çözül", "resolved", "closed", "kapal", "fixed", "giderildi", "tamam", "completed", "done"}, Value: true},
)

// OutcomeTable resolves inspection outcome; unknown is pass
var OutcomeTable = classify.NewTable("vehicle.outcome", quality.OutcomePass,
	classify.Rule[quality.InspectionOutcome]{Synonyms: []string{"fail", "başarısız", "uygunsuz", "nok", "reject"}, Value: quality.OutcomeFail},
	classify.Rule[quality.InspectionOutcome]{Synonyms: []string{"koşullu", "şartlı", "conditional"}, Value: quality.OutcomeConditional},
	classify.Rule[quality.InspectionOutcome]{Synonyms: []string{"pass", "geçti", "başarılı", "uygun", "ok"}, Value: quality.OutcomePass},
)
