// Package normalize converts raw store records into canonical quality entities.
//
// Each converter decodes one record into a tolerant Raw* struct, validates it, resolves
// enum-like tokens through ordered classification tables, and fills missing dates from the
// reference time passed in. Converters are pure: the same (record, now) always yields the
// same entity and report.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atakanbattal/Kademe-KYS-sub003/classify"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// DefaultDueDays is added to the opening date when a record has no due date
const DefaultDueDays = 30

// ErrMalformedRecord is returned for records that are not JSON objects
var ErrMalformedRecord = errors.New("malformed record")

// idNamespace seeds deterministic IDs for records stored without one
var idNamespace = uuid.MustParse("6f1d3c1e-4b8a-5a57-9a0e-2d7c9b1f4e60")

// Report describes what a converter had to guess
type Report struct {
	// Misses names the tables whose non-empty token matched no rule
	Misses []string
	// Invalid lists JSON paths that failed validation and were treated as absent
	Invalid []string
	// Defaults lists canonical fields filled from defaults
	Defaults []string
}

func (r *Report) defaulted(field string) {
	r.Defaults = append(r.Defaults, field)
}

// match classifies token and records a miss for unrecognized non-empty tokens
func match[T any](r *Report, t *classify.Table[T], token string) (T, bool) {
	v, ok := t.MatchOK(token)
	if !ok && strings.TrimSpace(token) != "" {
		r.Misses = append(r.Misses, t.Name)
	}
	return v, ok
}

// decode reads data into raw, keeping whatever decoded when individual fields have the
// wrong JSON type, then validates it
func decode(data json.RawMessage, raw interface{}) (invalidFields, Report, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, Report{}, errors.Wrapf(ErrMalformedRecord, "expected object, got %.20q", string(trimmed))
	}
	if err := json.Unmarshal(trimmed, raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil, Report{}, errors.Wrap(ErrMalformedRecord, err.Error())
		}
	}
	invalid, order, err := validateRaw(raw)
	if err != nil {
		return nil, Report{}, err
	}
	return invalid, Report{Invalid: order}, nil
}

// recordID returns the first non-empty candidate, or a stable ID derived from the record bytes
func recordID(data json.RawMessage, domain quality.Domain, candidates ...FlexString) string {
	if id := firstString(candidates...); id != "" {
		return id
	}
	name := append([]byte(string(domain)+":"), bytes.TrimSpace(data)...)
	return uuid.NewSHA1(idNamespace, name).String()
}

// usable returns f when it is present and passed validation at path
func usable(f FlexFloat, invalid invalidFields, path string) (FlexFloat, bool) {
	if !f.Valid || invalid.has(path) {
		return FlexFloat{}, false
	}
	return f, true
}

// CorrectiveAction normalizes a DOF/8D record
func CorrectiveAction(data json.RawMessage, now time.Time) (quality.CorrectiveAction, Report, error) {
	var raw RawCorrectiveAction
	invalid, rep, err := decode(data, &raw)
	if err != nil {
		return quality.CorrectiveAction{}, rep, err
	}
	now = now.UTC()

	opening, ok := firstTime(raw.OpeningDate, raw.CreatedDate, raw.Date)
	if !ok {
		opening = now
		rep.defaulted("openingDate")
	}
	due, ok := firstTime(raw.DueDate)
	if !ok {
		due = opening.AddDate(0, 0, DefaultDueDays)
		rep.defaulted("dueDate")
	}
	if due.Before(opening) {
		due = opening
	}

	a := quality.CorrectiveAction{
		ID:            recordID(data, quality.DomainCorrectiveAction, raw.ID, raw.DofNumber),
		Title:         raw.Title.String(),
		Description:   raw.Description.String(),
		OpeningDate:   opening,
		DueDate:       due,
		Department:    raw.Department.String(),
		Responsible:   raw.Responsible.String(),
		Category:      raw.Category.String(),
		SupplierID:    raw.SupplierID.String(),
		QualityCostID: raw.QualityCostID.String(),
	}
	a.Status, _ = match(&rep, ActionStatusTable, raw.Status.String())
	a.Severity, _ = match(&rep, SeverityTable, firstString(raw.Severity, raw.Priority))
	a.Priority, _ = match(&rep, PriorityTable, firstString(raw.Priority, raw.Severity))

	a.EightD = eightDSteps(raw.EightDSteps)
	typ, hit := match(&rep, ActionTypeTable, raw.Type.String())
	if !hit && a.EightD != nil {
		typ = quality.TypeStructured8D
	}
	a.Type = typ

	if a.Status == quality.ActionClosed {
		closed, ok := firstTime(raw.ClosedDate, raw.ClosingDate)
		if !ok {
			closed = due
			if closed.After(now) {
				closed = now
			}
			rep.defaulted("closedDate")
		}
		if closed.Before(opening) {
			closed = opening
		}
		a.ClosedDate = &closed
	}

	if p, ok := usable(raw.Progress, invalid, "progress"); ok {
		a.Progress = p.Value
	} else if a.Status == quality.ActionClosed {
		a.Progress = 100
	}

	for _, att := range raw.Attachments {
		if att != "" {
			a.Attachments = append(a.Attachments, att.String())
		}
	}
	return a, rep, nil
}

// eightDSteps reads a {"d1": ..., "D8": ...} map. Each value may be a boolean or an object
// carrying completed/isCompleted/status.
func eightDSteps(steps map[string]json.RawMessage) *quality.EightDSteps {
	if len(steps) == 0 {
		return nil
	}
	var out quality.EightDSteps
	seen := false
	for key, value := range steps {
		n, err := strconv.Atoi(strings.TrimFunc(key, func(r rune) bool { return !unicode.IsDigit(r) }))
		if err != nil || n < 1 || n > 8 {
			continue
		}
		seen = true
		out.Completed[n-1] = stepCompleted(value)
	}
	if !seen {
		return nil
	}
	return &out
}

func stepCompleted(value json.RawMessage) bool {
	var b FlexBool
	if err := json.Unmarshal(value, &b); err == nil && b.Valid {
		return b.Value
	}
	var obj struct {
		Completed   FlexBool   `json:"completed"`
		IsCompleted FlexBool   `json:"isCompleted"`
		Status      FlexString `json:"status"`
	}
	if err := json.Unmarshal(value, &obj); err != nil {
		return false
	}
	switch {
	case obj.Completed.Valid:
		return obj.Completed.Value
	case obj.IsCompleted.Valid:
		return obj.IsCompleted.Value
	default:
		return ResolutionTable.Match(obj.Status.String())
	}
}

// Supplier normalizes a supplier scorecard record. A rating outside [0,5] is treated as
// unrated.
func Supplier(data json.RawMessage, _ time.Time) (quality.Supplier, Report, error) {
	var raw RawSupplier
	invalid, rep, err := decode(data, &raw)
	if err != nil {
		return quality.Supplier{}, rep, err
	}
	s := quality.Supplier{
		ID:   recordID(data, quality.DomainSupplier, raw.ID),
		Name: firstString(raw.Name, raw.CompanyName),
	}
	s.Status, _ = match(&rep, SupplierStatusTable, raw.Status.String())
	s.RiskLevel, _ = match(&rep, RiskLevelTable, raw.RiskLevel.String())

	if r, ok := usable(raw.CurrentScore, invalid, "currentScore"); ok {
		s.Rating = r.Value
	} else if r, ok := usable(raw.Rating, invalid, "rating"); ok {
		s.Rating = r.Value
	}
	if q, ok := usable(raw.QualityMetrics.TotalDeliveredQty, invalid, "qualityMetrics.totalDeliveredQty"); ok {
		s.DeliveredQty = q.Value
	}
	if q, ok := usable(raw.QualityMetrics.NonConformingQty, invalid, "qualityMetrics.nonConformingQty"); ok {
		s.NonConformingQty = q.Value
	}
	return s, rep, nil
}

// QualityCost normalizes a cost-of-quality entry. Negative or non-numeric amounts become zero.
func QualityCost(data json.RawMessage, now time.Time) (quality.QualityCost, Report, error) {
	var raw RawQualityCost
	invalid, rep, err := decode(data, &raw)
	if err != nil {
		return quality.QualityCost{}, rep, err
	}
	c := quality.QualityCost{
		ID:                 recordID(data, quality.DomainQualityCost, raw.ID),
		Department:         firstString(raw.Birim, raw.Department),
		CorrectiveActionID: raw.DofID.String(),
		Cost:               decimal.Zero,
	}
	c.Category, _ = match(&rep, CostCategoryTable, firstString(raw.MaliyetTuru, raw.CostType))

	if date, ok := firstTime(raw.Tarih, raw.Date); ok {
		c.Date = date
	} else {
		c.Date = now.UTC()
		rep.defaulted("date")
	}
	if amount, ok := usable(raw.Maliyet, invalid, "maliyet"); ok {
		c.Cost = amount.Decimal()
	} else if amount, ok := usable(raw.Amount, invalid, "amount"); ok {
		c.Cost = amount.Decimal()
	}
	if c.Cost.IsNegative() {
		c.Cost = decimal.Zero
	}
	return c, rep, nil
}

// VehicleInspection normalizes a production/vehicle quality record
func VehicleInspection(data json.RawMessage, now time.Time) (quality.VehicleInspection, Report, error) {
	var raw RawVehicleInspection
	invalid, rep, err := decode(data, &raw)
	if err != nil {
		return quality.VehicleInspection{}, rep, err
	}
	v := quality.VehicleInspection{
		ID:        recordID(data, quality.DomainVehicle, raw.ID),
		SubjectID: firstString(raw.VehicleID, raw.SubjectID, raw.SerialNumber),
		Inspector: raw.Inspector.String(),
		Defects:   make([]quality.Defect, 0, len(raw.Defects)),
	}
	if date, ok := firstTime(raw.InspectionDate, raw.Date, raw.CreatedAt); ok {
		v.Date = date
	} else {
		v.Date = now.UTC()
		rep.defaulted("date")
	}

	for i, d := range raw.Defects {
		defect := quality.Defect{
			Description: firstString(d.Description, d.DefectType),
			RepeatCount: 1,
		}
		if n, ok := usable(d.RepeatCount, invalid, fmt.Sprintf("defects[%d].repeatCount", i)); ok && n.Value >= 1 {
			defect.RepeatCount = int(math.Round(n.Value))
		}
		if d.Resolved.Valid {
			defect.Resolved = d.Resolved.Value
		} else {
			defect.Resolved = ResolutionTable.Match(d.Status.String())
		}
		v.Defects = append(v.Defects, defect)
	}

	outcome, hit := match(&rep, OutcomeTable, firstString(raw.Outcome, raw.Result))
	if !hit && !v.AllDefectsResolved() {
		outcome = quality.OutcomeFail
	}
	v.Outcome = outcome
	return v, rep, nil
}

// Audit normalizes an audit record. The score is taken from overallScore, auditScore or
// score in that order; findings without IDs are numbered after the audit.
func Audit(data json.RawMessage, now time.Time) (quality.Audit, Report, error) {
	var raw RawAudit
	invalid, rep, err := decode(data, &raw)
	if err != nil {
		return quality.Audit{}, rep, err
	}
	a := quality.Audit{
		ID:        recordID(data, quality.DomainAudit, raw.ID),
		AuditType: firstString(raw.AuditType, raw.Type),
		Auditor:   firstString(raw.Auditor, raw.LeadAuditor),
	}
	a.Status, _ = match(&rep, AuditStatusTable, raw.Status.String())
	if date, ok := firstTime(raw.AuditDate, raw.Date); ok {
		a.Date = date
	} else {
		a.Date = now.UTC()
		rep.defaulted("date")
	}

	for _, candidate := range []struct {
		value FlexFloat
		path  string
	}{
		{raw.OverallScore, "overallScore"},
		{raw.AuditScore, "auditScore"},
		{raw.Score, "score"},
	} {
		if s, ok := usable(candidate.value, invalid, candidate.path); ok {
			score := s.Value
			a.Score = &score
			break
		}
	}

	for i, f := range raw.Findings {
		finding := quality.Finding{
			ID:          firstString(f.ID),
			Description: f.Description.String(),
		}
		if finding.ID == "" {
			finding.ID = fmt.Sprintf("%s-F%d", a.ID, i+1)
		}
		for j, ca := range f.CorrectiveActions {
			action := quality.FindingAction{ID: ca.ID.String()}
			if action.ID == "" {
				action.ID = fmt.Sprintf("%s-A%d", finding.ID, j+1)
			}
			if ca.Completed.Valid {
				action.Completed = ca.Completed.Value
			} else {
				action.Completed = ResolutionTable.Match(ca.Status.String())
			}
			finding.CorrectiveActions = append(finding.CorrectiveActions, action)
		}
		a.Findings = append(a.Findings, finding)
	}
	return a, rep, nil
}
