// Package fixtures generates seeded demo records in the raw shapes quality modules write,
// field-name variants and vocabulary mix included. The same seed always yields the same records.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
	"github.com/atakanbattal/Kademe-KYS-sub003/recordstore"
)

// Sizes is how many records to generate per domain
type Sizes struct {
	CorrectiveActions  int
	Suppliers          int
	QualityCosts       int
	VehicleInspections int
	Audits             int
}

// DefaultSizes is a small plant's worth of data
var DefaultSizes = Sizes{
	CorrectiveActions:  40,
	Suppliers:          12,
	QualityCosts:       60,
	VehicleInspections: 30,
	Audits:             8,
}

var (
	departments   = []string{"Kaynak", "Montaj", "Boyahane", "Kalite", "Satın Alma", "Üretim"}
	dofStatuses   = []string{"open", "açık", "in_progress", "devam ediyor", "closed", "kapalı", "rejected", "awaiting_approval", "overdue"}
	severities    = []string{"low", "düşük", "medium", "orta", "high", "yüksek", "critical", "kritik"}
	dofTypes      = []string{"corrective", "düzeltici", "preventive", "önleyici", "improvement", "8d"}
	supplierState = []string{"approved", "onaylı", "alternative", "alternatif", "evaluation", "değerlendirmede", "suspended", "askıda"}
	riskLevels    = []string{"low", "medium", "high", "critical", "yüksek"}
	costTypes     = []string{"yeniden işlem", "rework", "hurda", "scrap", "fire", "garanti", "warranty", "şikayet", "complaint"}
	outcomes      = []string{"pass", "geçti", "fail", "başarısız", "conditional", "şartlı", ""}
	defectTypes   = []string{"Boya akıntısı", "Kaynak çatlağı", "Tork eksik", "Çizik", "Sızdırmazlık"}
	auditStatuses = []string{"planned", "planlandı", "in_progress", "completed", "tamamlandı"}
	auditTypes    = []string{"internal", "process", "product", "system"}
)

// Generator produces deterministic demo records
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// New creates a generator. now anchors every generated date.
func New(seed int64, now time.Time) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), now: now}
}

func (g *Generator) pick(list []string) string {
	return list[g.rng.Intn(len(list))]
}

func (g *Generator) id() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// rand.Rand reads never fail
		panic(err)
	}
	return id.String()
}

// daysAgo returns a date up to max days before now, formatted the way the UI stores dates
func (g *Generator) daysAgo(max int) time.Time {
	return g.now.AddDate(0, 0, -g.rng.Intn(max+1))
}

func marshal(records []map[string]any) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			continue
		}
		out = append(out, data)
	}
	return out
}

// CorrectiveActions generates DÖF/8D records
func (g *Generator) CorrectiveActions(n int) []json.RawMessage {
	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		opened := g.daysAgo(180)
		status := g.pick(dofStatuses)
		r := map[string]any{
			"id":          g.id(),
			"dofNumber":   fmt.Sprintf("DÖF-%04d", i+1),
			"title":       fmt.Sprintf("Uygunsuzluk %d", i+1),
			"status":      status,
			"severity":    g.pick(severities),
			"type":        g.pick(dofTypes),
			"department":  g.pick(departments),
			"responsible": fmt.Sprintf("Sorumlu %d", g.rng.Intn(10)+1),
			"dueDate":     opened.AddDate(0, 0, 15+g.rng.Intn(30)).Format("2006-01-02"),
		}
		// alternate the opening-date field name like the legacy screens do
		if i%2 == 0 {
			r["createdDate"] = opened.Format("2006-01-02")
		} else {
			r["openingDate"] = opened.Format(time.RFC3339)
		}
		if status == "closed" || status == "kapalı" {
			r["closedDate"] = opened.AddDate(0, 0, 1+g.rng.Intn(40)).Format("2006-01-02")
		} else {
			r["progress"] = g.rng.Intn(100)
		}
		if r["type"] == "8d" {
			steps := map[string]any{}
			for d := 1; d <= 8; d++ {
				steps[fmt.Sprintf("d%d", d)] = map[string]any{"completed": g.rng.Intn(2) == 0}
			}
			r["eightDSteps"] = steps
		}
		records = append(records, r)
	}
	return marshal(records)
}

// Suppliers generates supplier records
func (g *Generator) Suppliers(n int) []json.RawMessage {
	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		delivered := 500 + g.rng.Intn(5000)
		r := map[string]any{
			"id":        g.id(),
			"name":      fmt.Sprintf("Tedarikçi %c", 'A'+i%26),
			"status":    g.pick(supplierState),
			"riskLevel": g.pick(riskLevels),
			"qualityMetrics": map[string]any{
				"totalDeliveredQty": delivered,
				"nonConformingQty":  g.rng.Intn(delivered/20 + 1),
			},
		}
		if g.rng.Intn(4) > 0 {
			r["rating"] = float64(g.rng.Intn(41)+10) / 10
		}
		records = append(records, r)
	}
	return marshal(records)
}

// QualityCosts generates cost entries in both the Turkish and English field sets
func (g *Generator) QualityCosts(n int) []json.RawMessage {
	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		amount := float64(g.rng.Intn(2000000)) / 100
		r := map[string]any{"id": g.id()}
		if i%3 == 0 {
			r["costType"] = g.pick(costTypes)
			r["amount"] = fmt.Sprintf("%.2f", amount)
			r["date"] = g.daysAgo(365).Format(time.RFC3339)
			r["department"] = g.pick(departments)
		} else {
			r["maliyetTuru"] = g.pick(costTypes)
			r["maliyet"] = amount
			r["tarih"] = g.daysAgo(365).Format("02.01.2006")
			r["birim"] = g.pick(departments)
		}
		if g.rng.Intn(5) == 0 {
			r["dofId"] = fmt.Sprintf("DÖF-%04d", g.rng.Intn(40)+1)
		}
		records = append(records, r)
	}
	return marshal(records)
}

// VehicleInspections generates production quality records
func (g *Generator) VehicleInspections(n int) []json.RawMessage {
	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		defects := make([]map[string]any, g.rng.Intn(4))
		for j := range defects {
			defects[j] = map[string]any{
				"id":          fmt.Sprintf("H-%d-%d", i+1, j+1),
				"defectType":  g.pick(defectTypes),
				"repeatCount": 1 + g.rng.Intn(3),
				"resolved":    g.rng.Intn(3) > 0,
			}
		}
		records = append(records, map[string]any{
			"id":             g.id(),
			"serialNumber":   fmt.Sprintf("KDM-%06d", 100000+i),
			"inspectionDate": g.daysAgo(90).Format("2006-01-02"),
			"inspector":      fmt.Sprintf("Kontrolör %d", g.rng.Intn(5)+1),
			"outcome":        g.pick(outcomes),
			"defects":        defects,
		})
	}
	return marshal(records)
}

// Audits generates internal audit records with findings and actions
func (g *Generator) Audits(n int) []json.RawMessage {
	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		status := g.pick(auditStatuses)
		findings := make([]map[string]any, g.rng.Intn(4))
		for j := range findings {
			actions := make([]map[string]any, 1+g.rng.Intn(2))
			for k := range actions {
				actions[k] = map[string]any{"completed": g.rng.Intn(2) == 0}
			}
			findings[j] = map[string]any{
				"description":       fmt.Sprintf("Bulgu %d", j+1),
				"correctiveActions": actions,
			}
		}
		r := map[string]any{
			"id":        g.id(),
			"auditType": g.pick(auditTypes),
			"auditDate": g.daysAgo(365).Format("2006-01-02"),
			"auditor":   fmt.Sprintf("Denetçi %d", g.rng.Intn(4)+1),
			"status":    status,
			"findings":  findings,
		}
		if status == "completed" || status == "tamamlandı" {
			r["overallScore"] = 60 + g.rng.Intn(41)
		}
		records = append(records, r)
	}
	return marshal(records)
}

// All generates every domain
func (g *Generator) All(sizes Sizes) map[quality.Domain][]json.RawMessage {
	return map[quality.Domain][]json.RawMessage{
		quality.DomainCorrectiveAction: g.CorrectiveActions(sizes.CorrectiveActions),
		quality.DomainSupplier:         g.Suppliers(sizes.Suppliers),
		quality.DomainQualityCost:      g.QualityCosts(sizes.QualityCosts),
		quality.DomainVehicle:          g.VehicleInspections(sizes.VehicleInspections),
		quality.DomainAudit:            g.Audits(sizes.Audits),
	}
}

// Seed writes data to each domain's primary key, replacing what is there
func Seed(ctx context.Context, a *recordstore.Adapter, data map[quality.Domain][]json.RawMessage) error {
	for _, d := range quality.Domains {
		records, ok := data[d]
		if !ok {
			continue
		}
		if err := a.WriteDomain(ctx, d, records); err != nil {
			return errors.Wrapf(err, "seed %s", d)
		}
	}
	return nil
}
