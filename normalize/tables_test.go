package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

func TestActionStatusTable(t *testing.T) {
	tests := map[string]quality.ActionStatus{
		"Kapalı":                 quality.ActionClosed,
		"KAPATILDI":              quality.ActionClosed,
		"closed":                 quality.ActionClosed,
		"Reddedildi":             quality.ActionRejected,
		"kapatıldı - reddedildi": quality.ActionRejected,
		"Onay Bekliyor":          quality.ActionAwaitingApproval,
		"Gecikmiş":               quality.ActionOverdue,
		"Devam Ediyor":           quality.ActionInProgress,
		"in progress":            quality.ActionInProgress,
		"Açık":                   quality.ActionOpen,
		"Tamamlanmadı":           quality.ActionOpen,
		"KAPATILMADI":            quality.ActionOpen,
		"not completed":          quality.ActionOpen,
		"past due":               quality.ActionOverdue,
		"escalated":              quality.ActionOpen,
		"template":               quality.ActionOpen,
		"registered":             quality.ActionOpen,
		"":                       quality.ActionOpen,
	}
	for token, want := range tests {
		assert.Equal(t, want, ActionStatusTable.Match(token), token)
	}
}

func TestSeverityAndPriorityTables(t *testing.T) {
	assert.Equal(t, quality.SeverityCritical, SeverityTable.Match("Kritik"))
	assert.Equal(t, quality.SeverityMajor, SeverityTable.Match("HIGH"))
	assert.Equal(t, quality.SeverityMinor, SeverityTable.Match("orta"))
	assert.Equal(t, quality.SeverityMinor, SeverityTable.Match("x"))

	assert.Equal(t, quality.PriorityUrgent, PriorityTable.Match("ACİL"))
	assert.Equal(t, quality.PriorityHigh, PriorityTable.Match("yüksek"))
	assert.Equal(t, quality.PriorityLow, PriorityTable.Match("Düşük"))
	assert.Equal(t, quality.PriorityMedium, PriorityTable.Match(""))
}

func TestActionTypeTable(t *testing.T) {
	assert.Equal(t, quality.TypeStructured8D, ActionTypeTable.Match("8D Raporu"))
	assert.Equal(t, quality.TypePreventive, ActionTypeTable.Match("Önleyici Faaliyet"))
	assert.Equal(t, quality.TypeImprovement, ActionTypeTable.Match("iyileştirme"))
	assert.Equal(t, quality.TypeEngineeringChange, ActionTypeTable.Match("Mühendislik Değişikliği"))
	assert.Equal(t, quality.TypeCorrective, ActionTypeTable.Match("DÖF"))
	assert.Equal(t, quality.TypeCorrective, ActionTypeTable.Match("other"))
}

func TestSupplierStatusTable_InactiveBeforeActive(t *testing.T) {
	assert.Equal(t, quality.SupplierSuspended, SupplierStatusTable.Match("inactive"))
	assert.Equal(t, quality.SupplierApproved, SupplierStatusTable.Match("active"))
	assert.Equal(t, quality.SupplierSuspended, SupplierStatusTable.Match("İnaktif"))
	assert.Equal(t, quality.SupplierApproved, SupplierStatusTable.Match("Aktif"))
	assert.Equal(t, quality.SupplierUnderEvaluation, SupplierStatusTable.Match("Onaylanmadı"))
	assert.Equal(t, quality.SupplierApproved, SupplierStatusTable.Match("Onaylandı"))
	assert.Equal(t, quality.SupplierUnderEvaluation, SupplierStatusTable.Match("Değerlendirmede"))
	assert.Equal(t, quality.SupplierAlternative, SupplierStatusTable.Match("Yedek tedarikçi"))
}

func TestResolutionTable_NegativeFirst(t *testing.T) {
	assert.False(t, ResolutionTable.Match("unresolved"))
	assert.False(t, ResolutionTable.Match("Çözülmedi"))
	assert.False(t, ResolutionTable.Match("Tamamlanmadı"))
	assert.False(t, ResolutionTable.Match("giderilmedi"))
	assert.True(t, ResolutionTable.Match("Tamamlandı"))
	assert.True(t, ResolutionTable.Match("resolved"))
	assert.True(t, ResolutionTable.Match("Giderildi"))
	assert.False(t, ResolutionTable.Match(""))
}

func TestAuditStatusTable_NegatedCompletion(t *testing.T) {
	assert.Equal(t, quality.AuditInProgress, AuditStatusTable.Match("Tamamlanmadı"))
	assert.Equal(t, quality.AuditCompleted, AuditStatusTable.Match("Tamamlandı"))
	assert.Equal(t, quality.AuditPending, AuditStatusTable.Match("planlandı"))
}

func TestTablesAreDeterministic(t *testing.T) {
	tokens := []string{"kapalı/red", "unknown-token", "Onaylı değil", "çözüldü?"}
	for i := 0; i < 50; i++ {
		for _, tok := range tokens {
			assert.Equal(t, ActionStatusTable.Match(tok), ActionStatusTable.Match(tok))
			assert.Equal(t, SupplierStatusTable.Match(tok), SupplierStatusTable.Match(tok))
		}
	}
}
