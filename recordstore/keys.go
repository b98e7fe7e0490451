package recordstore

import (
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// DefaultKeys lists the well-known store keys each domain reads, in read order.
// The first key is also where writes for the domain go.
var DefaultKeys = map[quality.Domain][]string{
	quality.DomainCorrectiveAction: {"dofRecords", "dof-8d-records"},
	quality.DomainSupplier:         {"suppliers", "supplier-list"},
	quality.DomainQualityCost:      {"kys-cost-management-data", "qualityCosts"},
	quality.DomainVehicle:          {"productionQualityData", "vehicleQualityData"},
	quality.DomainAudit:            {"auditRecords", "internalAudits"},
}

// KeyMap resolves the keys for each domain
type KeyMap map[quality.Domain][]string

// NewKeyMap returns DefaultKeys with overrides applied. Overrides are keyed by domain name;
// unknown domains and empty lists are ignored.
func NewKeyMap(overrides map[string][]string) KeyMap {
	keys := make(KeyMap, len(DefaultKeys))
	for d, list := range DefaultKeys {
		keys[d] = append([]string(nil), list...)
	}
	for name, list := range overrides {
		d := quality.Domain(name)
		if !d.Valid() || len(list) == 0 {
			continue
		}
		keys[d] = append([]string(nil), list...)
	}
	return keys
}

// Primary returns the key writes for domain go to
func (k KeyMap) Primary(d quality.Domain) string {
	if list := k[d]; len(list) > 0 {
		return list[0]
	}
	return ""
}
