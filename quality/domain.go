// Package quality defines the canonical entities the engine derives from raw store records.
//
// Entities are value objects: rebuilt on every normalization pass, never mutated in place,
// and discarded once a summary has been folded from them.
package quality

import (
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

// Domain names a business area whose records live under its own store keys
type Domain string

const (
	DomainCorrectiveAction Domain = "dof"
	DomainSupplier         Domain = "supplier"
	DomainQualityCost      Domain = "quality_cost"
	DomainVehicle          Domain = "vehicle"
	DomainAudit            Domain = "audit"

	// DomainAll is the wildcard channel: its subscribers receive every notification
	DomainAll Domain = "all"
)

// Domains lists every concrete domain in sync order
var Domains = []Domain{
	DomainCorrectiveAction,
	DomainSupplier,
	DomainQualityCost,
	DomainVehicle,
	DomainAudit,
}

// Valid reports whether d is a concrete domain (the wildcard is not)
func (d Domain) Valid() bool {
	for _, known := range Domains {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDomain resolves a user-supplied domain name, accepting "all" when allowWildcard is set
func ParseDomain(s string, allowWildcard bool) (Domain, error) {
	d := Domain(s)
	if d.Valid() || (allowWildcard && d == DomainAll) {
		return d, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownDomain, "%q", s)
}
