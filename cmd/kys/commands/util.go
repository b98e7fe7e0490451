package commands

import (
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
	"github.com/atakanbattal/Kademe-KYS-sub003/recordstore"
)

// domainsOf lists the domains in sync order that have keys in a's key map
func domainsOf(a *recordstore.Adapter) []quality.Domain {
	out := make([]quality.Domain, 0, len(quality.Domains))
	for _, d := range quality.Domains {
		if len(a.Keys(d)) > 0 {
			out = append(out, d)
		}
	}
	return out
}
