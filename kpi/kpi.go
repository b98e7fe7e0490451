// Package kpi evaluates summaries against an externally supplied target policy.
//
// Targets live in a YAML file owned by the organization; the engine only applies the
// generic health classification to whatever targets the file declares.
package kpi

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/atakanbattal/Kademe-KYS-sub003/aggregate"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// Target is one metric goal. Metric names a JSON field of the domain's summary,
// e.g. "closureRate" for dof or "avgRating" for supplier.
type Target struct {
	ID             string         `yaml:"id" json:"id" validate:"required"`
	Name           string         `yaml:"name" json:"name"`
	Domain         quality.Domain `yaml:"domain" json:"domain" validate:"required"`
	Metric         string         `yaml:"metric" json:"metric" validate:"required"`
	Target         float64        `yaml:"target" json:"target" validate:"gte=0"`
	Warning        float64        `yaml:"warning" json:"warning" validate:"gte=0,lte=1"`
	HigherIsBetter bool           `yaml:"higher_is_better" json:"higherIsBetter"`
}

// Policy is the set of targets loaded from one file
type Policy struct {
	Targets []Target `yaml:"targets" json:"targets" validate:"dive"`
}

// Result is a target evaluated against a summary
type Result struct {
	Target  Target           `json:"target"`
	Current float64          `json:"current"`
	Health  aggregate.Health `json:"health,omitempty"`
	// Missing is set when the summary has no numeric field named by Target.Metric
	Missing bool `json:"missing,omitempty"`
}

var policyValidate = validator.New()

// Load reads and validates a policy file
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read KPI targets %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML policy
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parse KPI targets")
	}
	if err := policyValidate.Struct(&p); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid KPI targets"),
			"each target needs id, domain and metric; warning is a fraction between 0 and 1")
	}
	seen := make(map[string]bool, len(p.Targets))
	for _, t := range p.Targets {
		if !t.Domain.Valid() {
			return nil, errors.Wrapf(errors.ErrUnknownDomain, "target %s: %q", t.ID, t.Domain)
		}
		if seen[t.ID] {
			return nil, errors.Newf("duplicate KPI target id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return &p, nil
}

// Evaluate grades every target against summaries keyed by domain. Results keep file order.
func (p *Policy) Evaluate(summaries map[quality.Domain]any) []Result {
	if p == nil {
		return nil
	}
	fields := make(map[quality.Domain]map[string]float64, len(summaries))
	results := make([]Result, 0, len(p.Targets))
	for _, t := range p.Targets {
		f, ok := fields[t.Domain]
		if !ok {
			f = numericFields(summaries[t.Domain])
			fields[t.Domain] = f
		}
		current, ok := f[t.Metric]
		if !ok {
			results = append(results, Result{Target: t, Missing: true})
			continue
		}
		results = append(results, Result{
			Target:  t,
			Current: current,
			Health:  aggregate.Classify(current, t.Target, t.Warning, t.HigherIsBetter),
		})
	}
	return results
}

// Metrics lists the numeric metric names a summary exposes, sorted
func Metrics(summary any) []string {
	f := numericFields(summary)
	names := make([]string, 0, len(f))
	for k := range f {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// numericFields flattens a summary's top-level JSON fields into numbers. Decimal amounts
// marshal as strings and are parsed back.
func numericFields(summary any) map[string]float64 {
	out := make(map[string]float64)
	if summary == nil {
		return out
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return out
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return out
	}
	for k, v := range raw {
		var n float64
		if err := json.Unmarshal(v, &n); err == nil {
			out[k] = n
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				out[k] = n
			}
		}
	}
	return out
}
