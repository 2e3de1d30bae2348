// internal/engine/benefits/resolver.go

// Package benefits resolves the descriptive benefit text of a plan by layering
// user edits over curated templates over network-family defaults.
package benefits

import (
	"sort"
	"strings"

	"insurance-portal/internal/models"
)

// Resolver holds the injected static template set. It has no mutable state;
// user edits are passed per call so that a saved edit is visible to every
// member resolving the same plan id, including mid-session.
type Resolver struct {
	static     map[string]models.BenefitSet
	staticKeys []string // sorted, for deterministic fuzzy matching
	defaults   models.BenefitSet
}

// NewResolver builds a Resolver over the curated per-plan templates
// (keyed `{provider}_{planName}`).
func NewResolver(static map[string]models.BenefitSet) *Resolver {
	keys := make([]string, 0, len(static))
	for k := range static {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Resolver{static: static, staticKeys: keys, defaults: Default()}
}

// Resolve returns the effective BenefitSet for a plan, first hit wins:
//  1. local edit by plan id (this browser/session)
//  2. cloud edit by plan id (shared across users)
//  3. cloud edit by `{provider}_{planName}`
//  4. curated static template
//  5. network-family default (MEDNET / NEXTCARE / NAS)
//  6. fuzzy trailing-token match against static template keys
//  7. global default
//
// The result is always a copy, fully populated via the global defaults, so
// callers may mutate it freely.
func (r *Resolver) Resolve(provider, planName, planID string, local, cloud map[string]models.BenefitSet) models.BenefitSet {
	if planID != "" {
		if b, ok := local[planID]; ok {
			return b.FillFrom(r.defaults)
		}
		if b, ok := cloud[planID]; ok {
			return b.FillFrom(r.defaults)
		}
	}

	planKey := provider + "_" + planName
	if b, ok := cloud[planKey]; ok {
		return b.FillFrom(r.defaults)
	}
	if b, ok := r.static[planKey]; ok {
		return b.FillFrom(r.defaults)
	}

	if b, ok := familyTemplate(provider, planName); ok {
		return b
	}

	// Fuzzy fallback: trailing token of a static key appearing in the name.
	for _, key := range r.staticKeys {
		tokens := strings.Split(key, "_")
		tail := tokens[len(tokens)-1]
		if tail != "" && strings.Contains(planName, tail) {
			return r.static[key].FillFrom(r.defaults)
		}
	}

	return r.defaults
}

// FamilyFromNetwork maps a manual plan's network string to its family
// template, if the prefix signals one. Used when a manual plan is created
// without explicit benefits.
func FamilyFromNetwork(network string) (models.BenefitSet, bool) {
	upper := strings.ToUpper(network)
	switch {
	case strings.HasPrefix(upper, "MEDNET"):
		return Mednet(), true
	case strings.HasPrefix(upper, "NEXTCARE"):
		return Nextcare(), true
	case strings.HasPrefix(upper, "NAS"):
		return Nas(), true
	}
	return models.BenefitSet{}, false
}

func familyTemplate(provider, planName string) (models.BenefitSet, bool) {
	switch {
	case strings.Contains(planName, "MEDNET_") || strings.Contains(provider, "_MEDNET"):
		return Mednet(), true
	case strings.Contains(planName, "NEXTCARE_") || strings.Contains(provider, "_NEXTCARE"):
		return Nextcare(), true
	case strings.Contains(planName, "NAS_") || strings.Contains(provider, "_NAS"):
		return Nas(), true
	}
	return models.BenefitSet{}, false
}
