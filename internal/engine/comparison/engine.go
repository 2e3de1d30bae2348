// internal/engine/comparison/engine.go

// Package comparison orchestrates the age, eligibility, benefit and override
// components into per-member ranked plan lists.
package comparison

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "insurance-portal/internal/common/errors"
	"insurance-portal/internal/common/logger"
	"insurance-portal/internal/common/metrics"
	"insurance-portal/internal/engine/age"
	"insurance-portal/internal/engine/benefits"
	"insurance-portal/internal/engine/eligibility"
	"insurance-portal/internal/models"
	"insurance-portal/internal/overrides"
	"insurance-portal/internal/ratetable"
)

// Engine runs comparison searches against injected, read-only configuration:
// the rate table and the benefit resolver. It holds no per-search state and
// produces no side effects.
type Engine struct {
	table    *ratetable.Table
	resolver *benefits.Resolver
	log      logger.Logger
	now      func() time.Time
}

// MemberIssue reports a member skipped for validation reasons; the rest of
// the search still completes.
type MemberIssue struct {
	MemberID int    `json:"memberId"`
	Name     string `json:"name,omitempty"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// Result is the outcome of one search run.
type Result struct {
	Members map[int]models.MemberResult `json:"members"`
	Skipped []MemberIssue               `json:"skipped,omitempty"`
}

func NewEngine(table *ratetable.Table, resolver *benefits.Resolver, log logger.Logger) *Engine {
	return &Engine{
		table:    table,
		resolver: resolver,
		log:      log.WithFields(map[string]interface{}{"component": "comparison"}),
		now:      time.Now,
	}
}

// WithClock overrides the engine's notion of "today" (tests).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Search builds the ranked candidate plan list for every member. Validation
// failures abort the offending member only. The override snapshot is applied
// uniformly: identity edits to everyone, premium edits per member.
func (e *Engine) Search(ctx context.Context, members []models.FamilyMember, settings models.SharedSettings, snap *overrides.Snapshot) (*Result, error) {
	if snap == nil {
		snap = overrides.NewSnapshot()
	}

	result := &Result{Members: make(map[int]models.MemberResult, len(members))}
	asOf := e.now()

	for _, member := range members {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		memberAge, issue := e.validateMember(member, asOf)
		if issue != nil {
			result.Skipped = append(result.Skipped, *issue)
			metrics.SearchMembersSkipped.Inc()
			continue
		}

		plans := e.tablePlans(member, memberAge, settings, snap)
		plans = append(plans, e.manualPlans(member, snap)...)

		rankPlans(plans)
		min, avg, max := priceStats(plans)

		member.Relationship = age.Relationship(memberAge, member.Sponsorship)
		result.Members[member.ID] = models.MemberResult{
			Member:     member,
			Age:        memberAge,
			Comparison: plans,
			MinPrice:   min,
			AvgPrice:   avg,
			MaxPrice:   max,
		}
	}

	e.log.Info("search completed", map[string]interface{}{
		"members": len(result.Members),
		"skipped": len(result.Skipped),
	})
	return result, nil
}

func (e *Engine) validateMember(member models.FamilyMember, asOf time.Time) (int, *MemberIssue) {
	if member.DOB == "" {
		return 0, memberIssue(member, apperrors.NewMemberValidationError("date of birth is required"))
	}
	dob, err := time.Parse(age.DOBLayout, member.DOB)
	if err != nil {
		return 0, memberIssue(member, apperrors.NewMemberValidationError(fmt.Sprintf("invalid date of birth %q", member.DOB)))
	}
	memberAge, err := age.Insurance(dob, asOf)
	if err != nil {
		return 0, memberIssue(member, apperrors.NewAgeOutOfRangeError(memberAge))
	}
	return memberAge, nil
}

func memberIssue(member models.FamilyMember, e *apperrors.StandardError) *MemberIssue {
	message := e.Message
	if e.Details != "" {
		message = e.Details
	}
	return &MemberIssue{
		MemberID: member.ID,
		Name:     member.Name,
		Code:     string(e.Code),
		Message:  message,
	}
}

func (e *Engine) tablePlans(member models.FamilyMember, memberAge int, settings models.SharedSettings, snap *overrides.Snapshot) []models.ResolvedPlan {
	genderKey := member.Gender.RateKey()
	var plans []models.ResolvedPlan

	for _, provider := range e.table.Providers() {
		for _, planName := range e.table.Plans(provider) {
			meta := e.table.Metadata(provider, planName)
			if !eligibility.IsCandidate(meta, member, settings) {
				continue
			}

			band := age.FindBand(memberAge, e.table.Bands(provider, planName))
			premium := 0.0
			needsManualRate := band == age.NoRate
			if !needsManualRate {
				if p, ok := e.table.Premium(provider, planName, band, genderKey); ok {
					premium = p
				} else {
					// Band exists but the gender cell is missing.
					needsManualRate = true
				}
			}

			planID := provider + "_" + planName
			base := models.ResolvedPlan{
				ID:              planID,
				Provider:        meta.Provider,
				PlanName:        meta.DisplayName,
				Network:         meta.Network,
				Copay:           meta.Copay,
				Premium:         premium,
				Benefits:        e.resolver.Resolve(provider, planName, planID, snap.LocalBenefits, snap.Benefits),
				PlanLocation:    meta.PlanLocation(),
				SalaryCategory:  meta.SalaryCategory(),
				NeedsManualRate: needsManualRate,
				Status:          models.StatusNone,
			}

			plans = append(plans, overrides.Merge(base, member.ID, snap))
		}
	}
	return plans
}

func (e *Engine) manualPlans(member models.FamilyMember, snap *overrides.Snapshot) []models.ResolvedPlan {
	providerKeys := make([]string, 0, len(snap.ManualPlans))
	for key := range snap.ManualPlans {
		providerKeys = append(providerKeys, key)
	}
	sort.Strings(providerKeys)

	defaults := benefits.Default()
	var plans []models.ResolvedPlan
	for _, providerKey := range providerKeys {
		for _, record := range snap.ManualPlans[providerKey] {
			// Cloud benefit edits win over the record's embedded set; a
			// record without either inherits its network-family template.
			planBenefits, ok := snap.Benefits[record.ID]
			if !ok {
				if record.Benefits != nil {
					planBenefits = *record.Benefits
				} else if fam, found := benefits.FamilyFromNetwork(record.Network); found {
					planBenefits = fam
				}
			}
			base := models.ResolvedPlan{
				ID:          record.ID,
				Provider:    record.Provider,
				PlanName:    record.PlanName,
				Network:     record.Network,
				Copay:       record.Copay,
				Premium:     record.Premium,
				Benefits:    planBenefits.FillFrom(defaults),
				IsManual:    true,
				ProviderKey: providerKey,
				Status:      models.StatusNone,
			}
			plans = append(plans, overrides.Merge(base, member.ID, snap))
		}
	}
	return plans
}

// unpriced marks plans surfaced without a usable rate; they rank last and are
// excluded from price statistics.
func unpriced(p models.ResolvedPlan) bool {
	return p.NeedsManualRate && p.Premium == 0
}

// rankPlans sorts priced plans by ascending premium and moves unpriced plans
// to the end, preserving their relative order.
func rankPlans(plans []models.ResolvedPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		iNA, jNA := unpriced(plans[i]), unpriced(plans[j])
		if iNA != jNA {
			return !iNA
		}
		if iNA {
			return false
		}
		return plans[i].Premium < plans[j].Premium
	})
}

func priceStats(plans []models.ResolvedPlan) (min, avg, max float64) {
	var sum float64
	count := 0
	for _, p := range plans {
		if unpriced(p) {
			continue
		}
		if count == 0 || p.Premium < min {
			min = p.Premium
		}
		if count == 0 || p.Premium > max {
			max = p.Premium
		}
		sum += p.Premium
		count++
	}
	if count == 0 {
		return 0, 0, 0
	}
	return min, sum / float64(count), max
}
