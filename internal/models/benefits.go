// internal/models/benefits.go
package models

// CoverageItem is a benefit category that can be toggled on/off with
// descriptive text (dental, optical, alternative medicine).
type CoverageItem struct {
	Enabled bool   `json:"enabled"`
	Value   string `json:"value"`
}

// PreexistingCover describes pre-existing condition handling.
type PreexistingCover struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// BenefitSet is the attribute bag of named coverage fields attached to a plan.
// A resolved BenefitSet is always fully populated: unset fields fall back to
// the global default template.
type BenefitSet struct {
	AreaOfCover            string       `json:"areaOfCover"`
	AnnualLimit            string       `json:"annualLimit"`
	Network                string       `json:"network"`
	ConsultationDeductible string       `json:"consultationDeductible"`
	PrescribedDrugs        string       `json:"prescribedDrugs"`
	Diagnostics            string       `json:"diagnostics"`
	PreexistingCondition   string       `json:"preexistingCondition"`
	Physiotherapy          string       `json:"physiotherapy"`
	OutpatientMaternity    string       `json:"outpatientMaternity"`
	InpatientMaternity     string       `json:"inpatientMaternity"`
	Dental                 CoverageItem `json:"dental"`
	Optical                CoverageItem `json:"optical"`
	AlternativeMedicine    CoverageItem `json:"alternativeMedicine"`

	// Legacy fields still present in older stored blobs.
	Inpatient     string           `json:"inpatient"`
	Outpatient    string           `json:"outpatient"`
	Emergency     string           `json:"emergency"`
	Maternity     string           `json:"maternity"`
	Preexisting   PreexistingCover `json:"preexisting"`
	PharmacyLimit string           `json:"pharmacyLimit"`
	Consultation  string           `json:"consultation"`
}

// FillFrom copies defaults into any field of b left at its zero value and
// returns the result. The receiver is not modified.
func (b BenefitSet) FillFrom(defaults BenefitSet) BenefitSet {
	if b.AreaOfCover == "" {
		b.AreaOfCover = defaults.AreaOfCover
	}
	if b.AnnualLimit == "" {
		b.AnnualLimit = defaults.AnnualLimit
	}
	if b.Network == "" {
		b.Network = defaults.Network
	}
	if b.ConsultationDeductible == "" {
		b.ConsultationDeductible = defaults.ConsultationDeductible
	}
	if b.PrescribedDrugs == "" {
		b.PrescribedDrugs = defaults.PrescribedDrugs
	}
	if b.Diagnostics == "" {
		b.Diagnostics = defaults.Diagnostics
	}
	if b.PreexistingCondition == "" {
		b.PreexistingCondition = defaults.PreexistingCondition
	}
	if b.Physiotherapy == "" {
		b.Physiotherapy = defaults.Physiotherapy
	}
	if b.OutpatientMaternity == "" {
		b.OutpatientMaternity = defaults.OutpatientMaternity
	}
	if b.InpatientMaternity == "" {
		b.InpatientMaternity = defaults.InpatientMaternity
	}
	if b.Dental == (CoverageItem{}) {
		b.Dental = defaults.Dental
	}
	if b.Optical == (CoverageItem{}) {
		b.Optical = defaults.Optical
	}
	if b.AlternativeMedicine == (CoverageItem{}) {
		b.AlternativeMedicine = defaults.AlternativeMedicine
	}
	if b.Inpatient == "" {
		b.Inpatient = defaults.Inpatient
	}
	if b.Outpatient == "" {
		b.Outpatient = defaults.Outpatient
	}
	if b.Emergency == "" {
		b.Emergency = defaults.Emergency
	}
	if b.Maternity == "" {
		b.Maternity = defaults.Maternity
	}
	if b.Preexisting == (PreexistingCover{}) {
		b.Preexisting = defaults.Preexisting
	}
	if b.PharmacyLimit == "" {
		b.PharmacyLimit = defaults.PharmacyLimit
	}
	if b.Consultation == "" {
		b.Consultation = defaults.Consultation
	}
	return b
}
