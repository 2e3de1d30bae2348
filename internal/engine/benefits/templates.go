// internal/engine/benefits/templates.go
package benefits

import (
	"encoding/json"
	"fmt"
	"os"

	"insurance-portal/internal/models"
)

// Default returns the global default benefit template. It is always fully
// populated; every resolved BenefitSet falls back to it field by field.
func Default() models.BenefitSet {
	return models.BenefitSet{
		AnnualLimit:         "As per policy schedule",
		Dental:              models.CoverageItem{Enabled: true},
		Optical:             models.CoverageItem{Enabled: true},
		AlternativeMedicine: models.CoverageItem{Enabled: false},
		Inpatient:           "Covered as per policy terms",
		Outpatient:          "Covered as per policy terms",
		Emergency:           "24/7 Coverage",
		Maternity:           "As per selected plan",
		Preexisting: models.PreexistingCover{
			Type:  "standard",
			Value: "All pre-existing medical conditions should be declared in the Medical Application Form and is subject to medical underwriting.",
		},
	}
}

// Mednet is the canonical template for MEDNET-family plans.
func Mednet() models.BenefitSet {
	return models.BenefitSet{
		AreaOfCover:            "Worldwide",
		AnnualLimit:            "AED 1 Million",
		Network:                "MEDNET Network (OP Access to Clinics only, 10PM-8AM Hospital access)",
		ConsultationDeductible: "20% max AED 50 per consultation",
		PrescribedDrugs:        "Covered with 0% copay per invoice",
		Diagnostics:            "Covered with 0% copay per invoice (X-Ray, MRI, CT-Scan, Ultrasound, Endoscopy)",
		PreexistingCondition:   "Declared conditions covered with sub limit AED 150,000. Undeclared not covered during policy period.",
		Physiotherapy:          "Covered with 0% copay up to 15 sessions per member per year (Subject to Prior Approval)",
		OutpatientMaternity:    "10% co-payment applicable on all Maternity treatments including consultations",
		InpatientMaternity:     "Normal Delivery up to AED 10,000, C-Section up to AED 10,000, Emergency up to AED 150,000 (10% copay)",
		Dental:                 models.CoverageItem{Enabled: true, Value: "Covered with 20% copay up to AED 3,500 (Consultation, X-Ray, Scaling, Extraction, Fillings, Root Canal, Crown)"},
		Optical:                models.CoverageItem{Enabled: false, Value: "Emergency cases only"},
		AlternativeMedicine:    models.CoverageItem{Enabled: true, Value: "Covered on reimbursement up to AED 1,600 (Osteopathy, Chiropractic, Homeopathy, Acupuncture, Ayurveda, Herbal)"},
		Inpatient:              "Covered with prior approval. Private room. ICU and Coronary care covered.",
		Outpatient:             "MEDNET Network - Clinics only during day, Hospitals 10PM-8AM",
		Emergency:              "Covered 100% of actual cost within and outside network",
		Maternity:              "10% copay. Normal/C-Section up to AED 10,000 each. Emergency up to AED 150,000",
		Preexisting:            models.PreexistingCover{Type: "underwriting", Value: "Declared conditions covered up to AED 150,000. Undeclared not covered."},
		PharmacyLimit:          "Covered with 0% copay up to Annual Benefit Limit",
		Consultation:           "20% copay max AED 50. Follow-up within 7 days with same doctor - No copay",
	}
}

// Nextcare is the canonical template for NEXTCARE-family plans.
func Nextcare() models.BenefitSet {
	return models.BenefitSet{
		AreaOfCover:            "Worldwide",
		AnnualLimit:            "AED 1 Million",
		Network:                "NEXTCARE Network (OP restricted to Clinics for different network)",
		ConsultationDeductible: "20% max AED 50 per consultation (No copay for follow-up within 7 days with same doctor)",
		PrescribedDrugs:        "Covered up to AED 5,000-15,000 subject to 15% Co-Insurance",
		Diagnostics:            "Covered subject to 10% Co-pay (X-Ray, MRI, CT-Scan, Ultrasound, Endoscopy)",
		PreexistingCondition:   "Declared conditions covered up to AED 150,000. Subject to MAF. Undeclared not covered during policy period.",
		Physiotherapy:          "8-20 sessions per member per annum (Subject to Pre-approval)",
		OutpatientMaternity:    "10% coinsurance, max 10-15 visits and 4-8 ante-natal ultrasound scans",
		InpatientMaternity:     "Up to AED 10,000-20,000 (10% copay). Emergency covered up to Annual Limit.",
		Dental:                 models.CoverageItem{Enabled: true, Value: "Covered up to AED 500-3,000 subject to 20-30% Co-pay (Consultation, X-Ray, Scaling, Extraction, Fillings, Root Canal)"},
		Optical:                models.CoverageItem{Enabled: true, Value: "Covered up to AED 1,000-1,500 subject to 20% Co-pay (Frames, Lenses, Contact Lenses)"},
		AlternativeMedicine:    models.CoverageItem{Enabled: true, Value: "Covered up to AED 2,500 subject to 20% copay on reimbursement (Ayurveda, Chiropractic, Chinese Medicine, Homeopathy)"},
		Inpatient:              "Covered with prior approval. Private/Semi-Private room. ICU covered.",
		Outpatient:             "NEXTCARE Network - Direct billing available",
		Emergency:              "Covered. Ambulance services covered.",
		Maternity:              "10% copay. Normal/C-Section up to AED 10,000-20,000. Emergency up to Annual Limit.",
		Preexisting:            models.PreexistingCover{Type: "underwriting", Value: "Declared conditions covered up to AED 150,000. Undeclared not covered."},
		PharmacyLimit:          "Covered up to AED 5,000-15,000 subject to 15% Co-Insurance",
		Consultation:           "20% copay max AED 50. Follow-up within 7 days with same doctor - No copay",
	}
}

// Nas is the canonical template for NAS-family plans.
func Nas() models.BenefitSet {
	return models.BenefitSet{
		AreaOfCover:            "Worldwide",
		AnnualLimit:            "AED 1 Million",
		Network:                "NAS Network (OP Restricted to Clinics, GP referral required prior to Specialist access)",
		ConsultationDeductible: "GP: 10% up to AED 15-25, Specialist: 20% up to AED 25-60 (No copay for follow-up within 7 days)",
		PrescribedDrugs:        "Covered up to AED 4,500-5,000 subject to 15% Co-Insurance",
		Diagnostics:            "Covered subject to 10% Co-pay (X-Ray, MRI, CT-Scan, Ultrasound, Endoscopy)",
		PreexistingCondition:   "Declared conditions covered up to AED 150,000. Subject to MAF. Undeclared not covered during policy period.",
		Physiotherapy:          "6-8 sessions per member per annum (Subject to Pre-approval)",
		OutpatientMaternity:    "10% coinsurance, max 10-12 visits and 4-8 ante-natal ultrasound scans",
		InpatientMaternity:     "Normal Delivery up to AED 10,000-12,500, C-Section up to AED 10,000-12,500 (10% copay)",
		Dental:                 models.CoverageItem{Enabled: true, Value: "Covered up to AED 500-1,500 subject to 20-30% Co-pay (Consultation, X-Ray, Scaling, Extraction, Fillings, Root Canal)"},
		Optical:                models.CoverageItem{Enabled: false, Value: "Not Covered / Up to AED 1,000 with 20% copay"},
		AlternativeMedicine:    models.CoverageItem{Enabled: false, Value: "Not Covered / Up to AED 1,000 on reimbursement"},
		Inpatient:              "Covered with prior approval. Semi-Private/Private room. ICU and Coronary care covered.",
		Outpatient:             "NAS Network - OP Restricted to Clinics",
		Emergency:              "Covered. Ambulance services covered.",
		Maternity:              "10% copay. Normal/C-Section up to AED 10,000-12,500 each. Emergency up to Annual Limit",
		Preexisting:            models.PreexistingCover{Type: "underwriting", Value: "Declared conditions covered up to AED 150,000. Undeclared not covered."},
		PharmacyLimit:          "Covered up to AED 4,500-5,000 subject to 15% Co-Insurance",
		Consultation:           "GP: 10% up to AED 15-25, Specialist: 20% up to AED 25-60",
	}
}

// LoadStatic reads the curated per-plan templates, keyed `{provider}_{plan}`,
// from a JSON file. A missing file is not an error: resolution falls through
// to the network-family defaults.
func LoadStatic(path string) (map[string]models.BenefitSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.BenefitSet{}, nil
		}
		return nil, fmt.Errorf("read benefit templates: %w", err)
	}

	var static map[string]models.BenefitSet
	if err := json.Unmarshal(raw, &static); err != nil {
		return nil, fmt.Errorf("parse benefit templates: %w", err)
	}
	return static, nil
}
