// internal/ratetable/metadata.go
package ratetable

import "strings"

// NetworkFamily identifies the TPA network family a plan belongs to.
type NetworkFamily string

const (
	FamilyNone     NetworkFamily = ""
	FamilyMednet   NetworkFamily = "MEDNET"
	FamilyNextcare NetworkFamily = "NEXTCARE"
	FamilyNas      NetworkFamily = "NAS"
)

// SalaryBand tags plans restricted to a salary category.
type SalaryBand string

const (
	SalaryBandAny    SalaryBand = ""
	SalaryBandLow    SalaryBand = "LSB"
	SalaryBandNonLow SalaryBand = "NLSB"
)

// PlanMetadata is the structured replacement for the dataset's plan-name
// conventions (tags like _DXB, _NE, _LSB, MEDNET_* embedded in the name).
// It is derived once at table load so that eligibility filtering and network
// detection operate over explicit fields instead of substring checks.
type PlanMetadata struct {
	DubaiTagged    bool
	NorthernTagged bool

	// Salary banding only applies to basic-plan families of specific
	// providers; SalaryBanded is false everywhere else.
	SalaryBanded  bool
	SalaryBand    SalaryBand
	PrincipalOnly bool

	NetworkFamily NetworkFamily
	Network       string
	Copay         string
	DisplayName   string
	Provider      string // display provider name, family suffix stripped
}

// PlanLocation renders the location tag as a user-facing label.
func (m PlanMetadata) PlanLocation() string {
	if m.DubaiTagged {
		return "Dubai"
	}
	return "Northern Emirates"
}

// SalaryCategory renders the salary band as a user-facing label.
func (m PlanMetadata) SalaryCategory() string {
	switch m.SalaryBand {
	case SalaryBandLow:
		return "Below 4K"
	case SalaryBandNonLow:
		return "Above 4K"
	default:
		return "All"
	}
}

// salaryBandedProviders lists providers whose basic plan families carry
// salary banding.
var salaryBandedProviders = map[string]bool{
	"ORIENT": true,
}

// DeriveMetadata inspects a (provider, planName) pair and attaches explicit
// tags for everything the dataset encodes by naming convention.
func DeriveMetadata(provider, planName string) PlanMetadata {
	m := PlanMetadata{
		NorthernTagged: strings.Contains(planName, "_NE") ||
			strings.HasPrefix(planName, "NE_") ||
			strings.Contains(planName, "NEMED"),
		DubaiTagged: strings.Contains(planName, "_DXB") ||
			strings.Contains(planName, "DMED") ||
			strings.Contains(planName, "EMED") ||
			strings.Contains(planName, "IMED") ||
			strings.Contains(planName, "DUBAI"),
	}

	if salaryBandedProviders[provider] {
		m.SalaryBanded = true
		switch {
		case strings.Contains(planName, "_LSB"):
			m.SalaryBand = SalaryBandLow
		case strings.Contains(planName, "_NLSB") || planName == "IMED_DXB":
			m.SalaryBand = SalaryBandNonLow
		}
		// Enhanced/individual basic plans are sold to principals only;
		// dependents use the DMED variants.
		m.PrincipalOnly = strings.Contains(planName, "EMED") || planName == "IMED_DXB"
	}

	m.Copay = deriveCopay(planName)
	m.NetworkFamily, m.Network, m.DisplayName = deriveNetwork(provider, planName)
	m.Provider = cleanProviderName(provider)
	return m
}

func deriveCopay(planName string) string {
	switch {
	case strings.HasSuffix(planName, "_0"):
		return "0%"
	case strings.HasSuffix(planName, "_10"):
		return "10%"
	case strings.HasSuffix(planName, "_20"):
		return "20%"
	default:
		return "Variable"
	}
}

// networkPattern maps a plan-name marker to its family and display name.
// Order matters: more specific markers come first.
type networkPattern struct {
	marker  string
	family  NetworkFamily
	display string
}

var networkPatterns = []networkPattern{
	{"MEDNET_SILKROAD", FamilyMednet, "SilkRoad"},
	{"MEDNET_PEARL", FamilyMednet, "Pearl"},
	{"MEDNET_EMERALD", FamilyMednet, "Emerald"},
	{"MEDNET_GREEN", FamilyMednet, "Green"},
	{"MEDNET_SILVER_CLASSIC", FamilyMednet, "Silver Classic"},
	{"MEDNET_SILVER_PREMIUM", FamilyMednet, "Silver Premium"},
	{"MEDNET_GOLD", FamilyMednet, "Gold"},
	{"NEXTCARE_PCP", FamilyNextcare, "PCP"},
	{"NEXTCARE_RN3", FamilyNextcare, "RN3"},
	{"NEXTCARE_RN2", FamilyNextcare, "RN2"},
	{"NEXTCARE_RN_", FamilyNextcare, "RN"},
	{"NEXTCARE_GN_LIMITED", FamilyNextcare, "GN Limited"},
	{"NEXTCARE_GN_PLUS", FamilyNextcare, "GN+"},
	{"NEXTCARE_GN_", FamilyNextcare, "GN"},
	{"NAS_VN_", FamilyNas, "VN"},
	{"NAS_WN_", FamilyNas, "WN"},
	{"NAS_SRN_", FamilyNas, "SRN"},
	{"NAS_RN_", FamilyNas, "RN"},
	{"NAS_GN_", FamilyNas, "GN"},
	{"NAS_CN_", FamilyNas, "CN"},
}

func deriveNetwork(provider, planName string) (NetworkFamily, string, string) {
	for _, p := range networkPatterns {
		if strings.Contains(planName, p.marker) {
			return p.family, string(p.family), p.display
		}
	}

	display := strings.ReplaceAll(planName, "_", " ")

	switch {
	case strings.Contains(planName, "MEDNET") || strings.Contains(provider, "_MEDNET"):
		return FamilyMednet, "MEDNET", display
	case strings.Contains(planName, "NAS") || strings.Contains(provider, "_NAS"):
		return FamilyNas, "NAS", display
	case strings.Contains(planName, "NEXTCARE") || strings.Contains(provider, "_NEXTCARE"):
		return FamilyNextcare, "NEXTCARE", display
	}

	// Provider-level conventions for plans with no family marker.
	switch {
	case provider == "FIDELITY" && strings.Contains(planName, "NE"):
		return FamilyNone, "AAFIA TPA", display
	case provider == "UFIC":
		return FamilyNone, "UFIC Network", display
	case strings.Contains(provider, "WATANIA"):
		return FamilyNone, "NAS/Mednet TPA", display
	case strings.Contains(provider, "ORIENT"):
		return FamilyNone, "Orient/Nextcare", display
	case provider == "TAKAFUL_EMARAT":
		return FamilyNextcare, "NEXTCARE", display
	}

	return FamilyNone, "Standard", display
}

func cleanProviderName(provider string) string {
	name := strings.ReplaceAll(provider, "_MEDNET", "")
	name = strings.ReplaceAll(name, "_NEXTCARE", "")
	name = strings.ReplaceAll(name, "_NAS", "")
	return strings.ReplaceAll(name, "_", " ")
}
