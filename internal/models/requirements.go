package models

// CorePersonnel captures the core operating personnel conditions of an RFP.
type CorePersonnel struct {
	MinimumCount          string `json:"minimum_count,omitempty"`
	LeadManagerExperience string `json:"lead_manager_experience,omitempty"`
	OtherExperience       string `json:"other_experience,omitempty"`
}

// IsZero reports whether no personnel condition was found.
func (p CorePersonnel) IsZero() bool {
	return p == CorePersonnel{}
}

// RequirementsRecord is the typed result of extracting an RFP document.
// Empty strings and empty slices mean the corresponding rule did not match.
type RequirementsRecord struct {
	AnnouncementDate          string        `json:"announcement_date"`
	SubmissionDeadline        string        `json:"submission_deadline"`
	TotalFundSize             string        `json:"total_fund_size"`
	FundCount                 string        `json:"fund_count"`
	InvestmentAreas           []string      `json:"investment_areas"`
	MandatoryInvestment       string        `json:"mandatory_investment"`
	FundDuration              string        `json:"fund_duration"`
	GPContribution            string        `json:"gp_contribution"`
	CorePersonnelRequirements CorePersonnel `json:"core_personnel_requirements"`
	EvaluationProcess         []string      `json:"evaluation_process"`
	ExclusionCriteria         []string      `json:"exclusion_criteria"`
	KIFSpecificRequirements   []string      `json:"kif_specific_requirements"`
}

// NewRequirementsRecord returns an empty-valued record with non-nil sequences.
func NewRequirementsRecord() RequirementsRecord {
	return RequirementsRecord{
		InvestmentAreas:         []string{},
		EvaluationProcess:       []string{},
		ExclusionCriteria:       []string{},
		KIFSpecificRequirements: []string{},
	}
}
