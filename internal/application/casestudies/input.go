package casestudies

import (
	"strings"

	"egdc-backend/internal/pkg/validation"
)

// BenefitInput is one quantified outcome inside the metadata payload.
type BenefitInput struct {
	Name              string  `json:"name"`
	Value             float64 `json:"value"`
	UnitCode          string  `json:"unit_code"`
	TypeCode          string  `json:"type_code"`
	FunctionalUnit    *string `json:"functional_unit"`
	IsNetCarbonImpact bool    `json:"is_net_carbon_impact"`
}

// AddressInput locates the case study; AdminUnitL1 is the country code.
type AddressInput struct {
	AdminUnitL1 string  `json:"admin_unit_l1"`
	PostName    *string `json:"post_name"`
}

// Input is the decoded "metadata" form field for create, update and preview.
// Status is the requested target status; ResolveStatus decides what is
// actually persisted.
type Input struct {
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	LongDescription  *string `json:"long_description"`
	ProblemSolved    *string `json:"problem_solved"`
	Status           string  `json:"status"`

	TechCode            *string `json:"tech_code"`
	CalcTypeCode        *string `json:"calc_type_code"`
	FundingTypeCode     *string `json:"funding_type_code"`
	FundingProgrammeURL *string `json:"funding_programme_url"`

	ProviderOrgID *uint `json:"provider_org_id"`
	FunderOrgID   *uint `json:"funder_org_id"`
	UserOrgID     *uint `json:"user_org_id"`

	MethodologyLanguageCode   *string `json:"methodology_language_code"`
	DatasetLanguageCode       *string `json:"dataset_language_code"`
	AdditionalDocLanguageCode *string `json:"additional_doc_language_code"`

	Benefits  []BenefitInput `json:"benefits"`
	Addresses []AddressInput `json:"addresses"`
}

// Normalize trims free text and lowercases reference codes once at the
// boundary. Empty optional strings become nil so they persist as NULL.
// Country codes keep their case; the country dictionary uses uppercase codes.
func (in *Input) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.ShortDescription = strings.TrimSpace(in.ShortDescription)
	validation.TrimPtr(&in.LongDescription)
	validation.TrimPtr(&in.ProblemSolved)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))

	validation.NormalizeCode(&in.TechCode)
	validation.NormalizeCode(&in.CalcTypeCode)
	validation.NormalizeCode(&in.FundingTypeCode)
	validation.TrimPtr(&in.FundingProgrammeURL)
	validation.NormalizeCode(&in.MethodologyLanguageCode)
	validation.NormalizeCode(&in.DatasetLanguageCode)
	validation.NormalizeCode(&in.AdditionalDocLanguageCode)

	for i := range in.Benefits {
		b := &in.Benefits[i]
		b.Name = strings.TrimSpace(b.Name)
		b.UnitCode = strings.ToLower(strings.TrimSpace(b.UnitCode))
		b.TypeCode = strings.ToLower(strings.TrimSpace(b.TypeCode))
		validation.TrimPtr(&b.FunctionalUnit)
	}
	for i := range in.Addresses {
		a := &in.Addresses[i]
		a.AdminUnitL1 = strings.TrimSpace(a.AdminUnitL1)
		validation.TrimPtr(&a.PostName)
	}
}

// FileInput carries one uploaded attachment. StoredURL is empty on preview,
// where nothing is written to storage.
type FileInput struct {
	OriginalName string
	StoredURL    string
}

// Files groups the optional attachment parts of a multipart submission.
type Files struct {
	Methodology   *FileInput
	Dataset       *FileInput
	Logo          *FileInput
	AdditionalDoc *FileInput
}

// ReviewInput is the body of the review action.
type ReviewInput struct {
	Status           string  `json:"status"`
	RejectionComment *string `json:"rejection_comment"`
}
