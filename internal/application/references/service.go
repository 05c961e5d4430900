package references

import (
	"context"

	"gorm.io/gorm"

	"egdc-backend/internal/domain"
)

// Item is one code/label dictionary entry.
type Item struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Data bundles every dictionary the frontend needs for its filter dropdowns
// in one payload.
type Data struct {
	BenefitTypes      []Item `json:"benefit_types"`
	BenefitUnits      []Item `json:"benefit_units"`
	CalculationTypes  []Item `json:"calculation_types"`
	Countries         []Item `json:"countries"`
	FundingTypes      []Item `json:"funding_types"`
	Languages         []Item `json:"languages"`
	OrganizationTypes []Item `json:"organization_types"`
	Sectors           []Item `json:"sectors"`
	Technologies      []Item `json:"technologies"`
}

// Service reads the reference dictionaries.
type Service struct {
	DB *gorm.DB
}

// All loads the nine dictionaries, each sorted by label case-insensitively
// for display. Queries run sequentially on one connection.
func (s *Service) All(ctx context.Context) (*Data, error) {
	out := &Data{}
	for _, dim := range []struct {
		dest  *[]Item
		model interface{}
	}{
		{&out.BenefitTypes, &domain.RefBenefitType{}},
		{&out.BenefitUnits, &domain.RefBenefitUnit{}},
		{&out.CalculationTypes, &domain.RefCalculationType{}},
		{&out.Countries, &domain.RefCountry{}},
		{&out.FundingTypes, &domain.RefFundingType{}},
		{&out.Languages, &domain.RefLanguage{}},
		{&out.OrganizationTypes, &domain.RefOrganizationType{}},
		{&out.Sectors, &domain.RefSector{}},
		{&out.Technologies, &domain.RefTechnology{}},
	} {
		items := []Item{}
		err := s.DB.WithContext(ctx).Model(dim.model).
			Select("code, label").
			Order("LOWER(label), label").
			Scan(&items).Error
		if err != nil {
			return nil, err
		}
		*dim.dest = items
	}
	return out, nil
}
