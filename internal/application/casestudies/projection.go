package casestudies

import (
	"gorm.io/gorm"

	"egdc-backend/internal/domain"
)

// Read projections. Each read path declares exactly which relations it
// hydrates; nothing is loaded implicitly.

// BenefitRead is a benefit with its unit and type resolved to code/label
// pairs.
type BenefitRead struct {
	ID                uint                   `json:"id"`
	Name              string                 `json:"name"`
	Value             float64                `json:"value"`
	FunctionalUnit    *string                `json:"functional_unit"`
	IsNetCarbonImpact bool                   `json:"is_net_carbon_impact"`
	Unit              *domain.RefBenefitUnit `json:"unit"`
	Type              *domain.RefBenefitType `json:"type"`
}

// OrgSummary is the reduced organization shape used in list items.
type OrgSummary struct {
	ID      uint                        `json:"id"`
	Name    string                      `json:"name"`
	Sector  *domain.RefSector           `json:"sector"`
	OrgType *domain.RefOrganizationType `json:"org_type"`
}

// OrgDetail is the full organization shape used in the detail view.
type OrgDetail struct {
	ID            uint                        `json:"id"`
	Name          string                      `json:"name"`
	Description   *string                     `json:"description"`
	WebsiteURL    *string                     `json:"website_url"`
	SectorCode    string                      `json:"sector_code"`
	OrgTypeCode   *string                     `json:"org_type_code"`
	Sector        *domain.RefSector           `json:"sector"`
	OrgType       *domain.RefOrganizationType `json:"org_type"`
	SubSectors    []domain.RefSector          `json:"sub_sectors"`
	ContactPoints []domain.ContactPoint       `json:"contact_points"`
}

// AttachmentRead renders a methodology, dataset or additional document.
type AttachmentRead struct {
	ID       uint                `json:"id"`
	Name     string              `json:"name"`
	URL      *string             `json:"url"`
	Language *domain.RefLanguage `json:"language"`
}

// Summary is the list projection: enough for result cards.
type Summary struct {
	ID               uint                   `json:"id"`
	Title            string                 `json:"title"`
	ShortDescription string                 `json:"short_description"`
	Status           string                 `json:"status"`
	CreatedDate      domain.Date            `json:"created_date"`
	FundingType      *domain.RefFundingType `json:"funding_type"`
	Logo             *domain.ImageObject    `json:"logo"`
	Benefits         []BenefitRead          `json:"benefits"`
	Addresses        []domain.Address       `json:"addresses"`
	IsProvidedBy     []OrgSummary           `json:"is_provided_by"`
	IsFundedBy       []OrgSummary           `json:"is_funded_by"`
}

// Detail is the full projection returned by detail reads and every write.
type Detail struct {
	ID                  uint        `json:"id"`
	Title               string      `json:"title"`
	ShortDescription    string      `json:"short_description"`
	LongDescription     *string     `json:"long_description"`
	ProblemSolved       *string     `json:"problem_solved"`
	CreatedDate         domain.Date `json:"created_date"`
	Status              string      `json:"status"`
	RejectionComment    *string     `json:"rejection_comment"`
	CreatedBy           *uint       `json:"created_by"`
	TechCode            *string     `json:"tech_code"`
	CalcTypeCode        *string     `json:"calc_type_code"`
	FundingTypeCode     *string     `json:"funding_type_code"`
	FundingProgrammeURL *string     `json:"funding_programme_url"`

	Tech        *domain.RefTechnology      `json:"tech"`
	CalcType    *domain.RefCalculationType `json:"calc_type"`
	FundingType *domain.RefFundingType     `json:"funding_type"`

	Logo          *domain.ImageObject `json:"logo"`
	Methodology   *AttachmentRead     `json:"methodology"`
	Dataset       *AttachmentRead     `json:"dataset"`
	AdditionalDoc *AttachmentRead     `json:"additional_document"`

	Benefits  []BenefitRead    `json:"benefits"`
	Addresses []domain.Address `json:"addresses"`

	IsProvidedBy []OrgDetail `json:"is_provided_by"`
	IsFundedBy   []OrgDetail `json:"is_funded_by"`
	IsUsedBy     []OrgDetail `json:"is_used_by"`
}

func childOrder(db *gorm.DB) *gorm.DB { return db.Order("id") }

// SummaryScope attaches the relations the Summary projection needs. The
// search engine shares it for its result pages.
func SummaryScope(db *gorm.DB) *gorm.DB {
	return db.
		Preload("FundingType").
		Preload("Logo").
		Preload("Benefits", childOrder).
		Preload("Benefits.Unit").
		Preload("Benefits.Type").
		Preload("Addresses", childOrder).
		Preload("IsProvidedBy", childOrder).
		Preload("IsProvidedBy.Sector").
		Preload("IsProvidedBy.OrgType").
		Preload("IsFundedBy", childOrder).
		Preload("IsFundedBy.Sector").
		Preload("IsFundedBy.OrgType")
}

// detailScope attaches everything the Detail projection needs.
func detailScope(db *gorm.DB) *gorm.DB {
	db = db.
		Preload("Tech").
		Preload("CalcType").
		Preload("FundingType").
		Preload("Logo").
		Preload("Methodology.Language").
		Preload("Dataset.Language").
		Preload("AdditionalDoc.Language").
		Preload("Benefits", childOrder).
		Preload("Benefits.Unit").
		Preload("Benefits.Type").
		Preload("Addresses", childOrder)
	for _, rel := range []string{"IsProvidedBy", "IsFundedBy", "IsUsedBy"} {
		db = db.
			Preload(rel, childOrder).
			Preload(rel+".Sector").
			Preload(rel+".OrgType").
			Preload(rel+".SubSectors").
			Preload(rel+".ContactPoints", childOrder)
	}
	return db
}

func newBenefitReads(benefits []domain.Benefit) []BenefitRead {
	out := make([]BenefitRead, 0, len(benefits))
	for i := range benefits {
		b := &benefits[i]
		out = append(out, BenefitRead{
			ID:                b.ID,
			Name:              b.Name,
			Value:             b.Value,
			FunctionalUnit:    b.FunctionalUnit,
			IsNetCarbonImpact: b.IsNetCarbonImpact,
			Unit:              b.Unit,
			Type:              b.Type,
		})
	}
	return out
}

func newOrgSummaries(orgs []domain.Organization) []OrgSummary {
	out := make([]OrgSummary, 0, len(orgs))
	for i := range orgs {
		o := &orgs[i]
		out = append(out, OrgSummary{ID: o.ID, Name: o.Name, Sector: o.Sector, OrgType: o.OrgType})
	}
	return out
}

func newOrgDetails(orgs []domain.Organization) []OrgDetail {
	out := make([]OrgDetail, 0, len(orgs))
	for i := range orgs {
		o := &orgs[i]
		subSectors := o.SubSectors
		if subSectors == nil {
			subSectors = []domain.RefSector{}
		}
		contacts := o.ContactPoints
		if contacts == nil {
			contacts = []domain.ContactPoint{}
		}
		out = append(out, OrgDetail{
			ID:            o.ID,
			Name:          o.Name,
			Description:   o.Description,
			WebsiteURL:    o.WebsiteURL,
			SectorCode:    o.SectorCode,
			OrgTypeCode:   o.OrgTypeCode,
			Sector:        o.Sector,
			OrgType:       o.OrgType,
			SubSectors:    subSectors,
			ContactPoints: contacts,
		})
	}
	return out
}

func newAttachmentRead(id uint, name string, url *string, language *domain.RefLanguage) *AttachmentRead {
	return &AttachmentRead{ID: id, Name: name, URL: url, Language: language}
}

func methodologyRead(m *domain.Methodology) *AttachmentRead {
	if m == nil {
		return nil
	}
	return newAttachmentRead(m.ID, m.Name, m.URL, m.Language)
}

func datasetRead(d *domain.Dataset) *AttachmentRead {
	if d == nil {
		return nil
	}
	return newAttachmentRead(d.ID, d.Name, d.URL, d.Language)
}

func additionalDocRead(d *domain.AdditionalDocument) *AttachmentRead {
	if d == nil {
		return nil
	}
	return newAttachmentRead(d.ID, d.Name, d.URL, d.Language)
}

// NewSummary projects a loaded case study into the list shape.
func NewSummary(cs *domain.CaseStudy) Summary {
	addresses := cs.Addresses
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return Summary{
		ID:               cs.ID,
		Title:            cs.Title,
		ShortDescription: cs.ShortDescription,
		Status:           cs.Status,
		CreatedDate:      cs.CreatedDate,
		FundingType:      cs.FundingType,
		Logo:             cs.Logo,
		Benefits:         newBenefitReads(cs.Benefits),
		Addresses:        addresses,
		IsProvidedBy:     newOrgSummaries(cs.IsProvidedBy),
		IsFundedBy:       newOrgSummaries(cs.IsFundedBy),
	}
}

// NewDetail projects a loaded case study into the detail shape.
func NewDetail(cs *domain.CaseStudy) *Detail {
	addresses := cs.Addresses
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return &Detail{
		ID:                  cs.ID,
		Title:               cs.Title,
		ShortDescription:    cs.ShortDescription,
		LongDescription:     cs.LongDescription,
		ProblemSolved:       cs.ProblemSolved,
		CreatedDate:         cs.CreatedDate,
		Status:              cs.Status,
		RejectionComment:    cs.RejectionComment,
		CreatedBy:           cs.CreatedBy,
		TechCode:            cs.TechCode,
		CalcTypeCode:        cs.CalcTypeCode,
		FundingTypeCode:     cs.FundingTypeCode,
		FundingProgrammeURL: cs.FundingProgrammeURL,
		Tech:                cs.Tech,
		CalcType:            cs.CalcType,
		FundingType:         cs.FundingType,
		Logo:                cs.Logo,
		Methodology:         methodologyRead(cs.Methodology),
		Dataset:             datasetRead(cs.Dataset),
		AdditionalDoc:       additionalDocRead(cs.AdditionalDoc),
		Benefits:            newBenefitReads(cs.Benefits),
		Addresses:           addresses,
		IsProvidedBy:        newOrgDetails(cs.IsProvidedBy),
		IsFundedBy:          newOrgDetails(cs.IsFundedBy),
		IsUsedBy:            newOrgDetails(cs.IsUsedBy),
	}
}
