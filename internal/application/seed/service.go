package seed

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"egdc-backend/internal/domain"
	"egdc-backend/internal/infrastructure/database"
	"egdc-backend/internal/pkg/constants"
)

// Service rebuilds the database with demo content: three accounts, the
// reference dictionaries, a small organization registry and a published
// starter catalog. Every run drops and recreates the schema first.
type Service struct {
	DB *gorm.DB
}

// Run resets the schema and loads the demo dataset. The load happens in one
// transaction so a half-seeded database never survives an error.
func (s *Service) Run(ctx context.Context) error {
	db := s.DB.WithContext(ctx)
	if err := database.Reset(db); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		ownerID, err := seedUsers(tx)
		if err != nil {
			return err
		}
		if err := seedReferences(tx); err != nil {
			return err
		}
		orgs, err := seedOrganizations(tx)
		if err != nil {
			return err
		}
		return seedCaseStudies(tx, ownerID, orgs)
	})
}

func seedUsers(tx *gorm.DB) (uint, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	users := []domain.User{
		{Email: "admin@example.com", Role: constants.Admin, HashedPassword: string(hash)},
		{Email: "custodian@example.com", Role: constants.Custodian, HashedPassword: string(hash)},
		{Email: "owner@example.com", Role: constants.DataOwner, HashedPassword: string(hash)},
	}

	var ownerID uint
	for i := range users {
		if err := tx.Create(&users[i]).Error; err != nil {
			return 0, err
		}
		if users[i].Role == constants.DataOwner {
			ownerID = users[i].ID
		}
	}
	return ownerID, nil
}

// euLanguages is the fixed dropdown list of official EU languages.
var euLanguages = []domain.RefLanguage{
	{Code: "bg", Label: "Bulgarian"},
	{Code: "hr", Label: "Croatian"},
	{Code: "cs", Label: "Czech"},
	{Code: "da", Label: "Danish"},
	{Code: "nl", Label: "Dutch"},
	{Code: "en", Label: "English"},
	{Code: "et", Label: "Estonian"},
	{Code: "fi", Label: "Finnish"},
	{Code: "fr", Label: "French"},
	{Code: "de", Label: "German"},
	{Code: "el", Label: "Greek"},
	{Code: "hu", Label: "Hungarian"},
	{Code: "ga", Label: "Irish"},
	{Code: "it", Label: "Italian"},
	{Code: "lv", Label: "Latvian"},
	{Code: "lt", Label: "Lithuanian"},
	{Code: "mt", Label: "Maltese"},
	{Code: "pl", Label: "Polish"},
	{Code: "pt", Label: "Portuguese"},
	{Code: "ro", Label: "Romanian"},
	{Code: "sk", Label: "Slovak"},
	{Code: "sl", Label: "Slovenian"},
	{Code: "es", Label: "Spanish"},
	{Code: "sv", Label: "Swedish"},
}

func seedReferences(tx *gorm.DB) error {
	refs := []interface{}{
		&domain.RefSector{Code: "energy", Label: "Energy"},
		&domain.RefSector{Code: "ict", Label: "Information and communication technology"},
		&domain.RefSector{Code: "mobility", Label: "Mobility and transport"},
		&domain.RefSector{Code: "construction", Label: "Construction and buildings"},
		&domain.RefSector{Code: "water", Label: "Water management"},
		&domain.RefOrganizationType{Code: "sme", Label: "Small or medium enterprise"},
		&domain.RefOrganizationType{Code: "large_enterprise", Label: "Large enterprise"},
		&domain.RefOrganizationType{Code: "public_body", Label: "Public body"},
		&domain.RefOrganizationType{Code: "research_institute", Label: "Research institute"},
		&domain.RefOrganizationType{Code: "ngo", Label: "Non-governmental organisation"},
		&domain.RefFundingType{Code: "public", Label: "Public"},
		&domain.RefFundingType{Code: "private", Label: "Private"},
		&domain.RefFundingType{Code: "mixed", Label: "Mixed"},
		&domain.RefCalculationType{Code: "ex-ante", Label: "Ex-ante estimate"},
		&domain.RefCalculationType{Code: "ex-post", Label: "Ex-post measurement"},
		&domain.RefBenefitUnit{Code: "tco2", Label: "Tonnes of CO2 equivalent"},
		&domain.RefBenefitUnit{Code: "mwh", Label: "Megawatt hours"},
		&domain.RefBenefitUnit{Code: "eur", Label: "Euro"},
		&domain.RefBenefitUnit{Code: "pct", Label: "Percent"},
		&domain.RefBenefitType{Code: "environmental", Label: "Environmental"},
		&domain.RefBenefitType{Code: "economic", Label: "Economic"},
		&domain.RefBenefitType{Code: "social", Label: "Social"},
		&domain.RefTechnology{Code: "5g", Label: "5G connectivity"},
		&domain.RefTechnology{Code: "iot", Label: "Internet of Things"},
		&domain.RefTechnology{Code: "ai", Label: "Artificial intelligence"},
		&domain.RefTechnology{Code: "smart-grid", Label: "Smart grid"},
		&domain.RefCountry{Code: "CRO", Label: "Croatia"},
		&domain.RefCountry{Code: "SWE", Label: "Sweden"},
		&domain.RefCountry{Code: "DEU", Label: "Germany"},
		&domain.RefCountry{Code: "FRA", Label: "France"},
		&domain.RefCountry{Code: "NLD", Label: "Netherlands"},
	}
	for _, ref := range refs {
		if err := tx.Create(ref).Error; err != nil {
			return err
		}
	}
	for i := range euLanguages {
		if err := tx.Create(&euLanguages[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedOrganizations(tx *gorm.DB) (map[string]uint, error) {
	orgs := []domain.Organization{
		{
			Name:        "GreenGrid Energia",
			Description: ptr("Distribution system operator piloting smart grid upgrades across Croatia."),
			WebsiteURL:  ptr("https://greengrid-energia.example"),
			SectorCode:  "energy",
			OrgTypeCode: ptr("sme"),
			SubSectors:  []domain.RefSector{{Code: "ict", Label: "Information and communication technology"}},
			ContactPoints: []domain.ContactPoint{
				{Name: "Project office", HasEmail: "projects@greengrid-energia.example"},
			},
		},
		{
			Name:        "Solveig Energi AB",
			Description: ptr("Municipal energy company running the Gothenburg district heating network."),
			WebsiteURL:  ptr("https://solveig-energi.example"),
			SectorCode:  "energy",
			OrgTypeCode: ptr("large_enterprise"),
			ContactPoints: []domain.ContactPoint{
				{Name: "Sustainability desk", HasEmail: "sustainability@solveig-energi.example"},
			},
		},
		{
			Name:        "Ministry of Economy and Sustainable Development",
			SectorCode:  "energy",
			OrgTypeCode: ptr("public_body"),
		},
		{
			Name:        "Zagreb Institute of Applied Engineering",
			SectorCode:  "ict",
			OrgTypeCode: ptr("research_institute"),
		},
	}

	byName := map[string]uint{}
	for i := range orgs {
		if err := tx.Create(&orgs[i]).Error; err != nil {
			return nil, err
		}
		byName[orgs[i].Name] = orgs[i].ID
	}
	return byName, nil
}

func seedCaseStudies(tx *gorm.DB, ownerID uint, orgs map[string]uint) error {
	cases := []domain.CaseStudy{
		{
			Title:            "Smart grid rollout in Zagreb",
			ShortDescription: "A smart grid pilot across the Zagreb distribution network.",
			LongDescription:  ptr("GreenGrid Energia upgraded 40 substations with 5G-connected monitoring, cutting losses and enabling demand response across the city."),
			ProblemSolved:    ptr("Grid losses and slow fault detection in an ageing urban distribution network."),
			CreatedDate:      seedDate(2023, time.May, 12),
			Status:           domain.StatusPublished,
			CreatedBy:        &ownerID,
			TechCode:         ptr("5g"),
			CalcTypeCode:     ptr("ex-ante"),
			FundingTypeCode:  ptr("private"),
			Logo: &domain.ImageObject{
				URL:     "/static/uploads/demo-greengrid-logo.png",
				AltText: ptr("Logo for Smart grid rollout in Zagreb"),
			},
			Methodology: &domain.Methodology{
				Name:         "GHG assessment methodology.pdf",
				URL:          ptr("/static/uploads/demo-zagreb-methodology.pdf"),
				LanguageCode: ptr("en"),
			},
			Dataset: &domain.Dataset{
				Name:         "Substation telemetry 2022.csv",
				URL:          ptr("/static/uploads/demo-zagreb-dataset.csv"),
				LanguageCode: ptr("en"),
			},
			Benefits: []domain.Benefit{
				{Name: "Net CO2 avoided", Value: 1200, UnitCode: "tco2", TypeCode: "environmental", FunctionalUnit: ptr("per year"), IsNetCarbonImpact: true},
				{Name: "Energy savings", Value: 3400, UnitCode: "mwh", TypeCode: "economic", FunctionalUnit: ptr("per year")},
			},
			Addresses: []domain.Address{
				{AdminUnitL1: "CRO", PostName: ptr("Zagreb")},
			},
			IsProvidedBy: []domain.Organization{{ID: orgs["GreenGrid Energia"]}},
			IsFundedBy:   []domain.Organization{{ID: orgs["Ministry of Economy and Sustainable Development"]}},
			IsUsedBy:     []domain.Organization{{ID: orgs["Zagreb Institute of Applied Engineering"]}},
		},
		{
			Title:               "District heating optimisation in Gothenburg",
			ShortDescription:    "Waste heat recovery feeding the Gothenburg district network.",
			LongDescription:     ptr("Solveig Energi connected two industrial plants to the district loop and tuned flow temperatures with IoT sensors along the backbone."),
			ProblemSolved:       ptr("Industrial waste heat vented instead of displacing fossil peak boilers."),
			CreatedDate:         seedDate(2024, time.February, 10),
			Status:              domain.StatusPublished,
			CreatedBy:           &ownerID,
			TechCode:            ptr("iot"),
			CalcTypeCode:        ptr("ex-post"),
			FundingTypeCode:     ptr("public"),
			FundingProgrammeURL: ptr("https://climate-fund.example/programmes/heat-reuse"),
			Logo: &domain.ImageObject{
				URL:     "/static/uploads/demo-solveig-logo.png",
				AltText: ptr("Logo for District heating optimisation in Gothenburg"),
			},
			Methodology: &domain.Methodology{
				Name:         "Heat recovery accounting.pdf",
				URL:          ptr("/static/uploads/demo-gothenburg-methodology.pdf"),
				LanguageCode: ptr("en"),
			},
			Dataset: &domain.Dataset{
				Name:         "Network temperatures 2023.csv",
				URL:          ptr("/static/uploads/demo-gothenburg-dataset.csv"),
				LanguageCode: ptr("en"),
			},
			Benefits: []domain.Benefit{
				{Name: "Net CO2 avoided", Value: 1800, UnitCode: "tco2", TypeCode: "environmental", FunctionalUnit: ptr("per year"), IsNetCarbonImpact: true},
				{Name: "Fuel cost reduction", Value: 250000, UnitCode: "eur", TypeCode: "economic", FunctionalUnit: ptr("per year")},
			},
			Addresses: []domain.Address{
				{AdminUnitL1: "SWE", PostName: ptr("Gothenburg")},
			},
			IsProvidedBy: []domain.Organization{{ID: orgs["Solveig Energi AB"]}},
		},
	}

	for i := range cases {
		if err := tx.Create(&cases[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDate(y int, m time.Month, d int) domain.Date {
	return domain.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func ptr(s string) *string { return &s }
