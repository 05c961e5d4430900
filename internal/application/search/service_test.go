package search

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"egdc-backend/internal/application/casestudies"
	"egdc-backend/internal/domain"
	"egdc-backend/internal/infrastructure/database"
)

func ptr(s string) *string { return &s }

func date(y int, m time.Month, d int) domain.Date {
	return domain.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// setupSearchTest seeds two published case studies and one draft:
//
//   - "Smart grid rollout in Zagreb" (CRO, 2023) provided by GreenGrid, an
//     energy SME with ICT as a sub-sector, carrying three tco2 benefits so
//     join fan-out is visible in any query that forgets DISTINCT.
//   - "District heating optimisation" (SWE, 2024) provided by Solveig
//     Energi, an ICT public body, with one mwh and one tco2 benefit.
//   - "Unpublished pilot" (CRO, draft) which must never surface.
func setupSearchTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	refs := []interface{}{
		&domain.RefSector{Code: "energy", Label: "Energy"},
		&domain.RefSector{Code: "ict", Label: "ICT"},
		&domain.RefOrganizationType{Code: "sme", Label: "Small or medium enterprise"},
		&domain.RefOrganizationType{Code: "public_body", Label: "Public body"},
		&domain.RefFundingType{Code: "public", Label: "Public"},
		&domain.RefFundingType{Code: "private", Label: "Private"},
		&domain.RefCalculationType{Code: "ex-ante", Label: "Ex-ante"},
		&domain.RefCalculationType{Code: "ex-post", Label: "Ex-post"},
		&domain.RefBenefitUnit{Code: "tco2", Label: "Tonnes of CO2"},
		&domain.RefBenefitUnit{Code: "mwh", Label: "Megawatt hours"},
		&domain.RefBenefitType{Code: "environmental", Label: "Environmental"},
		&domain.RefBenefitType{Code: "economic", Label: "Economic"},
		&domain.RefTechnology{Code: "5g", Label: "5G"},
		&domain.RefTechnology{Code: "iot", Label: "Internet of Things"},
		&domain.RefCountry{Code: "CRO", Label: "Croatia"},
		&domain.RefCountry{Code: "SWE", Label: "Sweden"},
	}
	for _, ref := range refs {
		require.NoError(t, db.Create(ref).Error)
	}

	green := domain.Organization{
		Name:          "GreenGrid",
		SectorCode:    "energy",
		OrgTypeCode:   ptr("sme"),
		SubSectors:    []domain.RefSector{{Code: "ict", Label: "ICT"}},
		ContactPoints: []domain.ContactPoint{{Name: "Info desk", HasEmail: "info@greengrid.example"}},
	}
	require.NoError(t, db.Create(&green).Error)

	solveig := domain.Organization{Name: "Solveig Energi", SectorCode: "ict", OrgTypeCode: ptr("public_body")}
	require.NoError(t, db.Create(&solveig).Error)

	zagreb := domain.CaseStudy{
		Title:            "Smart grid rollout in Zagreb",
		ShortDescription: "A smart grid pilot across the Zagreb distribution network.",
		Status:           domain.StatusPublished,
		CreatedDate:      date(2023, time.May, 1),
		TechCode:         ptr("5g"),
		CalcTypeCode:     ptr("ex-ante"),
		FundingTypeCode:  ptr("private"),
		Benefits: []domain.Benefit{
			{Name: "CO2 avoided", Value: 120, UnitCode: "tco2", TypeCode: "environmental", IsNetCarbonImpact: true},
			{Name: "CO2 avoided in transport", Value: 40, UnitCode: "tco2", TypeCode: "economic"},
			{Name: "CO2 avoided in buildings", Value: 30, UnitCode: "tco2", TypeCode: "economic"},
		},
		Addresses:    []domain.Address{{AdminUnitL1: "CRO", PostName: ptr("Zagreb")}},
		IsProvidedBy: []domain.Organization{{ID: green.ID}},
	}
	require.NoError(t, db.Create(&zagreb).Error)

	heating := domain.CaseStudy{
		Title:            "District heating optimisation",
		ShortDescription: "Waste heat recovery feeding the Gothenburg district network.",
		Status:           domain.StatusPublished,
		CreatedDate:      date(2024, time.February, 10),
		TechCode:         ptr("iot"),
		CalcTypeCode:     ptr("ex-post"),
		FundingTypeCode:  ptr("public"),
		Benefits: []domain.Benefit{
			{Name: "Energy saved", Value: 900, UnitCode: "mwh", TypeCode: "economic"},
			{Name: "CO2 avoided", Value: 15, UnitCode: "tco2", TypeCode: "environmental", IsNetCarbonImpact: true},
		},
		Addresses:    []domain.Address{{AdminUnitL1: "SWE", PostName: ptr("Gothenburg")}},
		IsProvidedBy: []domain.Organization{{ID: solveig.ID}},
	}
	require.NoError(t, db.Create(&heating).Error)

	draft := domain.CaseStudy{
		Title:            "Unpublished pilot",
		ShortDescription: "A draft smart grid record that must stay invisible.",
		Status:           domain.StatusDraft,
		CreatedDate:      date(2024, time.June, 1),
		TechCode:         ptr("5g"),
		Benefits: []domain.Benefit{
			{Name: "CO2 avoided", Value: 5, UnitCode: "tco2", TypeCode: "environmental", IsNetCarbonImpact: true},
		},
		Addresses:    []domain.Address{{AdminUnitL1: "CRO", PostName: ptr("Split")}},
		IsProvidedBy: []domain.Organization{{ID: green.ID}},
	}
	require.NoError(t, db.Create(&draft).Error)

	return &Service{DB: db}, db
}

func titles(items []casestudies.Summary) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func facetMap(items []FacetItem) map[string]int64 {
	m := map[string]int64{}
	for _, it := range items {
		m[it.Code] = it.Count
	}
	return m
}

func TestSearch_PublishedOnly(t *testing.T) {
	svc, _ := setupSearchTest(t)

	items, total, err := svc.Search(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.NotContains(t, titles(items), "Unpublished pilot")

	_, total, err = svc.Search(context.Background(), Filters{Query: "Unpublished", MatchType: MatchPartial})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSearch_BenefitFanOutCountsOnce(t *testing.T) {
	svc, _ := setupSearchTest(t)

	items, total, err := svc.Search(context.Background(), Filters{BenefitUnits: []string{"tco2"}})
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestSearch_SectorIncludesSubSectors(t *testing.T) {
	svc, _ := setupSearchTest(t)

	_, total, err := svc.Search(context.Background(), Filters{Sectors: []string{"ict"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "ict matches Solveig's main sector and GreenGrid's sub-sector")

	items, total, err := svc.Search(context.Background(), Filters{Sectors: []string{"energy"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Smart grid rollout in Zagreb"}, titles(items))
}

func TestSearch_CountryFilter(t *testing.T) {
	svc, _ := setupSearchTest(t)

	items, total, err := svc.Search(context.Background(), Filters{Countries: []string{"CRO"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Smart grid rollout in Zagreb"}, titles(items))
}

func TestSearch_FilterCombinationNarrows(t *testing.T) {
	svc, _ := setupSearchTest(t)

	_, total, err := svc.Search(context.Background(), Filters{
		Countries:    []string{"CRO"},
		BenefitUnits: []string{"mwh"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	items, total, err := svc.Search(context.Background(), Filters{
		Countries:        []string{"SWE"},
		FundingTypeCodes: []string{"public"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"District heating optimisation"}, titles(items))
}

func TestSearch_DefaultSortNewestFirst(t *testing.T) {
	svc, _ := setupSearchTest(t)

	items, _, err := svc.Search(context.Background(), Filters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"District heating optimisation", "Smart grid rollout in Zagreb"}, titles(items))

	items, _, err = svc.Search(context.Background(), Filters{SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Smart grid rollout in Zagreb", "District heating optimisation"}, titles(items))
}

func TestSearch_SortByTitle(t *testing.T) {
	svc, _ := setupSearchTest(t)

	items, _, err := svc.Search(context.Background(), Filters{SortBy: SortByTitle, SortOrder: "desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Smart grid rollout in Zagreb", "District heating optimisation"}, titles(items))
}

func TestSearch_PaginationStableAcrossPages(t *testing.T) {
	svc, db := setupSearchTest(t)

	for i := 0; i < 5; i++ {
		cs := domain.CaseStudy{
			Title:            "Duplicate title",
			ShortDescription: "One of several records sharing a title.",
			Status:           domain.StatusPublished,
			CreatedDate:      date(2024, time.January, 1),
		}
		require.NoError(t, db.Create(&cs).Error)
	}

	f := Filters{Query: "Duplicate", MatchType: MatchPartial, SortBy: SortByTitle, SortOrder: "asc", Limit: 2}
	seen := map[uint]bool{}
	for page := 1; page <= 3; page++ {
		f.Page = page
		items, total, err := svc.Search(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		for _, it := range items {
			assert.False(t, seen[it.ID], "case study %d returned on more than one page", it.ID)
			seen[it.ID] = true
		}
	}
	assert.Len(t, seen, 5)
}

func TestSearch_PartialMatchesReferenceLabels(t *testing.T) {
	svc, _ := setupSearchTest(t)

	items, total, err := svc.Search(context.Background(), Filters{Query: "megawatt", MatchType: MatchPartial})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"District heating optimisation"}, titles(items))

	items, total, err = svc.Search(context.Background(), Filters{Query: "2024-02", MatchType: MatchPartial})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"District heating optimisation"}, titles(items))
}

func TestSearch_ExactWordBoundary(t *testing.T) {
	svc, _ := setupSearchTest(t)

	_, total, err := svc.Search(context.Background(), Filters{Query: "grid", MatchType: MatchExact})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.Search(context.Background(), Filters{Query: "gri", MatchType: MatchExact})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestSearch_ExactMatchesOrgFields(t *testing.T) {
	svc, _ := setupSearchTest(t)

	items, total, err := svc.Search(context.Background(), Filters{Query: "GreenGrid", MatchType: MatchExact})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Smart grid rollout in Zagreb"}, titles(items))

	items, total, err = svc.Search(context.Background(), Filters{Query: "info@greengrid.example", MatchType: MatchExact})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Smart grid rollout in Zagreb"}, titles(items))
}

func TestSearch_PageClampDefaults(t *testing.T) {
	svc, _ := setupSearchTest(t)

	items, total, err := svc.Search(context.Background(), Filters{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)
}

func TestFacets_DistinctCounts(t *testing.T) {
	svc, _ := setupSearchTest(t)

	f, err := svc.Facets(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"energy": 1, "ict": 1}, facetMap(f.Sectors))
	assert.Equal(t, map[string]int64{"5g": 1, "iot": 1}, facetMap(f.Technologies))
	assert.Equal(t, map[string]int64{"private": 1, "public": 1}, facetMap(f.FundingTypes))
	assert.Equal(t, map[string]int64{"ex-ante": 1, "ex-post": 1}, facetMap(f.CalculationTypes))
	assert.Equal(t, map[string]int64{"CRO": 1, "SWE": 1}, facetMap(f.Countries))
	assert.Equal(t, map[string]int64{"public_body": 1, "sme": 1}, facetMap(f.OrganizationTypes))
	assert.Equal(t, map[string]int64{"mwh": 1, "tco2": 2}, facetMap(f.BenefitUnits), "three tco2 benefits on one record count once")
	assert.Equal(t, map[string]int64{"economic": 2, "environmental": 2}, facetMap(f.BenefitTypes))
}

func TestFacets_OmitNullCodes(t *testing.T) {
	svc, db := setupSearchTest(t)

	bare := domain.CaseStudy{
		Title:            "Bare record",
		ShortDescription: "Published without any reference codes.",
		Status:           domain.StatusPublished,
		CreatedDate:      date(2024, time.March, 3),
	}
	require.NoError(t, db.Create(&bare).Error)

	f, err := svc.Facets(context.Background())
	require.NoError(t, err)

	assert.Len(t, f.Technologies, 2)
	assert.Len(t, f.FundingTypes, 2)
	assert.Len(t, f.CalculationTypes, 2)
	for _, item := range f.Technologies {
		assert.NotEmpty(t, item.Code)
	}
}
