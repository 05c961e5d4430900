package stats

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"egdc-backend/internal/domain"
	"egdc-backend/internal/infrastructure/database"
)

func ptr(s string) *string { return &s }

func setupStatsTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	refs := []interface{}{
		&domain.RefCountry{Code: "CRO", Label: "Croatia"},
		&domain.RefCountry{Code: "MKD", Label: "North Macedonia"},
		&domain.RefCountry{Code: "SWE", Label: "Sweden"},
		&domain.RefBenefitUnit{Code: "tco2", Label: "Tonnes of CO2"},
		&domain.RefBenefitUnit{Code: "mwh", Label: "Megawatt hours"},
		&domain.RefBenefitType{Code: "environmental", Label: "Environmental"},
		&domain.RefBenefitType{Code: "economic", Label: "Economic"},
	}
	for _, ref := range refs {
		require.NoError(t, db.Create(ref).Error)
	}

	cases := []domain.CaseStudy{
		{
			Title:            "Zagreb solar roofs",
			ShortDescription: "Rooftop photovoltaics across public buildings.",
			Status:           domain.StatusPublished,
			Addresses:        []domain.Address{{AdminUnitL1: "CRO", PostName: ptr("Zagreb")}},
			Benefits: []domain.Benefit{
				{Name: "CO2 avoided", Value: 100, UnitCode: "tco2", TypeCode: "environmental", IsNetCarbonImpact: true},
			},
		},
		{
			Title:            "Zagreb tram electrification",
			ShortDescription: "Fleet conversion with a depot in each district.",
			Status:           domain.StatusPublished,
			Addresses: []domain.Address{
				{AdminUnitL1: "CRO", PostName: ptr("Zagreb")},
				{AdminUnitL1: "CRO", PostName: ptr("Zagreb")},
			},
			Benefits: []domain.Benefit{
				{Name: "CO2 avoided", Value: 50, UnitCode: "tco2", TypeCode: "environmental", IsNetCarbonImpact: true},
				{Name: "Energy saved", Value: 10, UnitCode: "mwh", TypeCode: "economic"},
			},
		},
		{
			Title:            "Gothenburg heat network",
			ShortDescription: "Industrial waste heat reuse.",
			Status:           domain.StatusPublished,
			Addresses:        []domain.Address{{AdminUnitL1: "SWE", PostName: ptr("Gothenburg")}},
		},
		{
			Title:            "National grid study",
			ShortDescription: "Country-wide assessment without a city anchor.",
			Status:           domain.StatusPublished,
			Addresses:        []domain.Address{{AdminUnitL1: "MKD"}},
		},
		{
			Title:            "Draft pilot",
			ShortDescription: "Not yet reviewed, must not count anywhere.",
			Status:           domain.StatusDraft,
			Addresses:        []domain.Address{{AdminUnitL1: "CRO", PostName: ptr("Zagreb")}},
			Benefits: []domain.Benefit{
				{Name: "CO2 avoided", Value: 999, UnitCode: "tco2", TypeCode: "environmental", IsNetCarbonImpact: true},
			},
		},
	}
	for i := range cases {
		require.NoError(t, db.Create(&cases[i]).Error)
	}

	return &Service{DB: db}
}

func TestDashboard_MapCountsDistinctCases(t *testing.T) {
	svc := setupStatsTest(t)

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.MapData, 3)

	cro := resp.MapData[0]
	assert.Equal(t, "CRO", cro.CountryCode)
	assert.Equal(t, "Croatia", cro.CountryLabel)
	require.Len(t, cro.Cities, 1)
	assert.Equal(t, CityStat{Name: "Zagreb", Count: 2}, cro.Cities[0], "two published cases, duplicate addresses and the draft do not inflate the count")

	mkd := resp.MapData[1]
	assert.Equal(t, "MKD", mkd.CountryCode)
	assert.Empty(t, mkd.Cities)

	swe := resp.MapData[2]
	assert.Equal(t, "SWE", swe.CountryCode)
	assert.Equal(t, []CityStat{{Name: "Gothenburg", Count: 1}}, swe.Cities)
}

func TestDashboard_KPISumsPublishedBenefits(t *testing.T) {
	svc := setupStatsTest(t)

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []BenefitStat{
		{TypeCode: "economic", UnitCode: "mwh", TotalValue: 10},
		{TypeCode: "environmental", UnitCode: "tco2", TotalValue: 150},
	}, resp.KPIData)
}

func TestDashboard_EmptyCatalog(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	svc := &Service{DB: db}

	resp, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, resp.MapData)
	assert.Empty(t, resp.KPIData)
	assert.NotNil(t, resp.MapData)
	assert.NotNil(t, resp.KPIData)
}
