package organizations

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

func setupOrganizationsTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	require.NoError(t, db.Create(&domain.RefSector{Code: "energy", Label: "Energy"}).Error)
	require.NoError(t, db.Create(&domain.RefSector{Code: "ict", Label: "ICT"}).Error)
	require.NoError(t, db.Create(&domain.RefOrganizationType{Code: "sme", Label: "Small or medium enterprise"}).Error)

	return &Service{DB: db}
}

func TestList_FiltersByNameSubstring(t *testing.T) {
	svc := setupOrganizationsTest(t)

	for _, name := range []string{"Solar Collective", "GreenGrid"} {
		_, err := svc.Create(context.Background(), &Input{Name: name, SectorCode: "energy"})
		require.NoError(t, err)
	}

	all, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "GreenGrid", all[0].Name)
	assert.Equal(t, "Solar Collective", all[1].Name)

	hits, err := svc.List(context.Background(), "grid")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "GreenGrid", hits[0].Name)
}

func TestCreate_ResolvesRelations(t *testing.T) {
	svc := setupOrganizationsTest(t)

	read, err := svc.Create(context.Background(), &Input{
		Name:        "  GreenGrid  ",
		SectorCode:  "ENERGY",
		OrgTypeCode: ptr("SME"),
		WebsiteURL:  ptr("https://greengrid.example"),
	})
	require.NoError(t, err)

	assert.Equal(t, "GreenGrid", read.Name)
	assert.Equal(t, "energy", read.SectorCode)
	require.NotNil(t, read.Sector)
	assert.Equal(t, "Energy", read.Sector.Label)
	require.NotNil(t, read.OrgType)
	assert.Equal(t, "Small or medium enterprise", read.OrgType.Label)
}

func TestCreate_DuplicateNameCaseInsensitive(t *testing.T) {
	svc := setupOrganizationsTest(t)

	_, err := svc.Create(context.Background(), &Input{Name: "GreenGrid", SectorCode: "energy"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &Input{Name: "greengrid", SectorCode: "ict"})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestCreate_UnknownSector(t *testing.T) {
	svc := setupOrganizationsTest(t)

	_, err := svc.Create(context.Background(), &Input{Name: "GreenGrid", SectorCode: "warp"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Sector with code 'warp' does not exist", verr.Msg)
}

func TestCreate_UnknownOrgType(t *testing.T) {
	svc := setupOrganizationsTest(t)

	_, err := svc.Create(context.Background(), &Input{
		Name:        "GreenGrid",
		SectorCode:  "energy",
		OrgTypeCode: ptr("guild"),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Organization type with code 'guild' does not exist", verr.Msg)
}

func TestCreate_RequiresName(t *testing.T) {
	svc := setupOrganizationsTest(t)

	_, err := svc.Create(context.Background(), &Input{Name: "   ", SectorCode: "energy"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Name is required", verr.Msg)
}
