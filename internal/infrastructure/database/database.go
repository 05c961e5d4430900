package database

import (
	"egdc-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN (Postgres).
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// Reset drops the whole schema, join tables included, and recreates it.
// Destructive; only the seed endpoint calls it.
func Reset(db *gorm.DB) error {
	err := db.Migrator().DropTable(
		"case_study_provider_link",
		"case_study_funder_link",
		"case_study_user_link",
		"organization_sector_link",
		&domain.CaseStudyEvent{},
		&domain.Benefit{},
		&domain.Address{},
		&domain.CaseStudy{},
		&domain.ImageObject{},
		&domain.Methodology{},
		&domain.Dataset{},
		&domain.AdditionalDocument{},
		&domain.ContactPoint{},
		&domain.Organization{},
		&domain.User{},
		&domain.RefLanguage{},
		&domain.RefCountry{},
		&domain.RefTechnology{},
		&domain.RefBenefitType{},
		&domain.RefBenefitUnit{},
		&domain.RefCalculationType{},
		&domain.RefFundingType{},
		&domain.RefOrganizationType{},
		&domain.RefSector{},
	)
	if err != nil {
		return err
	}
	return AutoMigrate(db)
}

// AutoMigrate creates/updates the full schema: reference dictionaries first
// so code foreign keys resolve, then users, organizations, attachments and
// the case-study aggregate. Join tables come from the many2many relations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.RefSector{},
		&domain.RefOrganizationType{},
		&domain.RefFundingType{},
		&domain.RefCalculationType{},
		&domain.RefBenefitUnit{},
		&domain.RefBenefitType{},
		&domain.RefTechnology{},
		&domain.RefCountry{},
		&domain.RefLanguage{},
		&domain.User{},
		&domain.Organization{},
		&domain.ContactPoint{},
		&domain.ImageObject{},
		&domain.Methodology{},
		&domain.Dataset{},
		&domain.AdditionalDocument{},
		&domain.CaseStudy{},
		&domain.Benefit{},
		&domain.Address{},
		&domain.CaseStudyEvent{},
	)
}
