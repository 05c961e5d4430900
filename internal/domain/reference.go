package domain

// Reference dictionaries: small closed code/label tables used as filter
// vocabulary and as foreign-key targets. Each gets its own table so the
// code columns on case studies, benefits and organizations stay enforceable.

type RefSector struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefSector) TableName() string { return "ref_sector" }

type RefOrganizationType struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefOrganizationType) TableName() string { return "ref_organization_type" }

type RefFundingType struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefFundingType) TableName() string { return "ref_funding_type" }

type RefCalculationType struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefCalculationType) TableName() string { return "ref_calculation_type" }

type RefBenefitUnit struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefBenefitUnit) TableName() string { return "ref_benefit_unit" }

type RefBenefitType struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefBenefitType) TableName() string { return "ref_benefit_type" }

type RefTechnology struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefTechnology) TableName() string { return "ref_technology" }

type RefCountry struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefCountry) TableName() string { return "ref_country" }

type RefLanguage struct {
	Code  string `gorm:"column:code;primaryKey" json:"code"`
	Label string `gorm:"column:label;not null" json:"label"`
}

func (RefLanguage) TableName() string { return "ref_language" }
