package domain

import "time"

// Case study lifecycle statuses. Declined records behave like drafts for
// re-submission but keep the reviewer's rejection comment until approved.
const (
	StatusDraft           = "draft"
	StatusPendingApproval = "pending_approval"
	StatusPublished       = "published"
	StatusDeclined        = "declined"
)

// BenefitTypeEnvironmental is the benefit type code the net carbon impact
// benefit must carry before a case study can leave draft.
const BenefitTypeEnvironmental = "environmental"

// FundingTypePublic makes the funding programme URL mandatory on submission.
const FundingTypePublic = "public"

// CaseStudy is the aggregate root: descriptive fields, workflow status,
// reference-code attributes, one-to-one attachments, child benefits and
// addresses, and organization links in three roles.
type CaseStudy struct {
	ID               uint    `gorm:"column:id;primaryKey" json:"id"`
	Title            string  `gorm:"column:title;not null" json:"title"`
	ShortDescription string  `gorm:"column:short_description;not null" json:"short_description"`
	LongDescription  *string `gorm:"column:long_description" json:"long_description"`
	ProblemSolved    *string `gorm:"column:problem_solved" json:"problem_solved"`

	// CreatedDate is assigned by the system at creation and never updated.
	CreatedDate Date `gorm:"column:created_date;type:date" json:"created_date"`

	Status           string  `gorm:"column:status;type:varchar(20);not null;default:'draft'" json:"status"`
	RejectionComment *string `gorm:"column:rejection_comment" json:"rejection_comment"`
	CreatedBy        *uint   `gorm:"column:created_by" json:"created_by"`

	TechCode            *string `gorm:"column:tech_code" json:"tech_code"`
	CalcTypeCode        *string `gorm:"column:calc_type_code" json:"calc_type_code"`
	FundingTypeCode     *string `gorm:"column:funding_type_code" json:"funding_type_code"`
	FundingProgrammeURL *string `gorm:"column:funding_programme_url" json:"funding_programme_url"`

	LogoID          *uint `gorm:"column:logo_id" json:"-"`
	MethodologyID   *uint `gorm:"column:methodology_id" json:"-"`
	DatasetID       *uint `gorm:"column:dataset_id" json:"-"`
	AdditionalDocID *uint `gorm:"column:additional_document_id" json:"-"`

	Tech        *RefTechnology      `gorm:"foreignKey:TechCode;references:Code" json:"tech,omitempty"`
	CalcType    *RefCalculationType `gorm:"foreignKey:CalcTypeCode;references:Code" json:"calc_type,omitempty"`
	FundingType *RefFundingType     `gorm:"foreignKey:FundingTypeCode;references:Code" json:"funding_type,omitempty"`

	Logo          *ImageObject        `gorm:"foreignKey:LogoID" json:"logo,omitempty"`
	Methodology   *Methodology        `gorm:"foreignKey:MethodologyID" json:"methodology,omitempty"`
	Dataset       *Dataset            `gorm:"foreignKey:DatasetID" json:"dataset,omitempty"`
	AdditionalDoc *AdditionalDocument `gorm:"foreignKey:AdditionalDocID" json:"additional_document,omitempty"`

	Benefits  []Benefit `gorm:"foreignKey:CaseStudyID" json:"benefits"`
	Addresses []Address `gorm:"foreignKey:CaseStudyID" json:"addresses"`

	IsProvidedBy []Organization `gorm:"many2many:case_study_provider_link;joinForeignKey:case_study_id;joinReferences:organization_id" json:"is_provided_by"`
	IsFundedBy   []Organization `gorm:"many2many:case_study_funder_link;joinForeignKey:case_study_id;joinReferences:organization_id" json:"is_funded_by"`
	IsUsedBy     []Organization `gorm:"many2many:case_study_user_link;joinForeignKey:case_study_id;joinReferences:organization_id" json:"is_used_by"`

	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"-"`
}

func (CaseStudy) TableName() string { return "case_study" }

// Benefit is a quantified outcome attached to a case study. Exactly one
// benefit per published case study carries IsNetCarbonImpact.
type Benefit struct {
	ID                uint    `gorm:"column:id;primaryKey" json:"id"`
	Name              string  `gorm:"column:name;not null" json:"name"`
	Value             float64 `gorm:"column:value;not null" json:"value"`
	UnitCode          string  `gorm:"column:unit_code;not null" json:"unit_code"`
	TypeCode          string  `gorm:"column:type_code;not null" json:"type_code"`
	FunctionalUnit    *string `gorm:"column:functional_unit" json:"functional_unit"`
	IsNetCarbonImpact bool    `gorm:"column:is_net_carbon_impact;not null;default:false" json:"is_net_carbon_impact"`
	CaseStudyID       uint    `gorm:"column:case_study_id;not null;index" json:"case_study_id"`

	Unit *RefBenefitUnit `gorm:"foreignKey:UnitCode;references:Code" json:"unit,omitempty"`
	Type *RefBenefitType `gorm:"foreignKey:TypeCode;references:Code" json:"type,omitempty"`
}

func (Benefit) TableName() string { return "benefit" }

// Address locates a case study. AdminUnitL1 holds the country code; PostName
// the locality.
type Address struct {
	ID          uint    `gorm:"column:id;primaryKey" json:"id"`
	AdminUnitL1 string  `gorm:"column:admin_unit_l1;not null" json:"admin_unit_l1"`
	PostName    *string `gorm:"column:post_name" json:"post_name"`
	CaseStudyID uint    `gorm:"column:case_study_id;not null;index" json:"case_study_id"`
}

func (Address) TableName() string { return "address" }
