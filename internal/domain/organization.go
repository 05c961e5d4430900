package domain

// ContactPoint is a named contact for an organization. HasEmail carries the
// contact email address (schema.org naming kept from the source data model).
type ContactPoint struct {
	ID             uint   `gorm:"column:id;primaryKey" json:"id"`
	Name           string `gorm:"column:name;not null" json:"name"`
	HasEmail       string `gorm:"column:has_email;not null" json:"has_email"`
	OrganizationID uint   `gorm:"column:organization_id;not null;index" json:"organization_id"`
}

func (ContactPoint) TableName() string { return "contact_point" }

// Organization provides, funds or uses case studies. Name is unique
// case-insensitively (enforced in the service, not as a DB constraint).
type Organization struct {
	ID          uint    `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name;not null;index" json:"name"`
	Description *string `gorm:"column:description" json:"description"`
	WebsiteURL  *string `gorm:"column:website_url" json:"website_url"`
	SectorCode  string  `gorm:"column:sector_code;not null" json:"sector_code"`
	OrgTypeCode *string `gorm:"column:org_type_code" json:"org_type_code"`

	Sector        *RefSector           `gorm:"foreignKey:SectorCode;references:Code" json:"sector,omitempty"`
	OrgType       *RefOrganizationType `gorm:"foreignKey:OrgTypeCode;references:Code" json:"org_type,omitempty"`
	SubSectors    []RefSector          `gorm:"many2many:organization_sector_link;joinForeignKey:organization_id;joinReferences:sector_code" json:"sub_sectors,omitempty"`
	ContactPoints []ContactPoint       `gorm:"foreignKey:OrganizationID" json:"contact_points,omitempty"`
}

func (Organization) TableName() string { return "organization" }
