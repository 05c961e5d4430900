package domain

// One-to-one media attachments of a case study. Rows are created when a file
// part is uploaded; URL points into the static uploads directory.

type ImageObject struct {
	ID      uint    `gorm:"column:id;primaryKey" json:"id"`
	URL     string  `gorm:"column:url;not null" json:"url"`
	AltText *string `gorm:"column:alt_text" json:"alt_text"`
}

func (ImageObject) TableName() string { return "image_object" }

type Methodology struct {
	ID           uint         `gorm:"column:id;primaryKey" json:"id"`
	Name         string       `gorm:"column:name;not null" json:"name"`
	URL          *string      `gorm:"column:url" json:"url"`
	LanguageCode *string      `gorm:"column:language_code" json:"language_code,omitempty"`
	Language     *RefLanguage `gorm:"foreignKey:LanguageCode;references:Code" json:"language,omitempty"`
}

func (Methodology) TableName() string { return "methodology" }

type Dataset struct {
	ID           uint         `gorm:"column:id;primaryKey" json:"id"`
	Name         string       `gorm:"column:name;not null" json:"name"`
	URL          *string      `gorm:"column:url" json:"url"`
	LanguageCode *string      `gorm:"column:language_code" json:"language_code,omitempty"`
	Language     *RefLanguage `gorm:"foreignKey:LanguageCode;references:Code" json:"language,omitempty"`
}

func (Dataset) TableName() string { return "dataset" }

type AdditionalDocument struct {
	ID           uint         `gorm:"column:id;primaryKey" json:"id"`
	Name         string       `gorm:"column:name;not null" json:"name"`
	URL          *string      `gorm:"column:url" json:"url"`
	LanguageCode *string      `gorm:"column:language_code" json:"language_code,omitempty"`
	Language     *RefLanguage `gorm:"foreignKey:LanguageCode;references:Code" json:"language,omitempty"`
}

func (AdditionalDocument) TableName() string { return "additional_document" }
