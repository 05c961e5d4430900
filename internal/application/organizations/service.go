package organizations

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"egdc-backend/internal/domain"
	"egdc-backend/internal/pkg/validation"
)

// Service is the organization registry: the provider, funder and user
// directory case studies link against.
type Service struct {
	DB *gorm.DB
}

// Input carries a new organization.
type Input struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	WebsiteURL  *string `json:"website_url"`
	SectorCode  string  `json:"sector_code" validate:"required"`
	OrgTypeCode *string `json:"org_type_code"`
}

func (in *Input) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	validation.TrimPtr(&in.Description)
	validation.TrimPtr(&in.WebsiteURL)
	in.SectorCode = strings.ToLower(strings.TrimSpace(in.SectorCode))
	validation.NormalizeCode(&in.OrgTypeCode)
}

// RefCode is the code/label pair reference relations render as.
type RefCode struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Read is the registry's wire projection with resolved sector and type.
type Read struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	WebsiteURL  *string  `json:"website_url"`
	SectorCode  string   `json:"sector_code"`
	OrgTypeCode *string  `json:"org_type_code"`
	Sector      *RefCode `json:"sector"`
	OrgType     *RefCode `json:"org_type"`
}

// NewRead projects one organization with its resolved relations.
func NewRead(org *domain.Organization) Read {
	r := Read{
		ID:          org.ID,
		Name:        org.Name,
		Description: org.Description,
		WebsiteURL:  org.WebsiteURL,
		SectorCode:  org.SectorCode,
		OrgTypeCode: org.OrgTypeCode,
	}
	if org.Sector != nil {
		r.Sector = &RefCode{Code: org.Sector.Code, Label: org.Sector.Label}
	}
	if org.OrgType != nil {
		r.OrgType = &RefCode{Code: org.OrgType.Code, Label: org.OrgType.Label}
	}
	return r
}

// List returns the registry ordered by name, optionally narrowed to names
// containing q (case-insensitive).
func (s *Service) List(ctx context.Context, q string) ([]Read, error) {
	db := s.DB.WithContext(ctx).
		Preload("Sector").
		Preload("OrgType").
		Order("LOWER(name), id")
	if q != "" {
		if s.DB.Dialector.Name() == "postgres" {
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	var orgs []domain.Organization
	if err := db.Find(&orgs).Error; err != nil {
		return nil, err
	}

	out := make([]Read, 0, len(orgs))
	for i := range orgs {
		out = append(out, NewRead(&orgs[i]))
	}
	return out, nil
}

// Create registers an organization after checking the name is free and the
// reference codes exist. Name uniqueness is case-insensitive.
func (s *Service) Create(ctx context.Context, in *Input) (*Read, error) {
	in.normalize()
	if msg := validation.Struct(in); msg != "" {
		return nil, &ValidationError{Msg: msg}
	}

	var taken int64
	err := s.DB.WithContext(ctx).Model(&domain.Organization{}).
		Where("LOWER(name) = ?", strings.ToLower(in.Name)).
		Count(&taken).Error
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, ErrNameTaken
	}

	if err := s.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	org := domain.Organization{
		Name:        in.Name,
		Description: in.Description,
		WebsiteURL:  in.WebsiteURL,
		SectorCode:  in.SectorCode,
		OrgTypeCode: in.OrgTypeCode,
	}
	if err := s.DB.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}

	var created domain.Organization
	err = s.DB.WithContext(ctx).Preload("Sector").Preload("OrgType").First(&created, org.ID).Error
	if err != nil {
		return nil, err
	}
	read := NewRead(&created)
	return &read, nil
}

func (s *Service) checkRefs(ctx context.Context, in *Input) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.RefSector{}).Where("code = ?", in.SectorCode).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return &ValidationError{Msg: fmt.Sprintf("Sector with code '%s' does not exist", in.SectorCode)}
	}

	if in.OrgTypeCode != nil {
		if err := s.DB.WithContext(ctx).Model(&domain.RefOrganizationType{}).Where("code = ?", *in.OrgTypeCode).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return &ValidationError{Msg: fmt.Sprintf("Organization type with code '%s' does not exist", *in.OrgTypeCode)}
		}
	}
	return nil
}
