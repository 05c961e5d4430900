package casestudies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"egdc-backend/internal/domain"
	"egdc-backend/internal/pkg/validation"
)

// Create persists a new case study. The requested status is resolved against
// the actor's role; the completeness gate runs for pending/published targets
// and draft targets silently drop incomplete children.
func (s *Service) Create(ctx context.Context, actor Actor, in *Input, files Files) (*Detail, error) {
	in.Normalize()

	resolved, gateRequired := ResolveStatus(in.Status, actor.Role)
	if gateRequired {
		att := AttachmentState{
			HasMethodology: files.Methodology != nil,
			HasDataset:     files.Dataset != nil,
			HasLogo:        files.Logo != nil,
		}
		if err := ValidateForSubmission(in, att); err != nil {
			return nil, err
		}
	} else {
		PruneIncomplete(in)
	}

	var id uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateReferences(tx, in); err != nil {
			return err
		}

		methodologyID, err := upsertMethodology(tx, nil, files.Methodology, in.MethodologyLanguageCode)
		if err != nil {
			return err
		}
		datasetID, err := upsertDataset(tx, nil, files.Dataset, in.DatasetLanguageCode)
		if err != nil {
			return err
		}
		additionalDocID, err := upsertAdditionalDoc(tx, nil, files.AdditionalDoc, in.AdditionalDocLanguageCode)
		if err != nil {
			return err
		}
		logoID, err := upsertLogo(tx, nil, files.Logo, in.Title)
		if err != nil {
			return err
		}

		createdBy := actor.ID
		cs := domain.CaseStudy{
			Title:               in.Title,
			ShortDescription:    in.ShortDescription,
			LongDescription:     in.LongDescription,
			ProblemSolved:       in.ProblemSolved,
			CreatedDate:         domain.Today(),
			Status:              resolved,
			CreatedBy:           &createdBy,
			TechCode:            in.TechCode,
			CalcTypeCode:        in.CalcTypeCode,
			FundingTypeCode:     in.FundingTypeCode,
			FundingProgrammeURL: in.FundingProgrammeURL,
			LogoID:              logoID,
			MethodologyID:       methodologyID,
			DatasetID:           datasetID,
			AdditionalDocID:     additionalDocID,
		}
		if err := tx.Create(&cs).Error; err != nil {
			return err
		}
		id = cs.ID

		if err := insertChildren(tx, cs.ID, in); err != nil {
			return err
		}
		if err := replaceLinks(tx, cs.ID, in); err != nil {
			return err
		}

		data := map[string]interface{}{"status": resolved}
		if err := writeEvent(tx, cs.ID, domain.EventCreated, actor, data); err != nil {
			return err
		}
		if resolved == domain.StatusPendingApproval {
			return writeEvent(tx, cs.ID, domain.EventSubmitted, actor, data)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Update is a full replace: children and link rows are deleted and
// re-inserted, attachments merge with what is already persisted, the parent
// row is rewritten. CreatedDate and RejectionComment are never touched here.
func (s *Service) Update(ctx context.Context, actor Actor, id uint, in *Input, files Files) (*Detail, error) {
	var existing domain.CaseStudy
	err := s.DB.WithContext(ctx).First(&existing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if !actor.elevated() {
		if existing.CreatedBy == nil || *existing.CreatedBy != actor.ID {
			return nil, ErrForbidden
		}
	}

	in.Normalize()
	resolved, gateRequired := ResolveStatus(in.Status, actor.Role)
	if gateRequired {
		att := AttachmentState{
			HasMethodology: files.Methodology != nil || existing.MethodologyID != nil,
			HasDataset:     files.Dataset != nil || existing.DatasetID != nil,
			HasLogo:        files.Logo != nil || existing.LogoID != nil,
		}
		if err := ValidateForSubmission(in, att); err != nil {
			return nil, err
		}
	} else {
		PruneIncomplete(in)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := validateReferences(tx, in); err != nil {
			return err
		}

		methodologyID, err := upsertMethodology(tx, existing.MethodologyID, files.Methodology, in.MethodologyLanguageCode)
		if err != nil {
			return err
		}
		datasetID, err := upsertDataset(tx, existing.DatasetID, files.Dataset, in.DatasetLanguageCode)
		if err != nil {
			return err
		}
		additionalDocID, err := upsertAdditionalDoc(tx, existing.AdditionalDocID, files.AdditionalDoc, in.AdditionalDocLanguageCode)
		if err != nil {
			return err
		}
		logoID, err := upsertLogo(tx, existing.LogoID, files.Logo, in.Title)
		if err != nil {
			return err
		}

		if err := tx.Where("case_study_id = ?", id).Delete(&domain.Benefit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("case_study_id = ?", id).Delete(&domain.Address{}).Error; err != nil {
			return err
		}
		if err := insertChildren(tx, id, in); err != nil {
			return err
		}
		if err := replaceLinks(tx, id, in); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":                  in.Title,
			"short_description":      in.ShortDescription,
			"long_description":       in.LongDescription,
			"problem_solved":         in.ProblemSolved,
			"status":                 resolved,
			"tech_code":              in.TechCode,
			"calc_type_code":         in.CalcTypeCode,
			"funding_type_code":      in.FundingTypeCode,
			"funding_programme_url":  in.FundingProgrammeURL,
			"logo_id":                logoID,
			"methodology_id":         methodologyID,
			"dataset_id":             datasetID,
			"additional_document_id": additionalDocID,
		}
		if err := tx.Model(&domain.CaseStudy{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		data := map[string]interface{}{"previous_status": existing.Status, "status": resolved}
		if err := writeEvent(tx, id, domain.EventUpdated, actor, data); err != nil {
			return err
		}
		if resolved == domain.StatusPendingApproval && existing.Status != domain.StatusPendingApproval {
			return writeEvent(tx, id, domain.EventSubmitted, actor, data)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Review approves or declines a pending case study. Approval re-runs the
// completeness gate against the persisted record and clears the rejection
// comment; decline stores the reviewer's comment.
func (s *Service) Review(ctx context.Context, actor Actor, id uint, in ReviewInput) (*Detail, error) {
	if !actor.elevated() {
		return nil, ErrForbidden
	}
	status := strings.ToLower(strings.TrimSpace(in.Status))
	if err := ResolveReview(status); err != nil {
		return nil, err
	}

	var cs domain.CaseStudy
	err := s.DB.WithContext(ctx).
		Preload("Benefits").
		Preload("Addresses").
		Preload("IsProvidedBy").
		First(&cs, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	comment := in.RejectionComment
	validation.TrimPtr(&comment)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		data := map[string]interface{}{"previous_status": cs.Status, "status": status}
		var eventType string

		if status == domain.StatusPublished {
			if err := ValidateForSubmission(inputFromRecord(&cs), attachmentStateFromRecord(&cs)); err != nil {
				return err
			}
			updates["rejection_comment"] = nil
			eventType = domain.EventPublished
		} else {
			updates["rejection_comment"] = comment
			eventType = domain.EventDeclined
			if comment != nil {
				data["rejection_comment"] = *comment
			}
		}

		if err := tx.Model(&domain.CaseStudy{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return writeEvent(tx, id, eventType, actor, data)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Preview parses, normalizes and hydrates a submission without persisting
// anything: no rows, no generated identifiers, no stored files.
func (s *Service) Preview(ctx context.Context, actor Actor, in *Input, files Files) (*Detail, error) {
	in.Normalize()
	resolved, _ := ResolveStatus(in.Status, actor.Role)

	db := s.DB.WithContext(ctx)
	createdBy := actor.ID
	detail := &Detail{
		Title:               in.Title,
		ShortDescription:    in.ShortDescription,
		LongDescription:     in.LongDescription,
		ProblemSolved:       in.ProblemSolved,
		CreatedDate:         domain.Today(),
		Status:              resolved,
		CreatedBy:           &createdBy,
		TechCode:            in.TechCode,
		CalcTypeCode:        in.CalcTypeCode,
		FundingTypeCode:     in.FundingTypeCode,
		FundingProgrammeURL: in.FundingProgrammeURL,
		Benefits:            []BenefitRead{},
		Addresses:           []domain.Address{},
		IsProvidedBy:        previewOrgs(db, in.ProviderOrgID),
		IsFundedBy:          previewOrgs(db, in.FunderOrgID),
		IsUsedBy:            previewOrgs(db, in.UserOrgID),
	}

	if in.TechCode != nil {
		var ref domain.RefTechnology
		if err := db.First(&ref, "code = ?", *in.TechCode).Error; err == nil {
			detail.Tech = &ref
		}
	}
	if in.CalcTypeCode != nil {
		var ref domain.RefCalculationType
		if err := db.First(&ref, "code = ?", *in.CalcTypeCode).Error; err == nil {
			detail.CalcType = &ref
		}
	}
	if in.FundingTypeCode != nil {
		var ref domain.RefFundingType
		if err := db.First(&ref, "code = ?", *in.FundingTypeCode).Error; err == nil {
			detail.FundingType = &ref
		}
	}

	for i := range in.Benefits {
		b := in.Benefits[i]
		read := BenefitRead{
			Name:              b.Name,
			Value:             b.Value,
			FunctionalUnit:    b.FunctionalUnit,
			IsNetCarbonImpact: b.IsNetCarbonImpact,
		}
		if b.UnitCode != "" {
			var unit domain.RefBenefitUnit
			if err := db.First(&unit, "code = ?", b.UnitCode).Error; err == nil {
				read.Unit = &unit
			}
		}
		if b.TypeCode != "" {
			var typ domain.RefBenefitType
			if err := db.First(&typ, "code = ?", b.TypeCode).Error; err == nil {
				read.Type = &typ
			}
		}
		detail.Benefits = append(detail.Benefits, read)
	}

	for i := range in.Addresses {
		detail.Addresses = append(detail.Addresses, domain.Address{
			AdminUnitL1: in.Addresses[i].AdminUnitL1,
			PostName:    in.Addresses[i].PostName,
		})
	}

	detail.Methodology = previewDoc(db, files.Methodology, in.MethodologyLanguageCode)
	detail.Dataset = previewDoc(db, files.Dataset, in.DatasetLanguageCode)
	detail.AdditionalDoc = previewDoc(db, files.AdditionalDoc, in.AdditionalDocLanguageCode)
	if files.Logo != nil {
		alt := "Logo for " + in.Title
		detail.Logo = &domain.ImageObject{AltText: &alt}
	}

	return detail, nil
}

func previewOrgs(db *gorm.DB, id *uint) []OrgDetail {
	if id == nil {
		return []OrgDetail{}
	}
	var org domain.Organization
	err := db.
		Preload("Sector").
		Preload("OrgType").
		Preload("SubSectors").
		Preload("ContactPoints").
		First(&org, *id).Error
	if err != nil {
		return []OrgDetail{}
	}
	return newOrgDetails([]domain.Organization{org})
}

func previewDoc(db *gorm.DB, file *FileInput, languageCode *string) *AttachmentRead {
	if file == nil {
		return nil
	}
	read := &AttachmentRead{Name: file.OriginalName}
	if languageCode != nil {
		var lang domain.RefLanguage
		if err := db.First(&lang, "code = ?", *languageCode).Error; err == nil {
			read.Language = &lang
		}
	}
	return read
}

// inputFromRecord rebuilds the gate's view of a persisted record, used when
// approval re-validates completeness.
func inputFromRecord(cs *domain.CaseStudy) *Input {
	in := &Input{
		Title:               cs.Title,
		ShortDescription:    cs.ShortDescription,
		LongDescription:     cs.LongDescription,
		ProblemSolved:       cs.ProblemSolved,
		TechCode:            cs.TechCode,
		CalcTypeCode:        cs.CalcTypeCode,
		FundingTypeCode:     cs.FundingTypeCode,
		FundingProgrammeURL: cs.FundingProgrammeURL,
	}
	for _, b := range cs.Benefits {
		in.Benefits = append(in.Benefits, BenefitInput{
			Name:              b.Name,
			Value:             b.Value,
			UnitCode:          b.UnitCode,
			TypeCode:          b.TypeCode,
			FunctionalUnit:    b.FunctionalUnit,
			IsNetCarbonImpact: b.IsNetCarbonImpact,
		})
	}
	for _, a := range cs.Addresses {
		in.Addresses = append(in.Addresses, AddressInput{AdminUnitL1: a.AdminUnitL1, PostName: a.PostName})
	}
	if len(cs.IsProvidedBy) > 0 {
		providerID := cs.IsProvidedBy[0].ID
		in.ProviderOrgID = &providerID
	}
	return in
}

func attachmentStateFromRecord(cs *domain.CaseStudy) AttachmentState {
	return AttachmentState{
		HasMethodology: cs.MethodologyID != nil,
		HasDataset:     cs.DatasetID != nil,
		HasLogo:        cs.LogoID != nil,
	}
}

func validateReferences(tx *gorm.DB, in *Input) error {
	if err := codeExists(tx, &domain.RefTechnology{}, in.TechCode, "Technology"); err != nil {
		return err
	}
	if err := codeExists(tx, &domain.RefCalculationType{}, in.CalcTypeCode, "Calculation type"); err != nil {
		return err
	}
	if err := codeExists(tx, &domain.RefFundingType{}, in.FundingTypeCode, "Funding type"); err != nil {
		return err
	}
	for _, code := range []*string{in.MethodologyLanguageCode, in.DatasetLanguageCode, in.AdditionalDocLanguageCode} {
		if err := codeExists(tx, &domain.RefLanguage{}, code, "Language"); err != nil {
			return err
		}
	}
	for i := range in.Benefits {
		b := &in.Benefits[i]
		if b.UnitCode != "" {
			if err := codeExists(tx, &domain.RefBenefitUnit{}, &b.UnitCode, "Benefit unit"); err != nil {
				return err
			}
		}
		if b.TypeCode != "" {
			if err := codeExists(tx, &domain.RefBenefitType{}, &b.TypeCode, "Benefit type"); err != nil {
				return err
			}
		}
	}
	if err := orgExists(tx, in.ProviderOrgID, "Provider"); err != nil {
		return err
	}
	if err := orgExists(tx, in.FunderOrgID, "Funder"); err != nil {
		return err
	}
	return orgExists(tx, in.UserOrgID, "User")
}

func codeExists(tx *gorm.DB, model interface{}, code *string, kind string) error {
	if code == nil {
		return nil
	}
	var n int64
	if err := tx.Model(model).Where("code = ?", *code).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return violation(fmt.Sprintf("%s with code '%s' does not exist", kind, *code))
	}
	return nil
}

func orgExists(tx *gorm.DB, id *uint, label string) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&domain.Organization{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return violation(fmt.Sprintf("%s organization with id %d does not exist", label, *id))
	}
	return nil
}

func insertChildren(tx *gorm.DB, caseStudyID uint, in *Input) error {
	if len(in.Benefits) > 0 {
		benefits := make([]domain.Benefit, 0, len(in.Benefits))
		for _, b := range in.Benefits {
			benefits = append(benefits, domain.Benefit{
				Name:              b.Name,
				Value:             b.Value,
				UnitCode:          b.UnitCode,
				TypeCode:          b.TypeCode,
				FunctionalUnit:    b.FunctionalUnit,
				IsNetCarbonImpact: b.IsNetCarbonImpact,
				CaseStudyID:       caseStudyID,
			})
		}
		if err := tx.Create(&benefits).Error; err != nil {
			return err
		}
	}
	if len(in.Addresses) > 0 {
		addresses := make([]domain.Address, 0, len(in.Addresses))
		for _, a := range in.Addresses {
			addresses = append(addresses, domain.Address{
				AdminUnitL1: a.AdminUnitL1,
				PostName:    a.PostName,
				CaseStudyID: caseStudyID,
			})
		}
		if err := tx.Create(&addresses).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceLinks(tx *gorm.DB, caseStudyID uint, in *Input) error {
	links := []struct {
		table string
		orgID *uint
	}{
		{"case_study_provider_link", in.ProviderOrgID},
		{"case_study_funder_link", in.FunderOrgID},
		{"case_study_user_link", in.UserOrgID},
	}
	for _, l := range links {
		if err := tx.Exec("DELETE FROM "+l.table+" WHERE case_study_id = ?", caseStudyID).Error; err != nil {
			return err
		}
		if l.orgID == nil {
			continue
		}
		err := tx.Exec(
			"INSERT INTO "+l.table+" (case_study_id, organization_id) VALUES (?, ?)",
			caseStudyID, *l.orgID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func upsertMethodology(tx *gorm.DB, existingID *uint, file *FileInput, languageCode *string) (*uint, error) {
	if file == nil {
		if existingID != nil && languageCode != nil {
			err := tx.Model(&domain.Methodology{}).Where("id = ?", *existingID).
				Update("language_code", *languageCode).Error
			if err != nil {
				return nil, err
			}
		}
		return existingID, nil
	}
	url := file.StoredURL
	if existingID != nil {
		err := tx.Model(&domain.Methodology{}).Where("id = ?", *existingID).
			Updates(map[string]interface{}{"name": file.OriginalName, "url": url, "language_code": languageCode}).Error
		return existingID, err
	}
	row := domain.Methodology{Name: file.OriginalName, URL: &url, LanguageCode: languageCode}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row.ID, nil
}

func upsertDataset(tx *gorm.DB, existingID *uint, file *FileInput, languageCode *string) (*uint, error) {
	if file == nil {
		if existingID != nil && languageCode != nil {
			err := tx.Model(&domain.Dataset{}).Where("id = ?", *existingID).
				Update("language_code", *languageCode).Error
			if err != nil {
				return nil, err
			}
		}
		return existingID, nil
	}
	url := file.StoredURL
	if existingID != nil {
		err := tx.Model(&domain.Dataset{}).Where("id = ?", *existingID).
			Updates(map[string]interface{}{"name": file.OriginalName, "url": url, "language_code": languageCode}).Error
		return existingID, err
	}
	row := domain.Dataset{Name: file.OriginalName, URL: &url, LanguageCode: languageCode}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row.ID, nil
}

func upsertAdditionalDoc(tx *gorm.DB, existingID *uint, file *FileInput, languageCode *string) (*uint, error) {
	if file == nil {
		if existingID != nil && languageCode != nil {
			err := tx.Model(&domain.AdditionalDocument{}).Where("id = ?", *existingID).
				Update("language_code", *languageCode).Error
			if err != nil {
				return nil, err
			}
		}
		return existingID, nil
	}
	url := file.StoredURL
	if existingID != nil {
		err := tx.Model(&domain.AdditionalDocument{}).Where("id = ?", *existingID).
			Updates(map[string]interface{}{"name": file.OriginalName, "url": url, "language_code": languageCode}).Error
		return existingID, err
	}
	row := domain.AdditionalDocument{Name: file.OriginalName, URL: &url, LanguageCode: languageCode}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row.ID, nil
}

func upsertLogo(tx *gorm.DB, existingID *uint, file *FileInput, title string) (*uint, error) {
	if file == nil {
		return existingID, nil
	}
	alt := "Logo for " + title
	if existingID != nil {
		err := tx.Model(&domain.ImageObject{}).Where("id = ?", *existingID).
			Updates(map[string]interface{}{"url": file.StoredURL, "alt_text": alt}).Error
		return existingID, err
	}
	row := domain.ImageObject{URL: file.StoredURL, AltText: &alt}
	if err := tx.Create(&row).Error; err != nil {
		return nil, err
	}
	return &row.ID, nil
}
