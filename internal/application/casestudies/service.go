package casestudies

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	perm "egdc-backend/internal/constants"
	"egdc-backend/internal/domain"
	"egdc-backend/internal/pkg/constants"
	"egdc-backend/internal/pkg/response"
)

// Service owns the case-study workflow: listings, detail reads, the
// create/update/review/delete write paths and the audit trail.
type Service struct {
	DB *gorm.DB
}

// Actor is the authenticated identity a request acts as.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) elevated() bool { return constants.IsElevated(a.Role) }

// ListPublished returns the public catalog page, newest first.
func (s *Service) ListPublished(ctx context.Context, page, limit int) ([]Summary, int64, error) {
	return s.list(ctx, page, limit, "status = ?", domain.StatusPublished)
}

// ListPending returns the review queue page.
func (s *Service) ListPending(ctx context.Context, page, limit int) ([]Summary, int64, error) {
	return s.list(ctx, page, limit, "status = ?", domain.StatusPendingApproval)
}

// ListByOwner returns every case study created by one user, any status.
func (s *Service) ListByOwner(ctx context.Context, ownerID uint, page, limit int) ([]Summary, int64, error) {
	return s.list(ctx, page, limit, "created_by = ?", ownerID)
}

func (s *Service) list(ctx context.Context, page, limit int, cond string, args ...interface{}) ([]Summary, int64, error) {
	page, limit = response.ClampPage(page, limit)

	var total int64
	if err := s.DB.WithContext(ctx).Model(&domain.CaseStudy{}).Where(cond, args...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.CaseStudy
	err := SummaryScope(s.DB.WithContext(ctx)).
		Where(cond, args...).
		Order("id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	items := make([]Summary, 0, len(rows))
	for i := range rows {
		items = append(items, NewSummary(&rows[i]))
	}
	return items, total, nil
}

// Get loads the full detail projection for one case study, any status.
func (s *Service) Get(ctx context.Context, id uint) (*Detail, error) {
	var cs domain.CaseStudy
	err := detailScope(s.DB.WithContext(ctx)).First(&cs, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return NewDetail(&cs), nil
}

// Events returns the audit trail of one case study, oldest first.
func (s *Service) Events(ctx context.Context, caseStudyID uint) ([]domain.CaseStudyEvent, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.CaseStudy{}).Where("id = ?", caseStudyID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	events := []domain.CaseStudyEvent{}
	err := s.DB.WithContext(ctx).
		Where("case_study_id = ?", caseStudyID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

// Delete removes a case study with its children, links, attachments and
// events. Owners may delete their own drafts only; elevated roles anything.
func (s *Service) Delete(ctx context.Context, actor Actor, id uint) error {
	var cs domain.CaseStudy
	err := s.DB.WithContext(ctx).First(&cs, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if !perm.AllowedRole(perm.DeleteAnyCaseStudy, actor.Role) {
		owned := cs.CreatedBy != nil && *cs.CreatedBy == actor.ID
		if !owned || cs.Status != domain.StatusDraft {
			return ErrForbidden
		}
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_study_id = ?", id).Delete(&domain.Benefit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("case_study_id = ?", id).Delete(&domain.Address{}).Error; err != nil {
			return err
		}
		for _, table := range []string{"case_study_provider_link", "case_study_funder_link", "case_study_user_link"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE case_study_id = ?", id).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("case_study_id = ?", id).Delete(&domain.CaseStudyEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.CaseStudy{}, id).Error; err != nil {
			return err
		}
		// Attachment rows last: the parent row references them.
		if cs.MethodologyID != nil {
			if err := tx.Delete(&domain.Methodology{}, *cs.MethodologyID).Error; err != nil {
				return err
			}
		}
		if cs.DatasetID != nil {
			if err := tx.Delete(&domain.Dataset{}, *cs.DatasetID).Error; err != nil {
				return err
			}
		}
		if cs.AdditionalDocID != nil {
			if err := tx.Delete(&domain.AdditionalDocument{}, *cs.AdditionalDocID).Error; err != nil {
				return err
			}
		}
		if cs.LogoID != nil {
			if err := tx.Delete(&domain.ImageObject{}, *cs.LogoID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func eventPayload(fields map[string]interface{}) datatypes.JSON {
	b, _ := json.Marshal(fields)
	return datatypes.JSON(b)
}

func writeEvent(tx *gorm.DB, caseStudyID uint, eventType string, actor Actor, fields map[string]interface{}) error {
	actorID := actor.ID
	return tx.Create(&domain.CaseStudyEvent{
		CaseStudyID: caseStudyID,
		EventType:   eventType,
		EventData:   eventPayload(fields),
		ActorID:     &actorID,
	}).Error
}
