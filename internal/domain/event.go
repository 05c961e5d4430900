package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Case study event types written to the audit trail.
const (
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventSubmitted = "submitted"
	EventPublished = "published"
	EventDeclined  = "declined"
)

// CaseStudyEvent is one audit-trail row. EventData carries the workflow
// context of the transition (requested vs resolved status, rejection
// comment) as JSON. Rows are written in the same transaction as the
// mutation they record.
type CaseStudyEvent struct {
	ID          uint           `gorm:"column:id;primaryKey" json:"id"`
	CaseStudyID uint           `gorm:"column:case_study_id;not null;index" json:"case_study_id"`
	EventType   string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData   datatypes.JSON `gorm:"column:event_data;type:jsonb" json:"event_data"`
	ActorID     *uint          `gorm:"column:actor_id" json:"actor_id"`
	CreatedAt   time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (CaseStudyEvent) TableName() string { return "case_study_event" }
