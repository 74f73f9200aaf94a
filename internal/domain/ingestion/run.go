package ingestion

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run is one accepted CSV upload. It is written in the same transaction as
// the student batch, so a run row exists only when the batch committed.
type Run struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Schema     string         `gorm:"column:schema;not null;index" json:"schema"`
	FileName   string         `gorm:"column:file_name" json:"fileName"`
	FileSHA256 string         `gorm:"column:file_sha256;not null;index" json:"fileSha256"`
	Submitted  int            `gorm:"column:submitted;not null" json:"submitted"`
	Meta       datatypes.JSON `gorm:"column:meta" json:"meta,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null;autoCreateTime;index" json:"createdAt"`
}

func (Run) TableName() string { return "ingestion_run" }

func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
