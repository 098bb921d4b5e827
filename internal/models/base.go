package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base reúne id, auditoria e o par de soft delete comum a todas as tabelas.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedBy string    `gorm:"size:36" json:"created_by,omitempty"`
	UpdatedBy string    `gorm:"size:36" json:"updated_by,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// SoftDeleteColumns é o update usado por todo soft delete.
func SoftDeleteColumns(by string) map[string]any {
	return map[string]any{
		"is_active":  false,
		"is_deleted": true,
		"updated_by": by,
	}
}
