package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID          string     `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'To Do'" json:"status"`
	OwnerID     string     `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}

// BeforeCreate assigns the server-side id.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave keeps stored statuses canonical.
func (t *Task) BeforeSave(tx *gorm.DB) error {
	t.Status = t.Status.Normalize()
	return nil
}

// AfterFind normalizes rows written by older clients.
func (t *Task) AfterFind(tx *gorm.DB) error {
	t.Status = t.Status.Normalize()
	return nil
}
