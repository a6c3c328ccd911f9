package models

import (
	"fmt"
	"time"
)

// Project is a family tree owned by one user. It corresponds to the 'projects' table.
type Project struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"" json:"description"`
	Notes       *string   `gorm:"" json:"notes,omitempty"` // Nullable
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Owner   User            `gorm:"foreignKey:OwnerID" json:"-"`
	People  []Person        `gorm:"foreignKey:ProjectID" json:"-"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Project) TableName() string {
	return "projects"
}

// Path is the canonical resource path, derived from the current ID.
func (p Project) Path() string {
	return fmt.Sprintf("/projects/%d", p.ID)
}

// IsOwnedBy reports whether userID is the project's owner.
func (p Project) IsOwnedBy(userID uint) bool {
	return userID != 0 && p.OwnerID == userID
}

func (p Project) RecordableEvents() []ActivityEvent {
	return []ActivityEvent{EventCreated, EventUpdated}
}

func (p Project) ActivitySubject() Subject {
	return Subject{Kind: SubjectProject, ID: p.ID}
}

func (p Project) ActivityProjectID() uint {
	return p.ID
}
