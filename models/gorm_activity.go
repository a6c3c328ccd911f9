package models

import (
	"fmt"
	"time"
)

type ActivityEvent string

const (
	EventCreated ActivityEvent = "created"
	EventUpdated ActivityEvent = "updated"
	EventDeleted ActivityEvent = "deleted"
)

type SubjectKind string

const (
	SubjectProject SubjectKind = "project"
	SubjectPerson  SubjectKind = "person"
)

// Subject identifies the entity an activity is about.
type Subject struct {
	Kind SubjectKind `json:"type"`
	ID   uint        `json:"id"`
}

func (s Subject) String() string {
	return fmt.Sprintf("%s#%d", s.Kind, s.ID)
}

// AttributeChanges holds the before and after values of the attributes an
// update touched.
type AttributeChanges struct {
	Before map[string]interface{} `json:"before"`
	After  map[string]interface{} `json:"after"`
}

// Activity is an append-only feed entry. It corresponds to the 'activities' table.
type Activity struct {
	ID          uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID   uint              `gorm:"not null;index" json:"project_id"`
	UserID      *uint             `gorm:"index" json:"user_id,omitempty"` // actor, nullable
	SubjectType SubjectKind       `gorm:"size:32;not null" json:"subject_type"`
	SubjectID   uint              `gorm:"not null" json:"subject_id"`
	Event       ActivityEvent     `gorm:"size:32;not null" json:"event"`
	Changes     *AttributeChanges `gorm:"type:text;serializer:json" json:"changes,omitempty"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

// Subject returns the tagged reference to the recorded entity.
func (a Activity) Subject() Subject {
	return Subject{Kind: a.SubjectType, ID: a.SubjectID}
}

// Description is a short machine-friendly label such as "created_person".
func (a Activity) Description() string {
	return string(a.Event) + "_" + string(a.SubjectType)
}
