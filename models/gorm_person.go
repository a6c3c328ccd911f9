package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	UnknownProfession = "Unknown profession"
	UnknownBirth      = "Birth date and place unknown"
	UnknownDeath      = "Death date and place unknown"
)

// Person is a biographical record inside one project.
// It corresponds to the 'people' table.
type Person struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID  uint      `gorm:"not null;index" json:"project_id"`
	Name       string    `gorm:"not null;index:idx_people_name_firstname" json:"name"`
	Firstname  string    `gorm:"not null;index:idx_people_name_firstname" json:"firstname"`
	Profession *string   `gorm:"" json:"profession,omitempty"` // Nullable
	Birthdate  *string   `gorm:"" json:"birthdate,omitempty"`  // free text, genealogical dates are often partial
	Birthplace *string   `gorm:"" json:"birthplace,omitempty"`
	DeathDate  *string   `gorm:"" json:"death_date,omitempty"`
	DeathPlace *string   `gorm:"" json:"death_place,omitempty"`
	Notes      *string   `gorm:"" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Project *Project `gorm:"foreignKey:ProjectID" json:"-"`
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}

// Path is the canonical resource path, derived from the current IDs.
func (p Person) Path() string {
	return fmt.Sprintf("/projects/%d/persons/%d", p.ProjectID, p.ID)
}

// CompleteName is "name firstname", the same string the people search matches against.
func (p Person) CompleteName() string {
	return p.Name + " " + p.Firstname
}

func (p Person) ProfessionOrUnknown() string {
	if v := deref(p.Profession); v != "" {
		return v
	}
	return UnknownProfession
}

func (p Person) BirthSummary() string {
	return lifeEventSummary("Born", p.Birthdate, p.Birthplace, UnknownBirth)
}

func (p Person) DeathSummary() string {
	return lifeEventSummary("Died", p.DeathDate, p.DeathPlace, UnknownDeath)
}

func (p Person) RecordableEvents() []ActivityEvent {
	return []ActivityEvent{EventCreated, EventUpdated, EventDeleted}
}

func (p Person) ActivitySubject() Subject {
	return Subject{Kind: SubjectPerson, ID: p.ID}
}

func (p Person) ActivityProjectID() uint {
	return p.ProjectID
}

func lifeEventSummary(label string, date, place *string, unknown string) string {
	d, pl := deref(date), deref(place)
	if d == "" && pl == "" {
		return unknown
	}
	var b strings.Builder
	b.WriteString(label)
	if d != "" {
		b.WriteString(" on ")
		b.WriteString(d)
	}
	if pl != "" {
		b.WriteString(" in ")
		b.WriteString(pl)
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
