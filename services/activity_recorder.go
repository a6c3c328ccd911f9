package services

import (
	"fmt"

	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/repository"
)

// ActivityRecorder appends feed entries for the lifecycle events an entity
// declared recordable. It writes through the caller's repository, so the entry
// commits or rolls back with the primary write.
type ActivityRecorder struct{}

// Record inserts an activity for event on subject. Events the subject did not
// declare are ignored.
func (ActivityRecorder) Record(activities repository.ActivityRepository, actor *models.User, subject models.Recordable, event models.ActivityEvent, changes *models.AttributeChanges) (*models.Activity, error) {
	if !models.Records(subject, event) {
		return nil, nil
	}

	ref := subject.ActivitySubject()
	if ref.ID == 0 {
		return nil, fmt.Errorf("cannot record %s of unsaved %s", event, ref.Kind)
	}
	projectID := subject.ActivityProjectID()
	if projectID == 0 {
		return nil, fmt.Errorf("%s of %s: %w", event, ref, ErrMissingProject)
	}

	activity := &models.Activity{
		ProjectID:   projectID,
		SubjectType: ref.Kind,
		SubjectID:   ref.ID,
		Event:       event,
		Changes:     changes,
	}
	if actor != nil {
		actorID := actor.ID
		activity.UserID = &actorID
	}

	if err := activities.Create(activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// diffAttributes keeps the entries of after whose value differs from before
// and returns them as column changes plus the before/after record.
func diffAttributes(before, after map[string]interface{}) (map[string]interface{}, *models.AttributeChanges) {
	columns := make(map[string]interface{})
	changes := &models.AttributeChanges{
		Before: make(map[string]interface{}),
		After:  make(map[string]interface{}),
	}
	for key, newVal := range after {
		oldVal := before[key]
		if attributeValue(oldVal) == attributeValue(newVal) {
			continue
		}
		columns[key] = attributeValue(newVal)
		changes.Before[key] = attributeValue(oldVal)
		changes.After[key] = attributeValue(newVal)
	}
	if len(columns) == 0 {
		return nil, nil
	}
	return columns, changes
}

// attributeValue flattens *string to a comparable value, nil for NULL.
func attributeValue(v interface{}) interface{} {
	switch s := v.(type) {
	case *string:
		if s == nil {
			return nil
		}
		return *s
	default:
		return v
	}
}
