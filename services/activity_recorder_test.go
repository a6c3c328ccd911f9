package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/genealogybackend/database"
	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/repository"
	"github.com/camden-git/genealogybackend/testutil"
)

func strPtr(s string) *string { return &s }

func TestDiffAttributes(t *testing.T) {
	before := map[string]interface{}{
		"name":       "Doe",
		"firstname":  "John",
		"profession": (*string)(nil),
		"notes":      strPtr("old"),
	}

	t.Run("unchanged values are dropped", func(t *testing.T) {
		columns, changes := diffAttributes(before, map[string]interface{}{"name": "Doe", "notes": strPtr("old")})
		assert.Nil(t, columns)
		assert.Nil(t, changes)
	})

	t.Run("changed values carry before and after", func(t *testing.T) {
		columns, changes := diffAttributes(before, map[string]interface{}{
			"name":       "Smith",
			"firstname":  "John",
			"profession": strPtr("Miller"),
			"notes":      (*string)(nil),
		})
		assert.Equal(t, map[string]interface{}{"name": "Smith", "profession": "Miller", "notes": nil}, columns)
		require.NotNil(t, changes)
		assert.Equal(t, map[string]interface{}{"name": "Doe", "profession": nil, "notes": "old"}, changes.Before)
		assert.Equal(t, map[string]interface{}{"name": "Smith", "profession": "Miller", "notes": nil}, changes.After)
	})
}

type failingActivities struct{ err error }

func (f failingActivities) Create(*models.Activity) error { return f.err }
func (f failingActivities) ListRecent(uint, int) ([]models.Activity, error) {
	return nil, f.err
}

func TestRecordSkipsUndeclaredEvents(t *testing.T) {
	activities := failingActivities{err: errors.New("must not be called")}
	activity, err := ActivityRecorder{}.Record(activities, nil, models.Project{ID: 1}, models.EventDeleted, nil)
	require.NoError(t, err)
	assert.Nil(t, activity)
}

func TestRecordRejectsUnfiledSubjects(t *testing.T) {
	activities := failingActivities{err: errors.New("must not be called")}

	_, err := ActivityRecorder{}.Record(activities, nil, models.Person{ID: 0, ProjectID: 1}, models.EventCreated, nil)
	assert.Error(t, err, "unsaved subject")

	_, err = ActivityRecorder{}.Record(activities, nil, models.Person{ID: 3}, models.EventCreated, nil)
	assert.ErrorIs(t, err, ErrMissingProject)
}

func TestRecordStoresActorAndSubject(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config(t))
	repos := repository.NewRepositories(db, database.PipeConcat{})
	owner := testutil.CreateUser(t, db, "Owner")
	project := testutil.CreateProject(t, db, owner, "Family")
	person := testutil.CreatePerson(t, db, project, "Doe", "John")

	activity, err := ActivityRecorder{}.Record(repos.Activities, owner, person, models.EventCreated, nil)
	require.NoError(t, err)
	require.NotNil(t, activity)
	assert.Equal(t, project.ID, activity.ProjectID)
	assert.Equal(t, models.Subject{Kind: models.SubjectPerson, ID: person.ID}, activity.Subject())
	require.NotNil(t, activity.UserID)
	assert.Equal(t, owner.ID, *activity.UserID)
}

// A failing activity write must undo the write it describes.
func TestRecordFailureRollsBackTheWrite(t *testing.T) {
	db := testutil.NewDB(t, testutil.Config(t))
	repos := repository.NewRepositories(db, database.PipeConcat{})

	err := repos.Transaction(func(tx *repository.Repositories) error {
		orphan := &models.Person{Name: "Doe", Firstname: "John"}
		if err := tx.People.Create(orphan); err != nil {
			return err
		}
		_, err := ActivityRecorder{}.Record(tx.Activities, nil, orphan, models.EventCreated, nil)
		return err
	})
	assert.ErrorIs(t, err, ErrMissingProject)
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.Person{}, ""))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.Activity{}, ""))
}

func TestValidate(t *testing.T) {
	err := Validate(PersonInput{Name: "", Firstname: "John"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.NotContains(t, verr.Fields, "firstname")

	assert.NoError(t, Validate(PersonPatch{Notes: strPtr("")}))

	err = Validate(InviteInput{Email: "not-an-email"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "The email field must be a valid email address.", verr.Fields["email"])
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(nil))
	assert.Nil(t, nullable(strPtr("   ")))
	assert.Equal(t, "x", *nullable(strPtr(" x ")))
}
