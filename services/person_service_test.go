package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/services"
	"github.com/camden-git/genealogybackend/testutil"
)

func TestCreatePersonTouchesProject(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	past := testutil.Backdate(t, f.db, project, time.Hour)

	person, err := f.people.Create(f.owner, project.ID, services.PersonInput{
		Name:       " Doe ",
		Firstname:  "John",
		Profession: strPtr("  "),
		Birthplace: strPtr("Lyon"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Doe John", person.CompleteName())
	assert.Nil(t, person.Profession, "blank optional fields are stored as NULL")
	assert.Equal(t, "Born in Lyon", person.BirthSummary())

	assert.True(t, testutil.ReloadProject(t, f.db, project.ID).UpdatedAt.After(past))

	activity := lastActivity(t, f.db, project.ID)
	assert.Equal(t, models.EventCreated, activity.Event)
	assert.Equal(t, models.Subject{Kind: models.SubjectPerson, ID: person.ID}, activity.Subject())
}

func TestCreatePersonValidationWritesNothing(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	past := testutil.Backdate(t, f.db, project, time.Hour)

	_, err := f.people.Create(f.owner, project.ID, services.PersonInput{Name: "Doe"})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "firstname")

	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.Person{}, ""))
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.Activity{}, ""))
	assert.WithinDuration(t, past, testutil.ReloadProject(t, f.db, project.ID).UpdatedAt, time.Second)
}

func TestMembersCanReadButNotWritePeople(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	person := testutil.CreatePerson(t, f.db, project, "Doe", "John")
	testutil.Invite(t, f.db, project, f.guest)

	detail, err := f.people.Get(f.guest, project.ID, person.ID)
	require.NoError(t, err)
	assert.False(t, detail.CanManage)
	assert.Equal(t, project.ID, detail.Project.ID)

	_, err = f.people.Create(f.guest, project.ID, services.PersonInput{Name: "Doe", Firstname: "Jane"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.people.Update(f.guest, project.ID, person.ID, services.PersonPatch{Name: strPtr("Smith")})
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.people.Delete(f.guest, project.ID, person.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.people.Search(f.stranger, project.ID, "")
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestPersonIsScopedToItsProject(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	other := testutil.CreateProject(t, f.db, f.owner, "Other")
	person := testutil.CreatePerson(t, f.db, project, "Doe", "John")

	_, err := f.people.Get(f.owner, other.ID, person.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.people.Delete(f.owner, other.ID, person.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdatePersonRecordsChanges(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	person := testutil.CreatePerson(t, f.db, project, "Doe", "John")
	past := testutil.Backdate(t, f.db, project, time.Hour)

	updated, err := f.people.Update(f.owner, project.ID, person.ID, services.PersonPatch{
		Name:       strPtr("Smith"),
		Firstname:  strPtr("John"),
		DeathPlace: strPtr("Paris"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Smith John", updated.CompleteName())
	assert.Equal(t, "Died in Paris", updated.DeathSummary())
	assert.Equal(t, person.Path(), updated.Path())
	assert.True(t, testutil.ReloadProject(t, f.db, project.ID).UpdatedAt.After(past))

	activity := lastActivity(t, f.db, project.ID)
	assert.Equal(t, models.EventUpdated, activity.Event)
	require.NotNil(t, activity.Changes)
	assert.Equal(t, map[string]interface{}{"name": "Doe", "death_place": nil}, activity.Changes.Before)
	assert.Equal(t, map[string]interface{}{"name": "Smith", "death_place": "Paris"}, activity.Changes.After)

	_, err = f.people.Update(f.owner, project.ID, person.ID, services.PersonPatch{Firstname: strPtr("")})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "firstname")
}

func TestUpdatePersonNotesOnlyKeepsNames(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	person := testutil.CreatePerson(t, f.db, project, "Doe", "John")

	updated, err := f.people.Update(f.owner, project.ID, person.ID, services.PersonPatch{Notes: strPtr("Changed")})
	require.NoError(t, err)
	assert.Equal(t, "Doe", updated.Name)
	assert.Equal(t, "John", updated.Firstname)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "Changed", *updated.Notes)

	found, err := f.people.Search(f.owner, project.ID, "Doe Jo")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Doe", found[0].Name)
	assert.Equal(t, "John", found[0].Firstname)
	require.NotNil(t, found[0].Notes)
	assert.Equal(t, "Changed", *found[0].Notes)

	_, err = f.people.Update(f.owner, project.ID, person.ID, services.PersonPatch{Name: strPtr("   ")})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
}

func TestDeletePersonReturnsParent(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	person := testutil.CreatePerson(t, f.db, project, "Doe", "John")
	past := testutil.Backdate(t, f.db, project, time.Hour)

	parent, err := f.people.Delete(f.owner, project.ID, person.ID)
	require.NoError(t, err)
	assert.Equal(t, project.Path(), parent.Path())
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.Person{}, ""))
	assert.True(t, testutil.ReloadProject(t, f.db, project.ID).UpdatedAt.After(past))

	activity := lastActivity(t, f.db, project.ID)
	assert.Equal(t, models.EventDeleted, activity.Event)
	assert.Equal(t, person.ID, activity.SubjectID)
}

func TestSearchPeopleByPrefix(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	testutil.CreatePerson(t, f.db, project, "Doe", "John")
	testutil.CreatePerson(t, f.db, project, "Doe", "Jane")
	testutil.CreatePerson(t, f.db, project, "Roe", "Richard")
	testutil.Invite(t, f.db, project, f.guest)

	people, err := f.people.Search(f.guest, project.ID, "Doe J")
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Doe Jane", people[0].CompleteName())
	assert.Equal(t, "Doe John", people[1].CompleteName())
}
