package services_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/genealogybackend/database"
	"github.com/camden-git/genealogybackend/models"
	"github.com/camden-git/genealogybackend/repository"
	"github.com/camden-git/genealogybackend/services"
	"github.com/camden-git/genealogybackend/testutil"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	db       *gorm.DB
	projects *services.ProjectService
	people   *services.PersonService
	owner    *models.User
	guest    *models.User
	stranger *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, testutil.Config(t))
	projects := services.NewProjectService(repository.NewRepositories(db, database.PipeConcat{}))
	return &fixture{
		db:       db,
		projects: projects,
		people:   services.NewPersonService(projects),
		owner:    testutil.CreateUser(t, db, "Owner"),
		guest:    testutil.CreateUser(t, db, "Guest"),
		stranger: testutil.CreateUser(t, db, "Stranger"),
	}
}

func lastActivity(t *testing.T, db *gorm.DB, projectID uint) models.Activity {
	t.Helper()
	var activity models.Activity
	require.NoError(t, db.Where("project_id = ?", projectID).Order("id DESC").First(&activity).Error)
	return activity
}

func TestCreateProjectRecordsActivity(t *testing.T) {
	f := newFixture(t)

	project, err := f.projects.Create(f.owner, services.ProjectInput{Title: "  Family  ", Description: "Roots"})
	require.NoError(t, err)
	assert.Equal(t, "Family", project.Title)
	assert.Equal(t, f.owner.ID, project.OwnerID)
	assert.Equal(t, fmt.Sprintf("/projects/%d", project.ID), project.Path())

	activity := lastActivity(t, f.db, project.ID)
	assert.Equal(t, models.EventCreated, activity.Event)
	assert.Equal(t, models.Subject{Kind: models.SubjectProject, ID: project.ID}, activity.Subject())
	require.NotNil(t, activity.UserID)
	assert.Equal(t, f.owner.ID, *activity.UserID)
}

func TestCreateProjectValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.Create(f.owner, services.ProjectInput{Title: "   "})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.Project{}, ""))
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.Activity{}, ""))
}

func TestProjectAbilitiesFollowMembership(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")

	_, err := f.projects.Get(f.guest, project.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, created, err := f.projects.Invite(f.owner, project.ID, services.InviteInput{Email: f.guest.Email})
	require.NoError(t, err)
	assert.True(t, created)

	detail, err := f.projects.Get(f.guest, project.ID)
	require.NoError(t, err)
	assert.False(t, detail.CanManage)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, f.guest.ID, detail.Members[0].UserID)

	detail, err = f.projects.Get(f.owner, project.ID)
	require.NoError(t, err)
	assert.True(t, detail.CanManage)

	_, err = f.projects.Update(f.guest, project.ID, services.ProjectPatch{Title: strPtr("Mine now")})
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.projects.Get(f.stranger, project.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.projects.Get(f.owner, project.ID+100)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestForbiddenBeatsValidation(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")

	_, err := f.projects.Update(f.stranger, project.ID, services.ProjectPatch{Title: strPtr("")})
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.people.Create(f.stranger, project.ID, services.PersonInput{})
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestUpdateProjectNotesOnly(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")

	updated, err := f.projects.Update(f.owner, project.ID, services.ProjectPatch{Notes: strPtr("Check the parish records")})
	require.NoError(t, err)
	assert.Equal(t, "Family", updated.Title)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "Check the parish records", *updated.Notes)

	activity := lastActivity(t, f.db, project.ID)
	assert.Equal(t, models.EventUpdated, activity.Event)
	require.NotNil(t, activity.Changes)
	assert.Equal(t, map[string]interface{}{"notes": nil}, activity.Changes.Before)
	assert.Equal(t, map[string]interface{}{"notes": "Check the parish records"}, activity.Changes.After)
}

func TestUpdateProjectWithoutChangesIsANoOp(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")

	_, err := f.projects.Update(f.owner, project.ID, services.ProjectPatch{Title: strPtr("Family")})
	require.NoError(t, err)
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.Activity{}, ""))

	_, err = f.projects.Update(f.owner, project.ID, services.ProjectPatch{Title: strPtr(" ")})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Family", testutil.ReloadProject(t, f.db, project.ID).Title)
}

func TestInviteRules(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")

	member, created, err := f.projects.Invite(f.owner, project.ID, services.InviteInput{Email: " GUEST@example.com "})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, f.guest.ID, member.User.ID)

	_, created, err = f.projects.Invite(f.owner, project.ID, services.InviteInput{Email: f.guest.Email})
	require.NoError(t, err)
	assert.False(t, created, "second invite keeps the existing membership")
	assert.Equal(t, int64(1), testutil.Count(t, f.db, &models.ProjectMember{}, ""))

	var verr *services.ValidationError
	_, _, err = f.projects.Invite(f.owner, project.ID, services.InviteInput{Email: "nobody@example.com"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	_, _, err = f.projects.Invite(f.owner, project.ID, services.InviteInput{Email: f.owner.Email})
	require.ErrorAs(t, err, &verr)

	_, _, err = f.projects.Invite(f.guest, project.ID, services.InviteInput{Email: f.stranger.Email})
	assert.ErrorIs(t, err, services.ErrForbidden, "members cannot invite")
}

func TestListForUser(t *testing.T) {
	f := newFixture(t)
	owned := testutil.CreateProject(t, f.db, f.owner, "Owned")
	shared := testutil.CreateProject(t, f.db, f.stranger, "Shared")
	testutil.CreateProject(t, f.db, f.stranger, "Hidden")
	testutil.Invite(t, f.db, shared, f.owner)
	testutil.Backdate(t, f.db, shared, time.Hour)

	projects, err := f.projects.ListForUser(f.owner)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, owned.ID, projects[0].ID)
	assert.Equal(t, shared.ID, projects[1].ID)
}

func TestDeleteProject(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	testutil.CreatePerson(t, f.db, project, "Doe", "John")
	testutil.Invite(t, f.db, project, f.guest)

	assert.ErrorIs(t, f.projects.Delete(f.guest, project.ID), services.ErrForbidden)
	require.NoError(t, f.projects.Delete(f.owner, project.ID))

	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.Project{}, ""))
	assert.Equal(t, int64(0), testutil.Count(t, f.db, &models.Person{}, ""))
	assert.ErrorIs(t, f.projects.Delete(f.owner, project.ID), services.ErrNotFound)
}

func TestActivityFeedIsCapped(t *testing.T) {
	f := newFixture(t)
	project := testutil.CreateProject(t, f.db, f.owner, "Family")
	for i := 0; i < services.ActivityFeedLimit+3; i++ {
		_, err := f.people.Create(f.owner, project.ID, services.PersonInput{Name: "Doe", Firstname: "Kid"})
		require.NoError(t, err)
	}

	feed, err := f.projects.Activity(f.owner, project.ID)
	require.NoError(t, err)
	assert.Len(t, feed, services.ActivityFeedLimit)

	detail, err := f.projects.Get(f.owner, project.ID)
	require.NoError(t, err)
	assert.Len(t, detail.LatestPeople, services.LatestPeopleLimit)
}
