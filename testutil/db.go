// Package testutil provides sqlite-backed databases and record factories for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/camden-git/genealogybackend/config"
	"github.com/camden-git/genealogybackend/database"
	"github.com/camden-git/genealogybackend/models"
)

// Password is the plain-text password of every user CreateUser makes.
const Password = "correct-horse-battery"

// Config returns an application config pointing at a fresh sqlite file.
func Config(t testing.TB) config.Config {
	t.Helper()
	return config.Config{
		DatabaseDriver:        config.DriverSQLite,
		DatabasePath:          filepath.Join(t.TempDir(), "test.db"),
		DBLogLevel:            "silent",
		JWTSecret:             []byte("test-secret"),
		JWTExpirationHours:    1,
		Port:                  "0",
		AllowedOrigins:        []string{"http://localhost:5173"},
		RequestTimeoutSeconds: 5,
	}
}

// NewDB opens and migrates the database described by cfg.
func NewDB(t testing.TB, cfg config.Config) *gorm.DB {
	t.Helper()
	db, err := database.InitGormDB(cfg)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrateModels(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser inserts a user whose email is derived from name.
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:  name,
		Email: strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
	}
	require.NoError(t, user.SetPassword(Password))
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by owner.
func CreateProject(t testing.TB, db *gorm.DB, owner *models.User, title string) *models.Project {
	t.Helper()
	project := &models.Project{OwnerID: owner.ID, Title: title, Description: fmt.Sprintf("The %s tree", title)}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreatePerson inserts a person into project.
func CreatePerson(t testing.TB, db *gorm.DB, project *models.Project, name, firstname string) *models.Person {
	t.Helper()
	person := &models.Person{ProjectID: project.ID, Name: name, Firstname: firstname}
	require.NoError(t, db.Create(person).Error)
	return person
}

// Invite makes user a member of project.
func Invite(t testing.TB, db *gorm.DB, project *models.Project, user *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.ProjectMember{ProjectID: project.ID, UserID: user.ID}).Error)
}

// Backdate moves a project's updated_at into the past so a later touch is observable.
func Backdate(t testing.TB, db *gorm.DB, project *models.Project, by time.Duration) time.Time {
	t.Helper()
	past := time.Now().Add(-by)
	require.NoError(t, db.Model(&models.Project{}).Where("id = ?", project.ID).UpdateColumn("updated_at", past).Error)
	return past
}

// ReloadProject reads the project row again.
func ReloadProject(t testing.TB, db *gorm.DB, id uint) *models.Project {
	t.Helper()
	var project models.Project
	require.NoError(t, db.First(&project, id).Error)
	return &project
}

// Count returns the number of rows of model matching the optional condition.
func Count(t testing.TB, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
