package repository

import (
	"github.com/camden-git/genealogybackend/database"
	"gorm.io/gorm"
)

// Repositories bundles every repository over one *gorm.DB, which is either
// the pool or an open transaction.
type Repositories struct {
	db     *gorm.DB
	concat database.ConcatStrategy

	Users       UserRepository
	Projects    ProjectRepository
	People      PersonRepository
	Memberships MembershipRepository
	Activities  ActivityRepository
}

func NewRepositories(db *gorm.DB, concat database.ConcatStrategy) *Repositories {
	return &Repositories{
		db:          db,
		concat:      concat,
		Users:       NewGormUserRepository(db),
		Projects:    NewGormProjectRepository(db),
		People:      NewGormPersonRepository(db, concat),
		Memberships: NewGormMembershipRepository(db),
		Activities:  NewGormActivityRepository(db),
	}
}

// Transaction runs fn with repositories bound to a single transaction.
// Returning an error from fn rolls back every write made through them.
func (r *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx, r.concat))
	})
}
