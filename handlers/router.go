package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/camden-git/genealogybackend/config"
	"github.com/camden-git/genealogybackend/database"
	"github.com/camden-git/genealogybackend/repository"
	"github.com/camden-git/genealogybackend/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers over db and returns the
// application's HTTP handler.
func NewRouter(cfg config.Config, db *gorm.DB) (http.Handler, error) {
	concat, err := database.ConcatStrategyFor(cfg.DatabaseDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to select concat strategy: %w", err)
	}

	repos := repository.NewRepositories(db, concat)
	projectService := services.NewProjectService(repos)
	personService := services.NewPersonService(projectService)
	tokens := NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	authHandler := NewAuthHandler(repos.Users, tokens)
	projectHandler := NewProjectHandler(projectService)
	personHandler := NewPersonHandler(personService)
	permissionsHandler := NewPermissionsHandler()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Location"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Duration(cfg.RequestTimeoutSeconds) * time.Second))
	r.Use(corsHandler.Handler)

	r.Get("/login", authHandler.LoginPage)
	r.Post("/login", authHandler.Login)
	r.Post("/register", authHandler.Register)
	r.Post("/logout", authHandler.Logout)
	r.Get("/abilities", permissionsHandler.ListAbilities)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(tokens, repos.Users))

		r.Get("/me", authHandler.Me)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.ListProjects)
			r.Post("/", projectHandler.CreateProject)
			r.Route("/{project_id}", func(r chi.Router) {
				r.Get("/", projectHandler.GetProject)
				r.Patch("/", projectHandler.UpdateProject)
				r.Delete("/", projectHandler.DeleteProject)
				r.Get("/activity", projectHandler.ListActivity)
				r.Get("/members", projectHandler.ListMembers)
				r.Post("/invitations", projectHandler.InviteMember)

				r.Route("/people", func(r chi.Router) {
					r.Get("/", personHandler.SearchPeople)
					r.Post("/", personHandler.CreatePerson)
				})
				r.Route("/persons/{person_id}", func(r chi.Router) {
					r.Get("/", personHandler.GetPerson)
					r.Patch("/", personHandler.UpdatePerson)
					r.Delete("/", personHandler.DeletePerson)
				})
			})
		})
	})

	return r, nil
}
