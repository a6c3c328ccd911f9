package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/camden-git/genealogybackend/config"
	"github.com/camden-git/genealogybackend/database"
	"github.com/camden-git/genealogybackend/handlers"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	if cfg.DatabaseDriver == config.DriverSQLite {
		dir := filepath.Dir(cfg.DatabasePath)
		log.Printf("Ensuring storage directory exists: %s", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", dir, err)
		}
	}

	db, err := database.InitGormDB(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to access database handle: %v", err)
	}
	defer sqlDB.Close()

	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}

	router, err := handlers.NewRouter(cfg, db)
	if err != nil {
		log.Fatalf("FATAL: Failed to build router: %v", err)
	}

	log.Printf("Using %s database", cfg.DatabaseDriver)
	log.Printf("CORS allowed origins: %v", cfg.AllowedOrigins)

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
