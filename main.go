package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bookrental/internal/config"
	"bookrental/internal/database"
	"bookrental/internal/handlers"
	"bookrental/internal/models"
	"bookrental/internal/repositories"
	"bookrental/internal/services"
	"bookrental/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(database.Config{Driver: cfg.DBDriver, DSN: cfg.DatabaseDSN, Debug: cfg.DBDebug})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	bookRepo := repositories.NewGORMBookRepository(db)
	rentalRepo := repositories.NewGORMRentalRepository(db)

	if cfg.SeedBooks {
		seedBooks(bookRepo)
	}

	// --- RabbitMQ (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		if err := mqClient.ConsumeRentalEvents(rabbitmq.LogRentalEvent); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	} else {
		log.Println("RABBITMQ_URL not set; rental events are disabled.")
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.TokenSecret, cfg.TokenTTL)
	catalogService := services.NewCatalogService(bookRepo)
	rentalService := services.NewRentalService(rentalRepo, publisher)

	app := handlers.NewApp(authService, catalogService, rentalService, true)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Server gracefully stopped")
}

// seedBooks fills an empty catalog with a few demo books.
func seedBooks(repo repositories.BookRepository) {
	count, err := repo.Count()
	if err != nil {
		log.Printf("Error counting books: %v", err)
		return
	}
	if count > 0 {
		return
	}

	books := []models.Book{
		{Title: "The Little Prince", Author: "Antoine de Saint-Exupery", MinimumAge: 5},
		{Title: "Harry Potter and the Philosopher's Stone", Author: "J. K. Rowling", MinimumAge: 8},
		{Title: "The Hunger Games", Author: "Suzanne Collins", MinimumAge: 12},
		{Title: "Nineteen Eighty-Four", Author: "George Orwell", MinimumAge: 15},
		{Title: "American Psycho", Author: "Bret Easton Ellis", MinimumAge: 19},
	}
	for i := range books {
		if err := repo.Create(&books[i]); err != nil {
			log.Printf("Error seeding book %s: %v", books[i].Title, err)
		} else {
			log.Printf("Seeded book: %s (ID: %d)", books[i].Title, books[i].ID)
		}
	}
}
