// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, settings slot
//	├── flashcards/      # Saved flashcards, owner-scoped, newest first
//	└── users/           # Document server accounts
//
// One sqlite file backs the local flashcard backend, the durable identity
// slot and, when the document API is enabled, the remote readers' cards.
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	// Initialize database connection
//	db, err := database.NewDatabase("./interlinear.db")
//
//	// Create domain-specific repositories
//	cardsRepo := flashcards.NewRepository(db.DB)
//	usersRepo := users.NewRepository(db.DB)
//
//	// Use repositories
//	cards, err := cardsRepo.ListByOwner("local-user-1a2b3c4d")
//
// # Interface Implementations
//
//   - flashcards.Repository: implements annotations.Repository
//   - users.Repository: implements auth.UserRepository
//   - Database: implements identity.SettingsStore and http.Pinger
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add the model to the AutoMigrate list in Open
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
