package config

const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./interlinear.db"

	// DefaultInitialBook and DefaultInitialChapter select the chapter opened on startup
	DefaultInitialBook    = "John"
	DefaultInitialChapter = 1

	// DefaultGenerationModel is used when GENERATION_MODEL is not set
	DefaultGenerationModel = "gpt-4o-mini"
)
