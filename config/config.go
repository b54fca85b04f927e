package config

import "os"

// DefaultGeminiModel is used when SHOPSIGHT_GEMINI_MODEL is not set.
const DefaultGeminiModel = "gemini-2.5-flash-lite"

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	DatabaseURL  string
	GeminiAPIKey string
	GeminiModel  string
}

// AppConfig holds the application-wide configuration
var AppConfig Config

// Load reads configuration from environment variables. A missing Gemini API
// key is a valid configuration: narrative endpoints then serve deterministic
// fallback copy instead of calling the model.
func Load() {
	AppConfig.DatabaseURL = os.Getenv("DATABASE_URL")
	AppConfig.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	AppConfig.GeminiModel = os.Getenv("SHOPSIGHT_GEMINI_MODEL")
	if AppConfig.GeminiModel == "" {
		AppConfig.GeminiModel = DefaultGeminiModel
	}
}
