// Package config centralises all environment / flag configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business‑logic
// layers receive an already‑built Config instance via dependency‑injection.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple—prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port string

	// Model backend
	OllamaBaseURL string
	ModelID       string
	NumCtx        int
	SystemPrompt  string

	// Tool proxy
	MCPOBaseURL   string
	MaxToolRounds int
	UseAllTools   bool

	// External services
	GitHubToken string

	// Session store (optional; empty URI disables session persistence)
	MongoURI string
	DBName   string

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const defaultSystemPrompt = "You are a GitHub assistant. ALWAYS use the available tools to fetch real data. " +
	"Never guess or make up information. Present results clearly."

// Load parses the environment (and an optional .env file) into Config.
// Every option has a workable default, so a bare environment still boots.
func Load() Config {
	// godotenv.Load() is a no‑op if .env doesn't exist—safe in production.
	_ = godotenv.Load()

	return Config{
		Port:          getEnv("PORT", "8080"),
		OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		ModelID:       getEnv("MODEL_ID", "qwen2.5:7b"),
		NumCtx:        getInt("NUM_CTX", 16384),
		SystemPrompt:  getEnv("SYSTEM_PROMPT", defaultSystemPrompt),
		MCPOBaseURL:   getEnv("MCPO_BASE_URL", "http://localhost:8300/github"),
		MaxToolRounds: getInt("MAX_TOOL_ROUNDS", 5),
		UseAllTools:   getBool("USE_ALL_TOOLS", false),
		GitHubToken:   os.Getenv("GITHUB_TOKEN"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		DBName:        getEnv("MONGODB_DB", "octochat"),
		ReadTimeout:   getDuration("READ_TIMEOUT_SEC", 5),
		WriteTimeout:  getDuration("WRITE_TIMEOUT_SEC", 330),
	}
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt reads an integer from env, falling back to defaultVal.
func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid %s=%q; using default %d", key, v, defaultVal)
	}
	return defaultVal
}

// getBool reads a boolean from env, falling back to defaultVal.
func getBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid %s=%q; using default %t", key, v, defaultVal)
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}
