package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env from the working directory if present. Existing variables win.
func LoadDotEnv() {
	_ = godotenv.Load(".env")
}

// applyEnvOverrides lets deployment environment variables override the file.
func applyEnvOverrides(cfg *AppConfig) {
	cfg.Source.URL = getEnv("RESUME_URL", cfg.Source.URL)
	cfg.VectorStore.PersistDir = getEnv("VECTOR_PERSIST_DIR", cfg.VectorStore.PersistDir)
	cfg.Chunker.Size = getEnvAsInt("CHUNK_SIZE", cfg.Chunker.Size)
	cfg.Chunker.Overlap = getEnvAsInt("CHUNK_OVERLAP", cfg.Chunker.Overlap)
	if provider := os.Getenv("LLM_PROVIDER"); provider != "" && provider != cfg.LLM.Provider {
		cfg.LLM.Provider = provider
		cfg.LLM.APIKeyEnv = ""
		cfg.LLM.Model = ""
	}
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.Server.Host = getEnv("HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsInt("PORT", cfg.Server.Port)
	cfg.Server.ResumeJSONPath = getEnv("RESUME_JSON_PATH", cfg.Server.ResumeJSONPath)
	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
