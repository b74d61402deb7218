package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	AllowOrigin  string
	JobStore     string // "memory" or "file"
	JobsDir      string
	ScratchDir   string
	SMTPHost     string
	SMTPPort     string
	SMTPSecurity string // "TLS" (STARTTLS) or "SSL"
}

func loadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}
	return Config{
		Port:         getEnv("PORT", "8080"),
		AllowOrigin:  getEnv("ALLOW_ORIGIN", "*"),
		JobStore:     getEnv("JOB_STORE", "file"),
		JobsDir:      getEnv("JOBS_DIR", "jobs"),
		ScratchDir:   getEnv("SCRATCH_DIR", os.TempDir()),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPSecurity: getEnv("SMTP_SECURITY", "TLS"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
