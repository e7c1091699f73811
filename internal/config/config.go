package config

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Config holds the few runtime settings of the POS. Everything comes from the
// environment (optionally a .env file loaded by main).
type Config struct {
	Port   string
	DBPath string

	// PasscodeHash is the bcrypt hash of the admin passcode, computed once at
	// load so the plain value never lingers on the Config.
	PasscodeHash []byte
}

const defaultPasscode = "1234"

func Load() (*Config, error) {
	cfg := &Config{
		Port:   envOr("PORT", "3000"),
		DBPath: envOr("DB_PATH", "./data/jabatata.db"),
	}

	passcode := envOr("ADMIN_PASSCODE", defaultPasscode)
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin passcode: %w", err)
	}
	cfg.PasscodeHash = hash

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
