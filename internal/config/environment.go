package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFile loads path/.env into the process environment. Variables that
// are already set win over the file. A missing file is not an error.
func loadEnvFile(path string) error {
	envFile := filepath.Join(path, ".env")
	if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return godotenv.Load(envFile)
}
