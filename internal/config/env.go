package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from a dotenv file without overriding ones
// already set in the process environment. A missing file is not an error;
// the returned bool reports whether a file was read.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		return false, err
	}
	return true, nil
}
