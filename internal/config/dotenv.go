package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/matzehuels/mcptools/pkg/errors"
)

// DefaultEnvFile is read from the working directory when no other file is
// named.
const DefaultEnvFile = ".env"

// WithEnvFile returns a getenv that consults getenv first and falls back to
// the variables declared in file, so the process environment always wins.
// A missing file is only an error when it was named explicitly.
func WithEnvFile(file string, getenv func(string) string) (func(string) string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	explicit := file != ""
	if !explicit {
		file = DefaultEnvFile
	}

	vars, err := godotenv.Read(file)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return getenv, nil
		}
		return getenv, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read env file %s", file)
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return vars[key]
	}, nil
}
