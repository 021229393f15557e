package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

func requireEnv(name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", fmt.Errorf("no %s env variable set", name)
	}
	return value, nil
}

// The password may come directly from the environment or from a mounted
// secret file.
func loadPassword() (string, error) {
	if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		return password, nil
	}

	passwordFile, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE")
	if !ok {
		return "", fmt.Errorf("no POSTGRES_PASSWORD or POSTGRES_PASSWORD_FILE env variable set")
	}

	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// DbURL assembles a postgres connection URL from DATABASE_URL or from the
// individual POSTGRES_* env variables.
func DbURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}

	username, err := requireEnv("POSTGRES_USER")
	if err != nil {
		return "", err
	}
	password, err := loadPassword()
	if err != nil {
		return "", fmt.Errorf("unable to load password: %w", err)
	}
	host, err := requireEnv("POSTGRES_HOST")
	if err != nil {
		return "", err
	}
	port, err := requireEnv("POSTGRES_PORT")
	if err != nil {
		return "", err
	}
	dbName, err := requireEnv("POSTGRES_DB")
	if err != nil {
		return "", err
	}
	sslMode, err := requireEnv("POSTGRES_SSLMODE")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		username, url.QueryEscape(password), host, port, dbName, sslMode,
	), nil
}

func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DbURL()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(dbURL)
}
