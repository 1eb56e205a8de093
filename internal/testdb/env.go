package testdb

import (
	"log/slog"
	"net/url"
	"os"
)

// Environment variables consulted for the test database URL, in priority order.
const (
	EnvTestDBURL   = "TASKR_TEST_DB_URL"
	EnvDatabaseURL = "DATABASE_URL"
	EnvTaskrDBURL  = "TASKR_DATABASE_URL"
)

// Credentials used by the CI postgres service container.
const (
	ciUser     = "postgres"
	ciPassword = "postgres"
	ciDatabase = "taskr_test"
	ciOptions  = "sslmode=disable"
)

var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsCI reports whether the process runs under a CI system.
func IsCI() bool {
	for _, name := range ciEnvVars {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

// lookupDatabaseURL returns the first configured database URL. Under CI the
// credentials are replaced with the service container's.
func lookupDatabaseURL(log *slog.Logger) string {
	var dbURL string
	for _, name := range []string{EnvTestDBURL, EnvDatabaseURL, EnvTaskrDBURL} {
		if v := os.Getenv(name); v != "" {
			dbURL = v
			log.Debug("using test database url", slog.String("var", name), slog.String("url", MaskDatabaseURL(v)))
			break
		}
	}
	if dbURL == "" || !IsCI() {
		return dbURL
	}

	std, err := standardizeCIURL(dbURL)
	if err != nil {
		log.Warn("could not standardize test database url",
			slog.String("url", MaskDatabaseURL(dbURL)),
			slog.String("error", err.Error()))
		return dbURL
	}
	return std
}

// standardizeCIURL swaps in the CI credentials and fills a missing database
// name and query.
func standardizeCIURL(dbURL string) (string, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "", err
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return dbURL, nil
	}

	u.User = url.UserPassword(ciUser, ciPassword)
	if u.Path == "" || u.Path == "/" {
		u.Path = "/" + ciDatabase
	}
	if u.RawQuery == "" {
		u.RawQuery = ciOptions
	}
	return u.String(), nil
}

// MaskDatabaseURL hides the password of a database URL so it can be logged.
func MaskDatabaseURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return dbURL
	}
	if _, ok := u.User.Password(); !ok {
		return dbURL
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
