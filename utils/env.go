package utils

import "os"

// GetEnvOrDefault returns the environment variable's value, or the
// default when unset or empty.
func GetEnvOrDefault(env, defaultVal string) string {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal
	}
	return e
}
