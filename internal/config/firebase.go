package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	projectIDPattern   = regexp.MustCompile(`^[a-z0-9-]+$`)
	prohibitedPatterns = []string{"demo", "test", "mock", "localhost", "emulator", "example", "your_", "changeme"}
)

// ValidateFirebase rejects Firebase settings that must never reach a
// production or staging deployment. Other environments are not checked.
func ValidateFirebase(env, projectID, emulatorHost, useMocks string) error {
	if env != "production" && env != "staging" {
		return nil
	}
	if emulatorHost != "" {
		return fmt.Errorf("firebase: emulator host is configured in %s", env)
	}
	if useMocks != "" && useMocks != "false" {
		return fmt.Errorf("firebase: USE_MOCKS is enabled in %s", env)
	}
	if projectID == "" {
		return errors.New("firebase: project ID is required")
	}
	lower := strings.ToLower(projectID)
	for _, p := range prohibitedPatterns {
		if strings.Contains(lower, p) {
			return fmt.Errorf("firebase: project ID %q contains prohibited pattern %q", projectID, p)
		}
	}
	if !projectIDPattern.MatchString(projectID) {
		return fmt.Errorf("firebase: project ID %q has invalid format", projectID)
	}
	return nil
}
