// Package validate provides reusable input validation functions for
// configuration values. All validators return an error describing the
// violation or nil if the input is acceptable.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/distribution/reference"
)

// projectNameRe matches compose project names: lowercase alphanumerics,
// hyphens and underscores, starting with a letter or digit.
var projectNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// safeCommandRe matches executable names and paths that are safe to pass to exec.
var safeCommandRe = regexp.MustCompile(`^[a-zA-Z0-9._/\\:-]+$`)

// ProjectName validates a compose project name.
func ProjectName(s string) error {
	if !projectNameRe.MatchString(s) {
		return fmt.Errorf("invalid project name %q: must contain only lowercase letters, digits, dashes and underscores, and start with a letter or digit", s)
	}
	return nil
}

// ImageReference validates that s names an image (name, name:tag, digest or ID).
func ImageReference(s string) error {
	if strings.TrimSpace(s) != s || s == "" {
		return fmt.Errorf("invalid image reference %q: must not be empty or padded with spaces", s)
	}
	if _, err := reference.ParseAnyReference(s); err != nil {
		return fmt.Errorf("invalid image reference %q: %w", s, err)
	}
	return nil
}

// ComposeCommand validates an orchestrator invocation such as ["docker", "compose"].
func ComposeCommand(cmd []string) error {
	if len(cmd) == 0 {
		return fmt.Errorf("compose command must not be empty")
	}
	if !safeCommandRe.MatchString(cmd[0]) {
		return fmt.Errorf("compose executable %q contains disallowed characters", cmd[0])
	}
	// Reject a leading hyphen to prevent the executable from being read as a flag
	if strings.HasPrefix(cmd[0], "-") {
		return fmt.Errorf("compose executable must not start with a hyphen: %s", cmd[0])
	}
	for _, arg := range cmd[1:] {
		if arg == "" {
			return fmt.Errorf("compose command contains an empty argument")
		}
	}
	return nil
}
