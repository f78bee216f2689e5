package env

import (
	"os/exec"
)

// DefaultComposeBinary is the standalone compose binary. It is also the
// fallback when nothing is found, so the launch error surfaces at run time.
const DefaultComposeBinary = "docker-compose"

// CheckResult holds the status of prerequisite checks
type CheckResult struct {
	HasDockerCompose bool
	HasDocker        bool
	HasPodman        bool
}

// ComposeCommand returns the compose orchestrator invocation to use.
func (c *CheckResult) ComposeCommand() []string {
	// Default precedence: standalone docker-compose, then the docker plugin, then podman.
	if c.HasDockerCompose {
		return []string{DefaultComposeBinary}
	}
	if c.HasDocker {
		return []string{"docker", "compose"}
	}
	if c.HasPodman {
		return []string{"podman", "compose"}
	}
	return []string{DefaultComposeBinary}
}

// CheckPrerequisites looks up the container tooling on PATH
func CheckPrerequisites() *CheckResult {
	res := &CheckResult{}

	if _, err := exec.LookPath(DefaultComposeBinary); err == nil {
		res.HasDockerCompose = true
	}
	if _, err := exec.LookPath("docker"); err == nil {
		res.HasDocker = true
	}
	if _, err := exec.LookPath("podman"); err == nil {
		res.HasPodman = true
	}

	return res
}
