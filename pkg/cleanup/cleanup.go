// Package cleanup sequences the two cleanup phases: compose teardown of the
// project, then removal of its images. The phases never overlap and the
// first failure ends the run.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"composeclean/pkg/compose"
	"composeclean/pkg/env"
	"composeclean/pkg/images"
	"composeclean/pkg/stack"
	"composeclean/pkg/ui"
)

const totalSteps = 2

// Reporter receives sequencing progress. Per-image progress goes to the
// images.Observer wired into the remover.
type Reporter interface {
	Step(index, total int, title string)
	StackLoaded(def stack.Definition, services []stack.Service)
	TearingDown(project string, command []string)
	TornDown(project string, exitCode int)
}

// Job is one cleanup run.
type Job struct {
	Resolver  stack.Resolver
	StackName string
	Project   string
	// ComposeCommand is only used for progress output; TearDowner owns the real invocation.
	ComposeCommand []string
	Images         []string
	Force          bool

	TearDowner compose.TearDowner
	Remover    images.ImageRemover
	Reporter   Reporter
}

// Run tears the project down, whatever the orchestrator exit code, and then
// removes the images. It returns the first error encountered.
func (j *Job) Run(ctx context.Context) error {
	if j.Resolver == nil || j.TearDowner == nil || j.Remover == nil {
		return errors.New("cleanup job is missing a resolver, teardown runner or image remover")
	}
	rep := j.reporter()

	command := j.ComposeCommand
	if len(command) == 0 {
		command = []string{env.DefaultComposeBinary}
	}
	rep.Step(1, totalSteps, fmt.Sprintf("Running '%s down'", strings.Join(command, " ")))

	def, err := j.Resolver.Resolve(j.StackName)
	if err != nil {
		return fmt.Errorf("failed to load stack definition: %w", err)
	}

	// The summary is informational; the orchestrator is the authority on the definition.
	services, err := def.Services()
	if err != nil {
		ui.Log.Debug("Stack summary unavailable", ui.Log.Args("error", err))
		services = nil
	}
	rep.StackLoaded(def, services)

	rep.TearingDown(j.Project, command)
	exitCode, err := j.TearDowner.TearDown(ctx, def.Text, j.Project)
	if err != nil {
		return fmt.Errorf("compose down failed: %w", err)
	}
	rep.TornDown(j.Project, exitCode)

	rep.Step(2, totalSteps, "Removing Docker images")
	return j.Remover.RemoveImages(ctx, j.Images, j.Force)
}

func (j *Job) reporter() Reporter {
	if j.Reporter == nil {
		return nopReporter{}
	}
	return j.Reporter
}

type nopReporter struct{}

func (nopReporter) Step(int, int, string) {}
func (nopReporter) StackLoaded(stack.Definition, []stack.Service) {}
func (nopReporter) TearingDown(string, []string) {}
func (nopReporter) TornDown(string, int) {}
