package ui

import (
	"fmt"
	"io"
	"strings"

	"composeclean/pkg/stack"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pterm/pterm"
)

const stepRule = "===================================="

// Console renders cleanup progress events for a human reader.
type Console struct {
	Out io.Writer
}

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{Out: out}
}

func (c *Console) info() *pterm.PrefixPrinter    { return Info.WithWriter(c.Out) }
func (c *Console) success() *pterm.PrefixPrinter { return Success.WithWriter(c.Out) }
func (c *Console) errorf() *pterm.PrefixPrinter  { return Error.WithWriter(c.Out) }

// Step prints a step banner such as "STEP 1/2: Removing Docker images".
func (c *Console) Step(index, total int, title string) {
	rule := pterm.FgCyan.Sprint(stepRule)
	fmt.Fprintln(c.Out, rule)
	fmt.Fprintf(c.Out, " STEP %d/%d: %s\n", index, total, title)
	fmt.Fprintln(c.Out, rule)
}

// StackLoaded prints a table of the services about to be torn down.
func (c *Console) StackLoaded(def stack.Definition, services []stack.Service) {
	c.info().Println(fmt.Sprintf("Loaded stack definition %s", def.Name))
	if len(services) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.Out)
	t.AppendHeader(table.Row{"Service", "Image", "Ports"})
	t.SetStyle(table.StyleRounded)
	for _, svc := range services {
		image := svc.Image
		if image == "" {
			image = "-"
		}
		ports := "-"
		if len(svc.Ports) > 0 {
			ports = strings.Join(svc.Ports, ", ")
		}
		t.AppendRow(table.Row{svc.Name, image, ports})
	}
	t.Render()
}

// TearingDown announces the orchestrator invocation.
func (c *Console) TearingDown(project string, command []string) {
	fmt.Fprintf(c.Out, "Running '%s' for project %s...\n", strings.Join(command, " "), project)
}

// TornDown reports the orchestrator exit code.
func (c *Console) TornDown(_ string, exitCode int) {
	fmt.Fprintf(c.Out, "docker compose exited with code %d\n\n\n", exitCode)
}

// RemovingImages announces the image list.
func (c *Console) RemovingImages(names []string, force bool) {
	fmt.Fprintf(c.Out, "Removing Docker images: %s (Force: %t)\n", strings.Join(names, ", "), force)
}

// ImageDeleted reports a removed image layer or digest.
func (c *Console) ImageDeleted(_ string, deleted string) {
	fmt.Fprintf(c.Out, "Deleted: %s\n", deleted)
}

// ImageUntagged reports a removed tag reference.
func (c *Console) ImageUntagged(_ string, untagged string) {
	fmt.Fprintf(c.Out, "Untagged: %s\n", untagged)
}

// ImageFailed reports the image whose removal stopped the run.
func (c *Console) ImageFailed(image string, err error) {
	c.errorf().Println(fmt.Sprintf("ERROR: Failed to remove image '%s': %v", image, cause(err)))
}

// ImagesRemoved reports that every image was removed.
func (c *Console) ImagesRemoved() {
	c.success().Println(fmt.Sprintf("%s Docker images removed successfully!", DockerEmoji))
	fmt.Fprint(c.Out, "\n\n")
}

// Failure prints the error that ended the run.
func (c *Console) Failure(err error) {
	c.errorf().Println("Error:")
	fmt.Fprintln(c.Out, err.Error())
}

// cause strips wrapper types that already carry the image name.
func cause(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok && u.Unwrap() != nil {
		return u.Unwrap()
	}
	return err
}
