// Package stack resolves the compose stack definition that gets torn down.
// A definition can come from the embedded assets, a file on disk, or an
// inline constant; callers only see the text.
package stack

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a resolver has no definition for a name.
var ErrNotFound = errors.New("resource not found")

// Definition is an immutable compose stack definition.
type Definition struct {
	Name string
	Text string
}

// Resolver maps a logical identifier to a stack definition.
type Resolver interface {
	Resolve(name string) (Definition, error)
}

// EmbeddedResolver reads definitions from a bundled filesystem.
type EmbeddedResolver struct {
	FS fs.FS
}

// Compile-time checks that the resolvers implement Resolver.
var (
	_ Resolver = EmbeddedResolver{}
	_ Resolver = FileResolver{}
	_ Resolver = InlineResolver{}
)

func (r EmbeddedResolver) Resolve(name string) (Definition, error) {
	data, err := fs.ReadFile(r.FS, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Definition{}, fmt.Errorf("embedded resource '%s': %w", name, ErrNotFound)
		}
		return Definition{}, fmt.Errorf("failed to read embedded resource '%s': %w", name, err)
	}
	return Definition{Name: name, Text: string(data)}, nil
}

// FileResolver reads definitions from disk. Relative names are joined to Dir.
type FileResolver struct {
	Dir string
}

func (r FileResolver) Resolve(name string) (Definition, error) {
	path := filepath.Clean(name)
	if !filepath.IsAbs(path) && r.Dir != "" {
		path = filepath.Join(r.Dir, path)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- stack file path is user-specified via config
	if err != nil {
		if os.IsNotExist(err) {
			return Definition{}, fmt.Errorf("stack file %s: %w", path, ErrNotFound)
		}
		return Definition{}, fmt.Errorf("failed to read stack file %s: %w", path, err)
	}
	return Definition{Name: path, Text: string(data)}, nil
}

// InlineResolver serves definitions held in memory.
type InlineResolver map[string]string

func (r InlineResolver) Resolve(name string) (Definition, error) {
	text, ok := r[name]
	if !ok {
		return Definition{}, fmt.Errorf("inline definition '%s': %w", name, ErrNotFound)
	}
	return Definition{Name: name, Text: text}, nil
}

// Service is one entry of a stack's services section, reduced to what the
// summary table shows.
type Service struct {
	Name  string
	Image string
	Ports []string
}

type composeDocument struct {
	Services map[string]struct {
		Image string `yaml:"image"`
		Ports []any  `yaml:"ports"`
	} `yaml:"services"`
}

// Services parses the definition and returns its services sorted by name.
// The definition text itself is never altered.
func (d Definition) Services() ([]Service, error) {
	var doc composeDocument
	if err := yaml.Unmarshal([]byte(d.Text), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse stack definition %s: %w", d.Name, err)
	}

	services := make([]Service, 0, len(doc.Services))
	for name, svc := range doc.Services {
		services = append(services, Service{
			Name:  name,
			Image: strings.TrimSpace(svc.Image),
			Ports: portStrings(svc.Ports),
		})
	}
	sort.Slice(services, func(i, j int) bool { return services[i].Name < services[j].Name })
	return services, nil
}

// portStrings flattens short ("8080:80", 80) and long (mapping) port syntax.
func portStrings(ports []any) []string {
	if len(ports) == 0 {
		return nil
	}
	out := make([]string, 0, len(ports))
	for _, p := range ports {
		switch v := p.(type) {
		case map[string]any:
			target := fmt.Sprint(v["target"])
			if published, ok := v["published"]; ok {
				out = append(out, fmt.Sprintf("%v:%s", published, target))
			} else {
				out = append(out, target)
			}
		default:
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}
