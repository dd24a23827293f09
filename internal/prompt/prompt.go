// Package prompt loads the versioned system prompt embedded in the binary.
package prompt

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed agent.yaml
var agentYAML []byte

// Definition is a named, versioned system prompt.
type Definition struct {
	Name    string `yaml:"name"`
	Version int    `yaml:"version"`
	System  string `yaml:"system"`
}

// Parse decodes and validates a prompt definition.
func Parse(b []byte) (Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Definition{}, errors.Wrap(err, "decode prompt")
	}
	d.System = strings.TrimSpace(d.System)
	if d.Name == "" || d.Version <= 0 || d.System == "" {
		return Definition{}, errors.Errorf("prompt %q: name, positive version and system text are required", d.Name)
	}
	return d, nil
}

var (
	defaultOnce sync.Once
	defaultDef  Definition
)

// Default returns the embedded agent prompt. It panics if the embedded file is
// invalid, which the package tests guard against.
func Default() Definition {
	defaultOnce.Do(func() {
		d, err := Parse(agentYAML)
		if err != nil {
			panic(err)
		}
		defaultDef = d
	})
	return defaultDef
}
