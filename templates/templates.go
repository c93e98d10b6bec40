// Package templates is the catalog of ready-made forms a user can start from.
package templates

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mbolis/formcraft/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Template struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	model.Schema
}

var (
	loadOnce sync.Once
	catalog  []Template
	loadErr  error
)

func load() ([]Template, error) {
	loadOnce.Do(func() {
		catalog, loadErr = Parse(catalogYAML)
	})
	return catalog, loadErr
}

// Parse reads a YAML list of templates. Field attributes use the same names
// as the JSON form schema.
func Parse(data []byte) ([]Template, error) {
	// yaml -> generic -> json so the schema's json tags apply.
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	var ts []Template
	if err := json.Unmarshal(b, &ts); err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	seen := map[string]bool{}
	for _, t := range ts {
		if t.ID == "" || seen[t.ID] {
			return nil, fmt.Errorf("templates: missing or duplicate id %q", t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("templates: %s: %w", t.ID, err)
		}
	}
	return ts, nil
}

// List returns the embedded catalog in its declared order.
func List() ([]Template, error) {
	ts, err := load()
	if err != nil {
		return nil, err
	}
	return append([]Template(nil), ts...), nil
}

// Get returns a copy of one template, or false.
func Get(id string) (Template, bool, error) {
	ts, err := load()
	if err != nil {
		return Template{}, false, err
	}
	for _, t := range ts {
		if t.ID == id {
			t.Fields = append([]model.Field(nil), t.Fields...)
			return t, true, nil
		}
	}
	return Template{}, false, nil
}
