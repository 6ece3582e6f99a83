package answer

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bloodmagesoftware/geoanswer/annotation"
)

// Save writes p as indented JSON.
func (p Payload) Save(path string) error {
	data, err := json.MarshalIndent(p, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding answer: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a payload written by Save.
func Load(path string) (Payload, error) {
	var p Payload
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing %s: %w", path, err)
	}
	if p.DrawnElements == nil {
		p.DrawnElements = annotation.List{}
	}
	if p.SelectedElements == nil {
		p.SelectedElements = []string{}
	}
	return p, nil
}
