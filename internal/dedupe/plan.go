/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package dedupe

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fulmenhq/docguard/pkg/safeio"
)

// DefaultPlanPath is where the reviewable dedup plan lives, relative to
// the document root.
const DefaultPlanPath = ".docguard/dedupe-plan.yaml"

// Save writes the plan as YAML so reviewers can read and amend it before
// anything is applied.
func (p *Plan) Save(path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal dedup plan: %w", err)
	}
	if err := safeio.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write dedup plan %s: %w", path, err)
	}
	return nil
}

// LoadPlan reads a previously generated plan artifact.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- plan path comes from config/flags
	if err != nil {
		return nil, fmt.Errorf("read dedup plan %s: %w", path, err)
	}
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("decode dedup plan %s: %w", path, err)
	}
	return &plan, nil
}
