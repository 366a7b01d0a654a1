/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aymerick/raymond"
)

// Built-in templates rendered for every unit that lacks the file.
// Handlebars variables: {{unit}} (unit id) and {{date}} (YYYY-MM-DD).
var defaultTemplates = map[string]string{
	"README.md": `---
status: draft
type: guide
owner: TODO
module: {{unit}}
---

# {{unit}}

Describe the {{unit}} unit here.
`,
	"CHANGELOG.md": `---
status: active
type: standard
owner: TODO
module: {{unit}}
---

# Changelog

## Unreleased

- Initial scaffolding ({{date}}).
`,
	"OWNERS.md": `---
status: active
type: standard
owner: TODO
module: {{unit}}
---

# Owners

| Role | Owner |
| ---- | ----- |
| Maintainer | TODO |
`,
}

// loadTemplates compiles the template set. Files in templateDir override
// (or extend) the built-ins, keyed by filename.
func loadTemplates(templateDir string) (map[string]*raymond.Template, error) {
	sources := map[string]string{}
	for name, src := range defaultTemplates {
		sources[name] = src
	}

	if templateDir != "" {
		entries, err := os.ReadDir(templateDir)
		if err != nil {
			return nil, fmt.Errorf("read template dir %s: %w", templateDir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			data, err := os.ReadFile(filepath.Join(templateDir, entry.Name())) // #nosec G304 -- template dir comes from config
			if err != nil {
				return nil, fmt.Errorf("read template %s: %w", entry.Name(), err)
			}
			sources[entry.Name()] = string(data)
		}
	}

	compiled := make(map[string]*raymond.Template, len(sources))
	for name, src := range sources {
		tpl, err := raymond.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		compiled[name] = tpl
	}
	return compiled, nil
}
