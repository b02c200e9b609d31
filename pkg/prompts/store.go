// Package prompts assembles the instruction blocks sent to the chat
// model. Policy text lives in one embedded YAML file so every route
// interpolates identical wording.
package prompts

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/blociq/blociq-engine/pkg/triage"
)

//go:embed policies.yaml
var policiesYAML []byte

// Store holds the category policy templates loaded once at startup.
type Store struct {
	policies map[triage.Category]string
}

type policyFile struct {
	Policies map[string]string `yaml:"policies"`
}

// NewStore parses the embedded policy file. It fails loudly on a
// malformed file or a missing category rather than degrading silently.
func NewStore() (*Store, error) {
	var file policyFile
	if err := yaml.Unmarshal(policiesYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policies: %w", err)
	}

	required := []triage.Category{
		triage.CategoryLeak,
		triage.CategoryServiceCharge,
		triage.CategoryNoise,
		triage.CategorySafety,
		triage.CategoryMaintenance,
		triage.CategoryParking,
		triage.CategoryCompliance,
		triage.CategoryGeneral,
	}

	policies := make(map[triage.Category]string, len(file.Policies))
	for name, text := range file.Policies {
		policies[triage.Category(name)] = text
	}

	for _, cat := range required {
		if policies[cat] == "" {
			return nil, fmt.Errorf("policy file missing category %q", cat)
		}
	}

	return &Store{policies: policies}, nil
}

// Policy returns the policy block for a category, falling back to the
// general policy for anything unrecognized.
func (s *Store) Policy(category triage.Category) string {
	if text, ok := s.policies[category]; ok {
		return text
	}
	return s.policies[triage.CategoryGeneral]
}
