// pkg/status/rules.go
package status

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed rules.toml
var rulesTOML []byte

// mappingRule maps one normalized header pattern to a canonical field.
// Topic, when set, turns the rule into a percentage rule: the header must
// contain the topic token and either "%" or "percent".
type mappingRule struct {
	Pattern string `toml:"pattern"`
	Target  string `toml:"target"`
	Topic   string `toml:"topic"`
}

type ruleSet struct {
	Rules []mappingRule `toml:"rule"`
}

// loadMappingRules parses the embedded header-mapping rule table.
func loadMappingRules() ([]mappingRule, error) {
	var set ruleSet
	if err := toml.Unmarshal(rulesTOML, &set); err != nil {
		return nil, fmt.Errorf("failed to parse header mapping rules: %w", err)
	}
	if len(set.Rules) == 0 {
		return nil, fmt.Errorf("header mapping rule table is empty")
	}
	return set.Rules, nil
}

// matches evaluates one rule against a normalized header.
func (r mappingRule) matches(header string) bool {
	if r.Topic != "" {
		return strings.Contains(header, r.Topic) &&
			(strings.Contains(header, "%") || strings.Contains(header, "percent"))
	}

	if header == r.Pattern {
		return true
	}

	for _, word := range strings.Fields(r.Pattern) {
		if !strings.Contains(header, word) {
			return false
		}
	}
	return true
}
