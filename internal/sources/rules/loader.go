package rules

import (
	"fmt"
	"os"

	"github.com/bkmarks/bkmarkd/internal/domain"
	"gopkg.in/yaml.v3"
)

// Loader reads a rule-table YAML file. The file layout mirrors
// domain.RuleTable:
//
//	hosts:
//	  - match: github.com
//	    tag: development
//	titles:
//	  - keyword: guide
//	    tag: guide
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given rules file.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the rules file. Entries with an empty match or tag
// are dropped rather than rejected, so a partially edited file still loads.
func (l *Loader) Load() (*domain.RuleTable, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var table domain.RuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse rules yaml: %w", err)
	}

	hosts := table.Hosts[:0]
	for _, rule := range table.Hosts {
		if rule.Match != "" && rule.Tag != "" {
			hosts = append(hosts, rule)
		}
	}
	table.Hosts = hosts

	titles := table.Titles[:0]
	for _, rule := range table.Titles {
		if rule.Keyword != "" && rule.Tag != "" {
			titles = append(titles, rule)
		}
	}
	table.Titles = titles

	return &table, nil
}
