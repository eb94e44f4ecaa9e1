package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SectionConfig is one row of the section-definition table. Sections with a
// source allow-list are fetched via the headlines endpoint, the rest via
// keyword search.
type SectionConfig struct {
	Name    string   `yaml:"name"`
	Query   string   `yaml:"query"`
	Sources []string `yaml:"sources,omitempty"`
	// DaysBack overrides the global recency window for this section.
	// Zero means use the global value.
	DaysBack int `yaml:"days_back,omitempty"`
}

// SectionsFile is the YAML layout of configs/sections.yaml.
type SectionsFile struct {
	Sections []SectionConfig `yaml:"sections"`
	Feeds    []string        `yaml:"feeds"`
}

// LoadSections reads the section table and the RSS feed list.
func LoadSections(path string) (*SectionsFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sections config: %w", err)
	}
	defer f.Close()

	var sf SectionsFile
	if err := yaml.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("parse sections config: %w", err)
	}
	if len(sf.Sections) == 0 {
		return nil, fmt.Errorf("sections config %s defines no sections", path)
	}
	return &sf, nil
}
