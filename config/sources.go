package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ringstats-backend/validation"
)

// SeedSource is a news source listed in the seed file.
type SeedSource struct {
	Name        string  `yaml:"name" validate:"required"`
	RSSURL      string  `yaml:"rss_url" validate:"omitempty,url"`
	BaseURL     string  `yaml:"base_url" validate:"required_without=RSSURL"`
	SourceScore float64 `yaml:"source_score" validate:"gte=0,lte=1"`
}

type sourcesFile struct {
	Sources []SeedSource `yaml:"sources" validate:"dive"`
}

const defaultSourceScore = 0.5

// LoadSources reads the news source seed list. Entries without a score get
// the neutral default.
func LoadSources(path string) ([]SeedSource, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources %s: %w", path, err)
	}
	return ParseSources(b)
}

func ParseSources(b []byte) ([]SeedSource, error) {
	var f sourcesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("unmarshal sources: %w", err)
	}
	for i := range f.Sources {
		if f.Sources[i].SourceScore == 0 {
			f.Sources[i].SourceScore = defaultSourceScore
		}
	}
	if err := validation.Struct(f); err != nil {
		return nil, fmt.Errorf("validate sources: %w", err)
	}
	return f.Sources, nil
}
