package config

import (
	"fmt"
	"os"

	apperrors "sjsage522/housingworker/pkg/errors"

	"gopkg.in/yaml.v2"
)

// Target is one configured property website
type Target struct {
	Key     string `yaml:"key"`
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
}

type targetsFile struct {
	Targets []Target `yaml:"targets"`
}

// DefaultTargets returns the property sites scraped when no targets file is set
func DefaultTargets() []Target {
	return []Target{
		{
			Key:     "verve",
			Name:    "Verve New Brunswick",
			URL:     "https://vervenb.com",
			Address: "88 Easton Avenue, New Brunswick, NJ 08901",
			Phone:   "(862) 244-1479",
		},
		{
			Key:     "standard",
			Name:    "The Standard at New Brunswick",
			URL:     "https://thestandardnewbrunswick.landmark-properties.com",
			Address: "90 New Street, New Brunswick, NJ 08901",
			Phone:   "(732) 247-0500",
		},
		{
			Key:     "ruliving",
			Name:    "RU Living",
			URL:     "https://ruliving.com",
			Address: "12 Bartlett Street, New Brunswick, NJ 08901",
			Phone:   "(732) 317-8313",
		},
		{
			Key:     "brunswicksh",
			Name:    "Brunswick Student Housing",
			URL:     "https://www.brunswickstudenthousing.com",
			Address: "Various Hamilton St Properties, New Brunswick, NJ",
			Phone:   "(732) 545-7368",
		},
	}
}

// LoadTargets reads the target list from a YAML file
func LoadTargets(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file targetsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := validateTargets(file.Targets); err != nil {
		return nil, err
	}
	return file.Targets, nil
}

func validateTargets(targets []Target) error {
	seen := make(map[string]struct{}, len(targets))
	for i, t := range targets {
		if t.Key == "" || t.URL == "" || t.Address == "" {
			return apperrors.NewConfiguration(fmt.Sprintf("target #%d needs key, url and address", i), nil)
		}
		if _, dup := seen[t.Key]; dup {
			return apperrors.NewConfiguration(fmt.Sprintf("duplicate target key %q", t.Key), nil)
		}
		seen[t.Key] = struct{}{}
	}
	return nil
}
