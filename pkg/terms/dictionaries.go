package terms

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed dictionaries.yaml
var defaultDictionaries []byte

// CountryAlias maps an Arabic country name to its English canonical name.
type CountryAlias struct {
	Variant string `yaml:"variant"`
	Name    string `yaml:"name"`
}

// Dictionaries is the static domain vocabulary of the pipeline.
type Dictionaries struct {
	Diseases          []Entry        `yaml:"diseases"`
	Animals           []Entry        `yaml:"animals"`
	DiseaseVocabulary []string       `yaml:"disease_vocabulary"`
	ArabicCountries   []CountryAlias `yaml:"arabic_countries"`
}

// Default returns the embedded dictionaries.
func Default() (*Dictionaries, error) {
	return Parse(defaultDictionaries)
}

// LoadFile reads dictionaries from a YAML file; an empty path yields Default.
func LoadFile(path string) (*Dictionaries, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionaries: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates dictionary YAML.
func Parse(data []byte) (*Dictionaries, error) {
	var d Dictionaries
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse dictionaries: %w", err)
	}
	if len(d.Diseases) == 0 || len(d.Animals) == 0 {
		return nil, errors.New("dictionaries must define diseases and animals")
	}
	for _, e := range append(append([]Entry{}, d.Diseases...), d.Animals...) {
		if e.Canonical == "" || len(e.Variants) == 0 {
			return nil, fmt.Errorf("dictionary entry %q has no term or no variants", e.Canonical)
		}
	}
	return &d, nil
}
