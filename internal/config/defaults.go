package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultCategories maps the tokens found in DEMRE file names to canonical
// dataset names.
func DefaultCategories() map[string]string {
	return map[string]string{
		"b":         "inscripciones",
		"c":         "resultados",
		"d":         "postulaciones",
		"mat":       "matriculas",
		"matr":      "matriculas",
		"matricula": "matriculas",
	}
}

// DefaultConfig returns the default demre configuration
func DefaultConfig() *Config {
	return &Config{
		Folders: Folders{
			Data:         "data",
			Raw:          "raw",
			DEMRE:        "demre",
			Open:         "demre_open",
			Archives:     "rar",
			Databases:    "databases",
			Files:        "files",
			Dictionaries: "dictionaries",
			Processed:    "processed",
		},
		Bundles: Bundles{
			Prefix:     "PROCESO",
			Separator:  "-",
			Extensions: []string{".rar"},
			YearField:  3,
		},
		Entries: Entries{
			Strip:       "archivo",
			DictPrefix:  "dict_",
			CSVSegment:  0,
			DictSegment: 2,
		},
		Categories: DefaultCategories(),
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultConfigYAML returns the default configuration as YAML bytes
func DefaultConfigYAML() ([]byte, error) {
	config := DefaultConfig()
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default config to YAML: %w", err)
	}
	return data, nil
}
