package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

type Config struct {
	Categories map[string]string `yaml:"categories" mapstructure:"categories"`
	Root       string            `yaml:"root,omitempty" mapstructure:"root"`
	Logging    LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Folders    Folders           `yaml:"folders" mapstructure:"folders"`
	Bundles    Bundles           `yaml:"bundles" mapstructure:"bundles"`
	Entries    Entries           `yaml:"entries" mapstructure:"entries"`
}

// Folders names each level of the data tree below the project root.
type Folders struct {
	Data         string `yaml:"data" mapstructure:"data"`
	Raw          string `yaml:"raw" mapstructure:"raw"`
	DEMRE        string `yaml:"demre" mapstructure:"demre"`
	Open         string `yaml:"open" mapstructure:"open"`
	Archives     string `yaml:"archives" mapstructure:"archives"`
	Databases    string `yaml:"databases" mapstructure:"databases"`
	Files        string `yaml:"files" mapstructure:"files"`
	Dictionaries string `yaml:"dictionaries" mapstructure:"dictionaries"`
	Processed    string `yaml:"processed" mapstructure:"processed"`
}

type Bundles struct {
	Prefix     string   `yaml:"prefix" mapstructure:"prefix"`
	Separator  string   `yaml:"separator" mapstructure:"separator"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
	YearField  int      `yaml:"year_field" mapstructure:"year_field"`
}

type Entries struct {
	Strip       string `yaml:"strip" mapstructure:"strip"`
	DictPrefix  string `yaml:"dict_prefix" mapstructure:"dict_prefix"`
	CSVSegment  int    `yaml:"csv_segment" mapstructure:"csv_segment"`
	DictSegment int    `yaml:"dict_segment" mapstructure:"dict_segment"`
}

type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file,omitempty" mapstructure:"file"`
}

func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs reads the config file at path from fs.
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	viperInstance := viper.New()
	viperInstance.SetFs(fs)
	viperInstance.SetConfigFile(path)

	if err := viperInstance.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return decode(viperInstance)
}

// LoadFromYAML loads config from YAML bytes - helper for tests
func LoadFromYAML(data []byte) (*Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType("yaml")

	if err := viperInstance.ReadConfig(strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return decode(viperInstance)
}

func decode(viperInstance *viper.Viper) (*Config, error) {
	// Indexes may legitimately be zero and the strip/prefix strings empty,
	// so they are defaulted only when the key is absent.
	defaults := DefaultConfig()
	viperInstance.SetDefault("bundles.year_field", defaults.Bundles.YearField)
	viperInstance.SetDefault("entries.csv_segment", defaults.Entries.CSVSegment)
	viperInstance.SetDefault("entries.dict_segment", defaults.Entries.DictSegment)
	viperInstance.SetDefault("entries.strip", defaults.Entries.Strip)
	viperInstance.SetDefault("entries.dict_prefix", defaults.Entries.DictPrefix)

	var config Config
	if err := viperInstance.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// applyDefaults fills empty folder and bundle strings, lists and maps with
// their defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if len(c.Categories) == 0 {
		c.Categories = defaults.Categories
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if len(c.Bundles.Extensions) == 0 {
		c.Bundles.Extensions = defaults.Bundles.Extensions
	}

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}
	fill(&c.Folders.Data, defaults.Folders.Data)
	fill(&c.Folders.Raw, defaults.Folders.Raw)
	fill(&c.Folders.DEMRE, defaults.Folders.DEMRE)
	fill(&c.Folders.Open, defaults.Folders.Open)
	fill(&c.Folders.Archives, defaults.Folders.Archives)
	fill(&c.Folders.Databases, defaults.Folders.Databases)
	fill(&c.Folders.Files, defaults.Folders.Files)
	fill(&c.Folders.Dictionaries, defaults.Folders.Dictionaries)
	fill(&c.Folders.Processed, defaults.Folders.Processed)
	fill(&c.Bundles.Prefix, defaults.Bundles.Prefix)
	fill(&c.Bundles.Separator, defaults.Bundles.Separator)
}

// Validate performs comprehensive config validation
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return errors.New("config must contain at least one category")
	}

	for token, name := range c.Categories {
		if strings.TrimSpace(token) == "" {
			return errors.New("category token cannot be empty")
		}
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("category '%s' has an empty name", token)
		}
	}

	if err := c.Bundles.Validate(); err != nil {
		return fmt.Errorf("bundles: %w", err)
	}

	if c.Entries.CSVSegment < 0 || c.Entries.DictSegment < 0 {
		return errors.New("entries: segment indexes cannot be negative")
	}

	if c.Logging.Level != "" {
		if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
			return fmt.Errorf("invalid log level '%s': %w", c.Logging.Level, err)
		}
	}

	return nil
}

// Validate performs bundle-naming validation
func (b *Bundles) Validate() error {
	if b.Separator == "" {
		return errors.New("separator is required and cannot be empty")
	}

	if b.YearField < 0 {
		return fmt.Errorf("year field %d cannot be negative", b.YearField)
	}

	if len(b.Extensions) == 0 {
		return errors.New("at least one bundle extension is required")
	}

	for _, ext := range b.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid extension '%s': must start with a dot", ext)
		}
	}

	return nil
}
