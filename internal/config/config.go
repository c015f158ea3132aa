// Package config loads server configuration from the environment and the
// optional catalog file describing grades, houses and scoring tables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/sportsday/internal/scoring"
)

var validate = validator.New()

// Config holds the process configuration
type Config struct {
	HTTPAddr      string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath        string     `env:"DB_PATH" envDefault:"sportsday.db"`
	LogLevel      slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFormat     string     `env:"LOG_FORMAT" envDefault:"text"`
	AdminPassword string     `env:"ADMIN_PASSWORD"`
	BaseURL       string     `env:"BASE_URL"`

	CatalogFile   string                `env:"CATALOG_FILE"`
	ScoringMode   scoring.Mode          `env:"SCORING_MODE" envDefault:"grade"`
	ScoringTable  string                `env:"SCORING_TABLE" envDefault:"standard"`
	RankingPolicy scoring.RankingPolicy `env:"RANKING_POLICY" envDefault:"zero_sentinel"`

	FirestoreProject    string `env:"FIRESTORE_PROJECT"`
	FirestoreAPIKey     string `env:"FIRESTORE_API_KEY"`
	FirestoreBaseURL    string `env:"FIRESTORE_BASE_URL" envDefault:"https://firestore.googleapis.com/v1"`
	FirestoreCollection string `env:"FIRESTORE_COLLECTION" envDefault:"events"`

	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MIN" envDefault:"10"`

	Catalog CatalogFile `env:"-"`
}

// CatalogFile is the YAML document describing what gets ranked
type CatalogFile struct {
	Levels []scoring.LevelSections `yaml:"levels" validate:"dive"`
	Houses []scoring.House         `yaml:"houses" validate:"dive"`
	Tables []scoring.ScoringTable  `yaml:"scoring_tables" validate:"dive"`
}

// Load reads .env files if present, parses the environment and then the
// catalog file named by CATALOG_FILE.
func Load(dotenvPaths ...string) (*Config, error) {
	for _, p := range dotenvPaths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", p, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if cfg.CatalogFile != "" {
		cat, err := LoadCatalogFile(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		cfg.Catalog = *cat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadCatalogFile parses and validates a catalog YAML file
func LoadCatalogFile(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses catalog YAML
func ParseCatalog(data []byte) (*CatalogFile, error) {
	var c CatalogFile
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Validate checks values the env parser cannot
func (c *Config) Validate() error {
	switch c.ScoringMode {
	case scoring.ModeGradeSection, scoring.ModeHouse:
	default:
		return fmt.Errorf("SCORING_MODE must be %q or %q, got %q", scoring.ModeGradeSection, scoring.ModeHouse, c.ScoringMode)
	}
	if !c.RankingPolicy.Valid() {
		return fmt.Errorf("RANKING_POLICY must be %q or %q, got %q", scoring.PolicyZeroSentinel, scoring.PolicyDense, c.RankingPolicy)
	}
	if _, ok := c.Table(c.ScoringTable); !ok {
		return fmt.Errorf("SCORING_TABLE %q is not defined", c.ScoringTable)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.LoginRatePerMinute <= 0 {
		return fmt.Errorf("LOGIN_RATE_PER_MIN must be positive")
	}
	return nil
}

// BuildCatalog builds the bucket catalog for the configured mode, falling
// back to the school defaults when the catalog file does not list any.
func (c *Config) BuildCatalog() scoring.Catalog {
	if c.ScoringMode == scoring.ModeHouse {
		houses := c.Catalog.Houses
		if len(houses) == 0 {
			houses = scoring.DefaultHouses
		}
		return scoring.BuildHouseCatalog(houses)
	}
	levels := c.Catalog.Levels
	if len(levels) == 0 {
		levels = scoring.DefaultGradeSections
	}
	return scoring.BuildGradeCatalog(levels)
}

// Table resolves a scoring table by name, including tables from the
// catalog file
func (c *Config) Table(name string) (scoring.ScoringTable, bool) {
	return scoring.TableByName(name, c.Catalog.Tables...)
}

// Tables lists every scoring table available to this process
func (c *Config) Tables() []scoring.ScoringTable {
	seen := map[string]bool{}
	var out []scoring.ScoringTable
	for _, t := range append(append([]scoring.ScoringTable{}, c.Catalog.Tables...), scoring.Tables()...) {
		if seen[t.Name] {
			continue
		}
		seen[t.Name] = true
		out = append(out, t)
	}
	return out
}
