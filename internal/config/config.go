// Package config loads the environment driven settings of the JSON engine and
// the jsu tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const envPrefix = "JSONUTIL_"

// OriginalZone keeps every temporal value in its own zone when written.
const OriginalZone = "original"

type Config struct {
	Debug   bool   `env:"DEBUG"    json:"debug"`
	LogFile string `env:"LOG_FILE" json:"logFile,omitempty"`

	SerializeNulls bool    `env:"SERIALIZE_NULLS" json:"serializeNulls"`
	Lenient        bool    `env:"LENIENT"         json:"lenient"`
	EscapeHTML     bool    `env:"ESCAPE_HTML"     envDefault:"true" json:"escapeHtml"`
	SortMapKeys    bool    `env:"SORT_MAP_KEYS"   envDefault:"true" json:"sortMapKeys"`
	NonExecutable  bool    `env:"NON_EXECUTABLE"  json:"nonExecutable"`
	Version        float64 `env:"VERSION"         json:"version,omitempty" validate:"gte=0"`

	FieldNaming    string `env:"FIELD_NAMING"    envDefault:"identity" json:"fieldNaming" validate:"oneof=identity lower_camel_case upper_camel_case upper_camel_case_with_spaces upper_case_with_underscores lower_case_with_underscores lower_case_with_dashes lower_case_with_dots"`
	NumberStrategy string `env:"NUMBER_STRATEGY" envDefault:"dynamic"  json:"numberStrategy" validate:"oneof=dynamic double long_or_double lazily_parsed"`
	LongPolicy     string `env:"LONG_POLICY"     envDefault:"number"   json:"longPolicy" validate:"oneof=number string"`
	TimeZone       string `env:"TIME_ZONE"       envDefault:"UTC"      json:"timeZone" validate:"required,timezone|eq=original"`
	Indent         int    `env:"INDENT"          envDefault:"2"        json:"indent" validate:"gte=1,lte=16"`
}

// Location resolves TimeZone. It returns nil for OriginalZone.
func (c *Config) Location() (*time.Location, error) {
	if strings.EqualFold(c.TimeZone, OriginalZone) {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the given dotenv files, skipping missing ones, then parses the
// JSONUTIL_ variables. Variables already set in the process win over files.
func Load(paths ...string) (*Config, error) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
	}
	return FromEnvironment()
}

// FromEnvironment parses and validates the current process environment.
func FromEnvironment() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: envPrefix})
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if strings.EqualFold(cfg.TimeZone, OriginalZone) {
		cfg.TimeZone = OriginalZone
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
