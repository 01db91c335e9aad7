// Package config loads casecontrol settings from an optional YAML file and
// CASECONTROL_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/carbocation/casecontrol/samplefilter"
)

// Config is the full set of settings. Command line flags take precedence over
// everything loaded here.
type Config struct {
	Metadata  MetadataConfig     `koanf:"metadata"`
	Filters   samplefilter.Flags `koanf:"filters"`
	Blacklist []string           `koanf:"blacklist"`
	Log       LogConfig          `koanf:"log"`
}

// MetadataConfig says where sample metadata comes from: a directory of JSON
// files (local or gs://), or a BigQuery dataset when Database is set.
type MetadataConfig struct {
	Dir       string `koanf:"dir"`
	Available string `koanf:"available"`
	Project   string `koanf:"project"`
	Database  string `koanf:"database"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// UseBigQuery reports whether metadata should be read from BigQuery.
func (m MetadataConfig) UseBigQuery() bool {
	return m.Database != ""
}

// DefaultBlacklist excludes controls annotated with any disease at all.
var DefaultBlacklist = []string{"disease", "disease of cellular proliferation"}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Metadata: MetadataConfig{
			Dir: "./data",
		},
		Filters:   samplefilter.DefaultFlags(),
		Blacklist: append([]string(nil), DefaultBlacklist...),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c Config) Validate() error {
	if c.Metadata.Dir == "" && !c.Metadata.UseBigQuery() {
		return fmt.Errorf("either metadata.dir or metadata.database must be set")
	}
	if c.Metadata.UseBigQuery() && c.Metadata.Project == "" {
		return fmt.Errorf("metadata.project is required when reading from bigquery")
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, not %q", c.Log.Format)
	}

	return nil
}
