package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/carbocation/casecontrol"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "CASECONTROL_"

// Load reads configuration with this precedence, highest first:
//  1. Environment variables (CASECONTROL_METADATA_DIR, CASECONTROL_LOG_LEVEL, ...)
//  2. The YAML file at path, if path is not empty
//  3. Default()
//
// Environment names map onto keys by splitting on the first underscore after
// the prefix, so CASECONTROL_FILTERS_CELL_LINE sets filters.cell_line. A
// comma separated CASECONTROL_BLACKLIST replaces the blacklist.
//
// The result is not validated, since command line flags may still override
// it. Call Validate once every source has been applied.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(casecontrol.ExpandHome(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}

		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if k.Exists("blacklist") {
		cfg.Blacklist = nil
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The environment can only supply a flat string
	if raw, ok := k.Get("blacklist").(string); ok {
		cfg.Blacklist = splitList(raw)
	}

	return &cfg, nil
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}
