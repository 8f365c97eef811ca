package config

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Schema    string         `koanf:"schema"`
	OutputDir string         `koanf:"output-dir"`
	Package   string         `koanf:"package"`
	Targets   []string       `koanf:"targets"`
	Templates TemplateConfig `koanf:"templates"`
	Output    OutputOptions  `koanf:"output"`
	Sync      SyncConfig     `koanf:"sync"`
}

type TemplateConfig struct {
	Dir string `koanf:"dir"`
}

type OutputOptions struct {
	AdditionalInitialisms []string `koanf:"additional-initialisms"`
}

type SyncConfig struct {
	Root        string        `koanf:"root"`
	Include     []string      `koanf:"include"`
	Concurrency int           `koanf:"concurrency"`
	Timeout     time.Duration `koanf:"timeout"`
	Report      string        `koanf:"report"`
}

// BindCommonFlags binds flags shared by the generate and sync commands.
func BindCommonFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP("config", "c", "", "Config file path (default: quarry.yaml)")
	flags.StringP("output-dir", "o", "", "Output directory for generated code")
	flags.StringP("package", "p", "", "Go package name (default: derived from provider)")
	flags.String("templates", "", "Custom templates directory")
	flags.StringSlice("additional-initialisms", nil, "Additional initialisms for naming")
	flags.Bool("dry-run", false, "Print output without writing files")
}

func Load(cmd *cobra.Command, targets []string) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		configFile, _ = cmd.PersistentFlags().GetString("config")
	}
	if configFile == "" {
		if _, err := os.Stat("quarry.yaml"); err == nil {
			configFile = "quarry.yaml"
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// CLI targets override config file targets
	if len(targets) > 0 {
		cfg.Targets = targets
	}
	cfg.Targets = ExpandTargets(cfg.Targets)

	if cfg.Sync.Concurrency == 0 {
		cfg.Sync.Concurrency = 4
	}
	if cfg.Sync.Timeout == 0 {
		cfg.Sync.Timeout = 30 * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ExpandTargets replaces "all" with the full target list.
func ExpandTargets(targets []string) []string {
	var result []string
	for _, t := range targets {
		if t == "all" {
			result = append(result, "types", "validators", "constructs")
		} else {
			result = append(result, t)
		}
	}
	return result
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		if v, err := cmd.PersistentFlags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getStringSlice := func(name string) []string {
		if v, err := cmd.Flags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		if v, err := cmd.PersistentFlags().GetStringSlice(name); err == nil && len(v) > 0 {
			return v
		}
		return nil
	}

	getInt := func(name string) int {
		if v, err := cmd.Flags().GetInt(name); err == nil && v != 0 {
			return v
		}
		return 0
	}

	getDuration := func(name string) time.Duration {
		if v, err := cmd.Flags().GetDuration(name); err == nil && v != 0 {
			return v
		}
		return 0
	}

	if v := getString("schema"); v != "" {
		m["schema"] = v
	}
	if v := getString("output-dir"); v != "" {
		m["output-dir"] = v
	}
	if v := getString("package"); v != "" {
		m["package"] = v
	}
	if v := getString("templates"); v != "" {
		m["templates.dir"] = v
	}
	if v := getStringSlice("additional-initialisms"); len(v) > 0 {
		m["output.additional-initialisms"] = v
	}

	// sync flags
	if v := getString("root"); v != "" {
		m["sync.root"] = v
	}
	if v := getStringSlice("include"); len(v) > 0 {
		m["sync.include"] = v
	}
	if v := getInt("concurrency"); v != 0 {
		m["sync.concurrency"] = v
	}
	if v := getDuration("timeout"); v != 0 {
		m["sync.timeout"] = v
	}
	if v := getString("report"); v != "" {
		m["sync.report"] = v
	}

	return m
}

func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	validTargets := map[string]bool{"types": true, "validators": true, "constructs": true}
	for _, t := range c.Targets {
		if !validTargets[t] {
			return fmt.Errorf("invalid target: %s (valid: types, validators, constructs)", t)
		}
	}

	if c.Sync.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if c.Sync.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}

	return nil
}

// HasTarget checks whether a target should be generated.
func (c *Config) HasTarget(target string) bool {
	return slices.Contains(c.Targets, target)
}
