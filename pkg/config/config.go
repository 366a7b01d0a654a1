// Package config loads docguard configuration from defaults, the
// project-level .docguard.yaml, and DOCGUARD_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// Config holds all configuration for docguard
type Config struct {
	// Root is the governed document tree. Relative paths in artifacts
	// are always expressed against it.
	Root      string         `mapstructure:"root"`
	OutputDir string         `mapstructure:"output_dir"`
	Scan      ScanConfig     `mapstructure:"scan"`
	Dedupe    DedupeConfig   `mapstructure:"dedupe"`
	Generate  GenerateConfig `mapstructure:"generate"`
	Lint      LintConfig     `mapstructure:"lint"`
	Scaffold  ScaffoldConfig `mapstructure:"scaffold"`
}

// ScanConfig controls document discovery.
type ScanConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
	Workers int      `mapstructure:"workers"`
}

// DedupeConfig controls duplicate grouping and canonical selection.
type DedupeConfig struct {
	// NearThreshold is the minimum title token-overlap ratio for two
	// documents to be considered near-duplicates.
	NearThreshold float64 `mapstructure:"near_threshold"`
	// Taxonomy maps a declared document type to the doublestar pattern
	// its canonical home must match (e.g. guide -> "guides/**").
	Taxonomy map[string]string `mapstructure:"taxonomy"`
	// IndexDocs are the designated top-level index documents whose
	// outbound links mark referenced documents as canonical candidates.
	IndexDocs []string `mapstructure:"index_docs"`
}

// GenerateConfig controls the site map and index refresh outputs.
type GenerateConfig struct {
	SiteMapPath       string   `mapstructure:"site_map_path"`
	SiteMapXMLPath    string   `mapstructure:"site_map_xml_path"`
	RedirectTablePath string   `mapstructure:"redirect_table_path"`
	IndexDocs         []string `mapstructure:"index_docs"`
}

// LintConfig controls the CI gate.
type LintConfig struct {
	MandatoryKeys []string      `mapstructure:"mandatory_keys"`
	LinkSample    int           `mapstructure:"link_sample"`
	Budget        time.Duration `mapstructure:"budget"`
	FailOn        string        `mapstructure:"fail_on"`
}

// ScaffoldConfig controls the ledgered scaffolder.
type ScaffoldConfig struct {
	TemplateDir string `mapstructure:"template_dir"`
	LedgerPath  string `mapstructure:"ledger_path"`
}

var defaultConfig = Config{
	Root:      ".",
	OutputDir: ".docguard",
	Scan: ScanConfig{
		Include: []string{"**/*.md"},
		Exclude: []string{},
		Workers: 4,
	},
	Dedupe: DedupeConfig{
		NearThreshold: 0.70,
		Taxonomy: map[string]string{
			"guide":    "guides/**",
			"runbook":  "runbooks/**",
			"adr":      "decisions/**",
			"api":      "api/**",
			"standard": "standards/**",
		},
		IndexDocs: []string{"README.md"},
	},
	Generate: GenerateConfig{
		SiteMapPath:       "SITEMAP.md",
		SiteMapXMLPath:    ".docguard/sitemap.xml",
		RedirectTablePath: "REDIRECTS.md",
		IndexDocs:         []string{"README.md"},
	},
	Lint: LintConfig{
		MandatoryKeys: []string{"owner"},
		LinkSample:    50,
		Budget:        2 * time.Minute,
		FailOn:        "high",
	},
	Scaffold: ScaffoldConfig{
		TemplateDir: "",
		LedgerPath:  ".docguard/scaffold-ledger.jsonl",
	},
}

// Default returns a copy of the built-in defaults.
func Default() Config {
	return defaultConfig
}

// Load reads configuration from .docguard.yaml (when present) under the
// given directory, layered over defaults and DOCGUARD_* env variables.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("root", defaultConfig.Root)
	v.SetDefault("output_dir", defaultConfig.OutputDir)
	v.SetDefault("scan.include", defaultConfig.Scan.Include)
	v.SetDefault("scan.exclude", defaultConfig.Scan.Exclude)
	v.SetDefault("scan.workers", defaultConfig.Scan.Workers)
	v.SetDefault("dedupe.near_threshold", defaultConfig.Dedupe.NearThreshold)
	v.SetDefault("dedupe.taxonomy", defaultConfig.Dedupe.Taxonomy)
	v.SetDefault("dedupe.index_docs", defaultConfig.Dedupe.IndexDocs)
	v.SetDefault("generate.site_map_path", defaultConfig.Generate.SiteMapPath)
	v.SetDefault("generate.site_map_xml_path", defaultConfig.Generate.SiteMapXMLPath)
	v.SetDefault("generate.redirect_table_path", defaultConfig.Generate.RedirectTablePath)
	v.SetDefault("generate.index_docs", defaultConfig.Generate.IndexDocs)
	v.SetDefault("lint.mandatory_keys", defaultConfig.Lint.MandatoryKeys)
	v.SetDefault("lint.link_sample", defaultConfig.Lint.LinkSample)
	v.SetDefault("lint.budget", defaultConfig.Lint.Budget)
	v.SetDefault("lint.fail_on", defaultConfig.Lint.FailOn)
	v.SetDefault("scaffold.template_dir", defaultConfig.Scaffold.TemplateDir)
	v.SetDefault("scaffold.ledger_path", defaultConfig.Scaffold.LedgerPath)

	v.SetConfigName(".docguard")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("DOCGUARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the structural constraints the pipeline relies on.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.Scan, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&c.Scan,
				validation.Field(&c.Scan.Include, validation.Required, validation.Length(1, 0)),
				// Required first: ozzo skips threshold rules on zero values.
				validation.Field(&c.Scan.Workers, validation.Required, validation.Min(1), validation.Max(64)),
			)
		})),
		validation.Field(&c.Dedupe, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&c.Dedupe,
				validation.Field(&c.Dedupe.NearThreshold, validation.Required, validation.Min(0.0).Exclusive(), validation.Max(1.0)),
			)
		})),
		validation.Field(&c.Lint, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&c.Lint,
				validation.Field(&c.Lint.LinkSample, validation.Min(0)),
				validation.Field(&c.Lint.FailOn, validation.In("critical", "high", "medium", "low", "info")),
			)
		})),
	)
}
