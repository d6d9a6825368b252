package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/wordgen/internal/cli/output"
	"github.com/leapstack-labs/wordgen/pkg/lint"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", c.Count)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if _, ok := output.ParseMode(c.Output); !ok {
		return fmt.Errorf("unknown output format %q (want auto, text, markdown, json or csv)", c.Output)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want text or json)", c.LogFormat)
	}
	if strings.TrimSpace(c.HistoryPath) == "" {
		return fmt.Errorf("history_path is required")
	}
	if _, err := c.Lint.Build(); err != nil {
		return fmt.Errorf("invalid lint configuration: %w", err)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown log_level %q (want debug, info, warn or error)", s)
	}
	return level, nil
}

// Build converts the settings into an analyzer configuration.
func (l LintConfig) Build() (*lint.Config, error) {
	cfg := lint.NewConfig()
	for _, id := range l.Disabled {
		id = strings.ToUpper(strings.TrimSpace(id))
		if _, ok := lint.RuleByID(id); !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		cfg.Disable(id)
	}
	for id, sev := range l.Severity {
		id = strings.ToUpper(strings.TrimSpace(id))
		if _, ok := lint.RuleByID(id); !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		s, ok := lint.ParseSeverity(sev)
		if !ok {
			return nil, fmt.Errorf("unknown severity %q for rule %s", sev, id)
		}
		cfg.SetSeverity(id, s)
	}
	if l.MinSeverity != "" {
		s, ok := lint.ParseSeverity(l.MinSeverity)
		if !ok {
			return nil, fmt.Errorf("unknown min_severity %q", l.MinSeverity)
		}
		cfg.SetMinSeverity(s)
	}
	return cfg, nil
}
