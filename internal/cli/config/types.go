// Package config loads wordgen CLI settings from defaults, wordgen.yaml,
// WORDGEN_* environment variables and command line flags.
package config

// Config holds all CLI configuration options.
type Config struct {
	Count       int        `koanf:"count"`
	Seed        uint64     `koanf:"seed"`
	MaxDepth    int        `koanf:"max_depth"`
	Output      string     `koanf:"output"`
	Verbose     bool       `koanf:"verbose"`
	LogLevel    string     `koanf:"log_level"`
	LogFormat   string     `koanf:"log_format"`
	HistoryPath string     `koanf:"history_path"`
	Save        bool       `koanf:"save"`
	Lint        LintConfig `koanf:"lint"`

	// ProjectRoot is the directory holding wordgen.yaml, or the working
	// directory when there is none. Not loaded from any source.
	ProjectRoot string `koanf:"-"`
}

// LintConfig configures the check command.
type LintConfig struct {
	Disabled    []string          `koanf:"disabled"`
	Severity    map[string]string `koanf:"severity"`
	MinSeverity string            `koanf:"min_severity"`
}

// Default configuration values.
const (
	DefaultCount       = 20
	DefaultMaxDepth    = 64
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultHistoryPath = ".wordgen/history.db"
	DefaultMinSeverity = "hint"
)

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Count:       DefaultCount,
		MaxDepth:    DefaultMaxDepth,
		Output:      DefaultOutput,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		HistoryPath: DefaultHistoryPath,
		Lint:        LintConfig{MinSeverity: DefaultMinSeverity},
	}
}
