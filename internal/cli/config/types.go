// Package config provides configuration management for the tabletalk CLI.
//
// Values are layered with koanf. Defaults come first, then a tabletalk.yaml
// file, then TABLETALK_* environment variables, then explicitly set flags.
package config

import "time"

// Output modes accepted by the output key.
const (
	OutputAuto     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	OutputText     = "text"
	OutputMarkdown = "markdown"
	OutputJSON     = "json"
	OutputYAML     = "yaml"
)

// OutputModes lists every accepted output mode.
var OutputModes = []string{OutputAuto, OutputText, OutputMarkdown, OutputJSON, OutputYAML}

// Default configuration values.
const (
	DefaultOutput        = OutputAuto
	DefaultLogLevel      = "info"
	DefaultPreviewRows   = 5
	DefaultChartDir      = "charts"
	DefaultChartWidth    = 800
	DefaultChartHeight   = 400
	DefaultMaxCategories = 30
	DefaultHistoryFile   = ".tabletalk_history"
	DefaultWatchDebounce = 100 * time.Millisecond
)

// ChartConfig sizes and places rendered charts.
type ChartConfig struct {
	Dir           string `koanf:"dir"`
	Width         int    `koanf:"width"`
	Height        int    `koanf:"height"`
	MaxCategories int    `koanf:"max_categories"`
}

// Config holds all CLI configuration options.
type Config struct {
	File              string        `koanf:"file"`
	Sheet             string        `koanf:"sheet"`
	NoHeaderRow       bool          `koanf:"no_header_row"`
	OutputFormat      string        `koanf:"output"`
	Verbose           bool          `koanf:"verbose"`
	LogLevel          string        `koanf:"log_level"`
	StrictColumns     bool          `koanf:"strict_columns"`
	PreviewRows       int           `koanf:"preview_rows"`
	KeepOnLoadFailure bool          `koanf:"keep_on_load_failure"`
	Watch             bool          `koanf:"watch"`
	WatchDebounce     time.Duration `koanf:"watch_debounce"`
	HistoryFile       string        `koanf:"history_file"`
	Chart             ChartConfig   `koanf:"chart"`

	// BaseDir is the directory relative paths from the config file are
	// resolved against.
	BaseDir string `koanf:"-"`
}

// Default returns a Config holding only default values.
func Default() *Config {
	return &Config{
		OutputFormat:  DefaultOutput,
		LogLevel:      DefaultLogLevel,
		PreviewRows:   DefaultPreviewRows,
		HistoryFile:   DefaultHistoryFile,
		WatchDebounce: DefaultWatchDebounce,
		Chart: ChartConfig{
			Dir:           DefaultChartDir,
			Width:         DefaultChartWidth,
			Height:        DefaultChartHeight,
			MaxCategories: DefaultMaxCategories,
		},
	}
}
