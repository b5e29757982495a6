// Package config holds the editor's typed configuration: grouping policy
// for the history engine, word-character classes, and logging settings.
// Values load from a TOML file with environment variable overrides, and
// every consumer receives them as injected values rather than reading
// package globals.
package config

import (
	"strings"
	"time"
	"unicode"

	"github.com/quillpad/quill/internal/engine/history"
)

// Config is the root configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	History HistoryConfig `toml:"history"`
	Logging LoggingConfig `toml:"logging"`
}

// EditorConfig holds buffer-level settings.
type EditorConfig struct {
	// TabWidth is the display width of a tab character.
	TabWidth int `toml:"tab_width"`

	// ExtraWordChars lists characters treated as word characters in
	// addition to letters and digits.
	ExtraWordChars string `toml:"extra_word_chars"`

	// IdleFinalizeMS is how long input may be idle before the session
	// closes the open undo group.
	IdleFinalizeMS int `toml:"idle_finalize_ms"`
}

// HistoryConfig holds the undo grouping policy.
type HistoryConfig struct {
	// GroupTimeoutMS is the pause that breaks an undo group.
	GroupTimeoutMS int `toml:"group_timeout_ms"`

	// AdjacencySlack is the maximum distance, in bytes, between
	// consecutive typing or deletion commands in one group.
	AdjacencySlack int `toml:"adjacency_slack"`

	// MaxGroups caps the undo stack.
	MaxGroups int `toml:"max_groups"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// File is the log destination; empty means stderr.
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TabWidth:       4,
			ExtraWordChars: "_",
			IdleFinalizeMS: 1000,
		},
		History: HistoryConfig{
			GroupTimeoutMS: 1000,
			AdjacencySlack: 1,
			MaxGroups:      100,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Normalize clamps out-of-range values back to their defaults. It never
// fails: a bad config degrades to a working one.
func (c *Config) Normalize() {
	def := Default()
	if c.Editor.TabWidth <= 0 {
		c.Editor.TabWidth = def.Editor.TabWidth
	}
	if c.Editor.IdleFinalizeMS <= 0 {
		c.Editor.IdleFinalizeMS = def.Editor.IdleFinalizeMS
	}
	if c.History.GroupTimeoutMS <= 0 {
		c.History.GroupTimeoutMS = def.History.GroupTimeoutMS
	}
	if c.History.AdjacencySlack < 0 {
		c.History.AdjacencySlack = def.History.AdjacencySlack
	}
	if c.History.MaxGroups <= 0 {
		c.History.MaxGroups = def.History.MaxGroups
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		c.Logging.Level = strings.ToLower(c.Logging.Level)
	default:
		c.Logging.Level = def.Logging.Level
	}
}

// Policy builds the history grouping policy from the configuration.
func (c *Config) Policy() history.Policy {
	return history.Policy{
		GroupTimeout:   time.Duration(c.History.GroupTimeoutMS) * time.Millisecond,
		AdjacencySlack: c.History.AdjacencySlack,
		MaxGroups:      c.History.MaxGroups,
	}
}

// IdleFinalize returns the idle interval after which the session finalizes
// the open undo group.
func (c *Config) IdleFinalize() time.Duration {
	return time.Duration(c.Editor.IdleFinalizeMS) * time.Millisecond
}

// WordClass builds the word-character predicate for buffer word motions
// and word-wise deletion.
func (c *Config) WordClass() func(rune) bool {
	extra := c.Editor.ExtraWordChars
	return func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(extra, r)
	}
}
