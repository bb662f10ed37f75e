// Package config loads the daemon's options record.
//
// The on-disk format is the original transformers_ocr config: plain text,
// one key=value per line, '#' comments. Existing user configs must keep
// loading, so the format is an external contract, not a serialization
// choice.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default locations, relative to the user's XDG directories.
const (
	configDirName  = "transformers_ocr"
	configFileName = "config"
	dataDirName    = "mangaocrd"
	historyDBName  = "history.db"

	// DefaultPipePath is the well-known FIFO location shared with producers.
	DefaultPipePath = "/tmp/manga_ocr.fifo"
)

// Config holds the daemon's options. It is immutable after Load.
type Config struct {
	// ForceCPU pins the OCR engine to CPU-only, single-threaded operation.
	ForceCPU bool
	// ClipArgs overrides the platform clipboard command. Nil selects the
	// default program by display-server detection; non-nil is invoked with
	// the text appended as the final argument.
	ClipArgs []string
	// PipePath is the FIFO the daemon reads commands from.
	PipePath string
	// Languages are the trained-data hints passed to the OCR engine.
	Languages []string
	// HistoryDB is the bolt file recognized text is recorded to.
	// Empty disables persistence.
	HistoryDB string
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, configDirName, configFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("/", configDirName, configFileName)
	}
	return filepath.Join(home, ".config", configDirName, configFileName)
}

// defaultHistoryDB returns the history database location, honoring
// XDG_DATA_HOME.
func defaultHistoryDB() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, dataDirName, historyDBName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", dataDirName, historyDBName)
}

// Default returns a Config with documented defaults: no forced CPU, no
// custom clip command, the well-known pipe path, Japanese trained data.
func Default() *Config {
	return &Config{
		ForceCPU:  false,
		ClipArgs:  nil,
		PipePath:  DefaultPipePath,
		Languages: []string{"jpn"},
		HistoryDB: defaultHistoryDB(),
	}
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file is not an error and yields defaults; a present but
// unreadable file is fatal to startup. Unknown keys are ignored so configs
// written for other frontends keep working.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			overrideFromEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseKeyValue(line)
		if !ok {
			continue
		}
		cfg.apply(key, value)
	}

	overrideFromEnv(cfg)
	return cfg, nil
}

// parseKeyValue splits one config line. Lines without '=' or starting with
// '#' are ignored, matching the original format.
func parseKeyValue(line string) (key, value string, ok bool) {
	if strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
		return "", "", false
	}
	parts := strings.SplitN(line, "=", 2)
	return parts[0], parts[1], true
}

func (c *Config) apply(key, value string) {
	switch key {
	case "force_cpu":
		c.ForceCPU = value == "true" || value == "yes"
	case "clip_command":
		if args := strings.Fields(value); len(args) > 0 {
			c.ClipArgs = args
		}
	case "pipe_path":
		if v := strings.TrimSpace(value); v != "" {
			c.PipePath = v
		}
	case "ocr_languages":
		var langs []string
		for _, l := range strings.Split(value, ",") {
			if l = strings.TrimSpace(l); l != "" {
				langs = append(langs, l)
			}
		}
		if len(langs) > 0 {
			c.Languages = langs
		}
	case "history_db":
		c.HistoryDB = strings.TrimSpace(value)
	}
}

// overrideFromEnv applies environment variable overrides on top of the file.
func overrideFromEnv(cfg *Config) {
	if val := os.Getenv("MANGAOCR_PIPE_PATH"); val != "" {
		cfg.PipePath = val
	}
	if val := os.Getenv("MANGAOCR_HISTORY_DB"); val != "" {
		cfg.HistoryDB = val
	}
	if val := os.Getenv("MANGAOCR_FORCE_CPU"); val != "" {
		cfg.ForceCPU = val == "true" || val == "yes"
	}
}
