// Package config resolves the effective tabwatch configuration: compiled-in
// defaults for the packaged deployment, optionally overlaid by a dotenv file
// and TABWATCH_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDownloadURL is the fixed endpoint serving the current IBPT table.
const DefaultDownloadURL = "https://www.concity.com.br/arquivos/599da4243044a07f6b3a9986d46c35b2.csv"

// DefaultInterval is the wait between reconciliation cycles.
const DefaultInterval = 6 * time.Hour

const (
	defaultLogMaxSizeMB  = 5
	defaultLogMaxBackups = 3

	lockFileName = "tabwatch.lock"
	logFileName  = "tabwatch.log"
)

// DefaultFiles are the canonical table names the packaged deployment keeps
// beside the executable.
var DefaultFiles = []string{
	"TabelaIBPTaxBA15.1.B.csv",
	"TabelaIBPTax15.1.B.csv",
}

// Config is the resolved configuration for one tabwatch instance.
type Config struct {
	// DownloadURL is the source every file is fetched from.
	DownloadURL string
	// Files are the canonical file names, relative to BaseDir.
	Files []string
	// BaseDir holds the tables, the lock file and the log file. Defaults
	// to the executable's own directory.
	BaseDir string
	// Interval is the wait between cycles in the periodic modes.
	Interval time.Duration
	// Cron, when set, schedules cycles by expression instead of Interval.
	Cron string

	LogMaxSizeMB  int
	LogMaxBackups int
}

// Load builds the effective configuration. envFile, when non-empty, names a
// dotenv file that must load; otherwise a ./.env is loaded best-effort.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load()
	}

	cfg := &Config{
		DownloadURL:   DefaultDownloadURL,
		Files:         append([]string(nil), DefaultFiles...),
		BaseDir:       executableDir(),
		Interval:      DefaultInterval,
		LogMaxSizeMB:  defaultLogMaxSizeMB,
		LogMaxBackups: defaultLogMaxBackups,
	}

	if v := os.Getenv("TABWATCH_URL"); v != "" {
		cfg.DownloadURL = v
	}
	if v := os.Getenv("TABWATCH_FILES"); v != "" {
		cfg.Files = splitFiles(v)
	}
	if v := os.Getenv("TABWATCH_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("TABWATCH_CRON"); v != "" {
		cfg.Cron = v
	}
	if v := os.Getenv("TABWATCH_INTERVAL_MINUTES"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m <= 0 {
			return nil, fmt.Errorf("TABWATCH_INTERVAL_MINUTES: want a positive integer, got %q", v)
		}
		cfg.Interval = time.Duration(m) * time.Minute
	}
	if v := os.Getenv("TABWATCH_LOG_MAX_SIZE_MB"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m <= 0 {
			return nil, fmt.Errorf("TABWATCH_LOG_MAX_SIZE_MB: want a positive integer, got %q", v)
		}
		cfg.LogMaxSizeMB = m
	}
	if v := os.Getenv("TABWATCH_LOG_MAX_BACKUPS"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 0 {
			return nil, fmt.Errorf("TABWATCH_LOG_MAX_BACKUPS: want a non-negative integer, got %q", v)
		}
		cfg.LogMaxBackups = m
	}

	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("no files configured")
	}
	return cfg, nil
}

// FilePath resolves a canonical file name against the base directory.
func (c *Config) FilePath(name string) string {
	return filepath.Join(c.BaseDir, name)
}

// LockPath is the single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.BaseDir, lockFileName)
}

// LogPath is the rotating log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.BaseDir, logFileName)
}

func splitFiles(v string) []string {
	var files []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}

// executableDir falls back to the working directory when the executable
// path cannot be resolved (e.g. under go run).
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
