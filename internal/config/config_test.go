package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DownloadURL != DefaultDownloadURL {
		t.Errorf("DownloadURL = %q, want default", cfg.DownloadURL)
	}
	if len(cfg.Files) != 2 {
		t.Errorf("Files = %v, want the two canonical tables", cfg.Files)
	}
	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval = %v, want %v", cfg.Interval, DefaultInterval)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TABWATCH_URL", "http://mirror.example/t.csv")
	t.Setenv("TABWATCH_FILES", "a.csv, b.csv ,,c.csv")
	t.Setenv("TABWATCH_DIR", "/srv/tabelas")
	t.Setenv("TABWATCH_INTERVAL_MINUTES", "90")
	t.Setenv("TABWATCH_CRON", "0 6 * * *")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DownloadURL != "http://mirror.example/t.csv" {
		t.Errorf("DownloadURL = %q", cfg.DownloadURL)
	}
	if len(cfg.Files) != 3 || cfg.Files[1] != "b.csv" {
		t.Errorf("Files = %v, want [a.csv b.csv c.csv]", cfg.Files)
	}
	if cfg.BaseDir != "/srv/tabelas" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if cfg.Interval != 90*time.Minute {
		t.Errorf("Interval = %v, want 90m", cfg.Interval)
	}
	if cfg.Cron != "0 6 * * *" {
		t.Errorf("Cron = %q", cfg.Cron)
	}
}

func TestLoadRejectsBadInterval(t *testing.T) {
	for _, v := range []string{"0", "-5", "soon"} {
		t.Setenv("TABWATCH_INTERVAL_MINUTES", v)
		if _, err := Load(""); err == nil {
			t.Errorf("TABWATCH_INTERVAL_MINUTES=%q: want error", v)
		}
	}
}

func TestLoadRejectsEmptyFileList(t *testing.T) {
	t.Setenv("TABWATCH_FILES", " , ,")
	if _, err := Load(""); err == nil {
		t.Error("want error when no files remain configured")
	}
}

func TestLoadDotenvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "tabwatch.env")
	if err := os.WriteFile(envFile, []byte("TABWATCH_URL=http://dotenv.example/t.csv\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DownloadURL != "http://dotenv.example/t.csv" {
		t.Errorf("DownloadURL = %q, want dotenv value", cfg.DownloadURL)
	}
}

func TestLoadMissingDotenvFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("want error for an explicitly named missing env file")
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{BaseDir: "/srv/tabelas"}
	if got := cfg.FilePath("Tabela.csv"); got != filepath.Join("/srv/tabelas", "Tabela.csv") {
		t.Errorf("FilePath = %q", got)
	}
	if got := cfg.LockPath(); got != filepath.Join("/srv/tabelas", "tabwatch.lock") {
		t.Errorf("LockPath = %q", got)
	}
	if got := cfg.LogPath(); got != filepath.Join("/srv/tabelas", "tabwatch.log") {
		t.Errorf("LogPath = %q", got)
	}
}
