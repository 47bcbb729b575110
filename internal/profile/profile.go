package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Data is the data directory
	Data string
	// DSN points to where replan stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// OrdersCSV is an optional planned orders export to import on startup.
	OrdersCSV string

	// Planning configuration
	Timezone             string // REPLAN_TIMEZONE (default: UTC)
	FiscalYearStartMonth int    // REPLAN_FISCAL_YEAR_START_MONTH (default: 4, April)
	YearRollover         bool   // REPLAN_YEAR_ROLLOVER (default: true)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from REPLAN_* environment variables.
func (p *Profile) FromEnv() {
	p.Mode = getEnvOrDefault("REPLAN_MODE", p.Mode)
	p.Data = getEnvOrDefault("REPLAN_DATA", p.Data)
	p.DSN = getEnvOrDefault("REPLAN_DSN", p.DSN)
	p.Driver = getEnvOrDefault("REPLAN_DRIVER", p.Driver)
	p.OrdersCSV = getEnvOrDefault("REPLAN_ORDERS_CSV", p.OrdersCSV)

	p.Timezone = getEnvOrDefault("REPLAN_TIMEZONE", "UTC")
	if raw := os.Getenv("REPLAN_FISCAL_YEAR_START_MONTH"); raw != "" {
		if month, err := strconv.Atoi(raw); err == nil {
			p.FiscalYearStartMonth = month
		}
	}
	if p.FiscalYearStartMonth == 0 {
		p.FiscalYearStartMonth = int(time.April)
	}
	p.YearRollover = getEnvOrDefault("REPLAN_YEAR_ROLLOVER", "true") != "false"
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		p.Driver = "sqlite"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "replan")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/replan"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("replan_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.FiscalYearStartMonth < 1 || p.FiscalYearStartMonth > 12 {
		return errors.Errorf("fiscal year start month must be between 1 and 12, got %d", p.FiscalYearStartMonth)
	}
	if _, err := time.LoadLocation(p.Timezone); p.Timezone != "" && err != nil {
		return errors.Wrapf(err, "invalid timezone %q", p.Timezone)
	}

	return nil
}
