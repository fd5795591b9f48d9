package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/thermosense/personalizer"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where thermosense stores its own data
	DSN string
	// Driver is the database driver (sqlite, postgres or memory)
	Driver string
	// Version is the current version of server
	Version string

	// PrecomputeInterval is how often preferences are recomputed for all
	// devices.
	PrecomputeInterval time.Duration
	// Workers bounds the per-device inference fan-out.
	Workers int
	// LookbackDays and HalfLifeDays configure the personalizer core.
	LookbackDays int
	HalfLifeDays int
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// PersonalizerConfig maps the profile onto the scoring core's config.
func (p *Profile) PersonalizerConfig() personalizer.Config {
	return personalizer.Config{
		LookbackDays: p.LookbackDays,
		HalfLifeDays: p.HalfLifeDays,
	}
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

	if p.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", p.Workers)
	}
	if p.PrecomputeInterval <= 0 {
		return errors.Errorf("precompute interval must be positive, got %s", p.PrecomputeInterval)
	}
	if err := p.PersonalizerConfig().Validate(); err != nil {
		return err
	}

	if p.Driver == "memory" {
		// No data directory needed.
		return nil
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("thermosense_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
