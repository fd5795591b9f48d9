package db

import (
	"github.com/pkg/errors"

	"github.com/hrygo/thermosense/internal/profile"
	"github.com/hrygo/thermosense/store"
	"github.com/hrygo/thermosense/store/db/memory"
	"github.com/hrygo/thermosense/store/db/postgres"
	"github.com/hrygo/thermosense/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
//
// sqlite is the default for single-node deployments, postgres for shared
// ones, and memory keeps everything in process (tests, demos).
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	case "memory":
		driver = memory.NewDB()
	default:
		return nil, errors.Errorf("unknown db driver %q: only sqlite, postgres and memory are supported", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
