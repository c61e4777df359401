package db

import (
	"github.com/pkg/errors"

	"github.com/knipselapp/knipsel/internal/profile"
	"github.com/knipselapp/knipsel/store"
	"github.com/knipselapp/knipsel/store/db/postgres"
	"github.com/knipselapp/knipsel/store/db/sqlite"
)

// NewDBDriver creates new db driver based on profile.
// A failure here means the statistics store is unavailable; callers must
// surface it rather than continue without storage.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	default:
		return nil, errors.New("unknown db driver: only 'sqlite' and 'postgres' are supported")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
