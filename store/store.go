package store

import (
	"time"

	"github.com/knipselapp/knipsel/internal/profile"
	"github.com/knipselapp/knipsel/store/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// Cache settings
	cacheConfig cache.Config

	// tagCache caches the distinct tag name list for the filter UI.
	// Knowledge learn/predict paths bypass it and always read the driver.
	tagCache *cache.Cache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	cacheConfig := cache.Config{
		DefaultTTL:      10 * time.Minute,
		CleanupInterval: 5 * time.Minute,
		MaxItems:        100,
	}

	return &Store{
		driver:      driver,
		profile:     profile,
		cacheConfig: cacheConfig,
		tagCache:    cache.New(cacheConfig),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	s.tagCache.Close()
	return s.driver.Close()
}
