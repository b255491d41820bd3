package database

import (
	"fmt"
	"sudshine/config"

	"github.com/valkey-io/valkey-go"
)

type CacheClient valkey.Client

type Cache struct {
	General CacheClient
	Session CacheClient
	User    CacheClient
	Events  CacheClient
}

// Valkey database index organization. Each index provides logical separation
// for one cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous cache operations
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - authentication-related temporary data
	SESSION_CACHE_INDEX

	// USER_CACHE_INDEX (DB 2) - user rows, external-ID mappings and the
	// per-user loyalty eligibility snapshot
	USER_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - pub/sub transport for lifecycle events
	// feeding the admin live feed
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	var cacheDB Cache

	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&cacheDB.General, GENERAL_CACHE_INDEX, "general"},
		{&cacheDB.Session, SESSION_CACHE_INDEX, "session"},
		{&cacheDB.User, USER_CACHE_INDEX, "user"},
		{&cacheDB.Events, EVENTS_CACHE_INDEX, "events"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(
			valkey.ClientOption{
				InitAddress: []string{fmt.Sprintf("%s:%d", address, port)},
				SelectDB:    c.index,
			},
		)
		if err != nil {
			return log.Err("failed to create valkey client", err, "cache", c.name)
		}
		*c.target = client
	}

	s.Cache = cacheDB

	log.Info("Successfully initialized cache databases")
	return nil
}
