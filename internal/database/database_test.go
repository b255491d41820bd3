package database

import (
	"sudshine/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, USER_CACHE_INDEX)
	assert.Equal(t, 3, EVENTS_CACHE_INDEX)
}

func TestNewGormConfig(t *testing.T) {
	cfg := newGormConfig()

	// Unique-index violations must surface as gorm.ErrDuplicatedKey so the
	// review repository can map them to the duplicate-review error kind.
	assert.True(t, cfg.TranslateError)
	assert.True(t, cfg.PrepareStmt)
	assert.True(t, cfg.SkipDefaultTransaction)
	assert.NotNil(t, cfg.Logger)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Equal(t, log, db.log)
	assert.Nil(t, db.SQL)
}

// Cache builder tests require a real valkey client and run as integration
// tests against a cache server.
func TestCacheBuilder_SkippedTests(t *testing.T) {
	t.Skip("Cache builder tests require real valkey client - tested in integration tests")
}
