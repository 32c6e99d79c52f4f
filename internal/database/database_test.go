package database

import (
	"testing"

	"inkwell/internal/config"
	modelspkg "inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	assert.NoError(t, configurePool(db, cfg))

	// Zero values fall back to defaults instead of disabling the pool.
	assert.NoError(t, configurePool(db, &config.Config{}))
}

func TestPersistentModels_IncludesFollow(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.Follow); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Follow")
}

func TestPersistentModels_MigratesCleanly(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	for _, table := range []string{"users", "groups", "posts", "comments", "follows"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestRegisteredMigrationsArePaired(t *testing.T) {
	require.NotEmpty(t, migrations)
	for _, m := range migrations {
		assert.NotEmpty(t, m.UpScript, "migration %d has no up script", m.Version)
		assert.NotEmpty(t, m.DownScript, "migration %d has no down script", m.Version)
	}
}

func TestValidateAppliedVersions(t *testing.T) {
	known := []Migration{{Version: 1}, {Version: 2}}

	assert.NoError(t, validateAppliedVersions([]int{1}, known))
	assert.NoError(t, validateAppliedVersions(nil, known))
	assert.Error(t, validateAppliedVersions([]int{3}, known))
}
