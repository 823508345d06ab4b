package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nurse-triage-backend/config"
	"nurse-triage-backend/internal/model"
)

func TestDialector(t *testing.T) {
	assert.Equal(t, "sqlite", Dialector("sqlite:file::memory:").Name())
	assert.Equal(t, "sqlite", Dialector("file::memory:?cache=shared").Name())
	assert.Equal(t, "sqlite", Dialector("./nurse_triage.db").Name())
	assert.Equal(t, "postgres", Dialector("host=localhost user=triage dbname=ehr").Name())
}

func TestInit_SQLiteMigrates(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{
		DSN:         "file:dbinit?mode=memory&cache=shared",
		AutoMigrate: true,
	}, zap.NewNop())
	require.NoError(t, err)

	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	assert.True(t, gormDB.Migrator().HasTable(&model.VitalSigns{}))
}

func TestInit_EmptyDSN(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{}, zap.NewNop())
	assert.Error(t, err)
}
