package database

import (
	"context"
	"testing"

	"scribe/internal/config"
	"scribe/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		runSQL  bool
		runAuto bool
		wantErr bool
	}{
		{"hybrid development", config.Config{Env: "development", DBDriver: "postgres"}, true, true, false},
		{"hybrid production", config.Config{Env: "production", DBDriver: "postgres", DBSchemaMode: "hybrid"}, true, false, false},
		{"sql", config.Config{Env: "development", DBDriver: "postgres", DBSchemaMode: "sql"}, true, false, false},
		{"auto development", config.Config{Env: "development", DBDriver: "postgres", DBSchemaMode: "auto"}, false, true, false},
		{"auto production refused", config.Config{Env: "prod", DBDriver: "postgres", DBSchemaMode: "auto"}, false, false, true},
		{"auto production allowed", config.Config{Env: "prod", DBDriver: "postgres", DBSchemaMode: "auto", DBAutoMigrateAllowDestructive: true}, false, true, false},
		{"hybrid sqlite", config.Config{Env: "production", DBDriver: "sqlite", DBSchemaMode: "hybrid"}, false, true, false},
		{"sql sqlite refused", config.Config{DBDriver: "sqlite", DBSchemaMode: "sql"}, false, false, true},
		{"unknown mode", config.Config{DBDriver: "postgres", DBSchemaMode: "yolo"}, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.runSQL, runSQL)
			assert.Equal(t, tt.runAuto, runAuto)
		})
	}
}

func TestPersistentModels_ParentsFirst(t *testing.T) {
	registered := PersistentModels()
	require.Len(t, registered, 3)
	assert.IsType(t, &models.User{}, registered[0])
	assert.IsType(t, &models.Post{}, registered[1])
	assert.IsType(t, &models.Comment{}, registered[2])
}

func TestGetSchemaStatus_AutoOnly(t *testing.T) {
	db := openSQLite(t, "status")
	status, err := GetSchemaStatus(context.Background(), db, &config.Config{Env: "test", DBDriver: "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, SchemaModeHybrid, status.Mode)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
	assert.Empty(t, status.PendingMigrations)
}
