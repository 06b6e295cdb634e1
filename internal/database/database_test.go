package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/student-planner-api/internal/config"
	"github.com/yukikurage/student-planner-api/internal/models"
	"github.com/yukikurage/student-planner-api/internal/utils"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{"", "mysql"},
		{"mysql", "mysql"},
		{"postgres", "postgres"},
		{"sqlite", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.driver, func(t *testing.T) {
			dialector, err := Dialector(&config.Config{DBDriver: tt.driver, DBPath: ":memory:"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, dialector.Name())
		})
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestMigrate_SQLite(t *testing.T) {
	db, err := Connect(&config.Config{DBDriver: "sqlite", DBPath: ":memory:", GinMode: "test"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Migrate(db))
	// idempotent
	require.NoError(t, Migrate(db))

	migrator := db.Migrator()
	assert.True(t, migrator.HasTable(&models.Task{}))
	assert.True(t, migrator.HasTable(&models.User{}))
	for _, idx := range taskIndexes {
		assert.True(t, migrator.HasIndex(&models.Task{}, idx.name), idx.name)
	}
}

func TestPaginate(t *testing.T) {
	db, err := Connect(&config.Config{DBDriver: "sqlite", DBPath: ":memory:", GinMode: "test"})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, Migrate(db))

	owner := &models.User{Name: "Student", Email: "s@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(owner).Error)
	for _, title := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, db.Create(&models.Task{Title: title, OwnerID: owner.ID}).Error)
	}

	var all []models.Task
	require.NoError(t, db.Scopes(Paginate(utils.PaginationParams{})).Find(&all).Error)
	assert.Len(t, all, 5)

	var page []models.Task
	require.NoError(t, db.Order("title").Scopes(Paginate(utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})).Find(&page).Error)
	require.Len(t, page, 2)
	assert.Equal(t, "c", page[0].Title)
}
