package seed

import (
	"context"
	"testing"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRunSeedsOnceOnly(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:seedtest?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{AdminEmail: "owner@example.com"}
	require.NoError(t, Run(context.Background(), db, cfg))

	var users, posts, comments int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Post{}).Count(&posts)
	db.Model(&models.Comment{}).Count(&comments)
	assert.EqualValues(t, 1+readerCount, users)
	assert.EqualValues(t, postCount, posts)
	assert.EqualValues(t, postCount*commentsPerPost, comments)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "owner@example.com").First(&admin).Error)
	assert.True(t, admin.IsAdmin)

	// A second run must not duplicate anything.
	require.NoError(t, Run(context.Background(), db, cfg))
	db.Model(&models.User{}).Count(&users)
	assert.EqualValues(t, 1+readerCount, users)
}
