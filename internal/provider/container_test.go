package provider

import (
	"fmt"
	"strings"
	"testing"

	"github.com/newsroom-next/internal/config"
	"github.com/newsroom-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT:      config.JWTConfig{SecretKey: "secret", ExpireHours: 1},
		Trending: config.TrendingConfig{Take: 5},
	}
}

func TestNewContainerWithoutDatabase(t *testing.T) {
	c, err := NewContainer(testConfig(), nil)
	require.NoError(t, err)
	assert.False(t, c.DatabaseReady())
	assert.NotNil(t, c.SessionIssuer)
	assert.NotNil(t, c.CaptchaService)
	assert.Nil(t, c.PostService)
	assert.False(t, c.QueueClient.Enabled())
	c.Close()
}

func TestNewContainerWiresServices(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	c, err := NewContainer(testConfig(), db)
	require.NoError(t, err)
	assert.True(t, c.DatabaseReady())
	assert.NotNil(t, c.AuthService)
	assert.NotNil(t, c.ImportService)
	assert.NotNil(t, c.SchedulerService)

	ok, err := c.AuthzService.EnforceRole("admin", "/api/settings", "PUT")
	require.NoError(t, err)
	assert.True(t, ok)
	c.Close()
}
