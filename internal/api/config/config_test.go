package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	t.Setenv("COURIER_REPORT_STRATEGY", "joined")
	t.Setenv("COURIER_DATABASE_QUERY_TIMEOUT", "1500")

	require.NoError(t, LoadConfig())
	require.NotNil(t, Cfg)

	assert.Equal(t, "joined", Cfg.Report.Strategy)
	assert.Equal(t, 1500*time.Millisecond, Cfg.DB.QueryTimeoutDuration())
	assert.Equal(t, 10, Cfg.Report.DefaultPerPage)
	assert.Equal(t, 200, Cfg.Report.MaxPerPage)
	assert.Equal(t, 24*time.Hour, Cfg.Report.ActiveWindow())
	assert.Equal(t, 5*time.Minute, Cfg.Report.ChannelCacheTTLDuration())
	assert.Equal(t, "0 */1 * * * *", Cfg.Cron.CachePurge)
}
