package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) TestDefaults() {
	conf := Default()
	require.NotNil(s.T(), conf)

	require.Equal(s.T(), ":3023", conf.RESTListenAddress)
	require.Equal(s.T(), 30*time.Second, conf.StopTimeout)
	require.Equal(s.T(), "https://sam.gov/api/prod", conf.Samgov.Url)
	require.Equal(s.T(), 400, conf.Samgov.PageSize)
	require.Equal(s.T(), "-07:00", conf.Samgov.DateOffset)
	require.Equal(s.T(), 10, conf.Syncer.NumWorkers)
	require.Equal(s.T(), 2, conf.Syncer.PageMaxAttempts)
	require.EqualValues(s.T(), 5432, conf.Database.Port)
	require.Equal(s.T(), "samsync", conf.Database.Name)
	require.False(s.T(), conf.Profiler.Enabled)
}

func (s *ConfigTestSuite) TestEnvOverride() {
	s.T().Setenv("SAMSYNC_SYNCER_NUM_WORKERS", "3")
	s.T().Setenv("SAMSYNC_DATABASE_HOST", "db.internal")
	s.T().Setenv("SAMSYNC_STOP_TIMEOUT", "5s")

	conf, err := Load("")
	require.NoError(s.T(), err)
	require.Equal(s.T(), 3, conf.Syncer.NumWorkers)
	require.Equal(s.T(), "db.internal", conf.Database.Host)
	require.Equal(s.T(), 5*time.Second, conf.StopTimeout)
}
