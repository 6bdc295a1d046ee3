package config

import (
	"time"

	"github.com/spf13/viper"
)

type Samgov struct {
	// Base url of the SAM.gov production API
	Url string

	// Number of results requested per search page
	PageSize int

	// Fixed UTC offset suffix appended to window dates in search queries
	DateOffset string

	// HTTP client timeouts
	RequestTimeout      time.Duration
	DialerTimeout       time.Duration
	DialerKeepAlive     time.Duration
	TLSHandshakeTimeout time.Duration
	IdleConnTimeout     time.Duration

	// Minimum time between two requests to the same host
	LimiterInterval  time.Duration
	LimiterBurstSize int
}

func setSamgovDefaults() {
	viper.SetDefault("Samgov.Url", "https://sam.gov/api/prod")
	viper.SetDefault("Samgov.PageSize", "400")
	viper.SetDefault("Samgov.DateOffset", "-07:00")
	viper.SetDefault("Samgov.RequestTimeout", "30s")
	viper.SetDefault("Samgov.DialerTimeout", "30s")
	viper.SetDefault("Samgov.DialerKeepAlive", "15s")
	viper.SetDefault("Samgov.TLSHandshakeTimeout", "10s")
	viper.SetDefault("Samgov.IdleConnTimeout", "31s")
	viper.SetDefault("Samgov.LimiterInterval", "100ms")
	viper.SetDefault("Samgov.LimiterBurstSize", "1")
}
