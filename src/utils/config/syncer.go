package config

import (
	"time"

	"github.com/spf13/viper"
)

type Syncer struct {
	// Number of workers processing opportunities in parallel
	NumWorkers int

	// Max opportunities waiting for a free worker
	WorkerQueueSize int

	// How far back the crawl may walk, in days
	CrawlHorizonDays int

	// Max attempts for a single search page fetch
	PageMaxAttempts int

	// Wait between page fetch attempts
	PageRetryInterval time.Duration

	// A progress line is logged every that many stored contracts
	ProgressInterval uint64

	// Contractor id cache
	ContractorCacheTTL     time.Duration
	ContractorCacheCleanup time.Duration
}

func setSyncerDefaults() {
	viper.SetDefault("Syncer.NumWorkers", "10")
	viper.SetDefault("Syncer.WorkerQueueSize", "1000")
	viper.SetDefault("Syncer.CrawlHorizonDays", "3650")
	viper.SetDefault("Syncer.PageMaxAttempts", "2")
	viper.SetDefault("Syncer.PageRetryInterval", "1s")
	viper.SetDefault("Syncer.ProgressInterval", "100")
	viper.SetDefault("Syncer.ContractorCacheTTL", "10m")
	viper.SetDefault("Syncer.ContractorCacheCleanup", "15m")
}
