package report

import (
	"go.uber.org/atomic"
)

type SyncerState struct {
	// Crawl progress
	WindowsCrawled          atomic.Uint64 `json:"windows_crawled"`
	PagesFetched            atomic.Uint64 `json:"pages_fetched"`
	OpportunitiesDiscovered atomic.Uint64 `json:"opportunities_discovered"`
	DuplicatesSkipped       atomic.Uint64 `json:"duplicates_skipped"`

	// Unix timestamp of the oldest window boundary crawled so far
	OldestWindowStart atomic.Int64 `json:"oldest_window_start"`

	// Processing outcomes
	ContractsAdded     atomic.Uint64 `json:"contracts_added"`
	ContractsSkipped   atomic.Uint64 `json:"contracts_skipped"`
	ContractorsCreated atomic.Uint64 `json:"contractors_created"`
	ContractorsReused  atomic.Uint64 `json:"contractors_reused"`

	AverageContractsSavedPerMinute atomic.Float64 `json:"average_contracts_saved_per_minute"`

	// Queued units of work relative to the configured queue size
	WorkerQueueFillFactor atomic.Float64 `json:"worker_queue_fill_factor"`
}

type SyncerErrors struct {
	// Page fetches that failed even after the retry.
	// Counted apart from normal end-of-window empty pages.
	PagesExhausted atomic.Uint64 `json:"pages_exhausted"`

	PermissionErrors   atomic.Uint64 `json:"permission"`
	MalformedDocuments atomic.Uint64 `json:"malformed_document"`
	ProcessingErrors   atomic.Uint64 `json:"processing"`
	DbGraphInsert      atomic.Uint64 `json:"db_graph_insert"`
}

type SyncerReport struct {
	State  SyncerState  `json:"state"`
	Errors SyncerErrors `json:"errors"`
}
