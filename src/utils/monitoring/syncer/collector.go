package monitor_syncer

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Collector struct {
	monitor *Monitor

	StartTimestamp          *prometheus.Desc
	UpForSeconds            *prometheus.Desc
	WindowsCrawled          *prometheus.Desc
	PagesFetched            *prometheus.Desc
	OpportunitiesDiscovered *prometheus.Desc
	DuplicatesSkipped       *prometheus.Desc
	OldestWindowStart       *prometheus.Desc
	ContractsAdded          *prometheus.Desc
	ContractsSkipped        *prometheus.Desc
	ContractorsCreated      *prometheus.Desc
	ContractorsReused       *prometheus.Desc

	AverageContractsSavedPerMinute *prometheus.Desc
	WorkerQueueFillFactor          *prometheus.Desc

	PagesExhausted     *prometheus.Desc
	PermissionErrors   *prometheus.Desc
	MalformedDocuments *prometheus.Desc
	ProcessingErrors   *prometheus.Desc
	DbGraphInsert      *prometheus.Desc
}

func NewCollector() *Collector {
	labels := prometheus.Labels{
		"app": "samsync",
	}

	return &Collector{
		StartTimestamp:          prometheus.NewDesc("start_timestamp", "", nil, labels),
		UpForSeconds:            prometheus.NewDesc("up_for_seconds", "", nil, labels),
		WindowsCrawled:          prometheus.NewDesc("windows_crawled", "", nil, labels),
		PagesFetched:            prometheus.NewDesc("pages_fetched", "", nil, labels),
		OpportunitiesDiscovered: prometheus.NewDesc("opportunities_discovered", "", nil, labels),
		DuplicatesSkipped:       prometheus.NewDesc("duplicates_skipped", "", nil, labels),
		OldestWindowStart:       prometheus.NewDesc("oldest_window_start", "", nil, labels),
		ContractsAdded:          prometheus.NewDesc("contracts_added", "", nil, labels),
		ContractsSkipped:        prometheus.NewDesc("contracts_skipped", "", nil, labels),
		ContractorsCreated:      prometheus.NewDesc("contractors_created", "", nil, labels),
		ContractorsReused:       prometheus.NewDesc("contractors_reused", "", nil, labels),

		AverageContractsSavedPerMinute: prometheus.NewDesc("average_contracts_saved_per_minute", "", nil, labels),
		WorkerQueueFillFactor:          prometheus.NewDesc("worker_queue_fill", "", nil, labels),

		// Errors
		PagesExhausted:     prometheus.NewDesc("error_pages_exhausted", "", nil, labels),
		PermissionErrors:   prometheus.NewDesc("error_permission", "", nil, labels),
		MalformedDocuments: prometheus.NewDesc("error_malformed_document", "", nil, labels),
		ProcessingErrors:   prometheus.NewDesc("error_processing", "", nil, labels),
		DbGraphInsert:      prometheus.NewDesc("error_db_graph_insert", "", nil, labels),
	}
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m
	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- self.StartTimestamp
	ch <- self.UpForSeconds
	ch <- self.WindowsCrawled
	ch <- self.PagesFetched
	ch <- self.OpportunitiesDiscovered
	ch <- self.DuplicatesSkipped
	ch <- self.OldestWindowStart
	ch <- self.ContractsAdded
	ch <- self.ContractsSkipped
	ch <- self.ContractorsCreated
	ch <- self.ContractorsReused
	ch <- self.AverageContractsSavedPerMinute
	ch <- self.WorkerQueueFillFactor

	// Errors
	ch <- self.PagesExhausted
	ch <- self.PermissionErrors
	ch <- self.MalformedDocuments
	ch <- self.ProcessingErrors
	ch <- self.DbGraphInsert
}

// Collect implements required collect function for all prometheus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	state := &self.monitor.Report.Syncer.State
	errors := &self.monitor.Report.Syncer.Errors

	ch <- prometheus.MustNewConstMetric(self.StartTimestamp, prometheus.GaugeValue, float64(self.monitor.Report.Run.State.StartTimestamp.Load()))
	ch <- prometheus.MustNewConstMetric(self.UpForSeconds, prometheus.GaugeValue, float64(self.monitor.Report.Run.State.UpForSeconds.Load()))
	ch <- prometheus.MustNewConstMetric(self.WindowsCrawled, prometheus.CounterValue, float64(state.WindowsCrawled.Load()))
	ch <- prometheus.MustNewConstMetric(self.PagesFetched, prometheus.CounterValue, float64(state.PagesFetched.Load()))
	ch <- prometheus.MustNewConstMetric(self.OpportunitiesDiscovered, prometheus.CounterValue, float64(state.OpportunitiesDiscovered.Load()))
	ch <- prometheus.MustNewConstMetric(self.DuplicatesSkipped, prometheus.CounterValue, float64(state.DuplicatesSkipped.Load()))
	ch <- prometheus.MustNewConstMetric(self.OldestWindowStart, prometheus.GaugeValue, float64(state.OldestWindowStart.Load()))
	ch <- prometheus.MustNewConstMetric(self.ContractsAdded, prometheus.CounterValue, float64(state.ContractsAdded.Load()))
	ch <- prometheus.MustNewConstMetric(self.ContractsSkipped, prometheus.CounterValue, float64(state.ContractsSkipped.Load()))
	ch <- prometheus.MustNewConstMetric(self.ContractorsCreated, prometheus.CounterValue, float64(state.ContractorsCreated.Load()))
	ch <- prometheus.MustNewConstMetric(self.ContractorsReused, prometheus.CounterValue, float64(state.ContractorsReused.Load()))
	ch <- prometheus.MustNewConstMetric(self.AverageContractsSavedPerMinute, prometheus.GaugeValue, state.AverageContractsSavedPerMinute.Load())
	ch <- prometheus.MustNewConstMetric(self.WorkerQueueFillFactor, prometheus.GaugeValue, state.WorkerQueueFillFactor.Load())

	// Errors
	ch <- prometheus.MustNewConstMetric(self.PagesExhausted, prometheus.CounterValue, float64(errors.PagesExhausted.Load()))
	ch <- prometheus.MustNewConstMetric(self.PermissionErrors, prometheus.CounterValue, float64(errors.PermissionErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.MalformedDocuments, prometheus.CounterValue, float64(errors.MalformedDocuments.Load()))
	ch <- prometheus.MustNewConstMetric(self.ProcessingErrors, prometheus.CounterValue, float64(errors.ProcessingErrors.Load()))
	ch <- prometheus.MustNewConstMetric(self.DbGraphInsert, prometheus.CounterValue, float64(errors.DbGraphInsert.Load()))
}
