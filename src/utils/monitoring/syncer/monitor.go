package monitor_syncer

import (
	"net/http"
	"time"

	"github.com/openprocure/samsync/src/utils/monitoring/report"
	"github.com/openprocure/samsync/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters
type Monitor struct {
	*task.Task

	Report report.Report

	historySize int

	collector *Collector

	// Contract saving speed
	contractCounts *deque.Deque[uint64]
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:    &report.RunReport{},
		Syncer: &report.SyncerReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(nil, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorContracts)
	return
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.historySize = maxHistorySize
	self.contractCounts = deque.New[uint64](self.historySize)
	return self
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

// Measure contract saving speed
func (self *Monitor) monitorContracts() (err error) {
	loaded := self.Report.Syncer.State.ContractsAdded.Load()
	if loaded == 0 {
		// Neglect the first 0
		return
	}

	self.contractCounts.PushBack(loaded)
	if self.contractCounts.Len() > self.historySize {
		self.contractCounts.PopFront()
	}
	value := float64(self.contractCounts.Back()-self.contractCounts.Front()) / float64(self.contractCounts.Len())
	self.Report.Syncer.State.AverageContractsSavedPerMinute.Store(value)
	return
}

func (self *Monitor) IsOK() bool {
	now := time.Now().Unix()
	if now-self.Report.Run.State.StartTimestamp.Load() < 300 {
		return true
	}

	// Up long enough, the crawl should have visited at least one window
	return self.Report.Syncer.State.WindowsCrawled.Load() > 0
}

func (self *Monitor) OnGetState(c *gin.Context) {
	self.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load()))

	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
