package sync

import (
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/openprocure/samsync/src/utils/config"
	"github.com/openprocure/samsync/src/utils/monitoring"
	"github.com/openprocure/samsync/src/utils/samgov"
	"github.com/openprocure/samsync/src/utils/task"
)

type pageOutcome int

const (
	// Page returned at least one result, crawl moves to the next page
	pageData pageOutcome = iota

	// Page came back empty, the window is fully covered
	pageEmpty

	// Page failed even after the retry, the window ends early
	pageExhausted
)

// Walks modification date windows backward one day at a time, paginates
// each window and emits every opportunity id at most once per run.
// Single goroutine, the deduplication set needs no locking.
type Crawler struct {
	*task.Task

	catalog Catalog
	store   Repository
	monitor monitoring.Monitor

	// Ids emitted during this run
	seen map[string]struct{}

	// Midnight aligned upper bound of the first window
	beginDate time.Time

	Output chan string
}

func NewCrawler(config *config.Config) (self *Crawler) {
	self = new(Crawler)

	self.seen = make(map[string]struct{})
	self.Output = make(chan string)

	self.Task = task.NewTask(config, "crawler").
		WithOnBeforeStart(self.initBeginDate).
		WithSubtaskFunc(self.run).
		WithOnAfterStop(func() {
			close(self.Output)
		})

	return
}

func (self *Crawler) WithCatalog(catalog Catalog) *Crawler {
	self.catalog = catalog
	return self
}

func (self *Crawler) WithStore(store Repository) *Crawler {
	self.store = store
	return self
}

func (self *Crawler) WithMonitor(monitor monitoring.Monitor) *Crawler {
	self.monitor = monitor
	return self
}

// New runs pick up where previous coverage ends: windows start at the
// oldest stored modification date, aligned down to midnight. An empty
// database starts from the present.
func (self *Crawler) initBeginDate() (err error) {
	oldest, err := self.store.OldestContractModifiedDate(self.Ctx)
	if err != nil {
		return
	}

	anchor := time.Now().UTC()
	if oldest != nil {
		anchor = oldest.UTC()
	}

	self.beginDate = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

func (self *Crawler) run() (err error) {
	runID := xid.New().String()
	log := self.Log.WithField("run_id", runID)

	log.WithField("begin_date", self.beginDate).
		WithField("horizon_days", self.Config.Syncer.CrawlHorizonDays).
		Info("Starting crawl")

	for day := 0; day < self.Config.Syncer.CrawlHorizonDays; day++ {
		if self.IsStopping.Load() {
			log.Info("Crawl interrupted")
			return nil
		}

		windowStart := self.beginDate.AddDate(0, 0, -day-1)
		windowEnd := windowStart.AddDate(0, 0, 1)

		err = self.crawlWindow(log, windowStart, windowEnd)
		if err != nil {
			// Stopped while dispatching
			return nil
		}

		self.monitor.GetReport().Syncer.State.WindowsCrawled.Inc()
		self.monitor.GetReport().Syncer.State.OldestWindowStart.Store(windowStart.Unix())
	}

	log.Info("Crawl finished, horizon reached")
	return nil
}

var errStopped = errors.New("task is stopping")

func (self *Crawler) crawlWindow(log *logrus.Entry, windowStart, windowEnd time.Time) (err error) {
	log = log.WithField("window_start", windowStart.Format("2006-01-02"))

	for page := 0; ; page++ {
		summaries, outcome := self.fetchPage(log, windowStart, windowEnd, page)

		switch outcome {
		case pageEmpty:
			return nil
		case pageExhausted:
			self.monitor.GetReport().Syncer.Errors.PagesExhausted.Inc()
			log.WithField("page", page).
				Warn("Page exhausted its retries, ending window early")
			return nil
		}

		self.monitor.GetReport().Syncer.State.PagesFetched.Inc()

		for _, summary := range summaries {
			if _, ok := self.seen[summary.ID]; ok {
				self.monitor.GetReport().Syncer.State.DuplicatesSkipped.Inc()
				continue
			}
			self.seen[summary.ID] = struct{}{}
			self.monitor.GetReport().Syncer.State.OpportunitiesDiscovered.Inc()

			select {
			case self.Output <- summary.ID:
			case <-self.StopChannel:
				return errStopped
			}
		}
	}
}

// One page fetch with a bounded number of attempts. Failures past the
// last attempt degrade to the exhausted outcome instead of an error, a
// flaky page never takes the whole crawl down.
// Attempts count whole page fetches as seen through Catalog. The HTTP
// client underneath retries transport and server errors once on its own,
// so one attempt here can mean two requests on the wire.
func (self *Crawler) fetchPage(log *logrus.Entry, windowStart, windowEnd time.Time, page int) (summaries []samgov.OpportunitySummary, outcome pageOutcome) {
	var err error
	for attempt := 1; attempt <= self.Config.Syncer.PageMaxAttempts; attempt++ {
		summaries, err = self.catalog.ListOpportunities(self.Ctx, windowStart, windowEnd, page)
		if err == nil {
			if len(summaries) == 0 {
				return nil, pageEmpty
			}
			return summaries, pageData
		}

		log.WithError(err).
			WithField("page", page).
			WithField("attempt", attempt).
			Warn("Failed to fetch search page")

		if attempt < self.Config.Syncer.PageMaxAttempts {
			select {
			case <-time.After(self.Config.Syncer.PageRetryInterval):
			case <-self.StopChannel:
				return nil, pageExhausted
			}
		}
	}
	return nil, pageExhausted
}
