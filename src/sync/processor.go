package sync

import (
	"errors"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/openprocure/samsync/src/utils/config"
	"github.com/openprocure/samsync/src/utils/model"
	"github.com/openprocure/samsync/src/utils/monitoring"
	"github.com/openprocure/samsync/src/utils/samgov"
	"github.com/openprocure/samsync/src/utils/task"
)

// Consumes opportunity ids from the crawler and runs each one through
// fetch, transform and insert on the worker pool. Every unit of work is
// independent, failures are counted and logged without stopping the run.
type Processor struct {
	*task.Task

	catalog     Catalog
	store       Repository
	monitor     monitoring.Monitor
	transformer *Transformer

	// Memoizes contractor ids by unique entity id, most awards within a
	// run cluster around the same awardees
	contractorCache *cache.Cache

	input <-chan string
}

func NewProcessor(config *config.Config) (self *Processor) {
	self = new(Processor)

	self.transformer = NewTransformer(config)
	self.contractorCache = cache.New(config.Syncer.ContractorCacheTTL, config.Syncer.ContractorCacheCleanup)

	self.Task = task.NewTask(config, "processor").
		WithSubtaskFunc(self.run).
		WithWorkerPool(config.Syncer.NumWorkers, config.Syncer.WorkerQueueSize)

	return
}

func (self *Processor) WithCatalog(catalog Catalog) *Processor {
	self.catalog = catalog
	return self
}

func (self *Processor) WithStore(store Repository) *Processor {
	self.store = store
	return self
}

func (self *Processor) WithMonitor(monitor monitoring.Monitor) *Processor {
	self.monitor = monitor
	return self
}

func (self *Processor) WithInputChannel(input <-chan string) *Processor {
	self.input = input
	return self
}

// Surfaces worker pool pressure on the monitor
func (self *Processor) reportQueueFill() {
	self.monitor.GetReport().Syncer.State.WorkerQueueFillFactor.Store(float64(self.GetWorkerQueueFillFactor()))
}

func (self *Processor) run() (err error) {
	for id := range self.input {
		id := id
		self.SubmitToWorker(func() {
			self.process(id)
		})
		self.reportQueueFill()
	}
	return nil
}

func (self *Processor) process(id string) {
	log := self.Log.WithField("opportunity_id", id)
	state := &self.monitor.GetReport().Syncer.State
	errorCounters := &self.monitor.GetReport().Syncer.Errors

	exists, err := self.store.ContractExists(self.Ctx, id)
	if err != nil {
		errorCounters.ProcessingErrors.Inc()
		log.WithError(err).Error("Failed to check contract existence")
		return
	}
	if exists {
		state.ContractsSkipped.Inc()
		return
	}

	details, err := self.catalog.GetOpportunityDetails(self.Ctx, id)
	if err != nil {
		self.countFetchError(log, err, "details")
		return
	}

	attachments, err := self.catalog.GetOpportunityAttachments(self.Ctx, id)
	if err != nil {
		self.countFetchError(log, err, "attachments")
		return
	}

	contract, contractorDraft, links, contacts, err := self.transformer.Transform(id, details, attachments)
	if errors.Is(err, ErrMalformedDocument) {
		errorCounters.MalformedDocuments.Inc()
		log.WithField("payload", string(details.Raw)).
			Error("Opportunity document is malformed")
		return
	}
	if err != nil {
		errorCounters.ProcessingErrors.Inc()
		log.WithError(err).Error("Failed to transform opportunity")
		return
	}

	var contractorID *uint
	if contractorDraft != nil {
		contractorID, err = self.resolveContractor(contractorDraft)
		if err != nil {
			errorCounters.ProcessingErrors.Inc()
			log.WithError(err).
				WithField("uei", contractorDraft.UniqueEntityID).
				Error("Failed to resolve contractor")
			return
		}
	}

	err = self.store.InsertContractGraph(self.Ctx, contract, contractorID, links, contacts)
	if errors.Is(err, ErrAlreadyExists) {
		state.ContractsSkipped.Inc()
		return
	}
	if err != nil {
		errorCounters.DbGraphInsert.Inc()
		log.WithError(err).Error("Failed to insert contract graph")
		return
	}

	added := state.ContractsAdded.Inc()
	if added%uint64(self.Config.Syncer.ProgressInterval) == 0 {
		self.Log.WithField("contracts_added", added).
			WithField("contracts_skipped", state.ContractsSkipped.Load()).
			WithField("contractors_created", state.ContractorsCreated.Load()).
			Info("Sync progress")
	}
}

// Permission errors are expected for a share of opportunities and only
// counted. Everything else is an operational failure.
func (self *Processor) countFetchError(log *logrus.Entry, err error, kind string) {
	errorCounters := &self.monitor.GetReport().Syncer.Errors
	if errors.Is(err, samgov.ErrPermissionDenied) {
		errorCounters.PermissionErrors.Inc()
		log.WithField("kind", kind).Debug("Opportunity is not accessible")
		return
	}
	errorCounters.ProcessingErrors.Inc()
	log.WithError(err).WithField("kind", kind).Error("Failed to fetch opportunity")
}

// Looks the contractor up in the cache, then the database, creating it
// when missing. Concurrent creations of the same contractor converge on
// one row inside the store.
func (self *Processor) resolveContractor(draft *model.Contractor) (id *uint, err error) {
	if cached, ok := self.contractorCache.Get(draft.UniqueEntityID); ok {
		contractorID := cached.(uint)
		self.monitor.GetReport().Syncer.State.ContractorsReused.Inc()
		return &contractorID, nil
	}

	existing, err := self.store.FindContractor(self.Ctx, draft.UniqueEntityID)
	if err != nil {
		return
	}

	if existing == nil {
		existing, err = self.store.CreateContractor(self.Ctx, draft)
		if err != nil {
			return
		}
		self.monitor.GetReport().Syncer.State.ContractorsCreated.Inc()
	} else {
		self.monitor.GetReport().Syncer.State.ContractorsReused.Inc()
	}

	self.contractorCache.Set(draft.UniqueEntityID, existing.ID, cache.DefaultExpiration)
	return &existing.ID, nil
}
