package sync

import (
	"context"
	"sync"
	"time"

	"github.com/openprocure/samsync/src/utils/model"
	"github.com/openprocure/samsync/src/utils/samgov"
)

// In memory Catalog for pipeline tests
type fakeCatalog struct {
	mtx sync.Mutex

	listFn func(windowStart, windowEnd time.Time, page int) ([]samgov.OpportunitySummary, error)

	details     map[string]*samgov.OpportunityDetails
	detailsErr  map[string]error
	attachments map[string][]samgov.AttachmentList

	// Window starts in request order
	windows  []time.Time
	attempts int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		details:     make(map[string]*samgov.OpportunityDetails),
		detailsErr:  make(map[string]error),
		attachments: make(map[string][]samgov.AttachmentList),
	}
}

func (self *fakeCatalog) ListOpportunities(ctx context.Context, windowStart, windowEnd time.Time, page int) ([]samgov.OpportunitySummary, error) {
	self.mtx.Lock()
	self.attempts += 1
	if page == 0 {
		if len(self.windows) == 0 || !self.windows[len(self.windows)-1].Equal(windowStart) {
			self.windows = append(self.windows, windowStart)
		}
	}
	self.mtx.Unlock()
	return self.listFn(windowStart, windowEnd, page)
}

func (self *fakeCatalog) GetOpportunityDetails(ctx context.Context, id string) (*samgov.OpportunityDetails, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if err, ok := self.detailsErr[id]; ok {
		return nil, err
	}
	return self.details[id], nil
}

func (self *fakeCatalog) GetOpportunityAttachments(ctx context.Context, id string) ([]samgov.AttachmentList, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.attachments[id], nil
}

// In memory Repository for pipeline tests
type fakeRepository struct {
	mtx sync.Mutex

	oldest *time.Time

	contracts   map[string]*model.Contract
	contractors map[string]*model.Contractor
	links       map[string][]model.Link
	contacts    map[string][]model.PointOfContact

	// Returned by InsertContractGraph when set
	insertErr error

	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		contracts:   make(map[string]*model.Contract),
		contractors: make(map[string]*model.Contractor),
		links:       make(map[string][]model.Link),
		contacts:    make(map[string][]model.PointOfContact),
	}
}

func (self *fakeRepository) ContractExists(ctx context.Context, opportunityID string) (bool, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	_, ok := self.contracts[opportunityID]
	return ok, nil
}

func (self *fakeRepository) FindContractor(ctx context.Context, uniqueEntityID string) (*model.Contractor, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.contractors[uniqueEntityID], nil
}

func (self *fakeRepository) CreateContractor(ctx context.Context, contractor *model.Contractor) (*model.Contractor, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if existing, ok := self.contractors[contractor.UniqueEntityID]; ok {
		return existing, nil
	}
	self.nextID += 1
	contractor.ID = self.nextID
	self.contractors[contractor.UniqueEntityID] = contractor
	return contractor, nil
}

func (self *fakeRepository) InsertContractGraph(ctx context.Context, contract *model.Contract, contractorID *uint, links []model.Link, contacts []model.PointOfContact) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	if self.insertErr != nil {
		return self.insertErr
	}
	if _, ok := self.contracts[contract.OpportunityID]; ok {
		return ErrAlreadyExists
	}
	self.nextID += 1
	contract.ID = self.nextID
	contract.ContractorID = contractorID
	self.contracts[contract.OpportunityID] = contract
	self.links[contract.OpportunityID] = links
	self.contacts[contract.OpportunityID] = contacts
	return nil
}

func (self *fakeRepository) OldestContractModifiedDate(ctx context.Context) (*time.Time, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.oldest, nil
}
