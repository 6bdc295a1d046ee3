package sync

import (
	"context"
	"time"

	"github.com/openprocure/samsync/src/utils/model"
	"github.com/openprocure/samsync/src/utils/samgov"
)

// Remote side of the pipeline. Implemented by samgov.Client,
// faked in tests.
type Catalog interface {
	ListOpportunities(ctx context.Context, windowStart, windowEnd time.Time, page int) ([]samgov.OpportunitySummary, error)
	GetOpportunityDetails(ctx context.Context, id string) (*samgov.OpportunityDetails, error)
	GetOpportunityAttachments(ctx context.Context, id string) ([]samgov.AttachmentList, error)
}

// Persistence side of the pipeline. Implemented by Store over gorm,
// faked in tests. All uniqueness guarantees live behind this interface,
// backed by unique indexes plus insert-and-recover-on-conflict.
type Repository interface {
	ContractExists(ctx context.Context, opportunityID string) (bool, error)
	FindContractor(ctx context.Context, uniqueEntityID string) (*model.Contractor, error)
	CreateContractor(ctx context.Context, contractor *model.Contractor) (*model.Contractor, error)
	InsertContractGraph(ctx context.Context, contract *model.Contract, contractorID *uint, links []model.Link, contacts []model.PointOfContact) error
	OldestContractModifiedDate(ctx context.Context) (*time.Time, error)
}
