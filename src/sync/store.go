package sync

import (
	"context"
	"errors"
	"time"

	"github.com/openprocure/samsync/src/utils/logger"
	"github.com/openprocure/samsync/src/utils/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Contract with this opportunity id is already stored.
// Not a failure, the unit of work is counted as skipped.
var ErrAlreadyExists = errors.New("contract already exists")

// Gorm backed Repository implementation
type Store struct {
	db  *gorm.DB
	log *logrus.Entry
}

func NewStore(db *gorm.DB) (self *Store) {
	self = new(Store)
	self.db = db
	self.log = logger.NewSublogger("store")
	return
}

func (self *Store) ContractExists(ctx context.Context, opportunityID string) (exists bool, err error) {
	var count int64
	err = self.db.WithContext(ctx).
		Table(model.TableContract).
		Where("opportunity_id = ?", opportunityID).
		Count(&count).
		Error
	if err != nil {
		return
	}
	return count > 0, nil
}

func (self *Store) FindContractor(ctx context.Context, uniqueEntityID string) (out *model.Contractor, err error) {
	var contractor model.Contractor
	err = self.db.WithContext(ctx).
		Where("unique_entity_id = ?", uniqueEntityID).
		First(&contractor).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return
	}
	return &contractor, nil
}

// Inserts the contractor unless a row with the same unique entity id
// appeared in the meantime. Upon conflict the existing row is fetched and
// returned, so concurrent workers always converge on one row.
func (self *Store) CreateContractor(ctx context.Context, contractor *model.Contractor) (out *model.Contractor, err error) {
	err = self.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "unique_entity_id"}},
			DoNothing: true,
		}).
		Create(contractor).
		Error
	if err != nil {
		return
	}

	if contractor.ID != 0 {
		return contractor, nil
	}

	// Lost the race, another worker created the row first
	return self.FindContractor(ctx, contractor.UniqueEntityID)
}

// Inserts the contract together with its links and contacts as one
// transaction. Nothing of the graph becomes visible unless all of it does.
func (self *Store) InsertContractGraph(ctx context.Context, contract *model.Contract, contractorID *uint, links []model.Link, contacts []model.PointOfContact) (err error) {
	return self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		contract.ContractorID = contractorID

		err = tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "opportunity_id"}},
				DoNothing: true,
			}).
			Create(contract).
			Error
		if err != nil {
			return
		}

		if contract.ID == 0 {
			// Processed concurrently by another run
			return ErrAlreadyExists
		}

		for i := range links {
			links[i].ContractID = contract.ID
		}
		if len(links) > 0 {
			err = tx.Create(&links).Error
			if err != nil {
				return
			}
		}

		for i := range contacts {
			contacts[i].ContractID = contract.ID
		}
		if len(contacts) > 0 {
			err = tx.Create(&contacts).Error
			if err != nil {
				return
			}
		}

		return nil
	})
}

// Modified date of the oldest stored contract, nil when the store is empty.
// Successive runs use it to extend coverage backward.
func (self *Store) OldestContractModifiedDate(ctx context.Context) (out *time.Time, err error) {
	var contract model.Contract
	err = self.db.WithContext(ctx).
		Where("modified_date IS NOT NULL").
		Order("modified_date ASC").
		First(&contract).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return
	}
	return contract.ModifiedDate, nil
}
