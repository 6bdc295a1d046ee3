package model

import (
	"time"

	"github.com/jackc/pgtype"
)

const TableContract = "contracts"

// One row per SAM.gov opportunity. Rows are only ever inserted by the
// pipeline, never updated or deleted. The lifecycle flags are reported by the
// upstream API and stored as-is.
type Contract struct {
	ID                 uint   `gorm:"primaryKey"`
	OpportunityID      string `gorm:"uniqueIndex:idx_contracts_opportunity_id"`
	SolicitationNumber string `gorm:"index:idx_contracts_solicitation_number"`
	Title              string
	Description        string
	NaicsCode          string
	OrganizationID     string

	AwardDate   *time.Time
	AwardNumber string
	AwardAmount *float64

	Archived  bool `gorm:"default:false"`
	Cancelled bool `gorm:"default:false"`
	Deleted   bool `gorm:"default:false"`

	ModifiedDate *time.Time `gorm:"index:idx_contracts_modified_date"`

	// Full detail envelope kept verbatim for forward compatibility
	RawData pgtype.JSONB `gorm:"type:jsonb"`

	ContractorID *uint
	Contractor   *Contractor

	Links           []Link           `gorm:"constraint:OnDelete:CASCADE"`
	PointsOfContact []PointOfContact `gorm:"constraint:OnDelete:CASCADE"`
}

func (Contract) TableName() string {
	return TableContract
}
