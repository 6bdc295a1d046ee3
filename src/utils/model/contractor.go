package model

const TableContractor = "contractors"

// Awarded entity, shared between contracts.
// At most one row per SAM unique entity id, enforced by a unique index.
type Contractor struct {
	ID             uint   `gorm:"primaryKey"`
	UniqueEntityID string `gorm:"uniqueIndex:idx_contractors_unique_entity_id"`
	Name           string
	Address        string
}

func (Contractor) TableName() string {
	return TableContractor
}
