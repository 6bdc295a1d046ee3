package model

const TablePointOfContact = "points_of_contact"

// All contacts reported for an opportunity are retained together with their
// role tag, none of them is singled out as canonical.
type PointOfContact struct {
	ID         uint `gorm:"primaryKey"`
	ContractID uint `gorm:"index:idx_points_of_contact_contract_id"`

	Name        string
	Email       string
	Phone       string
	ContactType string
}

func (PointOfContact) TableName() string {
	return TablePointOfContact
}
