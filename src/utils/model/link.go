package model

const (
	TableLink = "links"

	// Attachment stored by SAM.gov, URL points at the download endpoint
	LinkTypeFile = "file"
	// External URI provided by the publisher, kept verbatim
	LinkTypeLink = "link"
)

type Link struct {
	ID         uint `gorm:"primaryKey"`
	ContractID uint `gorm:"index:idx_links_contract_id"`

	Name         string
	AttachmentID string
	ResourceID   string
	Extension    string
	Type         string

	// Resolved access URL, see transform rules
	URL string
}

func (Link) TableName() string {
	return TableLink
}
