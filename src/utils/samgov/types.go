package samgov

import "encoding/json"

// Search endpoint envelope. The embedded results key is required,
// its absence makes the whole page fetch an error.
type SearchEnvelope struct {
	Embedded *SearchEmbedded `json:"_embedded"`
}

type SearchEmbedded struct {
	Results []OpportunitySummary `json:"results"`
}

// One search hit. Only the external identifier is relied upon,
// the remaining fields are informational.
type OpportunitySummary struct {
	ID           string `json:"_id"`
	Title        string `json:"title"`
	ModifiedDate string `json:"modifiedDate"`
}

// Detail endpoint envelope.
// Data and Description are required at this level, the transform
// classifies their absence as a malformed document.
type OpportunityDetails struct {
	Data         *OpportunityData  `json:"data2"`
	Description  []DescriptionItem `json:"description"`
	Archived     bool              `json:"archived"`
	Cancelled    bool              `json:"cancelled"`
	Deleted      bool              `json:"deleted"`
	ModifiedDate string            `json:"modifiedDate"`

	// Response body kept verbatim
	Raw json.RawMessage `json:"-"`
}

type DescriptionItem struct {
	Body string `json:"body"`
}

type OpportunityData struct {
	Title              string           `json:"title"`
	SolicitationNumber string           `json:"solicitationNumber"`
	OrganizationID     string           `json:"organizationId"`
	Award              *Award           `json:"award"`
	Naics              []NaicsEntry     `json:"naics"`
	PointOfContact     []PointOfContact `json:"pointOfContact"`
}

type Award struct {
	Date   string `json:"date"`
	Number string `json:"number"`
	// Upstream sends either a number or a string, coerced by the transform
	Amount  interface{} `json:"amount"`
	Awardee *Awardee    `json:"awardee"`
}

type Awardee struct {
	UeiSAM string `json:"ueiSAM"`
	Name   string `json:"name"`
}

const NaicsTypePrimary = "primary"

type NaicsEntry struct {
	Type string   `json:"type"`
	Code []string `json:"code"`
}

type PointOfContact struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Type     string `json:"type"`
}

// Attachments endpoint envelope. A missing embedded key means
// the opportunity simply has no attachments.
type AttachmentsEnvelope struct {
	Embedded *AttachmentsEmbedded `json:"_embedded"`
}

type AttachmentsEmbedded struct {
	AttachmentLists []AttachmentList `json:"opportunityAttachmentList"`
}

type AttachmentList struct {
	Attachments []Attachment `json:"attachments"`
}

// Externally hosted attachments carry their address in the uri field,
// uploaded files are addressed by resource id instead.
const AttachmentTypeLink = "link"

type Attachment struct {
	Name         string `json:"name"`
	AttachmentID string `json:"attachmentId"`
	ResourceID   string `json:"resourceId"`
	MimeType     string `json:"mimeType"`
	Type         string `json:"type"`
	URI          string `json:"uri"`
}
