package sync

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgtype"

	"github.com/openprocure/samsync/src/utils/config"
	"github.com/openprocure/samsync/src/utils/model"
	"github.com/openprocure/samsync/src/utils/samgov"
)

// Document misses the sections every opportunity is expected to carry.
// Counted and logged with the offending payload, never retried.
var ErrMalformedDocument = errors.New("malformed opportunity document")

const (
	// Upstream serializes modification timestamps with microsecond
	// precision and a numeric zone offset
	modifiedDateLayout = "2006-01-02T15:04:05.000000-07:00"
	awardDateLayout    = "2006-01-02"
)

// Maps raw opportunity documents onto database entities. Pure, safe for
// concurrent use from multiple workers.
type Transformer struct {
	samgovUrl string
}

func NewTransformer(config *config.Config) (self *Transformer) {
	self = new(Transformer)
	self.samgovUrl = config.Samgov.Url
	return
}

func (self *Transformer) Transform(opportunityID string, details *samgov.OpportunityDetails, attachments []samgov.AttachmentList) (contract *model.Contract, contractor *model.Contractor, links []model.Link, contacts []model.PointOfContact, err error) {
	if details.Data == nil || details.Description == nil {
		err = ErrMalformedDocument
		return
	}

	contract = &model.Contract{
		OpportunityID:      opportunityID,
		SolicitationNumber: details.Data.SolicitationNumber,
		Title:              details.Data.Title,
		OrganizationID:     details.Data.OrganizationID,
		NaicsCode:          primaryNaicsCode(details.Data.Naics),
		Archived:           details.Archived,
		Cancelled:          details.Cancelled,
		Deleted:            details.Deleted,
	}

	if len(details.Description) > 0 {
		contract.Description = details.Description[0].Body
	}

	contract.ModifiedDate, err = parseModifiedDate(details.ModifiedDate)
	if err != nil {
		return
	}

	if award := details.Data.Award; award != nil {
		contract.AwardNumber = award.Number
		contract.AwardDate = parseAwardDate(award.Date)
		contract.AwardAmount = parseAwardAmount(award.Amount)

		if award.Awardee != nil && award.Awardee.UeiSAM != "" {
			contractor = &model.Contractor{
				UniqueEntityID: award.Awardee.UeiSAM,
				Name:           award.Awardee.Name,
			}
		}
	}

	if details.Raw != nil {
		contract.RawData = pgtype.JSONB{Bytes: details.Raw, Status: pgtype.Present}
	} else {
		contract.RawData = pgtype.JSONB{Status: pgtype.Null}
	}

	links = self.transformAttachments(attachments)
	contacts = transformContacts(details.Data.PointOfContact)
	return
}

func (self *Transformer) transformAttachments(attachments []samgov.AttachmentList) (links []model.Link) {
	for _, list := range attachments {
		for _, attachment := range list.Attachments {
			link := model.Link{
				Name:         attachment.Name,
				AttachmentID: attachment.AttachmentID,
				ResourceID:   attachment.ResourceID,
				Extension:    attachment.MimeType,
			}

			switch attachment.Type {
			case samgov.AttachmentTypeLink:
				link.Type = model.LinkTypeLink
				link.URL = attachment.URI
			default:
				link.Type = model.LinkTypeFile
				link.URL = samgov.DownloadURL(self.samgovUrl, attachment.ResourceID)
			}

			links = append(links, link)
		}
	}
	return
}

func transformContacts(in []samgov.PointOfContact) (contacts []model.PointOfContact) {
	for _, contact := range in {
		contacts = append(contacts, model.PointOfContact{
			Name:        contact.FullName,
			Email:       contact.Email,
			Phone:       contact.Phone,
			ContactType: contact.Type,
		})
	}
	return
}

// First code of the first primary classification entry. No primary entry,
// or a primary entry with an empty code list, yields no code at all, later
// primary entries are never consulted.
func primaryNaicsCode(entries []samgov.NaicsEntry) string {
	for _, entry := range entries {
		if entry.Type != samgov.NaicsTypePrimary {
			continue
		}
		if len(entry.Code) > 0 {
			return entry.Code[0]
		}
		return ""
	}
	return ""
}

func parseModifiedDate(raw string) (out *time.Time, err error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(modifiedDateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse modified date %q: %w", raw, err)
	}
	return &parsed, nil
}

// Award dates come in several shapes, anything unparseable becomes null
func parseAwardDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(awardDateLayout, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// Amounts are numbers, numeric strings or free text. Only the first two
// produce a value, the rest becomes null.
func parseAwardAmount(raw interface{}) *float64 {
	switch v := raw.(type) {
	case float64:
		return &v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}
