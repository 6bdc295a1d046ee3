package samgov

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/openprocure/samsync/src/utils/config"
)

// Client for the unauthenticated SAM.gov production API.
type Client struct {
	*BaseClient
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.BaseClient = newBaseClient(config)
	return
}

// Formats a window boundary the way the search endpoint expects it:
// a calendar date with a fixed UTC offset suffix.
func (self *Client) formatWindowDate(t time.Time) string {
	return t.Format("2006-01-02") + self.config.Samgov.DateOffset
}

// Fetches one page of opportunities modified inside the given day window.
// Pages are zero-based, an empty result means there are no more pages.
// Transport and server side failures are retried once with identical
// arguments before the error is returned.
func (self *Client) ListOpportunities(ctx context.Context, windowStart, windowEnd time.Time, page int) (out []OpportunitySummary, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetQueryParams(map[string]string{
			"index":              "_all",
			"page":               strconv.Itoa(page),
			"mode":               "search",
			"sort":               "-modifiedDate",
			"size":               strconv.Itoa(self.config.Samgov.PageSize),
			"mfe":                "true",
			"q":                  "",
			"qMode":              "ALL",
			"modified_date.from": self.formatWindowDate(windowStart),
			"modified_date.to":   self.formatWindowDate(windowEnd),
		}).
		Get("/sgs/v1/search/")
	if err != nil {
		return
	}

	var envelope SearchEnvelope
	err = json.Unmarshal(resp.Body(), &envelope)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrFailedToParse, err)
		return
	}

	if envelope.Embedded == nil {
		// The envelope always carries the embedded key, even for empty
		// pages. Its absence means the response is not a search result.
		err = fmt.Errorf("%w: no embedded results", ErrMalformedResponse)
		return
	}

	out = envelope.Embedded.Results
	return
}

// Fetches the detail document of a single opportunity.
// 401 and 403 map to ErrPermissionDenied, see BaseClient.
func (self *Client) GetOpportunityDetails(ctx context.Context, id string) (out *OpportunityDetails, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetPathParam("id", id).
		Get("/opps/v2/opportunities/{id}")
	if err != nil {
		return
	}

	out = new(OpportunityDetails)
	err = json.Unmarshal(resp.Body(), out)
	if err != nil {
		out = nil
		err = fmt.Errorf("%w: %s", ErrFailedToParse, err)
		return
	}

	// Keep the payload verbatim for the raw_data column
	out.Raw = json.RawMessage(append([]byte(nil), resp.Body()...))
	return
}

// Fetches the attachment descriptors of a single opportunity.
// Opportunities without attachments answer without the embedded list,
// which is a normal empty result.
func (self *Client) GetOpportunityAttachments(ctx context.Context, id string) (out []AttachmentList, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetPathParam("id", id).
		SetQueryParams(map[string]string{
			"excludeDeleted": "false",
			"withScanResult": "false",
		}).
		Get("/opps/v3/opportunities/{id}/resources")
	if err != nil {
		return
	}

	var envelope AttachmentsEnvelope
	err = json.Unmarshal(resp.Body(), &envelope)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrFailedToParse, err)
		return
	}

	if envelope.Embedded == nil {
		// No attachments
		return nil, nil
	}

	return envelope.Embedded.AttachmentLists, nil
}

// Access URL of a stored attachment file
func DownloadURL(baseUrl, resourceID string) string {
	return fmt.Sprintf("%s/opps/v3/opportunities/resources/files/%s/download?&token=", baseUrl, resourceID)
}
