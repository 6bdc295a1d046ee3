package sync

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/openprocure/samsync/src/utils/config"
	"github.com/openprocure/samsync/src/utils/model"
	"github.com/openprocure/samsync/src/utils/samgov"
)

func TestTransformTestSuite(t *testing.T) {
	suite.Run(t, new(TransformTestSuite))
}

type TransformTestSuite struct {
	suite.Suite
	config      *config.Config
	transformer *Transformer
}

func (s *TransformTestSuite) SetupSuite() {
	s.config = config.Default()
	s.transformer = NewTransformer(s.config)
}

func (s *TransformTestSuite) details() *samgov.OpportunityDetails {
	return &samgov.OpportunityDetails{
		Data: &samgov.OpportunityData{
			Title:              "Road maintenance",
			SolicitationNumber: "W912PL-23-R-0013",
			OrganizationID:     "100064747",
		},
		Description: []samgov.DescriptionItem{{Body: "Resurfacing of access roads"}},
	}
}

func (s *TransformTestSuite) TestMissingDataIsMalformed() {
	details := s.details()
	details.Data = nil

	_, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.ErrorIs(s.T(), err, ErrMalformedDocument)
}

func (s *TransformTestSuite) TestMissingDescriptionIsMalformed() {
	details := s.details()
	details.Description = nil

	_, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.ErrorIs(s.T(), err, ErrMalformedDocument)
}

func (s *TransformTestSuite) TestEmptyDescriptionIsAccepted() {
	details := s.details()
	details.Description = []samgov.DescriptionItem{}

	contract, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.Empty(s.T(), contract.Description)
}

func (s *TransformTestSuite) TestMinimalOpportunity() {
	contract, contractor, links, contacts, err := s.transformer.Transform("abc", s.details(), nil)
	require.NoError(s.T(), err)

	require.Equal(s.T(), "abc", contract.OpportunityID)
	require.Equal(s.T(), "Road maintenance", contract.Title)
	require.Equal(s.T(), "Resurfacing of access roads", contract.Description)
	require.Nil(s.T(), contract.AwardAmount)
	require.Nil(s.T(), contract.AwardDate)
	require.Nil(s.T(), contract.ModifiedDate)
	require.Nil(s.T(), contractor)
	require.Empty(s.T(), links)
	require.Empty(s.T(), contacts)
}

func (s *TransformTestSuite) TestAwardAmountCoercion() {
	cases := []struct {
		amount   interface{}
		expected *float64
	}{
		{float64(125000.50), f(125000.50)},
		{"125000.50", f(125000.50)},
		{"N/A", nil},
		{nil, nil},
	}

	for _, c := range cases {
		details := s.details()
		details.Data.Award = &samgov.Award{Amount: c.amount}

		contract, _, _, _, err := s.transformer.Transform("abc", details, nil)
		require.NoError(s.T(), err)
		if c.expected == nil {
			require.Nil(s.T(), contract.AwardAmount)
		} else {
			require.NotNil(s.T(), contract.AwardAmount)
			require.Equal(s.T(), *c.expected, *contract.AwardAmount)
		}
	}
}

func (s *TransformTestSuite) TestAwardee() {
	details := s.details()
	details.Data.Award = &samgov.Award{
		Date:   "2023-03-01",
		Number: "W912PL23C0001",
		Awardee: &samgov.Awardee{
			UeiSAM: "ABC123DEF456",
			Name:   "Acme Paving LLC",
		},
	}

	contract, contractor, _, _, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "W912PL23C0001", contract.AwardNumber)
	require.NotNil(s.T(), contract.AwardDate)
	require.Equal(s.T(), time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), contract.AwardDate.UTC())
	require.NotNil(s.T(), contractor)
	require.Equal(s.T(), "ABC123DEF456", contractor.UniqueEntityID)
	require.Equal(s.T(), "Acme Paving LLC", contractor.Name)
}

func (s *TransformTestSuite) TestAwardeeWithoutUeiIsSkipped() {
	details := s.details()
	details.Data.Award = &samgov.Award{
		Awardee: &samgov.Awardee{Name: "Acme Paving LLC"},
	}

	_, contractor, _, _, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.Nil(s.T(), contractor)
}

func (s *TransformTestSuite) TestPrimaryNaicsSelection() {
	details := s.details()
	details.Data.Naics = []samgov.NaicsEntry{
		{Type: "secondary", Code: []string{"111111"}},
		{Type: "primary", Code: []string{"237310", "237990"}},
	}

	contract, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), "237310", contract.NaicsCode)
}

func (s *TransformTestSuite) TestOnlyFirstPrimaryNaicsEntryCounts() {
	details := s.details()
	details.Data.Naics = []samgov.NaicsEntry{
		{Type: "primary", Code: []string{}},
		{Type: "primary", Code: []string{"237310"}},
	}

	contract, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.Empty(s.T(), contract.NaicsCode)
}

func (s *TransformTestSuite) TestNaicsWithoutPrimaryEntry() {
	details := s.details()
	details.Data.Naics = []samgov.NaicsEntry{
		{Type: "secondary", Code: []string{"111111"}},
		{Type: "primary", Code: []string{}},
	}

	contract, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.Empty(s.T(), contract.NaicsCode)
}

func (s *TransformTestSuite) TestModifiedDateParsing() {
	details := s.details()
	details.ModifiedDate = "2023-03-15T08:30:45.123456-07:00"

	contract, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.NotNil(s.T(), contract.ModifiedDate)
	require.Equal(s.T(),
		time.Date(2023, 3, 15, 15, 30, 45, 123456000, time.UTC),
		contract.ModifiedDate.UTC())
}

func (s *TransformTestSuite) TestUnparseableModifiedDateIsAnError() {
	details := s.details()
	details.ModifiedDate = "yesterday"

	_, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.Error(s.T(), err)
	require.NotErrorIs(s.T(), err, ErrMalformedDocument)
}

func (s *TransformTestSuite) TestAttachments() {
	attachments := []samgov.AttachmentList{
		{
			Attachments: []samgov.Attachment{
				{Name: "drawings.pdf", AttachmentID: "a1", ResourceID: "r1", MimeType: "application/pdf", Type: "file"},
				{Name: "vendor portal", AttachmentID: "a2", Type: "link", URI: "https://vendors.example.gov/rfp/13"},
			},
		},
	}

	_, _, links, _, err := s.transformer.Transform("abc", s.details(), attachments)
	require.NoError(s.T(), err)
	require.Len(s.T(), links, 2)

	require.Equal(s.T(), model.LinkTypeFile, links[0].Type)
	require.Equal(s.T(),
		s.config.Samgov.Url+"/opps/v3/opportunities/resources/files/r1/download?&token=",
		links[0].URL)

	require.Equal(s.T(), model.LinkTypeLink, links[1].Type)
	require.Equal(s.T(), "https://vendors.example.gov/rfp/13", links[1].URL)
}

func (s *TransformTestSuite) TestContactsRetained() {
	details := s.details()
	details.Data.PointOfContact = []samgov.PointOfContact{
		{FullName: "Jane Roe", Email: "jane.roe@example.gov", Phone: "555-0101", Type: "primary"},
		{FullName: "John Doe", Email: "john.doe@example.gov", Type: "secondary"},
	}

	_, _, _, contacts, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.Len(s.T(), contacts, 2)
	require.Equal(s.T(), "Jane Roe", contacts[0].Name)
	require.Equal(s.T(), "secondary", contacts[1].ContactType)
}

func (s *TransformTestSuite) TestRawPayloadKept() {
	details := s.details()
	details.Raw = json.RawMessage(`{"data2":{}}`)

	contract, _, _, _, err := s.transformer.Transform("abc", details, nil)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []byte(`{"data2":{}}`), contract.RawData.Bytes)
}

func f(v float64) *float64 {
	return &v
}
