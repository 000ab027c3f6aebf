package services

import (
	"testing"
	"time"

	"github.com/realty-marketplace/backend/models"
	"github.com/stretchr/testify/require"
)

func TestSortByPriority(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	inquiries := []models.Inquiry{
		{Status: models.InquiryStatusClosed, CreatedAt: base.Add(5 * time.Hour)},
		{Status: models.InquiryStatusContacted, CreatedAt: base.Add(4 * time.Hour)},
		{Status: models.InquiryStatusNew, CreatedAt: base.Add(1 * time.Hour)},
		{Status: models.InquiryStatusFollowUp, CreatedAt: base.Add(3 * time.Hour)},
		{Status: models.InquiryStatusNew, CreatedAt: base.Add(2 * time.Hour)},
	}

	sortByPriority(inquiries)

	statuses := make([]string, len(inquiries))
	for i, inq := range inquiries {
		statuses[i] = inq.Status
	}
	require.Equal(t, []string{
		models.InquiryStatusNew,
		models.InquiryStatusNew,
		models.InquiryStatusFollowUp,
		models.InquiryStatusContacted,
		models.InquiryStatusClosed,
	}, statuses)

	// Within the same status the newest comes first.
	require.True(t, inquiries[0].CreatedAt.After(inquiries[1].CreatedAt))
}
