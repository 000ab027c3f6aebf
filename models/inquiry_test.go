package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInquiry(status string) *Inquiry {
	return &Inquiry{
		Name:    "Jordan Smith",
		Email:   "jordan@example.com",
		Message: "Is the kitchen renovated?",
		Status:  status,
	}
}

func TestInquiryMarkAsContacted(t *testing.T) {
	inq := newInquiry(InquiryStatusNew)
	require.True(t, inq.MarkAsContacted("called on Tuesday"))
	assert.Equal(t, InquiryStatusContacted, inq.Status)
	assert.Equal(t, "Is the kitchen renovated?\n\nAgent Notes: called on Tuesday", inq.Message)

	closed := newInquiry(InquiryStatusClosed)
	assert.False(t, closed.MarkAsContacted("too late"))
	assert.Equal(t, "Is the kitchen renovated?", closed.Message)
}

func TestInquiryMarkForFollowUp(t *testing.T) {
	inq := newInquiry(InquiryStatusContacted)
	require.True(t, inq.MarkForFollowUp("needs pricing"))
	assert.Equal(t, InquiryStatusFollowUp, inq.Status)
	assert.Equal(t, "Is the kitchen renovated?\n\nFollow-up Needed: needs pricing", inq.Message)
}

func TestInquiryClose(t *testing.T) {
	inq := newInquiry(InquiryStatusFollowUp)
	require.True(t, inq.Close("went with another property"))
	assert.Equal(t, InquiryStatusClosed, inq.Status)
	assert.Equal(t, "Is the kitchen renovated?\n\nClosed: went with another property", inq.Message)

	assert.False(t, inq.Close("again"), "closing twice must fail")
}

func TestInquiryReopen(t *testing.T) {
	inq := newInquiry(InquiryStatusClosed)
	require.True(t, inq.Reopen())
	assert.Equal(t, InquiryStatusNew, inq.Status)

	for _, status := range []string{InquiryStatusNew, InquiryStatusContacted, InquiryStatusFollowUp} {
		open := newInquiry(status)
		assert.False(t, open.Reopen(), "reopen on %s must fail", status)
		assert.Equal(t, status, open.Status)
	}
}

// Lifecycle from the queue's point of view: follow-up, then close, then a
// refused follow-up on the closed inquiry.
func TestInquiryLifecycle(t *testing.T) {
	inq := newInquiry(InquiryStatusNew)

	require.True(t, inq.MarkForFollowUp("needs pricing"))
	assert.Equal(t, InquiryStatusFollowUp, inq.Status)
	assert.Contains(t, inq.Message, "Is the kitchen renovated?")
	assert.Contains(t, inq.Message, "Follow-up Needed: needs pricing")

	require.True(t, inq.Close(""))
	assert.False(t, inq.MarkForFollowUp("one more thing"))
	assert.Equal(t, InquiryStatusClosed, inq.Status)
}

func TestInquiryTransitionsWithoutText(t *testing.T) {
	inq := newInquiry(InquiryStatusNew)
	require.True(t, inq.MarkAsContacted(""))
	assert.Equal(t, "Is the kitchen renovated?", inq.Message, "empty text must not touch the message")
}

func TestInquiryValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"jordan@example.com", true},
		{"jordan.smith+homes@example.co.uk", true},
		{"not-an-email", false},
		{"", false},
		{"missing@domain @space.com", false},
		{"Jordan Smith <jordan@example.com>", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			inq := newInquiry(InquiryStatusNew)
			inq.Email = tt.email
			err := inq.ValidateEmail()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidEmail)
			}
		})
	}
}

func TestInquiryPriorityRank(t *testing.T) {
	assert.Equal(t, 1, newInquiry(InquiryStatusNew).PriorityRank())
	assert.Equal(t, 2, newInquiry(InquiryStatusFollowUp).PriorityRank())
	assert.Equal(t, 3, newInquiry(InquiryStatusContacted).PriorityRank())
	assert.Equal(t, 4, newInquiry(InquiryStatusClosed).PriorityRank())
}
