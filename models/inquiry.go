package models

import (
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	InquiryStatusNew       = "new"
	InquiryStatusContacted = "contacted"
	InquiryStatusFollowUp  = "follow_up"
	InquiryStatusClosed    = "closed"
)

type Inquiry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PropertyID primitive.ObjectID `bson:"propertyId" json:"propertyId"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone,omitempty"`
	Message    string             `bson:"message" json:"message"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
	DeletedAt  *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// IsActive reports whether the inquiry is still open for agent action.
func (i *Inquiry) IsActive() bool {
	return i.Status != InquiryStatusClosed
}

// MarkAsContacted records that the agent reached out. Optional notes are
// appended to the message log.
func (i *Inquiry) MarkAsContacted(notes string) bool {
	if !i.IsActive() {
		return false
	}
	i.Status = InquiryStatusContacted
	i.appendMessage("Agent Notes", notes)
	return true
}

// MarkForFollowUp flags the inquiry for another touch.
func (i *Inquiry) MarkForFollowUp(reason string) bool {
	if !i.IsActive() {
		return false
	}
	i.Status = InquiryStatusFollowUp
	i.appendMessage("Follow-up Needed", reason)
	return true
}

// Close resolves the inquiry.
func (i *Inquiry) Close(resolution string) bool {
	if !i.IsActive() {
		return false
	}
	i.Status = InquiryStatusClosed
	i.appendMessage("Closed", resolution)
	return true
}

// Reopen returns a closed inquiry to the new queue.
func (i *Inquiry) Reopen() bool {
	if i.IsActive() {
		return false
	}
	i.Status = InquiryStatusNew
	return true
}

func (i *Inquiry) appendMessage(label, text string) {
	if text == "" {
		return
	}
	i.Message = i.Message + "\n\n" + label + ": " + text
}

// PriorityRank orders inquiry queues: new items first, then follow-ups,
// then contacted, closed last.
func (i *Inquiry) PriorityRank() int {
	switch i.Status {
	case InquiryStatusNew:
		return 1
	case InquiryStatusFollowUp:
		return 2
	case InquiryStatusContacted:
		return 3
	default:
		return 4
	}
}

// ValidateEmail is the persistence-time guard: a syntactically invalid
// contact address rejects the write entirely.
func (i *Inquiry) ValidateEmail() error {
	addr, err := mail.ParseAddress(i.Email)
	if err != nil || addr.Address != i.Email {
		return ErrInvalidEmail
	}
	return nil
}
