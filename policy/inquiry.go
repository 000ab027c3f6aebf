package policy

import "github.com/realty-marketplace/backend/models"

// Anyone may submit an inquiry, registered or not.
func CanCreateInquiry() bool {
	return true
}

// Inquiries are managed by the agent who owns the property they concern,
// or by an admin. The property is passed in because an inquiry carries no
// agent reference of its own.
func CanManageInquiry(actor *models.User, property *models.Property) bool {
	return actor.IsAdmin() || (actor.IsAgent() && property.AgentID == actor.ID)
}

func CanViewInquiry(actor *models.User, property *models.Property) bool {
	return CanManageInquiry(actor, property)
}
