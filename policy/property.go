// Package policy holds the authorization predicates. Each predicate is a
// pure function over an explicit actor and resource; none of them touch the
// store or any ambient session state.
package policy

import "github.com/realty-marketplace/backend/models"

func CanViewProperty(actor *models.User, property *models.Property) bool {
	return true
}

func CanCreateProperty(actor *models.User) bool {
	return actor.IsAdmin() || actor.IsAgent()
}

func CanUpdateProperty(actor *models.User, property *models.Property) bool {
	return actor.IsAdmin() || (actor.IsAgent() && property.AgentID == actor.ID)
}

func CanDeleteProperty(actor *models.User, property *models.Property) bool {
	return CanUpdateProperty(actor, property)
}

func CanToggleFeatured(actor *models.User, property *models.Property) bool {
	return CanUpdateProperty(actor, property)
}
