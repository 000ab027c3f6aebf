package policy

import "github.com/realty-marketplace/backend/models"

func CanViewUser(actor *models.User, target *models.User) bool {
	return actor.ID == target.ID || actor.IsAdmin()
}

func CanUpdateProfile(actor *models.User, target *models.User) bool {
	return actor.ID == target.ID || actor.IsAdmin()
}

// Role changes and activation toggles are admin-only.
func CanUpdateRole(actor *models.User) bool {
	return actor.IsAdmin()
}

func CanToggleActive(actor *models.User) bool {
	return actor.IsAdmin()
}

func CanListUsers(actor *models.User) bool {
	return actor.IsAdmin()
}
