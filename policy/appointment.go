package policy

import "github.com/realty-marketplace/backend/models"

func CanViewAppointment(actor *models.User, appointment *models.Appointment) bool {
	return actor.ID == appointment.UserID ||
		actor.ID == appointment.AgentID ||
		actor.IsAdmin()
}

// Only clients book viewings; agents manage them from the other side.
func CanCreateAppointment(actor *models.User) bool {
	return actor.IsClient()
}

func CanUpdateAppointment(actor *models.User, appointment *models.Appointment) bool {
	return CanViewAppointment(actor, appointment)
}

func CanDeleteAppointment(actor *models.User, appointment *models.Appointment) bool {
	return CanViewAppointment(actor, appointment)
}

func CanConfirmAppointment(actor *models.User, appointment *models.Appointment) bool {
	return actor.ID == appointment.AgentID || actor.IsAdmin()
}

func CanCancelAppointment(actor *models.User, appointment *models.Appointment) bool {
	return CanUpdateAppointment(actor, appointment)
}

func CanCompleteAppointment(actor *models.User, appointment *models.Appointment) bool {
	return actor.ID == appointment.AgentID || actor.IsAdmin()
}
