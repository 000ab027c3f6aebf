package policy

import (
	"testing"

	"github.com/realty-marketplace/backend/models"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	adminUser  = &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	agentUser  = &models.User{ID: primitive.NewObjectID(), Role: models.RoleAgent}
	otherAgent = &models.User{ID: primitive.NewObjectID(), Role: models.RoleAgent}
	clientUser = &models.User{ID: primitive.NewObjectID(), Role: models.RoleClient}
)

func TestPropertyPolicy(t *testing.T) {
	property := &models.Property{ID: primitive.NewObjectID(), AgentID: agentUser.ID}

	assert.True(t, CanViewProperty(clientUser, property))
	assert.True(t, CanViewProperty(otherAgent, property))

	assert.True(t, CanCreateProperty(adminUser))
	assert.True(t, CanCreateProperty(agentUser))
	assert.False(t, CanCreateProperty(clientUser))

	assert.True(t, CanUpdateProperty(adminUser, property))
	assert.True(t, CanUpdateProperty(agentUser, property))
	assert.False(t, CanUpdateProperty(otherAgent, property))
	assert.False(t, CanUpdateProperty(clientUser, property))

	assert.Equal(t, CanUpdateProperty(agentUser, property), CanDeleteProperty(agentUser, property))
	assert.Equal(t, CanUpdateProperty(otherAgent, property), CanToggleFeatured(otherAgent, property))
}

func TestAppointmentPolicy(t *testing.T) {
	appointment := &models.Appointment{
		ID:      primitive.NewObjectID(),
		UserID:  clientUser.ID,
		AgentID: agentUser.ID,
	}

	assert.True(t, CanViewAppointment(clientUser, appointment))
	assert.True(t, CanViewAppointment(agentUser, appointment))
	assert.True(t, CanViewAppointment(adminUser, appointment))
	assert.False(t, CanViewAppointment(otherAgent, appointment))

	assert.True(t, CanCreateAppointment(clientUser))
	assert.False(t, CanCreateAppointment(agentUser))
	assert.False(t, CanCreateAppointment(adminUser))

	// Requester may cancel but not confirm or complete.
	assert.True(t, CanCancelAppointment(clientUser, appointment))
	assert.False(t, CanConfirmAppointment(clientUser, appointment))
	assert.False(t, CanCompleteAppointment(clientUser, appointment))

	assert.True(t, CanConfirmAppointment(agentUser, appointment))
	assert.True(t, CanConfirmAppointment(adminUser, appointment))
	assert.True(t, CanCompleteAppointment(agentUser, appointment))

	assert.True(t, CanDeleteAppointment(clientUser, appointment))
	assert.True(t, CanDeleteAppointment(agentUser, appointment))
	assert.False(t, CanDeleteAppointment(otherAgent, appointment))
}

func TestInquiryPolicy(t *testing.T) {
	property := &models.Property{ID: primitive.NewObjectID(), AgentID: agentUser.ID}

	assert.True(t, CanCreateInquiry())

	assert.True(t, CanManageInquiry(adminUser, property))
	assert.True(t, CanManageInquiry(agentUser, property))
	assert.False(t, CanManageInquiry(otherAgent, property))
	assert.False(t, CanManageInquiry(clientUser, property))

	assert.Equal(t, CanManageInquiry(agentUser, property), CanViewInquiry(agentUser, property))
}

func TestUserPolicy(t *testing.T) {
	assert.True(t, CanViewUser(clientUser, clientUser))
	assert.True(t, CanViewUser(adminUser, clientUser))
	assert.False(t, CanViewUser(clientUser, agentUser))

	assert.True(t, CanUpdateProfile(agentUser, agentUser))
	assert.True(t, CanUpdateProfile(adminUser, agentUser))
	assert.False(t, CanUpdateProfile(otherAgent, agentUser))

	assert.True(t, CanUpdateRole(adminUser))
	assert.False(t, CanUpdateRole(agentUser))
	assert.True(t, CanToggleActive(adminUser))
	assert.False(t, CanToggleActive(clientUser))
	assert.True(t, CanListUsers(adminUser))
	assert.False(t, CanListUsers(agentUser))
}
