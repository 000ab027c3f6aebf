package routes

import (
	"net/http"

	"github.com/realty-marketplace/backend/controllers"
	"github.com/realty-marketplace/backend/middleware"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func Routes(router *mux.Router, client *mongo.Client, redisClient *redis.Client) {
	router.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Backend is connected"}`))
	}).Methods("GET")

	// Auth routes
	router.HandleFunc("/register", controllers.RegisterUser(client)).Methods("POST")
	router.HandleFunc("/login", controllers.LoginUser(client)).Methods("POST")

	// Public browse routes
	router.HandleFunc("/properties", controllers.GetAllProperties(redisClient)).Methods("GET")
	router.HandleFunc("/properties/featured", controllers.GetFeaturedProperties()).Methods("GET")
	router.HandleFunc("/properties/{id}", controllers.GetPropertyByID()).Methods("GET")

	// Visitor inquiries need no account
	router.HandleFunc("/properties/{id}/inquiry", controllers.CreateInquiry(client)).Methods("POST")

	// Routes that require authentication
	authenticated := router.PathPrefix("/api").Subrouter()
	authenticated.Use(middleware.AuthMiddleware)

	// Property routes
	authenticated.HandleFunc("/properties", controllers.CreateProperty(redisClient)).Methods("POST")
	authenticated.HandleFunc("/properties/{id}", controllers.UpdateProperty(redisClient)).Methods("PUT")
	authenticated.HandleFunc("/properties/{id}", controllers.DeleteProperty(redisClient)).Methods("DELETE")
	authenticated.HandleFunc("/properties/{id}/featured", controllers.ToggleFeatured(redisClient)).Methods("PUT")

	// Favorites routes
	authenticated.HandleFunc("/favorites", controllers.GetFavorites(client)).Methods("GET")
	authenticated.HandleFunc("/properties/{id}/favorite", controllers.ToggleFavorite(client)).Methods("POST")

	// Appointment routes. Static paths go before the {id} matcher.
	authenticated.HandleFunc("/appointments/available-slots", controllers.AvailableSlots(client)).Methods("GET")
	authenticated.HandleFunc("/appointments/statistics", controllers.AppointmentStatistics(client)).Methods("GET")
	authenticated.HandleFunc("/appointments", controllers.ListAppointments(client)).Methods("GET")
	authenticated.HandleFunc("/appointments", controllers.CreateAppointment(client)).Methods("POST")
	authenticated.HandleFunc("/appointments/{id}", controllers.GetAppointment(client)).Methods("GET")
	authenticated.HandleFunc("/appointments/{id}", controllers.UpdateAppointment(client)).Methods("PUT")
	authenticated.HandleFunc("/appointments/{id}", controllers.DeleteAppointment(client)).Methods("DELETE")
	authenticated.HandleFunc("/appointments/{id}/confirm", controllers.ConfirmAppointment(client)).Methods("POST")
	authenticated.HandleFunc("/appointments/{id}/cancel", controllers.CancelAppointment(client)).Methods("POST")
	authenticated.HandleFunc("/appointments/{id}/complete", controllers.CompleteAppointment(client)).Methods("POST")

	// Inquiry routes
	authenticated.HandleFunc("/inquiries/statistics", controllers.InquiryStatistics(client)).Methods("GET")
	authenticated.HandleFunc("/inquiries/recent", controllers.RecentInquiries(client)).Methods("GET")
	authenticated.HandleFunc("/inquiries", controllers.ListInquiries(client)).Methods("GET")
	authenticated.HandleFunc("/inquiries/{id}", controllers.UpdateInquiry(client)).Methods("PUT")
	authenticated.HandleFunc("/inquiries/{id}", controllers.DeleteInquiry(client)).Methods("DELETE")
	authenticated.HandleFunc("/inquiries/{id}/contact", controllers.MarkInquiryContacted(client)).Methods("POST")
	authenticated.HandleFunc("/inquiries/{id}/follow-up", controllers.MarkInquiryFollowUp(client)).Methods("POST")
	authenticated.HandleFunc("/inquiries/{id}/close", controllers.CloseInquiry(client)).Methods("POST")
	authenticated.HandleFunc("/inquiries/{id}/reopen", controllers.ReopenInquiry(client)).Methods("POST")

	// User management routes
	authenticated.HandleFunc("/users/agents", controllers.ListAgents(client)).Methods("GET")
	authenticated.HandleFunc("/users", controllers.ListUsers(client)).Methods("GET")
	authenticated.HandleFunc("/users/{id}", controllers.GetUser(client)).Methods("GET")
	authenticated.HandleFunc("/users/{id}/role", controllers.UpdateUserRole(client)).Methods("PUT")
	authenticated.HandleFunc("/users/{id}/toggle-active", controllers.ToggleUserActive(client)).Methods("PUT")
	authenticated.HandleFunc("/profile", controllers.UpdateProfile(client)).Methods("PUT")
	authenticated.HandleFunc("/profile/change-password", controllers.ChangePassword(client)).Methods("POST")
}
