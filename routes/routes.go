package routes

import (
	"net/http"
	"time"

	"MediCareHMS/controllers"
	"MediCareHMS/db"
	"MediCareHMS/events"
	"MediCareHMS/middleware"
	"MediCareHMS/services"
	"MediCareHMS/token"

	"github.com/gin-gonic/gin"
)

// Services is everything the route table hands to controllers.
type Services struct {
	Tokens          *token.Manager
	Bus             events.Bus
	Auth            *services.AuthService
	Patients        *services.PatientService
	Doctors         *services.DoctorService
	Appointments    *services.AppointmentService
	Billing         *services.BillService
	Notifications   *services.NotificationService
	Specializations *services.CatalogService
	Departments     *services.CatalogService
	AllowedOrigins  []string
}

func Routes(r *gin.Engine, s Services) {
	api := r.Group("/api")
	api.GET("/health", Health)

	//public and private routes are split per controller
	authenticate := middleware.JWTAuth(s.Tokens)
	controllers.Auth(api, authenticate, s.Auth)
	controllers.Patient(api, authenticate, s.Patients)
	controllers.Doctor(api, authenticate, s.Doctors)
	controllers.Appointment(api, authenticate, s.Appointments, s.Doctors, controllers.NewStream(s.Bus, controllers.AllowOrigins(s.AllowedOrigins)))
	controllers.Bill(api, authenticate, s.Billing)
	controllers.Notification(api, authenticate, s.Notifications)
	controllers.Catalog(api, authenticate, db.SpecializationCollection, s.Specializations)
	controllers.Catalog(api, authenticate, db.DepartmentCollection, s.Departments)

	r.NoRoute(middleware.NotFound)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "Hospital Management API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
