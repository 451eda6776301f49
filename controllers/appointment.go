package controllers

import (
	"net/http"

	"MediCareHMS/middleware"
	"MediCareHMS/role"
	"MediCareHMS/services"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
)

type AppointmentController struct {
	Service *services.AppointmentService
	Doctors *services.DoctorService
}

func Appointment(api *gin.RouterGroup, authenticate gin.HandlerFunc, svc *services.AppointmentService, doctors *services.DoctorService, stream *Stream) {
	ctl := &AppointmentController{Service: svc, Doctors: doctors}
	appointments := api.Group("/appointments", authenticate)
	{
		appointments.POST("", middleware.Authorize(role.Patient, role.Admin), ctl.Book)
		appointments.GET("", middleware.Authorize(role.Admin, role.Doctor), ctl.List)
		appointments.GET("/my-appointments", middleware.Authorize(role.Patient), ctl.List)
		appointments.GET("/upcoming", ctl.Upcoming)
		appointments.GET("/recent", ctl.Recent)
		appointments.GET("/doctors/:department", ctl.DoctorsByDepartment)
		appointments.GET("/available-slots/:doctorId/:date", ctl.AvailableSlots)
		appointments.GET("/events", stream.Serve)
		appointments.GET("/:id", ctl.Get)
		appointments.PATCH("/:id", ctl.Update)
	}
}

func (ctl *AppointmentController) Book(c *gin.Context) {
	var in services.BookAppointmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	a, err := ctl.Service.Book(c.Request.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(gin.H{"appointment": a}))
}

func (ctl *AppointmentController) List(c *gin.Context) {
	list, err := ctl.Service.List(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "appointments", list)
}

func (ctl *AppointmentController) Upcoming(c *gin.Context) {
	opts, err := viewOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	list, err := ctl.Service.Upcoming(c.Request.Context(), actor(c), opts)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "appointments", list)
}

func (ctl *AppointmentController) Recent(c *gin.Context) {
	opts, err := viewOptions(c)
	if err != nil {
		fail(c, err)
		return
	}
	list, err := ctl.Service.Recent(c.Request.Context(), actor(c), opts)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "appointments", list)
}

func (ctl *AppointmentController) DoctorsByDepartment(c *gin.Context) {
	list, err := ctl.Doctors.ByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "doctors", list)
}

func (ctl *AppointmentController) AvailableSlots(c *gin.Context) {
	res, err := ctl.Service.AvailableSlots(c.Request.Context(), c.Param("doctorId"), c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(res))
}

func (ctl *AppointmentController) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	a, err := ctl.Service.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "appointment", a)
}

func (ctl *AppointmentController) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in services.AppointmentUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	a, err := ctl.Service.Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "appointment", a)
}
