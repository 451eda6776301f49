package controllers

import (
	"MediCareHMS/middleware"
	"MediCareHMS/role"
	"MediCareHMS/services"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	Service *services.PatientService
}

func Patient(api *gin.RouterGroup, authenticate gin.HandlerFunc, svc *services.PatientService) {
	ctl := &PatientController{Service: svc}
	patients := api.Group("/patients", authenticate)
	{
		patients.GET("", middleware.Authorize(role.Admin, role.Doctor), ctl.List)
		patients.GET("/profile/me", middleware.Authorize(role.Patient), ctl.Me)
		patients.GET("/:id", ctl.Get)
		patients.PATCH("/:id", middleware.Authorize(role.Admin, role.Patient), ctl.Update)
		patients.DELETE("/:id", middleware.Authorize(role.Admin), ctl.Delete)
	}
}

func (ctl *PatientController) List(c *gin.Context) {
	list, err := ctl.Service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "patients", list)
}

func (ctl *PatientController) Me(c *gin.Context) {
	p, err := ctl.Service.Me(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "patient", p)
}

func (ctl *PatientController) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	p, err := ctl.Service.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "patient", p)
}

func (ctl *PatientController) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in services.PatientUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p, err := ctl.Service.Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "patient", p)
}

func (ctl *PatientController) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.Service.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "deleted", id.Hex())
}
