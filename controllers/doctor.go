package controllers

import (
	"net/http"

	"MediCareHMS/middleware"
	"MediCareHMS/repository"
	"MediCareHMS/role"
	"MediCareHMS/services"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
)

type DoctorController struct {
	Service *services.DoctorService
}

func Doctor(api *gin.RouterGroup, authenticate gin.HandlerFunc, svc *services.DoctorService) {
	ctl := &DoctorController{Service: svc}
	doctors := api.Group("/doctors")
	{
		doctors.GET("", ctl.List)
		doctors.GET("/profile/me", authenticate, middleware.Authorize(role.Doctor), ctl.Me)
		doctors.GET("/:id", ctl.Get)
		doctors.POST("", authenticate, middleware.Authorize(role.Admin), ctl.Create)
		doctors.PATCH("/:id", authenticate, middleware.Authorize(role.Admin, role.Doctor), ctl.Update)
		doctors.DELETE("/:id", authenticate, middleware.Authorize(role.Admin), ctl.Delete)
	}
}

func (ctl *DoctorController) List(c *gin.Context) {
	list, err := ctl.Service.List(c.Request.Context(), repository.DoctorFilter{
		Specialization: c.Query("specialization"),
		Department:     c.Query("department"),
	})
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "doctors", list)
}

func (ctl *DoctorController) Me(c *gin.Context) {
	d, err := ctl.Service.Me(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "doctor", d)
}

func (ctl *DoctorController) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	d, err := ctl.Service.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "doctor", d)
}

func (ctl *DoctorController) Create(c *gin.Context) {
	var in services.CreateDoctorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	d, err := ctl.Service.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(gin.H{"doctor": d}))
}

func (ctl *DoctorController) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in services.DoctorUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	d, err := ctl.Service.Update(c.Request.Context(), actor(c), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "doctor", d)
}

func (ctl *DoctorController) Delete(c *gin.Context) {
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
