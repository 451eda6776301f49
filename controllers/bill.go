package controllers

import (
	"net/http"

	"MediCareHMS/middleware"
	"MediCareHMS/role"
	"MediCareHMS/services"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
)

type BillController struct {
	Service *services.BillService
}

func Bill(api *gin.RouterGroup, authenticate gin.HandlerFunc, svc *services.BillService) {
	ctl := &BillController{Service: svc}
	billing := api.Group("/billing", authenticate)
	{
		billing.POST("", middleware.Authorize(role.Admin), ctl.Create)
		billing.GET("", middleware.Authorize(role.Admin), ctl.List)
		billing.GET("/patient/:patientId", ctl.ListForPatient)
		billing.GET("/:id", ctl.Get)
		billing.GET("/:id/pdf", ctl.PDF)
		billing.PATCH("/:id/pay", middleware.Authorize(role.Admin, role.Patient), ctl.Pay)
	}
}

func (ctl *BillController) Create(c *gin.Context) {
	var in services.CreateBillInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b, err := ctl.Service.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(gin.H{"bill": b}))
}

func (ctl *BillController) List(c *gin.Context) {
	list, err := ctl.Service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "bills", list)
}

func (ctl *BillController) ListForPatient(c *gin.Context) {
	id, valid := pathID(c, "patientId")
	if !valid {
		return
	}
	list, err := ctl.Service.ListForPatient(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "bills", list)
}

func (ctl *BillController) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	b, err := ctl.Service.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "bill", b)
}

func (ctl *BillController) Pay(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in services.PayBillInput
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err)
			return
		}
	}
	b, err := ctl.Service.Pay(c.Request.Context(), actor(c), id, in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "bill", b)
}

func (ctl *BillController) PDF(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	data, name, err := ctl.Service.PDF(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
