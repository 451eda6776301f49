package controllers

import (
	"net/http"

	"MediCareHMS/middleware"
	"MediCareHMS/role"
	"MediCareHMS/services"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
)

type CatalogController struct {
	Service *services.CatalogService
	key     string
}

type catalogInput struct {
	Name string `json:"name" binding:"required"`
}

// Catalog registers GET, POST and DELETE for one named list under /<path>.
// Responses key the list by path, e.g. data.specializations.
func Catalog(api *gin.RouterGroup, authenticate gin.HandlerFunc, path string, svc *services.CatalogService) {
	ctl := &CatalogController{Service: svc, key: path}
	group := api.Group("/" + path)
	{
		group.GET("", ctl.List)
		group.POST("", authenticate, middleware.Authorize(role.Admin), ctl.Create)
		group.DELETE("/:id", authenticate, middleware.Authorize(role.Admin), ctl.Delete)
	}
}

func (ctl *CatalogController) List(c *gin.Context) {
	items, err := ctl.Service.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, ctl.key, items)
}

func (ctl *CatalogController) Create(c *gin.Context) {
	var in catalogInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	item, err := ctl.Service.Create(c.Request.Context(), in.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(gin.H{"item": item}))
}

func (ctl *CatalogController) Delete(c *gin.Context) {
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
