package controllers

import (
	"MediCareHMS/services"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Service *services.NotificationService
}

func Notification(api *gin.RouterGroup, authenticate gin.HandlerFunc, svc *services.NotificationService) {
	ctl := &NotificationController{Service: svc}
	notifications := api.Group("/notifications", authenticate)
	{
		notifications.GET("", ctl.List)
		notifications.PATCH("/read-all", ctl.MarkAllRead)
		notifications.PATCH("/:id/read", ctl.MarkRead)
		notifications.DELETE("/:id", ctl.Delete)
	}
}

func (ctl *NotificationController) List(c *gin.Context) {
	list, err := ctl.Service.List(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "notifications", list)
}

func (ctl *NotificationController) MarkRead(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.Service.MarkRead(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "read", id.Hex())
}

func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	n, err := ctl.Service.MarkAllRead(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, "updated", n)
}

func (ctl *NotificationController) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := ctl.Service.Delete(c.Request.Context(), actor(c), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, "deleted", id.Hex())
}
