package controllers

import (
	"net/http"
	"strconv"
	"time"

	"MediCareHMS/apptime"
	"MediCareHMS/middleware"
	"MediCareHMS/models"
	"MediCareHMS/services"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterValidators adds the custom binding tags used by request types.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("appointment_status", func(fl validator.FieldLevel) bool {
		return models.ValidStatus(fl.Field().String())
	})
}

func actor(c *gin.Context) services.Actor {
	id, _ := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	return services.Actor{UserID: id, Role: c.GetString(middleware.CtxRole)}
}

func fail(c *gin.Context, err error) {
	status := util.StatusFor(err)
	body := util.FailedResponse(err)
	if status == http.StatusInternalServerError && c.GetBool(middleware.CtxExposeDetail) {
		body.Error = err.Error()
	}
	c.JSON(status, body)
}

// badRequest answers a body that could not be bound.
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, util.FailedMessage(err.Error()))
}

func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := services.ParseID(c.Param(name))
	if err != nil {
		fail(c, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

func ok(c *gin.Context, key string, value interface{}) {
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{key: value}))
}

// viewOptions reads ?limit= and ?tz= for the upcoming and recent views.
func viewOptions(c *gin.Context) (apptime.Options, error) {
	opts := apptime.Options{}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return opts, util.Validation("Invalid limit")
		}
		opts.Limit = apptime.Limit(n)
	}
	if tz := c.Query("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return opts, util.Validation("Invalid time zone")
		}
		opts.Location = loc
	}
	return opts, nil
}
