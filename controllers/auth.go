package controllers

import (
	"net/http"

	"MediCareHMS/services"
	"MediCareHMS/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Service *services.AuthService
}

func Auth(api *gin.RouterGroup, authenticate gin.HandlerFunc, svc *services.AuthService) {
	ctl := &AuthController{Service: svc}
	auth := api.Group("/auth")
	{
		auth.POST("/signup", ctl.Signup)
		auth.POST("/patient/signup", ctl.PatientSignup)
		auth.POST("/login", ctl.Login)
		auth.GET("/availability", ctl.Availability)
		auth.GET("/me", authenticate, ctl.Me)
	}
}

func (ctl *AuthController) Signup(c *gin.Context) {
	var in services.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ctl.Service.Signup(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(res))
}

func (ctl *AuthController) PatientSignup(c *gin.Context) {
	var in services.PatientSignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ctl.Service.PatientSignup(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.SuccessResponse(res))
}

func (ctl *AuthController) Login(c *gin.Context) {
	var in services.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	res, err := ctl.Service.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(res))
}

func (ctl *AuthController) Me(c *gin.Context) {
	res, err := ctl.Service.Me(c.Request.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(res))
}

func (ctl *AuthController) Availability(c *gin.Context) {
	res, err := ctl.Service.Availability(c.Request.Context(), c.Query("username"), c.Query("email"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(res))
}
