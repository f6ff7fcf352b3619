package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
)

type UserController struct {
	Auth *services.AuthService
}

func NewUserController(auth *services.AuthService) *UserController {
	return &UserController{Auth: auth}
}

type signupRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=7,specialchar"`
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
}

// Signup creates an account; ?isAdmin=true makes it an admin, anything else false a waiter.
func (uc *UserController) Signup(c *gin.Context) {
	rawIsAdmin, ok := c.GetQuery("isAdmin")
	if !ok {
		utils.RespondError(c, utils.ValidationFailed(utils.FieldError{
			Field:   "isAdmin",
			Message: "The user role needs to be sent",
		}))
		return
	}
	isAdmin, err := strconv.ParseBool(rawIsAdmin)
	if err != nil {
		utils.RespondError(c, utils.ValidationFailed(utils.FieldError{
			Field:   "isAdmin",
			Message: "isAdmin must be a boolean",
			Value:   rawIsAdmin,
		}))
		return
	}

	var req signupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.Auth.Signup(c.Request.Context(), services.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		IsAdmin:     isAdmin,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "User has been created!", user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (uc *UserController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := uc.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.LoggerFrom(c).WithField("user_id", result.UserID).Info("user logged in")
	utils.RespondJSON(c, http.StatusOK, "Login successful", result)
}
