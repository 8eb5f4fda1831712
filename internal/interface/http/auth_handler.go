package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/internal/application"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/response"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type signupRequest struct {
	Email    string `json:"email" binding:"required,trimmedemail"`
	Password string `json:"password" binding:"required,pwd"`
}

// Login only checks presence so accounts created under older password rules can still sign in.
type loginRequest struct {
	Email    string `json:"email" binding:"required,trimmedemail"`
	Password string `json:"password" binding:"required"`
}

type userSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type signupResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type loginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        userSummary `json:"user"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.Logger, err, "register user")
		return
	}
	response.JSON(c, http.StatusCreated, signupResponse{
		Message: "Registration successful",
		User:    userSummary{ID: u.ID, Email: u.Email},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.Logger, err, "log in")
		return
	}
	response.JSON(c, http.StatusOK, loginResponse{
		AccessToken: res.AccessToken,
		ExpiresAt:   res.ExpiresAt.UTC(),
		User:        userSummary{ID: res.User.ID, Email: res.User.Email},
	})
}
