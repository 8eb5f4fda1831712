package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/internal/application"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/internal/interface/middleware"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/response"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toUserView(u *entity.User) userView {
	return userView{ID: u.ID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

// Create registers a user and returns the stored record.
func (h *UserHandler) Create(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, h.Logger, err, "create user")
		return
	}
	response.JSON(c, http.StatusCreated, toUserView(u))
}

func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusNotFound, "User not found", nil)
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.Logger, err, "fetch user")
		return
	}
	response.JSON(c, http.StatusOK, toUserView(u))
}

func (h *UserHandler) Profile(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	response.JSON(c, http.StatusOK, toUserView(u))
}
