package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/dmitrijs2005/diarify/internal/server/services"
	"github.com/gin-gonic/gin"
)

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signUpResponse struct {
	SignupID int64 `json:"signup_id"`
}

type profileResponse struct {
	User *models.User `json:"user"`
}

func (h *Handler) SignUp(c *gin.Context) {
	var req services.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.SignUp(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	success(c, http.StatusCreated, "User signed up successfully", signUpResponse{SignupID: user.ID})
}

func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := h.users.SignIn(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	success(c, http.StatusOK, "User signed in successfully", res)
}

func (h *Handler) SignOut(c *gin.Context) {
	userID, _ := UserID(c)
	if err := h.users.SignOut(c.Request.Context(), userID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, "User signed out successfully", nil)
}

func (h *Handler) Profile(c *gin.Context) {
	userID, _ := UserID(c)
	user, err := h.users.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, "Profile retrieved successfully", profileResponse{User: user})
}
