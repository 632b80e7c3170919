package handlers

import (
	"errors"
	"net/http"

	"ecostudy/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	msgUserCreated        = "User created"
	errInvalidCredentials = "Invalid credentials"
	errServer             = "Server error"
)

type signUpRequest struct {
	Name     string `json:"name" binding:"required" example:"Ada"`
	Email    string `json:"email" binding:"required" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required" example:"ada@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// @Summary      Register a student account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      signUpRequest  true  "account"
// @Success      201    {object}  map[string]string
// @Failure      400    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	err := h.services.SignUp(c.Request.Context(), input.Name, input.Email, input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": msgUserCreated})
	case errors.Is(err, service.ErrDuplicateEmail):
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "reason", "duplicate_email")
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "auth_sign_up_failed", err)
	}
}

// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input  body      loginRequest  true  "credentials"
// @Success      200    {object}  service.LoginResult
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case errors.Is(err, service.ErrInvalidCredentials):
		if h.log != nil {
			h.log.Infow("auth_login_failed", "client_ip", c.ClientIP())
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errServer, "auth_login_failed", err)
	}
}
