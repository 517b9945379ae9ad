package handlers

import (
	"errors"
	"net/http"

	"library_api/internal/service"

	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Username      string `json:"username" binding:"required" example:"mluukkai"`
	Password      string `json:"password" binding:"required" example:"secret"`
	FavoriteGenre string `json:"favoriteGenre" binding:"required" example:"refactoring"`
}

type signInRequest struct {
	Username string `json:"username" binding:"required" example:"mluukkai"`
	Password string `json:"password" binding:"required" example:"secret"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Sign up
// @Description  Creates a user. Same rules as the addUser mutation.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      signUpRequest  true  "new user"
// @Success      200      {object}  map[string]string  "id, username"
// @Failure      400      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	u, err := h.services.AddUser(c.Request.Context(), service.NewUser{
		Username:      input.Username,
		Password:      input.Password,
		FavoriteGenre: input.FavoriteGenre,
	})
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			if h.log != nil {
				h.log.Infow("auth_sign_up_failed", "username", input.Username, "err", err)
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to create user", "auth_sign_up_error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": u.ID, "username": u.Username})
}

// @Summary      Sign in
// @Description  Returns a bearer token. Same rules as the login mutation.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      signInRequest  true  "credentials"
// @Success      200      {object}  map[string]string  "token"
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Failure      500      {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("auth_sign_in_failed", "username", input.Username)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to sign in", "auth_sign_in_error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
