package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigflow/gigflow-backend/internal/dto"
	"github.com/gigflow/gigflow-backend/internal/http/handlers/common"
	"github.com/gigflow/gigflow-backend/internal/http/middleware"
	"github.com/gigflow/gigflow-backend/internal/service"
)

// AuthHandler отвечает за регистрацию и вход.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler создаёт новый хэндлер.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register обрабатывает POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	h.setTokenCookie(c, result.TokenPair)
	common.RespondJSON(c, http.StatusCreated, dto.AuthResponse{
		User:      result.User,
		TokenPair: result.TokenPair,
	})
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	h.setTokenCookie(c, result.TokenPair)
	common.RespondJSON(c, http.StatusOK, dto.AuthResponse{
		User:      result.User,
		TokenPair: result.TokenPair,
	})
}

// Refresh обрабатывает POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	h.setTokenCookie(c, result.TokenPair)
	common.RespondJSON(c, http.StatusOK, dto.AuthResponse{
		User:      result.User,
		TokenPair: result.TokenPair,
	})
}

// Logout обрабатывает POST /api/auth/logout: сбрасывает cookie с токеном.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
	common.RespondJSON(c, http.StatusOK, dto.SuccessResponse{Message: "выход выполнен"})
}

// setTokenCookie кладёт access токен в httpOnly cookie.
// Заголовок Authorization остаётся запасным способом передачи токена.
func (h *AuthHandler) setTokenCookie(c *gin.Context, pair *service.TokenPair) {
	c.SetCookie(
		middleware.AccessTokenCookie,
		pair.AccessToken,
		int(pair.ExpiresIn.Seconds()),
		"/",
		"",
		false,
		true,
	)
}
