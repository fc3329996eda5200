package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gigflow/gigflow-backend/internal/dto"
	"github.com/gigflow/gigflow-backend/internal/http/handlers/common"
	"github.com/gigflow/gigflow-backend/internal/repository"
	"github.com/gigflow/gigflow-backend/internal/service"
)

// GigHandler отвечает за HTTP операции с гигами.
type GigHandler struct {
	gigs *service.GigService
}

// NewGigHandler создаёт новый хэндлер.
func NewGigHandler(gigs *service.GigService) *GigHandler {
	return &GigHandler{gigs: gigs}
}

// CreateGig обрабатывает POST /api/gigs.
func (h *GigHandler) CreateGig(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateGigRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gig, err := h.gigs.CreateGig(c.Request.Context(), service.CreateGigInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, gig)
}

// ListGigs обрабатывает GET /api/gigs?search=&status=.
// Без явного статуса возвращаются только открытые гиги.
func (h *GigHandler) ListGigs(c *gin.Context) {
	params := repository.ListFilterParams{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			params.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			params.Offset = offset
		}
	}

	gigs, err := h.gigs.ListGigs(c.Request.Context(), params)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.GigListResponse{
		Count: len(gigs),
		Data:  gigs,
	})
}

// GetGig обрабатывает GET /api/gigs/:id.
func (h *GigHandler) GetGig(c *gin.Context) {
	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gig, err := h.gigs.GetGig(c.Request.Context(), gigID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, gig)
}

// DeleteGig обрабатывает DELETE /api/gigs/:id. Владелец или администратор.
func (h *GigHandler) DeleteGig(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.gigs.DeleteGig(c.Request.Context(), gigID, userID, role); err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.SuccessResponse{Message: "гиг удалён"})
}
