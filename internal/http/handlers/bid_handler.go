package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gigflow/gigflow-backend/internal/dto"
	"github.com/gigflow/gigflow-backend/internal/http/handlers/common"
	"github.com/gigflow/gigflow-backend/internal/service"
)

// BidHandler отвечает за HTTP операции с откликами.
type BidHandler struct {
	bids *service.BidService
}

// NewBidHandler создаёт новый хэндлер.
func NewBidHandler(bids *service.BidService) *BidHandler {
	return &BidHandler{bids: bids}
}

// CreateBid обрабатывает POST /api/bids.
func (h *BidHandler) CreateBid(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req dto.CreateBidRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	gigID, err := uuid.Parse(req.GigID)
	if err != nil {
		common.RespondBadRequest(c, "gig_id должен быть валидным UUID")
		return
	}

	bid, err := h.bids.SubmitBid(c.Request.Context(), service.SubmitBidInput{
		GigID:         gigID,
		FreelancerID:  userID,
		Message:       req.Message,
		ProposedPrice: req.ProposedPrice,
	})
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, bid)
}

// ListBids обрабатывает GET /api/bids/:gigId. Доступно только владельцу гига.
func (h *BidHandler) ListBids(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	gigID, err := common.ParseUUIDParam(c, "gigId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	bids, err := h.bids.ListBids(c.Request.Context(), gigID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.BidListResponse{
		Count: len(bids),
		Data:  bids,
	})
}

// HireBid обрабатывает PATCH /api/bids/:bidId/hire.
func (h *BidHandler) HireBid(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	bidID, err := common.ParseUUIDParam(c, "bidId")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	bid, err := h.bids.Hire(c.Request.Context(), bidID, userID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	common.RespondJSON(c, http.StatusOK, bid)
}
