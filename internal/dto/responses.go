package dto

import (
	"github.com/gigflow/gigflow-backend/internal/models"
	"github.com/gigflow/gigflow-backend/internal/service"
)

// ErrorResponse represents a standardized error payload
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standardized success payload
type SuccessResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse represents the result of register/login/refresh
type AuthResponse struct {
	User      *models.User       `json:"user"`
	TokenPair *service.TokenPair `json:"tokens"`
}

// GigListResponse represents a page of gigs
type GigListResponse struct {
	Count int                   `json:"count"`
	Data  []models.GigWithOwner `json:"data"`
}

// BidListResponse represents the bids of a gig, newest first
type BidListResponse struct {
	Count int                        `json:"count"`
	Data  []models.BidWithFreelancer `json:"data"`
}
