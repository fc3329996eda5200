package dto

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request to refresh a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateGigRequest represents the request to create a gig
type CreateGigRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Budget      float64 `json:"budget" binding:"required"`
}

// CreateBidRequest represents the request to place a bid on a gig
type CreateBidRequest struct {
	GigID         string  `json:"gig_id" binding:"required,uuid"`
	Message       string  `json:"message" binding:"required"`
	ProposedPrice float64 `json:"proposed_price" binding:"required"`
}
