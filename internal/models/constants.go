package models

// GigStatus константы статусов гигов
const (
	GigStatusOpen      = "open"
	GigStatusAssigned  = "assigned"
	GigStatusCompleted = "completed"
	GigStatusCancelled = "cancelled"
)

// BidStatus константы статусов откликов
const (
	BidStatusPending   = "pending"
	BidStatusHired     = "hired"
	BidStatusRejected  = "rejected"
	BidStatusWithdrawn = "withdrawn"
)

// Роли пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidGigStatuses список валидных статусов гигов
var ValidGigStatuses = map[string]struct{}{
	GigStatusOpen:      {},
	GigStatusAssigned:  {},
	GigStatusCompleted: {},
	GigStatusCancelled: {},
}

// ValidBidStatuses список валидных статусов откликов
var ValidBidStatuses = map[string]struct{}{
	BidStatusPending:   {},
	BidStatusHired:     {},
	BidStatusRejected:  {},
	BidStatusWithdrawn: {},
}
