package models

import (
	"time"

	"github.com/google/uuid"
)

// Gig описывает размещённое задание с бюджетом.
type Gig struct {
	ID          uuid.UUID `db:"id" json:"id"`
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Budget      float64   `db:"budget" json:"budget"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// GigWithOwner дополняет гиг публичными данными владельца.
type GigWithOwner struct {
	Gig
	OwnerName  string `db:"owner_name" json:"owner_name"`
	OwnerEmail string `db:"owner_email" json:"owner_email"`
}

// Bid представляет отклик фрилансера на гиг.
type Bid struct {
	ID            uuid.UUID `db:"id" json:"id"`
	GigID         uuid.UUID `db:"gig_id" json:"gig_id"`
	FreelancerID  uuid.UUID `db:"freelancer_id" json:"freelancer_id"`
	Message       string    `db:"message" json:"message"`
	ProposedPrice float64   `db:"proposed_price" json:"proposed_price"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// BidWithFreelancer дополняет отклик публичными данными фрилансера.
type BidWithFreelancer struct {
	Bid
	FreelancerName  string `db:"freelancer_name" json:"freelancer_name"`
	FreelancerEmail string `db:"freelancer_email" json:"freelancer_email"`
}
