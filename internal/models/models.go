package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a marketplace account (tenant, landlord or admin)
type User struct {
	gorm.Model
	Email     string `gorm:"uniqueIndex"`
	FirstName string
	LastName  string
	Role      UserRole `gorm:"type:varchar(20)"`
}

// Property represents a physical unit offered by a landlord
type Property struct {
	gorm.Model
	LandlordID   uint
	Landlord     *User `gorm:"foreignKey:LandlordID"`
	Street       string
	City         string
	Country      string
	Status       PropertyStatus `gorm:"type:varchar(20)"`
	Availability bool
	MonthlyRent  float64 `gorm:"type:decimal(10,2)"`
	RoomCount    int
	Size         float64
	Description  string
}

// RentalRequest is a tenant-authored search listing that landlords make
// offers against. IsLocked is true exactly while a non-terminal offer is in
// flight, preventing a second concurrent offer from being accepted.
type RentalRequest struct {
	gorm.Model
	TenantID   uint
	Tenant     *User `gorm:"foreignKey:TenantID"`
	City       string
	Budget     float64 `gorm:"type:decimal(10,2)"`
	MoveInFrom time.Time
	PoolStatus PoolStatus  `gorm:"type:varchar(20)"`
	Status     OfferStatus `gorm:"type:varchar(20)"` // mirrors the owning offer
	IsLocked   bool
}

// Offer is a landlord's lease proposal against a RentalRequest
type Offer struct {
	gorm.Model
	RentalRequestID     uint
	RentalRequest       *RentalRequest `gorm:"foreignKey:RentalRequestID"`
	PropertyID          uint
	Property            *Property `gorm:"foreignKey:PropertyID"`
	TenantID            uint
	LandlordID          uint
	Status              OfferStatus `gorm:"type:varchar(20)"`
	IsPaid              bool
	PaymentDate         *time.Time
	LeaseStart          time.Time
	LeaseDurationMonths int
	MonthlyRent         float64 `gorm:"type:decimal(10,2)"`
	Deposit             float64 `gorm:"type:decimal(10,2)"`
}

// Lease is the materialized tenancy created once an Offer is paid
type Lease struct {
	gorm.Model
	OfferID    uint   `gorm:"uniqueIndex"`
	Offer      *Offer `gorm:"foreignKey:OfferID"`
	PropertyID uint
	Property   *Property `gorm:"foreignKey:PropertyID"`
	TenantID   uint
	Status     LeaseStatus `gorm:"type:varchar(20)"`
	StartDate  time.Time
	EndDate    time.Time
}

// Payment is a monetary transaction tied to an Offer
type Payment struct {
	gorm.Model
	OfferID              uint
	Offer                *Offer `gorm:"foreignKey:OfferID"`
	Status               PaymentStatus  `gorm:"type:varchar(20)"`
	Purpose              PaymentPurpose `gorm:"type:varchar(20)"`
	Amount               float64        `gorm:"type:decimal(10,2)"`
	Currency             string         `gorm:"type:varchar(3)"`
	Gateway              string         `gorm:"type:varchar(20)"`
	GatewayTransactionID string
	RefundReference      string
}

// Terminal reports whether the payment can no longer be refunded.
func (p *Payment) Terminal() bool {
	return p.Status == PaymentCancelled
}

// Conversation is a messaging thread scoped to a property and/or offer
type Conversation struct {
	gorm.Model
	PropertyID   uint
	OfferID      uint
	Status       ConversationStatus `gorm:"type:varchar(20)"`
	Participants []ConversationParticipant
}

type ConversationParticipant struct {
	gorm.Model
	ConversationID uint
	UserID         uint
	Role           UserRole `gorm:"type:varchar(20)"`
}

// MoveInIssue is a dispute raised against a Lease, adjudicated by an admin.
// An approve-equivalent decision authorizes the termination cascade.
type MoveInIssue struct {
	gorm.Model
	LeaseID       uint
	Lease         *Lease `gorm:"foreignKey:LeaseID"`
	RaisedByID    uint
	Description   string
	AdminDecision AdminDecision `gorm:"type:varchar(20)"`
	DecidedAt     *time.Time
}

// Notification is a persisted message to a marketplace user
type Notification struct {
	gorm.Model
	UserID  uint
	Kind    string `gorm:"type:varchar(40)"`
	Payload string
	LeaseID *uint
	ReadAt  *time.Time
}
