package models

// OfferStatus tracks a landlord's proposal through its lifecycle.
type OfferStatus string

const (
	OfferPending   OfferStatus = "PENDING"
	OfferAccepted  OfferStatus = "ACCEPTED"
	OfferPaid      OfferStatus = "PAID"
	OfferRejected  OfferStatus = "REJECTED"
	OfferCancelled OfferStatus = "CANCELLED"
)

// Terminal reports whether the offer can never re-enter the pipeline.
func (s OfferStatus) Terminal() bool {
	return s == OfferRejected || s == OfferCancelled
}

// NonTerminalOfferStatuses are the statuses that keep a rental request locked.
var NonTerminalOfferStatuses = []OfferStatus{OfferPending, OfferAccepted, OfferPaid}

type LeaseStatus string

const (
	LeaseActive     LeaseStatus = "ACTIVE"
	LeaseTerminated LeaseStatus = "TERMINATED"
	LeaseRenewed    LeaseStatus = "RENEWED"
)

type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "AVAILABLE"
	PropertyRented    PropertyStatus = "RENTED"
	PropertySuspended PropertyStatus = "SUSPENDED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

type PaymentPurpose string

const (
	PurposeRent    PaymentPurpose = "RENT"
	PurposeDeposit PaymentPurpose = "DEPOSIT"
)

type PoolStatus string

const (
	PoolActive    PoolStatus = "ACTIVE"
	PoolMatched   PoolStatus = "MATCHED"
	PoolCancelled PoolStatus = "CANCELLED"
)

type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "ACTIVE"
	ConversationArchived ConversationStatus = "ARCHIVED"
)

type AdminDecision string

const (
	DecisionApprove  AdminDecision = "APPROVE"
	DecisionAccepted AdminDecision = "ACCEPTED"
	DecisionReject   AdminDecision = "REJECT"
)

// ApproveEquivalentDecisions are the admin decisions that authorize a
// termination cascade. APPROVE and ACCEPTED both appear in stored data; they
// are matched as synonyms but never rewritten to one another.
var ApproveEquivalentDecisions = []AdminDecision{DecisionApprove, DecisionAccepted}

// ValidDecision reports whether d is a known admin decision literal.
func ValidDecision(d AdminDecision) bool {
	switch d {
	case DecisionApprove, DecisionAccepted, DecisionReject:
		return true
	}
	return false
}

// Payment gateway identifiers as stored on Payment records.
const (
	GatewayStripe = "STRIPE"
	GatewayPayU   = "PAYU"
	GatewayP24    = "P24"
	GatewayTpay   = "TPAY"
)

type UserRole string

const (
	RoleTenant   UserRole = "TENANT"
	RoleLandlord UserRole = "LANDLORD"
	RoleAdmin    UserRole = "ADMIN"
)
