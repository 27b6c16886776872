package models

var ModelTypeRegistry = map[string]interface{}{
	"User":                    User{},
	"Property":                Property{},
	"RentalRequest":           RentalRequest{},
	"Offer":                   Offer{},
	"Lease":                   Lease{},
	"Payment":                 Payment{},
	"Conversation":            Conversation{},
	"ConversationParticipant": ConversationParticipant{},
	"MoveInIssue":             MoveInIssue{},
	"Notification":            Notification{},
}
