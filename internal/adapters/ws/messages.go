package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"helpyhands-market-service/internal/domain/listing"
	"helpyhands-market-service/internal/domain/offer"
	"helpyhands-market-service/internal/domain/shared"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server message types
	MessageTypeSignUp        MessageType = "sign_up"
	MessageTypeSignIn        MessageType = "sign_in"
	MessageTypeRequestOtp    MessageType = "request_otp"
	MessageTypeVerifyOtp     MessageType = "verify_otp"
	MessageTypeConfirmEmail  MessageType = "confirm_email"
	MessageTypeRefresh       MessageType = "refresh"
	MessageTypeSignOut       MessageType = "sign_out"
	MessageTypeCreateListing MessageType = "create_listing"
	MessageTypeGetListing    MessageType = "get_listing"
	MessageTypeListListings  MessageType = "list_listings"
	MessageTypeListMine      MessageType = "list_my_listings"
	MessageTypeMarkSold      MessageType = "mark_sold"
	MessageTypeDeleteListing MessageType = "delete_listing"
	MessageTypeSubmitOffer   MessageType = "submit_offer"
	MessageTypeListOffers    MessageType = "list_offers"
	MessageTypeListMyOffers  MessageType = "list_my_offers"
	MessageTypeRespondOffer  MessageType = "respond_offer"
	MessageTypeSubscribe     MessageType = "subscribe"
	MessageTypeUnsubscribe   MessageType = "unsubscribe"
	MessageTypePing          MessageType = "ping"

	// Server to Client message types
	MessageTypeSessionUpdate MessageType = "session_update"
	MessageTypeOfferReceived MessageType = "offer_received"
	MessageTypeOfferUpdate   MessageType = "offer_update"
	MessageTypeListingUpdate MessageType = "listing_update"
	MessageTypeError         MessageType = "error"
	MessageTypePong          MessageType = "pong"
)

type ClientMessage struct {
	Type      MessageType            `json:"type"`
	ListingID *uuid.UUID             `json:"listing_id,omitempty"`
	OfferID   *uuid.UUID             `json:"offer_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// ServerMessage represents a message sent from server to client
type ServerMessage struct {
	Type      MessageType            `json:"type"`
	ListingID *uuid.UUID             `json:"listing_id,omitempty"`
	OfferID   *uuid.UUID             `json:"offer_id,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Error     *string                `json:"error,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

func NewServerMessage(msgType MessageType) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Data:      make(map[string]interface{}),
		Timestamp: time.Now().Unix(),
	}
}

func NewErrorMessage(err string, listingID *uuid.UUID) *ServerMessage {
	return &ServerMessage{
		Type:      MessageTypeError,
		ListingID: listingID,
		Error:     &err,
		Timestamp: time.Now().Unix(),
	}
}

// NewListingMessage carries a listing snapshot to the client
func NewListingMessage(l *listing.Listing, msgType MessageType) *ServerMessage {
	msg := NewServerMessage(msgType)
	msg.ListingID = &l.ID
	msg.Data["listing"] = l
	return msg
}

// NewOfferMessage carries an offer snapshot to the client
func NewOfferMessage(o *offer.Offer, msgType MessageType) *ServerMessage {
	msg := NewServerMessage(msgType)
	msg.OfferID = &o.ID
	msg.ListingID = &o.ListingID
	msg.Data["offer"] = o
	return msg
}

func (m *ClientMessage) validateListingID() error {
	if m.ListingID == nil || *m.ListingID == uuid.Nil {
		return shared.ErrListingIDRequired
	}
	return nil
}

func (m *ClientMessage) validateOfferID() error {
	if m.OfferID == nil || *m.OfferID == uuid.Nil {
		return shared.ErrOfferIDRequired
	}
	return nil
}

// ParseClientMessage parses a JSON message from client
func ParseClientMessage(data []byte) (*ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse client message: %w", err)
	}

	// Validate required fields
	if msg.Type == "" {
		return nil, shared.ErrMessageTypeRequired
	}

	return &msg, nil
}

// Validate validates a client message
func (m *ClientMessage) Validate() error {
	switch m.Type {
	case MessageTypeGetListing, MessageTypeMarkSold, MessageTypeDeleteListing:
		if err := m.validateListingID(); err != nil {
			return err
		}
	case MessageTypeSubmitOffer:
		if err := m.validateListingID(); err != nil {
			return err
		}
		amount, ok := m.Data["amount"].(float64)
		if !ok || amount <= 0 {
			return shared.ErrInvalidAmount
		}
	case MessageTypeRespondOffer:
		if err := m.validateOfferID(); err != nil {
			return err
		}
		if m.Data["decision"] == nil {
			return shared.ErrInvalidDecision
		}
	case MessageTypeCreateListing:
		if m.Data["title"] == nil {
			return shared.ErrTitleRequired
		}
	case MessageTypeSignUp, MessageTypeSignIn, MessageTypeRequestOtp, MessageTypeVerifyOtp,
		MessageTypeConfirmEmail, MessageTypeRefresh, MessageTypeSignOut,
		MessageTypeListListings, MessageTypeListMine,
		MessageTypeListOffers, MessageTypeListMyOffers,
		MessageTypeSubscribe, MessageTypeUnsubscribe:

	case MessageTypePing:

	default:
		return shared.ErrUnknownMessageType
	}

	return nil
}
