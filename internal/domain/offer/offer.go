package offer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"helpyhands-market-service/internal/domain/shared"

	"github.com/google/uuid"
)

// Status represents the resolution state of an offer
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCountered Status = "countered"
)

// Decision is a seller's response to a pending offer
type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionReject  Decision = "reject"
	DecisionCounter Decision = "counter"
)

// Offer is a directed negotiation message from a buyer to the owner of a
// listing. Offers are first-class records with a persisted resolution state;
// the receiving seller is implied by the listing's ownership.
type Offer struct {
	ID            uuid.UUID `json:"id"`
	ListingID     uuid.UUID `json:"listing_id"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	Amount        float64   `json:"amount"`
	Note          string    `json:"note,omitempty"`
	Status        Status    `json:"status"`
	CounterAmount *float64  `json:"counter_amount,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsPending returns true while the seller has not responded
func (o *Offer) IsPending() bool {
	return o.Status == StatusPending
}

// Resolve applies a seller decision to a pending offer. Countering requires
// a positive counter amount; any other decision ignores it.
func (o *Offer) Resolve(decision Decision, counterAmount *float64) error {
	if !o.IsPending() {
		return shared.ErrOfferAlreadyResolved
	}

	switch decision {
	case DecisionAccept:
		o.Status = StatusAccepted
	case DecisionReject:
		o.Status = StatusRejected
	case DecisionCounter:
		if counterAmount == nil || !ValidAmount(*counterAmount) {
			return shared.ErrInvalidAmount
		}
		o.Status = StatusCountered
		o.CounterAmount = counterAmount
	default:
		return shared.ErrInvalidDecision
	}

	o.UpdatedAt = time.Now()
	return nil
}

// ValidAmount reports whether the proposed amount is a positive finite number
func ValidAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0) && !math.IsNaN(amount)
}

// Legacy message-body encoding. Before offers became typed records they were
// smuggled through the generic messages collection as
// "Offer: ₹<amount> - Note: <note>". The codec below keeps those rows
// readable; new offers never use it.
const (
	legacyPrefix        = "Offer: "
	legacyNoteSeparator = " - Note: "
	legacyCurrencySign  = "₹"
)

// EncodeLegacyContent renders an offer in the legacy message-body convention
func EncodeLegacyContent(amount float64, note string) string {
	content := fmt.Sprintf("%s%s%s", legacyPrefix, legacyCurrencySign, strconv.FormatFloat(amount, 'f', -1, 64))
	if note != "" {
		content += legacyNoteSeparator + note
	}
	return content
}

// ParseLegacyContent extracts amount and note from a legacy message body.
// Returns ErrNotLegacyOffer for bodies that do not match the convention.
func ParseLegacyContent(content string) (amount float64, note string, err error) {
	if !strings.HasPrefix(content, legacyPrefix) {
		return 0, "", shared.ErrNotLegacyOffer
	}

	body := strings.TrimPrefix(content, legacyPrefix)
	if idx := strings.Index(body, legacyNoteSeparator); idx >= 0 {
		note = body[idx+len(legacyNoteSeparator):]
		body = body[:idx]
	}

	body = strings.TrimPrefix(strings.TrimSpace(body), legacyCurrencySign)
	amount, parseErr := strconv.ParseFloat(body, 64)
	if parseErr != nil || !ValidAmount(amount) {
		return 0, "", shared.ErrNotLegacyOffer
	}

	return amount, note, nil
}

// FromLegacyMessage lifts a legacy message row into a pending Offer
func FromLegacyMessage(id, listingID, senderID uuid.UUID, content string, createdAt time.Time) (*Offer, error) {
	amount, note, err := ParseLegacyContent(content)
	if err != nil {
		return nil, err
	}

	return &Offer{
		ID:        id,
		ListingID: listingID,
		BuyerID:   senderID,
		Amount:    amount,
		Note:      note,
		Status:    StatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}
