package offer

import (
	"errors"
	"math"
	"testing"
	"time"

	"helpyhands-market-service/internal/domain/shared"

	"github.com/google/uuid"
)

func TestValidAmount(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected bool
	}{
		{"positive amount", 500, true},
		{"fractional amount", 0.01, true},
		{"zero", 0, false},
		{"negative", -100, false},
		{"positive infinity", math.Inf(1), false},
		{"negative infinity", math.Inf(-1), false},
		{"NaN", math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidAmount(tt.amount); got != tt.expected {
				t.Errorf("ValidAmount(%v) = %v, expected %v", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	newPending := func() *Offer {
		return &Offer{
			ID:        uuid.New(),
			ListingID: uuid.New(),
			BuyerID:   uuid.New(),
			Amount:    500,
			Status:    StatusPending,
		}
	}

	t.Run("accept", func(t *testing.T) {
		o := newPending()
		if err := o.Resolve(DecisionAccept, nil); err != nil {
			t.Fatalf("accept failed: %v", err)
		}
		if o.Status != StatusAccepted {
			t.Errorf("expected status %s, got %s", StatusAccepted, o.Status)
		}
	})

	t.Run("reject", func(t *testing.T) {
		o := newPending()
		if err := o.Resolve(DecisionReject, nil); err != nil {
			t.Fatalf("reject failed: %v", err)
		}
		if o.Status != StatusRejected {
			t.Errorf("expected status %s, got %s", StatusRejected, o.Status)
		}
	})

	t.Run("counter with amount", func(t *testing.T) {
		o := newPending()
		counter := 450.0
		if err := o.Resolve(DecisionCounter, &counter); err != nil {
			t.Fatalf("counter failed: %v", err)
		}
		if o.Status != StatusCountered {
			t.Errorf("expected status %s, got %s", StatusCountered, o.Status)
		}
		if o.CounterAmount == nil || *o.CounterAmount != counter {
			t.Errorf("counter amount not recorded: %v", o.CounterAmount)
		}
	})

	t.Run("counter without amount", func(t *testing.T) {
		o := newPending()
		if err := o.Resolve(DecisionCounter, nil); !errors.Is(err, shared.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
		if o.Status != StatusPending {
			t.Errorf("failed counter should leave the offer pending, got %s", o.Status)
		}
	})

	t.Run("counter with invalid amount", func(t *testing.T) {
		o := newPending()
		counter := -1.0
		if err := o.Resolve(DecisionCounter, &counter); !errors.Is(err, shared.ErrInvalidAmount) {
			t.Errorf("expected ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("unknown decision", func(t *testing.T) {
		o := newPending()
		if err := o.Resolve(Decision("maybe"), nil); !errors.Is(err, shared.ErrInvalidDecision) {
			t.Errorf("expected ErrInvalidDecision, got %v", err)
		}
	})

	t.Run("already resolved", func(t *testing.T) {
		o := newPending()
		if err := o.Resolve(DecisionAccept, nil); err != nil {
			t.Fatalf("accept failed: %v", err)
		}
		if err := o.Resolve(DecisionReject, nil); !errors.Is(err, shared.ErrOfferAlreadyResolved) {
			t.Errorf("expected ErrOfferAlreadyResolved, got %v", err)
		}
		if o.Status != StatusAccepted {
			t.Errorf("resolution should be final, got %s", o.Status)
		}
	})
}

func TestLegacyContentCodec(t *testing.T) {
	t.Run("round trip with note", func(t *testing.T) {
		content := EncodeLegacyContent(1500, "Can pick up this weekend")
		amount, note, err := ParseLegacyContent(content)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if amount != 1500 {
			t.Errorf("expected amount 1500, got %v", amount)
		}
		if note != "Can pick up this weekend" {
			t.Errorf("unexpected note %q", note)
		}
	})

	t.Run("round trip without note", func(t *testing.T) {
		content := EncodeLegacyContent(499.5, "")
		amount, note, err := ParseLegacyContent(content)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if amount != 499.5 {
			t.Errorf("expected amount 499.5, got %v", amount)
		}
		if note != "" {
			t.Errorf("expected empty note, got %q", note)
		}
	})

	t.Run("known encoding shape", func(t *testing.T) {
		content := EncodeLegacyContent(500, "hello")
		expected := "Offer: ₹500 - Note: hello"
		if content != expected {
			t.Errorf("expected %q, got %q", expected, content)
		}
	})

	tests := []struct {
		name    string
		content string
	}{
		{"plain chat message", "Is this still available?"},
		{"missing prefix", "₹500 - Note: hi"},
		{"garbage amount", "Offer: ₹abc"},
		{"zero amount", "Offer: ₹0"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := ParseLegacyContent(tt.content); !errors.Is(err, shared.ErrNotLegacyOffer) {
				t.Errorf("expected ErrNotLegacyOffer for %q, got %v", tt.content, err)
			}
		})
	}
}

func TestFromLegacyMessage(t *testing.T) {
	id := uuid.New()
	listingID := uuid.New()
	senderID := uuid.New()
	createdAt := time.Now().Add(-time.Hour)

	o, err := FromLegacyMessage(id, listingID, senderID, "Offer: ₹750 - Note: final price", createdAt)
	if err != nil {
		t.Fatalf("lift failed: %v", err)
	}

	if o.ID != id || o.ListingID != listingID || o.BuyerID != senderID {
		t.Error("identifiers not carried over")
	}
	if o.Amount != 750 {
		t.Errorf("expected amount 750, got %v", o.Amount)
	}
	if o.Note != "final price" {
		t.Errorf("unexpected note %q", o.Note)
	}
	if !o.IsPending() {
		t.Error("legacy offers are lifted as pending")
	}
	if !o.CreatedAt.Equal(createdAt) {
		t.Error("creation time not preserved")
	}

	if _, err := FromLegacyMessage(id, listingID, senderID, "hello there", createdAt); err == nil {
		t.Error("expected error for non-offer content")
	}
}
