package validation

import (
	"time"

	"github.com/google/uuid"

	"auction-management-api/internal/clock"
	"auction-management-api/internal/entity"
)

// RejectionReason enumerates the business-rule reasons a proposed bid can be
// refused. Reasons are stable identifiers, never free-form strings, so the
// calling layers can branch on cause.
type RejectionReason string

const (
	ReasonAuctionNotLive    RejectionReason = "AUCTION_NOT_LIVE"
	ReasonSelfBidAsOwner    RejectionReason = "SELF_BID_AS_OWNER"
	ReasonBelowMinimum      RejectionReason = "BELOW_MINIMUM"
	ReasonNonPositiveAmount RejectionReason = "NON_POSITIVE_AMOUNT"
)

// MinAcceptableBid returns the smallest amount the next bid must reach:
// the current bid plus the auction's minimum increment.
func MinAcceptableBid(a *entity.Auction) int64 {
	return a.CurrentBid + a.MinBidIncrement
}

// ValidateBid decides whether a proposed bid is acceptable against the
// auction state at the given instant. It is a pure function: no side
// effects, no ambient time, fully driven by its arguments.
//
// The liveness check derives status from the stored window via the clock
// rather than trusting the stored status field, which may be stale between
// the scheduled transition and its lazy persistence.
//
// Rules apply in order; the first failure wins.
func ValidateBid(a *entity.Auction, amount int64, bidderId uuid.UUID, now time.Time) (RejectionReason, bool) {
	if clock.DeriveStatus(a, now) != entity.StatusLive {
		return ReasonAuctionNotLive, false
	}
	if bidderId == a.FarmerId {
		return ReasonSelfBidAsOwner, false
	}
	if amount < MinAcceptableBid(a) {
		return ReasonBelowMinimum, false
	}
	if amount <= 0 {
		return ReasonNonPositiveAmount, false
	}
	return "", true
}
