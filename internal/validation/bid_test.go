package validation_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/validation"
)

var (
	ownerId  = uuid.New()
	bidderId = uuid.New()

	auctionStart = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	auctionEnd   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	duringWindow = auctionStart.Add(time.Hour)
)

func liveAuction() *entity.Auction {
	return &entity.Auction{
		Id:              uuid.New(),
		FarmerId:        ownerId,
		StartingPrice:   100,
		CurrentBid:      100,
		MinBidIncrement: 10,
		StartTime:       auctionStart,
		EndTime:         auctionEnd,
		Status:          entity.StatusLive,
		Version:         1,
	}
}

func TestValidateBid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(a *entity.Auction)
		amount     int64
		bidder     uuid.UUID
		now        time.Time
		wantOk     bool
		wantReason validation.RejectionReason
	}{
		{
			name:   "accepts amount at the minimum",
			amount: 110, bidder: bidderId, now: duringWindow,
			wantOk: true,
		},
		{
			name:   "accepts amount above the minimum",
			amount: 250, bidder: bidderId, now: duringWindow,
			wantOk: true,
		},
		{
			name:   "rejects before the window opens",
			amount: 110, bidder: bidderId, now: auctionStart.Add(-time.Minute),
			wantOk: false, wantReason: validation.ReasonAuctionNotLive,
		},
		{
			name:   "rejects at the end instant",
			amount: 110, bidder: bidderId, now: auctionEnd,
			wantOk: false, wantReason: validation.ReasonAuctionNotLive,
		},
		{
			name:   "rejects cancelled auction inside the window",
			mutate: func(a *entity.Auction) { a.Status = entity.StatusCancelled },
			amount: 110, bidder: bidderId, now: duringWindow,
			wantOk: false, wantReason: validation.ReasonAuctionNotLive,
		},
		{
			name:   "rejects owner bidding on own auction",
			amount: 110, bidder: ownerId, now: duringWindow,
			wantOk: false, wantReason: validation.ReasonSelfBidAsOwner,
		},
		{
			name:   "liveness outranks self bid",
			amount: 110, bidder: ownerId, now: auctionEnd.Add(time.Minute),
			wantOk: false, wantReason: validation.ReasonAuctionNotLive,
		},
		{
			name:   "rejects one unit below the minimum",
			amount: 109, bidder: bidderId, now: duringWindow,
			wantOk: false, wantReason: validation.ReasonBelowMinimum,
		},
		{
			name:   "rejects amount equal to current bid",
			amount: 100, bidder: bidderId, now: duringWindow,
			wantOk: false, wantReason: validation.ReasonBelowMinimum,
		},
		{
			name:   "negative amount reads as below minimum when the floor is positive",
			amount: -5, bidder: bidderId, now: duringWindow,
			wantOk: false, wantReason: validation.ReasonBelowMinimum,
		},
		{
			name: "non-positive amount when it clears a non-positive floor",
			mutate: func(a *entity.Auction) {
				a.CurrentBid = -10
				a.MinBidIncrement = 5
			},
			amount: -2, bidder: bidderId, now: duringWindow,
			wantOk: false, wantReason: validation.ReasonNonPositiveAmount,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			auction := liveAuction()
			if tc.mutate != nil {
				tc.mutate(auction)
			}

			reason, ok := validation.ValidateBid(auction, tc.amount, tc.bidder, tc.now)
			require.Equal(t, tc.wantOk, ok)
			require.Equal(t, tc.wantReason, reason)
		})
	}
}

func TestMinAcceptableBid(t *testing.T) {
	t.Parallel()

	auction := liveAuction()
	require.Equal(t, int64(110), validation.MinAcceptableBid(auction))

	auction.CurrentBid = 110
	require.Equal(t, int64(120), validation.MinAcceptableBid(auction))
}
