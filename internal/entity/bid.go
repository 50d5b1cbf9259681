package entity

import (
	"github.com/google/uuid"
)

// db model
// Bids are immutable once accepted: no update or delete path exists anywhere
// in the repo layer. A bid is only ever superseded by a higher accepted bid.
type Bid struct {
	Id        uuid.UUID `json:"id" db:"id"`
	AuctionId uuid.UUID `json:"auctionId" db:"auction_id"`
	BidderId  uuid.UUID `json:"bidderId" db:"bidder_id"`
	Amount    int64     `json:"amount" db:"amount"`
	CreatedAt string    `json:"createdAt" db:"created_at"`
}

// service + repo input model
type PlaceBidInput struct {
	AuctionId string // given
	BidderId  string // given
	Amount    int64  // given, minor units
	// Id UUID sets automatically
	// CreatedAt sets automatically
}

// controller model
type BidOutputModel struct {
	Id        string `json:"id"`
	AuctionId string `json:"auctionId"`
	BidderId  string `json:"bidderId"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"createdAt"`
}
