package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuctionStatus is the closed set of lifecycle states an auction moves through.
type AuctionStatus string

const (
	StatusScheduled AuctionStatus = "SCHEDULED"
	StatusLive      AuctionStatus = "LIVE"
	StatusEnded     AuctionStatus = "ENDED"
	StatusCancelled AuctionStatus = "CANCELLED"
)

// db model
// All monetary values are stored in minor currency units (paise).
// Version is the optimistic-concurrency counter compared on every write.
type Auction struct {
	Id              uuid.UUID     `json:"id" db:"id"`
	ProductId       uuid.UUID     `json:"productId" db:"product_id"`
	FarmerId        uuid.UUID     `json:"farmerId" db:"farmer_id"`
	StartingPrice   int64         `json:"startingPrice" db:"starting_price"`
	CurrentBid      int64         `json:"currentBid" db:"current_bid"`
	ReservePrice    *int64        `json:"reservePrice" db:"reserve_price"`
	MinBidIncrement int64         `json:"minBidIncrement" db:"min_bid_increment"`
	StartTime       time.Time     `json:"startTime" db:"start_time"`
	EndTime         time.Time     `json:"endTime" db:"end_time"`
	Status          AuctionStatus `json:"status" db:"status"`
	HighestBidderId *uuid.UUID    `json:"highestBidderId" db:"highest_bidder_id"`
	WinnerId        *uuid.UUID    `json:"winnerId" db:"winner_id"`
	Version         int           `json:"version" db:"version"`
	CreatedAt       string        `json:"createdAt" db:"created_at"`
}

// service + repo input model
type CreateAuctionInput struct {
	ProductId       string // given
	FarmerId        string // given
	StartingPrice   int64  // given, minor units
	ReservePrice    *int64 // given, optional
	MinBidIncrement int64  // given, minor units
	StartTime       time.Time // given
	EndTime         time.Time // given
	Status          AuctionStatus // should be set: SCHEDULED or LIVE
	// Id UUID sets automatically
	// CurrentBid starts at StartingPrice
	// Version should be set: 1
	// CreatedAt sets automatically
}

// controller model
type AuctionOutputModel struct {
	Id              string  `json:"id"`
	ProductId       string  `json:"productId"`
	FarmerId        string  `json:"farmerId"`
	StartingPrice   int64   `json:"startingPrice"`
	CurrentBid      int64   `json:"currentBid"`
	ReservePrice    *int64  `json:"reservePrice,omitempty"`
	MinBidIncrement int64   `json:"minBidIncrement"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	Status          string  `json:"status"`
	HighestBidderId *string `json:"highestBidderId,omitempty"`
	WinnerId        *string `json:"winnerId,omitempty"`
	Version         int     `json:"version"`
	CreatedAt       string  `json:"createdAt"`
}

// controller model for the live polling surface
type AuctionLiveStateOutputModel struct {
	Id               string `json:"id"`
	Status           string `json:"status"`
	CurrentBid       int64  `json:"currentBid"`
	MinNextBid       int64  `json:"minNextBid"`
	RemainingSeconds int64  `json:"remainingSeconds"`
	EndTime          string `json:"endTime"`
}

// ClosedAuctionOutputModel reports the outcome of CloseAuction. ReserveMet is
// false when a reserve price was set and the final bid did not reach it, in
// which case WinnerId is empty and the auction ended without a winner.
type ClosedAuctionOutputModel struct {
	Id         string  `json:"id"`
	Status     string  `json:"status"`
	FinalBid   int64   `json:"finalBid"`
	WinnerId   *string `json:"winnerId,omitempty"`
	ReserveMet bool    `json:"reserveMet"`
}
