package service

import (
	"time"

	"github.com/google/uuid"

	"auction-management-api/internal/clock"
	"auction-management-api/internal/entity"
)

func uuidPtrToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()

	return &s
}

func mapAuction(a *entity.Auction, effectiveStatus entity.AuctionStatus) *entity.AuctionOutputModel {
	return &entity.AuctionOutputModel{
		Id:              a.Id.String(),
		ProductId:       a.ProductId.String(),
		FarmerId:        a.FarmerId.String(),
		StartingPrice:   a.StartingPrice,
		CurrentBid:      a.CurrentBid,
		ReservePrice:    a.ReservePrice,
		MinBidIncrement: a.MinBidIncrement,
		StartTime:       a.StartTime.Format(time.RFC3339),
		EndTime:         a.EndTime.Format(time.RFC3339),
		Status:          string(effectiveStatus),
		HighestBidderId: uuidPtrToString(a.HighestBidderId),
		WinnerId:        uuidPtrToString(a.WinnerId),
		Version:         a.Version,
		CreatedAt:       a.CreatedAt,
	}
}

func mapAuctions(auctions []entity.Auction, now time.Time) []entity.AuctionOutputModel {
	s := make([]entity.AuctionOutputModel, 0)
	for _, auction := range auctions {
		s = append(s, *mapAuction(&auction, clock.DeriveStatus(&auction, now)))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:        b.Id.String(),
		AuctionId: b.AuctionId.String(),
		BidderId:  b.BidderId.String(),
		Amount:    b.Amount,
		CreatedAt: b.CreatedAt,
	}
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, bid := range bids {
		s = append(s, *mapBid(&bid))
	}

	return s
}
