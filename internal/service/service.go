package service

import (
	"context"

	"auction-management-api/internal/clock"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/livefeed"
	"auction-management-api/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type Auction interface {
	CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (*entity.AuctionOutputModel, error)
	GetAuctionById(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error)
	GetAuctionLiveState(ctx context.Context, auctionId string) (*entity.AuctionLiveStateOutputModel, error)

	GetOpenAuctions(ctx context.Context, pg *entity.PaginationInput) ([]entity.AuctionOutputModel, error)
	GetFarmerAuctions(ctx context.Context, farmerId string, pg *entity.PaginationInput) ([]entity.AuctionOutputModel, error)

	CloseAuction(ctx context.Context, auctionId string) (*entity.ClosedAuctionOutputModel, error)
	CancelAuction(ctx context.Context, auctionId string, actorId string) (*entity.AuctionOutputModel, error)
}

type Bidding interface {
	PlaceBid(ctx context.Context, input *entity.PlaceBidInput) (*entity.BidOutputModel, error)
	GetAuctionBids(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
}

type Services struct {
	Diagnostics Diagnostics
	Auction     Auction
	Bidding     Bidding
}

func NewServices(repos *repo.Repositories, clk clock.Clock, feed *livefeed.Feed) *Services {
	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Auction:     NewAuctionService(repos, clk, feed),
		Bidding:     NewBiddingService(repos, clk, feed),
	}
}
