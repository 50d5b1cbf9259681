package service

import (
	"context"
	"errors"
	"time"

	"auction-management-api/internal/clock"
	"auction-management-api/internal/entity"
	"auction-management-api/internal/livefeed"
	"auction-management-api/internal/repo"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/pkg/logger"

	"github.com/google/uuid"
)

type AuctionService struct {
	auctionRepo repo.Auction
	bidRepo     repo.Bid
	productRepo repo.Product
	userRepo    repo.User
	clk         clock.Clock
	feed        *livefeed.Feed
}

func NewAuctionService(repos *repo.Repositories, clk clock.Clock, feed *livefeed.Feed) *AuctionService {
	return &AuctionService{
		auctionRepo: repos.Auction,
		bidRepo:     repos.Bid,
		productRepo: repos.Product,
		userRepo:    repos.User,
		clk:         clk,
		feed:        feed,
	}
}

func (s *AuctionService) CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (*entity.AuctionOutputModel, error) {
	creator, err := s.userRepo.GetUserById(ctx, input.FarmerId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	switch creator.Role {
	case entity.RoleFarmer, entity.RoleAdmin:
	case entity.RoleUser, entity.RoleContractor:
		return nil, ErrRoleCanNotCreate
	default:
		return nil, ErrUnknownRole
	}

	product, err := s.productRepo.GetProductById(ctx, input.ProductId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrProductNotFound
		}

		return nil, err
	}

	if creator.Role != entity.RoleAdmin && product.FarmerId != creator.Id {
		return nil, ErrNotProductOwner
	}

	if !input.EndTime.After(input.StartTime) {
		return nil, ErrInvalidWindow
	}

	if input.StartingPrice <= 0 || input.MinBidIncrement <= 0 {
		return nil, ErrInvalidPricing
	}
	if input.ReservePrice != nil && *input.ReservePrice < input.StartingPrice {
		return nil, ErrInvalidPricing
	}

	now := s.clk.Now()
	input.Status = entity.StatusScheduled
	if !now.Before(input.StartTime) {
		input.Status = entity.StatusLive
	}

	id, err := s.auctionRepo.CreateAuction(ctx, input)
	if err != nil {
		return nil, err
	}

	auction, err := s.auctionRepo.GetAuctionById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	logger.Info("auction created", map[string]any{
		"auction_id": auction.Id.String(),
		"product_id": auction.ProductId.String(),
		"farmer_id":  auction.FarmerId.String(),
		"status":     string(auction.Status),
	})

	return mapAuction(auction, clock.DeriveStatus(auction, now)), nil
}

// GetAuctionById reports the auction with its effective status derived from
// the clock. SCHEDULED->LIVE->ENDED transitions are computed lazily on read;
// only terminal transitions are persisted.
func (s *AuctionService) GetAuctionById(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	return mapAuction(auction, clock.DeriveStatus(auction, s.clk.Now())), nil
}

// GetAuctionLiveState serves the polling surface: derived status, remaining
// time and the amount the next bid has to beat. The current bid is read from
// the Redis feed when warm; the database row is the authoritative floor.
func (s *AuctionService) GetAuctionLiveState(ctx context.Context, auctionId string) (*entity.AuctionLiveStateOutputModel, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	currentBid := auction.CurrentBid
	if cached, ok, err := s.feed.CurrentBid(ctx, auction.Id); err != nil {
		logger.Warn("live feed read failed, serving database state", map[string]any{
			"auction_id": auctionId,
			"error":      err.Error(),
		})
	} else if ok && cached > currentBid {
		currentBid = cached
	}

	now := s.clk.Now()

	return &entity.AuctionLiveStateOutputModel{
		Id:               auction.Id.String(),
		Status:           string(clock.DeriveStatus(auction, now)),
		CurrentBid:       currentBid,
		MinNextBid:       currentBid + auction.MinBidIncrement,
		RemainingSeconds: int64(clock.Remaining(auction, now).Seconds()),
		EndTime:          auction.EndTime.Format(time.RFC3339),
	}, nil
}

func (s *AuctionService) GetOpenAuctions(ctx context.Context, pg *entity.PaginationInput) ([]entity.AuctionOutputModel, error) {
	auctions, err := s.auctionRepo.GetOpenAuctions(ctx, pg)
	if err != nil {
		return nil, err
	}

	return mapAuctions(auctions, s.clk.Now()), nil
}

func (s *AuctionService) GetFarmerAuctions(ctx context.Context, farmerId string, pg *entity.PaginationInput) ([]entity.AuctionOutputModel, error) {
	if _, err := s.userRepo.GetUserById(ctx, farmerId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	auctions, err := s.auctionRepo.GetAuctionsByFarmerId(ctx, farmerId, pg)
	if err != nil {
		return nil, err
	}

	return mapAuctions(auctions, s.clk.Now()), nil
}

// CloseAuction performs the single terminal ENDED transition once the end
// time has passed. When a reserve price is set and the final bid stayed
// below it, the auction ends without a winner. The version guard means a bid
// committing concurrently at the boundary forces one reload, so the winner
// is always decided against the final bid state.
func (s *AuctionService) CloseAuction(ctx context.Context, auctionId string) (*entity.ClosedAuctionOutputModel, error) {
	now := s.clk.Now()

	for attempt := 0; attempt < 2; attempt++ {
		auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return nil, ErrAuctionNotFound
			}

			return nil, err
		}

		if auction.Status == entity.StatusEnded || auction.Status == entity.StatusCancelled {
			return nil, ErrAlreadyClosed
		}

		if clock.DeriveStatus(auction, now) != entity.StatusEnded {
			return nil, ErrNotYetEnded
		}

		reserveMet := auction.ReservePrice == nil || auction.CurrentBid >= *auction.ReservePrice

		var winnerId *uuid.UUID
		if auction.HighestBidderId != nil && reserveMet {
			winnerId = auction.HighestBidderId
		}

		err = s.auctionRepo.MarkEnded(ctx, auctionId, winnerId, auction.Version)
		if errors.Is(err, repo_errors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Info("auction closed", map[string]any{
			"auction_id":  auctionId,
			"final_bid":   auction.CurrentBid,
			"reserve_met": reserveMet,
			"has_winner":  winnerId != nil,
		})

		return &entity.ClosedAuctionOutputModel{
			Id:         auctionId,
			Status:     string(entity.StatusEnded),
			FinalBid:   auction.CurrentBid,
			WinnerId:   uuidPtrToString(winnerId),
			ReserveMet: reserveMet,
		}, nil
	}

	return nil, ErrAlreadyClosed
}

// CancelAuction withdraws an auction before any bid exists. Once a bid has
// been accepted the auction can only run to its end time; this is the
// documented policy decision for the cancel-after-bids question.
func (s *AuctionService) CancelAuction(ctx context.Context, auctionId string, actorId string) (*entity.AuctionOutputModel, error) {
	actor, err := s.userRepo.GetUserById(ctx, actorId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return nil, ErrAuctionNotFound
			}

			return nil, err
		}

		if actor.Role != entity.RoleAdmin && actor.Id != auction.FarmerId {
			return nil, ErrNotAuctionOwner
		}

		if auction.Status == entity.StatusEnded || auction.Status == entity.StatusCancelled {
			return nil, ErrAlreadyClosed
		}

		bidCount, err := s.bidRepo.CountBidsByAuctionId(ctx, auctionId)
		if err != nil {
			return nil, err
		}
		if bidCount > 0 {
			return nil, ErrAuctionHasBids
		}

		err = s.auctionRepo.MarkCancelled(ctx, auctionId, auction.Version)
		if errors.Is(err, repo_errors.ErrVersionConflict) {
			// a bid slipped in between the count and the write; re-check
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Info("auction cancelled", map[string]any{
			"auction_id": auctionId,
			"actor_id":   actorId,
		})

		auction, err = s.auctionRepo.GetAuctionById(ctx, auctionId)
		if err != nil {
			return nil, err
		}

		return mapAuction(auction, entity.StatusCancelled), nil
	}

	return nil, ErrAuctionHasBids
}
