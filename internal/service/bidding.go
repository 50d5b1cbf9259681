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
	"auction-management-api/internal/validation"
	"auction-management-api/pkg/logger"
)

type BiddingService struct {
	auctionRepo repo.Auction
	bidRepo     repo.Bid
	userRepo    repo.User
	clk         clock.Clock
	feed        *livefeed.Feed
}

func NewBiddingService(repos *repo.Repositories, clk clock.Clock, feed *livefeed.Feed) *BiddingService {
	return &BiddingService{
		auctionRepo: repos.Auction,
		bidRepo:     repos.Bid,
		userRepo:    repos.User,
		clk:         clk,
		feed:        feed,
	}
}

func rejectionError(reason validation.RejectionReason) error {
	switch reason {
	case validation.ReasonAuctionNotLive:
		return ErrAuctionNotLive
	case validation.ReasonSelfBidAsOwner:
		return ErrSelfBidAsOwner
	case validation.ReasonBelowMinimum:
		return ErrBelowMinimum
	case validation.ReasonNonPositiveAmount:
		return ErrNonPositiveAmount
	default:
		return ErrBelowMinimum
	}
}

// PlaceBid accepts or rejects a bid against the live auction state.
//
// The read-validate-write sequence is guarded by the auction row version:
// ApplyBid commits the bid and the current-bid advance atomically only if no
// other bid landed since the state was read. On a version conflict the state
// is refreshed and validated once more; a bid that no longer clears the
// minimum against the post-conflict state lost the race and is reported as
// such, never silently accepted. The status check always derives liveness
// from the clock, so a stored SCHEDULED/LIVE value going stale can't let a
// bid through outside the auction window.
func (s *BiddingService) PlaceBid(ctx context.Context, input *entity.PlaceBidInput) (*entity.BidOutputModel, error) {
	bidder, err := s.userRepo.GetUserById(ctx, input.BidderId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	switch bidder.Role {
	case entity.RoleUser, entity.RoleContractor:
	case entity.RoleFarmer, entity.RoleAdmin:
		return nil, ErrRoleCanNotBid
	default:
		return nil, ErrUnknownRole
	}

	// one instant per logical evaluation, shared by the retry
	now := s.clk.Now()

	for attempt := 0; attempt < 2; attempt++ {
		auction, err := s.auctionRepo.GetAuctionById(ctx, input.AuctionId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return nil, ErrAuctionNotFound
			}

			return nil, err
		}

		if reason, ok := validation.ValidateBid(auction, input.Amount, bidder.Id, now); !ok {
			if attempt > 0 && reason == validation.ReasonBelowMinimum {
				return nil, ErrLostRace
			}

			return nil, rejectionError(reason)
		}

		bidId, err := s.auctionRepo.ApplyBid(ctx, input, auction.Version)
		if errors.Is(err, repo_errors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := s.feed.PublishAccepted(ctx, auction.Id, bidder.Id, input.Amount, now); err != nil {
			// the database is authoritative; a feed failure only delays the UI
			logger.Warn("failed to publish accepted bid to live feed", map[string]any{
				"auction_id": input.AuctionId,
				"bid_id":     bidId.String(),
				"error":      err.Error(),
			})
		}

		logger.Info("bid accepted", map[string]any{
			"auction_id": input.AuctionId,
			"bid_id":     bidId.String(),
			"bidder_id":  input.BidderId,
			"amount":     input.Amount,
		})

		return &entity.BidOutputModel{
			Id:        bidId.String(),
			AuctionId: input.AuctionId,
			BidderId:  input.BidderId,
			Amount:    input.Amount,
			CreatedAt: now.Format(time.RFC3339),
		}, nil
	}

	return nil, ErrLostRace
}

func (s *BiddingService) GetAuctionBids(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	if _, err := s.auctionRepo.GetAuctionById(ctx, auctionId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetBidsByAuctionId(ctx, auctionId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BiddingService) GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	if _, err := s.userRepo.GetUserById(ctx, bidderId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetBidsByBidderId(ctx, bidderId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}
