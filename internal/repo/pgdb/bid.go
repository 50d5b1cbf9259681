package pgdb

import (
	"context"
	"time"

	"github.com/google/uuid"

	"auction-management-api/internal/entity"
	"auction-management-api/pkg/postgres"
)

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

func (r *BidRepo) queryBids(ctx context.Context, query string, args []any) ([]entity.Bid, error) {
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		var bid entity.Bid
		var createdAt time.Time
		if err := rows.Scan(&bid.Id, &bid.AuctionId, &bid.BidderId, &bid.Amount, &createdAt); err != nil {
			return bids, err
		}
		bid.CreatedAt = createdAt.Format(time.RFC3339)
		bids = append(bids, bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

// GetBidsByAuctionId returns the auction's bid history, newest first.
// Submission order breaks ties between equal timestamps, so the secondary
// ordering key is the insertion-ordered serial column.
func (r *BidRepo) GetBidsByAuctionId(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return nil, err
	}

	getAuctionBidsReq, args, _ := r.SqlBuilder.
		Select("id, auction_id, bidder_id, amount, created_at").
		From("bid").
		Where("auction_id = ?", uuidForm).
		OrderBy("created_at DESC", "seq DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(ctx, getAuctionBidsReq, args)
}

func (r *BidRepo) GetBidsByBidderId(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(bidderId)
	if err != nil {
		return nil, err
	}

	getBidderBidsReq, args, _ := r.SqlBuilder.
		Select("id, auction_id, bidder_id, amount, created_at").
		From("bid").
		Where("bidder_id = ?", uuidForm).
		OrderBy("created_at DESC", "seq DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(ctx, getBidderBidsReq, args)
}

func (r *BidRepo) CountBidsByAuctionId(ctx context.Context, auctionId string) (int, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return 0, err
	}

	countReq, args, _ := r.SqlBuilder.
		Select("count(*)").
		From("bid").
		Where("auction_id = ?", uuidForm).
		ToSql()

	var count int
	if err := r.Database.QueryRowContext(ctx, countReq, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
