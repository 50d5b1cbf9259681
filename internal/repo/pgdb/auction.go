package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/repo_errors"
	"auction-management-api/pkg/postgres"
)

type AuctionRepo struct {
	*postgres.Postgres
}

func NewAuctionRepo(pgdb *postgres.Postgres) *AuctionRepo {
	return &AuctionRepo{pgdb}
}

const auctionColumns = "id, product_id, farmer_id, starting_price, current_bid, reserve_price, min_bid_increment, start_time, end_time, status, highest_bidder_id, winner_id, version, created_at"

func scanAuction(row squirrel.RowScanner) (*entity.Auction, error) {
	var auction entity.Auction
	var reservePrice sql.NullInt64
	var highestBidder, winner uuid.NullUUID
	var createdAt time.Time

	err := row.Scan(&auction.Id, &auction.ProductId, &auction.FarmerId, &auction.StartingPrice,
		&auction.CurrentBid, &reservePrice, &auction.MinBidIncrement, &auction.StartTime,
		&auction.EndTime, &auction.Status, &highestBidder, &winner, &auction.Version, &createdAt)
	if err != nil {
		return nil, err
	}

	if reservePrice.Valid {
		auction.ReservePrice = &reservePrice.Int64
	}
	if highestBidder.Valid {
		auction.HighestBidderId = &highestBidder.UUID
	}
	if winner.Valid {
		auction.WinnerId = &winner.UUID
	}
	auction.CreatedAt = createdAt.Format(time.RFC3339)

	return &auction, nil
}

func (r *AuctionRepo) CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (uuid.UUID, error) {
	var reservePrice any
	if input.ReservePrice != nil {
		reservePrice = *input.ReservePrice
	}

	createAuctionReq, args, _ := r.SqlBuilder.
		Insert("auction").
		Columns("product_id", "farmer_id", "starting_price", "current_bid", "reserve_price",
			"min_bid_increment", "start_time", "end_time", "status", "version").
		Values(input.ProductId, input.FarmerId, input.StartingPrice, input.StartingPrice, reservePrice,
			input.MinBidIncrement, input.StartTime, input.EndTime, input.Status, 1).
		Suffix("RETURNING id").
		ToSql()

	var auctionId uuid.UUID
	err := r.Database.QueryRowContext(ctx, createAuctionReq, args...).Scan(&auctionId)
	if err != nil {
		return uuid.Nil, err
	}

	return auctionId, nil
}

func (r *AuctionRepo) GetAuctionById(ctx context.Context, id string) (*entity.Auction, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getAuctionReq, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("auction").
		Where("id = ?", uuidForm).
		ToSql()

	auction, err := scanAuction(r.Database.QueryRowContext(ctx, getAuctionReq, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return auction, nil
}

// ApplyBid runs the read-validate-write tail of bid acceptance as a single
// transaction: insert the bid row, then advance the auction iff its version
// still matches what the caller validated against. Zero rows updated means a
// concurrent bid committed first; the whole transaction rolls back and the
// bid row never becomes visible.
func (r *AuctionRepo) ApplyBid(ctx context.Context, input *entity.PlaceBidInput, expectedVersion int) (uuid.UUID, error) {
	auctionUuid, err := uuid.Parse(input.AuctionId)
	if err != nil {
		return uuid.Nil, err
	}

	bidderUuid, err := uuid.Parse(input.BidderId)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	createBidReq, args, _ := r.SqlBuilder.
		Insert("bid").
		Columns("auction_id", "bidder_id", "amount").
		Values(auctionUuid, bidderUuid, input.Amount).
		Suffix("RETURNING id").
		RunWith(tx).
		ToSql()

	var bidId uuid.UUID
	err = tx.QueryRow(createBidReq, args...).Scan(&bidId)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	updateAuctionReq, args, _ := r.SqlBuilder.
		Update("auction").
		Set("current_bid", input.Amount).
		Set("highest_bidder_id", bidderUuid).
		Set("version", squirrel.Expr("version + ?", 1)).
		Where("id = ?", auctionUuid).
		Where("version = ?", expectedVersion).
		RunWith(tx).
		ToSql()

	result, err := tx.Exec(updateAuctionReq, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	updated, err := result.RowsAffected()
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	if updated == 0 {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, repo_errors.ErrVersionConflict
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *AuctionRepo) markTerminal(ctx context.Context, id string, status entity.AuctionStatus, winnerId *uuid.UUID, expectedVersion int) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	update := r.SqlBuilder.
		Update("auction").
		Set("status", status).
		Set("version", squirrel.Expr("version + ?", 1)).
		Where("id = ?", uuidForm).
		Where("version = ?", expectedVersion)

	if winnerId != nil {
		update = update.Set("winner_id", *winnerId)
	}

	markReq, args, _ := update.ToSql()

	result, err := r.Database.ExecContext(ctx, markReq, args...)
	if err != nil {
		return err
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if updated == 0 {
		return repo_errors.ErrVersionConflict
	}

	return nil
}

func (r *AuctionRepo) MarkEnded(ctx context.Context, id string, winnerId *uuid.UUID, expectedVersion int) error {
	return r.markTerminal(ctx, id, entity.StatusEnded, winnerId, expectedVersion)
}

func (r *AuctionRepo) MarkCancelled(ctx context.Context, id string, expectedVersion int) error {
	return r.markTerminal(ctx, id, entity.StatusCancelled, nil, expectedVersion)
}

func (r *AuctionRepo) queryAuctions(ctx context.Context, query string, args []any) ([]entity.Auction, error) {
	rows, err := r.Database.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	auctions := make([]entity.Auction, 0)
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return auctions, err
		}
		auctions = append(auctions, *auction)
	}
	if err = rows.Err(); err != nil {
		return auctions, err
	}

	return auctions, nil
}

// GetOpenAuctions lists auctions that have not reached a terminal state,
// soonest-ending first, which is the order the marketplace listing shows.
func (r *AuctionRepo) GetOpenAuctions(ctx context.Context, pg *entity.PaginationInput) ([]entity.Auction, error) {
	getOpenReq, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("auction").
		Where(squirrel.Eq{"status": []entity.AuctionStatus{entity.StatusScheduled, entity.StatusLive}}).
		OrderBy("end_time ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryAuctions(ctx, getOpenReq, args)
}

func (r *AuctionRepo) GetAuctionsByFarmerId(ctx context.Context, farmerId string, pg *entity.PaginationInput) ([]entity.Auction, error) {
	uuidForm, err := uuid.Parse(farmerId)
	if err != nil {
		return nil, err
	}

	getFarmerAuctionsReq, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("auction").
		Where("farmer_id = ?", uuidForm).
		OrderBy("created_at DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryAuctions(ctx, getFarmerAuctionsReq, args)
}
