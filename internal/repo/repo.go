package repo

import (
	"context"

	"github.com/google/uuid"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/memdb"
	"auction-management-api/internal/repo/pgdb"
	"auction-management-api/pkg/postgres"
)

type Diagnostics interface {
	Ping() error
}

type Auction interface {
	CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (uuid.UUID, error)
	GetAuctionById(ctx context.Context, id string) (*entity.Auction, error)

	// ApplyBid appends the bid and advances current_bid/highest_bidder_id as
	// one atomic unit, guarded by the auction row version. Returns
	// repo_errors.ErrVersionConflict when a concurrent writer got there first.
	ApplyBid(ctx context.Context, input *entity.PlaceBidInput, expectedVersion int) (uuid.UUID, error)

	// MarkEnded and MarkCancelled are terminal transitions, also guarded by
	// the row version so a close cannot race a concurrent bid.
	MarkEnded(ctx context.Context, id string, winnerId *uuid.UUID, expectedVersion int) error
	MarkCancelled(ctx context.Context, id string, expectedVersion int) error

	GetOpenAuctions(ctx context.Context, pg *entity.PaginationInput) ([]entity.Auction, error)
	GetAuctionsByFarmerId(ctx context.Context, farmerId string, pg *entity.PaginationInput) ([]entity.Auction, error)
}

type Bid interface {
	GetBidsByAuctionId(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetBidsByBidderId(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	CountBidsByAuctionId(ctx context.Context, auctionId string) (int, error)
}

type Product interface {
	GetProductById(ctx context.Context, id string) (*entity.Product, error)
}

type User interface {
	GetUserById(ctx context.Context, id string) (*entity.User, error)
}

type Repositories struct {
	Diagnostics
	Auction
	Bid
	Product
	User
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Auction:     pgdb.NewAuctionRepo(p),
		Bid:         pgdb.NewBidRepo(p),
		Product:     pgdb.NewProductRepo(p),
		User:        pgdb.NewUserRepo(p),
	}
}

// NewMemoryRepositories wires every interface to the single in-memory store,
// used by tests and local runs without Postgres.
func NewMemoryRepositories(m *memdb.MemoryStore) *Repositories {
	return &Repositories{
		Diagnostics: m,
		Auction:     m,
		Bid:         m,
		Product:     m,
		User:        m,
	}
}
