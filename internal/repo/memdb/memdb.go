package memdb

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/repo/repo_errors"
)

// MemoryStore is a concurrency-safe in-memory implementation of every
// repository interface. It backs the unit tests and local runs without
// Postgres, and enforces the same compare-and-swap contract on the auction
// version as the pgdb implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[uuid.UUID]*entity.Auction
	bids     map[uuid.UUID][]entity.Bid // key: auctionID -> accepted bids in insertion order
	products map[uuid.UUID]entity.Product
	users    map[uuid.UUID]entity.User
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[uuid.UUID]*entity.Auction),
		bids:     make(map[uuid.UUID][]entity.Bid),
		products: make(map[uuid.UUID]entity.Product),
		users:    make(map[uuid.UUID]entity.User),
	}
}

func (m *MemoryStore) Ping() error {
	return nil
}

// AddUser seeds a user. Intended for tests and local fixtures.
func (m *MemoryStore) AddUser(user entity.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.Id] = user
}

// AddProduct seeds a product. Intended for tests and local fixtures.
func (m *MemoryStore) AddProduct(product entity.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[product.Id] = product
}

func (m *MemoryStore) CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (uuid.UUID, error) {
	productId, err := uuid.Parse(input.ProductId)
	if err != nil {
		return uuid.Nil, err
	}

	farmerId, err := uuid.Parse(input.FarmerId)
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auction := entity.Auction{
		Id:              uuid.New(),
		ProductId:       productId,
		FarmerId:        farmerId,
		StartingPrice:   input.StartingPrice,
		CurrentBid:      input.StartingPrice,
		ReservePrice:    input.ReservePrice,
		MinBidIncrement: input.MinBidIncrement,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Status:          input.Status,
		Version:         1,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	m.auctions[auction.Id] = &auction

	return auction.Id, nil
}

func (m *MemoryStore) GetAuctionById(ctx context.Context, id string) (*entity.Auction, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	auction, ok := m.auctions[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	copied := *auction

	return &copied, nil
}

func (m *MemoryStore) ApplyBid(ctx context.Context, input *entity.PlaceBidInput, expectedVersion int) (uuid.UUID, error) {
	auctionId, err := uuid.Parse(input.AuctionId)
	if err != nil {
		return uuid.Nil, err
	}

	bidderId, err := uuid.Parse(input.BidderId)
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auction, ok := m.auctions[auctionId]
	if !ok {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	if auction.Version != expectedVersion {
		return uuid.Nil, repo_errors.ErrVersionConflict
	}

	bid := entity.Bid{
		Id:        uuid.New(),
		AuctionId: auctionId,
		BidderId:  bidderId,
		Amount:    input.Amount,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	m.bids[auctionId] = append(m.bids[auctionId], bid)

	auction.CurrentBid = input.Amount
	auction.HighestBidderId = &bidderId
	auction.Version++

	return bid.Id, nil
}

func (m *MemoryStore) markTerminal(id string, status entity.AuctionStatus, winnerId *uuid.UUID, expectedVersion int) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auction, ok := m.auctions[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}

	if auction.Version != expectedVersion {
		return repo_errors.ErrVersionConflict
	}

	auction.Status = status
	if winnerId != nil {
		auction.WinnerId = winnerId
	}
	auction.Version++

	return nil
}

func (m *MemoryStore) MarkEnded(ctx context.Context, id string, winnerId *uuid.UUID, expectedVersion int) error {
	return m.markTerminal(id, entity.StatusEnded, winnerId, expectedVersion)
}

func (m *MemoryStore) MarkCancelled(ctx context.Context, id string, expectedVersion int) error {
	return m.markTerminal(id, entity.StatusCancelled, nil, expectedVersion)
}

func paginate[T any](items []T, pg *entity.PaginationInput) []T {
	if pg == nil {
		return items
	}
	if pg.Offset >= len(items) {
		return []T{}
	}
	items = items[pg.Offset:]
	if pg.Limit > 0 && pg.Limit < len(items) {
		items = items[:pg.Limit]
	}
	return items
}

func (m *MemoryStore) GetOpenAuctions(ctx context.Context, pg *entity.PaginationInput) ([]entity.Auction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	open := make([]entity.Auction, 0)
	for _, auction := range m.auctions {
		if auction.Status == entity.StatusScheduled || auction.Status == entity.StatusLive {
			open = append(open, *auction)
		}
	}
	sortAuctionsByEndTime(open)

	return paginate(open, pg), nil
}

func (m *MemoryStore) GetAuctionsByFarmerId(ctx context.Context, farmerId string, pg *entity.PaginationInput) ([]entity.Auction, error) {
	uuidForm, err := uuid.Parse(farmerId)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	owned := make([]entity.Auction, 0)
	for _, auction := range m.auctions {
		if auction.FarmerId == uuidForm {
			owned = append(owned, *auction)
		}
	}
	sortAuctionsByEndTime(owned)

	return paginate(owned, pg), nil
}

func (m *MemoryStore) GetBidsByAuctionId(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	bids := m.bids[uuidForm]

	// newest first, matching the pgdb ordering
	reversed := make([]entity.Bid, 0, len(bids))
	for i := len(bids) - 1; i >= 0; i-- {
		reversed = append(reversed, bids[i])
	}

	return paginate(reversed, pg), nil
}

func (m *MemoryStore) GetBidsByBidderId(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(bidderId)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	mine := make([]entity.Bid, 0)
	for _, bids := range m.bids {
		for i := len(bids) - 1; i >= 0; i-- {
			if bids[i].BidderId == uuidForm {
				mine = append(mine, bids[i])
			}
		}
	}

	return paginate(mine, pg), nil
}

func (m *MemoryStore) CountBidsByAuctionId(ctx context.Context, auctionId string) (int, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.bids[uuidForm]), nil
}

func (m *MemoryStore) GetProductById(ctx context.Context, id string) (*entity.Product, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	product, ok := m.products[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &product, nil
}

func (m *MemoryStore) GetUserById(ctx context.Context, id string) (*entity.User, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}

	return &user, nil
}

func sortAuctionsByEndTime(auctions []entity.Auction) {
	sort.Slice(auctions, func(i, j int) bool {
		return auctions[i].EndTime.Before(auctions[j].EndTime)
	})
}
