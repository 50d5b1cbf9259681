package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/livefeed"
	"auction-management-api/internal/repo"
	"auction-management-api/internal/repo/memdb"
	"auction-management-api/internal/service"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var (
	windowStart = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	windowEnd   = windowStart.Add(2 * time.Hour)
	midWindow   = windowStart.Add(time.Hour)
	afterEnd    = windowEnd.Add(time.Minute)
)

// fixture seeds one farmer with a product, a second farmer, a buyer, a
// contractor and an admin into a shared in-memory store. Services built from
// it run against a pinned clock, so every lifecycle decision is deterministic.
type fixture struct {
	store       *memdb.MemoryStore
	farmer      entity.User
	otherFarmer entity.User
	buyer       entity.User
	contractor  entity.User
	admin       entity.User
	product     entity.Product
}

func newFixture() *fixture {
	f := &fixture{
		store:       memdb.NewMemoryStore(),
		farmer:      entity.User{Id: uuid.New(), Username: "ramesh", Role: entity.RoleFarmer},
		otherFarmer: entity.User{Id: uuid.New(), Username: "suresh", Role: entity.RoleFarmer},
		buyer:       entity.User{Id: uuid.New(), Username: "anita", Role: entity.RoleUser},
		contractor:  entity.User{Id: uuid.New(), Username: "vikram", Role: entity.RoleContractor},
		admin:       entity.User{Id: uuid.New(), Username: "admin", Role: entity.RoleAdmin},
	}
	f.product = entity.Product{
		Id:       uuid.New(),
		FarmerId: f.farmer.Id,
		Name:     "Basmati Rice",
		Category: "grains",
		Stock:    500,
		Organic:  true,
	}

	for _, user := range []entity.User{f.farmer, f.otherFarmer, f.buyer, f.contractor, f.admin} {
		f.store.AddUser(user)
	}
	f.store.AddProduct(f.product)

	return f
}

// services builds the full service layer over the fixture's store with the
// clock pinned at now. The live feed is built without a Redis client, which
// disables it, matching a local run without Redis.
func (f *fixture) services(now time.Time) *service.Services {
	return service.NewServices(repo.NewMemoryRepositories(f.store), fixedClock{now: now}, livefeed.New(nil, "", "", 0))
}

func (f *fixture) createInput() *entity.CreateAuctionInput {
	return &entity.CreateAuctionInput{
		ProductId:       f.product.Id.String(),
		FarmerId:        f.farmer.Id.String(),
		StartingPrice:   100,
		MinBidIncrement: 10,
		StartTime:       windowStart,
		EndTime:         windowEnd,
	}
}

func (f *fixture) createLiveAuction(t *testing.T) *entity.AuctionOutputModel {
	t.Helper()

	auction, err := f.services(midWindow).Auction.CreateAuction(context.Background(), f.createInput())
	require.NoError(t, err)
	require.Equal(t, string(entity.StatusLive), auction.Status)

	return auction
}
