package controller_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo"
	"github.com/stretchr/testify/require"

	"auction-management-api/internal/controller"
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

type testServer struct {
	echo    *echo.Echo
	farmer  entity.User
	buyer   entity.User
	auction uuid.UUID
}

// newTestServer wires the real routing, validation, service and in-memory
// repository layers together behind one live auction at currentBid=100,
// minBidIncrement=10.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memdb.NewMemoryStore()
	farmer := entity.User{Id: uuid.New(), Username: "ramesh", Role: entity.RoleFarmer}
	buyer := entity.User{Id: uuid.New(), Username: "anita", Role: entity.RoleUser}
	store.AddUser(farmer)
	store.AddUser(buyer)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	auctionId, err := store.CreateAuction(context.Background(), &entity.CreateAuctionInput{
		ProductId:       uuid.NewString(),
		FarmerId:        farmer.Id.String(),
		StartingPrice:   100,
		MinBidIncrement: 10,
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		Status:          entity.StatusLive,
	})
	require.NoError(t, err)

	services := service.NewServices(
		repo.NewMemoryRepositories(store),
		fixedClock{now: start.Add(time.Hour)},
		livefeed.New(nil, "", "", 0),
	)

	handler := echo.New()
	controller.SetupRoutesHandlers(handler, services)

	return &testServer{echo: handler, farmer: farmer, buyer: buyer, auction: auctionId}
}

func (s *testServer) do(method string, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	return rec
}

func bidBody(auctionId string, bidderId string, amount int64) string {
	return fmt.Sprintf(`{"auctionId":%q,"bidderId":%q,"amount":%d}`, auctionId, bidderId, amount)
}

func TestPostBid(t *testing.T) {
	t.Parallel()

	t.Run("accepted bid returns the created record", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/bids/new", bidBody(s.auction.String(), s.buyer.Id.String(), 110))
		require.Equal(t, http.StatusOK, rec.Code)

		var bid entity.BidOutputModel
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bid))
		require.Equal(t, int64(110), bid.Amount)
		require.Equal(t, s.buyer.Id.String(), bid.BidderId)
	})

	t.Run("below minimum is a bad request", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/bids/new", bidBody(s.auction.String(), s.buyer.Id.String(), 105))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("owner bidding is forbidden", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/bids/new", bidBody(s.auction.String(), s.farmer.Id.String(), 110))
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown bidder is unauthorized", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/bids/new", bidBody(s.auction.String(), uuid.NewString(), 110))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown auction is not found", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/bids/new", bidBody(uuid.NewString(), s.buyer.Id.String(), 110))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		t.Parallel()

		s := newTestServer(t)
		rec := s.do(http.MethodPost, "/api/bids/new", `{"amount":110}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAuctionBids(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/bids/new", bidBody(s.auction.String(), s.buyer.Id.String(), 110))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/bids/"+s.auction.String()+"/list", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var bids []entity.BidOutputModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bids))
	require.Len(t, bids, 1)
	require.Equal(t, int64(110), bids[0].Amount)
}

func TestGetAuctionLiveStateEndpoint(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/auctions/"+s.auction.String()+"/live", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var state entity.AuctionLiveStateOutputModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Equal(t, string(entity.StatusLive), state.Status)
	require.Equal(t, int64(110), state.MinNextBid)
	require.Equal(t, int64(3600), state.RemainingSeconds)
}

func TestCloseAuctionEndpointBeforeEnd(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	rec := s.do(http.MethodPut, "/api/auctions/"+s.auction.String()+"/close", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
