package controller

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/service"
)

type bidRoutesHandler struct {
	biddingService service.Bidding
	validate       *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{biddingService: services.Bidding, validate: v}
	outer.POST("/bids/new", h.PostBid)
	outer.GET("/bids/my", h.GetUserBids)
	outer.GET("/bids/:auctionId/list", h.GetAuctionBids)

	return h
}

type postBidInput struct {
	AuctionId string `json:"auctionId" validate:"required"`
	BidderId  string `json:"bidderId" validate:"required"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	model := &entity.PlaceBidInput{
		AuctionId: input.AuctionId, BidderId: input.BidderId, Amount: input.Amount,
	}

	bid, err := h.biddingService.PlaceBid(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, bid); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given id"}); e != nil {
			return e
		}
	case service.ErrRoleCanNotBid, service.ErrUnknownRole:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only users and contractors can place bids"}); e != nil {
			return e
		}
	case service.ErrAuctionNotLive:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Auction is not live"}); e != nil {
			return e
		}
	case service.ErrSelfBidAsOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Auction owner can't bid on own auction"}); e != nil {
			return e
		}
	case service.ErrBelowMinimum:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Bid amount is below current bid plus minimum increment"}); e != nil {
			return e
		}
	case service.ErrNonPositiveAmount:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Bid amount must be positive"}); e != nil {
			return e
		}
	case service.ErrLostRace:
		if e := c.JSON(http.StatusConflict, errorResponse{"A concurrent higher bid was accepted first"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getUserBidsInput struct {
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
	BidderId string `query:"bidderId" validate:"required"`
}

// /bids/my
func (h *bidRoutesHandler) GetUserBids(c echo.Context) error {
	input := getUserBidsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.biddingService.GetUserBids(c.Request().Context(), input.BidderId, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getAuctionBidsInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /bids/:auctionId/list
func (h *bidRoutesHandler) GetAuctionBids(c echo.Context) error {
	input := getAuctionBidsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.biddingService.GetAuctionBids(c.Request().Context(), c.Param("auctionId"), pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
