package controller

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/service"
)

type auctionRoutesHandler struct {
	auctionService service.Auction
	validate       *validator.Validate
}

func newAuctionRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *auctionRoutesHandler {
	h := &auctionRoutesHandler{auctionService: services.Auction, validate: v}
	outer.POST("/auctions/new", h.PostAuction)
	outer.GET("/auctions", h.GetOpenAuctions)
	outer.GET("/auctions/my", h.GetFarmerAuctions)

	outer.GET("/auctions/:auctionId", h.GetAuction)
	outer.GET("/auctions/:auctionId/live", h.GetAuctionLiveState)

	outer.PUT("/auctions/:auctionId/close", h.CloseAuction)
	outer.PUT("/auctions/:auctionId/cancel", h.CancelAuction)

	return h
}

type postAuctionInput struct {
	ProductId       string `json:"productId" validate:"required,uuid4_rfc4122|uuid_rfc4122"`
	FarmerId        string `json:"farmerId" validate:"required,uuid4_rfc4122|uuid_rfc4122"`
	StartingPrice   int64  `json:"startingPrice" validate:"required,gt=0"`
	ReservePrice    *int64 `json:"reservePrice" validate:"omitempty,gt=0"`
	MinBidIncrement int64  `json:"minBidIncrement" validate:"required,gt=0"`
	StartTime       string `json:"startTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime         string `json:"endTime" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// /auctions/new
func (h *auctionRoutesHandler) PostAuction(c echo.Context) error {
	var input postAuctionInput
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

	startTime, _ := time.Parse(time.RFC3339, input.StartTime)
	endTime, _ := time.Parse(time.RFC3339, input.EndTime)

	model := &entity.CreateAuctionInput{
		ProductId: input.ProductId, FarmerId: input.FarmerId,
		StartingPrice: input.StartingPrice, ReservePrice: input.ReservePrice,
		MinBidIncrement: input.MinBidIncrement,
		StartTime:       startTime, EndTime: endTime,
	}

	auction, err := h.auctionService.CreateAuction(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, auction); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrUserNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no user with given id"}); e != nil {
			return e
		}
	case service.ErrProductNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no product with given id"}); e != nil {
			return e
		}
	case service.ErrRoleCanNotCreate, service.ErrUnknownRole:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only farmers and admins can create auctions"}); e != nil {
			return e
		}
	case service.ErrNotProductOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Product belongs to another farmer"}); e != nil {
			return e
		}
	case service.ErrInvalidWindow:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Auction end time must be after its start time"}); e != nil {
			return e
		}
	case service.ErrInvalidPricing:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Starting price and increment must be positive, reserve can't be below starting price"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /auctions/:auctionId
func (h *auctionRoutesHandler) GetAuction(c echo.Context) error {
	auction, err := h.auctionService.GetAuctionById(c.Request().Context(), c.Param("auctionId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, auction); e != nil {
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

// /auctions/:auctionId/live
func (h *auctionRoutesHandler) GetAuctionLiveState(c echo.Context) error {
	state, err := h.auctionService.GetAuctionLiveState(c.Request().Context(), c.Param("auctionId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, state); e != nil {
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

type getOpenAuctionsInput struct {
	Limit  int32 `query:"limit" validate:"gte=0,lte=50"`
	Offset int32 `query:"offset" validate:"gte=0"`
}

// /auctions
func (h *auctionRoutesHandler) GetOpenAuctions(c echo.Context) error {
	input := getOpenAuctionsInput{Limit: defaultLimit, Offset: defaultOffset}
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
	auctions, err := h.auctionService.GetOpenAuctions(c.Request().Context(), pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, auctions); e != nil {
			return e
		}

		return nil
	}

	if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
		return e
	}

	return err
}

type getFarmerAuctionsInput struct {
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
	FarmerId string `query:"farmerId" validate:"required"`
}

// /auctions/my
func (h *auctionRoutesHandler) GetFarmerAuctions(c echo.Context) error {
	input := getFarmerAuctionsInput{Limit: defaultLimit, Offset: defaultOffset}
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
	auctions, err := h.auctionService.GetFarmerAuctions(c.Request().Context(), input.FarmerId, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, auctions); e != nil {
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

// /auctions/:auctionId/close
func (h *auctionRoutesHandler) CloseAuction(c echo.Context) error {
	closed, err := h.auctionService.CloseAuction(c.Request().Context(), c.Param("auctionId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, closed); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	case service.ErrNotYetEnded:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Auction has not reached its end time yet"}); e != nil {
			return e
		}
	case service.ErrAlreadyClosed:
		if e := c.JSON(http.StatusConflict, errorResponse{"Auction is already closed"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type cancelAuctionInput struct {
	ActorId string `json:"actorId" validate:"required"`
}

// /auctions/:auctionId/cancel
func (h *auctionRoutesHandler) CancelAuction(c echo.Context) error {
	var input cancelAuctionInput
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

	auction, err := h.auctionService.CancelAuction(c.Request().Context(), c.Param("auctionId"), input.ActorId)
	if err == nil {
		if e := c.JSON(http.StatusOK, auction); e != nil {
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
	case service.ErrNotAuctionOwner:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Only the owner or an admin can cancel an auction"}); e != nil {
			return e
		}
	case service.ErrAuctionHasBids:
		if e := c.JSON(http.StatusConflict, errorResponse{"Auction already has bids and can't be cancelled"}); e != nil {
			return e
		}
	case service.ErrAlreadyClosed:
		if e := c.JSON(http.StatusConflict, errorResponse{"Auction is already closed"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}
