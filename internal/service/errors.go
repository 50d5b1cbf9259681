package service

import "errors"

var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")

	ErrAuctionNotLive    = errors.New("auction is not live")
	ErrSelfBidAsOwner    = errors.New("auction owner can't bid on own auction")
	ErrBelowMinimum      = errors.New("bid amount is below current bid plus minimum increment")
	ErrNonPositiveAmount = errors.New("bid amount must be positive")
	ErrLostRace          = errors.New("bid lost to a concurrent higher bid")

	ErrInvalidWindow  = errors.New("auction end time must be after its start time")
	ErrInvalidPricing = errors.New("starting price and minimum increment must be positive, reserve price can't be below starting price")

	ErrNotYetEnded    = errors.New("auction has not reached its end time")
	ErrAlreadyClosed  = errors.New("auction is already in a terminal state")
	ErrAuctionHasBids = errors.New("auction with accepted bids can't be cancelled")

	ErrRoleCanNotBid    = errors.New("only users and contractors can place bids")
	ErrRoleCanNotCreate = errors.New("only farmers and admins can create auctions")
	ErrNotProductOwner  = errors.New("product doesn't belong to the auction creator")
	ErrNotAuctionOwner  = errors.New("user has no rights to manage this auction")
	ErrUnknownRole      = errors.New("unknown role")
)
