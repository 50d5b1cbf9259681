package livefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Feed publishes accepted bids to Redis so the polling/SSE presentation
// layer can follow a live auction without hitting Postgres on every tick.
// Each accepted bid updates a per-auction current-bid key (with TTL) and is
// appended to a stream for event consumers.
//
// The feed is strictly best effort and always written after the database
// transaction commits. A nil client disables it; callers check Enabled().
type Feed struct {
	client    *redis.Client
	keyPrefix string
	streamKey string
	ttl       time.Duration
}

func New(client *redis.Client, keyPrefix string, streamKey string, ttl time.Duration) *Feed {
	return &Feed{
		client:    client,
		keyPrefix: keyPrefix,
		streamKey: streamKey,
		ttl:       ttl,
	}
}

func (f *Feed) Enabled() bool {
	return f != nil && f.client != nil
}

func (f *Feed) currentBidKey(auctionId uuid.UUID) string {
	return fmt.Sprintf("%sauction:%s:current_bid", f.keyPrefix, auctionId)
}

// PublishAccepted records an accepted bid in the live feed.
func (f *Feed) PublishAccepted(ctx context.Context, auctionId uuid.UUID, bidderId uuid.UUID, amount int64, at time.Time) error {
	if !f.Enabled() {
		return nil
	}

	pipe := f.client.Pipeline()
	pipe.Set(ctx, f.currentBidKey(auctionId), amount, f.ttl)
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: f.streamKey,
		Values: map[string]any{
			"auction_id": auctionId.String(),
			"bidder_id":  bidderId.String(),
			"amount":     amount,
			"time":       at.Format(time.RFC3339),
		},
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("livefeed: failed to publish accepted bid for auction %s: %w", auctionId, err)
	}

	return nil
}

// CurrentBid returns the cached current bid for the auction. The second
// return value is false on a cache miss or when the feed is disabled;
// callers fall back to the database.
func (f *Feed) CurrentBid(ctx context.Context, auctionId uuid.UUID) (int64, bool, error) {
	if !f.Enabled() {
		return 0, false, nil
	}

	amount, err := f.client.Get(ctx, f.currentBidKey(auctionId)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}

		return 0, false, fmt.Errorf("livefeed: failed to read current bid for auction %s: %w", auctionId, err)
	}

	return amount, true, nil
}
