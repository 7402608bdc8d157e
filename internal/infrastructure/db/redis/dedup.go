package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Telegram gives up redelivering an update well within a day.
const dedupTTL = 24 * time.Hour

// UpdateDeduper provides update_id idempotency backed by Redis.
// Key format: tg:update:<update_id>
type UpdateDeduper struct {
	client *redis.Client
}

func NewUpdateDeduper(client *redis.Client) *UpdateDeduper {
	return &UpdateDeduper{client: client}
}

// IsDuplicate reports whether this update has already been handled.
func (d *UpdateDeduper) IsDuplicate(ctx context.Context, updateID int64) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(updateID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this update has been handled (expires after dedupTTL).
func (d *UpdateDeduper) Mark(ctx context.Context, updateID int64) error {
	return d.client.Set(ctx, d.key(updateID), "1", dedupTTL).Err()
}

func (d *UpdateDeduper) key(updateID int64) string {
	return "tg:update:" + strconv.FormatInt(updateID, 10)
}
