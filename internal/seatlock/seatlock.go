// Package seatlock implements the advisory seat locks held in Redis while a
// purchase is in flight. The locks are a contention optimization only: they
// fast-fail the common racing case before the database is touched, but the
// seat ledger's uniqueness constraint remains the source of truth. Callers
// must treat any transport failure here as "no locks held" and proceed.
package seatlock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSeatsLocked is returned when another holder already locked at least one
// of the requested seats.
var ErrSeatsLocked = errors.New("seat(s) are locked by another purchase")

// Locker is the advisory lock contract. AcquireAll is all-or-nothing: on
// conflict no key acquired by the call remains set. ReleaseAll is idempotent
// and tolerates keys that already expired.
type Locker interface {
	AcquireAll(ctx context.Context, showID int64, seats []string, holder string, ttl time.Duration) error
	ReleaseAll(ctx context.Context, showID int64, seats []string) error
}

// acquireSeatsScript sets every key to the holder only if none of them exist.
// Running as a single script keeps the check-then-set atomic, so there is no
// partially-acquired state to roll back on conflict.
var acquireSeatsScript = redis.NewScript(`
    -- KEYS = seat lock keys (e.g. seat_lock:42:C7)
    -- ARGV = [holder, ttl seconds]

    for i = 1, #KEYS do
        if redis.call("EXISTS", KEYS[i]) == 1 then
            return {err = "seat already locked"}
        end
    end

    for i = 1, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
    end

    return "OK"
`)

type RedisLocker struct {
	redis redis.UniversalClient
}

func NewRedisLocker(client redis.UniversalClient) *RedisLocker {
	return &RedisLocker{
		redis: client,
	}
}

func (l *RedisLocker) AcquireAll(
	ctx context.Context,
	showID int64,
	seats []string,
	holder string,
	ttl time.Duration) error {

	keys := lockKeys(showID, seats)

	err := acquireSeatsScript.Run(ctx, l.redis, keys, holder, int(ttl.Seconds())).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "seat already locked") {
			return ErrSeatsLocked
		}

		return err
	}

	return nil
}

func (l *RedisLocker) ReleaseAll(ctx context.Context, showID int64, seats []string) error {
	if len(seats) == 0 {
		return nil
	}

	return l.redis.Del(ctx, lockKeys(showID, seats)...).Err()
}

// lockKeys returns the keys in a fixed order so that two callers racing over
// overlapping seat sets always observe conflicts deterministically.
func lockKeys(showID int64, seats []string) []string {
	sorted := make([]string, len(seats))
	copy(sorted, seats)
	sort.Strings(sorted)

	keys := make([]string, len(sorted))
	for i, seat := range sorted {
		keys[i] = seatLockKey(showID, seat)
	}

	return keys
}

func seatLockKey(showID int64, seat string) string {
	return fmt.Sprintf("seat_lock:%d:%s", showID, seat)
}

// NoopLocker is the degraded-mode variant used when no Redis is configured.
// It never reports a conflict; the ledger carries the full load.
type NoopLocker struct{}

func (NoopLocker) AcquireAll(context.Context, int64, []string, string, time.Duration) error {
	return nil
}

func (NoopLocker) ReleaseAll(context.Context, int64, []string) error {
	return nil
}
