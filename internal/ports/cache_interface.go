package ports

import (
	"context"
	"time"
)

// BlacklistRepository : Redis слой. Отозванные access-токены живут в кэше
// ровно остаток своего срока, дальше их добивает обычная проверка подписи.
type BlacklistRepository interface {
	Blacklist(ctx context.Context, rawToken string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, rawToken string) (bool, error)
}
