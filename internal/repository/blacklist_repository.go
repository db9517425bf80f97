package repository

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/util"
	"context"
	"fmt"
	"time"
)

// BlacklistRepository : черный список отозванных access-токенов в Redis.
// Клиент внедряется при старте процесса, никакого глобального состояния.
type BlacklistRepository struct {
	client *config.RedisClient
}

func NewBlacklistRepository(rdb *config.RedisClient) *BlacklistRepository {
	return &BlacklistRepository{rdb}
}

// Blacklist кладет токен с TTL, равным остатку его срока жизни —
// запись исчезает сама вместе с естественной просрочкой токена,
// список не растет бесконечно.
func (r *BlacklistRepository) Blacklist(ctx context.Context, rawToken string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // токен уже мертв, подпись отвергнет его и без нас
	}

	if err := r.client.Client.Set(ctx, r.key(rawToken), "1", ttl).Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	return nil
}

// IsBlacklisted проверяется на каждом аутентифицированном запросе
// до проверки подписи
func (r *BlacklistRepository) IsBlacklisted(ctx context.Context, rawToken string) (bool, error) {
	n, err := r.client.Client.Exists(ctx, r.key(rawToken)).Result()
	if err != nil {
		return false, util.LogError("ошибка чтения из Redis", err)
	}
	return n > 0, nil
}

func (r *BlacklistRepository) key(rawToken string) string {
	return fmt.Sprintf("bl:%s", rawToken)
}
