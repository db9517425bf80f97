package service

import (
	"contacts-web-server/internal/ports"
	"context"
	"log"
	"time"
)

// TokenJanitor периодически удаляет мертвые refresh-токены: просроченные и
// отозванные дольше окна хранения. Чистая уборка — пропущенный или опоздавший
// запуск ни на какие инварианты не влияет, активные токены не трогаются.
type TokenJanitor struct {
	refreshTokens ports.RefreshTokenRepository
	interval      time.Duration
	retention     time.Duration
}

func NewTokenJanitor(refreshTokens ports.RefreshTokenRepository, interval, retention time.Duration) *TokenJanitor {
	return &TokenJanitor{
		refreshTokens: refreshTokens,
		interval:      interval,
		retention:     retention,
	}
}

// Start запускает уборку в отдельной горутине до отмены контекста
func (j *TokenJanitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("janitor остановлен")
				return
			case <-ticker.C:
				j.sweep(ctx)
			}
		}
	}()
}

func (j *TokenJanitor) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	deleted, err := j.refreshTokens.PurgeExpired(sweepCtx, j.retention)
	if err != nil {
		log.Printf("janitor: ошибка удаления токенов: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("janitor: удалено %d старых refresh-токенов", deleted)
	}
}
