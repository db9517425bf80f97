package ports

import "context"

// Mailer : внешняя отправка писем. Вызывается в фоне,
// ошибки логируются и никогда не роняют вызывающую операцию.
type Mailer interface {
	SendConfirmation(email, username, baseURL string) error
	SendPasswordReset(email, username, baseURL, token string) error
}

// AvatarLookup : best-effort поиск аватара по email
type AvatarLookup interface {
	Lookup(email string) (url string, ok bool)
}

// AvatarStorage : объектное хранилище для загруженных аватаров
type AvatarStorage interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
