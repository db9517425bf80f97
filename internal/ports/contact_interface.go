package ports

import (
	"contacts-web-server/internal/model"
	"context"
)

// ContactRepository : SQL слой. Все выборки ограничены владельцем.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) (*model.Contact, error)
	GetByID(ctx context.Context, id int64, userUUID string) (*model.Contact, error)
	List(ctx context.Context, userUUID string, limit, offset int) ([]model.Contact, error)
	Update(ctx context.Context, contact *model.Contact) (*model.Contact, error)
	Delete(ctx context.Context, id int64, userUUID string) (bool, error)
	Search(ctx context.Context, userUUID, query string, limit, offset int) ([]model.Contact, error)
	UpcomingBirthdays(ctx context.Context, userUUID string, days int) ([]model.Contact, error)
}

type ContactService interface {
	Create(ctx context.Context, userUUID string, contact *model.Contact) (*model.Contact, error)
	Get(ctx context.Context, userUUID string, id int64) (*model.Contact, error)
	List(ctx context.Context, userUUID string, limit, offset int) ([]model.Contact, error)
	Update(ctx context.Context, userUUID string, id int64, apply func(*model.Contact)) (*model.Contact, error)
	Delete(ctx context.Context, userUUID string, id int64) error
	Search(ctx context.Context, userUUID, query string, limit, offset int) ([]model.Contact, error)
	UpcomingBirthdays(ctx context.Context, userUUID string, days int) ([]model.Contact, error)
}
