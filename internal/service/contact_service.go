package service

import (
	"contacts-web-server/internal/apperror"
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/ports"
	"context"
	"fmt"
)

const (
	defaultContactLimit  = 10
	maxContactLimit      = 100
	defaultBirthdaysDays = 7
)

// ContactService : CRUD над контактами, каждый запрос ограничен владельцем
type ContactService struct {
	contactRepository ports.ContactRepository
}

func NewContactService(contactRepository ports.ContactRepository) *ContactService {
	return &ContactService{contactRepository}
}

func (s *ContactService) Create(ctx context.Context, userUUID string, contact *model.Contact) (*model.Contact, error) {
	contact.UserUUID = userUUID
	return s.contactRepository.Create(ctx, contact)
}

func (s *ContactService) Get(ctx context.Context, userUUID string, id int64) (*model.Contact, error) {
	contact, err := s.contactRepository.GetByID(ctx, id, userUUID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, fmt.Errorf("контакт %d: %w", id, apperror.ErrNotFound)
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, userUUID string, limit, offset int) ([]model.Contact, error) {
	return s.contactRepository.List(ctx, userUUID, clampLimit(limit), max(offset, 0))
}

// Update применяет частичное изменение поверх текущей версии контакта
func (s *ContactService) Update(ctx context.Context, userUUID string, id int64, apply func(*model.Contact)) (*model.Contact, error) {
	contact, err := s.Get(ctx, userUUID, id)
	if err != nil {
		return nil, err
	}

	apply(contact)

	updated, err := s.contactRepository.Update(ctx, contact)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("контакт %d: %w", id, apperror.ErrNotFound)
	}
	return updated, nil
}

func (s *ContactService) Delete(ctx context.Context, userUUID string, id int64) error {
	deleted, err := s.contactRepository.Delete(ctx, id, userUUID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("контакт %d: %w", id, apperror.ErrNotFound)
	}
	return nil
}

func (s *ContactService) Search(ctx context.Context, userUUID, query string, limit, offset int) ([]model.Contact, error) {
	return s.contactRepository.Search(ctx, userUUID, query, clampLimit(limit), max(offset, 0))
}

func (s *ContactService) UpcomingBirthdays(ctx context.Context, userUUID string, days int) ([]model.Contact, error) {
	if days <= 0 {
		days = defaultBirthdaysDays
	}
	return s.contactRepository.UpcomingBirthdays(ctx, userUUID, days)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultContactLimit
	}
	if limit > maxContactLimit {
		return maxContactLimit
	}
	return limit
}
