package repository

import (
	"contacts-web-server/config"
	"contacts-web-server/internal/model"
	"contacts-web-server/internal/util"
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

const contactColumns = `id, first_name, last_name, email, COALESCE(phone, '') AS phone, birthday,
	COALESCE(optional_data, '') AS optional_data, user_uuid, created_at, updated_at`

type ContactRepository struct {
	*config.Database
}

func NewContactRepository(database *config.Database) *ContactRepository {
	return &ContactRepository{database}
}

// Create : сохраняет новый контакт
func (r *ContactRepository) Create(ctx context.Context, contact *model.Contact) (*model.Contact, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone, birthday, optional_data, user_uuid)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + contactColumns

	created := &model.Contact{}
	err := r.DB.QueryRowxContext(ctx, query,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Birthday,
		contact.OptionalData,
		contact.UserUUID,
	).StructScan(created)
	if err != nil {
		return nil, util.LogError("[ContactRepo] ошибка вставки данных в БД", err)
	}

	return created, nil
}

// GetByID : контакт доступен только своему владельцу, (nil, nil) если не найден
func (r *ContactRepository) GetByID(ctx context.Context, id int64, userUUID string) (*model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_uuid = $2`

	var contact model.Contact
	err := sqlx.GetContext(ctx, r.DB, &contact, query, id, userUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[ContactRepo] не удалось найти контакт", err)
	}
	return &contact, nil
}

func (r *ContactRepository) List(ctx context.Context, userUUID string, limit, offset int) ([]model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_uuid = $1 ORDER BY id LIMIT $2 OFFSET $3`

	var contacts []model.Contact
	if err := sqlx.SelectContext(ctx, r.DB, &contacts, query, userUUID, limit, offset); err != nil {
		return nil, util.LogError("[ContactRepo] не удалось получить список контактов", err)
	}
	return contacts, nil
}

func (r *ContactRepository) Update(ctx context.Context, contact *model.Contact) (*model.Contact, error) {
	query := `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone = $6, birthday = $7,
			optional_data = $8, updated_at = NOW()
		WHERE id = $1 AND user_uuid = $2
		RETURNING ` + contactColumns

	updated := &model.Contact{}
	err := r.DB.QueryRowxContext(ctx, query,
		contact.ID,
		contact.UserUUID,
		contact.FirstName,
		contact.LastName,
		contact.Email,
		contact.Phone,
		contact.Birthday,
		contact.OptionalData,
	).StructScan(updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[ContactRepo] не удалось обновить контакт", err)
	}
	return updated, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int64, userUUID string) (bool, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1 AND user_uuid = $2`, id, userUUID)
	if err != nil {
		return false, util.LogError("[ContactRepo] не удалось удалить контакт", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return false, util.LogError("[ContactRepo] не удалось проверить удаление", err)
	}
	return deleted > 0, nil
}

// Search : поиск по имени, фамилии и email без учета регистра
func (r *ContactRepository) Search(ctx context.Context, userUUID, searchQuery string, limit, offset int) ([]model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_uuid = $1
			AND (first_name ILIKE '%' || $2 || '%'
				OR last_name ILIKE '%' || $2 || '%'
				OR email ILIKE '%' || $2 || '%')
		ORDER BY id LIMIT $3 OFFSET $4`

	var contacts []model.Contact
	if err := sqlx.SelectContext(ctx, r.DB, &contacts, query, userUUID, searchQuery, limit, offset); err != nil {
		return nil, util.LogError("[ContactRepo] ошибка поиска контактов", err)
	}
	return contacts, nil
}

// UpcomingBirthdays : дни рождения в ближайшие days дней. Год рождения
// игнорируется, сравниваются дни года; 29 февраля считается с погрешностью
// в день.
func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, userUUID string, days int) ([]model.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_uuid = $1
			AND (EXTRACT(DOY FROM birthday)::int - EXTRACT(DOY FROM CURRENT_DATE)::int + 365) % 365 <= $2
		ORDER BY (EXTRACT(DOY FROM birthday)::int - EXTRACT(DOY FROM CURRENT_DATE)::int + 365) % 365`

	var contacts []model.Contact
	if err := sqlx.SelectContext(ctx, r.DB, &contacts, query, userUUID, days); err != nil {
		return nil, util.LogError("[ContactRepo] не удалось получить дни рождения", err)
	}
	return contacts, nil
}
