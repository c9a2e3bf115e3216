package customer

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/dbmetrics"
	"github.com/bookaircon/ACS-SchedulingService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с клиентами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByPhone находит клиента по телефону или создает нового.
// Телефон - эффективная идентичность клиента при бронировании без логина;
// имя, email и адрес обновляются данными из последней заявки.
func (r *Repository) UpsertByPhone(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("customers").
		Columns("name", "phone", "email", "address").
		Values(c.Name, c.Phone, c.Email, c.Address).
		Suffix(`ON CONFLICT (phone) DO UPDATE
			SET name = EXCLUDED.name,
			    email = COALESCE(EXCLUDED.email, customers.email),
			    address = EXCLUDED.address,
			    updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - execute upsert: %v", ErrExecQuery, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return c, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "phone", "email", "address", "created_at", "updated_at").
		From("customers").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var c domain.Customer
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan customer: %v", ErrScanRow, err)
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}
