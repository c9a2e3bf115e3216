package technician

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

// Repository репозиторий для работы с техниками
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория техников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByName находит техника по имени (без учета регистра) или создает нового.
// Админка назначает техников свободным вводом имени, поэтому запись минтится
// на лету; уникальность обеспечивается индексом по lower(name).
func (r *Repository) UpsertByName(ctx context.Context, name string) (*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("technicians").
		Columns("name").
		Values(name).
		Suffix(`ON CONFLICT (lower(name)) DO UPDATE SET name = technicians.name
			RETURNING id, name, created_at`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByName - build upsert query: %v", ErrBuildQuery, err)
	}

	var tech domain.Technician
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tech.ID, &tech.Name, &tech.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByName - execute upsert: %v", ErrExecQuery, err)
	}

	return &tech, nil
}

// GetByID получает техника по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "created_at").
		From("technicians").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var tech domain.Technician
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tech.ID, &tech.Name, &tech.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTechnicianNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan technician: %v", ErrScanRow, err)
	}

	return &tech, nil
}

// List возвращает всех техников, отсортированных по имени
func (r *Repository) List(ctx context.Context) ([]*domain.Technician, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "created_at").
		From("technicians").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	technicians := make([]*domain.Technician, 0)
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(&tech.ID, &tech.Name, &tech.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		technicians = append(technicians, &tech)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return technicians, nil
}
