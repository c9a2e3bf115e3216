package capacity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/dbmetrics"
	"github.com/bookaircon/ACS-SchedulingService/pkg/psqlbuilder"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// Repository репозиторий capacity ledger - счетчиков занятых слотов по датам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория capacity ledger
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Reserve атомарно занимает один слот на дату.
// Условный UPSERT: строка создается при первом резерве, инкремент проходит
// только пока committed < maximum - конкурентные вызовы сериализуются на
// уровне PostgreSQL, и на последний свободный слот выигрывает ровно один.
// Возвращает ErrCapacityExceeded, если свободных слотов не осталось;
// состояние ledger при этом не меняется.
func (r *Repository) Reserve(ctx context.Context, date types.CalendarDate, maximum int) (*domain.DateCapacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("date_capacity").
		Columns("slot_date", "committed", "maximum").
		Values(date, 1, maximum).
		Suffix(`ON CONFLICT (slot_date) DO UPDATE
			SET committed = date_capacity.committed + 1, updated_at = NOW()
			WHERE date_capacity.committed < date_capacity.maximum
			RETURNING committed, maximum`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - build upsert query: %v", ErrBuildQuery, err)
	}

	result := domain.DateCapacity{Date: date}
	err = executor.QueryRowContext(ctx, query, args...).Scan(&result.Committed, &result.Maximum)
	if err == sql.ErrNoRows {
		// Условие committed < maximum не выполнилось - дата заполнена
		return nil, ErrCapacityExceeded
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Reserve - execute upsert: %v", ErrExecQuery, err)
	}

	return &result, nil
}

// Release освобождает один слот на дату (floor 0)
// Используется при отмене записи и при переносе услуги на другую дату
func (r *Repository) Release(ctx context.Context, date types.CalendarDate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("date_capacity").
		Set("committed", squirrel.Expr("GREATEST(committed - 1, 0)")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_date": date}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	// Отсутствие строки не ошибка: для даты просто не было резервов
	return nil
}

// Get возвращает состояние ledger для одной даты
// Возвращает ErrDateNotFound, если для даты еще не было резервов
func (r *Repository) Get(ctx context.Context, date types.CalendarDate) (*domain.DateCapacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "committed", "maximum").
		From("date_capacity").
		Where(squirrel.Eq{"slot_date": date}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var result domain.DateCapacity
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&result.Date, &result.Committed, &result.Maximum)
	if err == sql.ErrNoRows {
		return nil, ErrDateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan capacity: %v", ErrScanRow, err)
	}

	return &result, nil
}

// GetByDates возвращает состояние ledger для произвольного набора дат
// Даты без строки в ledger в результат не попадают (для них занято 0 слотов)
func (r *Repository) GetByDates(ctx context.Context, dates []types.CalendarDate) ([]*domain.DateCapacity, error) {
	if len(dates) == 0 {
		return []*domain.DateCapacity{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	dateArgs := make([]interface{}, len(dates))
	for i, d := range dates {
		dateArgs[i] = d
	}

	query, args, err := psqlbuilder.Select("slot_date", "committed", "maximum").
		From("date_capacity").
		Where(squirrel.Eq{"slot_date": dateArgs}).
		OrderBy("slot_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanCapacities(rows)
}

// ListBetween возвращает все строки ledger в диапазоне дат включительно
func (r *Repository) ListBetween(ctx context.Context, start, end types.CalendarDate) ([]*domain.DateCapacity, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_date", "committed", "maximum").
		From("date_capacity").
		Where(squirrel.GtOrEq{"slot_date": start}).
		Where(squirrel.LtOrEq{"slot_date": end}).
		OrderBy("slot_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListBetween - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBetween - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanCapacities(rows)
}

// scanCapacities сканирует результаты запроса в слайс строк ledger
func (r *Repository) scanCapacities(rows *sql.Rows) ([]*domain.DateCapacity, error) {
	capacities := make([]*domain.DateCapacity, 0)

	for rows.Next() {
		var c domain.DateCapacity
		if err := rows.Scan(&c.Date, &c.Committed, &c.Maximum); err != nil {
			return nil, fmt.Errorf("%w: scanCapacities - scan row: %v", ErrScanRow, err)
		}
		capacities = append(capacities, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanCapacities - rows error: %v", ErrScanRow, err)
	}

	return capacities, nil
}
