package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/dbmetrics"
	"github.com/bookaircon/ACS-SchedulingService/pkg/psqlbuilder"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// uniqueViolationCode код ошибки PostgreSQL для нарушения уникальности
const uniqueViolationCode = "23505"

var appointmentColumns = []string{
	"id",
	"customer_id",
	"customer_name",
	"phone",
	"email",
	"address",
	"status",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"idempotency_key",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями на обслуживание
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись вместе с вложенными услугами и AC-блоками.
// Предполагается вызов внутри транзакции (usecase create_booking резервирует
// слоты в той же транзакции, чтобы создание было все-или-ничего).
func (r *Repository) Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"customer_id",
			"customer_name",
			"phone",
			"email",
			"address",
			"status",
			"idempotency_key",
		).
		Values(
			apt.CustomerID,
			apt.CustomerName,
			apt.Phone,
			apt.Email,
			apt.Address,
			apt.Status,
			apt.IdempotencyKey,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&apt.ID, &createdAt, &updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateIdempotencyKey
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	apt.CreatedAt = createdAt.Time
	apt.UpdatedAt = updatedAt.Time

	for i := range apt.Services {
		if err := r.createService(ctx, executor, apt.ID, &apt.Services[i]); err != nil {
			return nil, err
		}
	}

	return apt, nil
}

func (r *Repository) createService(ctx context.Context, executor DBExecutor, appointmentID int64, svc *domain.AppointmentService) error {
	query, args, err := psqlbuilder.Insert("appointment_services").
		Columns("appointment_id", "service_type", "service_date").
		Values(appointmentID, svc.Type, svc.Date).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: createService - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&svc.ID); err != nil {
		return fmt.Errorf("%w: createService - execute insert: %v", ErrExecQuery, err)
	}
	svc.AppointmentID = appointmentID

	for i := range svc.ACUnits {
		unitQuery, unitArgs, err := psqlbuilder.Insert("service_ac_units").
			Columns("service_id", "ac_type").
			Values(svc.ID, svc.ACUnits[i].Type).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: createService - build unit insert: %v", ErrBuildQuery, err)
		}
		if err := executor.QueryRowContext(ctx, unitQuery, unitArgs...).Scan(&svc.ACUnits[i].ID); err != nil {
			return fmt.Errorf("%w: createService - execute unit insert: %v", ErrExecQuery, err)
		}
	}

	return nil
}

// GetByID получает запись по ID вместе с услугами, AC-блоками и техниками.
// Внутри транзакции строка записи блокируется (FOR UPDATE) - статусные
// переходы и перенос дат выполняются сервисами в транзакции.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	apt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.loadDetails(ctx, executor, []*domain.Appointment{apt}); err != nil {
		return nil, err
	}

	return apt, nil
}

// GetByIdempotencyKey находит запись по idempotency key клиента
// Используется для безопасного повтора create после таймаута
func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"idempotency_key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIdempotencyKey - build select query: %v", ErrBuildQuery, err)
	}

	apt, err := r.scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.loadDetails(ctx, executor, []*domain.Appointment{apt}); err != nil {
		return nil, err
	}

	return apt, nil
}

// ListWithFilter получает записи с фильтрацией по статусу, периоду дат услуг и клиенту
// Без фильтра статуса неактивные записи (rejected, cancelled) исключаются,
// если явно не запрошены через IncludeInactive
func (r *Repository) ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments")

	if filter.CustomerID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	// Фильтрация по периоду - по датам услуг внутри записи
	if filter.StartDate != nil && filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			`EXISTS (SELECT 1 FROM appointment_services s
				WHERE s.appointment_id = appointments.id
				AND s.service_date >= ? AND s.service_date <= ?)`,
			*filter.StartDate, *filter.EndDate))
	} else if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			`EXISTS (SELECT 1 FROM appointment_services s
				WHERE s.appointment_id = appointments.id AND s.service_date >= ?)`,
			*filter.StartDate))
	} else if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			`EXISTS (SELECT 1 FROM appointment_services s
				WHERE s.appointment_id = appointments.id AND s.service_date <= ?)`,
			*filter.EndDate))
	}

	query, args, err := selectBuilder.OrderBy("created_at DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments, err := r.scanAppointments(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadDetails(ctx, executor, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// UpdateStatus обновляет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// Cancel переводит запись в rejected/cancelled с причиной и автором отмены
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason string, cancelledBy *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_by", cancelledBy).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// UpdateServiceDate переносит услугу на новую дату
func (r *Repository) UpdateServiceDate(ctx context.Context, serviceID int64, newDate types.CalendarDate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointment_services").
		Set("service_date", newDate).
		Where(squirrel.Eq{"id": serviceID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateServiceDate - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateServiceDate - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateServiceDate - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrServiceNotFound
	}

	return nil
}

// ReplaceTechnicians заменяет набор назначенных техников
func (r *Repository) ReplaceTechnicians(ctx context.Context, appointmentID int64, technicianIDs []int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete("appointment_technicians").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceTechnicians - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceTechnicians - execute delete: %v", ErrExecQuery, err)
	}

	if len(technicianIDs) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("appointment_technicians").
		Columns("appointment_id", "technician_id")
	for _, techID := range technicianIDs {
		insertBuilder = insertBuilder.Values(appointmentID, techID)
	}

	insertQuery, insertArgs, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceTechnicians - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		return fmt.Errorf("%w: ReplaceTechnicians - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// loadDetails догружает услуги, AC-блоки и техников для набора записей
func (r *Repository) loadDetails(ctx context.Context, executor DBExecutor, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Appointment, len(appointments))
	ids := make([]int64, 0, len(appointments))
	for _, apt := range appointments {
		byID[apt.ID] = apt
		ids = append(ids, apt.ID)
	}

	services, err := r.loadServices(ctx, executor, ids)
	if err != nil {
		return err
	}
	for _, svc := range services {
		apt := byID[svc.AppointmentID]
		apt.Services = append(apt.Services, *svc)
	}

	return r.loadTechnicians(ctx, executor, byID, ids)
}

func (r *Repository) loadServices(ctx context.Context, executor DBExecutor, appointmentIDs []int64) ([]*domain.AppointmentService, error) {
	query, args, err := psqlbuilder.Select("id", "appointment_id", "service_type", "service_date").
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": appointmentIDs}).
		OrderBy("appointment_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.AppointmentService, 0)
	serviceByID := make(map[int64]*domain.AppointmentService)
	serviceIDs := make([]int64, 0)

	for rows.Next() {
		var svc domain.AppointmentService
		if err := rows.Scan(&svc.ID, &svc.AppointmentID, &svc.Type, &svc.Date); err != nil {
			return nil, fmt.Errorf("%w: loadServices - scan row: %v", ErrScanRow, err)
		}
		svc.ACUnits = make([]domain.ACUnit, 0, 1)
		services = append(services, &svc)
		serviceByID[svc.ID] = services[len(services)-1]
		serviceIDs = append(serviceIDs, svc.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadServices - rows error: %v", ErrScanRow, err)
	}

	if len(serviceIDs) == 0 {
		return services, nil
	}

	unitQuery, unitArgs, err := psqlbuilder.Select("id", "service_id", "ac_type").
		From("service_ac_units").
		Where(squirrel.Eq{"service_id": serviceIDs}).
		OrderBy("service_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: loadServices - build units query: %v", ErrBuildQuery, err)
	}

	unitRows, err := executor.QueryContext(ctx, unitQuery, unitArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: loadServices - execute units query: %v", ErrExecQuery, err)
	}
	defer unitRows.Close()

	for unitRows.Next() {
		var unit domain.ACUnit
		var serviceID int64
		if err := unitRows.Scan(&unit.ID, &serviceID, &unit.Type); err != nil {
			return nil, fmt.Errorf("%w: loadServices - scan unit row: %v", ErrScanRow, err)
		}
		if svc, ok := serviceByID[serviceID]; ok {
			svc.ACUnits = append(svc.ACUnits, unit)
		}
	}
	if err := unitRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: loadServices - unit rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

func (r *Repository) loadTechnicians(ctx context.Context, executor DBExecutor, byID map[int64]*domain.Appointment, appointmentIDs []int64) error {
	query, args, err := psqlbuilder.Select("at.appointment_id", "t.id", "t.name", "t.created_at").
		From("appointment_technicians at").
		Join("technicians t ON t.id = at.technician_id").
		Where(squirrel.Eq{"at.appointment_id": appointmentIDs}).
		OrderBy("at.appointment_id ASC", "t.name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadTechnicians - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadTechnicians - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID int64
		var tech domain.Technician
		if err := rows.Scan(&appointmentID, &tech.ID, &tech.Name, &tech.CreatedAt); err != nil {
			return fmt.Errorf("%w: loadTechnicians - scan row: %v", ErrScanRow, err)
		}
		if apt, ok := byID[appointmentID]; ok {
			apt.Technicians = append(apt.Technicians, tech)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadTechnicians - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var apt domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&apt.ID,
		&apt.CustomerID,
		&apt.CustomerName,
		&apt.Phone,
		&apt.Email,
		&apt.Address,
		&apt.Status,
		&apt.CancellationReason,
		&apt.CancelledBy,
		&apt.CancelledAt,
		&apt.IdempotencyKey,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanAppointment - scan: %v", ErrScanRow, err)
	}

	apt.CreatedAt = createdAt.Time
	apt.UpdatedAt = updatedAt.Time
	apt.Services = make([]domain.AppointmentService, 0, 1)
	apt.Technicians = make([]domain.Technician, 0)

	return &apt, nil
}

func (r *Repository) scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		apt, err := r.scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, apt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAppointments - rows error: %v", ErrScanRow, err)
	}

	return appointments, nil
}

// isUniqueViolation проверяет нарушение уникального ограничения PostgreSQL
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
