package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	appointmentRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/appointment"
	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments/models"
)

// Service сервис жизненного цикла записей: подтверждение, завершение,
// отклонение, отмена и назначение техников.
// Переходы, освобождающие слоты (reject, cancel), выполняются в транзакции:
// запись блокируется FOR UPDATE, ledger уменьшается на каждую уникальную дату
// услуг, смена статуса и снятие резервов атомарны.
type Service struct {
	appointmentRepo AppointmentRepository
	capacityRepo    CapacityRepository
	technicianRepo  TechnicianRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	capacityRepo CapacityRepository,
	technicianRepo TechnicianRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		capacityRepo:    capacityRepo,
		technicianRepo:  technicianRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает запись по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d", id)

	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(apt), nil
}

// GetForCustomer получает запись по ID с проверкой принадлежности:
// телефон должен совпадать с указанным при создании записи
func (s *Service) GetForCustomer(ctx context.Context, id int64, phone string) (*models.AppointmentResponse, error) {
	s.logger.Info("GetForCustomer: fetching appointment id=%d", id)

	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetForCustomer: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetForCustomer: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetForCustomer - repository error: %v", ErrInternal, err)
	}

	if apt.Phone != phone {
		s.logger.Warn("GetForCustomer: access denied to appointment id=%d", id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(apt), nil
}

// List получает записи с гибкой фильтрацией
// Поддерживает фильтрацию по статусу, периоду дат услуг, клиенту
// и включение отклоненных/отмененных записей
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d appointments", len(appointments))
	return models.FromDomainAppointmentList(appointments), nil
}

// Accept подтверждает запись (pending -> accepted)
// Опционально назначает техников: имена объединяются с уже назначенными,
// новые имена создают техников на лету
func (s *Service) Accept(ctx context.Context, id int64, req *models.AcceptAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Accept: accepting appointment id=%d, technicians=%d", id, len(req.TechnicianNames))

	var result *domain.Appointment

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		apt, err := s.getForUpdate(txCtx, "Accept", id)
		if err != nil {
			return err
		}

		if !apt.CanBeAccepted() {
			s.logger.Warn("Accept: appointment id=%d cannot be accepted, status=%s", id, apt.Status)
			return fmt.Errorf("%w: status=%s", ErrCannotAccept, apt.Status)
		}

		// Объединяем назначенных техников с новыми именами
		if len(req.TechnicianNames) > 0 {
			existing := make([]string, 0, len(apt.Technicians))
			for _, t := range apt.Technicians {
				existing = append(existing, t.Name)
			}
			merged := domain.MergeTechnicianNames(existing, req.TechnicianNames)

			if err := s.replaceTechnicians(txCtx, "Accept", apt, merged); err != nil {
				return err
			}
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusAccepted); err != nil {
			s.logger.Error("Accept: failed to update status for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Accept - repository error: %v", ErrInternal, err)
		}

		result = apt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Accept: successfully accepted appointment id=%d", id)
	return s.GetByID(ctx, result.ID)
}

// Complete завершает запись (accepted -> completed)
// Завершенная запись продолжает удерживать слоты своих дат
func (s *Service) Complete(ctx context.Context, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("Complete: completing appointment id=%d", id)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		apt, err := s.getForUpdate(txCtx, "Complete", id)
		if err != nil {
			return err
		}

		if !apt.CanBeCompleted() {
			s.logger.Warn("Complete: appointment id=%d cannot be completed, status=%s", id, apt.Status)
			return fmt.Errorf("%w: status=%s", ErrCannotComplete, apt.Status)
		}

		if err := s.appointmentRepo.UpdateStatus(txCtx, id, domain.StatusCompleted); err != nil {
			s.logger.Error("Complete: failed to update status for appointment id=%d: %v", id, err)
			return fmt.Errorf("%w: Complete - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Complete: successfully completed appointment id=%d", id)
	return s.GetByID(ctx, id)
}

// Reject отклоняет запись администратором и освобождает её слоты
func (s *Service) Reject(ctx context.Context, id int64, req *models.RejectAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Reject: rejecting appointment id=%d", id)

	if err := s.deactivate(ctx, "Reject", id, domain.StatusRejected, req.Reason, ""); err != nil {
		return nil, err
	}

	s.logger.Info("Reject: successfully rejected appointment id=%d", id)
	return s.GetByID(ctx, id)
}

// Cancel отменяет запись клиентом и освобождает её слоты.
// Отмена разрешена только владельцу: телефон запроса сверяется с телефоном записи
func (s *Service) Cancel(ctx context.Context, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d", id)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for appointment id=%d", id)
		return nil, fmt.Errorf("%w: cancellation reason exceeds %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	if err := s.deactivate(ctx, "Cancel", id, domain.StatusCancelled, req.CancellationReason, req.Phone); err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled appointment id=%d", id)
	return s.GetByID(ctx, id)
}

// AssignTechnicians заменяет состав техников записи
// Имена нормализуются (регистронезависимая дедупликация), новые имена
// создают техников на лету
func (s *Service) AssignTechnicians(ctx context.Context, id int64, req *models.AssignTechniciansRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("AssignTechnicians: assigning %d technicians to appointment id=%d", len(req.TechnicianNames), id)

	names := domain.NormalizeTechnicianNames(req.TechnicianNames)
	if len(names) == 0 {
		s.logger.Warn("AssignTechnicians: no valid technician names for appointment id=%d", id)
		return nil, ErrNoTechnicians
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		apt, err := s.getForUpdate(txCtx, "AssignTechnicians", id)
		if err != nil {
			return err
		}

		if apt.IsTerminal() {
			s.logger.Warn("AssignTechnicians: appointment id=%d is terminal, status=%s", id, apt.Status)
			return fmt.Errorf("%w: status=%s", ErrTerminalStatus, apt.Status)
		}

		return s.replaceTechnicians(txCtx, "AssignTechnicians", apt, names)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("AssignTechnicians: successfully assigned technicians to appointment id=%d", id)
	return s.GetByID(ctx, id)
}

// Вспомогательные методы

// deactivate переводит активную запись в rejected/cancelled и возвращает
// слоты всех её уникальных дат в ledger.
// Непустой ownerPhone означает отмену клиентом: телефон сверяется с записью,
// а cancelled_by выставляется из самой записи, не со слов клиента
func (s *Service) deactivate(
	ctx context.Context,
	op string,
	id int64,
	status domain.AppointmentStatus,
	reason string,
	ownerPhone string,
) error {
	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		apt, err := s.getForUpdate(txCtx, op, id)
		if err != nil {
			return err
		}

		var cancelledBy *int64
		if ownerPhone != "" {
			if apt.Phone != ownerPhone {
				s.logger.Warn("%s: access denied to appointment id=%d", op, id)
				return ErrAccessDenied
			}
			cancelledBy = &apt.CustomerID
		}

		if !apt.CanBeCancelled() {
			s.logger.Warn("%s: appointment id=%d cannot be deactivated, status=%s", op, id, apt.Status)
			return fmt.Errorf("%w: status=%s", ErrCannotCancel, apt.Status)
		}

		if err := s.appointmentRepo.Cancel(txCtx, id, status, reason, cancelledBy); err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return ErrAppointmentNotFound
			}
			s.logger.Error("%s: failed to deactivate appointment id=%d: %v", op, id, err)
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		// Снимаем резервы со всех уникальных дат услуг
		for _, date := range apt.ServiceDates() {
			if err := s.capacityRepo.Release(txCtx, date); err != nil {
				s.logger.Error("%s: failed to release date %s for appointment id=%d: %v", op, date, id, err)
				return fmt.Errorf("%w: %s - failed to release date: %v", ErrInternal, op, err)
			}
		}

		return nil
	})
}

// getForUpdate читает запись внутри транзакции (строка блокируется FOR UPDATE)
func (s *Service) getForUpdate(ctx context.Context, op string, id int64) (*domain.Appointment, error) {
	apt, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("%s: appointment id=%d not found", op, id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("%s: repository error for appointment id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return apt, nil
}

// replaceTechnicians апсертит имена и заменяет назначение на записи
func (s *Service) replaceTechnicians(ctx context.Context, op string, apt *domain.Appointment, names []string) error {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		tech, err := s.technicianRepo.UpsertByName(ctx, name)
		if err != nil {
			s.logger.Error("%s: failed to upsert technician %q: %v", op, name, err)
			return fmt.Errorf("%w: %s - failed to upsert technician: %v", ErrInternal, op, err)
		}
		ids = append(ids, tech.ID)
	}

	if err := s.appointmentRepo.ReplaceTechnicians(ctx, apt.ID, ids); err != nil {
		s.logger.Error("%s: failed to replace technicians for appointment id=%d: %v", op, apt.ID, err)
		return fmt.Errorf("%w: %s - failed to replace technicians: %v", ErrInternal, op, err)
	}

	return nil
}
