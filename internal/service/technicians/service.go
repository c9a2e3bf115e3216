package technicians

import (
	"context"
	"fmt"
)

// Service сервис справочника техников
type Service struct {
	technicianRepo TechnicianRepository
	logger         Logger
}

// NewService создает новый экземпляр сервиса техников
func NewService(technicianRepo TechnicianRepository, logger Logger) *Service {
	return &Service{
		technicianRepo: technicianRepo,
		logger:         logger,
	}
}

// TechnicianResponse ответ с данными техника
type TechnicianResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// List возвращает всех техников справочника
func (s *Service) List(ctx context.Context) ([]TechnicianResponse, error) {
	techs, err := s.technicianRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	resp := make([]TechnicianResponse, 0, len(techs))
	for _, t := range techs {
		resp = append(resp, TechnicianResponse{ID: t.ID, Name: t.Name})
	}

	s.logger.Info("List: successfully fetched %d technicians", len(techs))
	return resp, nil
}
