package rooms

import (
	"context"
	"fmt"
	"strings"

	"github.com/itvlab/lab-scheduler/internal/domain"
)

// Service сервис комнат лаборатории
type Service struct {
	roomRepo  RoomRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса комнат
func NewService(roomRepo RoomRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		roomRepo:  roomRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// List возвращает все комнаты в порядке id
func (s *Service) List(ctx context.Context) ([]RoomResponse, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d rooms", len(rooms))
	return FromDomainRooms(rooms), nil
}

// Seed создает недостающие комнаты из списка имен в одной транзакции.
// Категория выводится из префикса "Geral ". Порядок списка задает порядок id.
func (s *Service) Seed(ctx context.Context, names []string) (int, error) {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return 0, fmt.Errorf("%w: empty room name", ErrInvalidInput)
		}
		if _, ok := seen[name]; ok {
			return 0, fmt.Errorf("%w: duplicate room name %q", ErrInvalidInput, name)
		}
		seen[name] = struct{}{}
	}

	created := 0
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		created = 0
		for _, name := range names {
			name = strings.TrimSpace(name)
			ok, err := s.roomRepo.CreateIfMissing(txCtx, name, domain.CategoryForName(name))
			if err != nil {
				return fmt.Errorf("create room %q: %v", name, err)
			}
			if ok {
				created++
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Seed: failed: %v", err)
		return 0, fmt.Errorf("%w: Seed - %v", ErrInternal, err)
	}

	if created > 0 {
		s.logger.Info("Seed: created %d rooms", created)
	}
	return created, nil
}
