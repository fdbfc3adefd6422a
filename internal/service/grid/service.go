package grid

import (
	"cluster_backend/internal/repository"
	"cluster_backend/internal/service"
	"cluster_backend/internal/service/grid/engine"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type serv struct {
	engine      *engine.Engine
	userRepo    repository.UserRepository
	historyRepo repository.SpinHistoryRepository
	txManager   trm.Manager
}

// NewGridService Создать сервис кластерного слота 6x5
func NewGridService(
	eng *engine.Engine,
	userRepo repository.UserRepository,
	historyRepo repository.SpinHistoryRepository,
	txManager trm.Manager,
) service.GridService {
	return &serv{
		engine:      eng,
		userRepo:    userRepo,
		historyRepo: historyRepo,
		txManager:   txManager,
	}
}
