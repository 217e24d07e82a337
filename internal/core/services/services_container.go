package services

import (
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gate portssvc.PermissionGate, publisher portssvc.EventPublisher, catalog portssvc.TemplateCatalog) *portssvc.ServiceContainer {
	// Every service checks the same gate and publishes to the same sink
	options := []ServiceOption{
		WithPermissionGate(gate),
		WithEventPublisher(publisher),
	}

	return &portssvc.ServiceContainer{
		Wbs:       NewWbsService(repos.UnitOfWork, catalog, options...),
		Versions:  NewBudgetVersionService(repos.UnitOfWork, options...),
		Lines:     NewBudgetLineService(repos.UnitOfWork, cfg.DefaultPageSize, options...),
		Rollups:   NewRollupService(repos.UnitOfWork, options...),
		Templates: catalog,
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.WbsSvcFacade           = (*WbsService)(nil)
	_ portssvc.BudgetVersionSvcFacade = (*BudgetVersionService)(nil)
	_ portssvc.BudgetLineSvcFacade    = (*BudgetLineService)(nil)
	_ portssvc.RollupSvcFacade        = (*RollupService)(nil)
)
