package services

import (
	portsrepo "github.com/fingrid-labs/gl_core/internal/core/ports/repositories"
	portssvc "github.com/fingrid-labs/gl_core/internal/core/ports/services"
	"github.com/fingrid-labs/gl_core/internal/platform/clock"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, clk clock.Clock) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.SegmentType = NewSegmentTypeService(repos.SegmentTypeRepo, clk)
	container.SegmentValue = NewSegmentValueService(repos.SegmentValueRepo, repos.SegmentTypeRepo, clk)
	container.Combination = NewCombinationService(repos.CombinationRepo, repos.SegmentTypeRepo, repos.SegmentValueRepo, clk)
	container.Period = NewPeriodService(repos.PeriodRepo)

	// The entry engine leans on the combination interner and the period gate.
	container.Entry = NewEntryService(repos.EntryRepo, container.Combination, container.Period, clk)

	return container
}
