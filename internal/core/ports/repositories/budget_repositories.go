package repositories

import (
	"context"

	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/utils/pagination"
)

// BudgetVersionReader defines read operations for budget versions
type BudgetVersionReader interface {
	// FindVersionByID retrieves a version of the project.
	FindVersionByID(ctx context.Context, scope domain.Scope, versionID string) (*domain.BudgetVersion, error)

	// FindVersionInOrg retrieves a version anywhere in the organization; used
	// to tell a cross-project reference apart from a missing one.
	FindVersionInOrg(ctx context.Context, orgID string, versionID string) (*domain.BudgetVersion, error)

	// ListVersions retrieves every version of the project ordered by creation.
	ListVersions(ctx context.Context, scope domain.Scope) ([]domain.BudgetVersion, error)
}

// BudgetVersionWriter defines write operations for budget versions
type BudgetVersionWriter interface {
	// SaveVersion persists a new version.
	SaveVersion(ctx context.Context, version domain.BudgetVersion) error

	// UpdateVersion writes settings, type, status and lock fields, conditional on Version.
	UpdateVersion(ctx context.Context, version domain.BudgetVersion) error
}

// BudgetVersionRepositoryFacade combines all budget version repository interfaces
type BudgetVersionRepositoryFacade interface {
	BudgetVersionReader
	BudgetVersionWriter
}

// BudgetLineReader defines read operations for budget lines
type BudgetLineReader interface {
	// FindLineByID retrieves a line of the project.
	FindLineByID(ctx context.Context, scope domain.Scope, lineID string) (*domain.BudgetLine, error)

	// ListLinesByVersion retrieves every line of a version ordered by sort order.
	ListLinesByVersion(ctx context.Context, scope domain.Scope, versionID string) ([]domain.BudgetLine, error)

	// ListLinesPage retrieves up to limit lines of a version strictly after the cursor.
	ListLinesPage(ctx context.Context, scope domain.Scope, versionID string, after *pagination.Cursor, limit int) ([]domain.BudgetLine, error)

	// ListLinesByNodes retrieves every line, of any version, attached to one of nodeIDs.
	ListLinesByNodes(ctx context.Context, scope domain.Scope, nodeIDs []string) ([]domain.BudgetLine, error)
}

// BudgetLineWriter defines write operations for budget lines
type BudgetLineWriter interface {
	// SaveLines persists new lines.
	SaveLines(ctx context.Context, lines []domain.BudgetLine) error

	// UpdateLine writes a line, conditional on Version.
	UpdateLine(ctx context.Context, line domain.BudgetLine) error

	// DeleteLines removes lines and their resources and returns how many lines were removed.
	DeleteLines(ctx context.Context, scope domain.Scope, lineIDs []string) (int64, error)
}

// BudgetLineRepositoryFacade combines all budget line repository interfaces
type BudgetLineRepositoryFacade interface {
	BudgetLineReader
	BudgetLineWriter
}

// BudgetResourceReader defines read operations for line resources
type BudgetResourceReader interface {
	// FindResourceByID retrieves a resource of the project.
	FindResourceByID(ctx context.Context, scope domain.Scope, resourceID string) (*domain.BudgetResource, error)

	// ListResourcesByLines retrieves the resources of the given lines.
	ListResourcesByLines(ctx context.Context, scope domain.Scope, lineIDs []string) ([]domain.BudgetResource, error)
}

// BudgetResourceWriter defines write operations for line resources
type BudgetResourceWriter interface {
	// SaveResources persists new resources.
	SaveResources(ctx context.Context, resources []domain.BudgetResource) error

	// UpdateResource writes a resource, conditional on Version.
	UpdateResource(ctx context.Context, resource domain.BudgetResource) error

	// DeleteResource removes one resource.
	DeleteResource(ctx context.Context, scope domain.Scope, resourceID string) error
}

// BudgetResourceRepositoryFacade combines all resource repository interfaces
type BudgetResourceRepositoryFacade interface {
	BudgetResourceReader
	BudgetResourceWriter
}
