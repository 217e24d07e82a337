package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	"github.com/simonbravin/bloqer/internal/utils/pagination"
)

var (
	_ portsrepo.WbsNodeRepositoryFacade        = (*nodeRepository)(nil)
	_ portsrepo.BudgetVersionRepositoryFacade  = (*versionRepository)(nil)
	_ portsrepo.BudgetLineRepositoryFacade     = (*lineRepository)(nil)
	_ portsrepo.BudgetResourceRepositoryFacade = (*resourceRepository)(nil)
	_ portsrepo.DomainEventWriter              = (*eventRepository)(nil)
)

func conflict(kind, id string, loaded, stored int64) error {
	return fmt.Errorf("%w: %s %s was modified (version %d, stored %d)", apperrors.ErrConflict, kind, id, loaded, stored)
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, kind, id)
}

type nodeRepository struct{ tx *txState }

func (r *nodeRepository) FindNodeByID(_ context.Context, scope domain.Scope, nodeID string) (*domain.WbsNode, error) {
	n, ok := r.tx.state.nodes[nodeID]
	if !ok || !inScope(scope, n.OrgID, n.ProjectID) {
		return nil, notFound("wbs node", nodeID)
	}
	c := cloneNode(n)
	return &c, nil
}

func (r *nodeRepository) ListNodes(_ context.Context, scope domain.Scope, includeInactive bool) ([]domain.WbsNode, error) {
	out := make([]domain.WbsNode, 0)
	for _, n := range r.tx.state.nodes {
		if !inScope(scope, n.OrgID, n.ProjectID) || (!n.Active && !includeInactive) {
			continue
		}
		out = append(out, cloneNode(n))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].NodeID < out[j].NodeID
	})
	return out, nil
}

func (r *nodeRepository) SaveNode(_ context.Context, node domain.WbsNode) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.state.nodes[node.NodeID]; exists {
		return fmt.Errorf("%w: wbs node %s", apperrors.ErrDuplicate, node.NodeID)
	}
	r.tx.state.nodes[node.NodeID] = cloneNode(node)
	return nil
}

func (r *nodeRepository) UpdateNodes(_ context.Context, nodes []domain.WbsNode) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	for _, n := range nodes {
		stored, ok := r.tx.state.nodes[n.NodeID]
		if !ok || !inScope(domain.Scope{OrgID: n.OrgID, ProjectID: n.ProjectID}, stored.OrgID, stored.ProjectID) {
			return notFound("wbs node", n.NodeID)
		}
		if stored.Version != n.Version {
			return conflict("wbs node", n.NodeID, n.Version, stored.Version)
		}
		next := cloneNode(n)
		next.CreatedAt, next.CreatedBy = stored.CreatedAt, stored.CreatedBy
		next.Version = stored.Version + 1
		r.tx.state.nodes[n.NodeID] = next
	}
	return nil
}

func (r *nodeRepository) DeleteNodes(_ context.Context, scope domain.Scope, nodeIDs []string) (int64, error) {
	if err := r.tx.writable(); err != nil {
		return 0, err
	}
	var deleted int64
	for _, id := range nodeIDs {
		n, ok := r.tx.state.nodes[id]
		if !ok || !inScope(scope, n.OrgID, n.ProjectID) {
			continue
		}
		delete(r.tx.state.nodes, id)
		deleted++
	}
	return deleted, nil
}

type versionRepository struct{ tx *txState }

func (r *versionRepository) FindVersionByID(_ context.Context, scope domain.Scope, versionID string) (*domain.BudgetVersion, error) {
	v, ok := r.tx.state.versions[versionID]
	if !ok || !inScope(scope, v.OrgID, v.ProjectID) {
		return nil, notFound("budget version", versionID)
	}
	c := cloneVersion(v)
	return &c, nil
}

func (r *versionRepository) FindVersionInOrg(_ context.Context, orgID string, versionID string) (*domain.BudgetVersion, error) {
	v, ok := r.tx.state.versions[versionID]
	if !ok || v.OrgID != orgID {
		return nil, notFound("budget version", versionID)
	}
	c := cloneVersion(v)
	return &c, nil
}

func (r *versionRepository) ListVersions(_ context.Context, scope domain.Scope) ([]domain.BudgetVersion, error) {
	out := make([]domain.BudgetVersion, 0)
	for _, v := range r.tx.state.versions {
		if inScope(scope, v.OrgID, v.ProjectID) {
			out = append(out, cloneVersion(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].VersionCode < out[j].VersionCode
	})
	return out, nil
}

func (r *versionRepository) SaveVersion(_ context.Context, version domain.BudgetVersion) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	if _, exists := r.tx.state.versions[version.VersionID]; exists {
		return fmt.Errorf("%w: budget version %s", apperrors.ErrDuplicate, version.VersionID)
	}
	r.tx.state.versions[version.VersionID] = cloneVersion(version)
	return nil
}

func (r *versionRepository) UpdateVersion(_ context.Context, version domain.BudgetVersion) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	stored, ok := r.tx.state.versions[version.VersionID]
	if !ok || stored.OrgID != version.OrgID || stored.ProjectID != version.ProjectID {
		return notFound("budget version", version.VersionID)
	}
	if stored.Version != version.Version {
		return conflict("budget version", version.VersionID, version.Version, stored.Version)
	}
	next := cloneVersion(version)
	next.CreatedAt, next.CreatedBy = stored.CreatedAt, stored.CreatedBy
	next.Version = stored.Version + 1
	r.tx.state.versions[version.VersionID] = next
	return nil
}

type lineRepository struct{ tx *txState }

func (r *lineRepository) FindLineByID(_ context.Context, scope domain.Scope, lineID string) (*domain.BudgetLine, error) {
	l, ok := r.tx.state.lines[lineID]
	if !ok || !inScope(scope, l.OrgID, l.ProjectID) {
		return nil, notFound("budget line", lineID)
	}
	c := cloneLine(l)
	return &c, nil
}

func (r *lineRepository) linesWhere(scope domain.Scope, keep func(domain.BudgetLine) bool) []domain.BudgetLine {
	out := make([]domain.BudgetLine, 0)
	for _, l := range r.tx.state.lines {
		if inScope(scope, l.OrgID, l.ProjectID) && keep(l) {
			out = append(out, cloneLine(l))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].LineID < out[j].LineID
	})
	return out
}

func (r *lineRepository) ListLinesByVersion(_ context.Context, scope domain.Scope, versionID string) ([]domain.BudgetLine, error) {
	return r.linesWhere(scope, func(l domain.BudgetLine) bool {
		return l.BudgetVersionID == versionID
	}), nil
}

func (r *lineRepository) ListLinesPage(_ context.Context, scope domain.Scope, versionID string, after *pagination.Cursor, limit int) ([]domain.BudgetLine, error) {
	lines := r.linesWhere(scope, func(l domain.BudgetLine) bool {
		return l.BudgetVersionID == versionID && (after == nil || after.After(l.SortOrder, l.LineID))
	})
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	return lines, nil
}

func (r *lineRepository) ListLinesByNodes(_ context.Context, scope domain.Scope, nodeIDs []string) ([]domain.BudgetLine, error) {
	wanted := make(map[string]struct{}, len(nodeIDs))
	for _, id := range nodeIDs {
		wanted[id] = struct{}{}
	}
	return r.linesWhere(scope, func(l domain.BudgetLine) bool {
		_, ok := wanted[l.WbsNodeID]
		return ok
	}), nil
}

func (r *lineRepository) SaveLines(_ context.Context, lines []domain.BudgetLine) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	for _, l := range lines {
		if _, exists := r.tx.state.lines[l.LineID]; exists {
			return fmt.Errorf("%w: budget line %s", apperrors.ErrDuplicate, l.LineID)
		}
		r.tx.state.lines[l.LineID] = cloneLine(l)
	}
	return nil
}

func (r *lineRepository) UpdateLine(_ context.Context, line domain.BudgetLine) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	stored, ok := r.tx.state.lines[line.LineID]
	if !ok || stored.OrgID != line.OrgID || stored.ProjectID != line.ProjectID {
		return notFound("budget line", line.LineID)
	}
	if stored.Version != line.Version {
		return conflict("budget line", line.LineID, line.Version, stored.Version)
	}
	next := cloneLine(line)
	next.CreatedAt, next.CreatedBy = stored.CreatedAt, stored.CreatedBy
	next.Version = stored.Version + 1
	r.tx.state.lines[line.LineID] = next
	return nil
}

// DeleteLines removes the lines and their resources, like the ON DELETE
// CASCADE foreign key does in PostgreSQL.
func (r *lineRepository) DeleteLines(_ context.Context, scope domain.Scope, lineIDs []string) (int64, error) {
	if err := r.tx.writable(); err != nil {
		return 0, err
	}
	removed := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		l, ok := r.tx.state.lines[id]
		if !ok || !inScope(scope, l.OrgID, l.ProjectID) {
			continue
		}
		delete(r.tx.state.lines, id)
		removed[id] = struct{}{}
	}
	for id, res := range r.tx.state.resources {
		if _, ok := removed[res.BudgetLineID]; ok {
			delete(r.tx.state.resources, id)
		}
	}
	return int64(len(removed)), nil
}

type resourceRepository struct{ tx *txState }

func (r *resourceRepository) FindResourceByID(_ context.Context, scope domain.Scope, resourceID string) (*domain.BudgetResource, error) {
	res, ok := r.tx.state.resources[resourceID]
	if !ok || !inScope(scope, res.OrgID, res.ProjectID) {
		return nil, notFound("budget resource", resourceID)
	}
	c := cloneResource(res)
	return &c, nil
}

func (r *resourceRepository) ListResourcesByLines(_ context.Context, scope domain.Scope, lineIDs []string) ([]domain.BudgetResource, error) {
	wanted := make(map[string]struct{}, len(lineIDs))
	for _, id := range lineIDs {
		wanted[id] = struct{}{}
	}
	out := make([]domain.BudgetResource, 0)
	for _, res := range r.tx.state.resources {
		if _, ok := wanted[res.BudgetLineID]; ok && inScope(scope, res.OrgID, res.ProjectID) {
			out = append(out, cloneResource(res))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ResourceID < out[j].ResourceID
	})
	return out, nil
}

func (r *resourceRepository) SaveResources(_ context.Context, resources []domain.BudgetResource) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	for _, res := range resources {
		if _, ok := r.tx.state.lines[res.BudgetLineID]; !ok {
			return notFound("budget line", res.BudgetLineID)
		}
		if _, exists := r.tx.state.resources[res.ResourceID]; exists {
			return fmt.Errorf("%w: budget resource %s", apperrors.ErrDuplicate, res.ResourceID)
		}
		r.tx.state.resources[res.ResourceID] = cloneResource(res)
	}
	return nil
}

func (r *resourceRepository) UpdateResource(_ context.Context, resource domain.BudgetResource) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	stored, ok := r.tx.state.resources[resource.ResourceID]
	if !ok || stored.OrgID != resource.OrgID || stored.ProjectID != resource.ProjectID {
		return notFound("budget resource", resource.ResourceID)
	}
	if stored.Version != resource.Version {
		return conflict("budget resource", resource.ResourceID, resource.Version, stored.Version)
	}
	next := cloneResource(resource)
	next.CreatedAt, next.CreatedBy = stored.CreatedAt, stored.CreatedBy
	next.Version = stored.Version + 1
	r.tx.state.resources[resource.ResourceID] = next
	return nil
}

func (r *resourceRepository) DeleteResource(_ context.Context, scope domain.Scope, resourceID string) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	res, ok := r.tx.state.resources[resourceID]
	if !ok || !inScope(scope, res.OrgID, res.ProjectID) {
		return notFound("budget resource", resourceID)
	}
	delete(r.tx.state.resources, resourceID)
	return nil
}

type eventRepository struct{ tx *txState }

func (r *eventRepository) AppendEvents(_ context.Context, events ...domain.DomainEvent) error {
	if err := r.tx.writable(); err != nil {
		return err
	}
	r.tx.state.events = append(r.tx.state.events, events...)
	return nil
}
