package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portsrepo "github.com/simonbravin/bloqer/internal/core/ports/repositories"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"github.com/simonbravin/bloqer/internal/core/wbs"
	"github.com/simonbravin/bloqer/internal/dto"
	"github.com/simonbravin/bloqer/internal/utils/costing"
)

// WbsService handles the structure of a project's work breakdown: code
// minting, moves, reorders and the three delete modes.
type WbsService struct {
	BaseService
	templates portssvc.TemplateCatalog
}

// NewWbsService creates a new WbsService.
func NewWbsService(uow portsrepo.UnitOfWork, templates portssvc.TemplateCatalog, options ...ServiceOption) portssvc.WbsSvcFacade {
	return &WbsService{
		BaseService: newBaseService(uow, options...),
		templates:   templates,
	}
}

// Ensure WbsService implements the portssvc.WbsSvcFacade interface
var _ portssvc.WbsSvcFacade = (*WbsService)(nil)

// ListTree returns the active nodes of the project in pre-order.
func (s *WbsService) ListTree(ctx context.Context, scope domain.Scope, actor domain.Actor) ([]domain.WbsNode, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsRead, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	var out []domain.WbsNode
	err := s.view(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		tree, err := loadTree(ctx, repos, scope)
		if err != nil {
			return err
		}
		ordered := tree.Preorder()
		out = make([]domain.WbsNode, len(ordered))
		for i, n := range ordered {
			out[i] = *n
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list WBS tree", slog.String("project_id", scope.ProjectID))
		return nil, err
	}
	return out, nil
}

// GetNode retrieves a single node, active or not.
func (s *WbsService) GetNode(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) (*domain.WbsNode, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsRead, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	var node *domain.WbsNode
	err := s.view(ctx, func(ctx context.Context, repos portsrepo.Repositories) error {
		var err error
		node, err = repos.Nodes.FindNodeByID(ctx, scope, nodeID)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to get WBS node", slog.String("node_id", nodeID))
		return nil, err
	}
	return node, nil
}

// AddNode creates a node as the last child of its parent. With a template the
// node inherits the template's name, category and unit unless given, and with
// a budget version it also gets a priced line built from the template.
func (s *WbsService) AddNode(ctx context.Context, scope domain.Scope, req dto.CreateWbsNodeRequest, actor domain.Actor) (*domain.WbsNode, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsCreate, domain.RoleMember); err != nil {
		return nil, err
	}

	var tmpl *domain.NodeTemplate
	if req.TemplateCode != nil && *req.TemplateCode != "" {
		if s.templates == nil {
			return nil, apperrors.NewValidationError("templateCode", "no template catalog is configured")
		}
		t, err := s.templates.FindTemplate(ctx, *req.TemplateCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewValidationError("templateCode", fmt.Sprintf("unknown template %q", *req.TemplateCode))
			}
			return nil, err
		}
		tmpl = t
	}
	if req.BudgetVersionID != nil && *req.BudgetVersionID != "" && tmpl == nil {
		return nil, apperrors.NewValidationError("budgetVersionID", "requires templateCode")
	}

	node, err := s.nodeFromRequest(scope, req, tmpl, actor)
	if err != nil {
		return nil, err
	}

	err = s.mutate(ctx, "wbs.add_node", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		tree, err := loadTree(ctx, repos, scope)
		if err != nil {
			return nil, err
		}
		var parent *domain.WbsNode
		if parentID := node.ParentKey(); parentID != "" {
			p, ok := tree.Node(parentID)
			if !ok {
				return nil, missingParent(ctx, repos, scope, parentID)
			}
			parent = p
		}
		if err := wbs.ValidatePlacement(parent, node.Category); err != nil {
			return nil, err
		}
		code, sortOrder, err := tree.NextChild(node.ParentKey())
		if err != nil {
			return nil, err
		}
		node.Code = code
		node.SortOrder = sortOrder
		if err := repos.Nodes.SaveNode(ctx, *node); err != nil {
			return nil, err
		}
		events := []domain.DomainEvent{s.newEvent(domain.EventNodeCreated, scope, actor, []string{node.NodeID}, nil,
			map[string]any{"code": node.Code, "name": node.Name, "category": string(node.Category), "parentID": node.ParentKey()})}

		if tmpl != nil && req.BudgetVersionID != nil && *req.BudgetVersionID != "" {
			line, err := s.seedLine(ctx, repos, scope, *req.BudgetVersionID, *node, tmpl, actor)
			if err != nil {
				return nil, err
			}
			events = append(events, s.newEvent(domain.EventLineCreated, scope, actor, []string{line.LineID}, nil,
				map[string]any{"wbsNodeID": node.NodeID, "templateCode": tmpl.Code, "salePriceTotal": line.SalePriceTotal.String()}))
		}
		return events, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to add WBS node", slog.String("project_id", scope.ProjectID), slog.String("parent_id", node.ParentKey()))
		return nil, err
	}
	s.LogInfo(ctx, "WBS node created", slog.String("node_id", node.NodeID), slog.String("code", node.Code))
	return node, nil
}

func (s *WbsService) nodeFromRequest(scope domain.Scope, req dto.CreateWbsNodeRequest, tmpl *domain.NodeTemplate, actor domain.Actor) (*domain.WbsNode, error) {
	name := strings.TrimSpace(req.Name)
	categoryName := req.Category
	unit := req.Unit
	quantity := req.Quantity
	if tmpl != nil {
		if name == "" {
			name = tmpl.Name
		}
		if categoryName == "" {
			categoryName = string(tmpl.Category)
		}
		if unit == nil && tmpl.Unit != "" {
			u := tmpl.Unit
			unit = &u
		}
		if quantity == nil && tmpl.DefaultQuantity != nil {
			q := *tmpl.DefaultQuantity
			quantity = &q
		}
	}
	if name == "" {
		return nil, apperrors.NewValidationError("name", "is required")
	}
	category, ok := domain.ParseWbsCategory(categoryName)
	if !ok {
		return nil, apperrors.NewValidationError("category", fmt.Sprintf("unknown category %q", categoryName))
	}

	node := &domain.WbsNode{
		NodeID:      uuid.NewString(),
		OrgID:       scope.OrgID,
		ProjectID:   scope.ProjectID,
		Name:        name,
		Description: req.Description,
		Category:    category,
		Active:      true,
		Quantity:    quantity,
		Unit:        unit,
		AuditFields: domain.NewAuditFields(actor.UserID, s.now()),
	}
	if req.ParentID != nil && *req.ParentID != "" {
		pid := *req.ParentID
		node.ParentID = &pid
	}
	return node, nil
}

// seedLine prices a new line of node from the template's resources.
func (s *WbsService) seedLine(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, versionID string, node domain.WbsNode, tmpl *domain.NodeTemplate, actor domain.Actor) (*domain.BudgetLine, error) {
	version, err := loadEditableVersion(ctx, repos, scope, versionID)
	if err != nil {
		return nil, err
	}
	sortOrder, err := nextLineSortOrder(ctx, repos, scope, versionID)
	if err != nil {
		return nil, err
	}
	quantity := decimal.NewFromInt(1)
	if node.Quantity != nil && node.Quantity.IsPositive() {
		quantity = *node.Quantity
	}
	unit := tmpl.Unit
	if node.Unit != nil {
		unit = *node.Unit
	}
	now := s.now()
	line := domain.BudgetLine{
		LineID:          uuid.NewString(),
		OrgID:           scope.OrgID,
		ProjectID:       scope.ProjectID,
		BudgetVersionID: versionID,
		WbsNodeID:       node.NodeID,
		Description:     node.Name,
		Unit:            unit,
		Quantity:        quantity,
		SortOrder:       sortOrder,
		AuditFields:     domain.NewAuditFields(actor.UserID, now),
	}
	resources := make([]domain.BudgetResource, len(tmpl.Resources))
	for i, r := range tmpl.Resources {
		// template quantities are per unit of the line
		resources[i] = newResource(line, r.ResourceType, r.Name, r.Unit, r.Quantity.Mul(quantity).Round(costing.MoneyScale), r.UnitCost, cloneAttributes(r.Attributes), actor.UserID, now)
	}
	applyResourceTotals(*version, &line, resources)

	if err := repos.Lines.SaveLines(ctx, []domain.BudgetLine{line}); err != nil {
		return nil, err
	}
	if len(resources) > 0 {
		if err := repos.Resources.SaveResources(ctx, resources); err != nil {
			return nil, err
		}
	}
	return &line, nil
}

// UpdateNode edits a node's descriptive attributes. An update that changes
// nothing returns the node without writing.
func (s *WbsService) UpdateNode(ctx context.Context, scope domain.Scope, nodeID string, req dto.UpdateWbsNodeRequest, actor domain.Actor) (*domain.WbsNode, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsUpdate, domain.RoleMember); err != nil {
		return nil, err
	}
	patch := req.ToPatch()
	if patch.Name != nil {
		trimmed := strings.TrimSpace(*patch.Name)
		if trimmed == "" {
			return nil, apperrors.NewValidationError("name", "must not be blank")
		}
		patch.Name = &trimmed
	}

	var node *domain.WbsNode
	err := s.mutate(ctx, "wbs.update_node", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		var err error
		node, err = repos.Nodes.FindNodeByID(ctx, scope, nodeID)
		if err != nil {
			return nil, err
		}
		if !node.Active {
			return nil, apperrors.NewDomainError(apperrors.CodeNodeInactive, "node %s is inactive", nodeID)
		}
		if err := checkExpectedVersion("node", nodeID, patch.ExpectedVersion, node.Version); err != nil {
			return nil, err
		}
		before := nodeAttributes(*node)
		changed := patch.Apply(node)
		if len(changed) == 0 {
			return nil, nil
		}
		node.Touch(actor.UserID, s.now())
		if err := repos.Nodes.UpdateNodes(ctx, []domain.WbsNode{*node}); err != nil {
			return nil, err
		}
		node.Version++
		after := nodeAttributes(*node)
		return []domain.DomainEvent{s.newEvent(domain.EventNodeUpdated, scope, actor, []string{nodeID},
			pick(before, changed), pick(after, changed))}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to update WBS node", slog.String("node_id", nodeID))
		return nil, err
	}
	return node, nil
}

// MoveNode reparents a node; the node takes the next code under its new
// parent and its subtree's codes follow. The old siblings keep their codes.
func (s *WbsService) MoveNode(ctx context.Context, scope domain.Scope, nodeID string, req dto.MoveWbsNodeRequest, actor domain.Actor) ([]domain.WbsNode, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsMove, domain.RoleMember); err != nil {
		return nil, err
	}
	newParentID := ""
	if req.NewParentID != nil {
		newParentID = *req.NewParentID
	}

	var out []domain.WbsNode
	err := s.mutate(ctx, "wbs.move_node", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		tree, err := loadTree(ctx, repos, scope)
		if err != nil {
			return nil, err
		}
		node, ok := tree.Node(nodeID)
		if !ok {
			return nil, missingNode(ctx, repos, scope, nodeID)
		}
		if newParentID != "" {
			if _, ok := tree.Node(newParentID); !ok && newParentID != nodeID {
				return nil, missingParent(ctx, repos, scope, newParentID)
			}
		}
		before := map[string]any{"parentID": node.ParentKey(), "code": node.Code}
		changed, err := tree.Move(nodeID, newParentID)
		if err != nil {
			return nil, err
		}
		if out, err = s.persistNodes(ctx, repos, changed, actor); err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, nil
		}
		after := map[string]any{"parentID": node.ParentKey(), "code": node.Code}
		return []domain.DomainEvent{s.newEvent(domain.EventNodeReordered, scope, actor, nodeIDs(out), before, after)}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to move WBS node", slog.String("node_id", nodeID), slog.String("new_parent_id", newParentID))
		return nil, err
	}
	s.LogInfo(ctx, "WBS node moved", slog.String("node_id", nodeID), slog.Int("changed_nodes", len(out)))
	return out, nil
}

// ReorderChildren sets the sibling order under a parent, resequencing codes 1..n.
func (s *WbsService) ReorderChildren(ctx context.Context, scope domain.Scope, req dto.ReorderWbsChildrenRequest, actor domain.Actor) ([]domain.WbsNode, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsMove, domain.RoleMember); err != nil {
		return nil, err
	}
	parentID := ""
	if req.ParentID != nil {
		parentID = *req.ParentID
	}

	var out []domain.WbsNode
	err := s.mutate(ctx, "wbs.reorder_children", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		tree, err := loadTree(ctx, repos, scope)
		if err != nil {
			return nil, err
		}
		if parentID != "" {
			if _, ok := tree.Node(parentID); !ok {
				return nil, missingParent(ctx, repos, scope, parentID)
			}
		}
		changed, err := tree.Reorder(parentID, req.NodeIDs)
		if err != nil {
			return nil, err
		}
		if out, err = s.persistNodes(ctx, repos, changed, actor); err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, nil
		}
		return []domain.DomainEvent{s.newEvent(domain.EventNodeReordered, scope, actor, nodeIDs(out), nil,
			map[string]any{"parentID": parentID, "order": append([]string(nil), req.NodeIDs...)})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reorder WBS children", slog.String("parent_id", parentID))
		return nil, err
	}
	return out, nil
}

// SoftDeleteNode deactivates a node and its active subtree. Codes are left as
// they are, so the gap stays until a renumbering operation.
func (s *WbsService) SoftDeleteNode(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) error {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsDelete, domain.RoleMember); err != nil {
		return err
	}
	err := s.mutate(ctx, "wbs.soft_delete", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		tree, err := loadTree(ctx, repos, scope)
		if err != nil {
			return nil, err
		}
		node, ok := tree.Node(nodeID)
		if !ok {
			return nil, missingNode(ctx, repos, scope, nodeID)
		}
		subtree := append([]*domain.WbsNode{node}, tree.Descendants(nodeID)...)
		for _, n := range subtree {
			n.Active = false
		}
		deactivated, err := s.persistNodes(ctx, repos, subtree, actor)
		if err != nil {
			return nil, err
		}
		return []domain.DomainEvent{s.newEvent(domain.EventNodeDeleted, scope, actor, nodeIDs(deactivated),
			map[string]any{"code": node.Code}, map[string]any{"mode": "soft"})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to soft delete WBS node", slog.String("node_id", nodeID))
		return err
	}
	return nil
}

// DeleteNodeWithRenumber deactivates a node without active children and
// shifts every later sibling's code down by one.
func (s *WbsService) DeleteNodeWithRenumber(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) ([]domain.WbsNode, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsDelete, domain.RoleMember); err != nil {
		return nil, err
	}
	var out []domain.WbsNode
	err := s.mutate(ctx, "wbs.delete_renumber", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		tree, err := loadTree(ctx, repos, scope)
		if err != nil {
			return nil, err
		}
		node, ok := tree.Node(nodeID)
		if !ok {
			return nil, missingNode(ctx, repos, scope, nodeID)
		}
		if kids := tree.Children(nodeID); len(kids) > 0 {
			return nil, apperrors.NewHasChildrenError(nodeID, len(kids))
		}
		deletedCode := node.Code
		_, renumbered, err := tree.Remove(nodeID)
		if err != nil {
			return nil, err
		}
		node.Active = false
		written, err := s.persistNodes(ctx, repos, append([]*domain.WbsNode{node}, renumbered...), actor)
		if err != nil {
			return nil, err
		}
		out = written[1:]
		return []domain.DomainEvent{s.newEvent(domain.EventNodeDeleted, scope, actor, nodeIDs(written),
			map[string]any{"code": deletedCode}, map[string]any{"mode": "renumber", "renumbered": len(out)})}, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete WBS node with renumber", slog.String("node_id", nodeID))
		return nil, err
	}
	return out, nil
}

// DeleteNodeCascade hard-deletes a node, every descendant (active or not) and
// every budget line attached to them, then closes the gap in the siblings'
// codes. Lines in a non-DRAFT version block the delete.
func (s *WbsService) DeleteNodeCascade(ctx context.Context, scope domain.Scope, nodeID string, actor domain.Actor) (*domain.CascadeDeleteResult, error) {
	if err := s.AuthorizeActor(ctx, actor, scope, domain.ActionWbsDelete, domain.RoleMember); err != nil {
		return nil, err
	}
	result := &domain.CascadeDeleteResult{}
	err := s.mutate(ctx, "wbs.delete_cascade", func(ctx context.Context, repos portsrepo.Repositories) ([]domain.DomainEvent, error) {
		target, err := repos.Nodes.FindNodeByID(ctx, scope, nodeID)
		if err != nil {
			return nil, err
		}
		all, err := repos.Nodes.ListNodes(ctx, scope, true)
		if err != nil {
			return nil, err
		}
		ids := wbs.CollectSubtree(all, nodeID)

		lines, err := repos.Lines.ListLinesByNodes(ctx, scope, ids)
		if err != nil {
			return nil, err
		}
		checked := make(map[string]struct{})
		for _, l := range lines {
			if _, ok := checked[l.BudgetVersionID]; ok {
				continue
			}
			checked[l.BudgetVersionID] = struct{}{}
			if _, err := loadEditableVersion(ctx, repos, scope, l.BudgetVersionID); err != nil {
				return nil, err
			}
		}

		if len(lines) > 0 {
			if result.DeletedLineCount, err = repos.Lines.DeleteLines(ctx, scope, lineIDs(lines)); err != nil {
				return nil, err
			}
		}
		if _, err := repos.Nodes.DeleteNodes(ctx, scope, ids); err != nil {
			return nil, err
		}
		result.DeletedNodeIDs = ids

		// an inactive node holds no place among its siblings
		if target.Active {
			tree := wbs.NewTree(all)
			_, renumbered, err := tree.Remove(nodeID)
			if err != nil {
				return nil, err
			}
			written, err := s.persistNodes(ctx, repos, renumbered, actor)
			if err != nil {
				return nil, err
			}
			result.RenumberedNodeIDs = nodeIDs(written)
		}

		events := []domain.DomainEvent{s.newEvent(domain.EventNodeDeleted, scope, actor, ids,
			map[string]any{"code": target.Code},
			map[string]any{"mode": "cascade", "deletedLineCount": result.DeletedLineCount, "renumbered": len(result.RenumberedNodeIDs)})}
		if len(lines) > 0 {
			events = append(events, s.newEvent(domain.EventLineDeleted, scope, actor, lineIDs(lines), nil,
				map[string]any{"reason": "wbs.cascade", "nodeID": nodeID}))
		}
		return events, nil
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to cascade delete WBS node", slog.String("node_id", nodeID))
		return nil, err
	}
	s.LogInfo(ctx, "WBS subtree deleted",
		slog.String("node_id", nodeID),
		slog.Int("deleted_nodes", len(result.DeletedNodeIDs)),
		slog.Int64("deleted_lines", result.DeletedLineCount))
	return result, nil
}

// persistNodes stamps and writes the changed nodes, advancing the in-memory
// versions once the write succeeds.
func (s *WbsService) persistNodes(ctx context.Context, repos portsrepo.Repositories, changed []*domain.WbsNode, actor domain.Actor) ([]domain.WbsNode, error) {
	if len(changed) == 0 {
		return nil, nil
	}
	now := s.now()
	rows := make([]domain.WbsNode, len(changed))
	for i, n := range changed {
		n.Touch(actor.UserID, now)
		rows[i] = *n
	}
	if err := repos.Nodes.UpdateNodes(ctx, rows); err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Version++
		changed[i].Version++
	}
	return rows, nil
}

func loadTree(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope) (*wbs.Tree, error) {
	nodes, err := repos.Nodes.ListNodes(ctx, scope, false)
	if err != nil {
		return nil, err
	}
	return wbs.NewTree(nodes), nil
}

// missingNode explains why nodeID is not in the active tree.
func missingNode(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, nodeID string) error {
	n, err := repos.Nodes.FindNodeByID(ctx, scope, nodeID)
	if err != nil {
		return err
	}
	if !n.Active {
		return apperrors.NewDomainError(apperrors.CodeNodeInactive, "node %s is inactive", nodeID)
	}
	return fmt.Errorf("%w: node %s", apperrors.ErrNotFound, nodeID)
}

// missingParent explains why parentID cannot take children.
func missingParent(ctx context.Context, repos portsrepo.Repositories, scope domain.Scope, parentID string) error {
	n, err := repos.Nodes.FindNodeByID(ctx, scope, parentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewDomainError(apperrors.CodeParentNotInProject, "parent %s is not a node of this project", parentID)
		}
		return err
	}
	if !n.Active {
		return apperrors.NewDomainError(apperrors.CodeNodeInactive, "parent %s is inactive", parentID)
	}
	return apperrors.NewDomainError(apperrors.CodeParentNotInProject, "parent %s is not an active node of this project", parentID)
}

func nodeAttributes(n domain.WbsNode) map[string]any {
	attrs := map[string]any{
		"name":        n.Name,
		"description": n.Description,
		"unit":        nil,
		"quantity":    nil,
	}
	if n.Unit != nil {
		attrs["unit"] = *n.Unit
	}
	if n.Quantity != nil {
		attrs["quantity"] = n.Quantity.String()
	}
	return attrs
}

func pick(attrs map[string]any, keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		out[k] = attrs[k]
	}
	return out
}

func nodeIDs(nodes []domain.WbsNode) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.NodeID
	}
	return ids
}
