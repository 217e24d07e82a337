package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WbsCategory classifies a node of the work breakdown structure.
type WbsCategory string

const (
	CategoryPhase      WbsCategory = "PHASE"
	CategoryTask       WbsCategory = "TASK"
	CategoryBudgetItem WbsCategory = "BUDGET_ITEM"
	CategoryZone       WbsCategory = "ZONE"
	CategoryMilestone  WbsCategory = "MILESTONE"
)

// ParseWbsCategory normalizes a category name. The legacy alias ITEM maps to BUDGET_ITEM.
func ParseWbsCategory(s string) (WbsCategory, bool) {
	switch c := WbsCategory(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryPhase, CategoryTask, CategoryBudgetItem, CategoryZone, CategoryMilestone:
		return c, true
	case "ITEM":
		return CategoryBudgetItem, true
	default:
		return "", false
	}
}

// WbsNode is one element of a project's work breakdown structure.
type WbsNode struct {
	NodeID      string           `json:"nodeID"`
	OrgID       string           `json:"orgID"`
	ProjectID   string           `json:"projectID"`
	Code        string           `json:"code"` // e.g. "1.2.3"
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    WbsCategory      `json:"category"`
	ParentID    *string          `json:"parentID"` // nil for roots
	SortOrder   int              `json:"sortOrder"`
	Active      bool             `json:"active"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Unit        *string          `json:"unit"`
	AuditFields
}

// IsRoot reports whether the node has no parent.
func (n WbsNode) IsRoot() bool {
	return n.ParentID == nil || *n.ParentID == ""
}

// ParentKey returns the parent id or "" for roots.
func (n WbsNode) ParentKey() string {
	if n.ParentID == nil {
		return ""
	}
	return *n.ParentID
}

// WbsNodePatch lists the attributes an update may change; nil means unchanged.
type WbsNodePatch struct {
	Name            *string
	Description     *string
	Unit            *string
	Quantity        *decimal.Decimal
	ExpectedVersion *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p WbsNodePatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Unit == nil && p.Quantity == nil
}

// Apply writes the present fields onto n and returns the names of changed fields.
func (p WbsNodePatch) Apply(n *WbsNode) []string {
	var changed []string
	if p.Name != nil && *p.Name != n.Name {
		n.Name = *p.Name
		changed = append(changed, "name")
	}
	if p.Description != nil && *p.Description != n.Description {
		n.Description = *p.Description
		changed = append(changed, "description")
	}
	if p.Unit != nil && (n.Unit == nil || *n.Unit != *p.Unit) {
		u := *p.Unit
		n.Unit = &u
		changed = append(changed, "unit")
	}
	if p.Quantity != nil && (n.Quantity == nil || !n.Quantity.Equal(*p.Quantity)) {
		q := *p.Quantity
		n.Quantity = &q
		changed = append(changed, "quantity")
	}
	return changed
}

// CascadeDeleteResult summarizes a hard delete of a subtree.
type CascadeDeleteResult struct {
	DeletedNodeIDs    []string `json:"deletedNodeIDs"`
	DeletedLineCount  int64    `json:"deletedLineCount"`
	RenumberedNodeIDs []string `json:"renumberedNodeIDs"`
}
