package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/core/domain"
)

// CreateWbsNodeRequest defines the data needed to add a WBS node.
// Either Name and Category or a TemplateCode must be given; explicit values
// override the template's.
type CreateWbsNodeRequest struct {
	ParentID     *string          `json:"parentID"` // nil creates a root
	Name         string           `json:"name" binding:"required_without=TemplateCode,max=255"`
	Description  string           `json:"description" binding:"max=2000"`
	Category     string           `json:"category" binding:"required_without=TemplateCode"`
	Unit         *string          `json:"unit" binding:"omitempty,max=32"`
	Quantity     *decimal.Decimal `json:"quantity" binding:"omitempty,gte=0"`
	TemplateCode *string          `json:"templateCode"`

	// BudgetVersionID, with a template, also creates a budget line from the
	// template's resources in that DRAFT version.
	BudgetVersionID *string `json:"budgetVersionID"`
}

// UpdateWbsNodeRequest defines the node attributes that may be edited.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateWbsNodeRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Description     *string          `json:"description" binding:"omitempty,max=2000"`
	Unit            *string          `json:"unit" binding:"omitempty,max=32"`
	Quantity        *decimal.Decimal `json:"quantity" binding:"omitempty,gte=0"`
	ExpectedVersion *int64           `json:"expectedVersion"`
}

// ToPatch converts the request to a domain patch.
func (r UpdateWbsNodeRequest) ToPatch() domain.WbsNodePatch {
	return domain.WbsNodePatch{
		Name:            r.Name,
		Description:     r.Description,
		Unit:            r.Unit,
		Quantity:        r.Quantity,
		ExpectedVersion: r.ExpectedVersion,
	}
}

// MoveWbsNodeRequest names the new parent of a node; nil moves it to the root level.
type MoveWbsNodeRequest struct {
	NewParentID *string `json:"newParentID"`
}

// ReorderWbsChildrenRequest lists every active child of ParentID in the desired order.
type ReorderWbsChildrenRequest struct {
	ParentID *string  `json:"parentID"` // nil reorders the roots
	NodeIDs  []string `json:"nodeIDs" binding:"required,min=1,dive,required"`
}

// WbsNodeResponse defines the data returned for a WBS node.
type WbsNodeResponse struct {
	NodeID        string             `json:"nodeID"`
	Code          string             `json:"code"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Category      domain.WbsCategory `json:"category"`
	ParentID      *string            `json:"parentID"`
	SortOrder     int                `json:"sortOrder"`
	Active        bool               `json:"active"`
	Quantity      *decimal.Decimal   `json:"quantity"`
	Unit          *string            `json:"unit"`
	Version       int64              `json:"version"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToWbsNodeResponse converts a domain.WbsNode to WbsNodeResponse DTO
func ToWbsNodeResponse(n *domain.WbsNode) WbsNodeResponse {
	return WbsNodeResponse{
		NodeID:        n.NodeID,
		Code:          n.Code,
		Name:          n.Name,
		Description:   n.Description,
		Category:      n.Category,
		ParentID:      n.ParentID,
		SortOrder:     n.SortOrder,
		Active:        n.Active,
		Quantity:      n.Quantity,
		Unit:          n.Unit,
		Version:       n.Version,
		CreatedAt:     n.CreatedAt,
		CreatedBy:     n.CreatedBy,
		LastUpdatedAt: n.LastUpdatedAt,
		LastUpdatedBy: n.LastUpdatedBy,
	}
}

// ToWbsNodeResponses converts a slice of domain.WbsNode.
func ToWbsNodeResponses(nodes []domain.WbsNode) []WbsNodeResponse {
	res := make([]WbsNodeResponse, len(nodes))
	for i := range nodes {
		res[i] = ToWbsNodeResponse(&nodes[i])
	}
	return res
}

// ListWbsNodesResponse wraps a list of nodes; for the tree it is in pre-order.
type ListWbsNodesResponse struct {
	Nodes []WbsNodeResponse `json:"nodes"`
}

// CascadeDeleteResponse reports what a cascade delete removed.
type CascadeDeleteResponse struct {
	DeletedNodeIDs    []string `json:"deletedNodeIDs"`
	DeletedLineCount  int64    `json:"deletedLineCount"`
	RenumberedNodeIDs []string `json:"renumberedNodeIDs"`
}

// ToCascadeDeleteResponse converts a domain.CascadeDeleteResult.
func ToCascadeDeleteResponse(r *domain.CascadeDeleteResult) CascadeDeleteResponse {
	return CascadeDeleteResponse{
		DeletedNodeIDs:    r.DeletedNodeIDs,
		DeletedLineCount:  r.DeletedLineCount,
		RenumberedNodeIDs: r.RenumberedNodeIDs,
	}
}

// NodeTemplateResponse defines a template catalog entry.
type NodeTemplateResponse struct {
	Code            string                    `json:"code"`
	Name            string                    `json:"name"`
	Category        domain.WbsCategory        `json:"category"`
	Unit            string                    `json:"unit"`
	DefaultQuantity *decimal.Decimal          `json:"defaultQuantity"`
	Resources       []domain.TemplateResource `json:"resources"`
}

// ToNodeTemplateResponses converts catalog entries.
func ToNodeTemplateResponses(templates []domain.NodeTemplate) []NodeTemplateResponse {
	res := make([]NodeTemplateResponse, len(templates))
	for i, t := range templates {
		res[i] = NodeTemplateResponse{
			Code:            t.Code,
			Name:            t.Name,
			Category:        t.Category,
			Unit:            t.Unit,
			DefaultQuantity: t.DefaultQuantity,
			Resources:       t.Resources,
		}
	}
	return res
}
