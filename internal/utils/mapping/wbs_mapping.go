package mapping

import (
	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/models"
)

// ToModelWbsNode converts a domain WbsNode to a model WbsNode
func ToModelWbsNode(d domain.WbsNode) models.WbsNode {
	var parentID *string
	if !d.IsRoot() {
		parentID = d.ParentID
	}
	return models.WbsNode{
		NodeID:      d.NodeID,
		OrgID:       d.OrgID,
		ProjectID:   d.ProjectID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		Category:    string(d.Category),
		ParentID:    toNullString(parentID),
		SortOrder:   d.SortOrder,
		Active:      d.Active,
		Quantity:    toNullDecimal(d.Quantity),
		Unit:        toNullString(d.Unit),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainWbsNode converts a model WbsNode to a domain WbsNode
func ToDomainWbsNode(m models.WbsNode) domain.WbsNode {
	return domain.WbsNode{
		NodeID:      m.NodeID,
		OrgID:       m.OrgID,
		ProjectID:   m.ProjectID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Category:    domain.WbsCategory(m.Category),
		ParentID:    fromNullString(m.ParentID),
		SortOrder:   m.SortOrder,
		Active:      m.Active,
		Quantity:    fromNullDecimal(m.Quantity),
		Unit:        fromNullString(m.Unit),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
