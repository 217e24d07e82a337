package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/models"
)

// ToModelBudgetVersion converts a domain BudgetVersion to a model BudgetVersion
func ToModelBudgetVersion(d domain.BudgetVersion) models.BudgetVersion {
	return models.BudgetVersion{
		VersionID:    d.VersionID,
		OrgID:        d.OrgID,
		ProjectID:    d.ProjectID,
		VersionCode:  d.VersionCode,
		Name:         d.Name,
		VersionType:  string(d.VersionType),
		Status:       string(d.Status),
		MarkupMode:   string(d.MarkupMode),
		OverheadPct:  d.OverheadPct,
		FinancialPct: d.FinancialPct,
		ProfitPct:    d.ProfitPct,
		TaxPct:       d.TaxPct,
		LockedAt:     toNullTime(d.LockedAt),
		ApprovedAt:   toNullTime(d.ApprovedAt),
		ApprovedBy:   toNullString(d.ApprovedBy),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetVersion converts a model BudgetVersion to a domain BudgetVersion
func ToDomainBudgetVersion(m models.BudgetVersion) domain.BudgetVersion {
	return domain.BudgetVersion{
		VersionID:    m.VersionID,
		OrgID:        m.OrgID,
		ProjectID:    m.ProjectID,
		VersionCode:  m.VersionCode,
		Name:         m.Name,
		VersionType:  domain.VersionType(m.VersionType),
		Status:       domain.VersionStatus(m.Status),
		MarkupMode:   domain.MarkupMode(m.MarkupMode),
		OverheadPct:  m.OverheadPct,
		FinancialPct: m.FinancialPct,
		ProfitPct:    m.ProfitPct,
		TaxPct:       m.TaxPct,
		LockedAt:     fromNullTime(m.LockedAt),
		ApprovedAt:   fromNullTime(m.ApprovedAt),
		ApprovedBy:   fromNullString(m.ApprovedBy),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBudgetLine converts a domain BudgetLine to a model BudgetLine
func ToModelBudgetLine(d domain.BudgetLine) models.BudgetLine {
	return models.BudgetLine{
		LineID:          d.LineID,
		OrgID:           d.OrgID,
		ProjectID:       d.ProjectID,
		BudgetVersionID: d.BudgetVersionID,
		WbsNodeID:       d.WbsNodeID,
		Description:     d.Description,
		Unit:            d.Unit,
		Quantity:        d.Quantity,
		DirectCostTotal: d.DirectCostTotal,
		SalePriceTotal:  d.SalePriceTotal,
		OverheadPct:     toNullDecimal(d.OverheadPct),
		FinancialPct:    toNullDecimal(d.FinancialPct),
		ProfitPct:       toNullDecimal(d.ProfitPct),
		TaxPct:          toNullDecimal(d.TaxPct),
		RetentionPct:    toNullDecimal(d.RetentionPct),
		SortOrder:       d.SortOrder,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBudgetLine converts a model BudgetLine to a domain BudgetLine
func ToDomainBudgetLine(m models.BudgetLine) domain.BudgetLine {
	return domain.BudgetLine{
		LineID:          m.LineID,
		OrgID:           m.OrgID,
		ProjectID:       m.ProjectID,
		BudgetVersionID: m.BudgetVersionID,
		WbsNodeID:       m.WbsNodeID,
		Description:     m.Description,
		Unit:            m.Unit,
		Quantity:        m.Quantity,
		DirectCostTotal: m.DirectCostTotal,
		SalePriceTotal:  m.SalePriceTotal,
		OverheadPct:     fromNullDecimal(m.OverheadPct),
		FinancialPct:    fromNullDecimal(m.FinancialPct),
		ProfitPct:       fromNullDecimal(m.ProfitPct),
		TaxPct:          fromNullDecimal(m.TaxPct),
		RetentionPct:    fromNullDecimal(m.RetentionPct),
		SortOrder:       m.SortOrder,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBudgetResource converts a domain BudgetResource to a model BudgetResource.
// Attributes are encoded as a JSON object; nil attributes become '{}'.
func ToModelBudgetResource(d domain.BudgetResource) (models.BudgetResource, error) {
	attrs := d.Attributes
	if attrs == nil {
		attrs = map[string]string{}
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return models.BudgetResource{}, fmt.Errorf("encode attributes of resource %s: %w", d.ResourceID, err)
	}
	return models.BudgetResource{
		ResourceID:   d.ResourceID,
		OrgID:        d.OrgID,
		ProjectID:    d.ProjectID,
		BudgetLineID: d.BudgetLineID,
		ResourceType: string(d.ResourceType),
		Name:         d.Name,
		Unit:         d.Unit,
		Quantity:     d.Quantity,
		UnitCost:     d.UnitCost,
		TotalCost:    d.TotalCost,
		Attributes:   raw,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainBudgetResource converts a model BudgetResource to a domain BudgetResource
func ToDomainBudgetResource(m models.BudgetResource) (domain.BudgetResource, error) {
	var attrs map[string]string
	if len(m.Attributes) > 0 {
		if err := json.Unmarshal(m.Attributes, &attrs); err != nil {
			return domain.BudgetResource{}, fmt.Errorf("decode attributes of resource %s: %w", m.ResourceID, err)
		}
		if len(attrs) == 0 {
			attrs = nil
		}
	}
	return domain.BudgetResource{
		ResourceID:   m.ResourceID,
		OrgID:        m.OrgID,
		ProjectID:    m.ProjectID,
		BudgetLineID: m.BudgetLineID,
		ResourceType: domain.ResourceType(m.ResourceType),
		Name:         m.Name,
		Unit:         m.Unit,
		Quantity:     m.Quantity,
		UnitCost:     m.UnitCost,
		TotalCost:    m.TotalCost,
		Attributes:   attrs,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelDomainEvent converts a DomainEvent to its outbox row.
func ToModelDomainEvent(d domain.DomainEvent) (models.DomainEvent, error) {
	m := models.DomainEvent{
		EventID:     d.EventID,
		Name:        d.Name,
		OrgID:       d.OrgID,
		ProjectID:   d.ProjectID,
		ActorID:     d.ActorID,
		AffectedIDs: d.AffectedIDs,
		OccurredAt:  d.OccurredAt,
	}
	if m.AffectedIDs == nil {
		m.AffectedIDs = []string{}
	}
	var err error
	if d.Before != nil {
		if m.Before, err = json.Marshal(d.Before); err != nil {
			return models.DomainEvent{}, fmt.Errorf("encode before state of event %s: %w", d.EventID, err)
		}
	}
	if d.After != nil {
		if m.After, err = json.Marshal(d.After); err != nil {
			return models.DomainEvent{}, fmt.Errorf("encode after state of event %s: %w", d.EventID, err)
		}
	}
	return m, nil
}
