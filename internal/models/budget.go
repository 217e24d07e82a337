package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BudgetVersion is the row shape of budget_versions.
type BudgetVersion struct {
	VersionID    string          `db:"version_id"`
	OrgID        string          `db:"org_id"`
	ProjectID    string          `db:"project_id"`
	VersionCode  string          `db:"version_code"`
	Name         string          `db:"name"`
	VersionType  string          `db:"version_type"`
	Status       string          `db:"status"`
	MarkupMode   string          `db:"markup_mode"`
	OverheadPct  decimal.Decimal `db:"overhead_pct"`
	FinancialPct decimal.Decimal `db:"financial_pct"`
	ProfitPct    decimal.Decimal `db:"profit_pct"`
	TaxPct       decimal.Decimal `db:"tax_pct"`
	LockedAt     sql.NullTime    `db:"locked_at"`
	ApprovedAt   sql.NullTime    `db:"approved_at"`
	ApprovedBy   sql.NullString  `db:"approved_by"`
	AuditFields
}

// BudgetLine is the row shape of budget_lines.
type BudgetLine struct {
	LineID          string              `db:"line_id"`
	OrgID           string              `db:"org_id"`
	ProjectID       string              `db:"project_id"`
	BudgetVersionID string              `db:"budget_version_id"`
	WbsNodeID       string              `db:"wbs_node_id"`
	Description     string              `db:"description"`
	Unit            string              `db:"unit"`
	Quantity        decimal.Decimal     `db:"quantity"`
	DirectCostTotal decimal.Decimal     `db:"direct_cost_total"`
	SalePriceTotal  decimal.Decimal     `db:"sale_price_total"`
	OverheadPct     decimal.NullDecimal `db:"overhead_pct"`
	FinancialPct    decimal.NullDecimal `db:"financial_pct"`
	ProfitPct       decimal.NullDecimal `db:"profit_pct"`
	TaxPct          decimal.NullDecimal `db:"tax_pct"`
	RetentionPct    decimal.NullDecimal `db:"retention_pct"`
	SortOrder       int                 `db:"sort_order"`
	AuditFields
}

// BudgetResource is the row shape of budget_resources.
type BudgetResource struct {
	ResourceID   string          `db:"resource_id"`
	OrgID        string          `db:"org_id"`
	ProjectID    string          `db:"project_id"`
	BudgetLineID string          `db:"budget_line_id"`
	ResourceType string          `db:"resource_type"`
	Name         string          `db:"name"`
	Unit         string          `db:"unit"`
	Quantity     decimal.Decimal `db:"quantity"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	TotalCost    decimal.Decimal `db:"total_cost"`
	Attributes   []byte          `db:"attributes"` // jsonb
	AuditFields
}

// DomainEvent is the row shape of the domain_events outbox.
type DomainEvent struct {
	EventID     string    `db:"event_id"`
	Name        string    `db:"name"`
	OrgID       string    `db:"org_id"`
	ProjectID   string    `db:"project_id"`
	ActorID     string    `db:"actor_id"`
	AffectedIDs []string  `db:"affected_ids"`
	Before      []byte    `db:"before_state"` // jsonb, nullable
	After       []byte    `db:"after_state"`  // jsonb, nullable
	OccurredAt  time.Time `db:"occurred_at"`
}
