package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// VersionType distinguishes the authoritative baseline from working copies.
type VersionType string

const (
	VersionWorking  VersionType = "WORKING"
	VersionBaseline VersionType = "BASELINE"
)

// VersionStatus is the lifecycle state of a budget version.
type VersionStatus string

const (
	StatusDraft    VersionStatus = "DRAFT"
	StatusBaseline VersionStatus = "BASELINE"
	StatusApproved VersionStatus = "APPROVED"
)

// MarkupMode selects where a line's percentages come from.
type MarkupMode string

const (
	MarkupSimple   MarkupMode = "SIMPLE"   // version-wide percentages
	MarkupAdvanced MarkupMode = "ADVANCED" // per-line percentages, falling back to the version's
)

// ResourceType classifies an APU cost resource.
type ResourceType string

const (
	ResourceMaterial  ResourceType = "MATERIAL"
	ResourceLabor     ResourceType = "LABOR"
	ResourceEquipment ResourceType = "EQUIPMENT"
)

// BudgetVersion is one priced snapshot of a project's budget.
type BudgetVersion struct {
	VersionID    string          `json:"versionID"`
	OrgID        string          `json:"orgID"`
	ProjectID    string          `json:"projectID"`
	VersionCode  string          `json:"versionCode"` // "V<n>"
	Name         string          `json:"name"`
	VersionType  VersionType     `json:"versionType"`
	Status       VersionStatus   `json:"status"`
	MarkupMode   MarkupMode      `json:"markupMode"`
	OverheadPct  decimal.Decimal `json:"overheadPct"`
	FinancialPct decimal.Decimal `json:"financialPct"`
	ProfitPct    decimal.Decimal `json:"profitPct"`
	TaxPct       decimal.Decimal `json:"taxPct"`
	LockedAt     *time.Time      `json:"lockedAt"`
	ApprovedAt   *time.Time      `json:"approvedAt"`
	ApprovedBy   *string         `json:"approvedBy"`
	AuditFields
}

// IsEditable reports whether lines and resources of the version may change.
func (v BudgetVersion) IsEditable() bool {
	return v.Status == StatusDraft
}

// CanTransition reports whether the ordinary (non-override) path allows from -> to.
func CanTransition(from, to VersionStatus) bool {
	switch from {
	case StatusDraft:
		return to == StatusBaseline || to == StatusApproved
	case StatusBaseline:
		return to == StatusBaseline || to == StatusApproved
	default:
		return false
	}
}

// CanOverride reports whether the privileged status override allows from -> to.
func CanOverride(from, to VersionStatus) bool {
	if from != StatusApproved && from != StatusBaseline {
		return false
	}
	return to == StatusDraft || to == StatusBaseline
}

// FormatVersionCode renders the n-th version code of a project.
func FormatVersionCode(n int) string {
	return "V" + strconv.Itoa(n)
}

// ParseVersionCode extracts n from "V<n>".
func ParseVersionCode(code string) (int, error) {
	if !strings.HasPrefix(code, "V") {
		return 0, fmt.Errorf("version code %q lacks V prefix", code)
	}
	n, err := strconv.Atoi(code[1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("version code %q is not V<n>", code)
	}
	return n, nil
}

// NextVersionCode returns the code following the highest existing one.
func NextVersionCode(existing []BudgetVersion) string {
	highest := 0
	for _, v := range existing {
		if n, err := ParseVersionCode(v.VersionCode); err == nil && n > highest {
			highest = n
		}
	}
	return FormatVersionCode(highest + 1)
}

// BudgetLine is a priced quantity of work attached to one WBS node.
type BudgetLine struct {
	LineID          string          `json:"lineID"`
	OrgID           string          `json:"orgID"`
	ProjectID       string          `json:"projectID"`
	BudgetVersionID string          `json:"budgetVersionID"`
	WbsNodeID       string          `json:"wbsNodeID"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	DirectCostTotal decimal.Decimal `json:"directCostTotal"`
	SalePriceTotal  decimal.Decimal `json:"salePriceTotal"`
	// Per-line percentages, used when the version is ADVANCED.
	OverheadPct  *decimal.Decimal `json:"overheadPct"`
	FinancialPct *decimal.Decimal `json:"financialPct"`
	ProfitPct    *decimal.Decimal `json:"profitPct"`
	TaxPct       *decimal.Decimal `json:"taxPct"`
	RetentionPct *decimal.Decimal `json:"retentionPct"`
	SortOrder    int              `json:"sortOrder"`
	AuditFields
}

// BudgetResource is one APU cost component of a line.
type BudgetResource struct {
	ResourceID   string            `json:"resourceID"`
	OrgID        string            `json:"orgID"`
	ProjectID    string            `json:"projectID"`
	BudgetLineID string            `json:"budgetLineID"`
	ResourceType ResourceType      `json:"resourceType"`
	Name         string            `json:"name"`
	Unit         string            `json:"unit"`
	Quantity     decimal.Decimal   `json:"quantity"`
	UnitCost     decimal.Decimal   `json:"unitCost"`
	TotalCost    decimal.Decimal   `json:"totalCost"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	AuditFields
}

// Recost sets TotalCost = Quantity * UnitCost.
func (r *BudgetResource) Recost() {
	r.TotalCost = r.Quantity.Mul(r.UnitCost)
}

// BudgetVersionPatch lists the settings an update may change; nil means unchanged.
type BudgetVersionPatch struct {
	Name            *string
	MarkupMode      *MarkupMode
	OverheadPct     *decimal.Decimal
	FinancialPct    *decimal.Decimal
	ProfitPct       *decimal.Decimal
	TaxPct          *decimal.Decimal
	ExpectedVersion *int64
}

// TouchesPricing reports whether applying the patch can change any sale price.
func (p BudgetVersionPatch) TouchesPricing() bool {
	return p.MarkupMode != nil || p.OverheadPct != nil || p.FinancialPct != nil || p.ProfitPct != nil || p.TaxPct != nil
}

// Apply writes the present fields onto v.
func (p BudgetVersionPatch) Apply(v *BudgetVersion) {
	if p.Name != nil {
		v.Name = *p.Name
	}
	if p.MarkupMode != nil {
		v.MarkupMode = *p.MarkupMode
	}
	if p.OverheadPct != nil {
		v.OverheadPct = *p.OverheadPct
	}
	if p.FinancialPct != nil {
		v.FinancialPct = *p.FinancialPct
	}
	if p.ProfitPct != nil {
		v.ProfitPct = *p.ProfitPct
	}
	if p.TaxPct != nil {
		v.TaxPct = *p.TaxPct
	}
}

// BudgetLinePatch lists the line attributes an update may change; nil means unchanged.
type BudgetLinePatch struct {
	WbsNodeID       *string
	Description     *string
	Unit            *string
	Quantity        *decimal.Decimal
	UnitDirectCost  *decimal.Decimal // only for lines without resources
	OverheadPct     *decimal.Decimal
	FinancialPct    *decimal.Decimal
	ProfitPct       *decimal.Decimal
	TaxPct          *decimal.Decimal
	RetentionPct    *decimal.Decimal
	ExpectedVersion *int64
}

// Apply writes the present descriptive and percentage fields onto l.
// Quantity and cost are handled by the caller since they drive recomputation.
func (p BudgetLinePatch) Apply(l *BudgetLine) {
	if p.WbsNodeID != nil {
		l.WbsNodeID = *p.WbsNodeID
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Unit != nil {
		l.Unit = *p.Unit
	}
	if p.OverheadPct != nil {
		l.OverheadPct = decimalPtr(*p.OverheadPct)
	}
	if p.FinancialPct != nil {
		l.FinancialPct = decimalPtr(*p.FinancialPct)
	}
	if p.ProfitPct != nil {
		l.ProfitPct = decimalPtr(*p.ProfitPct)
	}
	if p.TaxPct != nil {
		l.TaxPct = decimalPtr(*p.TaxPct)
	}
	if p.RetentionPct != nil {
		l.RetentionPct = decimalPtr(*p.RetentionPct)
	}
}

// BudgetResourcePatch lists the resource attributes an update may change; nil means unchanged.
type BudgetResourcePatch struct {
	ResourceType    *ResourceType
	Name            *string
	Unit            *string
	Quantity        *decimal.Decimal
	UnitCost        *decimal.Decimal
	Attributes      map[string]string
	ExpectedVersion *int64
}

// Apply writes the present fields onto r and recosts it.
func (p BudgetResourcePatch) Apply(r *BudgetResource) {
	if p.ResourceType != nil {
		r.ResourceType = *p.ResourceType
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Unit != nil {
		r.Unit = *p.Unit
	}
	if p.Quantity != nil {
		r.Quantity = *p.Quantity
	}
	if p.UnitCost != nil {
		r.UnitCost = *p.UnitCost
	}
	if p.Attributes != nil {
		r.Attributes = p.Attributes
	}
	r.Recost()
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

// LineRecompute is the outcome of a resource mutation: the affected resource
// (nil after a delete) and the owning line with its recomputed totals.
type LineRecompute struct {
	Resource *BudgetResource `json:"resource,omitempty"`
	Line     BudgetLine      `json:"line"`
}
