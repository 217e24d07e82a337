package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/core/domain"
)

// CreateBudgetVersionRequest defines the data needed to open a new DRAFT version.
type CreateBudgetVersionRequest struct {
	Name         string          `json:"name" binding:"required,max=255"`
	MarkupMode   string          `json:"markupMode" binding:"omitempty,oneof=SIMPLE ADVANCED"`
	OverheadPct  decimal.Decimal `json:"overheadPct"`
	FinancialPct decimal.Decimal `json:"financialPct"`
	ProfitPct    decimal.Decimal `json:"profitPct"`
	TaxPct       decimal.Decimal `json:"taxPct"`
}

// UpdateBudgetVersionRequest defines the version settings that may be edited.
type UpdateBudgetVersionRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=255"`
	MarkupMode      *string          `json:"markupMode" binding:"omitempty,oneof=SIMPLE ADVANCED"`
	OverheadPct     *decimal.Decimal `json:"overheadPct"`
	FinancialPct    *decimal.Decimal `json:"financialPct"`
	ProfitPct       *decimal.Decimal `json:"profitPct"`
	TaxPct          *decimal.Decimal `json:"taxPct"`
	ExpectedVersion *int64           `json:"expectedVersion"`
}

// ToPatch converts the request to a domain patch.
func (r UpdateBudgetVersionRequest) ToPatch() domain.BudgetVersionPatch {
	p := domain.BudgetVersionPatch{
		Name:            r.Name,
		OverheadPct:     r.OverheadPct,
		FinancialPct:    r.FinancialPct,
		ProfitPct:       r.ProfitPct,
		TaxPct:          r.TaxPct,
		ExpectedVersion: r.ExpectedVersion,
	}
	if r.MarkupMode != nil {
		mode := domain.MarkupMode(*r.MarkupMode)
		p.MarkupMode = &mode
	}
	return p
}

// OverrideVersionStatusRequest is the privileged status change of a locked version.
type OverrideVersionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT BASELINE"`
	Reason string `json:"reason" binding:"required,min=3,max=1000"`
}

// CopyBudgetVersionRequest names the copy of a version.
type CopyBudgetVersionRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// ImportBudgetLinesRequest copies lines of another version of the same project.
type ImportBudgetLinesRequest struct {
	SourceVersionID string   `json:"sourceVersionID" binding:"required"`
	WbsNodeIDs      []string `json:"wbsNodeIDs"` // optional filter; empty imports every line
}

// CreateBudgetResourceRequest defines one APU resource of a line.
type CreateBudgetResourceRequest struct {
	ResourceType string            `json:"resourceType" binding:"required,oneof=MATERIAL LABOR EQUIPMENT"`
	Name         string            `json:"name" binding:"required,max=255"`
	Unit         string            `json:"unit" binding:"max=32"`
	Quantity     decimal.Decimal   `json:"quantity" binding:"gte=0"`
	UnitCost     decimal.Decimal   `json:"unitCost" binding:"gte=0"`
	Attributes   map[string]string `json:"attributes"`
}

// UpdateBudgetResourceRequest defines the resource attributes that may be edited.
type UpdateBudgetResourceRequest struct {
	ResourceType    *string           `json:"resourceType" binding:"omitempty,oneof=MATERIAL LABOR EQUIPMENT"`
	Name            *string           `json:"name" binding:"omitempty,min=1,max=255"`
	Unit            *string           `json:"unit" binding:"omitempty,max=32"`
	Quantity        *decimal.Decimal  `json:"quantity" binding:"omitempty,gte=0"`
	UnitCost        *decimal.Decimal  `json:"unitCost" binding:"omitempty,gte=0"`
	Attributes      map[string]string `json:"attributes"`
	ExpectedVersion *int64            `json:"expectedVersion"`
}

// ToPatch converts the request to a domain patch.
func (r UpdateBudgetResourceRequest) ToPatch() domain.BudgetResourcePatch {
	p := domain.BudgetResourcePatch{
		Name:            r.Name,
		Unit:            r.Unit,
		Quantity:        r.Quantity,
		UnitCost:        r.UnitCost,
		Attributes:      r.Attributes,
		ExpectedVersion: r.ExpectedVersion,
	}
	if r.ResourceType != nil {
		rt := domain.ResourceType(*r.ResourceType)
		p.ResourceType = &rt
	}
	return p
}

// CreateBudgetLineRequest defines the data needed to add a line to a DRAFT version.
// With Resources the direct cost is their sum; otherwise it is
// UnitDirectCost times Quantity.
type CreateBudgetLineRequest struct {
	WbsNodeID      string                        `json:"wbsNodeID" binding:"required"`
	Description    string                        `json:"description" binding:"required,max=1000"`
	Unit           string                        `json:"unit" binding:"required,max=32"`
	Quantity       decimal.Decimal               `json:"quantity" binding:"gt=0"`
	UnitDirectCost decimal.Decimal               `json:"unitDirectCost" binding:"gte=0"`
	OverheadPct    *decimal.Decimal              `json:"overheadPct"`
	FinancialPct   *decimal.Decimal              `json:"financialPct"`
	ProfitPct      *decimal.Decimal              `json:"profitPct"`
	TaxPct         *decimal.Decimal              `json:"taxPct"`
	RetentionPct   *decimal.Decimal              `json:"retentionPct"`
	Resources      []CreateBudgetResourceRequest `json:"resources" binding:"omitempty,dive"`
}

// UpdateBudgetLineRequest defines the line attributes that may be edited.
type UpdateBudgetLineRequest struct {
	WbsNodeID       *string          `json:"wbsNodeID" binding:"omitempty,min=1"`
	Description     *string          `json:"description" binding:"omitempty,min=1,max=1000"`
	Unit            *string          `json:"unit" binding:"omitempty,min=1,max=32"`
	Quantity        *decimal.Decimal `json:"quantity" binding:"omitempty,gt=0"`
	UnitDirectCost  *decimal.Decimal `json:"unitDirectCost" binding:"omitempty,gte=0"`
	OverheadPct     *decimal.Decimal `json:"overheadPct"`
	FinancialPct    *decimal.Decimal `json:"financialPct"`
	ProfitPct       *decimal.Decimal `json:"profitPct"`
	TaxPct          *decimal.Decimal `json:"taxPct"`
	RetentionPct    *decimal.Decimal `json:"retentionPct"`
	ExpectedVersion *int64           `json:"expectedVersion"`
}

// ToPatch converts the request to a domain patch.
func (r UpdateBudgetLineRequest) ToPatch() domain.BudgetLinePatch {
	return domain.BudgetLinePatch{
		WbsNodeID:       r.WbsNodeID,
		Description:     r.Description,
		Unit:            r.Unit,
		Quantity:        r.Quantity,
		UnitDirectCost:  r.UnitDirectCost,
		OverheadPct:     r.OverheadPct,
		FinancialPct:    r.FinancialPct,
		ProfitPct:       r.ProfitPct,
		TaxPct:          r.TaxPct,
		RetentionPct:    r.RetentionPct,
		ExpectedVersion: r.ExpectedVersion,
	}
}

// ListBudgetLinesParams defines query parameters for listing lines.
type ListBudgetLinesParams struct {
	Limit     int    `form:"limit"`
	NextToken string `form:"nextToken"`
}

// MarkupPreviewRequest prices a unit direct cost without touching any version.
type MarkupPreviewRequest struct {
	UnitDirectCost decimal.Decimal `json:"unitDirectCost" binding:"gte=0"`
	Quantity       decimal.Decimal `json:"quantity" binding:"gt=0"`
	OverheadPct    decimal.Decimal `json:"overheadPct"`
	FinancialPct   decimal.Decimal `json:"financialPct"`
	ProfitPct      decimal.Decimal `json:"profitPct"`
	TaxPct         decimal.Decimal `json:"taxPct"`
}

// BudgetVersionResponse defines the data returned for a budget version.
type BudgetVersionResponse struct {
	VersionID     string               `json:"versionID"`
	VersionCode   string               `json:"versionCode"`
	Name          string               `json:"name"`
	VersionType   domain.VersionType   `json:"versionType"`
	Status        domain.VersionStatus `json:"status"`
	MarkupMode    domain.MarkupMode    `json:"markupMode"`
	OverheadPct   decimal.Decimal      `json:"overheadPct"`
	FinancialPct  decimal.Decimal      `json:"financialPct"`
	ProfitPct     decimal.Decimal      `json:"profitPct"`
	TaxPct        decimal.Decimal      `json:"taxPct"`
	LockedAt      *time.Time           `json:"lockedAt"`
	ApprovedAt    *time.Time           `json:"approvedAt"`
	ApprovedBy    *string              `json:"approvedBy"`
	Version       int64                `json:"version"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
	LastUpdatedAt time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy string               `json:"lastUpdatedBy"`
}

// ToBudgetVersionResponse converts a domain.BudgetVersion to BudgetVersionResponse DTO
func ToBudgetVersionResponse(v *domain.BudgetVersion) BudgetVersionResponse {
	return BudgetVersionResponse{
		VersionID:     v.VersionID,
		VersionCode:   v.VersionCode,
		Name:          v.Name,
		VersionType:   v.VersionType,
		Status:        v.Status,
		MarkupMode:    v.MarkupMode,
		OverheadPct:   v.OverheadPct,
		FinancialPct:  v.FinancialPct,
		ProfitPct:     v.ProfitPct,
		TaxPct:        v.TaxPct,
		LockedAt:      v.LockedAt,
		ApprovedAt:    v.ApprovedAt,
		ApprovedBy:    v.ApprovedBy,
		Version:       v.Version,
		CreatedAt:     v.CreatedAt,
		CreatedBy:     v.CreatedBy,
		LastUpdatedAt: v.LastUpdatedAt,
		LastUpdatedBy: v.LastUpdatedBy,
	}
}

// ListBudgetVersionsResponse wraps the versions of a project.
type ListBudgetVersionsResponse struct {
	Versions []BudgetVersionResponse `json:"versions"`
}

// ToListBudgetVersionsResponse converts a slice of domain.BudgetVersion.
func ToListBudgetVersionsResponse(versions []domain.BudgetVersion) ListBudgetVersionsResponse {
	res := make([]BudgetVersionResponse, len(versions))
	for i := range versions {
		res[i] = ToBudgetVersionResponse(&versions[i])
	}
	return ListBudgetVersionsResponse{Versions: res}
}

// BudgetResourceResponse defines the data returned for a resource.
type BudgetResourceResponse struct {
	ResourceID   string              `json:"resourceID"`
	BudgetLineID string              `json:"budgetLineID"`
	ResourceType domain.ResourceType `json:"resourceType"`
	Name         string              `json:"name"`
	Unit         string              `json:"unit"`
	Quantity     decimal.Decimal     `json:"quantity"`
	UnitCost     decimal.Decimal     `json:"unitCost"`
	TotalCost    decimal.Decimal     `json:"totalCost"`
	Attributes   map[string]string   `json:"attributes,omitempty"`
	Version      int64               `json:"version"`
}

// ToBudgetResourceResponse converts a domain.BudgetResource.
func ToBudgetResourceResponse(r *domain.BudgetResource) BudgetResourceResponse {
	return BudgetResourceResponse{
		ResourceID:   r.ResourceID,
		BudgetLineID: r.BudgetLineID,
		ResourceType: r.ResourceType,
		Name:         r.Name,
		Unit:         r.Unit,
		Quantity:     r.Quantity,
		UnitCost:     r.UnitCost,
		TotalCost:    r.TotalCost,
		Attributes:   r.Attributes,
		Version:      r.Version,
	}
}

// ToBudgetResourceResponses converts a slice of domain.BudgetResource.
func ToBudgetResourceResponses(resources []domain.BudgetResource) []BudgetResourceResponse {
	res := make([]BudgetResourceResponse, len(resources))
	for i := range resources {
		res[i] = ToBudgetResourceResponse(&resources[i])
	}
	return res
}

// BudgetLineResponse defines the data returned for a line.
type BudgetLineResponse struct {
	LineID          string           `json:"lineID"`
	BudgetVersionID string           `json:"budgetVersionID"`
	WbsNodeID       string           `json:"wbsNodeID"`
	Description     string           `json:"description"`
	Unit            string           `json:"unit"`
	Quantity        decimal.Decimal  `json:"quantity"`
	DirectCostTotal decimal.Decimal  `json:"directCostTotal"`
	SalePriceTotal  decimal.Decimal  `json:"salePriceTotal"`
	OverheadPct     *decimal.Decimal `json:"overheadPct"`
	FinancialPct    *decimal.Decimal `json:"financialPct"`
	ProfitPct       *decimal.Decimal `json:"profitPct"`
	TaxPct          *decimal.Decimal `json:"taxPct"`
	RetentionPct    *decimal.Decimal `json:"retentionPct"`
	SortOrder       int              `json:"sortOrder"`
	Version         int64            `json:"version"`
	LastUpdatedAt   time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy   string           `json:"lastUpdatedBy"`
}

// ToBudgetLineResponse converts a domain.BudgetLine.
func ToBudgetLineResponse(l *domain.BudgetLine) BudgetLineResponse {
	return BudgetLineResponse{
		LineID:          l.LineID,
		BudgetVersionID: l.BudgetVersionID,
		WbsNodeID:       l.WbsNodeID,
		Description:     l.Description,
		Unit:            l.Unit,
		Quantity:        l.Quantity,
		DirectCostTotal: l.DirectCostTotal,
		SalePriceTotal:  l.SalePriceTotal,
		OverheadPct:     l.OverheadPct,
		FinancialPct:    l.FinancialPct,
		ProfitPct:       l.ProfitPct,
		TaxPct:          l.TaxPct,
		RetentionPct:    l.RetentionPct,
		SortOrder:       l.SortOrder,
		Version:         l.Version,
		LastUpdatedAt:   l.LastUpdatedAt,
		LastUpdatedBy:   l.LastUpdatedBy,
	}
}

// ToBudgetLineResponses converts a slice of domain.BudgetLine.
func ToBudgetLineResponses(lines []domain.BudgetLine) []BudgetLineResponse {
	res := make([]BudgetLineResponse, len(lines))
	for i := range lines {
		res[i] = ToBudgetLineResponse(&lines[i])
	}
	return res
}

// ListBudgetLinesResponse is one page of lines.
type ListBudgetLinesResponse struct {
	Lines     []BudgetLineResponse `json:"lines"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// LineWithResourcesResponse is a line and its APU resources.
type LineWithResourcesResponse struct {
	Line      BudgetLineResponse       `json:"line"`
	Resources []BudgetResourceResponse `json:"resources"`
}

// LineRecomputeResponse is the result of a resource mutation.
type LineRecomputeResponse struct {
	Resource *BudgetResourceResponse `json:"resource,omitempty"`
	Line     BudgetLineResponse      `json:"line"`
}

// ToLineRecomputeResponse converts a domain.LineRecompute.
func ToLineRecomputeResponse(r *domain.LineRecompute) LineRecomputeResponse {
	res := LineRecomputeResponse{Line: ToBudgetLineResponse(&r.Line)}
	if r.Resource != nil {
		rr := ToBudgetResourceResponse(r.Resource)
		res.Resource = &rr
	}
	return res
}

// ListBudgetResourcesResponse wraps the resources of a line.
type ListBudgetResourcesResponse struct {
	Resources []BudgetResourceResponse `json:"resources"`
}

// ImportBudgetLinesResponse lists the lines created by an import.
type ImportBudgetLinesResponse struct {
	Imported int                  `json:"imported"`
	Lines    []BudgetLineResponse `json:"lines"`
}
