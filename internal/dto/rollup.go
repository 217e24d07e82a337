package dto

import (
	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/utils/costing"
)

// MarkupPreviewResponse is the cascade of one unit and the resulting line total.
type MarkupPreviewResponse struct {
	Breakdown costing.Breakdown `json:"breakdown"`
	Quantity  decimal.Decimal   `json:"quantity"`
	LineTotal decimal.Decimal   `json:"lineTotal"`
}
