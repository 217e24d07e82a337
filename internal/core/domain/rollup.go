package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NodeRollup is the aggregated cost of one WBS node and its subtree within a version.
type NodeRollup struct {
	NodeID    string      `json:"nodeID"`
	ParentID  *string     `json:"parentID"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Category  WbsCategory `json:"category"`
	Depth     int         `json:"depth"`
	LineCount int         `json:"lineCount"`
	// Own* sum only the lines attached directly to the node.
	OwnDirectCost decimal.Decimal `json:"ownDirectCost"`
	OwnSaleTotal  decimal.Decimal `json:"ownSaleTotal"`
	// DirectCost and Total include the whole subtree.
	DirectCost   decimal.Decimal `json:"directCost"`
	Total        decimal.Decimal `json:"total"`
	IncidencePct decimal.Decimal `json:"incidencePct"`
}

// VersionRollup is the read-side aggregation of one budget version over the active tree.
type VersionRollup struct {
	VersionID       string          `json:"versionID"`
	VersionCode     string          `json:"versionCode"`
	Status          VersionStatus   `json:"status"`
	DirectCostTotal decimal.Decimal `json:"directCostTotal"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	Nodes           []NodeRollup    `json:"nodes"` // pre-order
	ComputedAt      time.Time       `json:"computedAt"`
}
