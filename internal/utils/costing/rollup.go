package costing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/core/wbs"
)

// IncidenceScale is the number of decimal places of incidence percentages.
const IncidenceScale = 4

// Rollup aggregates version's lines over the active tree. A node's Total is
// the sale total of its own lines plus the totals of its children; lines on
// nodes that are not in the active tree are left out. Nodes come back in
// pre-order.
func Rollup(tree *wbs.Tree, version domain.BudgetVersion, lines []domain.BudgetLine, now time.Time) domain.VersionRollup {
	order := make([]*domain.WbsNode, 0, tree.Len())
	depth := make(map[string]int, tree.Len())
	tree.Walk(func(n *domain.WbsNode, d int) {
		order = append(order, n)
		depth[n.NodeID] = d
	})

	index := make(map[string]int, len(order))
	nodes := make([]domain.NodeRollup, len(order))
	for i, n := range order {
		index[n.NodeID] = i
		nodes[i] = domain.NodeRollup{
			NodeID:        n.NodeID,
			ParentID:      n.ParentID,
			Code:          n.Code,
			Name:          n.Name,
			Category:      n.Category,
			Depth:         depth[n.NodeID],
			OwnDirectCost: decimal.Zero,
			OwnSaleTotal:  decimal.Zero,
		}
	}

	for _, l := range lines {
		if l.BudgetVersionID != version.VersionID {
			continue
		}
		i, ok := index[l.WbsNodeID]
		if !ok {
			continue
		}
		nodes[i].LineCount++
		nodes[i].OwnDirectCost = nodes[i].OwnDirectCost.Add(l.DirectCostTotal)
		nodes[i].OwnSaleTotal = nodes[i].OwnSaleTotal.Add(l.SalePriceTotal)
	}

	// Reverse pre-order visits every child before its parent.
	for i := len(nodes) - 1; i >= 0; i-- {
		nodes[i].DirectCost = nodes[i].DirectCost.Add(nodes[i].OwnDirectCost)
		nodes[i].Total = nodes[i].Total.Add(nodes[i].OwnSaleTotal)
		if nodes[i].ParentID == nil {
			continue
		}
		if p, ok := index[*nodes[i].ParentID]; ok {
			nodes[p].DirectCost = nodes[p].DirectCost.Add(nodes[i].DirectCost)
			nodes[p].Total = nodes[p].Total.Add(nodes[i].Total)
		}
	}

	grand, direct := decimal.Zero, decimal.Zero
	for _, n := range nodes {
		if n.Depth == 1 {
			grand = grand.Add(n.Total)
			direct = direct.Add(n.DirectCost)
		}
	}
	for i := range nodes {
		nodes[i].IncidencePct = IncidencePct(nodes[i].Total, grand)
	}

	return domain.VersionRollup{
		VersionID:       version.VersionID,
		VersionCode:     version.VersionCode,
		Status:          version.Status,
		DirectCostTotal: direct,
		GrandTotal:      grand,
		Nodes:           nodes,
		ComputedAt:      now,
	}
}

// IncidencePct is total's share of grandTotal in percent, or 0 when grandTotal is 0.
func IncidencePct(total, grandTotal decimal.Decimal) decimal.Decimal {
	if grandTotal.IsZero() {
		return decimal.Zero
	}
	return total.Mul(hundred).DivRound(grandTotal, IncidenceScale)
}
