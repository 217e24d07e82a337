package costing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/core/domain"
	"github.com/simonbravin/bloqer/internal/core/wbs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wbsNode(id, parent, code string, category domain.WbsCategory, sortOrder int, active bool) domain.WbsNode {
	n := domain.WbsNode{NodeID: id, Code: code, Name: id, Category: category, SortOrder: sortOrder, Active: active}
	if parent != "" {
		p := parent
		n.ParentID = &p
	}
	return n
}

func line(id, node, direct, sale string) domain.BudgetLine {
	return domain.BudgetLine{
		LineID:          id,
		BudgetVersionID: "v1",
		WbsNodeID:       node,
		DirectCostTotal: d(direct),
		SalePriceTotal:  d(sale),
	}
}

func byNode(r domain.VersionRollup) map[string]domain.NodeRollup {
	out := make(map[string]domain.NodeRollup, len(r.Nodes))
	for _, n := range r.Nodes {
		out[n.NodeID] = n
	}
	return out
}

func TestRollupAggregatesBottomUp(t *testing.T) {
	tree := wbs.NewTree([]domain.WbsNode{
		wbsNode("p1", "", "1", domain.CategoryPhase, 1, true),
		wbsNode("t1", "p1", "1.1", domain.CategoryTask, 1, true),
		wbsNode("i1", "t1", "1.1.1", domain.CategoryBudgetItem, 1, true),
		wbsNode("i2", "t1", "1.1.2", domain.CategoryBudgetItem, 2, true),
		wbsNode("p2", "", "2", domain.CategoryPhase, 2, true),
		wbsNode("gone", "p2", "2.1", domain.CategoryTask, 1, false),
	})
	version := domain.BudgetVersion{VersionID: "v1", VersionCode: "V1", Status: domain.StatusDraft}
	lines := []domain.BudgetLine{
		line("l1", "i1", "100", "150"),
		line("l2", "i2", "40", "60"),
		line("l3", "t1", "10", "15"),
		line("l4", "p2", "50", "75"),
		line("l5", "gone", "999", "999"),
		{LineID: "other", BudgetVersionID: "v2", WbsNodeID: "i1", SalePriceTotal: d("1000")},
	}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	r := Rollup(tree, version, lines, now)

	assert.Equal(t, "V1", r.VersionCode)
	assert.Equal(t, now, r.ComputedAt)
	assertDecimal(t, "300", r.GrandTotal, "grand total")
	assertDecimal(t, "200", r.DirectCostTotal, "direct total")

	require.Len(t, r.Nodes, 5)
	var order []string
	for _, n := range r.Nodes {
		order = append(order, n.NodeID)
	}
	assert.Equal(t, []string{"p1", "t1", "i1", "i2", "p2"}, order)

	nodes := byNode(r)
	assertDecimal(t, "225", nodes["p1"].Total, "p1")
	assertDecimal(t, "225", nodes["t1"].Total, "t1")
	assertDecimal(t, "15", nodes["t1"].OwnSaleTotal, "t1 own")
	assert.Equal(t, 1, nodes["t1"].LineCount)
	assertDecimal(t, "150", nodes["p1"].DirectCost, "p1 direct")
	assertDecimal(t, "75", nodes["p1"].IncidencePct, "p1 incidence")
	assertDecimal(t, "25", nodes["p2"].IncidencePct, "p2 incidence")
	assertDecimal(t, "50", nodes["i1"].IncidencePct, "i1 incidence")
	assert.Equal(t, 3, nodes["i1"].Depth)
}

func TestRollupZeroGrandTotal(t *testing.T) {
	tree := wbs.NewTree([]domain.WbsNode{
		wbsNode("p1", "", "1", domain.CategoryPhase, 1, true),
	})

	r := Rollup(tree, domain.BudgetVersion{VersionID: "v1"}, nil, time.Now())

	assert.True(t, r.GrandTotal.IsZero())
	require.Len(t, r.Nodes, 1)
	assert.True(t, r.Nodes[0].IncidencePct.IsZero())
}

func TestIncidencePct(t *testing.T) {
	assertDecimal(t, "33.3333", IncidencePct(d("1"), d("3")), "one third")
	assert.True(t, IncidencePct(d("5"), decimal.Zero).IsZero())
}
