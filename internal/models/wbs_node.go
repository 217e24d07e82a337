package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// WbsNode is the row shape of wbs_nodes.
type WbsNode struct {
	NodeID      string              `db:"node_id"`
	OrgID       string              `db:"org_id"`
	ProjectID   string              `db:"project_id"`
	Code        string              `db:"code"`
	Name        string              `db:"name"`
	Description string              `db:"description"`
	Category    string              `db:"category"`
	ParentID    sql.NullString      `db:"parent_id"` // NULL for roots
	SortOrder   int                 `db:"sort_order"`
	Active      bool                `db:"active"`
	Quantity    decimal.NullDecimal `db:"quantity"`
	Unit        sql.NullString      `db:"unit"`
	AuditFields
}
