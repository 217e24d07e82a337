package domain

import "github.com/shopspring/decimal"

// NodeTemplate is a read-only catalog entry used to seed new WBS nodes.
type NodeTemplate struct {
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	Category        WbsCategory        `json:"category"`
	Unit            string             `json:"unit"`
	DefaultQuantity *decimal.Decimal   `json:"defaultQuantity"`
	Resources       []TemplateResource `json:"resources"`
}

// TemplateResource is a resource line copied into a budget line seeded from a template.
type TemplateResource struct {
	ResourceType ResourceType      `json:"resourceType"`
	Name         string            `json:"name"`
	Unit         string            `json:"unit"`
	Quantity     decimal.Decimal   `json:"quantity"`
	UnitCost     decimal.Decimal   `json:"unitCost"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}
