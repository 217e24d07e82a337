// Package templates loads the read-only catalog of WBS node templates.
package templates

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
	portssvc "github.com/simonbravin/bloqer/internal/core/ports/services"
	"gopkg.in/yaml.v3"
)

// MaxCatalogFileSize bounds the catalog file read at startup.
const MaxCatalogFileSize = 1 << 20

// catalogYAML is the file layout. Decimals are kept as strings so that
// values like 0.35 are parsed exactly.
type catalogYAML struct {
	Templates []templateYAML `yaml:"templates"`
}

type templateYAML struct {
	Code            string         `yaml:"code"`
	Name            string         `yaml:"name"`
	Category        string         `yaml:"category"`
	Unit            string         `yaml:"unit"`
	DefaultQuantity string         `yaml:"defaultQuantity"`
	Resources       []resourceYAML `yaml:"resources"`
}

type resourceYAML struct {
	ResourceType string            `yaml:"resourceType"`
	Name         string            `yaml:"name"`
	Unit         string            `yaml:"unit"`
	Quantity     string            `yaml:"quantity"`
	UnitCost     string            `yaml:"unitCost"`
	Attributes   map[string]string `yaml:"attributes"`
}

// YAMLCatalog serves templates parsed once from a YAML document.
type YAMLCatalog struct {
	byCode map[string]domain.NodeTemplate
	codes  []string
}

var _ portssvc.TemplateCatalog = (*YAMLCatalog)(nil)

// LoadYAMLCatalog reads and parses the catalog file at path.
func LoadYAMLCatalog(path string) (*YAMLCatalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat template catalog: %w", err)
	}
	if info.Size() > MaxCatalogFileSize {
		return nil, fmt.Errorf("template catalog too large: %d bytes (max %d)", info.Size(), MaxCatalogFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template catalog: %w", err)
	}
	return ParseYAMLCatalog(data)
}

// ParseYAMLCatalog builds a catalog from YAML data, rejecting duplicate codes,
// unknown categories or resource types and malformed decimals.
func ParseYAMLCatalog(data []byte) (*YAMLCatalog, error) {
	var doc catalogYAML
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling template catalog: %w", err)
	}

	c := &YAMLCatalog{byCode: make(map[string]domain.NodeTemplate, len(doc.Templates))}
	for i, t := range doc.Templates {
		tpl, err := t.toDomain()
		if err != nil {
			return nil, fmt.Errorf("template at index %d: %w", i, err)
		}
		if _, dup := c.byCode[tpl.Code]; dup {
			return nil, fmt.Errorf("template at index %d: duplicate code %q", i, tpl.Code)
		}
		c.byCode[tpl.Code] = tpl
		c.codes = append(c.codes, tpl.Code)
	}
	sort.Strings(c.codes)
	return c, nil
}

func (t templateYAML) toDomain() (domain.NodeTemplate, error) {
	code := strings.TrimSpace(t.Code)
	if code == "" {
		return domain.NodeTemplate{}, fmt.Errorf("empty code")
	}
	if strings.TrimSpace(t.Name) == "" {
		return domain.NodeTemplate{}, fmt.Errorf("%s: empty name", code)
	}
	category, ok := domain.ParseWbsCategory(t.Category)
	if !ok {
		return domain.NodeTemplate{}, fmt.Errorf("%s: unknown category %q", code, t.Category)
	}

	tpl := domain.NodeTemplate{
		Code:     code,
		Name:     t.Name,
		Category: category,
		Unit:     t.Unit,
	}
	if t.DefaultQuantity != "" {
		q, err := parseNonNegative(t.DefaultQuantity)
		if err != nil {
			return domain.NodeTemplate{}, fmt.Errorf("%s: defaultQuantity: %w", code, err)
		}
		tpl.DefaultQuantity = &q
	}

	for j, r := range t.Resources {
		kind := domain.ResourceType(strings.ToUpper(strings.TrimSpace(r.ResourceType)))
		switch kind {
		case domain.ResourceMaterial, domain.ResourceLabor, domain.ResourceEquipment:
		default:
			return domain.NodeTemplate{}, fmt.Errorf("%s: resource %d: unknown type %q", code, j, r.ResourceType)
		}
		qty, err := parseNonNegative(r.Quantity)
		if err != nil {
			return domain.NodeTemplate{}, fmt.Errorf("%s: resource %d: quantity: %w", code, j, err)
		}
		cost, err := parseNonNegative(r.UnitCost)
		if err != nil {
			return domain.NodeTemplate{}, fmt.Errorf("%s: resource %d: unitCost: %w", code, j, err)
		}
		tpl.Resources = append(tpl.Resources, domain.TemplateResource{
			ResourceType: kind,
			Name:         r.Name,
			Unit:         r.Unit,
			Quantity:     qty,
			UnitCost:     cost,
			Attributes:   r.Attributes,
		})
	}
	return tpl, nil
}

func parseNonNegative(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("must not be negative, got %s", s)
	}
	return d, nil
}

// FindTemplate returns a copy of the template with code.
func (c *YAMLCatalog) FindTemplate(_ context.Context, code string) (*domain.NodeTemplate, error) {
	tpl, ok := c.byCode[code]
	if !ok {
		return nil, fmt.Errorf("%w: template %s", apperrors.ErrNotFound, code)
	}
	out := cloneTemplate(tpl)
	return &out, nil
}

// ListTemplates returns every template ordered by code.
func (c *YAMLCatalog) ListTemplates(_ context.Context) ([]domain.NodeTemplate, error) {
	out := make([]domain.NodeTemplate, 0, len(c.codes))
	for _, code := range c.codes {
		out = append(out, cloneTemplate(c.byCode[code]))
	}
	return out, nil
}

func cloneTemplate(t domain.NodeTemplate) domain.NodeTemplate {
	if t.DefaultQuantity != nil {
		q := *t.DefaultQuantity
		t.DefaultQuantity = &q
	}
	resources := make([]domain.TemplateResource, len(t.Resources))
	for i, r := range t.Resources {
		if r.Attributes != nil {
			attrs := make(map[string]string, len(r.Attributes))
			for k, v := range r.Attributes {
				attrs[k] = v
			}
			r.Attributes = attrs
		}
		resources[i] = r
	}
	t.Resources = resources
	return t
}
