package costing

import (
	"github.com/shopspring/decimal"
	"github.com/simonbravin/bloqer/internal/apperrors"
	"github.com/simonbravin/bloqer/internal/core/domain"
)

// MoneyScale is the number of decimal places kept on persisted totals.
const MoneyScale = 6

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Percentages are the four markups applied by Cascade, each in [0, 100].
type Percentages struct {
	Overhead  decimal.Decimal
	Financial decimal.Decimal
	Profit    decimal.Decimal
	Tax       decimal.Decimal
}

// Validate rejects any percentage outside [0, 100].
func (p Percentages) Validate() error {
	fields := []struct {
		name  string
		value decimal.Decimal
	}{
		{"overheadPct", p.Overhead},
		{"financialPct", p.Financial},
		{"profitPct", p.Profit},
		{"taxPct", p.Tax},
	}
	for _, f := range fields {
		if err := ValidatePercentage(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePercentage checks a single named percentage.
func ValidatePercentage(name string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return apperrors.NewDomainError(apperrors.CodePercentageOutOfRange, "%s must be between 0 and 100, got %s", name, v.String())
	}
	return nil
}

// Breakdown is every intermediate of the markup cascade for one unit.
type Breakdown struct {
	DirectCost      decimal.Decimal `json:"directCost"`
	OverheadAmount  decimal.Decimal `json:"overheadAmount"`
	Subtotal1       decimal.Decimal `json:"subtotal1"`
	FinancialAmount decimal.Decimal `json:"financialAmount"`
	ProfitAmount    decimal.Decimal `json:"profitAmount"`
	Subtotal2       decimal.Decimal `json:"subtotal2"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
}

func rate(pct decimal.Decimal) decimal.Decimal {
	return pct.Div(hundred)
}

// Cascade applies overhead, then financial and profit as one combined
// multiplier, then tax:
//
//	subtotal1  = direct * (1 + overhead/100)
//	subtotal2  = subtotal1 * (1 + financial/100 + profit/100)
//	totalPrice = subtotal2 * (1 + tax/100)
//
// No rounding is applied; callers round when persisting.
func Cascade(unitDirectCost decimal.Decimal, p Percentages) Breakdown {
	overhead := unitDirectCost.Mul(rate(p.Overhead))
	subtotal1 := unitDirectCost.Add(overhead)

	financial := subtotal1.Mul(rate(p.Financial))
	profit := subtotal1.Mul(rate(p.Profit))
	subtotal2 := subtotal1.Mul(one.Add(rate(p.Financial)).Add(rate(p.Profit)))

	tax := subtotal2.Mul(rate(p.Tax))
	total := subtotal2.Add(tax)

	return Breakdown{
		DirectCost:      unitDirectCost,
		OverheadAmount:  overhead,
		Subtotal1:       subtotal1,
		FinancialAmount: financial,
		ProfitAmount:    profit,
		Subtotal2:       subtotal2,
		TaxAmount:       tax,
		TotalPrice:      total,
	}
}

// LineSalePrice is the cascade of the unit direct cost times quantity. The
// cascade is linear, so this equals the cascade of the line's direct total,
// which avoids dividing by quantity.
func LineSalePrice(directCostTotal decimal.Decimal, p Percentages) decimal.Decimal {
	return Cascade(directCostTotal, p).TotalPrice.Round(MoneyScale)
}

// VersionPercentages returns the global markups of a budget version.
func VersionPercentages(v domain.BudgetVersion) Percentages {
	return Percentages{
		Overhead:  v.OverheadPct,
		Financial: v.FinancialPct,
		Profit:    v.ProfitPct,
		Tax:       v.TaxPct,
	}
}

// EffectivePercentages resolves the markups that price line: the version
// globals in SIMPLE mode, the line's own values in ADVANCED mode with any
// missing one falling back to the global.
func EffectivePercentages(v domain.BudgetVersion, line domain.BudgetLine) Percentages {
	p := VersionPercentages(v)
	if v.MarkupMode != domain.MarkupAdvanced {
		return p
	}
	if line.OverheadPct != nil {
		p.Overhead = *line.OverheadPct
	}
	if line.FinancialPct != nil {
		p.Financial = *line.FinancialPct
	}
	if line.ProfitPct != nil {
		p.Profit = *line.ProfitPct
	}
	if line.TaxPct != nil {
		p.Tax = *line.TaxPct
	}
	return p
}

// Reprice sets line.SalePriceTotal from its direct cost under version's markups.
func Reprice(v domain.BudgetVersion, line *domain.BudgetLine) {
	line.SalePriceTotal = LineSalePrice(line.DirectCostTotal, EffectivePercentages(v, *line))
}

// SumResources returns Σ TotalCost over resources.
func SumResources(resources []domain.BudgetResource) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range resources {
		sum = sum.Add(r.TotalCost)
	}
	return sum.Round(MoneyScale)
}
