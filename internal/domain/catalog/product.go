package catalog

import (
	"strings"

	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit is the measurement unit a product is sold in
type Unit string

const (
	UnitPiece Unit = "piece"
	UnitMeter Unit = "meter"
	UnitKg    Unit = "kg"
	UnitLiter Unit = "liter"
	UnitBox   Unit = "box"
	UnitPack  Unit = "pack"
	UnitRoll  Unit = "roll"
	UnitSheet Unit = "sheet"
	UnitOther Unit = "other"
)

// IsValid reports whether the unit is one of the known units
func (u Unit) IsValid() bool {
	switch u {
	case UnitPiece, UnitMeter, UnitKg, UnitLiter, UnitBox, UnitPack, UnitRoll, UnitSheet, UnitOther:
		return true
	}
	return false
}

// String returns the string representation of Unit
func (u Unit) String() string {
	return string(u)
}

// Product represents a sellable product and its on-hand stock.
// StockQty is the committed quantity; it changes only through
// invoice confirmation and return approval.
type Product struct {
	shared.CompanyAggregateRoot
	Name           string
	SKU            string
	CategoryID     *uuid.UUID
	Price          decimal.Decimal
	CostPrice      *decimal.Decimal
	WholesalePrice *decimal.Decimal
	RetailPrice    *decimal.Decimal
	StockQty       decimal.Decimal
	Unit           Unit
	Measurement    string
	Description    string
	Archived       bool
}

// NewProduct creates a new product. An empty sku is generated from the
// company and product name by the caller before persistence.
func NewProduct(companyID uuid.UUID, name, sku string, unit Unit, price, stockQty decimal.Decimal) (*Product, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("Company ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		unit = UnitPiece
	}
	if !unit.IsValid() {
		return nil, shared.NewValidationError("Unknown product unit: " + unit.String())
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Price cannot be negative")
	}
	if stockQty.IsNegative() {
		return nil, shared.NewValidationError("Stock quantity cannot be negative")
	}

	product := &Product{
		CompanyAggregateRoot: shared.NewCompanyAggregateRoot(companyID),
		Name:                 name,
		SKU:                  strings.ToUpper(strings.TrimSpace(sku)),
		Price:                price,
		StockQty:             stockQty,
		Unit:                 unit,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// SetCategory assigns or clears the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.Touch()
}

// SetSKU assigns the product SKU
func (p *Product) SetSKU(sku string) error {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return shared.NewValidationError("SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewValidationError("SKU cannot exceed 50 characters")
	}
	p.SKU = sku
	p.Touch()
	return nil
}

// SetDetails updates descriptive fields
func (p *Product) SetDetails(measurement, description string) {
	p.Measurement = strings.TrimSpace(measurement)
	p.Description = strings.TrimSpace(description)
	p.Touch()
}

// SetTierPrices sets the optional cost, wholesale and retail prices
func (p *Product) SetTierPrices(cost, wholesale, retail *decimal.Decimal) error {
	for _, v := range []*decimal.Decimal{cost, wholesale, retail} {
		if v != nil && v.IsNegative() {
			return shared.NewValidationError("Prices cannot be negative")
		}
	}
	p.CostPrice = cost
	p.WholesalePrice = wholesale
	p.RetailPrice = retail
	p.Touch()
	return nil
}

// UpdatePrice changes the selling price. Existing invoice lines keep their snapshot.
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Price cannot be negative")
	}
	if price.Equal(p.Price) {
		return nil
	}
	old := p.Price
	p.Price = price
	p.Touch()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, old))
	return nil
}

// HasStock reports whether at least qty is on hand
func (p *Product) HasStock(qty decimal.Decimal) bool {
	return p.StockQty.GreaterThanOrEqual(qty)
}

// DecreaseStock removes qty from on-hand stock
func (p *Product) DecreaseStock(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("Quantity must be positive")
	}
	if !p.HasStock(qty) {
		return shared.ErrInsufficientStock.WithDetails(map[string]any{
			"product_id":   p.ID,
			"product_name": p.Name,
			"available":    p.StockQty,
			"required":     qty,
		})
	}
	p.StockQty = p.StockQty.Sub(qty)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IncreaseStock adds qty to on-hand stock
func (p *Product) IncreaseStock(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewValidationError("Quantity must be positive")
	}
	p.StockQty = p.StockQty.Add(qty)
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Archive hides the product from sale. Archived products cannot be added to invoices.
func (p *Product) Archive() error {
	if p.Archived {
		return shared.NewInvalidStateError("Product is already archived")
	}
	p.Archived = true
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductArchivedEvent(p))
	return nil
}

// Restore makes an archived product sellable again
func (p *Product) Restore() error {
	if !p.Archived {
		return shared.NewInvalidStateError("Product is not archived")
	}
	p.Archived = false
	p.Touch()
	p.IncrementVersion()
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("Product name cannot exceed 200 characters")
	}
	return nil
}
