package trade

import (
	"context"
	"strings"

	appevent "github.com/SamerElhamdo/stockly/internal/application/event"
	"github.com/SamerElhamdo/stockly/internal/domain/catalog"
	"github.com/SamerElhamdo/stockly/internal/domain/partner"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerResolver finds the customer a draft invoice is opened for.
// A name that matches no customer creates one.
type CustomerResolver interface {
	Resolve(ctx context.Context, companyID, actorID uuid.UUID, customerID *uuid.UUID, name string) (*partner.Customer, error)
}

// InvoiceService handles the invoice lifecycle
type InvoiceService struct {
	invoiceRepo    trade.InvoiceRepository
	customers      CustomerResolver
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo trade.InvoiceRepository,
	customers CustomerResolver,
	txScope TransactionScope,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		customers:   customers,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateDraft opens an empty draft invoice
func (s *InvoiceService) CreateDraft(ctx context.Context, companyID, actorID uuid.UUID, req CreateDraftRequest) (*InvoiceResponse, error) {
	if req.CustomerID == nil && strings.TrimSpace(req.CustomerName) == "" {
		return nil, shared.NewValidationError("customer_id or customer_name is required")
	}

	customer, err := s.customers.Resolve(ctx, companyID, actorID, req.CustomerID, req.CustomerName)
	if err != nil {
		return nil, err
	}

	invoice, err := trade.NewInvoice(companyID, customer.ID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// AddItem appends a product line after a non-locking stock check.
// The invoice row is locked for the write so a concurrent confirm or cancel
// cannot be overwritten; product rows are not locked. The authoritative
// stock check happens at confirmation.
func (s *InvoiceService) AddItem(ctx context.Context, companyID, invoiceID uuid.UUID, req AddItemRequest) (*InvoiceResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, shared.NewValidationError("Quantity must be greater than zero")
	}

	var updated *trade.Invoice

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if !invoice.IsDraft() {
			return shared.NewInvalidStateError("Items can only be added to draft invoices")
		}

		product, err := repos.ProductRepo().FindByIDForCompany(ctx, companyID, req.ProductID)
		if err != nil {
			return err
		}
		if product.Archived {
			return shared.NewValidationError("Product is archived")
		}

		existing := invoice.QuantityOfProduct(product.ID)
		if product.StockQty.LessThan(existing.Add(req.Quantity)) {
			return shared.ErrInsufficientStock.WithDetails(map[string]any{
				"product_id":         product.ID,
				"product_name":       product.Name,
				"available":          product.StockQty,
				"already_in_invoice": existing,
				"can_add":            decimal.Max(decimal.Zero, product.StockQty.Sub(existing)),
			})
		}

		item, err := invoice.AddItem(product.ID, product.Name, product.SKU, req.Quantity, product.Price)
		if err != nil {
			return err
		}
		if err := repos.InvoiceRepo().SaveItem(ctx, item); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}
		updated = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(updated)
	return &response, nil
}

// Confirm commits the invoice's stock in one transaction. The invoice row and
// every product row are locked, stock is re-validated, then decremented.
// Any shortage rolls everything back.
func (s *InvoiceService) Confirm(ctx context.Context, companyID, invoiceID uuid.UUID) (_ *InvoiceResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "confirm",
		telemetry.AttrCompanyID.String(companyID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var confirmed *trade.Invoice

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if !invoice.IsDraft() {
			return shared.NewInvalidStateError("Only draft invoices can be confirmed, current status: " + invoice.Status.String())
		}

		required := invoice.RequiredQuantities()
		productIDs := trade.SortedProductIDs(required)
		products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, companyID, productIDs)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*catalog.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		var shortages []StockShortage
		for _, id := range productIDs {
			product, ok := byID[id]
			if !ok {
				shortages = append(shortages, StockShortage{
					ProductID:   id,
					ProductName: productNameOnInvoice(invoice, id),
					Required:    required[id],
					Available:   decimal.Zero,
				})
				continue
			}
			if !product.HasStock(required[id]) {
				shortages = append(shortages, StockShortage{
					ProductID:   id,
					ProductName: product.Name,
					Required:    required[id],
					Available:   product.StockQty,
				})
			}
		}
		if len(shortages) > 0 {
			return shared.ErrInsufficientStockForConfirmation.WithDetails(shortages)
		}

		for _, id := range productIDs {
			product := byID[id]
			if err := product.DecreaseStock(required[id]); err != nil {
				return err
			}
			if err := repos.ProductRepo().UpdateStock(ctx, product); err != nil {
				return err
			}
		}

		if err := invoice.Confirm(); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}
		confirmed = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, confirmed)

	response := ToInvoiceResponse(confirmed)
	return &response, nil
}

// Cancel terminates a draft invoice. No stock effect.
func (s *InvoiceService) Cancel(ctx context.Context, companyID, invoiceID uuid.UUID, req CancelInvoiceRequest) (*InvoiceResponse, error) {
	var cancelled *trade.Invoice

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, companyID, invoiceID)
		if err != nil {
			return err
		}
		if err := invoice.Cancel(req.Reason); err != nil {
			return err
		}
		if err := repos.InvoiceRepo().Save(ctx, invoice); err != nil {
			return err
		}
		cancelled = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, cancelled)

	response := ToInvoiceResponse(cancelled)
	return &response, nil
}

// GetByID returns an invoice with its items
func (s *InvoiceService) GetByID(ctx context.Context, companyID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List returns invoice headers of a company
func (s *InvoiceService) List(ctx context.Context, companyID uuid.UUID, filter InvoiceListFilter) ([]InvoiceResponse, int64, error) {
	domainFilter := trade.InvoiceFilter{
		Filter:     toFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, ""),
		CustomerID: filter.CustomerID,
	}
	if filter.Status != "" {
		status := trade.InvoiceStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Invalid invoice status: " + filter.Status)
		}
		domainFilter.Status = &status
	}

	invoices, total, err := s.invoiceRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

func productNameOnInvoice(invoice *trade.Invoice, productID uuid.UUID) string {
	for _, item := range invoice.Items {
		if item.ProductID == productID {
			return item.ProductName
		}
	}
	return ""
}
