package trade

import (
	"context"

	appevent "github.com/SamerElhamdo/stockly/internal/application/event"
	"github.com/SamerElhamdo/stockly/internal/domain/identity"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnService handles the return workflow
type ReturnService struct {
	returnRepo     trade.ReturnRepository
	invoiceRepo    trade.InvoiceRepository
	companyRepo    identity.CompanyRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewReturnService creates a new ReturnService
func NewReturnService(
	returnRepo trade.ReturnRepository,
	invoiceRepo trade.InvoiceRepository,
	companyRepo identity.CompanyRepository,
	txScope TransactionScope,
) *ReturnService {
	return &ReturnService{
		returnRepo:  returnRepo,
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		txScope:     txScope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

type requestedLine struct {
	originalItemID uuid.UUID
	qty            decimal.Decimal
}

// mergeLines validates quantities and folds repeated original items into one line
func mergeLines(items []CreateReturnItemRequest) ([]requestedLine, error) {
	if len(items) == 0 {
		return nil, shared.NewValidationError("Return must have at least one item")
	}
	index := make(map[uuid.UUID]int, len(items))
	lines := make([]requestedLine, 0, len(items))
	for _, item := range items {
		if !item.Quantity.IsPositive() {
			return nil, shared.NewValidationError("Return quantity must be greater than zero")
		}
		if i, ok := index[item.OriginalItemID]; ok {
			lines[i].qty = lines[i].qty.Add(item.Quantity)
			continue
		}
		index[item.OriginalItemID] = len(lines)
		lines = append(lines, requestedLine{originalItemID: item.OriginalItemID, qty: item.Quantity})
	}
	return lines, nil
}

// Create opens a pending return. The invoice and the company's return
// sequence stay locked until commit, so concurrent creates serialize.
func (s *ReturnService) Create(ctx context.Context, companyID, actorID uuid.UUID, req CreateReturnRequest) (*ReturnResponse, error) {
	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var created *trade.Return
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, companyID, req.InvoiceID)
		if err != nil {
			return err
		}
		if !invoice.IsConfirmed() {
			return shared.NewInvalidStateError("Returns can only be created for confirmed invoices")
		}

		returned, err := repos.ReturnRepo().SumReturnedByOriginalItem(ctx, companyID, invoice.ID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			original := invoice.FindItem(line.originalItemID)
			if original == nil {
				return shared.NewNotFoundError("Invoice item")
			}
			if err := trade.CheckReturnable(original, returned[original.ID], line.qty); err != nil {
				return err
			}
		}

		seq, err := repos.SequenceRepo().Next(ctx, companyID)
		if err != nil {
			return err
		}
		ret, err := trade.NewReturn(invoice, trade.FormatReturnNumber(company.Code, seq), actorID, req.Notes)
		if err != nil {
			return err
		}
		for _, line := range lines {
			original := invoice.FindItem(line.originalItemID)
			if _, err := ret.AddItem(original, line.qty, returned[original.ID]); err != nil {
				return err
			}
		}
		if err := ret.Submit(); err != nil {
			return err
		}
		if err := repos.ReturnRepo().Create(ctx, ret); err != nil {
			return err
		}
		created = ret
		return nil
	})
	if err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, created)

	response := ToReturnResponse(created)
	return &response, nil
}

// Approve accepts a pending return and restores stock. The return cap is
// checked again under the invoice lock so racing approvals cannot over-return.
func (s *ReturnService) Approve(ctx context.Context, companyID, actorID, returnID uuid.UUID) (_ *ReturnResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "return", "approve",
		telemetry.AttrCompanyID.String(companyID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var approved *trade.Return

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ret, err := repos.ReturnRepo().FindByIDForUpdate(ctx, companyID, returnID)
		if err != nil {
			return err
		}
		if ret.Status != trade.ReturnStatusPending {
			return shared.NewInvalidStateError("Only pending returns can be approved, current status: " + ret.Status.String())
		}

		invoice, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, companyID, ret.InvoiceID)
		if err != nil {
			return err
		}
		returned, err := repos.ReturnRepo().SumReturnedByOriginalItem(ctx, companyID, invoice.ID)
		if err != nil {
			return err
		}
		requested := ret.QuantityByOriginalItem()
		for _, originalID := range trade.SortedProductIDs(requested) {
			original := invoice.FindItem(originalID)
			if original == nil {
				return shared.NewNotFoundError("Invoice item")
			}
			if err := trade.CheckReturnable(original, returned[originalID], requested[originalID]); err != nil {
				return err
			}
		}

		restock := ret.QuantityByProduct()
		productIDs := trade.SortedProductIDs(restock)
		products, err := repos.ProductRepo().FindByIDsForUpdate(ctx, companyID, productIDs)
		if err != nil {
			return err
		}
		if len(products) != len(productIDs) {
			return shared.NewNotFoundError("Product")
		}
		for i := range products {
			product := &products[i]
			if err := product.IncreaseStock(restock[product.ID]); err != nil {
				return err
			}
			if err := repos.ProductRepo().UpdateStock(ctx, product); err != nil {
				return err
			}
		}

		if err := ret.Approve(actorID); err != nil {
			return err
		}
		if err := repos.ReturnRepo().Save(ctx, ret); err != nil {
			return err
		}
		approved = ret
		return nil
	})
	if err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, approved)

	response := ToReturnResponse(approved)
	return &response, nil
}

// Reject declines a pending return. No stock or balance effect.
func (s *ReturnService) Reject(ctx context.Context, companyID, actorID, returnID uuid.UUID, req RejectReturnRequest) (*ReturnResponse, error) {
	var rejected *trade.Return

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		ret, err := repos.ReturnRepo().FindByIDForUpdate(ctx, companyID, returnID)
		if err != nil {
			return err
		}
		if err := ret.Reject(actorID, req.Reason); err != nil {
			return err
		}
		if err := repos.ReturnRepo().Save(ctx, ret); err != nil {
			return err
		}
		rejected = ret
		return nil
	})
	if err != nil {
		return nil, err
	}

	appevent.PublishAggregateEvents(ctx, s.eventPublisher, rejected)

	response := ToReturnResponse(rejected)
	return &response, nil
}

// GetReturnableItems lists the lines of a confirmed invoice that still have
// quantity left to return. Other invoices yield an empty list.
func (s *ReturnService) GetReturnableItems(ctx context.Context, companyID, invoiceID uuid.UUID) ([]ReturnableItemResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForCompany(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	items := make([]ReturnableItemResponse, 0, len(invoice.Items))
	if !invoice.IsConfirmed() {
		return items, nil
	}

	returned, err := s.returnRepo.SumReturnedByOriginalItem(ctx, companyID, invoice.ID)
	if err != nil {
		return nil, err
	}
	for _, item := range invoice.Items {
		available := item.Quantity.Sub(returned[item.ID])
		if !available.IsPositive() {
			continue
		}
		items = append(items, ReturnableItemResponse{
			ItemID:       item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductSKU:   item.ProductSKU,
			QtySold:      item.Quantity,
			QtyReturned:  returned[item.ID],
			QtyAvailable: available,
			UnitPrice:    item.PriceAtAdd,
			LineTotal:    item.LineTotal,
		})
	}
	return items, nil
}

// GetByID returns a return with its items
func (s *ReturnService) GetByID(ctx context.Context, companyID, returnID uuid.UUID) (*ReturnResponse, error) {
	ret, err := s.returnRepo.FindByIDForCompany(ctx, companyID, returnID)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(ret)
	return &response, nil
}

// List returns return headers of a company
func (s *ReturnService) List(ctx context.Context, companyID uuid.UUID, filter ReturnListFilter) ([]ReturnResponse, int64, error) {
	domainFilter := trade.ReturnFilter{
		Filter:     toFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		CustomerID: filter.CustomerID,
		InvoiceID:  filter.InvoiceID,
	}
	if filter.Status != "" {
		status := trade.ReturnStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewValidationError("Invalid return status: " + filter.Status)
		}
		domainFilter.Status = &status
	}

	returns, total, err := s.returnRepo.FindAllForCompany(ctx, companyID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ReturnResponse, len(returns))
	for i := range returns {
		responses[i] = ToReturnResponse(&returns[i])
	}
	return responses, total, nil
}
