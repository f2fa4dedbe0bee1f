package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogapp "github.com/SamerElhamdo/stockly/internal/application/catalog"
	financeapp "github.com/SamerElhamdo/stockly/internal/application/finance"
	partnerapp "github.com/SamerElhamdo/stockly/internal/application/partner"
	tradeapp "github.com/SamerElhamdo/stockly/internal/application/trade"
	"github.com/SamerElhamdo/stockly/internal/domain/identity"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/event"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/export"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/logger"
	"github.com/SamerElhamdo/stockly/internal/infrastructure/persistence"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/dto"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/handler"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/middleware"
	"github.com/SamerElhamdo/stockly/internal/interfaces/http/router"
	"github.com/SamerElhamdo/stockly/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	engine  *gin.Engine
	company *identity.Company
	headers map[string]string
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	company := testutil.SeedCompany(t, db, "Al Noor Trading", "NOOR")
	log := zap.NewNop()

	companyRepo := persistence.NewGormCompanyRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	customerRepo := persistence.NewGormCustomerRepository(db)
	invoiceRepo := persistence.NewGormInvoiceRepository(db)
	returnRepo := persistence.NewGormReturnRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	balanceRepo := persistence.NewGormBalanceRepository(db)
	tradeScope := persistence.NewGormTradeTransactionScope(db)

	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, companyRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, "SY")
	invoiceService := tradeapp.NewInvoiceService(invoiceRepo, customerService, tradeScope)
	returnService := tradeapp.NewReturnService(returnRepo, invoiceRepo, companyRepo, tradeScope)
	paymentService := financeapp.NewPaymentService(paymentRepo, customerRepo, invoiceRepo)
	reconciler := financeapp.NewBalanceReconciler(persistence.NewGormFinanceTransactionScope(db), customerRepo, companyRepo, log)
	balanceService := financeapp.NewBalanceService(balanceRepo, customerRepo, companyRepo, reconciler, export.NewXLSXBalanceSheetWriter())

	bus := event.NewSyncEventBus(log)
	bus.Subscribe(financeapp.NewBalanceEventHandler(reconciler, log))
	require.NoError(t, bus.Start(context.Background()))
	invoiceService.SetEventPublisher(bus)
	returnService.SetEventPublisher(bus)
	paymentService.SetEventPublisher(bus)

	engine := gin.New()
	engine.Use(middleware.RequestID(), logger.GinMiddleware(log))
	handler.NewSystemHandler("stockly", "test", map[string]handler.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}).Mount(engine)

	r := router.NewRouter(engine, router.WithGroupMiddleware(middleware.Actor(middleware.ActorConfig{AllowHeaderActor: true})))
	r.Register(
		handler.NewCategoryHandler(categoryService),
		handler.NewProductHandler(productService),
		handler.NewCustomerHandler(customerService, paymentService, balanceService),
		handler.NewInvoiceHandler(invoiceService, returnService, paymentService),
		handler.NewReturnHandler(returnService),
		handler.NewPaymentHandler(paymentService),
		handler.NewBalanceHandler(balanceService),
	)
	r.Setup()

	return &apiFixture{
		engine:  engine,
		company: company,
		headers: testutil.ActorHeaders(company.ID.String(), uuid.NewString()),
	}
}

// idOf decodes {"id": ...} out of a successful response
func idOf(t *testing.T, body json.RawMessage) uuid.UUID {
	t.Helper()
	var out struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEqual(t, uuid.Nil, out.ID)
	return out.ID
}

func (f *apiFixture) createProduct(t *testing.T, name, price, stock string) uuid.UUID {
	t.Helper()
	w := testutil.DoJSON(t, f.engine, http.MethodPost, "/api/v1/products", map[string]any{
		"name":      name,
		"price":     price,
		"stock_qty": stock,
	}, f.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return idOf(t, testutil.DecodeEnvelope(t, w).Data)
}

func (f *apiFixture) createCustomer(t *testing.T, name string) uuid.UUID {
	t.Helper()
	w := testutil.DoJSON(t, f.engine, http.MethodPost, "/api/v1/customers", map[string]any{"name": name}, f.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return idOf(t, testutil.DecodeEnvelope(t, w).Data)
}

// confirmedInvoice sells qty of a fresh product to a fresh customer
func (f *apiFixture) confirmedInvoice(t *testing.T, price, stock, qty string) (invoice tradeapp.InvoiceResponse, productID uuid.UUID) {
	t.Helper()
	productID = f.createProduct(t, "Steel Pipe", price, stock)
	customerID := f.createCustomer(t, "Hadi Market")

	w := testutil.DoJSON(t, f.engine, http.MethodPost, "/api/v1/invoices", map[string]any{"customer_id": customerID}, f.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := idOf(t, testutil.DecodeEnvelope(t, w).Data)

	w = testutil.DoJSON(t, f.engine, http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/items",
		map[string]any{"product_id": productID, "quantity": qty}, f.headers)
	testutil.StatusOK(t, w)

	w = testutil.DoJSON(t, f.engine, http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/confirm", nil, f.headers)
	testutil.StatusOK(t, w)
	return testutil.DecodeData[tradeapp.InvoiceResponse](t, w), productID
}

func (f *apiFixture) product(t *testing.T, id uuid.UUID) catalogapp.ProductResponse {
	t.Helper()
	w := testutil.DoJSON(t, f.engine, http.MethodGet, "/api/v1/products/"+id.String(), nil, f.headers)
	testutil.StatusOK(t, w)
	return testutil.DecodeData[catalogapp.ProductResponse](t, w)
}

func TestInvoiceFlow_ConfirmDeductsStock(t *testing.T) {
	api := newAPI(t)

	invoice, productID := api.confirmedInvoice(t, "12.50", "10", "4")

	assert.Equal(t, "confirmed", invoice.Status)
	assert.True(t, decimal.RequireFromString("50").Equal(invoice.TotalAmount), "total %s", invoice.TotalAmount)
	assert.NotNil(t, invoice.ConfirmedAt)
	require.Len(t, invoice.Items, 1)
	assert.True(t, decimal.RequireFromString("12.50").Equal(invoice.Items[0].PriceAtAdd))

	assert.True(t, decimal.NewFromInt(6).Equal(api.product(t, productID).StockQty))

	w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/customers/"+invoice.CustomerID.String()+"/balance", nil, api.headers)
	testutil.StatusOK(t, w)
	balance := testutil.DecodeData[financeapp.BalanceResponse](t, w)
	assert.True(t, decimal.NewFromInt(50).Equal(balance.Balance), "balance %s", balance.Balance)
}

func TestInvoiceFlow_ConfirmTwiceIsInvalidState(t *testing.T) {
	api := newAPI(t)
	invoice, _ := api.confirmedInvoice(t, "5", "3", "1")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices/"+invoice.ID.String()+"/confirm", nil, api.headers)
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, shared.CodeInvalidState)
}

func TestInvoiceFlow_AddItemBeyondStock(t *testing.T) {
	api := newAPI(t)
	productID := api.createProduct(t, "Cable", "3", "2")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices", map[string]any{"customer_name": "Walk-in"}, api.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := idOf(t, testutil.DecodeEnvelope(t, w).Data)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/items",
		map[string]any{"product_id": productID, "quantity": "3"}, api.headers)
	env := testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, shared.CodeInsufficientStock)

	var details map[string]any
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	assert.Equal(t, productID.String(), details["product_id"])
	assert.Equal(t, "2", details["can_add"])
}

func TestInvoiceFlow_StockGoneBeforeConfirm(t *testing.T) {
	api := newAPI(t)
	productID := api.createProduct(t, "Valve", "7", "5")
	customerID := api.createCustomer(t, "Rami")

	openDraft := func() uuid.UUID {
		w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices", map[string]any{"customer_id": customerID}, api.headers)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		id := idOf(t, testutil.DecodeEnvelope(t, w).Data)
		w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices/"+id.String()+"/items",
			map[string]any{"product_id": productID, "quantity": "4"}, api.headers)
		testutil.StatusOK(t, w)
		return id
	}
	first, second := openDraft(), openDraft()

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices/"+first.String()+"/confirm", nil, api.headers)
	testutil.StatusOK(t, w)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices/"+second.String()+"/confirm", nil, api.headers)
	env := testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, shared.CodeInsufficientStockForConfirmation)

	var shortages []tradeapp.StockShortage
	require.NoError(t, json.Unmarshal(env.Error.Details, &shortages))
	require.Len(t, shortages, 1)
	assert.Equal(t, productID, shortages[0].ProductID)
	assert.True(t, decimal.NewFromInt(1).Equal(shortages[0].Available))

	assert.True(t, decimal.NewFromInt(1).Equal(api.product(t, productID).StockQty), "failed confirm must not touch stock")
}

func TestInvoiceFlow_Cancel(t *testing.T) {
	api := newAPI(t)

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices", map[string]any{"customer_name": "Walk-in"}, api.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := idOf(t, testutil.DecodeEnvelope(t, w).Data)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/cancel",
		map[string]any{"reason": "customer left"}, api.headers)
	testutil.StatusOK(t, w)
	cancelled := testutil.DecodeData[tradeapp.InvoiceResponse](t, w)
	assert.Equal(t, "cancelled", cancelled.Status)
	assert.Equal(t, "customer left", cancelled.CancelReason)
}

func TestReturnFlow_ApproveRestocksAndCaps(t *testing.T) {
	api := newAPI(t)
	invoice, productID := api.confirmedInvoice(t, "10", "10", "3")
	itemID := invoice.Items[0].ID

	w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/invoices/"+invoice.ID.String()+"/returnable-items", nil, api.headers)
	testutil.StatusOK(t, w)
	returnable := testutil.DecodeData[[]tradeapp.ReturnableItemResponse](t, w)
	require.Len(t, returnable, 1)
	assert.True(t, decimal.NewFromInt(3).Equal(returnable[0].QtyAvailable))

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/returns", map[string]any{
		"invoice_id": invoice.ID,
		"items":      []map[string]any{{"original_item_id": itemID, "qty_returned": "2"}},
	}, api.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := testutil.DecodeData[tradeapp.ReturnResponse](t, w)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, "RET-NOOR-0001", created.ReturnNumber)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/returns/"+created.ID.String()+"/approve", nil, api.headers)
	testutil.StatusOK(t, w)
	approved := testutil.DecodeData[tradeapp.ReturnResponse](t, w)
	assert.Equal(t, "approved", approved.Status)
	assert.NotNil(t, approved.ApprovedBy)

	assert.True(t, decimal.NewFromInt(9).Equal(api.product(t, productID).StockQty))

	// only one unit is left to return
	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/returns", map[string]any{
		"invoice_id": invoice.ID,
		"items":      []map[string]any{{"original_item_id": itemID, "qty_returned": "2"}},
	}, api.headers)
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, shared.CodeQuantityExceeded)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/customers/"+invoice.CustomerID.String()+"/balance", nil, api.headers)
	testutil.StatusOK(t, w)
	balance := testutil.DecodeData[financeapp.BalanceResponse](t, w)
	assert.True(t, decimal.NewFromInt(10).Equal(balance.Balance), "balance %s", balance.Balance)
	assert.True(t, decimal.NewFromInt(20).Equal(balance.TotalReturns))
}

func TestReturnFlow_Reject(t *testing.T) {
	api := newAPI(t)
	invoice, productID := api.confirmedInvoice(t, "10", "5", "2")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/returns", map[string]any{
		"invoice_id": invoice.ID,
		"items":      []map[string]any{{"original_item_id": invoice.Items[0].ID, "qty_returned": "1"}},
	}, api.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	returnID := idOf(t, testutil.DecodeEnvelope(t, w).Data)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/returns/"+returnID.String()+"/reject",
		map[string]any{"reason": "damaged by customer"}, api.headers)
	testutil.StatusOK(t, w)
	assert.Equal(t, "rejected", testutil.DecodeData[tradeapp.ReturnResponse](t, w).Status)

	assert.True(t, decimal.NewFromInt(3).Equal(api.product(t, productID).StockQty), "rejected returns do not restock")

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/returns/"+returnID.String()+"/approve", nil, api.headers)
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, shared.CodeInvalidState)
}

func TestPaymentFlow(t *testing.T) {
	api := newAPI(t)
	invoice, _ := api.confirmedInvoice(t, "25", "4", "4")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/payments", map[string]any{
		"customer_id":    invoice.CustomerID,
		"invoice_id":     invoice.ID,
		"amount":         "60",
		"payment_method": "cash",
	}, api.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/invoices/"+invoice.ID.String()+"/payments", nil, api.headers)
	testutil.StatusOK(t, w)
	summary := testutil.DecodeData[financeapp.InvoicePaymentSummary](t, w)
	assert.True(t, decimal.NewFromInt(60).Equal(summary.TotalPaid))
	assert.True(t, decimal.NewFromInt(40).Equal(summary.Remaining))
	assert.Len(t, summary.Payments, 1)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/customers/"+invoice.CustomerID.String()+"/payments", nil, api.headers)
	testutil.StatusOK(t, w)
	env := testutil.DecodeEnvelope(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/balances?owing=true", nil, api.headers)
	testutil.StatusOK(t, w)
	balances := testutil.DecodeData[[]financeapp.BalanceResponse](t, w)
	require.Len(t, balances, 1)
	assert.True(t, decimal.NewFromInt(40).Equal(balances[0].Balance))
	assert.Equal(t, "Hadi Market", balances[0].CustomerName)
}

func TestPayment_UnknownCustomer(t *testing.T) {
	api := newAPI(t)

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/payments", map[string]any{
		"customer_id": uuid.New(),
		"amount":      "10",
	}, api.headers)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, shared.CodeNotFound)
}

func TestBalanceRecomputeAndExport(t *testing.T) {
	api := newAPI(t)
	invoice, _ := api.confirmedInvoice(t, "8", "2", "2")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/customers/"+invoice.CustomerID.String()+"/balance/recompute", nil, api.headers)
	testutil.StatusOK(t, w)
	assert.True(t, decimal.NewFromInt(16).Equal(testutil.DecodeData[financeapp.BalanceResponse](t, w).Balance))

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/balances/export", nil, api.headers)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, export.ContentTypeXLSX, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "balances-")
	assert.Equal(t, []byte("PK"), w.Body.Bytes()[:2], "xlsx is a zip archive")
}

func TestCatalog_CategoriesAndPriceUpdate(t *testing.T) {
	api := newAPI(t)

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/categories", map[string]any{"name": "Plumbing"}, api.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	categoryID := idOf(t, testutil.DecodeEnvelope(t, w).Data)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/products", map[string]any{
		"name":        "Copper Elbow",
		"price":       "2.75",
		"stock_qty":   "100",
		"category_id": categoryID,
	}, api.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := testutil.DecodeData[catalogapp.ProductResponse](t, w)
	assert.NotEmpty(t, created.SKU, "SKU is generated when omitted")

	w = testutil.DoJSON(t, api.engine, http.MethodPut, "/api/v1/products/"+created.ID.String()+"/price",
		map[string]any{"price": "3.10"}, api.headers)
	testutil.StatusOK(t, w)
	assert.True(t, decimal.RequireFromString("3.10").Equal(testutil.DecodeData[catalogapp.ProductResponse](t, w).Price))

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/products?category_id="+categoryID.String(), nil, api.headers)
	testutil.StatusOK(t, w)
	assert.Len(t, testutil.DecodeData[[]catalogapp.ProductResponse](t, w), 1)

	w = testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/categories", nil, api.headers)
	testutil.StatusOK(t, w)
	assert.Len(t, testutil.DecodeData[[]catalogapp.CategoryResponse](t, w), 1)
}

func TestCatalog_ArchivedProductCannotBeSold(t *testing.T) {
	api := newAPI(t)
	productID := api.createProduct(t, "Brass Tap", "4", "10")

	w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices", map[string]any{"customer_name": "Walk-in"}, api.headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	invoiceID := idOf(t, testutil.DecodeEnvelope(t, w).Data)
	addItem := func() *httptest.ResponseRecorder {
		return testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/invoices/"+invoiceID.String()+"/items",
			map[string]any{"product_id": productID, "quantity": "1"}, api.headers)
	}

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/products/"+productID.String()+"/archive", nil, api.headers)
	testutil.StatusOK(t, w)
	assert.True(t, testutil.DecodeData[catalogapp.ProductResponse](t, w).Archived)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/products/"+productID.String()+"/archive", nil, api.headers)
	testutil.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, shared.CodeInvalidState)

	testutil.AssertErrorResponse(t, addItem(), http.StatusBadRequest, shared.CodeValidation)

	w = testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/products/"+productID.String()+"/restore", nil, api.headers)
	testutil.StatusOK(t, w)
	assert.False(t, testutil.DecodeData[catalogapp.ProductResponse](t, w).Archived)

	testutil.StatusOK(t, addItem())
	got := api.product(t, productID)
	assert.True(t, decimal.NewFromInt(10).Equal(got.StockQty), "archiving must not touch stock")
}

func TestTenantIsolation(t *testing.T) {
	api := newAPI(t)
	productID := api.createProduct(t, "Hidden", "1", "1")

	other := testutil.ActorHeaders(uuid.NewString(), uuid.NewString())
	w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/products/"+productID.String(), nil, other)
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, shared.CodeNotFound)
}

func TestRequestErrors(t *testing.T) {
	api := newAPI(t)

	t.Run("validation failure lists fields", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodPost, "/api/v1/customers", map[string]any{"email": "nope"}, api.headers)
		env := testutil.AssertErrorResponse(t, w, http.StatusBadRequest, shared.CodeValidation)

		var details []dto.ValidationDetail
		require.NoError(t, json.Unmarshal(env.Error.Details, &details))
		fields := make([]string, 0, len(details))
		for _, d := range details {
			fields = append(fields, d.Field)
		}
		assert.Contains(t, fields, "Name")
	})

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{"amount":`))
		req.Header.Set("Content-Type", "application/json")
		for k, v := range api.headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		api.engine.ServeHTTP(w, req)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})

	t.Run("bad path id", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/invoices/not-a-uuid", nil, api.headers)
		testutil.AssertErrorResponse(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/invoices/"+uuid.NewString(), nil, api.headers)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, shared.CodeNotFound)
	})

	t.Run("no actor", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/invoices", nil, nil)
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, shared.CodeUnauthorized)
	})

	t.Run("unknown route", func(t *testing.T) {
		w := testutil.DoJSON(t, api.engine, http.MethodGet, "/api/v1/nowhere", nil, api.headers)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeRouteNotFound)
	})
}

func TestHealth(t *testing.T) {
	api := newAPI(t)

	w := testutil.DoJSON(t, api.engine, http.MethodGet, "/health", nil, nil)
	testutil.StatusOK(t, w)
	health := testutil.DecodeData[handler.HealthResponse](t, w)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "up", health.Components["database"])
}

func TestHealth_Degraded(t *testing.T) {
	engine := gin.New()
	handler.NewSystemHandler("stockly", "test", map[string]handler.HealthCheck{
		"redis": func(context.Context) error { return errors.New("connection refused") },
	}).Mount(engine)

	w := testutil.DoJSON(t, engine, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	env := testutil.DecodeEnvelope(t, w)

	var health handler.HealthResponse
	require.NoError(t, json.Unmarshal(env.Data, &health))
	assert.Equal(t, "degraded", health.Status)
	assert.Contains(t, health.Components["redis"], "connection refused")
}
