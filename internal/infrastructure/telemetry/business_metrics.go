package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/SamerElhamdo/stockly/internal/domain/finance"
	"github.com/SamerElhamdo/stockly/internal/domain/shared"
	"github.com/SamerElhamdo/stockly/internal/domain/trade"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// BusinessMetrics counts invoices, returns, payments, event deliveries and
// balance sweeps. It subscribes to the event bus as an ordinary handler.
type BusinessMetrics struct {
	invoiceConfirmed *Counter
	invoiceAmount    *FloatCounter
	returnApproved   *Counter
	returnRejected   *Counter
	returnAmount     *FloatCounter
	payments         *Counter
	paymentAmount    *FloatCounter
	eventDeliveries  *Counter
	sweeps           *Counter
	sweptBalances    *Counter
	sweepDuration    *Histogram
}

// NewBusinessMetrics registers the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	counters := []struct {
		target **Counter
		name   string
		desc   string
		unit   string
	}{
		{&bm.invoiceConfirmed, "stockly_invoice_confirmed_total", "Invoices confirmed", "{invoices}"},
		{&bm.returnApproved, "stockly_return_approved_total", "Returns approved", "{returns}"},
		{&bm.returnRejected, "stockly_return_rejected_total", "Returns rejected", "{returns}"},
		{&bm.payments, "stockly_payment_total", "Payments recorded", "{payments}"},
		{&bm.eventDeliveries, "stockly_event_delivery_total", "Domain event deliveries to handlers", "{deliveries}"},
		{&bm.sweeps, "stockly_balance_sweep_total", "Balance sweeps run", "{sweeps}"},
		{&bm.sweptBalances, "stockly_balance_sweep_balances_total", "Balances rebuilt by sweeps", "{balances}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.target = counter
	}

	amounts := []struct {
		target **FloatCounter
		name   string
		desc   string
	}{
		{&bm.invoiceAmount, "stockly_invoice_amount_total", "Sum of confirmed invoice totals"},
		{&bm.returnAmount, "stockly_return_amount_total", "Sum of approved return totals"},
		{&bm.paymentAmount, "stockly_payment_amount_total", "Sum of absolute payment amounts"},
	}
	for _, a := range amounts {
		counter, err := NewFloatCounter(meter, a.name, a.desc, "{currency}")
		if err != nil {
			return nil, err
		}
		*a.target = counter
	}

	var err error
	bm.sweepDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "stockly_balance_sweep_duration_seconds",
		Description: "Duration of full balance sweeps",
		Unit:        "s",
		Boundaries:  SweepDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	return bm, nil
}

// EventTypes implements shared.EventHandler
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		trade.EventTypeInvoiceConfirmed,
		trade.EventTypeReturnApproved,
		trade.EventTypeReturnRejected,
		finance.EventTypePaymentRecorded,
	}
}

// Handle implements shared.EventHandler
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	company := AttrCompanyID.String(event.CompanyID().String())

	switch e := event.(type) {
	case *trade.InvoiceConfirmedEvent:
		bm.invoiceConfirmed.Inc(ctx, company)
		bm.invoiceAmount.Add(ctx, e.TotalAmount.InexactFloat64(), company)
	case *trade.ReturnApprovedEvent:
		bm.returnApproved.Inc(ctx, company)
		bm.returnAmount.Add(ctx, e.TotalAmount.InexactFloat64(), company)
	case *trade.ReturnRejectedEvent:
		bm.returnRejected.Inc(ctx, company)
	case *finance.PaymentRecordedEvent:
		direction := "in"
		if e.Amount.IsNegative() {
			direction = "out"
		}
		attrs := []attribute.KeyValue{company, AttrPaymentMethod.String(e.Method), AttrDirection.String(direction)}
		bm.payments.Inc(ctx, attrs...)
		bm.paymentAmount.Add(ctx, e.Amount.Abs().InexactFloat64(), attrs...)
	}
	return nil
}

// RecordEventDelivery counts one handler delivery of eventType
func (bm *BusinessMetrics) RecordEventDelivery(ctx context.Context, eventType string, err error) {
	bm.eventDeliveries.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String(outcomeOf(err)))
}

// RecordSweep records one balance sweep
func (bm *BusinessMetrics) RecordSweep(ctx context.Context, balances int, elapsed time.Duration, err error) {
	outcome := AttrOutcome.String(outcomeOf(err))
	bm.sweeps.Inc(ctx, outcome)
	bm.sweptBalances.Add(ctx, int64(balances))
	bm.sweepDuration.RecordDuration(ctx, elapsed, outcome)
}

func outcomeOf(err error) string {
	if err != nil {
		return outcomeFailure
	}
	return outcomeSuccess
}
