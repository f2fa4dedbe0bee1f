package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_RegisterSpecificTypes(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler, "InvoiceConfirmed", "ReturnApproved")

	assert.Len(t, registry.GetHandlers("InvoiceConfirmed"), 1)
	assert.Len(t, registry.GetHandlers("ReturnApproved"), 1)
	assert.Empty(t, registry.GetHandlers("PaymentRecorded"))
	assert.Equal(t, 1, registry.Count())
}

func TestHandlerRegistry_WildcardComesLast(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := newRecordingHandler()
	wildcard := newRecordingHandler()

	registry.Register(wildcard)
	registry.Register(typed, "InvoiceConfirmed")

	handlers := registry.GetHandlers("InvoiceConfirmed")
	assert.Len(t, handlers, 2)
	assert.Same(t, typed, handlers[0])
	assert.Same(t, wildcard, handlers[1])
	assert.Len(t, registry.GetHandlers("Anything"), 1)
}

func TestHandlerRegistry_RegisterTwiceIsNoOp(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := newRecordingHandler()

	registry.Register(handler, "InvoiceConfirmed")
	registry.Register(handler, "InvoiceConfirmed")

	assert.Len(t, registry.GetHandlers("InvoiceConfirmed"), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	a := newRecordingHandler()
	b := newRecordingHandler()
	registry.Register(a, "InvoiceConfirmed", "ReturnApproved")
	registry.Register(b, "InvoiceConfirmed")
	registry.Register(a)

	registry.Unregister(a)

	handlers := registry.GetHandlers("InvoiceConfirmed")
	assert.Len(t, handlers, 1)
	assert.Same(t, b, handlers[0])
	assert.Empty(t, registry.GetHandlers("ReturnApproved"))
	assert.Equal(t, 1, registry.Count())
}
