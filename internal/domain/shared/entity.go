package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything stored under its own UUID: companies, products,
// customers, invoices and their lines, returns, payments
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity carries identity and audit timestamps. Tenant ownership is
// not part of it; each aggregate holds its own CompanyID.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh id with equal created and updated times
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() uuid.UUID        { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

// Touch marks a state change such as a stock movement or a status transition
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
