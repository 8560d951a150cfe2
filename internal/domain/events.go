package domain

import "time"

// Event types
const (
	EventTypeTransferApplied      = "transfer.applied"
	EventTypeTransferFailed       = "transfer.failed"
	EventTypeCustomerCreated      = "customer.created"
	EventTypeCustomerClosed       = "customer.closed"
	EventTypeOperationAppended    = "operation.appended"
	EventTypeOperationInvalidated = "operation.invalidated"
)

// Aggregate types
const (
	AggregateTypeTransfer = "transfer"
	AggregateTypeCustomer = "customer"
)

// OutboxEvent is a domain event staged in the same transaction as the
// state change it describes, published asynchronously afterwards.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransferAppliedEvent payload
type TransferAppliedEvent struct {
	TransferID    string `json:"transfer_id"`
	SourceID      string `json:"source_id"`
	DestinationID string `json:"destination_id"`
	Amount        int64  `json:"amount"`
	Description   string `json:"description"`
}

// TransferFailedEvent payload
type TransferFailedEvent struct {
	TransferID string `json:"transfer_id"`
	Reason     string `json:"reason"`
}

// CustomerCreatedEvent payload
type CustomerCreatedEvent struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
}

// OperationAppendedEvent payload
type OperationAppendedEvent struct {
	CustomerID  string `json:"customer_id"`
	OperationID string `json:"operation_id"`
	Amount      int64  `json:"amount"`
}

// OperationInvalidatedEvent payload
type OperationInvalidatedEvent struct {
	CustomerID  string `json:"customer_id"`
	OperationID string `json:"operation_id"`
	Amount      int64  `json:"amount"`
}
