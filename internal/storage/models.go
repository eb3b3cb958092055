package storage

import "time"

type PaymentKind string

const (
	PaymentKindBooking   PaymentKind = "booking"
	PaymentKindExtension PaymentKind = "extension"
)

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentRequest is the local audit record of one STK push attempt.
type PaymentRequest struct {
	ID          int64         `db:"id"`
	ReferenceID string        `db:"reference_id"`
	Kind        PaymentKind   `db:"kind"`
	DeviceID    string        `db:"device_id"`
	LockerID    string        `db:"locker_id"`
	LockerSize  string        `db:"locker_size"`
	PhoneNumber string        `db:"phone_number"`
	Amount      int           `db:"amount"`
	Description string        `db:"transaction_desc"`
	Hours       int           `db:"hours"`
	Status      PaymentStatus `db:"status"`
	Error       string        `db:"error"`
	CreatedAt   time.Time     `db:"created_at"`
}

type MessageKind string

const (
	MessageKindContact         MessageKind = "contact"
	MessageKindAccountDeletion MessageKind = "account_deletion"
)

// Message is a submitted contact or account deletion form.
type Message struct {
	ID        int64       `db:"id"`
	Kind      MessageKind `db:"kind"`
	Name      string      `db:"name"`
	Email     string      `db:"email"`
	Phone     string      `db:"phone"`
	Body      string      `db:"body"`
	CreatedAt time.Time   `db:"created_at"`
}
