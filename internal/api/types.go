package api

import "time"

type DeviceStatus int

const (
	DeviceStatusActive   DeviceStatus = 0
	DeviceStatusInactive DeviceStatus = 1
)

type BookingStatus int

const (
	BookingStatusActive  BookingStatus = 0
	BookingStatusUsed    BookingStatus = 1
	BookingStatusExpired BookingStatus = 2
)

func (s BookingStatus) String() string {
	switch s {
	case BookingStatusActive:
		return "active"
	case BookingStatusUsed:
		return "used"
	case BookingStatusExpired:
		return "expired"
	}
	return "unknown"
}

// Transaction types understood by the payments endpoint.
const (
	TransactionTypeParcel  = 0
	TransactionTypeBooking = 1
)

const AccountReference = "ParcelPoint"

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LockerSizeMetric struct {
	Available int `json:"available"`
	Total     int `json:"total"`
}

type LockerMetrics struct {
	Small          LockerSizeMetric `json:"small"`
	Medium         LockerSizeMetric `json:"medium"`
	Large          LockerSizeMetric `json:"large"`
	TotalAvailable int              `json:"total_available"`
	TotalOccupied  int              `json:"total_occupied"`
	Total          int              `json:"total"`
}

// DeviceOverview is a read-only snapshot of one locker station.
type DeviceOverview struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Location      *Location     `json:"location,omitempty"`
	Capacity      int           `json:"capacity"`
	Status        DeviceStatus  `json:"status"`
	LastSeen      *time.Time    `json:"last_seen,omitempty"`
	LockerMetrics LockerMetrics `json:"locker_metrics"`
}

func (d DeviceOverview) IsActive() bool {
	return d.Status == DeviceStatusActive
}

type Booking struct {
	ID            int64         `json:"id"`
	BookingID     string        `json:"booking_id"`
	DeviceID      string        `json:"device_id"`
	LockerID      int64         `json:"locker_id"`
	UnlockingCode string        `json:"unlocking_code"`
	OwnerPhoneNo  string        `json:"owner_phone_no"`
	ReceiptTime   time.Time     `json:"receipt_time"`
	ExpiresAt     time.Time     `json:"expires_at"`
	Status        BookingStatus `json:"status"`
	LastUsed      *time.Time    `json:"last_used,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// InitiatePaymentRequest triggers an M-PESA STK push for a booking or extension.
type InitiatePaymentRequest struct {
	ReferenceID      string `json:"reference_id"`
	TransactionType  int    `json:"transaction_type"`
	Amount           string `json:"amount"`
	PhoneNumber      string `json:"phone_number"`
	AccountReference string `json:"account_reference"`
	TransactionDesc  string `json:"transaction_desc"`
}

type InitiatePaymentResponse struct {
	Message string `json:"message"`
}
