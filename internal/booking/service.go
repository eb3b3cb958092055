// Package booking wraps the locker API endpoints used by the booking flow.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"parcelpoint-web/internal/api"
	"parcelpoint-web/internal/cache"
	"parcelpoint-web/internal/storage"
)

const (
	devicesOverviewCacheKey = "devices/overview"
	bookingNotFoundMessage  = "Booking not found"
)

var ErrBookingNotFound = errors.New("booking not found")

// APIClient is the subset of *api.Client the service needs.
type APIClient interface {
	Get(ctx context.Context, endpoint string, out any) error
	Post(ctx context.Context, endpoint string, data any, out any) error
}

// PaymentRecorder receives an audit record for every payment initiation attempt.
type PaymentRecorder interface {
	RecordPaymentRequest(ctx context.Context, req storage.PaymentRequest) error
}

type Service struct {
	client   APIClient
	cache    cache.Cache
	cacheTTL time.Duration
	recorder PaymentRecorder
	logger   *slog.Logger
}

type ServiceOption func(*Service)

// WithCache caches the devices overview for ttl. A nil cache disables caching.
func WithCache(c cache.Cache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithRecorder(r PaymentRecorder) ServiceOption {
	return func(s *Service) {
		s.recorder = r
	}
}

func NewService(client APIClient, opts ...ServiceOption) *Service {
	s := &Service{
		client: client,
		logger: slog.With("component", "booking"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetDevicesOverview lists every device with its locker metrics, inactive ones included.
func (s *Service) GetDevicesOverview(ctx context.Context) ([]api.DeviceOverview, error) {
	if s.cache != nil && s.cacheTTL > 0 {
		if raw, err := s.cache.Get(ctx, devicesOverviewCacheKey); err == nil {
			var devices []api.DeviceOverview
			if err := json.Unmarshal(raw, &devices); err == nil {
				return devices, nil
			}
		} else if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("Cache read failed", "key", devicesOverviewCacheKey, "error", err)
		}
	}

	var devices []api.DeviceOverview
	if err := s.client.Get(ctx, "/devices/overview", &devices); err != nil {
		return nil, err
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if raw, err := json.Marshal(devices); err == nil {
			if err := s.cache.Set(ctx, devicesOverviewCacheKey, raw, s.cacheTTL); err != nil {
				s.logger.Warn("Cache write failed", "key", devicesOverviewCacheKey, "error", err)
			}
		}
	}
	return devices, nil
}

func lookupEndpoint(deviceID, phoneNumber string) string {
	return fmt.Sprintf("/devices/%s/bookings/lookup?phone_number=%s",
		url.PathEscape(deviceID), url.QueryEscape(phoneNumber))
}

func (s *Service) lookupBooking(ctx context.Context, deviceID, phoneNumber string) (*api.Booking, error) {
	var b api.Booking
	if err := s.client.Get(ctx, lookupEndpoint(deviceID, phoneNumber), &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// isBookingNotFound is the only place that reads an error message. The lookup
// endpoint answers 404 for unknown devices too, so the kind alone is not enough.
func isBookingNotFound(err error) bool {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return strings.Contains(apiErr.Message, bookingNotFoundMessage)
}

// CheckExistingBooking returns the active booking for phoneNumber at deviceID,
// or nil when the server reports that none exists.
func (s *Service) CheckExistingBooking(ctx context.Context, deviceID, phoneNumber string) (*api.Booking, error) {
	b, err := s.lookupBooking(ctx, deviceID, phoneNumber)
	if err != nil {
		if isBookingNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// GetBookingDetails is CheckExistingBooking for extensions: a missing booking
// is an error wrapping ErrBookingNotFound.
func (s *Service) GetBookingDetails(ctx context.Context, deviceID, phoneNumber string) (*api.Booking, error) {
	b, err := s.lookupBooking(ctx, deviceID, phoneNumber)
	if err != nil {
		if isBookingNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrBookingNotFound, err)
		}
		return nil, err
	}
	return b, nil
}

// InitiateBookingPayment requests an STK push for a new booking. hours is
// recorded locally but not sent; the payments endpoint has no field for it.
func (s *Service) InitiateBookingPayment(ctx context.Context, deviceID, phoneNumber string, amount int, size LockerSize, hours int) (*api.InitiatePaymentResponse, error) {
	desc, err := TransactionDescription(size)
	if err != nil {
		return nil, err
	}

	req := api.InitiatePaymentRequest{
		ReferenceID:      GenerateReferenceID(),
		TransactionType:  api.TransactionTypeBooking,
		Amount:           strconv.Itoa(amount),
		PhoneNumber:      phoneNumber,
		AccountReference: api.AccountReference,
		TransactionDesc:  desc,
	}

	return s.initiatePayment(ctx, deviceID, req, storage.PaymentRequest{
		Kind:       storage.PaymentKindBooking,
		LockerSize: string(size),
		Hours:      hours,
	})
}

// InitiateExtensionPayment requests an STK push extending the booking on lockerID.
func (s *Service) InitiateExtensionPayment(ctx context.Context, deviceID, lockerID, phoneNumber string, amount int, hours int) (*api.InitiatePaymentResponse, error) {
	req := api.InitiatePaymentRequest{
		ReferenceID:      GenerateExtensionReferenceID(),
		TransactionType:  api.TransactionTypeBooking,
		Amount:           strconv.Itoa(amount),
		PhoneNumber:      phoneNumber,
		AccountReference: api.AccountReference,
		TransactionDesc:  ExtensionTransactionDescription(lockerID),
	}

	return s.initiatePayment(ctx, deviceID, req, storage.PaymentRequest{
		Kind:     storage.PaymentKindExtension,
		LockerID: lockerID,
		Hours:    hours,
	})
}

func (s *Service) initiatePayment(ctx context.Context, deviceID string, req api.InitiatePaymentRequest, record storage.PaymentRequest) (*api.InitiatePaymentResponse, error) {
	logger := s.logger.With("reference_id", req.ReferenceID, "device_id", deviceID, "kind", record.Kind)

	var resp api.InitiatePaymentResponse
	err := s.client.Post(ctx, fmt.Sprintf("/devices/%s/payments", url.PathEscape(deviceID)), req, &resp)

	record.ReferenceID = req.ReferenceID
	record.DeviceID = deviceID
	record.PhoneNumber = req.PhoneNumber
	record.Amount, _ = strconv.Atoi(req.Amount)
	record.Description = req.TransactionDesc
	record.Status = storage.PaymentStatusInitiated
	if err != nil {
		record.Status = storage.PaymentStatusFailed
		record.Error = err.Error()
	}
	s.record(ctx, record)

	if err != nil {
		logger.Warn("Payment initiation failed", "phone", MaskPhone(req.PhoneNumber), "error", err)
		return nil, err
	}
	logger.Info("Payment initiated", "phone", MaskPhone(req.PhoneNumber), "amount", req.Amount)
	return &resp, nil
}

// Audit failures never fail the payment itself.
func (s *Service) record(ctx context.Context, record storage.PaymentRequest) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordPaymentRequest(context.WithoutCancel(ctx), record); err != nil {
		s.logger.Error("Failed to record payment request", "reference_id", record.ReferenceID, "error", err)
	}
}

// MaskPhone keeps the country prefix and last four digits.
func MaskPhone(phone string) string {
	if len(phone) <= 8 {
		return strings.Repeat("*", len(phone))
	}
	return phone[:4] + strings.Repeat("*", len(phone)-8) + phone[len(phone)-4:]
}
