// Package wizard drives the three step locker booking flow: location and size,
// duration and payment, confirmation. A Wizard is not tied to any transport;
// its State is small enough to round trip through a cookie between requests.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"parcelpoint-web/internal/api"
	"parcelpoint-web/internal/booking"
)

var (
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrNotReady         = errors.New("wizard is not ready to submit")
	ErrCannotAdvance    = errors.New("current step is incomplete")
	ErrCannotGoBack     = errors.New("cannot go back from this step")
	ErrUnknownLocation  = errors.New("unknown or inactive location")
	ErrInvalidHours     = errors.New("hours out of range")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidLink      = errors.New("invalid extension link")
	ErrExistingBooking  = errors.New("active booking already exists")
	ErrNoActiveBooking  = errors.New("no active booking found")
	ErrLockerMismatch   = errors.New("booking does not match locker")
	ErrBookingInactive  = errors.New("booking is no longer active")
)

const (
	MsgInvalidLink      = "Invalid extension link. Please use the link from your booking SMS or contact support."
	MsgLoadLocations    = "Failed to load locations. Please try again."
	MsgInvalidPhone     = "Please enter a valid Kenyan phone number (e.g. 0712345678)."
	MsgExistingBooking  = "You already have an active booking at this location. Please collect your items before booking again."
	MsgNoActiveBooking  = "No active booking found for this phone number at this location."
	MsgLockerMismatch   = "This booking does not match the locker in your extension link."
	MsgBookingInactive  = "This booking is no longer active and cannot be extended."
	MsgPaymentFailed    = "Failed to initiate payment. Please try again."
	MsgSubmitInProgress = "Your payment request is already being processed."
)

// BookingService is implemented by *booking.Service.
type BookingService interface {
	GetDevicesOverview(ctx context.Context) ([]api.DeviceOverview, error)
	CheckExistingBooking(ctx context.Context, deviceID, phoneNumber string) (*api.Booking, error)
	GetBookingDetails(ctx context.Context, deviceID, phoneNumber string) (*api.Booking, error)
	InitiateBookingPayment(ctx context.Context, deviceID, phoneNumber string, amount int, size booking.LockerSize, hours int) (*api.InitiatePaymentResponse, error)
	InitiateExtensionPayment(ctx context.Context, deviceID, lockerID, phoneNumber string, amount int, hours int) (*api.InitiatePaymentResponse, error)
}

// State is everything the wizard needs to resume on the next request.
type State struct {
	Intent       Intent             `json:"intent"`
	Step         Step               `json:"step"`
	LocationID   string             `json:"location_id,omitempty"`
	LocationName string             `json:"location_name,omitempty"`
	Size         booking.LockerSize `json:"size,omitempty"`
	Hours        int                `json:"hours"`
	Phone        string             `json:"phone,omitempty"`
	PhoneError   string             `json:"phone_error,omitempty"`
	Error        string             `json:"error,omitempty"`
	// Blocked is set for undecodable extension links; nothing can be submitted.
	Blocked bool `json:"blocked,omitempty"`

	Submitting    bool                 `json:"-"`
	Locations     []api.DeviceOverview `json:"-"`
	LocationsErr  string               `json:"-"`
	LocationsDone bool                 `json:"-"`
}

type Wizard struct {
	mu     sync.Mutex
	svc    BookingService
	state  State
	logger *slog.Logger
}

// New starts a wizard for the given entry intent.
func New(svc BookingService, intent Intent) *Wizard {
	st := State{
		Intent: intent,
		Step:   StepSelectLocationAndSize,
		Size:   booking.LockerSize(DEFAULT_LOCKER_SIZE),
		Hours:  DEFAULT_HOURS,
	}

	switch intent.Mode {
	case ModeExtension:
		st.Step = StepDurationAndPayment
		st.LocationID = intent.DeviceID
		st.Size = ""
	case ModeInvalidLink:
		st.Step = StepDurationAndPayment
		st.Size = ""
		st.Blocked = true
		st.Error = MsgInvalidLink
	}

	return Restore(svc, st)
}

// Restore resumes a wizard from a previously saved State.
func Restore(svc BookingService, st State) *Wizard {
	if st.Hours == 0 {
		st.Hours = DEFAULT_HOURS
	}
	if _, ok := stepDef(st.Intent.Mode, st.Step); !ok {
		st.Step = StepsFor(st.Intent.Mode)[0].ID
	}
	return &Wizard{
		svc:    svc,
		state:  st,
		logger: slog.With("component", "wizard", "mode", st.Intent.Mode.String()),
	}
}

// State returns a copy of the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.state
	st.Locations = append([]api.DeviceOverview(nil), w.state.Locations...)
	return st
}

func (w *Wizard) Mode() Mode {
	return w.state.Intent.Mode
}

func (w *Wizard) CurrentStep() StepDef {
	def, _ := stepDef(w.state.Intent.Mode, w.state.Step)
	return def
}

// LoadLocations fetches the active devices for the location step. It is a
// no-op outside normal mode and may be called again after a failure.
func (w *Wizard) LoadLocations(ctx context.Context) error {
	if w.state.Intent.Mode != ModeNormal {
		return nil
	}

	devices, err := w.svc.GetDevicesOverview(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.LocationsDone = true
	if err != nil {
		w.logger.Warn("Failed to load locations", "error", err)
		w.state.Locations = nil
		w.state.LocationsErr = MsgLoadLocations
		return err
	}

	active := make([]api.DeviceOverview, 0, len(devices))
	for _, d := range devices {
		if d.IsActive() {
			active = append(active, d)
		}
	}
	w.state.Locations = active
	w.state.LocationsErr = ""
	return nil
}

func (w *Wizard) findLocation(id string) (api.DeviceOverview, bool) {
	for _, d := range w.state.Locations {
		if d.ID == id {
			return d, true
		}
	}
	return api.DeviceOverview{}, false
}

func (w *Wizard) SelectLocation(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(StepSelectLocationAndSize); err != nil {
		return err
	}
	loc, ok := w.findLocation(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLocation, id)
	}
	w.state.LocationID = loc.ID
	w.state.LocationName = loc.Name
	return nil
}

func (w *Wizard) SelectSize(size string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(StepSelectLocationAndSize); err != nil {
		return err
	}
	s, err := booking.ParseLockerSize(size)
	if err != nil {
		return err
	}
	w.state.Size = s
	return nil
}

func (w *Wizard) SetHours(hours int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(StepDurationAndPayment); err != nil {
		return err
	}
	if !ValidHours(hours) {
		return fmt.Errorf("%w: %d", ErrInvalidHours, hours)
	}
	w.state.Hours = hours
	return nil
}

// SetPhone stores the number as typed and clears any field error.
func (w *Wizard) SetPhone(phone string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.editable(StepDurationAndPayment); err != nil {
		return err
	}
	w.state.Phone = phone
	w.state.PhoneError = ""
	return nil
}

// caller holds w.mu
func (w *Wizard) editable(step Step) error {
	if w.state.Blocked {
		return ErrInvalidLink
	}
	if w.state.Submitting {
		return ErrSubmitInProgress
	}
	if w.state.Step != step {
		return ErrCannotAdvance
	}
	return nil
}

// CanAdvance reports whether Next would succeed.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canAdvance()
}

func (w *Wizard) canAdvance() bool {
	if w.state.Step != StepSelectLocationAndSize || w.state.Submitting {
		return false
	}
	return w.CurrentStep().Ready(&w.state)
}

// Next moves from the location step to the payment step. The payment step
// only moves on through Submit.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canAdvance() {
		return ErrCannotAdvance
	}
	w.state.Step = StepDurationAndPayment
	w.state.Error = ""
	return nil
}

func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Intent.Mode != ModeNormal || w.state.Step != StepDurationAndPayment || w.state.Submitting {
		return ErrCannotGoBack
	}
	w.state.Step = StepSelectLocationAndSize
	w.state.Error = ""
	w.state.PhoneError = ""
	return nil
}

func (w *Wizard) CanGoBack() bool {
	return w.state.Intent.Mode == ModeNormal && w.state.Step == StepDurationAndPayment
}

// CanSubmit is false while submitting, when blocked, or when the phone or
// duration are not acceptable.
func (w *Wizard) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Step == StepDurationAndPayment && !w.state.Submitting && paymentStep.Ready(&w.state)
}

func (w *Wizard) Price() int {
	return Price(w.state.Hours)
}

// Submit initiates the STK push. On success the wizard moves to the
// confirmation step; on failure State().Error carries the banner text.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.state.Submitting {
		w.mu.Unlock()
		return ErrSubmitInProgress
	}
	if w.state.Blocked {
		w.mu.Unlock()
		return ErrInvalidLink
	}
	if w.state.Step != StepDurationAndPayment {
		w.mu.Unlock()
		return ErrNotReady
	}

	w.state.Error = ""
	if !ValidatePhoneNumber(w.state.Phone) {
		w.state.PhoneError = MsgInvalidPhone
		w.mu.Unlock()
		return ErrInvalidPhone
	}
	if !ValidHours(w.state.Hours) {
		w.mu.Unlock()
		return ErrInvalidHours
	}

	w.state.Submitting = true
	st := w.state
	w.mu.Unlock()

	phone := FormatPhoneNumber(st.Phone)
	amount := Price(st.Hours)

	var err error
	if st.Intent.Mode == ModeExtension {
		err = w.submitExtension(ctx, st, phone, amount)
	} else {
		err = w.submitBooking(ctx, st, phone, amount)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Submitting = false
	if err != nil {
		w.state.Error = UserMessage(err)
		w.logger.Info("Submit rejected", "phone", booking.MaskPhone(phone), "error", err)
		return err
	}
	w.state.Step = StepConfirmation
	return nil
}

func (w *Wizard) submitBooking(ctx context.Context, st State, phone string, amount int) error {
	if st.LocationID == "" || st.Size == "" {
		return ErrNotReady
	}

	existing, err := w.svc.CheckExistingBooking(ctx, st.LocationID, phone)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrExistingBooking
	}

	_, err = w.svc.InitiateBookingPayment(ctx, st.LocationID, phone, amount, st.Size, st.Hours)
	return err
}

func (w *Wizard) submitExtension(ctx context.Context, st State, phone string, amount int) error {
	deviceID, lockerID := st.Intent.DeviceID, st.Intent.LockerID

	b, err := w.svc.GetBookingDetails(ctx, deviceID, phone)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			return ErrNoActiveBooking
		}
		return err
	}
	if b == nil {
		return ErrNoActiveBooking
	}
	if strconv.FormatInt(b.LockerID, 10) != lockerID {
		return ErrLockerMismatch
	}
	if b.Status != api.BookingStatusActive {
		return ErrBookingInactive
	}

	_, err = w.svc.InitiateExtensionPayment(ctx, deviceID, lockerID, phone, amount, st.Hours)
	return err
}

// UserMessage turns a Submit error into banner text.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrExistingBooking):
		return MsgExistingBooking
	case errors.Is(err, ErrNoActiveBooking):
		return MsgNoActiveBooking
	case errors.Is(err, ErrLockerMismatch):
		return MsgLockerMismatch
	case errors.Is(err, ErrBookingInactive):
		return MsgBookingInactive
	case errors.Is(err, ErrInvalidLink):
		return MsgInvalidLink
	case errors.Is(err, ErrInvalidPhone):
		return MsgInvalidPhone
	case errors.Is(err, ErrSubmitInProgress):
		return MsgSubmitInProgress
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgPaymentFailed
}

// VisibleSteps is the progress indicator: three steps normally, two for extensions.
func (w *Wizard) VisibleSteps() []StepView {
	defs := StepsFor(w.state.Intent.Mode)
	views := make([]StepView, 0, len(defs))
	for i, def := range defs {
		views = append(views, StepView{
			Number:  i + 1,
			Title:   def.Title,
			Current: def.ID == w.state.Step,
			Done:    def.ID < w.state.Step,
		})
	}
	return views
}

type Confirmation struct {
	Extension    bool
	Title        string
	Summary      string
	NextSteps    []string
	Phone        string
	Hours        int
	Amount       int
	LocationName string
	LockerID     string
}

// Confirmation builds the read-only summary shown on the last step.
func (w *Wizard) Confirmation() Confirmation {
	st := w.state
	location := st.LocationName
	if location == "" {
		location = st.LocationID
	}
	c := Confirmation{
		Extension:    st.Intent.IsExtension(),
		Title:        "STK Push Sent!",
		Phone:        FormatPhoneNumber(st.Phone),
		Hours:        st.Hours,
		Amount:       Price(st.Hours),
		LocationName: location,
		LockerID:     st.Intent.LockerID,
	}

	pay := []string{
		"Check your phone for M-PESA STK push notification",
		fmt.Sprintf("Enter your M-PESA PIN to complete payment of KES %d", c.Amount),
	}
	if c.Extension {
		c.Summary = "Complete payment on your phone to extend your booking"
		c.NextSteps = append(pay,
			fmt.Sprintf("Your booking will be extended by %d %s", st.Hours, pluralHours(st.Hours)),
			"Keep using your existing code to open the locker",
		)
		return c
	}

	c.Summary = "Complete payment on your phone to receive your booking code"
	c.NextSteps = append(pay,
		"You'll receive your 6-digit booking code via SMS immediately",
		fmt.Sprintf("Use the code at %s for %d %s", location, st.Hours, pluralHours(st.Hours)),
	)
	return c
}

func pluralHours(h int) string {
	if h == 1 {
		return "hour"
	}
	return "hours"
}
