package wizard

import "parcelpoint-web/internal/booking"

type Step int

const (
	StepSelectLocationAndSize Step = 1
	StepDurationAndPayment    Step = 2
	StepConfirmation          Step = 3
)

// StepDef describes one screen of the wizard. Both modes are built from the
// same definitions; extension mode simply omits the location step.
type StepDef struct {
	ID       Step
	Title    string
	Template string
	// Ready reports whether the step's input allows moving on.
	Ready func(s *State) bool
}

var (
	locationStep = StepDef{
		ID:       StepSelectLocationAndSize,
		Title:    "Location & Size",
		Template: "booking/location",
		Ready: func(s *State) bool {
			return s.LocationID != "" && s.Size != ""
		},
	}
	paymentStep = StepDef{
		ID:       StepDurationAndPayment,
		Title:    "Duration & Payment",
		Template: "booking/payment",
		Ready: func(s *State) bool {
			return !s.Blocked && ValidHours(s.Hours) && s.Phone != "" && ValidatePhoneNumber(s.Phone)
		},
	}
	confirmationStep = StepDef{
		ID:       StepConfirmation,
		Title:    "Confirmation",
		Template: "booking/confirmation",
		Ready:    func(*State) bool { return false },
	}
)

func StepsFor(mode Mode) []StepDef {
	if mode == ModeNormal {
		return []StepDef{locationStep, paymentStep, confirmationStep}
	}
	return []StepDef{paymentStep, confirmationStep}
}

func stepDef(mode Mode, id Step) (StepDef, bool) {
	for _, def := range StepsFor(mode) {
		if def.ID == id {
			return def, true
		}
	}
	return StepDef{}, false
}

// StepView is one entry of the progress indicator.
type StepView struct {
	Number  int
	Title   string
	Current bool
	Done    bool
}

type SizeOption struct {
	Size        booking.LockerSize
	Dimensions  string
	Description string
}

var SizeOptions = []SizeOption{
	{Size: booking.LockerSmall, Dimensions: "30cm x 20cm x 15cm", Description: "Perfect for documents, small electronics, and accessories"},
	{Size: booking.LockerMedium, Dimensions: "45cm x 35cm x 25cm", Description: "Ideal for clothing, books, medium packages"},
	{Size: booking.LockerLarge, Dimensions: "60cm x 50cm x 40cm", Description: "Best for large packages, shoes, electronics"},
}
