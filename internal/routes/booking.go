package routes

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"parcelpoint-web/internal/booking"
	"parcelpoint-web/internal/config"
	"parcelpoint-web/internal/jwt"
	"parcelpoint-web/internal/nonce"
	"parcelpoint-web/internal/wizard"
)

const (
	msgSelectLocation = "Please select a location and locker size."
	msgHoursRange     = "Booking duration must be between 1 and 168 hours."
	msgSessionReset   = "Your booking session has expired. Please start again."
)

func BookingRoutes(r *gin.RouterGroup) {
	r.GET("", startBooking)
	r.GET("/step", showStep)
	r.POST("/step", applyStep)
	r.GET("/extend/qr.png", extensionQR)
}

// startBooking resolves the entry intent from the query and always starts a
// fresh session, like a reload of the booking page.
func startBooking(c *gin.Context) {
	intent := wizard.ResolveIntent(c.Request.URL.Query())
	wz := wizard.New(deps(c).Booking, intent)
	renderWizard(c, wz, "", renderOpts{})
}

func showStep(c *gin.Context) {
	claim, err := loadSession(c)
	if err != nil {
		c.Redirect(http.StatusSeeOther, SESSION_PATH)
		return
	}
	wz := wizard.Restore(deps(c).Booking, claim.State)
	renderWizard(c, wz, claim.SubmitNonce, renderOpts{})
}

type stepForm struct {
	Action   string `form:"action"`
	Location string `form:"location"`
	Size     string `form:"size"`
	Hours    string `form:"hours"`
	Quick    string `form:"quick"`
	Phone    string `form:"phone"`
}

type renderOpts struct {
	flash string
	// noop renders without touching the session cookie.
	noop bool
}

func applyStep(c *gin.Context) {
	claim, err := loadSession(c)
	if err != nil {
		slog.Debug("Booking session rejected", "error", err)
		intent := wizard.Intent{Mode: wizard.ModeNormal}
		renderWizard(c, wizard.New(deps(c).Booking, intent), "", renderOpts{flash: msgSessionReset})
		return
	}

	var form stepForm
	if err := c.ShouldBind(&form); err != nil {
		AbortWithError(c, errors.Join(ErrInvalidRequest, err))
		return
	}
	if form.Action == "" && form.Quick != "" {
		form.Action = "hours"
		form.Hours = form.Quick
	}

	ctx := c.Request.Context()
	wz := wizard.Restore(deps(c).Booking, claim.State)
	logger := slog.With("component", "booking", "request_id", c.GetString(REQUEST_ID_KEY), "action", form.Action)

	var flash string
	switch form.Action {
	case "retry":
		// locations are reloaded by renderWizard

	case "select", "next":
		if wz.State().Step != wizard.StepSelectLocationAndSize {
			break
		}
		wz.LoadLocations(ctx)
		if form.Location != "" {
			if err := wz.SelectLocation(form.Location); err != nil {
				logger.Debug("Location rejected", "location", form.Location, "error", err)
			}
		}
		if form.Size != "" {
			if err := wz.SelectSize(form.Size); err != nil {
				AbortWithError(c, err)
				return
			}
		}
		if form.Action == "next" {
			if err := wz.Next(); err != nil {
				flash = msgSelectLocation
			}
		}

	case "previous":
		if err := wz.Previous(); err != nil {
			logger.Debug("Previous rejected", "error", err)
		}

	case "hours":
		flash = applyPaymentInput(wz, form)

	case "submit":
		if flash = applyPaymentInput(wz, form); flash != "" {
			break
		}
		if !consumeSubmitNonce(ctx, claim.SubmitNonce) {
			logger.Info("Duplicate submit ignored")
			renderWizard(c, wz, "", renderOpts{noop: true})
			return
		}
		if err := wz.Submit(ctx); err != nil {
			logger.Info("Submit failed", "error", err)
		}
		// a spent nonce must not be reused for the retry
		claim.SubmitNonce = ""

	default:
		AbortWithHTTPError(c, http.StatusBadRequest, ErrInvalidRequest, "Unknown booking action", "INVALID_ACTION")
		return
	}

	renderWizard(c, wz, claim.SubmitNonce, renderOpts{flash: flash})
}

// applyPaymentInput copies the duration and phone fields into the wizard and
// returns a flash message when the duration is unusable.
func applyPaymentInput(wz *wizard.Wizard, form stepForm) string {
	if form.Hours != "" {
		hours, err := strconv.Atoi(strings.TrimSpace(form.Hours))
		if err != nil {
			return msgHoursRange
		}
		if err := wz.SetHours(hours); err != nil {
			if errors.Is(err, wizard.ErrInvalidHours) {
				return msgHoursRange
			}
			return ""
		}
	}
	if err := wz.SetPhone(form.Phone); err != nil {
		slog.Debug("Phone not applied", "error", err)
	}
	return ""
}

// consumeSubmitNonce is true exactly once per nonce minted for the payment step.
func consumeSubmitNonce(ctx context.Context, n string) bool {
	if n == "" || nonce.Store == nil {
		return false
	}
	ok, err := nonce.Store.Consume(ctx, n)
	if err != nil {
		var missing *nonce.NonceMissingError
		var expired *nonce.NonceExpiredError
		if errors.As(err, &missing) || errors.As(err, &expired) {
			slog.Debug("Submit nonce already spent", "error", err)
		} else {
			slog.Warn("Failed to consume submit nonce", "error", err)
		}
		return false
	}
	return ok
}

// submitNonce reuses the session's nonce while it is still outstanding and
// mints a new one otherwise.
func submitNonce(ctx context.Context, current string) (string, error) {
	if nonce.Store == nil {
		return "", errors.New("nonce store not initialized")
	}
	if current != "" && nonce.Store.Exists(ctx, current) {
		return current, nil
	}
	return nonce.Nonce(ctx, jwt.SessionTTL())
}

func renderWizard(c *gin.Context, wz *wizard.Wizard, currentNonce string, opts renderOpts) {
	ctx := c.Request.Context()

	st := wz.State()
	if st.Step == wizard.StepSelectLocationAndSize && !st.LocationsDone {
		wz.LoadLocations(ctx)
		st = wz.State()
	}

	if !opts.noop {
		var n string
		if st.Step == wizard.StepDurationAndPayment && !st.Blocked {
			var err error
			if n, err = submitNonce(ctx, currentNonce); err != nil {
				AbortWithError(c, errors.Join(ErrInternalServer, err))
				return
			}
		}
		if err := saveSession(c, st, n); err != nil {
			AbortWithError(c, errors.Join(ErrInternalServer, err))
			return
		}
	}

	data := gin.H{
		"Wizard":       wz,
		"State":        st,
		"StepTemplate": wz.CurrentStep().Template,
		"Extension":    st.Intent.IsExtension(),
		"SizeOptions":  wizard.SizeOptions,
		"QuickPicks":   wizard.QuickPickHours,
		"MinHours":     config.MIN_BOOKING_HOURS,
		"MaxHours":     config.MAX_BOOKING_HOURS,
		"Price":        wz.Price(),
		"ExtraHours":   max(0, st.Hours-1),
		"Submitted":    opts.noop,
		"Error":        opts.flash,
	}
	if st.Step == wizard.StepConfirmation {
		data["Confirmation"] = wz.Confirmation()
	}
	HTML(c, http.StatusOK, "booking.html.tmpl", data)
}

// extensionQR renders the extension link for ?ext= as a PNG, for printing
// on lockers or pasting into messages.
func extensionQR(c *gin.Context) {
	target, ok := booking.DecodeExtensionToken(c.Query("ext"))
	if !ok {
		AbortWithHTTPError(c, http.StatusBadRequest, ErrInvalidParameter, wizard.MsgInvalidLink, "INVALID_LINK")
		return
	}

	link := booking.GenerateExtensionLink(c.GetString("BaseURL"), target.DeviceID, target.LockerID)
	png, err := qrcode.Encode(link, qrcode.Medium, config.QR_IMAGE_SIZE)
	if err != nil {
		AbortWithError(c, errors.Join(ErrInternalServer, err))
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/png", png)
}
