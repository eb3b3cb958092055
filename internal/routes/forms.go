package routes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"parcelpoint-web/internal/booking"
	"parcelpoint-web/internal/email"
	"parcelpoint-web/internal/storage"
	"parcelpoint-web/internal/wizard"
)

const DELETE_CONFIRM_TEXT = "delete my account"

type ContactForm struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email,max=200"`
	Message string `form:"message" binding:"required,max=5000"`
}

type DeleteAccountForm struct {
	Phone   string `form:"phone" binding:"required"`
	Email   string `form:"email" binding:"omitempty,email,max=200"`
	Reason  string `form:"reason" binding:"max=2000"`
	Confirm string `form:"confirm" binding:"required"`
	Agree   string `form:"agree"`
}

var fieldMessages = map[string]string{
	"required": "This field is required.",
	"email":    "Please enter a valid email address.",
	"max":      "This field is too long.",
}

// fieldErrors turns binding errors into per-field messages keyed by form name.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = "Invalid form submission."
		return out
	}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		out[strings.ToLower(fe.Field())] = msg
	}
	return out
}

type confirmationCopy struct {
	Heading string
	Message string
}

var confirmations = map[string]confirmationCopy{
	"contact": {
		Heading: "Message Sent",
		Message: "Thank you for contacting us. We'll get back to you within 24 hours.",
	},
	"deletion": {
		Heading: "Request Received",
		Message: "Your account deletion request has been received. We'll process it within 7 days and confirm by email if you provided one.",
	},
}

func FormRoutes(r *gin.RouterGroup) {
	r.GET("/contact", func(c *gin.Context) {
		HTML(c, http.StatusOK, "contact.html.tmpl", gin.H{
			"Form":   ContactForm{},
			"Errors": map[string]string{},
		})
	})
	r.POST("/contact", submitContact)

	r.GET("/delete-account", func(c *gin.Context) {
		HTML(c, http.StatusOK, "delete_account.html.tmpl", gin.H{
			"Form":        DeleteAccountForm{},
			"Errors":      map[string]string{},
			"ConfirmText": DELETE_CONFIRM_TEXT,
		})
	})
	r.POST("/delete-account", submitDeleteAccount)

	r.GET("/confirmation", func(c *gin.Context) {
		text, ok := confirmations[c.Query("kind")]
		if !ok {
			text = confirmationCopy{Heading: "Thank You", Message: "Your request has been received."}
		}
		HTML(c, http.StatusOK, "confirmation.html.tmpl", gin.H{
			"Heading": text.Heading,
			"Message": text.Message,
		})
	})
}

func submitContact(c *gin.Context) {
	var form ContactForm
	if err := c.ShouldBind(&form); err != nil {
		HTML(c, http.StatusUnprocessableEntity, "contact.html.tmpl", gin.H{
			"Form":   form,
			"Errors": fieldErrors(err),
		})
		return
	}

	msg := storage.Message{
		Kind:      storage.MessageKindContact,
		Name:      strings.TrimSpace(form.Name),
		Email:     strings.TrimSpace(form.Email),
		Body:      strings.TrimSpace(form.Message),
		CreatedAt: time.Now().UTC(),
	}
	subject := fmt.Sprintf("Contact form: %s", msg.Name)
	if err := deliverMessage(c, msg, "email/contact", subject); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/confirmation?kind=contact")
}

func submitDeleteAccount(c *gin.Context) {
	var form DeleteAccountForm
	bindErr := c.ShouldBind(&form)

	errs := map[string]string{}
	if bindErr != nil {
		errs = fieldErrors(bindErr)
	}
	if _, ok := errs["phone"]; !ok && !wizard.ValidatePhoneNumber(form.Phone) {
		errs["phone"] = wizard.MsgInvalidPhone
	}
	if _, ok := errs["confirm"]; !ok && !strings.EqualFold(strings.TrimSpace(form.Confirm), DELETE_CONFIRM_TEXT) {
		errs["confirm"] = fmt.Sprintf("Please type %q to confirm.", DELETE_CONFIRM_TEXT)
	}
	if form.Agree == "" {
		errs["agree"] = "Please confirm that you understand this cannot be undone."
	}
	if len(errs) > 0 {
		HTML(c, http.StatusUnprocessableEntity, "delete_account.html.tmpl", gin.H{
			"Form":        form,
			"Errors":      errs,
			"ConfirmText": DELETE_CONFIRM_TEXT,
		})
		return
	}

	phone := wizard.FormatPhoneNumber(form.Phone)
	msg := storage.Message{
		Kind:      storage.MessageKindAccountDeletion,
		Email:     strings.TrimSpace(form.Email),
		Phone:     phone,
		Body:      strings.TrimSpace(form.Reason),
		CreatedAt: time.Now().UTC(),
	}
	subject := fmt.Sprintf("Account deletion request: %s", booking.MaskPhone(phone))
	if err := deliverMessage(c, msg, "email/account_deletion", subject); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/confirmation?kind=deletion")
}

// deliverMessage records msg and mails it to the support inbox. Either is
// enough; the request only fails when neither worked.
func deliverMessage(c *gin.Context, msg storage.Message, tmpl, subject string) error {
	d := deps(c)
	ctx := context.WithoutCancel(c.Request.Context())
	logger := slog.With("component", "forms", "kind", msg.Kind, "request_id", c.GetString(REQUEST_ID_KEY))

	stored := false
	if d.Storage != nil {
		if err := d.Storage.CreateMessage(ctx, msg); err != nil {
			logger.Error("Failed to store message", "error", err)
		} else {
			stored = true
		}
	}

	sent := false
	if d.Mailer != nil && d.Emails != nil && d.SupportInbox != "" {
		if err := sendMessage(ctx, d, msg, tmpl, subject); err != nil {
			logger.Error("Failed to email message", "error", err)
		} else {
			sent = true
		}
	}

	if !stored && !sent {
		return ErrServiceUnavailable
	}
	logger.Info("Message received", "stored", stored, "emailed", sent)
	return nil
}

func sendMessage(ctx context.Context, d *Deps, msg storage.Message, tmpl, subject string) error {
	body, err := d.Emails.Render(tmpl, msg)
	if err != nil {
		return err
	}
	return d.Mailer.Send(ctx, &email.Message{
		To:      []string{d.SupportInbox},
		ReplyTo: msg.Email,
		Subject: subject,
		HTML:    body,
	})
}
