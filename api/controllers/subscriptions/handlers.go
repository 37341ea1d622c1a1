package subscriptions

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DavidJosephLai/casewhr-backend/api/middleware"
	"github.com/DavidJosephLai/casewhr-backend/api/responses"
	"github.com/DavidJosephLai/casewhr-backend/api/validators"
	subsvc "github.com/DavidJosephLai/casewhr-backend/internal/subscriptions"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/enums"
	pkgerrors "github.com/DavidJosephLai/casewhr-backend/pkg/errors"
	"github.com/DavidJosephLai/casewhr-backend/pkg/logger"
)

type subscribeRequest struct {
	PlanType      string          `json:"plan_type" validate:"required"`
	BillingCycle  string          `json:"billing_cycle" validate:"required"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
}

type subscriptionResponse struct {
	ID            uuid.UUID  `json:"id"`
	PlanType      string     `json:"plan_type"`
	BillingCycle  string     `json:"billing_cycle"`
	Status        string     `json:"status"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	Amount        string     `json:"amount"`
	PaymentMethod string     `json:"payment_method"`
	AutoRenew     bool       `json:"auto_renew"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type paymentResponse struct {
	ID             uuid.UUID `json:"id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	Amount         string    `json:"amount"`
	PaymentMethod  string    `json:"payment_method"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func Subscribe(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload subscribeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Subscribe(r.Context(), subsvc.SubscribeInput{
			UserID:        userID,
			PlanType:      enums.PlanType(payload.PlanType),
			BillingCycle:  enums.BillingCycle(payload.BillingCycle),
			PaymentMethod: enums.PaymentMethod(payload.PaymentMethod),
			Amount:        payload.Amount,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"subscription": newSubscriptionResponse(sub),
			"message":      "Subscription activated",
		})
	}
}

func Current(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Current(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"subscription": newSubscriptionResponse(sub),
		})
	}
}

func Cancel(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sub, err := svc.Cancel(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"subscription": newSubscriptionResponse(sub),
			"message":      "Subscription cancelled. Access continues until the end of the billing period.",
		})
	}
}

// Check answers entitlement questions for other backend services. It is
// mounted behind the internal-token middleware, not user auth.
func Check(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
			return
		}

		result, err := svc.Check(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"has_subscription": result.HasSubscription,
			"plan_type":        string(result.PlanType),
			"subscription":     newSubscriptionResponse(result.Subscription),
		})
	}
}

func Payments(svc subsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payments, err := svc.Payments(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]paymentResponse, 0, len(payments))
		for i := range payments {
			out = append(out, newPaymentResponse(&payments[i]))
		}
		responses.WriteSuccess(w, map[string]any{"payments": out})
	}
}

func resolveUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user identity")
	}
	return userID, nil
}

func newSubscriptionResponse(sub *models.Subscription) *subscriptionResponse {
	if sub == nil {
		return nil
	}
	return &subscriptionResponse{
		ID:            sub.ID,
		PlanType:      string(sub.PlanType),
		BillingCycle:  string(sub.BillingCycle),
		Status:        string(sub.Status),
		StartDate:     sub.StartDate,
		EndDate:       sub.EndDate,
		Amount:        sub.Amount.StringFixed(2),
		PaymentMethod: string(sub.PaymentMethod),
		AutoRenew:     sub.AutoRenew,
		CancelledAt:   sub.CancelledAt,
		CreatedAt:     sub.CreatedAt,
	}
}

func newPaymentResponse(payment *models.SubscriptionPayment) paymentResponse {
	return paymentResponse{
		ID:             payment.ID,
		SubscriptionID: payment.SubscriptionID,
		Amount:         payment.Amount.StringFixed(2),
		PaymentMethod:  string(payment.PaymentMethod),
		Status:         string(payment.Status),
		CreatedAt:      payment.CreatedAt,
	}
}
