package plans

import (
	"net/http"

	"github.com/DavidJosephLai/casewhr-backend/api/responses"
	planssvc "github.com/DavidJosephLai/casewhr-backend/internal/plans"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	"github.com/DavidJosephLai/casewhr-backend/pkg/logger"
)

type planResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PlanType     string   `json:"plan_type"`
	BillingCycle string   `json:"billing_cycle"`
	Price        string   `json:"price"`
	Currency     string   `json:"currency"`
	Features     []string `json:"features"`
}

// List serves the public plan catalog used by the pricing pages.
func List(svc planssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]planResponse, 0, len(catalog))
		for i := range catalog {
			out = append(out, newPlanResponse(&catalog[i]))
		}
		responses.WriteSuccess(w, map[string]any{"plans": out})
	}
}

func newPlanResponse(plan *models.BillingPlan) planResponse {
	return planResponse{
		ID:           plan.ID,
		Name:         plan.Name,
		PlanType:     string(plan.PlanType),
		BillingCycle: string(plan.BillingCycle),
		Price:        plan.PriceAmount.StringFixed(2),
		Currency:     plan.CurrencyCode,
		Features:     []string(plan.Features),
	}
}
