package wallet

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/DavidJosephLai/casewhr-backend/api/middleware"
	"github.com/DavidJosephLai/casewhr-backend/api/responses"
	"github.com/DavidJosephLai/casewhr-backend/api/validators"
	"github.com/DavidJosephLai/casewhr-backend/internal/ledger"
	walletsvc "github.com/DavidJosephLai/casewhr-backend/internal/wallet"
	"github.com/DavidJosephLai/casewhr-backend/pkg/db/models"
	pkgerrors "github.com/DavidJosephLai/casewhr-backend/pkg/errors"
	"github.com/DavidJosephLai/casewhr-backend/pkg/logger"
)

type topUpRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Description string          `json:"description,omitempty" validate:"max=500"`
}

type walletResponse struct {
	UserID  uuid.UUID `json:"user_id"`
	Balance string    `json:"balance"`
}

type transactionResponse struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	BalanceAfter string    `json:"balance_after"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}

func Balance(svc walletsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wal, err := svc.Balance(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"wallet": newWalletResponse(wal)})
	}
}

func TopUp(svc walletsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload topUpRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		wal, err := svc.TopUp(r.Context(), walletsvc.TopUpInput{
			UserID:      userID,
			Amount:      payload.Amount,
			Description: payload.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"wallet": newWalletResponse(wal)})
	}
}

func Transactions(svc ledger.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := resolveUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txns, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]transactionResponse, 0, len(txns))
		for i := range txns {
			out = append(out, newTransactionResponse(&txns[i]))
		}
		responses.WriteSuccess(w, map[string]any{"transactions": out})
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

func newWalletResponse(wal *models.Wallet) *walletResponse {
	if wal == nil {
		return nil
	}
	return &walletResponse{
		UserID:  wal.UserID,
		Balance: wal.Balance.StringFixed(2),
	}
}

func newTransactionResponse(txn *models.WalletTransaction) transactionResponse {
	return transactionResponse{
		ID:           txn.ID,
		Type:         string(txn.Type),
		Amount:       txn.Amount.StringFixed(2),
		BalanceAfter: txn.BalanceAfter.StringFixed(2),
		Description:  txn.Description,
		CreatedAt:    txn.CreatedAt,
	}
}
