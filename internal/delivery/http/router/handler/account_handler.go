package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "passport/internal/delivery/context"
	"passport/internal/delivery/http/response"
	"passport/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountHandler holds dependencies for the authenticated account endpoints.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(accountUC usecase.AccountUsecase, sessionUC usecase.SessionUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accountUC: accountUC,
		sessionUC: sessionUC,
		logger:    logger,
	}
}

// GetProfile returns the authenticated account's summary.
func (h *AccountHandler) GetProfile(c echo.Context) error {
	accountID, ok := deliverycontext.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid account ID in token")
	}

	summary, err := h.accountUC.Profile(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, summary, "Profile retrieved successfully")
}

// ListSessions returns the account's live sessions, newest first.
func (h *AccountHandler) ListSessions(c echo.Context) error {
	accountID, ok := deliverycontext.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid account ID in token")
	}

	sessions, err := h.sessionUC.ListSessions(c.Request().Context(), accountID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "Sessions retrieved successfully")
}

// RevokeAllSessions logs the account out of every device.
func (h *AccountHandler) RevokeAllSessions(c echo.Context) error {
	accountID, ok := deliverycontext.GetAccountID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid account ID in token")
	}

	if err := h.sessionUC.RevokeAllSessions(c.Request().Context(), accountID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "All sessions revoked"}, "Logout successful")
}
