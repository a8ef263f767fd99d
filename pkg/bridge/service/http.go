package service

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/cascoin-bridge/pkg/app/errors"
	apphttp "github.com/chainsafe/cascoin-bridge/pkg/app/http"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the bridge endpoints on r. adminAuth guards the
// operator routes.
func RegisterRoutes(r chi.Router, service Service, adminAuth func(http.Handler) http.Handler, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/deposits", apphttp.HandleError(h.createDeposit))
	r.Get("/deposits/{id}", apphttp.HandleError(h.getDeposit))
	r.Post("/deposits/{id}/gas", apphttp.HandleError(h.createGasPayment))
	r.Post("/returns", apphttp.HandleError(h.createReturn))
	r.Get("/returns/{id}", apphttp.HandleError(h.getReturn))
	r.Get("/status/{identity}", apphttp.HandleError(h.getStatus))

	r.Post("/fees/estimate", apphttp.HandleError(h.estimateFees))
	r.Get("/fees/config", apphttp.HandleError(h.feeConfig))
	r.Get("/fees/options/{operation}", apphttp.HandleError(h.gasOptions))
	r.Get("/config", apphttp.HandleError(h.bridgeConfig))

	r.With(adminAuth).Get("/admin/failed", apphttp.HandleError(h.listFailed))
}

func (h *HTTP) createDeposit(w http.ResponseWriter, r *http.Request) error {
	var req CreateDepositRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.CreateDeposit(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) getDeposit(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.GetDeposit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) createGasPayment(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.CreateGasPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) createReturn(w http.ResponseWriter, r *http.Request) error {
	var req CreateReturnRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.CreateReturn(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) getReturn(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.GetReturn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) getStatus(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.GetStatus(r.Context(), chi.URLParam(r, "identity"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) estimateFees(w http.ResponseWriter, r *http.Request) error {
	var req EstimateRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	resp, err := h.service.EstimateFees(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) feeConfig(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.FeeConfig(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) gasOptions(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.GasOptions(r.Context(), chi.URLParam(r, "operation"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) bridgeConfig(w http.ResponseWriter, r *http.Request) error {
	resp, err := h.service.BridgeConfig(r.Context())
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) listFailed(w http.ResponseWriter, r *http.Request) error {
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return apperrors.BadRequestError(err, "limit must be a non-negative integer")
		}
		limit = n
	}
	resp, err := h.service.ListFailed(r.Context(), limit)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}
