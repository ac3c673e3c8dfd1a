package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	domainErrors "github.com/merchantkit/payment-stripe/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrSettingNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrResourceNotFound, http.StatusNotFound, "not_found"},
	{domainErrors.ErrInvalidScope, http.StatusBadRequest, "invalid_store_scope"},
	{domainErrors.ErrInvalidTransactMode, http.StatusUnprocessableEntity, "transact_mode_not_supported"},
	{domainErrors.ErrNilOrder, http.StatusBadRequest, "invalid_order"},
	{domainErrors.ErrGatewayUnavailable, http.StatusServiceUnavailable, "gateway_unavailable"},
	{domainErrors.ErrGatewayTimeout, http.StatusGatewayTimeout, "gateway_timeout"},
	{domainErrors.ErrGatewayRejected, http.StatusUnprocessableEntity, "gateway_rejected"},
	{domainErrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			writeJSON(w, m.status, resp)
			return
		}
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func parseStoreID(raw string) (int64, error) {
	storeID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || storeID < 0 {
		return 0, domainErrors.ErrInvalidScope
	}
	return storeID, nil
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}
