package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"
)

// maxBodyBytes bounds request bodies; the largest is an import request.
const maxBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation, errs.KindInvalidSeed, errs.KindFormat:
		return http.StatusBadRequest
	case errs.KindAuth, errs.KindDecryption:
		return http.StatusUnauthorized
	case errs.KindInsufficientFunds:
		return http.StatusPaymentRequired
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindRateLimited:
		return http.StatusTooManyRequests
	case errs.KindNetwork, errs.KindRPC:
		return http.StatusBadGateway
	case errs.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status and code of err's kind. Unclassified
// errors are logged and reported without detail.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	kind := errs.KindOf(err)
	status := statusFor(kind)

	var limited *errs.RateLimitedError
	if errors.As(err, &limited) {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(limited.RetryAfter.Seconds()))))
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, model.ErrorResponse{Error: msg, Code: string(kind)})
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Code:  string(errs.KindValidation),
		})
		return false
	}
	return true
}
