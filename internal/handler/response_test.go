package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/AlexZinkM/evm-wallet/internal/errs"
	"github.com/AlexZinkM/evm-wallet/internal/model"
	"github.com/AlexZinkM/evm-wallet/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", errs.Validation("bad"), http.StatusBadRequest, "VALIDATION"},
		{"invalid seed", errs.InvalidSeed("bad seed"), http.StatusBadRequest, "INVALID_SEED"},
		{"auth", errs.Auth("locked"), http.StatusUnauthorized, "AUTH"},
		{"insufficient funds", &errs.InsufficientFundsError{Have: big.NewInt(1), Need: big.NewInt(2)}, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS"},
		{"not found", fmt.Errorf("lookup: %w", errs.NotFound("missing")), http.StatusNotFound, "NOT_FOUND"},
		{"rpc", &errs.RPCError{Code: -32000, Message: "nonce too low"}, http.StatusBadGateway, "RPC"},
		{"network", errs.Network("dial", errors.New("refused")), http.StatusBadGateway, "NETWORK"},
		{"timeout", errs.Timeout("no receipt"), http.StatusGatewayTimeout, "TIMEOUT"},
		{"unclassified", errors.New("disk on fire"), http.StatusInternalServerError, "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, slog.Default(), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body model.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Code)
			if tt.status == http.StatusInternalServerError {
				assert.Equal(t, "internal error", body.Error)
			} else {
				assert.Equal(t, tt.err.Error(), body.Error)
			}
		})
	}
}

func TestWriteError_RetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, slog.Default(), &errs.RateLimitedError{RetryAfter: 90*time.Second + time.Millisecond})

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "91", rec.Header().Get("Retry-After"))
}

func TestWithSession(t *testing.T) {
	var got string
	h := WithSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = security.TokenFromContext(r.Context())
	}))

	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got = "unset"
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, tt.want, got, "header %q", tt.header)
	}
}
