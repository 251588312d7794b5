package net_test

import (
	"errors"
	"net/http"
	"testing"

	perr "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/errors"
	pnet "github.com/bhattashubham/scamnepal-csr-sub000/internal/platform/net"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error -> 200",
			err:  nil,
			want: http.StatusOK,
		},
		{
			name: "generic error -> perr mapping (expect 5xx)",
			err:  errors.New("boom"),
			want: 0, // special: assert range below
		},
		{
			name: "project unauthorized -> 401",
			err:  perr.New(perr.ErrorCodeUnauthorized, "not allowed"),
			want: http.StatusUnauthorized,
		},
		{
			name: "illegal transition -> 409",
			err:  perr.IllegalTransitionf("verified cannot move to pending"),
			want: http.StatusConflict,
		},
		{
			name: "invalid identifier -> 400",
			err:  perr.InvalidIdentifierf("phone has no digits"),
			want: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pnet.HTTPStatus(tt.err)
			if tt.want == 0 {
				if got < 400 || got > 599 {
					t.Fatalf("expected 4xx/5xx for generic error, got %d", got)
				}
				return
			}
			if got != tt.want {
				t.Fatalf("want %d got %d", tt.want, got)
			}
		})
	}
}
