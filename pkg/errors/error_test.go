package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := New(PlayerNotFound)
	if err.Code != PlayerNotFound {
		t.Fatalf("code = %v", err.Code)
	}
	if err.Error() != "Player not found" {
		t.Fatalf("message = %q", err.Error())
	}
	if err.Stack == "" {
		t.Fatalf("stack not captured")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrapf(cause, DatabaseError, "insert failed")
	if err.Error() != "insert failed" {
		t.Fatalf("message = %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Fatalf("cause lost")
	}
	if GetCode(err) != DatabaseError {
		t.Fatalf("code = %v", GetCode(err))
	}
}

func TestGetCodeDefaultsToInternal(t *testing.T) {
	if GetCode(fmt.Errorf("plain")) != InternalServerError {
		t.Fatalf("plain errors should map to InternalServerError")
	}
	if GetCode(nil) != Success {
		t.Fatalf("nil should map to Success")
	}
}

func TestIs(t *testing.T) {
	err := New(TokenInvalid)
	if !Is(err, TokenInvalid) {
		t.Fatalf("Is(TokenInvalid) = false")
	}
	if Is(err, Unauthorized) {
		t.Fatalf("Is(Unauthorized) = true")
	}
	if Is(nil, TokenInvalid) {
		t.Fatalf("Is(nil, _) = true")
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{Success, 200},
		{Unauthorized, 401},
		{AdminTokenInvalid, 401},
		{PlayerNotFound, 404},
		{InvalidParams, 400},
		{LanguageNotSupported, 400},
		{InternalServerError, 500},
		{TransactionFailed, 500},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestValidationErrorDetails(t *testing.T) {
	err := ValidationError("work_dir", "required")
	if err.Details["field"] != "work_dir" || err.Details["reason"] != "required" {
		t.Fatalf("details = %v", err.Details)
	}
}
