package contract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestKindForError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		kind string
	}{
		{fmt.Errorf("%w: missing required argument: email", ErrValidation), KindValidation},
		{fmt.Errorf("%w: query took too long", ErrTimeout), KindTimeout},
		{context.DeadlineExceeded, KindTimeout},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), KindTimeout},
		{ErrUnknownAction, KindUnknownAction},
		{ErrMissingAction, KindMissingAction},
		{ErrMalformedInput, KindMalformedInput},
		{ErrUnknownAgent, KindUnknownAgent},
		{errors.New("driver: connection refused"), KindHandler},
	}

	for _, tc := range cases {
		if got := KindForError(tc.err); got != tc.kind {
			t.Fatalf("KindForError(%v) = %q, want %q", tc.err, got, tc.kind)
		}
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	t.Parallel()

	success, err := json.Marshal(Success(map[string]any{"total": 7000}))
	if err != nil {
		t.Fatalf("marshal success: %v", err)
	}
	if string(success) != `{"ok":true,"data":{"total":7000}}` {
		t.Fatalf("success envelope = %s", success)
	}

	failure, err := json.Marshal(Failure(KindValidation, "missing required argument: email"))
	if err != nil {
		t.Fatalf("marshal failure: %v", err)
	}
	want := `{"ok":false,"error":{"kind":"ValidationError","message":"missing required argument: email"}}`
	if string(failure) != want {
		t.Fatalf("failure envelope = %s, want %s", failure, want)
	}
}

func TestNotFoundTravelsInSuccessEnvelope(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(Success(NotFoundPayload("client")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"ok":true,"data":{"found":false,"entity":"client"}}` {
		t.Fatalf("payload = %s", payload)
	}
}
