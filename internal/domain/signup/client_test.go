package signup

import (
	"context"
	"errors"
	"testing"

	apperrors "panthers-signup/pkg/errors"
)

func TestClientSubmitSuccess(t *testing.T) {
	backend := &fakeBackend{id: 7}
	inv := &fakeInvalidator{}
	client := NewClient(backend, NewClassifier(DefaultPhrases()), inv, 14)

	id, err := client.Submit(context.Background(), jordanForm())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}
	if backend.callCount() != 1 {
		t.Fatalf("backend calls = %d, want 1", backend.callCount())
	}
	req := backend.requests[0]
	if req.Age != 22 || req.Position != PositionCenter || req.ExperienceLevel != ExperienceBeginner {
		t.Errorf("request = %+v", req)
	}
	if inv.count != 1 {
		t.Errorf("invalidations = %d, want 1", inv.count)
	}
}

func TestClientSubmitRejectsBadAgeWithoutCall(t *testing.T) {
	for _, age := range []string{"0", "abc", "13", "", "-5"} {
		t.Run(age, func(t *testing.T) {
			backend := &fakeBackend{id: 1}
			client := NewClient(backend, NewClassifier(DefaultPhrases()), nil, 14)

			f := jordanForm()
			f.Age = age
			_, err := client.Submit(context.Background(), f)

			var verr *apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Submit(age=%q) error = %v, want ValidationError", age, err)
			}
			if verr.Message != MessageInvalidAge {
				t.Errorf("message = %q, want %q", verr.Message, MessageInvalidAge)
			}
			if backend.callCount() != 0 {
				t.Fatalf("backend calls = %d, want 0", backend.callCount())
			}
		})
	}
}

func TestClientSubmitClassifiesBackendRejection(t *testing.T) {
	backend := &fakeBackend{err: &BackendError{Status: 409, Message: "Position has reached maximum capacity"}}
	inv := &fakeInvalidator{}
	client := NewClient(backend, NewClassifier(DefaultPhrases()), inv, 14)

	f := jordanForm()
	f.Position = "forward"
	_, err := client.Submit(context.Background(), f)

	var capErr *apperrors.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("Submit() error = %v, want CapacityExceededError", err)
	}
	if capErr.Position != string(PositionForward) {
		t.Errorf("position = %q, want forward", capErr.Position)
	}
	if inv.count != 0 {
		t.Errorf("failed submissions must not invalidate listings")
	}
}

func TestClientSubmitTransportFailureIsUnknown(t *testing.T) {
	backend := &fakeBackend{err: errors.New("dial tcp: connection refused")}
	client := NewClient(backend, NewClassifier(DefaultPhrases()), nil, 14)

	_, err := client.Submit(context.Background(), jordanForm())
	var unknown *apperrors.UnknownError
	if !errors.As(err, &unknown) {
		t.Fatalf("Submit() error = %v, want UnknownError", err)
	}
	if unknown.Message != "dial tcp: connection refused" {
		t.Errorf("message = %q", unknown.Message)
	}
}
