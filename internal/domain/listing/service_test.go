package listing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"panthers-signup/internal/domain/signup"
	"panthers-signup/internal/realtime"
	apperrors "panthers-signup/pkg/errors"
)

type fakeBackend struct {
	calls      int
	records    []signup.Record
	admin      bool
	adminErr   error
	adminCalls int
}

func (b *fakeBackend) GetAllSignUps(ctx context.Context, token string) ([]signup.Record, error) {
	b.calls++
	return b.records, nil
}

func (b *fakeBackend) GetSignUp(ctx context.Context, token string, id signup.RecordID) (*signup.Record, error) {
	for _, r := range b.records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (b *fakeBackend) IsCallerAdmin(ctx context.Context, token string) (bool, error) {
	b.adminCalls++
	return b.admin, b.adminErr
}

type fakeHub struct {
	sent []realtime.Notification
}

func (h *fakeHub) Broadcast(n realtime.Notification) {
	h.sent = append(h.sent, n)
}

var jordan = signup.Record{
	ID:              1,
	Name:            "Jordan Williams",
	Email:           "jordan@example.com",
	Phone:           "555-0100",
	Age:             19,
	Position:        signup.PositionGuard,
	ExperienceLevel: signup.ExperienceIntermediate,
}

func TestListFetchesAndCaches(t *testing.T) {
	db, mock := redismock.NewClientMock()
	backend := &fakeBackend{records: []signup.Record{jordan}}
	svc := NewListingService(backend, db, time.Minute, nil)

	key := "signups:cache:0:" + callerHash("tok")
	raw, _ := json.Marshal(backend.records)
	mock.ExpectGet(generationKey).RedisNil()
	mock.ExpectGet(key).RedisNil()
	mock.ExpectSet(key, raw, time.Minute).SetVal("OK")

	got, err := svc.List(context.Background(), "tok")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Jordan Williams" {
		t.Fatalf("List() = %+v", got)
	}
	if backend.calls != 1 {
		t.Fatalf("backend calls = %d, want 1", backend.calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListServesCachedGeneration(t *testing.T) {
	db, mock := redismock.NewClientMock()
	backend := &fakeBackend{admin: true}
	svc := NewListingService(backend, db, time.Minute, nil)

	raw, _ := json.Marshal([]signup.Record{jordan})
	mock.ExpectGet(generationKey).SetVal("3")
	mock.ExpectGet("signups:cache:3:" + callerHash("tok")).SetVal(string(raw))

	got, err := svc.List(context.Background(), "tok")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("List() = %+v", got)
	}
	if backend.calls != 0 {
		t.Fatalf("cached listing should not refetch from the backend")
	}
	if backend.adminCalls != 1 {
		t.Fatalf("admin checks = %d, want 1", backend.adminCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListCachedRefusedOnceCallerLosesAccess(t *testing.T) {
	cases := []struct {
		name    string
		backend *fakeBackend
		check   func(error) bool
	}{
		{"demoted", &fakeBackend{admin: false}, func(err error) bool {
			var forbidden *apperrors.ForbiddenError
			return errors.As(err, &forbidden)
		}},
		{"revoked", &fakeBackend{adminErr: apperrors.NewAuthenticationError("token revoked")}, func(err error) bool {
			var authErr *apperrors.AuthenticationError
			return errors.As(err, &authErr)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			svc := NewListingService(tc.backend, db, time.Minute, nil)

			key := "signups:cache:5:" + callerHash(tc.name)
			raw, _ := json.Marshal([]signup.Record{jordan})
			mock.ExpectGet(generationKey).SetVal("5")
			mock.ExpectGet(key).SetVal(string(raw))
			mock.ExpectDel(key).SetVal(1)

			got, err := svc.List(context.Background(), tc.name)
			if !tc.check(err) {
				t.Fatalf("List() = %d records, err = %v", len(got), err)
			}
			if got != nil {
				t.Fatalf("cached records leaked: %+v", got)
			}
			if tc.backend.calls != 0 {
				t.Fatalf("backend listing calls = %d, want 0", tc.backend.calls)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestInvalidateBumpsGenerationAndBroadcasts(t *testing.T) {
	db, mock := redismock.NewClientMock()
	hub := &fakeHub{}
	svc := NewListingService(&fakeBackend{}, db, time.Minute, hub)

	mock.ExpectIncr(generationKey).SetVal(4)
	if err := svc.Invalidate(context.Background()); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if len(hub.sent) != 1 || hub.sent[0] != StaleNotification {
		t.Fatalf("broadcasts = %+v", hub.sent)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestForgetDropsCallerCache(t *testing.T) {
	db, mock := redismock.NewClientMock()
	svc := NewListingService(&fakeBackend{}, db, time.Minute, nil)

	mock.ExpectGet(generationKey).SetVal("2")
	mock.ExpectDel("signups:cache:2:" + callerHash("tok")).SetVal(1)
	if err := svc.Forget(context.Background(), "tok"); err != nil {
		t.Fatalf("Forget() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCallerHashSeparatesTokens(t *testing.T) {
	if callerHash("a") == callerHash("b") {
		t.Fatal("distinct tokens must not share a cache key")
	}
	if len(callerHash("a")) != 16 {
		t.Fatalf("hash length = %d, want 16", len(callerHash("a")))
	}
}
