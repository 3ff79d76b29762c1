package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

func TestCreateSession(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	store := NewSessionStore(db)

	restore := generateSessionID
	generateSessionID = func() string { return "123" }
	defer func() { generateSessionID = restore }()

	mockRedis.ExpectSet("session:123", []byte(`{"username":"coach","token":"tok"}`), 5*time.Minute).SetVal("OK")
	id, err := store.CreateSession(context.Background(), Session{Username: "coach", Token: "tok"}, 5*time.Minute)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if id != "123" {
		t.Errorf("Expected session id 123, got %q", id)
	}
	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetSession(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	store := NewSessionStore(db)

	mockRedis.ExpectGet("session:123").SetVal(`{"username":"coach","token":"tok"}`)
	sess, err := store.GetSession(context.Background(), "123")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if sess.ID != "123" || sess.Username != "coach" || sess.Token != "tok" {
		t.Errorf("Expected coach/tok session, got %+v", sess)
	}

	mockRedis.ExpectGet("session:gone").RedisNil()
	if _, err := store.GetSession(context.Background(), "gone"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}

	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteSession(t *testing.T) {
	db, mockRedis := redismock.NewClientMock()
	store := NewSessionStore(db)

	mockRedis.ExpectDel("session:123").SetVal(1)
	if err := store.DeleteSession(context.Background(), "123"); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if err := mockRedis.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
