// internal/domain/signup/client.go
package signup

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	apperrors "panthers-signup/pkg/errors"
)

const MessageInvalidAge = "Invalid age provided."

// Client turns a validated form into one backend call and normalizes the
// result. It never touches CapacityState.
type Client struct {
	backend     Backend
	classifier  *Classifier
	invalidator Invalidator
	minAge      int
}

func NewClient(b Backend, c *Classifier, inv Invalidator, minAge int) *Client {
	if minAge < 1 {
		minAge = 1
	}
	return &Client{
		backend:     b,
		classifier:  c,
		invalidator: inv,
		minAge:      minAge,
	}
}

// Submit sends the form to the backend and returns the new record id. Backend
// rejections come back classified as pkg/errors types. Server and gateway
// failures are never classified, so their text cannot mark a position full.
func (c *Client) Submit(ctx context.Context, f Form) (RecordID, error) {
	req, err := c.request(f)
	if err != nil {
		return 0, err
	}

	id, err := c.backend.SubmitSignUp(ctx, req)
	if err != nil {
		var be *BackendError
		if errors.As(err, &be) && be.Status < 500 {
			return 0, c.classifier.Classify(req.Position, be.Code, be.Message).Err()
		}
		return 0, apperrors.NewUnknownError(err.Error())
	}

	if c.invalidator != nil {
		if err := c.invalidator.Invalidate(ctx); err != nil {
			log.Printf("invalidate sign-up listings: %v", err)
		}
	}
	return id, nil
}

func (c *Client) request(f Form) (Request, error) {
	age, err := strconv.Atoi(strings.TrimSpace(f.Age))
	if err != nil || age < c.minAge {
		return Request{}, &apperrors.ValidationError{
			Message: MessageInvalidAge,
			Fields:  map[string]string{FieldAge: MessageInvalidAge},
		}
	}
	pos, ok := ParsePosition(f.Position)
	if !ok {
		return Request{}, &apperrors.ValidationError{
			Message: "Please select a position",
			Fields:  map[string]string{FieldPosition: "Please select a position"},
		}
	}
	exp, ok := ParseExperienceLevel(f.ExperienceLevel)
	if !ok {
		return Request{}, &apperrors.ValidationError{
			Message: "Please select your experience level",
			Fields:  map[string]string{FieldExperienceLevel: "Please select your experience level"},
		}
	}
	return Request{
		Name:            strings.TrimSpace(f.Name),
		Email:           strings.TrimSpace(f.Email),
		Phone:           strings.TrimSpace(f.Phone),
		Age:             age,
		Position:        pos,
		ExperienceLevel: exp,
	}, nil
}
