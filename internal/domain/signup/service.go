// internal/domain/signup/service.go
package signup

import (
	"context"
	"errors"
	"log"

	apperrors "panthers-signup/pkg/errors"
)

const MessageSubmitPending = "A submission is already in progress."

// Outcome is a successful submission.
type Outcome struct {
	ID   RecordID
	Name string
}

// Service runs the sign-up workflow for one form session at a time:
// validation, capacity gating, the in-flight guard and the backend call.
type Service struct {
	store     FormStore
	client    *Client
	validator *FieldValidator
	backend   Backend
	slots     Slots
	prefetch  bool
}

type ServiceOptions struct {
	Slots Slots
	// Prefetch seeds new sessions from the backend capacity snapshot.
	Prefetch bool
}

func NewService(store FormStore, client *Client, v *FieldValidator, backend Backend, opts ServiceOptions) *Service {
	return &Service{
		store:     store,
		client:    client,
		validator: v,
		backend:   backend,
		slots:     opts.Slots,
		prefetch:  opts.Prefetch,
	}
}

func (s *Service) AgeBounds() AgeBounds {
	return s.validator.AgeBounds()
}

// Open returns the presenter for a form session, creating the session state
// on first use.
func (s *Service) Open(ctx context.Context, sessionID string) (*Presenter, error) {
	state, ok, err := s.store.LoadCapacity(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewUnknownError("could not load form session: " + err.Error())
	}
	if ok {
		return NewPresenter(state, s.slots), nil
	}

	state = NewCapacityState()
	if s.prefetch && s.backend != nil {
		snapshot, err := s.backend.GetCapacity(ctx)
		if err != nil {
			log.Printf("capacity prefetch: %v", err)
		}
		for _, c := range snapshot {
			if c.Full() {
				state.MarkFull(c.Position)
			}
		}
	}
	if err := s.store.InitCapacity(ctx, sessionID, state); err != nil {
		return nil, apperrors.NewUnknownError("could not start form session: " + err.Error())
	}
	return NewPresenter(state, s.slots), nil
}

// ValidateField runs the rule for a single field and, for the position field,
// the capacity gate.
func (s *Service) ValidateField(ctx context.Context, sessionID, field, value string) error {
	if err := s.validator.Validate(field, value); err != nil {
		return err
	}
	if field != FieldPosition {
		return nil
	}
	presenter, err := s.Open(ctx, sessionID)
	if err != nil {
		return err
	}
	pos, _ := ParsePosition(value)
	if err := presenter.Select(pos); err != nil {
		return &FieldError{Field: FieldPosition, Message: MessagePositionFull}
	}
	return nil
}

// Submit validates the form, rejects full positions locally, and sends at most
// one request per session at a time. The returned presenter reflects any
// capacity learned from the failure.
func (s *Service) Submit(ctx context.Context, sessionID string, f Form) (*Presenter, Outcome, error) {
	f.Normalize()
	presenter, err := s.Open(ctx, sessionID)
	if err != nil {
		return nil, Outcome{}, err
	}

	if err := s.gate(presenter, f); err != nil {
		return presenter, Outcome{}, err
	}

	lock, err := s.store.AcquireSubmit(ctx, sessionID)
	if err != nil {
		return presenter, Outcome{}, apperrors.NewUnknownError("could not start submission: " + err.Error())
	}
	if lock == "" {
		return presenter, Outcome{}, apperrors.NewConflictError(MessageSubmitPending)
	}
	defer func() {
		if err := s.store.ReleaseSubmit(context.WithoutCancel(ctx), sessionID, lock); err != nil {
			log.Printf("release submit lock for %s: %v", sessionID, err)
		}
	}()

	id, err := s.client.Submit(ctx, f)
	if err != nil {
		if presenter.Apply(err) {
			pos, _ := capacityPosition(err)
			if serr := s.store.SaveFull(ctx, sessionID, pos); serr != nil {
				log.Printf("save full position %s for %s: %v", pos, sessionID, serr)
			}
		}
		return presenter, Outcome{}, err
	}
	return presenter, Outcome{ID: id, Name: f.Name}, nil
}

// Reset drops the session's form state, as a fresh page load would.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.store.Reset(ctx, sessionID)
}

func (s *Service) gate(presenter *Presenter, f Form) error {
	verr := &apperrors.ValidationError{Fields: map[string]string{}}
	if err := s.validator.ValidateForm(f); err != nil {
		if !errors.As(err, &verr) {
			return err
		}
	}
	if pos, ok := ParsePosition(f.Position); ok {
		if err := presenter.CheckSubmit(pos); err != nil {
			if verr.Fields == nil {
				verr.Fields = map[string]string{}
			}
			verr.Fields[FieldPosition] = MessagePositionFull
			verr.Message = MessagePositionFull
		}
	}
	if len(verr.Fields) > 0 {
		if verr.Message == "" {
			verr.Message = apperrors.MessageCorrectFields
		}
		return verr
	}
	return nil
}
