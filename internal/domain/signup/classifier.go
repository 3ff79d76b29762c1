// internal/domain/signup/classifier.go
package signup

import (
	"strings"

	apperrors "panthers-signup/pkg/errors"
)

// Error codes the backend may attach to a rejected submission.
const (
	CodeCapacityExceeded = "capacity_exceeded"
	CodeClosed           = "closed"
	CodeValidation       = "validation"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindCapacityExceeded
	KindClosed
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindCapacityExceeded:
		return "capacity_exceeded"
	case KindClosed:
		return "closed"
	case KindValidation:
		return "validation"
	}
	return "unknown"
}

// ErrorKind is the classified form of a backend rejection.
type ErrorKind struct {
	Kind     Kind
	Position Position
	Message  string
}

// Err converts the classification into the matching pkg/errors type.
func (k ErrorKind) Err() error {
	switch k.Kind {
	case KindCapacityExceeded:
		return apperrors.NewCapacityExceededError(string(k.Position), k.Message)
	case KindClosed:
		return apperrors.NewClosedError(string(k.Position), k.Message)
	case KindValidation:
		return apperrors.NewValidationError(k.Message)
	}
	return apperrors.NewUnknownError(k.Message)
}

// Phrases are the substrings matched against backend error text.
type Phrases struct {
	Closed     []string
	Capacity   []string
	Validation []string
}

func DefaultPhrases() Phrases {
	return Phrases{
		Closed:     []string{"closed", "maxcapacity(0)"},
		Capacity:   []string{"maximum capacity", "maxcapacity"},
		Validation: []string{"invalid", "must be", "required"},
	}
}

type Classifier struct {
	phrases Phrases
}

func NewClassifier(p Phrases) *Classifier {
	return &Classifier{phrases: Phrases{
		Closed:     lowerAll(p.Closed),
		Capacity:   lowerAll(p.Capacity),
		Validation: lowerAll(p.Validation),
	}}
}

// Classify maps a backend rejection to an ErrorKind. A known structured code
// wins over phrase matching. The position is always the one that was
// submitted; backend messages do not reliably name it.
func (c *Classifier) Classify(position Position, code, message string) ErrorKind {
	kind := ErrorKind{Kind: KindUnknown, Position: position, Message: message}
	switch strings.ToLower(strings.TrimSpace(code)) {
	case CodeCapacityExceeded:
		kind.Kind = KindCapacityExceeded
		return kind
	case CodeClosed:
		kind.Kind = KindClosed
		return kind
	case CodeValidation:
		kind.Kind = KindValidation
		return kind
	}

	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, c.phrases.Closed):
		kind.Kind = KindClosed
	case containsAny(lower, c.phrases.Capacity):
		kind.Kind = KindCapacityExceeded
	case containsAny(lower, c.phrases.Validation):
		kind.Kind = KindValidation
	}
	return kind
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
