// internal/domain/signup/model.go
package signup

import (
	"strings"
	"time"
)

type Position string

const (
	PositionGuard   Position = "guard"
	PositionForward Position = "forward"
	PositionCenter  Position = "center"
)

// Positions lists the roster slots in display order.
var Positions = []Position{PositionGuard, PositionForward, PositionCenter}

func ParsePosition(s string) (Position, bool) {
	switch p := Position(strings.ToLower(strings.TrimSpace(s))); p {
	case PositionGuard, PositionForward, PositionCenter:
		return p, true
	}
	return "", false
}

func (p Position) Label() string {
	switch p {
	case PositionGuard:
		return "Guard"
	case PositionForward:
		return "Forward"
	case PositionCenter:
		return "Center"
	}
	return string(p)
}

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

var ExperienceLevels = []ExperienceLevel{ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced}

func ParseExperienceLevel(s string) (ExperienceLevel, bool) {
	switch e := ExperienceLevel(strings.ToLower(strings.TrimSpace(s))); e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return e, true
	}
	return "", false
}

func (e ExperienceLevel) Label() string {
	switch e {
	case ExperienceBeginner:
		return "Beginner"
	case ExperienceIntermediate:
		return "Intermediate"
	case ExperienceAdvanced:
		return "Advanced"
	}
	return string(e)
}

// Form is the raw sign-up form as posted by the browser.
type Form struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Age             string `json:"age"`
	Position        string `json:"position"`
	ExperienceLevel string `json:"experienceLevel"`
}

// Normalize trims surrounding whitespace from every field.
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Age = strings.TrimSpace(f.Age)
	f.Position = strings.ToLower(strings.TrimSpace(f.Position))
	f.ExperienceLevel = strings.ToLower(strings.TrimSpace(f.ExperienceLevel))
}

// Request is a parsed sign-up ready to be sent to the backend.
type Request struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Age             int             `json:"age"`
	Position        Position        `json:"position"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
}

type RecordID uint64

// Record is a sign-up as stored by the backend.
type Record struct {
	ID              RecordID        `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Age             int             `json:"age"`
	Position        Position        `json:"position"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	Timestamp       time.Time       `json:"timestamp"`
}

// PositionCapacity is the backend's view of one position's slots.
type PositionCapacity struct {
	Position Position `json:"position"`
	Limit    int      `json:"limit"`
	Taken    int      `json:"taken"`
}

func (c PositionCapacity) Full() bool {
	return c.Taken >= c.Limit
}
