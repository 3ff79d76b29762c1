package web

import (
	"time"

	"panthers-signup/internal/domain/signup"
)

// Message kinds for the sign-up page alert.
const (
	MessageError    = "error"
	MessageCapacity = "capacity"
)

type SignUpView struct {
	Form        signup.Form
	Options     []signup.PositionOption
	Experience  []ExperienceOption
	Errors      map[string]string
	Message     string
	MessageKind string
	AgeMin      int
	AgeMax      int
}

type ExperienceOption struct {
	Value    signup.ExperienceLevel
	Label    string
	Selected bool
}

// ExperienceOptions lists the experience choices with selected marked.
func ExperienceOptions(selected string) []ExperienceOption {
	out := make([]ExperienceOption, 0, len(signup.ExperienceLevels))
	for _, e := range signup.ExperienceLevels {
		out = append(out, ExperienceOption{Value: e, Label: e.Label(), Selected: string(e) == selected})
	}
	return out
}

type ConfirmView struct {
	Name string
}

type FieldErrorView struct {
	Field   string
	Message string
}

// Row is one sign-up as shown in listings.
type Row struct {
	Number          int
	ID              signup.RecordID
	Name            string
	Email           string
	Phone           string
	Age             int
	Position        string
	PositionValue   signup.Position
	Experience      string
	ExperienceValue signup.ExperienceLevel
}

func NewRow(n int, r signup.Record) Row {
	return Row{
		Number:          n,
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Age:             r.Age,
		Position:        r.Position.Label(),
		PositionValue:   r.Position,
		Experience:      r.ExperienceLevel.Label(),
		ExperienceValue: r.ExperienceLevel,
	}
}

// Rows numbers records from 1 in listing order.
func Rows(records []signup.Record) []Row {
	rows := make([]Row, 0, len(records))
	for i, r := range records {
		rows = append(rows, NewRow(i+1, r))
	}
	return rows
}

type PositionCount struct {
	Label string
	Count int
}

// CountByPosition tallies records per position in display order.
func CountByPosition(records []signup.Record) []PositionCount {
	tally := make(map[signup.Position]int, len(signup.Positions))
	for _, r := range records {
		tally[r.Position]++
	}
	out := make([]PositionCount, 0, len(signup.Positions))
	for _, p := range signup.Positions {
		out = append(out, PositionCount{Label: p.Label(), Count: tally[p]})
	}
	return out
}

type ListingView struct {
	Heading     string
	Path        string
	Count       int
	Rows        []Row
	Counts      []PositionCount
	DetailLinks bool
}

type DetailView struct {
	Row       Row
	Submitted string
}

func NewDetailView(r signup.Record) DetailView {
	v := DetailView{Row: NewRow(1, r)}
	if !r.Timestamp.IsZero() {
		v.Submitted = r.Timestamp.UTC().Format(time.RFC1123)
	}
	return v
}

type LoginView struct {
	Heading  string
	Intro    string
	Username string
	Next     string
	Error    string
	Errors   map[string]string
}

type DeniedView struct {
	Heading string
	Message string
	Next    string
}

type ErrorView struct {
	Message string
	Retry   string
}
