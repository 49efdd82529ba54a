package model

import (
	"fmt"
	"strings"
)

// Gender is one of the two categorical values carried by a Person
type Gender string

const (
	GenderMale   Gender = "m"
	GenderFemale Gender = "f"
)

// Person is a node of the family tree. Empty parent or spouse IDs mean absent.
type Person struct {
	ID                 string `json:"personID"`
	AssociatedUsername string `json:"associatedUsername"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Gender             Gender `json:"gender"`
	FatherID           string `json:"fatherID,omitempty"`
	MotherID           string `json:"motherID,omitempty"`
	SpouseID           string `json:"spouseID,omitempty"`
}

// FullName joins first and last name with a single space
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Validate checks if the Person is valid
func (p Person) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrInvalidPerson{Field: "personID", Reason: "cannot be empty"}
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return ErrInvalidPerson{ID: p.ID, Field: "gender", Reason: fmt.Sprintf("unknown value %q", p.Gender)}
	}
	return nil
}

// Event is a dated, located life event owned by one person
type Event struct {
	ID                 string  `json:"eventID"`
	AssociatedUsername string  `json:"associatedUsername"`
	PersonID           string  `json:"personID"`
	EventType          string  `json:"eventType"`
	Year               int     `json:"year"`
	City               string  `json:"city"`
	Country            string  `json:"country"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
}

// Validate checks if the Event is valid
func (e Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrInvalidEvent{Field: "eventID", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(e.PersonID) == "" {
		return ErrInvalidEvent{ID: e.ID, Field: "personID", Reason: "cannot be empty"}
	}
	return nil
}

// Is reports whether the event type matches kind, ignoring case
func (e Event) Is(kind string) bool {
	return strings.EqualFold(e.EventType, kind)
}

// Errors

type ErrInvalidPerson struct {
	ID     string
	Field  string
	Reason string
}

func (e ErrInvalidPerson) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid person %s: %s - %s", e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid person: %s - %s", e.Field, e.Reason)
}

type ErrInvalidEvent struct {
	ID     string
	Field  string
	Reason string
}

func (e ErrInvalidEvent) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid event %s: %s - %s", e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid event: %s - %s", e.Field, e.Reason)
}
