package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole normalizes a backend role string into the closed enum. The backend
// calls patient accounts "USER"; anything outside the enum is rejected.
func ParseRole(value string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "USER", "PATIENT":
		return RolePatient, nil
	case "DOCTOR":
		return RoleDoctor, nil
	case "ADMIN":
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", value)
	}
}

// Wire maps the enum back to the value the backend expects.
func (r Role) Wire() string {
	if r == RolePatient {
		return "USER"
	}
	return string(r)
}

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor || r == RoleAdmin
}
