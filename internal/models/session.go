package models

import "time"

// Session is the client's record of the authenticated identity. It is either
// fully populated or absent; partial sessions are never stored.
type Session struct {
	SubjectID int64     `json:"subjectId"`
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s Session) Complete() bool {
	return s.SubjectID != 0 && s.Role.Valid() && s.Email != ""
}

func (s Session) Is(role Role) bool {
	return s.Role == role
}
