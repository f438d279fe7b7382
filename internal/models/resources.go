package models

type Account struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Doctor struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
}

type AppointmentStatus string

const (
	AppointmentPending  AppointmentStatus = "PENDING"
	AppointmentApproved AppointmentStatus = "APPROVED"
	AppointmentRejected AppointmentStatus = "REJECTED"
)

type Appointment struct {
	ID              int64             `json:"id"`
	User            *Account          `json:"user,omitempty"`
	Doctor          *Doctor           `json:"doctor,omitempty"`
	AppointmentDate string            `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	Status          AppointmentStatus `json:"status"`
}
