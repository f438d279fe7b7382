package handlers

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"healthbook/web/internal/gateway"
	"healthbook/web/internal/middleware"
	"healthbook/web/internal/models"
)

const bookingWindowDays = 30

func (h HandlerSet) Doctors(c *gin.Context) {
	doctors, err := h.directory.Doctors(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("doctor directory fetch failed")
		h.render(c, http.StatusOK, "doctors.html", gin.H{
			"Title":          "Find a Doctor",
			"Error":          "Doctors could not be loaded right now. Please try again.",
			"Search":         "",
			"Specialization": "",
		})
		return
	}

	search := strings.TrimSpace(c.Query("q"))
	specialization := strings.TrimSpace(c.Query("specialization"))

	h.render(c, http.StatusOK, "doctors.html", gin.H{
		"Title":           "Find a Doctor",
		"Doctors":         filterDoctors(doctors, search, specialization),
		"Specializations": specializations(doctors),
		"Search":          search,
		"Specialization":  specialization,
	})
}

func filterDoctors(doctors []models.Doctor, search string, specialization string) []models.Doctor {
	needle := strings.ToLower(search)

	filtered := make([]models.Doctor, 0, len(doctors))
	for _, doctor := range doctors {
		if specialization != "" && doctor.Specialization != specialization {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(doctor.Name), needle) &&
			!strings.Contains(strings.ToLower(doctor.Specialization), needle) {
			continue
		}
		filtered = append(filtered, doctor)
	}
	return filtered
}

func specializations(doctors []models.Doctor) []string {
	seen := make(map[string]struct{}, len(doctors))
	var list []string
	for _, doctor := range doctors {
		if doctor.Specialization == "" {
			continue
		}
		if _, ok := seen[doctor.Specialization]; ok {
			continue
		}
		seen[doctor.Specialization] = struct{}{}
		list = append(list, doctor.Specialization)
	}
	sort.Strings(list)
	return list
}

func (h HandlerSet) BookAppointmentForm(c *gin.Context) {
	doctorID, ok := pathID(c, "doctorId")
	if !ok {
		c.Redirect(http.StatusSeeOther, "/doctors")
		return
	}

	doctor, err := h.backend.Doctors.Get(c.Request.Context(), doctorID)
	if err != nil {
		if gateway.IsNotFound(err) {
			c.Redirect(http.StatusSeeOther, "/doctors")
			return
		}
		h.log.Warn().Err(err).Int64("doctor_id", doctorID).Msg("doctor fetch failed")
		h.render(c, http.StatusOK, "book_appointment.html", gin.H{
			"Title": "Book Appointment",
			"Error": "The doctor could not be loaded right now. Please try again.",
		})
		return
	}

	h.renderBookingForm(c, http.StatusOK, doctor, gin.H{})
}

func (h HandlerSet) BookAppointment(c *gin.Context) {
	doctorID, ok := pathID(c, "doctorId")
	if !ok {
		c.Redirect(http.StatusSeeOther, "/doctors")
		return
	}

	sess := middleware.CurrentSession(c)
	date := c.PostForm("date")
	timeOfDay := c.PostForm("time")

	doctor, err := h.backend.Doctors.Get(c.Request.Context(), doctorID)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/doctors")
		return
	}

	if date == "" || timeOfDay == "" {
		h.renderBookingForm(c, http.StatusBadRequest, doctor, gin.H{
			"Error": "Please choose both a date and a time.",
			"Date":  date,
			"Time":  timeOfDay,
		})
		return
	}

	_, err = h.backend.Appointments.Book(c.Request.Context(), gateway.BookInput{
		UserID:   sess.SubjectID,
		DoctorID: doctorID,
		Date:     date,
		Time:     timeOfDay,
	})
	if err != nil {
		h.log.Warn().Err(err).Int64("doctor_id", doctorID).Msg("booking failed")
		h.renderBookingForm(c, http.StatusBadRequest, doctor, gin.H{
			"Error": bookingMessage(err),
			"Date":  date,
			"Time":  timeOfDay,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/appointments?msg=booked")
}

func bookingMessage(err error) string {
	if apiErr, ok := gateway.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if gateway.IsValidation(err) {
		return "The requested slot is not valid. Please pick another date or time."
	}
	return "Booking failed. Please try again."
}

func (h HandlerSet) renderBookingForm(c *gin.Context, status int, doctor models.Doctor, extra gin.H) {
	today := time.Now()
	data := gin.H{
		"Title":   "Book Appointment",
		"Doctor":  doctor,
		"Date":    "",
		"Time":    "",
		"MinDate": today.Format("2006-01-02"),
		"MaxDate": today.AddDate(0, 0, bookingWindowDays).Format("2006-01-02"),
	}
	for key, value := range extra {
		data[key] = value
	}
	h.render(c, status, "book_appointment.html", data)
}

func (h HandlerSet) DoctorProfile(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	doctor, found, err := h.directory.FindByEmail(c.Request.Context(), sess.Email)
	if err != nil {
		h.log.Warn().Err(err).Msg("doctor profile lookup failed")
		h.render(c, http.StatusOK, "doctor_profile.html", gin.H{
			"Title": "Profile Settings",
			"Error": "Your profile could not be loaded right now. Please try again.",
		})
		return
	}

	h.render(c, http.StatusOK, "doctor_profile.html", gin.H{
		"Title":     "Profile Settings",
		"Doctor":    doctor,
		"NotListed": !found,
	})
}

func (h HandlerSet) UpdateDoctorProfile(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	ctx := c.Request.Context()

	doctor, found, err := h.directory.FindByEmail(ctx, sess.Email)
	if err != nil || !found {
		c.Redirect(http.StatusSeeOther, "/doctor-profile")
		return
	}

	input := gateway.DoctorInput{
		Name:           strings.TrimSpace(c.PostForm("name")),
		Specialization: strings.TrimSpace(c.PostForm("specialization")),
		Email:          doctor.Email, // the account correlation key never changes here
		Phone:          strings.TrimSpace(c.PostForm("phone")),
	}

	updated, err := h.backend.Doctors.Update(ctx, doctor.ID, input)
	if err != nil {
		h.log.Warn().Err(err).Int64("doctor_id", doctor.ID).Msg("profile update failed")
		h.render(c, http.StatusBadRequest, "doctor_profile.html", gin.H{
			"Title":  "Profile Settings",
			"Doctor": doctor,
			"Error":  profileMessage(err),
		})
		return
	}

	h.directory.Invalidate(ctx)
	h.render(c, http.StatusOK, "doctor_profile.html", gin.H{
		"Title":   "Profile Settings",
		"Doctor":  updated,
		"Message": "Profile updated successfully!",
	})
}

func profileMessage(err error) string {
	if apiErr, ok := gateway.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	if gateway.IsValidation(err) {
		return "Invalid input. Please check all fields are filled correctly."
	}
	return "Update failed. Please try again."
}
