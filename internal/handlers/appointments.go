package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthbook/web/internal/middleware"
	"healthbook/web/internal/models"
)

var appointmentFlash = map[string]string{
	"booked":   "Appointment booked successfully!",
	"approved": "Appointment approved successfully!",
	"rejected": "Appointment rejected",
	"canceled": "Appointment canceled successfully!",
	"deleted":  "Appointment deleted successfully!",
}

func (h HandlerSet) Appointments(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	appointments, err := h.appointmentsFor(c.Request.Context(), sess)
	if err != nil {
		h.log.Warn().Err(err).Msg("appointment list fetch failed")
		h.render(c, http.StatusOK, "appointments.html", gin.H{
			"Title": "Appointments",
			"Error": "Appointments could not be loaded right now. Please try again.",
		})
		return
	}

	h.render(c, http.StatusOK, "appointments.html", gin.H{
		"Title":        appointmentsTitle(sess.Role),
		"Appointments": appointments,
		"CanModerate":  canModerate(sess),
		"Message":      appointmentFlash[c.Query("msg")],
	})
}

func appointmentsTitle(role models.Role) string {
	switch role {
	case models.RoleAdmin:
		return "Manage All Appointments"
	case models.RoleDoctor:
		return "All Appointments"
	default:
		return "My Appointments"
	}
}

// canModerate mirrors which identities get approve/reject controls: doctors
// over their own schedule and admins over everything.
func canModerate(sess models.Session) bool {
	return sess.Is(models.RoleDoctor) || sess.Is(models.RoleAdmin)
}

func (h HandlerSet) ApproveAppointment(c *gin.Context) {
	h.moderateAppointment(c, "approved", h.backend.Appointments.Approve)
}

func (h HandlerSet) RejectAppointment(c *gin.Context) {
	h.moderateAppointment(c, "rejected", h.backend.Appointments.Reject)
}

func (h HandlerSet) moderateAppointment(c *gin.Context, flash string, action func(ctx context.Context, id int64) error) {
	if !canModerate(middleware.CurrentSession(c)) {
		c.Redirect(http.StatusSeeOther, "/appointments")
		return
	}

	id, ok := pathID(c, "id")
	if !ok {
		c.Redirect(http.StatusSeeOther, "/appointments")
		return
	}

	if err := action(c.Request.Context(), id); err != nil {
		h.log.Warn().Err(err).Int64("appointment_id", id).Str("action", flash).Msg("appointment update failed")
		c.Redirect(http.StatusSeeOther, "/appointments")
		return
	}

	c.Redirect(http.StatusSeeOther, "/appointments?msg="+flash)
}

func (h HandlerSet) DeleteAppointment(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	id, ok := pathID(c, "id")
	if !ok {
		c.Redirect(http.StatusSeeOther, "/appointments")
		return
	}

	if err := h.backend.Appointments.Delete(c.Request.Context(), id); err != nil {
		h.log.Warn().Err(err).Int64("appointment_id", id).Msg("appointment delete failed")
		c.Redirect(http.StatusSeeOther, "/appointments")
		return
	}

	flash := "canceled"
	if canModerate(sess) {
		flash = "deleted"
	}
	c.Redirect(http.StatusSeeOther, "/appointments?msg="+flash)
}
