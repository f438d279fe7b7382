package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthbook/web/internal/middleware"
	"healthbook/web/internal/models"
)

type dashboardStats struct {
	Total    int
	Pending  int
	Approved int
	Doctors  int
}

func (h HandlerSet) Dashboard(c *gin.Context) {
	identity := middleware.CurrentIdentity(c)
	ctx := c.Request.Context()

	stats, err := h.collectStats(ctx, identity.Session)
	if err != nil {
		h.log.Warn().Err(err).Msg("dashboard stats fetch failed")
		h.render(c, http.StatusOK, "dashboard.html", gin.H{
			"Title": "Dashboard",
			"Error": "Some information could not be loaded right now.",
			"Stats": dashboardStats{},
		})
		return
	}

	h.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title": "Dashboard",
		"Stats": stats,
	})
}

func (h HandlerSet) collectStats(ctx context.Context, sess models.Session) (dashboardStats, error) {
	appointments, err := h.appointmentsFor(ctx, sess)
	if err != nil {
		return dashboardStats{}, err
	}

	stats := dashboardStats{Total: len(appointments)}
	for _, appointment := range appointments {
		switch appointment.Status {
		case models.AppointmentPending:
			stats.Pending++
		case models.AppointmentApproved:
			stats.Approved++
		}
	}

	if sess.Is(models.RolePatient) {
		doctors, err := h.directory.Doctors(ctx)
		if err != nil {
			return stats, err
		}
		stats.Doctors = len(doctors)
	}

	return stats, nil
}

// appointmentsFor picks the listing the backend exposes for the role: admins
// see everything, doctors see their own via the directory email match, and
// patients see appointments booked under their account.
func (h HandlerSet) appointmentsFor(ctx context.Context, sess models.Session) ([]models.Appointment, error) {
	switch sess.Role {
	case models.RoleAdmin:
		return h.backend.Appointments.ListAll(ctx)
	case models.RoleDoctor:
		doctor, found, err := h.directory.FindByEmail(ctx, sess.Email)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, nil
		}
		return h.backend.Appointments.ListByDoctor(ctx, doctor.ID)
	default:
		return h.backend.Appointments.ListByUser(ctx, sess.SubjectID)
	}
}
