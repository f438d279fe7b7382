package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"healthbook/web/internal/gateway"
	"healthbook/web/internal/middleware"
	"healthbook/web/internal/models"
)

var adminFlash = map[string]string{
	"user_deleted":   "User deleted successfully!",
	"doctor_created": "Doctor added successfully!",
	"doctor_updated": "Doctor updated successfully!",
	"doctor_deleted": "Doctor removed successfully!",
}

func (h HandlerSet) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	data := gin.H{"Title": "Admin Dashboard"}

	appointments, err := h.backend.Appointments.ListAll(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("admin appointment stats failed")
		data["Error"] = "Some information could not be loaded right now."
	} else {
		stats := dashboardStats{Total: len(appointments)}
		for _, appointment := range appointments {
			switch appointment.Status {
			case models.AppointmentPending:
				stats.Pending++
			case models.AppointmentApproved:
				stats.Approved++
			}
		}
		data["Stats"] = stats
	}

	if doctors, err := h.directory.Doctors(ctx); err == nil {
		data["DoctorCount"] = len(doctors)
	}
	if accounts, err := h.backend.Identity.ListAccounts(ctx); err == nil {
		data["UserCount"] = len(accounts)
	}

	h.render(c, http.StatusOK, "admin_dashboard.html", data)
}

func (h HandlerSet) ManageUsers(c *gin.Context) {
	accounts, err := h.backend.Identity.ListAccounts(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("account list fetch failed")
		h.render(c, http.StatusOK, "manage_users.html", gin.H{
			"Title": "Manage Users",
			"Error": "Users could not be loaded right now. Please try again.",
		})
		return
	}

	h.render(c, http.StatusOK, "manage_users.html", gin.H{
		"Title":   "Manage Users",
		"Users":   accounts,
		"Self":    middleware.CurrentSession(c).SubjectID,
		"Message": adminFlash[c.Query("msg")],
	})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/users")
		return
	}

	// deleting the account behind the current session would strand it
	if id == middleware.CurrentSession(c).SubjectID {
		c.Redirect(http.StatusSeeOther, "/admin/users")
		return
	}

	if err := h.backend.Identity.DeleteAccount(c.Request.Context(), id); err != nil {
		h.log.Warn().Err(err).Int64("account_id", id).Msg("account delete failed")
		c.Redirect(http.StatusSeeOther, "/admin/users")
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/users?msg=user_deleted")
}

func (h HandlerSet) ManageDoctors(c *gin.Context) {
	ctx := c.Request.Context()

	doctors, err := h.directory.Doctors(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("doctor list fetch failed")
		h.render(c, http.StatusOK, "manage_doctors.html", gin.H{
			"Title": "Manage Doctors",
			"Error": "Doctors could not be loaded right now. Please try again.",
		})
		return
	}

	data := gin.H{
		"Title":   "Manage Doctors",
		"Doctors": doctors,
		"Message": adminFlash[c.Query("msg")],
	}

	if editID := c.Query("edit"); editID != "" {
		for _, doctor := range doctors {
			if doctor.ID > 0 && editID == formatID(doctor.ID) {
				data["Editing"] = doctor
				break
			}
		}
	}

	h.render(c, http.StatusOK, "manage_doctors.html", data)
}

func (h HandlerSet) CreateDoctor(c *gin.Context) {
	input := doctorInputFromForm(c)

	if _, err := h.backend.Doctors.Create(c.Request.Context(), input); err != nil {
		h.log.Warn().Err(err).Str("email", input.Email).Msg("doctor create failed")
		h.renderManageDoctorsError(c, err)
		return
	}

	h.directory.Invalidate(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/admin/doctors?msg=doctor_created")
}

func (h HandlerSet) UpdateDoctor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/doctors")
		return
	}

	input := doctorInputFromForm(c)

	if _, err := h.backend.Doctors.Update(c.Request.Context(), id, input); err != nil {
		h.log.Warn().Err(err).Int64("doctor_id", id).Msg("doctor update failed")
		h.renderManageDoctorsError(c, err)
		return
	}

	h.directory.Invalidate(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/admin/doctors?msg=doctor_updated")
}

func (h HandlerSet) DeleteDoctor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.Redirect(http.StatusSeeOther, "/admin/doctors")
		return
	}

	if err := h.backend.Doctors.Delete(c.Request.Context(), id); err != nil {
		h.log.Warn().Err(err).Int64("doctor_id", id).Msg("doctor delete failed")
		c.Redirect(http.StatusSeeOther, "/admin/doctors")
		return
	}

	h.directory.Invalidate(c.Request.Context())
	c.Redirect(http.StatusSeeOther, "/admin/doctors?msg=doctor_deleted")
}

func (h HandlerSet) renderManageDoctorsError(c *gin.Context, err error) {
	doctors, _ := h.directory.Doctors(c.Request.Context())
	h.render(c, http.StatusBadRequest, "manage_doctors.html", gin.H{
		"Title":   "Manage Doctors",
		"Doctors": doctors,
		"Error":   doctorAdminMessage(err),
	})
}

func doctorAdminMessage(err error) string {
	if apiErr, ok := gateway.AsAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case gateway.IsValidation(err):
		return "Invalid input. Please check all fields are filled correctly."
	case gateway.IsConflict(err):
		return "A doctor with this email already exists."
	default:
		return "The operation failed. Please try again."
	}
}

func doctorInputFromForm(c *gin.Context) gateway.DoctorInput {
	return gateway.DoctorInput{
		Name:           strings.TrimSpace(c.PostForm("name")),
		Specialization: strings.TrimSpace(c.PostForm("specialization")),
		Email:          strings.TrimSpace(strings.ToLower(c.PostForm("email"))),
		Phone:          strings.TrimSpace(c.PostForm("phone")),
	}
}
