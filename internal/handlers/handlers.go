package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"healthbook/web/internal/cache"
	"healthbook/web/internal/config"
	"healthbook/web/internal/gateway"
	"healthbook/web/internal/middleware"
	"healthbook/web/internal/models"
	"healthbook/web/internal/session"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	backend   *gateway.Client
	cache     *redis.Client
	sessions  *session.Store
	directory *cache.Directory
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	backend *gateway.Client,
	redisClient *redis.Client,
	sessions *session.Store,
	directory *cache.Directory,
) HandlerSet {
	return HandlerSet{
		log:       log,
		cfg:       cfg,
		backend:   backend,
		cache:     redisClient,
		sessions:  sessions,
		directory: directory,
	}
}

func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/healthz", h.Health)
	router.GET("/", h.Home)

	public := router.Group("/", middleware.PublicOnly())
	{
		public.GET("/login", h.LoginForm)
		public.POST("/login", h.Login)
		public.GET("/register", h.RegisterForm)
		public.POST("/register", h.RegisterSubmit)
		public.GET("/admin/login", h.AdminLoginForm)
		public.POST("/admin/login", h.AdminLogin)
	}

	router.POST("/logout", h.Logout)

	authed := router.Group("/", middleware.Gate(middleware.RequireAny))
	{
		authed.GET("/dashboard", h.Dashboard)
		authed.GET("/appointments", h.Appointments)
		authed.POST("/appointments/:id/approve", h.ApproveAppointment)
		authed.POST("/appointments/:id/reject", h.RejectAppointment)
		authed.POST("/appointments/:id/delete", h.DeleteAppointment)
	}

	patient := router.Group("/", middleware.Gate(middleware.RequirePatient))
	{
		patient.GET("/doctors", h.Doctors)
		patient.GET("/book-appointment/:doctorId", h.BookAppointmentForm)
		patient.POST("/book-appointment/:doctorId", h.BookAppointment)
	}

	doctor := router.Group("/", middleware.Gate(middleware.RequireDoctor))
	{
		doctor.GET("/doctor-profile", h.DoctorProfile)
		doctor.POST("/doctor-profile", h.UpdateDoctorProfile)
	}

	admin := router.Group("/admin", middleware.Gate(middleware.RequireAdmin))
	{
		admin.GET("", h.AdminDashboard)
		admin.GET("/users", h.ManageUsers)
		admin.POST("/users/:id/delete", h.DeleteUser)
		admin.GET("/doctors", h.ManageDoctors)
		admin.POST("/doctors", h.CreateDoctor)
		admin.POST("/doctors/:id/update", h.UpdateDoctor)
		admin.POST("/doctors/:id/delete", h.DeleteDoctor)
	}

	router.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/")
	})
}

// render merges the per-page data with the identity fields every template
// needs for the nav shell.
func (h HandlerSet) render(c *gin.Context, status int, name string, data gin.H) {
	identity := middleware.CurrentIdentity(c)

	merged := gin.H{
		"Authenticated": identity.State == middleware.StateAuthenticated,
		"IsPatient":     identity.Session.Is(models.RolePatient),
		"IsDoctor":      identity.Session.Is(models.RoleDoctor),
		"IsAdmin":       identity.Session.Is(models.RoleAdmin),
		"Email":         identity.Session.Email,
		"CSRF":          middleware.SessionCSRFToken(c),
	}
	for key, value := range data {
		merged[key] = value
	}

	c.HTML(status, name, merged)
}

func (h HandlerSet) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", gin.H{"Title": "Welcome"})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
