package routes

import (
	"net/http"
	"strings"

	adminapi "portfolio-site/internal/api/admin"
	authapi "portfolio-site/internal/api/auth"
	siteapi "portfolio-site/internal/api/site"
	worksapi "portfolio-site/internal/api/works"
	"portfolio-site/internal/app/http/middleware"
	"portfolio-site/internal/app/http/views"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Works *worksapi.Handler
	Auth  *authapi.Handler
	Admin *adminapi.Handler
	// Secret returns the key admin cookies are signed with.
	Secret func() string
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", siteapi.Health)
	r.StaticFS("/static", http.FS(views.Static()))

	// Public pages
	r.GET("/", h.Works.Index)
	r.GET("/work/:id", h.Works.Detail)
	r.GET("/about", siteapi.About)
	r.GET("/contact", siteapi.Contact)

	// Login, the password is compared as typed
	login := r.Group("/")
	login.Use(middleware.SanitizeInput("password"))
	login.GET(middleware.LoginPath, h.Auth.LoginPage)
	login.POST(middleware.LoginPath, h.Auth.LoginForm)
	login.Any("/api/admin-login", h.Auth.APILogin)

	// Admin
	admin := r.Group("/admin")
	admin.Use(middleware.AdminGate(h.Secret), middleware.SanitizeInput())
	admin.GET("", h.Admin.Dashboard)
	admin.GET("/work-form", h.Admin.WorkForm)
	admin.GET("/drafts/:id", h.Admin.EditDraft)
	admin.POST("/drafts/:id", h.Admin.UpdateDraft)
	admin.GET("/staged/:file", h.Admin.StagedFile)
	admin.POST("/logout", h.Auth.Logout)

	// unmatched paths under /admin/ still go through the gate
	gate := middleware.AdminGate(h.Secret)
	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/admin/") {
			gate(c)
			if c.IsAborted() {
				return
			}
		}
		worksapi.NotFound(c)
	})
}
