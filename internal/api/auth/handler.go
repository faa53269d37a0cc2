package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"portfolio-site/internal/domain/admintoken"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const afterLoginPath = "/admin/work-form"

// Settings are read once at startup.
type Settings struct {
	AdminPassword string
	Secret        string
	SecureCookie  bool
}

type Handler struct {
	settings Settings
	logger   *zap.Logger
	now      func() time.Time
}

func NewHandler(s Settings, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{settings: s, logger: logger, now: time.Now}
}

var (
	errNotConfigured = errors.New("admin login is not configured")
	errWrongPassword = errors.New("wrong password")
)

// login checks the password and sets the admin cookie on success.
func (h *Handler) login(c *gin.Context, password string) error {
	if h.settings.AdminPassword == "" || h.settings.Secret == "" {
		h.logger.Error("ADMIN_PWD or JWT_SECRET_KEY is not set")
		return errNotConfigured
	}
	if !admintoken.CheckPassword(h.settings.AdminPassword, password) {
		h.logger.Info("admin login rejected", zap.String("client_ip", c.ClientIP()))
		return errWrongPassword
	}

	token, err := admintoken.Mint(h.settings.Secret, h.now())
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(admintoken.CookieName, token, int(admintoken.TTL/time.Second), "/", "", h.settings.SecureCookie, true)
	return nil
}

// ------------------------------
// /api/admin-login  (JSON)
// ------------------------------
func (h *Handler) APILogin(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.Header("Allow", http.MethodPost)
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": fmt.Sprintf("Method %s Not Allowed", c.Request.Method)})
		return
	}

	var input struct {
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	switch err := h.login(c, input.Password); {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "로그인 성공"})
	case errors.Is(err, errWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "비밀번호가 일치하지 않습니다."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "서버 설정 오류입니다."})
	}
}

type loginPage struct {
	Error string
}

// ------------------------------
// /admin-secu  (HTML form)
// ------------------------------
func (h *Handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", loginPage{})
}

func (h *Handler) LoginForm(c *gin.Context) {
	switch err := h.login(c, c.PostForm("password")); {
	case err == nil:
		c.Redirect(http.StatusSeeOther, afterLoginPath)
	case errors.Is(err, errWrongPassword):
		c.HTML(http.StatusUnauthorized, "login.html", loginPage{Error: "비밀번호가 올바르지 않습니다."})
	default:
		c.HTML(http.StatusInternalServerError, "login.html", loginPage{Error: "로그인 중 오류가 발생했습니다."})
	}
}

// Logout drops the cookie; the token itself stays valid until it expires.
func (h *Handler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(admintoken.CookieName, "", -1, "/", "", h.settings.SecureCookie, true)
	c.Redirect(http.StatusSeeOther, "/admin-secu")
}
