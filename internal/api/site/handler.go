package siteapi

import (
	"net/http"

	"portfolio-site/internal/app/http/views"

	"github.com/gin-gonic/gin"
)

type aboutPage struct {
	IntroKo  []string
	IntroEn  []string
	Services []string
	Members  []member
	Nav      views.Nav
}

type contactPage struct {
	Contacts []contact
	Nav      views.Nav
}

// GET /about
func About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", aboutPage{
		IntroKo:  introKo,
		IntroEn:  introEn,
		Services: services,
		Members:  members,
		Nav:      views.Nav{Path: "/about"},
	})
}

// GET /contact
func Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", contactPage{
		Contacts: contacts,
		Nav:      views.Nav{Path: "/contact"},
	})
}

// GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
