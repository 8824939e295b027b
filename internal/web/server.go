// Package web is the HTTP layer of the dashboard: login, the day-grouped
// diary view, photo upload, and report download.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"diet-photo-diary/internal/diary"
	"diet-photo-diary/internal/notify"
	"diet-photo-diary/internal/session"
	"diet-photo-diary/internal/timefmt"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const sessionCookie = "diary_session"

// Server wires the session store, the data provider, and the notifier into
// the gin router.
type Server struct {
	router   *gin.Engine
	sessions *session.Store
	provider diary.Provider
	notifier notify.Notifier
}

// NewServer builds the router with all dashboard routes registered.
func NewServer(sessions *session.Store, provider diary.Provider, notifier notify.Notifier) *Server {
	s := &Server{
		sessions: sessions,
		provider: provider,
		notifier: notifier,
	}

	funcs := template.FuncMap{
		"mealTime": func(ts string) string {
			v, err := timefmt.FormatTime(ts)
			if err != nil {
				return ""
			}
			return v
		},
		"mealLabel": func(mt string) string {
			return diary.MealType(mt).Label()
		},
	}
	tmpl := template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl"))

	r := gin.Default()
	r.SetHTMLTemplate(tmpl)

	r.GET("/login", s.showLogin)
	r.POST("/login", s.handleLogin)

	authed := r.Group("/")
	authed.Use(s.requireSession)
	{
		authed.GET("/", s.showDiary)
		authed.POST("/upload", s.handleUpload)
		authed.GET("/report", s.handleReport)
		authed.POST("/logout", s.handleLogout)
	}

	s.router = r
	return s
}

// Router exposes the configured engine for serving and for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// requireSession redirects to the login page unless the request carries a
// cookie for an active session. Every data-fetching route sits behind it.
func (s *Server) requireSession(c *gin.Context) {
	id, err := c.Cookie(sessionCookie)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}

	sess, ok := s.sessions.Get(id)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}

	c.Set("session", sess)
	c.Next()
}

func currentSession(c *gin.Context) *session.Session {
	v, _ := c.Get("session")
	return v.(*session.Session)
}
