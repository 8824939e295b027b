package web

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"diet-photo-diary/internal/diary"
	"diet-photo-diary/internal/timefmt"
	"diet-photo-diary/internal/view"

	"github.com/gin-gonic/gin"
)

type userOption struct {
	Value string
	Label string
}

var userOptions = []userOption{
	{diary.UserAll, "All"},
	{"A", "A (Ben)"},
	{"B", "B (Esim)"},
}

// filterFromQuery builds the meal filter from the request. Absent parameters
// fall back to the last seven days and all users; queried reports whether
// the user actually submitted the filter form.
func filterFromQuery(c *gin.Context) (diary.Filter, bool) {
	f := diary.Filter{
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
		UserID:    c.Query("user"),
	}
	queried := f.StartDate != "" || f.EndDate != "" || f.UserID != ""

	now := time.Now().In(timefmt.Location())
	if f.StartDate == "" {
		f.StartDate = now.AddDate(0, 0, -7).Format("2006-01-02")
	}
	if f.EndDate == "" {
		f.EndDate = now.Format("2006-01-02")
	}
	if f.UserID == "" {
		f.UserID = diary.UserAll
	}
	return f, queried
}

func redirectError(c *gin.Context, msg string) {
	c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(msg))
}

func (s *Server) showLogin(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil && s.sessions.LoggedIn(id) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{})
}

func (s *Server) handleLogin(c *gin.Context) {
	code := c.PostForm("code")
	pin := c.PostForm("pin")

	if pin == "" {
		c.HTML(http.StatusBadRequest, "login.tmpl", gin.H{"Error": "Please enter your PIN"})
		return
	}

	sess, err := s.sessions.Login(c.Request.Context(), code, pin)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.tmpl", gin.H{"Error": err.Error()})
		return
	}

	c.SetCookie(sessionCookie, sess.ID, 0, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleLogout(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil {
		s.sessions.Logout(id)
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (s *Server) showDiary(c *gin.Context) {
	sess := currentSession(c)
	f, queried := filterFromQuery(c)

	data := gin.H{
		"User":        sess.User,
		"Filter":      f,
		"UserOptions": userOptions,
		"MealTypes":   diary.MealTypes(),
		"Today":       time.Now().In(timefmt.Location()).Format("2006-01-02"),
		"Queried":     queried,
		"Error":       c.Query("error"),
	}
	if c.Query("uploaded") == "1" {
		data["Notice"] = "Meal uploaded."
	}

	if queried {
		meals, err := s.provider.FetchMeals(c.Request.Context(), sess.Token, f)
		if err != nil {
			data["Error"] = err.Error()
		} else {
			data["Timeline"] = view.GroupByDate(meals)
		}
	}

	c.HTML(http.StatusOK, "diary.tmpl", data)
}

// combineDateTime merges the separately chosen date and time-of-day into one
// timestamp in the reference timezone. An omitted time defaults to noon.
func combineDateTime(date, timeOfDay string) (string, error) {
	if timeOfDay == "" {
		timeOfDay = "12:00"
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeOfDay, timefmt.Location())
	if err != nil {
		return "", err
	}
	return t.Format(time.RFC3339), nil
}

func (s *Server) handleUpload(c *gin.Context) {
	sess := currentSession(c)

	mealType := diary.MealType(c.PostForm("mealType"))
	if !mealType.Valid() {
		redirectError(c, "unknown meal type")
		return
	}

	// Photo presence is checked before anything is submitted.
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		redirectError(c, "a photo is required")
		return
	}

	takenAt, err := combineDateTime(c.PostForm("date"), c.PostForm("time"))
	if err != nil {
		redirectError(c, "invalid date or time")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		redirectError(c, fmt.Sprintf("failed to read photo: %v", err))
		return
	}
	defer file.Close()

	photoData, err := io.ReadAll(file)
	if err != nil {
		redirectError(c, fmt.Sprintf("failed to read photo: %v", err))
		return
	}

	entry := diary.Entry{
		MealType: mealType,
		Note:     c.PostForm("note"),
		TakenAt:  takenAt,
	}
	photo := diary.Photo{Filename: fileHeader.Filename, Data: photoData}

	meal, err := s.provider.UploadMeal(c.Request.Context(), sess.Token, entry, photo)
	if err != nil {
		redirectError(c, err.Error())
		return
	}

	go s.notifier.MealLogged(*meal)

	// Redirecting resets the form for the next entry.
	c.Redirect(http.StatusSeeOther, "/?uploaded=1")
}

func (s *Server) handleReport(c *gin.Context) {
	sess := currentSession(c)
	f, _ := filterFromQuery(c)

	report, err := s.provider.FetchReport(c.Request.Context(), sess.Token, f)
	if err != nil {
		redirectError(c, err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	c.Data(http.StatusOK, report.ContentType, report.Data)
}
