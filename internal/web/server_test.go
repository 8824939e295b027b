package web

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"diet-photo-diary/internal/demo"
	"diet-photo-diary/internal/notify"
	"diet-photo-diary/internal/session"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer wires the demo provider behind the router, exactly like
// serve --demo does.
func newTestServer() *Server {
	provider := demo.NewProvider()
	sessions := session.NewStore(provider)
	return NewServer(sessions, provider, notify.Nop{})
}

func doForm(t *testing.T, s *Server, cookie, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func doGet(t *testing.T, s *Server, cookie, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

// loginAs runs the login form and returns the session cookie value.
func loginAs(t *testing.T, s *Server, code, pin string) string {
	t.Helper()
	w := doForm(t, s, "", "/login", url.Values{"code": {code}, "pin": {pin}})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected login redirect, got status %d", w.Code)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c.Value
		}
	}
	t.Fatal("Expected a session cookie after login")
	return ""
}

func parseHTML(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("Failed to parse response HTML: %v", err)
	}
	return doc
}

func TestSessionGate(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/", "/report", "/upload"} {
		var w *httptest.ResponseRecorder
		if path == "/upload" {
			w = doForm(t, s, "", path, url.Values{})
		} else {
			w = doGet(t, s, "", path)
		}
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
			t.Errorf("Expected %s to redirect to /login while logged out, got status %d location '%s'",
				path, w.Code, w.Header().Get("Location"))
		}
	}
}

func TestLoginFlow(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := newTestServer()
		cookie := loginAs(t, s, "A", "1234")

		w := doGet(t, s, cookie, "/")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200 on the diary page, got %d", w.Code)
		}
		doc := parseHTML(t, w)
		if !strings.Contains(doc.Find(".topbar").Text(), "Ben") {
			t.Error("Expected the logged-in user name in the top bar")
		}
	})

	t.Run("WrongPIN", func(t *testing.T) {
		s := newTestServer()
		w := doForm(t, s, "", "/login", url.Values{"code": {"A"}, "pin": {"0000"}})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401, got %d", w.Code)
		}
		doc := parseHTML(t, w)
		if doc.Find(".error").Length() == 0 {
			t.Error("Expected an error message on the login page")
		}
	})

	t.Run("MissingPIN", func(t *testing.T) {
		s := newTestServer()
		w := doForm(t, s, "", "/login", url.Values{"code": {"A"}})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("Logout", func(t *testing.T) {
		s := newTestServer()
		cookie := loginAs(t, s, "A", "1234")

		w := doForm(t, s, cookie, "/logout", url.Values{})
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
			t.Fatalf("Expected a redirect to /login, got %d '%s'", w.Code, w.Header().Get("Location"))
		}

		w = doGet(t, s, cookie, "/")
		if w.Code != http.StatusSeeOther {
			t.Error("Expected the old cookie to be rejected after logout")
		}
	})
}

func TestDiaryView(t *testing.T) {
	s := newTestServer()
	cookie := loginAs(t, s, "A", "1234")

	t.Run("NotYetQueried", func(t *testing.T) {
		doc := parseHTML(t, doGet(t, s, cookie, "/"))
		if doc.Find(".date-header").Length() != 0 {
			t.Error("Expected no day groups before the filter is submitted")
		}
		if strings.Contains(doc.Text(), "No records") {
			t.Error("Expected no 'no records' message before the filter is submitted")
		}
	})

	t.Run("GroupedDescending", func(t *testing.T) {
		doc := parseHTML(t, doGet(t, s, cookie, "/?start=2024-01-01&end=2030-01-01&user=all"))

		headers := doc.Find(".date-header")
		if headers.Length() != 3 {
			t.Fatalf("Expected 3 day groups from the seed data, got %d", headers.Length())
		}

		var days []time.Time
		headers.Each(func(i int, sel *goquery.Selection) {
			day, err := time.Parse("02.01.2006", strings.TrimSpace(sel.Text()))
			if err != nil {
				t.Fatalf("Unexpected date header '%s': %v", sel.Text(), err)
			}
			days = append(days, day)
		})
		for i := 1; i < len(days); i++ {
			if !days[i].Before(days[i-1]) {
				t.Errorf("Expected day groups in descending order, got %v", days)
			}
		}

		if cards := doc.Find(".card"); cards.Length() != 7 {
			t.Errorf("Expected 7 seed meal cards, got %d", cards.Length())
		}
	})

	t.Run("UserFilter", func(t *testing.T) {
		doc := parseHTML(t, doGet(t, s, cookie, "/?start=2024-01-01&end=2030-01-01&user=B"))
		doc.Find(".meal-meta").Each(func(i int, sel *goquery.Selection) {
			if !strings.Contains(sel.Text(), "Esim") {
				t.Errorf("Expected only user B cards, got meta '%s'", strings.TrimSpace(sel.Text()))
			}
		})
	})
}

func uploadRequest(t *testing.T, cookie string, fields map[string]string, withPhoto bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		w.WriteField(name, value)
	}
	if withPhoto {
		part, err := w.CreateFormFile("photo", "meal.jpg")
		if err != nil {
			t.Fatalf("Failed to create photo part: %v", err)
		}
		part.Write([]byte("jpeg-bytes"))
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie})
	return req
}

func TestUpload(t *testing.T) {
	fields := map[string]string{
		"mealType": "snack",
		"note":     "apple",
		"date":     "2024-05-01",
		"time":     "15:30",
	}

	t.Run("Success", func(t *testing.T) {
		s := newTestServer()
		cookie := loginAs(t, s, "A", "1234")

		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, uploadRequest(t, cookie, fields, true))
		if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/?uploaded=1" {
			t.Fatalf("Expected a redirect to /?uploaded=1, got %d '%s'", w.Code, w.Header().Get("Location"))
		}

		doc := parseHTML(t, doGet(t, s, cookie, "/?start=2024-05-01&end=2024-05-01&user=A"))
		found := false
		doc.Find(".card").Each(func(i int, sel *goquery.Selection) {
			if strings.Contains(sel.Text(), "apple") {
				found = true
			}
		})
		if !found {
			t.Error("Expected the uploaded meal to show up in the diary view")
		}
	})

	t.Run("MissingPhoto", func(t *testing.T) {
		s := newTestServer()
		cookie := loginAs(t, s, "A", "1234")

		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, uploadRequest(t, cookie, fields, false))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("Expected a redirect, got %d", w.Code)
		}
		loc := w.Header().Get("Location")
		if !strings.Contains(loc, "error=") || !strings.Contains(loc, "photo") {
			t.Errorf("Expected a photo validation error in the redirect, got '%s'", loc)
		}
	})

	t.Run("UnknownMealType", func(t *testing.T) {
		s := newTestServer()
		cookie := loginAs(t, s, "A", "1234")

		bad := map[string]string{"mealType": "brunch", "date": "2024-05-01", "time": "11:00"}
		w := httptest.NewRecorder()
		s.Router().ServeHTTP(w, uploadRequest(t, cookie, bad, true))
		if loc := w.Header().Get("Location"); !strings.Contains(loc, "error=") {
			t.Errorf("Expected a meal type error in the redirect, got '%s'", loc)
		}
	})
}

func TestReportDownload(t *testing.T) {
	s := newTestServer()
	cookie := loginAs(t, s, "A", "1234")

	w := doGet(t, s, cookie, "/report?start=2024-05-01&end=2024-05-08&user=all")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	disposition := w.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, `attachment`) ||
		!strings.Contains(disposition, "diet-report-2024-05-01-2024-05-08.txt") {
		t.Errorf("Unexpected Content-Disposition '%s'", disposition)
	}
	if !strings.Contains(w.Body.String(), "Demo report") {
		t.Error("Expected the demo placeholder payload")
	}
}
