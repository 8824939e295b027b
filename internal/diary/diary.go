// Package diary defines the diary domain model and the ports to the backend
// that owns it. The dashboard never stores meals itself; everything flows
// through a Provider implementation.
package diary

import "context"

// User identifies one of the diary participants.
type User struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// UserAll selects records from every participant when filtering.
const UserAll = "all"

// MealType is one of the four entry categories offered by the upload form.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// MealTypes lists the selectable types in menu order.
func MealTypes() []MealType {
	return []MealType{Breakfast, Lunch, Dinner, Snack}
}

// Valid reports whether m is one of the known meal types.
func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// Label returns the display name for a meal type.
func (m MealType) Label() string {
	switch m {
	case Breakfast:
		return "Breakfast"
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	case Snack:
		return "Snack"
	}
	return string(m)
}

// Meal is one logged food entry. Field tags follow the backend's JSON
// contract.
type Meal struct {
	ID       string `json:"id"`
	MealType string `json:"meal_type"`
	Note     string `json:"note"`
	TakenAt  string `json:"taken_at"`
	ImageURL string `json:"imageUrl"`
	User     User   `json:"User"`
}

// Filter narrows a meal query to a date range and a participant. Dates are
// YYYY-MM-DD; UserID is a user code or UserAll.
type Filter struct {
	StartDate string
	EndDate   string
	UserID    string
}

// Entry holds the metadata submitted alongside an uploaded photo.
type Entry struct {
	MealType MealType
	Note     string
	TakenAt  string
}

// Photo is the uploaded image payload.
type Photo struct {
	Filename string
	Data     []byte
}

// Report is a generated report handed to the browser for download.
type Report struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Credentials is the result of a successful login.
type Credentials struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Provider is the data backend behind the dashboard. The live API client and
// the demo fixture provider both implement it; one of the two is chosen at
// startup and injected everywhere.
type Provider interface {
	FetchMeals(ctx context.Context, token string, f Filter) ([]Meal, error)
	UploadMeal(ctx context.Context, token string, e Entry, photo Photo) (*Meal, error)
	FetchReport(ctx context.Context, token string, f Filter) (*Report, error)
}

// Authenticator verifies a user code + PIN pair and issues a token.
type Authenticator interface {
	Login(ctx context.Context, code, pin string) (*Credentials, error)
}
