// Package demo serves the dashboard from in-memory fixtures so it can be
// tried without the backend. It implements the same ports as the live client
// and never performs network I/O.
package demo

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"diet-photo-diary/internal/diary"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Demo credential table. PINs are fixed and documented; this mode holds no
// real data.
var pins = map[string]string{
	"A": "1234",
	"B": "5678",
}

var users = map[string]diary.User{
	"A": {Code: "A", Name: "Ben"},
	"B": {Code: "B", Name: "Esim"},
}

// Provider keeps a seed set of meals plus everything uploaded during the
// current process lifetime. Nothing survives a restart.
type Provider struct {
	mu     sync.RWMutex
	meals  []diary.Meal
	nextID int
	secret []byte
}

// NewProvider creates a demo provider seeded with a few meals for both users
// over the past days.
func NewProvider() *Provider {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic(fmt.Sprintf("demo: failed to generate token secret: %v", err))
	}

	p := &Provider{secret: secret}
	p.meals = seedMeals()
	p.nextID = len(p.meals) + 1
	return p
}

func placeholderImage(mealType diary.MealType) string {
	return fmt.Sprintf("https://via.placeholder.com/400x300.png?text=%s", mealType.Label())
}

func seedMeals() []diary.Meal {
	now := time.Now().UTC()
	day := func(daysAgo int, hour, min int) string {
		t := now.AddDate(0, 0, -daysAgo)
		return time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, time.UTC).Format(time.RFC3339)
	}

	seeds := []struct {
		user     string
		mealType diary.MealType
		note     string
		takenAt  string
	}{
		{"A", diary.Breakfast, "Oatmeal with berries", day(2, 6, 45)},
		{"A", diary.Lunch, "Grilled chicken salad", day(2, 11, 30)},
		{"A", diary.Dinner, "Vegetable soup", day(2, 17, 15)},
		{"B", diary.Breakfast, "Yogurt and granola", day(1, 7, 0)},
		{"B", diary.Snack, "Apple", day(1, 13, 20)},
		{"A", diary.Dinner, "Baked salmon with rice", day(1, 18, 0)},
		{"B", diary.Breakfast, "Scrambled eggs", day(0, 6, 30)},
	}

	meals := make([]diary.Meal, 0, len(seeds))
	for i, s := range seeds {
		meals = append(meals, diary.Meal{
			ID:       fmt.Sprintf("demo-%d", i+1),
			MealType: string(s.mealType),
			Note:     s.note,
			TakenAt:  s.takenAt,
			ImageURL: placeholderImage(s.mealType),
			User:     users[s.user],
		})
	}
	return meals
}

// Login validates the code + PIN pair against the fixed table and mints a
// signed demo token so the session looks the same as in live mode.
func (p *Provider) Login(ctx context.Context, code, pin string) (*diary.Credentials, error) {
	user, ok := users[code]
	if !ok || pins[code] != pin {
		return nil, &diary.AuthError{Message: "invalid code or PIN"}
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": code,
		"iat": now.Unix(),
		"exp": now.Add(12 * time.Hour).Unix(),
		"jti": uuid.NewString(),
	})
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign demo token: %w", err)
	}

	return &diary.Credentials{Token: signed, User: user}, nil
}

// userFromToken recovers the user identity encoded in a demo token.
func (p *Provider) userFromToken(token string) (diary.User, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return diary.User{}, &diary.AuthError{Message: "invalid token"}
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return diary.User{}, &diary.AuthError{Message: "invalid token"}
	}
	user, ok := users[sub]
	if !ok {
		return diary.User{}, &diary.AuthError{Message: "unknown user"}
	}
	return user, nil
}

// FetchMeals returns seed plus accumulated meals matching the filter's user
// selector. The date range is accepted but not applied in demo mode; only
// the user filter is honored.
func (p *Provider) FetchMeals(ctx context.Context, token string, f diary.Filter) ([]diary.Meal, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	matches := make([]diary.Meal, 0, len(p.meals))
	for _, m := range p.meals {
		if f.UserID != diary.UserAll && m.User.Code != f.UserID {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// UploadMeal appends a new meal with a sequential id to the accumulator. The
// photo bytes are dropped; only a synthetic image reference is kept.
func (p *Provider) UploadMeal(ctx context.Context, token string, e diary.Entry, photo diary.Photo) (*diary.Meal, error) {
	if len(photo.Data) == 0 {
		return nil, &diary.ValidationError{Message: "a photo is required"}
	}

	user, err := p.userFromToken(token)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	meal := diary.Meal{
		ID:       fmt.Sprintf("demo-%d", p.nextID),
		MealType: string(e.MealType),
		Note:     e.Note,
		TakenAt:  e.TakenAt,
		ImageURL: placeholderImage(e.MealType),
		User:     user,
	}
	p.nextID++
	p.meals = append(p.meals, meal)

	return &meal, nil
}

// FetchReport returns a plain-text placeholder instead of a real PDF.
func (p *Provider) FetchReport(ctx context.Context, token string, f diary.Filter) (*diary.Report, error) {
	meals, _ := p.FetchMeals(ctx, token, f)

	body := fmt.Sprintf(
		"Demo report (no PDF rendering in demo mode)\nRange: %s to %s\nUser: %s\nMeals recorded: %d\n",
		f.StartDate, f.EndDate, f.UserID, len(meals),
	)

	return &diary.Report{
		Filename:    fmt.Sprintf("diet-report-%s-%s.txt", f.StartDate, f.EndDate),
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(body),
	}, nil
}
