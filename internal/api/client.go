// Package api implements the live HTTP client against the diary backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"diet-photo-diary/internal/config"
	"diet-photo-diary/internal/diary"
)

// Client talks to the backend over its JSON/multipart HTTP contract. It
// implements diary.Provider and diary.Authenticator.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend API client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// errorMessage extracts the server-supplied {"error": ...} message from a
// non-success response body.
func errorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil || payload.Error == "" {
		return "unknown error"
	}
	return payload.Error
}

// Login submits a code + PIN pair and returns the issued token and user.
func (c *Client) Login(ctx context.Context, code, pin string) (*diary.Credentials, error) {
	body, err := json.Marshal(map[string]string{"code": code, "pin": pin})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &diary.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &diary.AuthError{Message: errorMessage(resp.Body)}
	}

	var creds diary.Credentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}
	return &creds, nil
}

// FetchMeals queries meals for the filter's date range and user selector.
func (c *Client) FetchMeals(ctx context.Context, token string, f diary.Filter) ([]diary.Meal, error) {
	params := url.Values{}
	params.Set("startDate", f.StartDate)
	params.Set("endDate", f.EndDate)
	params.Set("userId", f.UserID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/meals?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &diary.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &diary.FetchError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	var meals []diary.Meal
	if err := json.NewDecoder(resp.Body).Decode(&meals); err != nil {
		return nil, fmt.Errorf("failed to decode meals: %w", err)
	}
	return meals, nil
}

// UploadMeal submits a photo plus entry metadata as a multipart request.
// A missing photo fails before any network call.
func (c *Client) UploadMeal(ctx context.Context, token string, e diary.Entry, photo diary.Photo) (*diary.Meal, error) {
	if len(photo.Data) == 0 {
		return nil, &diary.ValidationError{Message: "a photo is required"}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("image", photo.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(photo.Data); err != nil {
		return nil, fmt.Errorf("failed to write photo: %w", err)
	}

	fields := map[string]string{
		"mealType": string(e.MealType),
		"note":     e.Note,
		"takenAt":  e.TakenAt,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &diary.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, &diary.UploadError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	var meal diary.Meal
	if err := json.NewDecoder(resp.Body).Decode(&meal); err != nil {
		return nil, fmt.Errorf("failed to decode created meal: %w", err)
	}
	return &meal, nil
}

// FetchReport requests a PDF report covering the filter and returns the full
// payload named diet-report-<start>-<end>.pdf.
func (c *Client) FetchReport(ctx context.Context, token string, f diary.Filter) (*diary.Report, error) {
	params := url.Values{}
	params.Set("startDate", f.StartDate)
	params.Set("endDate", f.EndDate)
	params.Set("userId", f.UserID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/report/pdf?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &diary.ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &diary.ReportError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &diary.ConnectivityError{Err: err}
	}

	return &diary.Report{
		Filename:    fmt.Sprintf("diet-report-%s-%s.pdf", f.StartDate, f.EndDate),
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
