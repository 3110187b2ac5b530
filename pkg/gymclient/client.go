// Package gymclient is a typed HTTP client for the gym API. The login state
// lives in an explicit Session owned by the caller.
package gymclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gymclient: %d %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu      sync.RWMutex
	session *Session
}

// New creates a client for baseURL. session may be nil until Login is called.
func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		session:    session,
	}
}

// WithHTTPClient replaces the underlying http.Client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Session returns the current session, or nil when logged out.
func (c *Client) Session() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// --- Auth ---

// Register creates a member account. The server signs new accounts in, so
// the returned session is stored on the client like Login's.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", false, body, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// Login authenticates and stores the resulting session on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, body, &s); err != nil {
		return nil, err
	}
	c.setSession(&s)
	return &s, nil
}

// Logout revokes the token server-side and drops the session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/auth/logout", true, nil, nil); err != nil {
		return err
	}
	c.setSession(nil)
	return nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/user/profile", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Members ---

func (c *Client) Members(ctx context.Context) ([]Member, error) {
	var members []Member
	err := c.do(ctx, http.MethodGet, "/api/members", true, nil, &members)
	return members, err
}

func (c *Client) Member(ctx context.Context, id string) (*Member, error) {
	var m Member
	if err := c.do(ctx, http.MethodGet, "/api/members/"+url.PathEscape(id), true, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) MyMember(ctx context.Context) (*Member, error) {
	var m Member
	if err := c.do(ctx, http.MethodGet, "/api/members/me", true, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) AssignTrainer(ctx context.Context, memberID, trainerID string) (*Member, error) {
	var res struct {
		Member *Member `json:"member"`
	}
	body := map[string]string{"trainerId": trainerID}
	if err := c.do(ctx, http.MethodPost, "/api/members/"+url.PathEscape(memberID)+"/assign-trainer", true, body, &res); err != nil {
		return nil, err
	}
	return res.Member, nil
}

func (c *Client) BulkAssignTrainer(ctx context.Context, memberIDs []string, trainerID string) (*BulkResult, error) {
	var res BulkResult
	body := map[string]any{"memberIds": memberIDs, "trainerId": trainerID}
	if err := c.do(ctx, http.MethodPost, "/api/assignments/trainer", true, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// --- Trainers ---

func (c *Client) Trainers(ctx context.Context) ([]Trainer, error) {
	var trainers []Trainer
	err := c.do(ctx, http.MethodGet, "/api/trainers", true, nil, &trainers)
	return trainers, err
}

func (c *Client) MyTrainer(ctx context.Context) (*Trainer, error) {
	var t Trainer
	if err := c.do(ctx, http.MethodGet, "/api/trainers/me", true, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// SetAvailability replaces the caller's availability.
func (c *Client) SetAvailability(ctx context.Context, entries []AvailabilityEntry) (*Trainer, error) {
	var res struct {
		Trainer *Trainer `json:"trainer"`
	}
	body := map[string]any{"availability": entries}
	if err := c.do(ctx, http.MethodPut, "/api/trainers/availability", true, body, &res); err != nil {
		return nil, err
	}
	return res.Trainer, nil
}

// --- Plans ---

func (c *Client) WorkoutPlans(ctx context.Context) ([]WorkoutPlan, error) {
	var plans []WorkoutPlan
	err := c.do(ctx, http.MethodGet, "/api/workout-plans", true, nil, &plans)
	return plans, err
}

// MyWorkoutPlan returns the caller's plan, or nil when none is assigned.
func (c *Client) MyWorkoutPlan(ctx context.Context) (*WorkoutPlan, error) {
	var p WorkoutPlan
	if err := c.do(ctx, http.MethodGet, "/api/workout-plans/me", true, nil, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, nil
	}
	return &p, nil
}

// --- Schedules & attendance ---

func (c *Client) CreateSchedule(ctx context.Context, in NewSchedule) (*Schedule, error) {
	var res struct {
		Schedule *Schedule `json:"schedule"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/schedules", true, in, &res); err != nil {
		return nil, err
	}
	return res.Schedule, nil
}

func (c *Client) MySchedules(ctx context.Context) ([]Schedule, error) {
	var schedules []Schedule
	err := c.do(ctx, http.MethodGet, "/api/schedules/me", true, nil, &schedules)
	return schedules, err
}

func (c *Client) MarkAttendance(ctx context.Context, scheduleID string, attended bool) (*Attendance, error) {
	var res struct {
		Attendance *Attendance `json:"attendance"`
	}
	body := map[string]any{"scheduleId": scheduleID, "attended": attended}
	if err := c.do(ctx, http.MethodPost, "/api/attendance", true, body, &res); err != nil {
		return nil, err
	}
	return res.Attendance, nil
}

// --- BMI ---

// CalculateBMI stores BMI on the caller's own member record.
func (c *Client) CalculateBMI(ctx context.Context, heightCm, weightKg float64) (*BMI, error) {
	var b BMI
	body := map[string]float64{"height": heightCm, "weight": weightKg}
	if err := c.do(ctx, http.MethodPost, "/api/BMI/calculate", true, body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) BMI(ctx context.Context, memberID string) (*BMI, error) {
	var b BMI
	if err := c.do(ctx, http.MethodGet, "/api/BMI/"+url.PathEscape(memberID), true, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// do sends one request. Authenticated calls fail locally with ErrNoSession
// when no valid session is held.
func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	var token string
	if auth {
		s := c.Session()
		if !s.Valid(time.Now()) {
			return ErrNoSession
		}
		token = s.Token
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
