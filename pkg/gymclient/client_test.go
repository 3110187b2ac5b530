package gymclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var authHeaders []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Session{
			Token:     "tok-123",
			ExpiresAt: time.Now().Add(time.Hour),
			User:      User{ID: "u1", Email: body["email"], Role: "member"},
		})
	})
	mux.HandleFunc("/api/user/profile", func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(User{ID: "u1", Name: "Ann", Role: "member"})
	})
	mux.HandleFunc("/api/BMI/calculate", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]float64
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(BMI{Height: body["height"], Weight: body["weight"], BMI: 22.86, Category: "Normal"})
	})
	mux.HandleFunc("/api/members", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Access denied"}`))
	})
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Registered","token":"tok-new","user":{"id":"u2","email":"bo@example.com","role":"member"}}`))
	})
	mux.HandleFunc("/api/members/m1/assign-trainer", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Trainer assigned","member":{"id":"m1","trainerId":"t1"}}`))
	})
	mux.HandleFunc("/api/workout-plans/me", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Logged out"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &authHeaders
}

func TestClient_ProtectedCallWithoutSession(t *testing.T) {
	c := New("http://127.0.0.1:1", nil)

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClient_LoginStoresSessionAndSendsBearer(t *testing.T) {
	srv, headers := newTestAPI(t)
	c := New(srv.URL+"/", nil)

	s, err := c.Login(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", s.Token)
	assert.Same(t, s, c.Session())

	user, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.Equal(t, []string{"Bearer tok-123"}, *headers)

	bmi, err := c.CalculateBMI(context.Background(), 175, 70)
	require.NoError(t, err)
	assert.Equal(t, 22.86, bmi.BMI)
	assert.Equal(t, "Normal", bmi.Category)
}

func TestClient_BadLogin(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := New(srv.URL, nil)

	_, err := c.Login(context.Background(), "ann@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "Invalid credentials")
	assert.Nil(t, c.Session())
}

func TestClient_APIErrorMessage(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := New(srv.URL, &Session{Token: "tok-123"})

	_, err := c.Members(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "Access denied", apiErr.Message)
}

func TestClient_LogoutDropsSession(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := New(srv.URL, &Session{Token: "tok-123"})

	require.NoError(t, c.Logout(context.Background()))
	assert.Nil(t, c.Session())

	_, err := c.Profile(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClient_ExpiredSessionFailsLocally(t *testing.T) {
	c := New("http://127.0.0.1:1", &Session{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)})

	_, err := c.MyMember(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSession_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	in := &Session{
		Token:     "tok-123",
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
		User:      User{ID: "u1", Role: "trainer"},
	}

	require.NoError(t, SaveSession(path, in))
	out, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, in.Token, out.Token)
	assert.Equal(t, "trainer", out.User.Role)
	assert.True(t, in.ExpiresAt.Equal(out.ExpiresAt))

	require.NoError(t, ClearSession(path))
	_, err = LoadSession(path)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.NoError(t, ClearSession(path))
}

func TestSession_LoadExpired(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, SaveSession(path, &Session{Token: "t", ExpiresAt: time.Now().Add(-time.Hour)}))

	_, err := LoadSession(path)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestClient_RegisterSignsIn(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := New(srv.URL, nil)

	s, err := c.Register(context.Background(), "Bo", "bo@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "tok-new", s.Token)
	assert.Equal(t, "u2", s.User.ID)
	assert.Same(t, s, c.Session())
}

func TestClient_UnwrapsMutationEnvelope(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := New(srv.URL, &Session{Token: "tok-123"})

	m, err := c.AssignTrainer(context.Background(), "m1", "t1")
	require.NoError(t, err)
	assert.Equal(t, "m1", m.ID)
	require.NotNil(t, m.TrainerID)
	assert.Equal(t, "t1", *m.TrainerID)
}

func TestClient_NoWorkoutPlan(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := New(srv.URL, &Session{Token: "tok-123"})

	plan, err := c.MyWorkoutPlan(context.Background())
	require.NoError(t, err)
	assert.Nil(t, plan)
}
