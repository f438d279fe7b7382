package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthbook/web/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func TestIdentityLogin(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/user/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "pat@x.com", body["email"])
		require.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]any{"userId": 7, "role": "USER"})
	}))

	result, err := client.Identity.Login(context.Background(), "pat@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), result.UserID)
	assert.Equal(t, "USER", result.Role)
}

func TestErrorPayloadPassesThroughUninterpreted(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))

	_, err := client.Identity.Login(context.Background(), "pat@x.com", "wrong")
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.JSONEq(t, `{"message":"Invalid email or password"}`, string(apiErr.Body))
}

func TestRegisterConflict(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/user/register", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
	}))

	err := client.Identity.Register(context.Background(), RegisterInput{
		Name: "Jo", Email: "jo@x.com", Password: "pw", Role: "DOCTOR",
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.False(t, IsValidation(err))

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Empty(t, apiErr.Message)
}

func TestDoctorList(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/doctor", r.URL.Path)
		w.Write([]byte(`[{"id":1,"name":"Dr. A","specialization":"Cardiology","email":"a@x.com"},
			{"id":2,"name":"Dr. B","specialization":"Dermatology","email":"b@x.com","phone":"123"}]`))
	}))

	doctors, err := client.Doctors.List(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 2)
	assert.Equal(t, "Cardiology", doctors[0].Specialization)
	assert.Equal(t, "123", doctors[1].Phone)
}

func TestBookAppointmentRequestShape(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/appointment/book", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["userId"])
		assert.Equal(t, float64(3), body["doctorId"])
		assert.Equal(t, "2026-09-15", body["date"])
		assert.Equal(t, "10:30", body["time"])

		json.NewEncoder(w).Encode(map[string]any{"id": 42, "status": "PENDING"})
	}))

	appointment, err := client.Appointments.Book(context.Background(), BookInput{
		UserID: 7, DoctorID: 3, Date: "2026-09-15", Time: "10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), appointment.ID)
}

func TestAppointmentModerationPaths(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
	}))

	ctx := context.Background()

	require.NoError(t, client.Appointments.Approve(ctx, 5))
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/appointment/approve/5", gotPath)

	require.NoError(t, client.Appointments.Reject(ctx, 6))
	assert.Equal(t, "/appointment/reject/6", gotPath)

	require.NoError(t, client.Appointments.Delete(ctx, 7))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/appointment/7", gotPath)
}

func TestNetworkErrorIsNotAPIError(t *testing.T) {
	client := New(config.BackendConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})

	_, err := client.Doctors.List(context.Background())
	require.Error(t, err)

	_, ok := AsAPIError(err)
	assert.False(t, ok)
	assert.Equal(t, 0, StatusOf(err))
}
