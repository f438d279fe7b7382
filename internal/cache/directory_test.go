package cache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthbook/web/internal/config"
	"healthbook/web/internal/gateway"
	"healthbook/web/internal/models"
)

type doctorBackend struct {
	doctors []models.Doctor
	status  int
	calls   int
}

func (b *doctorBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/doctor", func(w http.ResponseWriter, r *http.Request) {
		b.calls++
		if b.status != 0 {
			w.WriteHeader(b.status)
			return
		}
		json.NewEncoder(w).Encode(b.doctors)
	})
	return mux
}

func newTestDirectory(t *testing.T, backend *doctorBackend) (*Directory, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	gw := gateway.New(config.BackendConfig{BaseURL: srv.URL, Timeout: 2 * time.Second})
	return NewDirectory(client, gw, 5*time.Minute, zerolog.Nop()), mr
}

func TestDoctorsReadThrough(t *testing.T) {
	backend := &doctorBackend{doctors: []models.Doctor{
		{ID: 1, Name: "Dr. A", Specialization: "Cardiology", Email: "a@x.com"},
	}}
	directory, _ := newTestDirectory(t, backend)
	ctx := context.Background()

	first, err := directory.Doctors(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, backend.calls)

	// second read is served from the cache
	second, err := directory.Doctors(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.calls)
}

func TestDoctorsDiscardsCorruptEntry(t *testing.T) {
	backend := &doctorBackend{doctors: []models.Doctor{{ID: 1, Name: "Dr. A"}}}
	directory, mr := newTestDirectory(t, backend)

	require.NoError(t, mr.Set("directory:doctors", "{not json"))

	doctors, err := directory.Doctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, 1, backend.calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	backend := &doctorBackend{doctors: []models.Doctor{{ID: 1, Name: "Dr. A"}}}
	directory, _ := newTestDirectory(t, backend)
	ctx := context.Background()

	_, err := directory.Doctors(ctx)
	require.NoError(t, err)

	directory.Invalidate(ctx)

	_, err = directory.Doctors(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
}

func TestFindByEmail(t *testing.T) {
	backend := &doctorBackend{doctors: []models.Doctor{
		{ID: 1, Name: "Dr. A", Email: "a@x.com"},
		{ID: 2, Name: "Dr. B", Email: "b@x.com"},
	}}
	directory, _ := newTestDirectory(t, backend)
	ctx := context.Background()

	doctor, found, err := directory.FindByEmail(ctx, "B@X.COM")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(2), doctor.ID)

	_, found, err = directory.FindByEmail(ctx, "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDoctorsBackendFailure(t *testing.T) {
	backend := &doctorBackend{status: http.StatusInternalServerError}
	directory, _ := newTestDirectory(t, backend)

	_, err := directory.Doctors(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, gateway.StatusOf(err))
}
