package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"healthbook/web/internal/gateway"
	"healthbook/web/internal/models"
)

const directoryKey = "directory:doctors"

// Directory is a read-through cache over the backend's full doctor list.
// Views filter over the whole list in memory, so the list is fetched often;
// the cache bounds how often the backend sees that. Any cache failure
// degrades to a direct fetch.
type Directory struct {
	cache   *redis.Client
	backend *gateway.Client
	ttl     time.Duration
	log     zerolog.Logger
}

func NewDirectory(cache *redis.Client, backend *gateway.Client, ttl time.Duration, log zerolog.Logger) *Directory {
	return &Directory{
		cache:   cache,
		backend: backend,
		ttl:     ttl,
		log:     log,
	}
}

func (d *Directory) Doctors(ctx context.Context) ([]models.Doctor, error) {
	raw, err := d.cache.Get(ctx, directoryKey).Result()
	if err == nil {
		var doctors []models.Doctor
		if json.Unmarshal([]byte(raw), &doctors) == nil {
			return doctors, nil
		}
		d.log.Warn().Msg("discarding corrupt directory cache entry")
	} else if !errors.Is(err, redis.Nil) {
		d.log.Warn().Err(err).Msg("directory cache read failed")
	}

	return d.Refresh(ctx)
}

func (d *Directory) Refresh(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := d.backend.Doctors.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(doctors)
	if err == nil {
		if err := d.cache.Set(ctx, directoryKey, payload, d.ttl).Err(); err != nil {
			d.log.Warn().Err(err).Msg("directory cache write failed")
		}
	}
	return doctors, nil
}

func (d *Directory) Invalidate(ctx context.Context) {
	if err := d.cache.Del(ctx, directoryKey).Err(); err != nil {
		d.log.Warn().Err(err).Msg("directory cache invalidate failed")
	}
}

// FindByEmail resolves a doctor's directory record from their account email.
// The email is the only correlation key the backend offers between a doctor
// login and a doctor profile.
func (d *Directory) FindByEmail(ctx context.Context, email string) (models.Doctor, bool, error) {
	doctors, err := d.Doctors(ctx)
	if err != nil {
		return models.Doctor{}, false, err
	}
	for _, doctor := range doctors {
		if strings.EqualFold(doctor.Email, email) {
			return doctor, true, nil
		}
	}
	return models.Doctor{}, false, nil
}
