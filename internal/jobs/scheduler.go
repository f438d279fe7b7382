package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"healthbook/web/internal/cache"
)

type Scheduler struct {
	cron      *cron.Cron
	directory *cache.Directory
	schedule  string
	log       zerolog.Logger
}

func NewScheduler(directory *cache.Directory, schedule string, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:      c,
		directory: directory,
		schedule:  schedule,
		log:       log,
	}
}

func (s *Scheduler) Start() error {
	if s.directory == nil {
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.warmDirectory); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) warmDirectory() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	doctors, err := s.directory.Refresh(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("directory warm failed")
		return
	}
	s.log.Debug().Int("doctors", len(doctors)).Msg("directory cache warmed")
}
