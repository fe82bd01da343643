package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/querystate"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/doctorapi"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	"github.com/zatekoja/doctordirectory/internal/query/pipeline"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// DirectoryStatus is the lifecycle of the doctor listing.
type DirectoryStatus string

const (
	StatusLoading DirectoryStatus = "loading"
	StatusReady   DirectoryStatus = "ready"
	StatusFailed  DirectoryStatus = "failed"
)

// DirectoryService owns the doctor listing: it fetches it exactly once and
// serves filtered views of it.
type DirectoryService struct {
	client  doctorapi.Client
	metrics *observability.Metrics

	once    sync.Once
	done    chan struct{}
	mu      sync.RWMutex
	status  DirectoryStatus
	doctors []entities.Doctor
	err     error
}

// NewDirectoryService creates a service in the loading state.
func NewDirectoryService(client doctorapi.Client) *DirectoryService {
	return &DirectoryService{
		client: client,
		done:   make(chan struct{}),
		status: StatusLoading,
	}
}

// SetMetrics enables load metrics.
func (s *DirectoryService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Load fetches the listing. Only the first call performs the fetch; later
// calls wait for it and return its outcome.
func (s *DirectoryService) Load(ctx context.Context) error {
	s.once.Do(func() {
		defer close(s.done)
		s.fetch(ctx)
	})
	<-s.done

	_, err := s.Status()
	return err
}

// Done is closed once the fetch has finished, successfully or not.
func (s *DirectoryService) Done() <-chan struct{} {
	return s.done
}

// Status reports the lifecycle state and, when failed, the fetch error.
func (s *DirectoryService) Status() (DirectoryStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.err
}

// Doctors returns the full listing; it is empty until loaded.
func (s *DirectoryService) Doctors() []entities.Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doctors
}

// Count returns the number of doctors in the listing.
func (s *DirectoryService) Count() int {
	return len(s.Doctors())
}

// Search applies the filter/sort pipeline for state. While the listing is
// loading or after the fetch failed it returns an empty list together with
// an UNAVAILABLE or EXTERNAL error.
func (s *DirectoryService) Search(ctx context.Context, state querystate.State) ([]entities.Doctor, error) {
	doctors, err := s.ready()
	if err != nil {
		return []entities.Doctor{}, err
	}

	_, span := observability.StartSpan(ctx, "DirectoryService.Search")
	defer span.End()

	results := pipeline.Apply(doctors, state)
	observability.SetSpanAttributes(span,
		attribute.String("query", state.Encode()),
		attribute.Int("results", len(results)),
	)
	return results, nil
}

// Suggest returns up to limit name matches for input.
func (s *DirectoryService) Suggest(input string, limit int) ([]entities.Doctor, error) {
	doctors, err := s.ready()
	if err != nil {
		return nil, err
	}
	return pipeline.Suggest(doctors, input, limit), nil
}

// Specialties returns the sorted specialties of the listing narrowed by q.
func (s *DirectoryService) Specialties(q string) ([]string, error) {
	doctors, err := s.ready()
	if err != nil {
		return nil, err
	}
	return pipeline.FilterSpecialties(pipeline.Specialties(doctors), q), nil
}

// Get returns the doctor with the given ID.
func (s *DirectoryService) Get(id string) (*entities.Doctor, error) {
	doctors, err := s.ready()
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	for i := range doctors {
		if id != "" && doctors[i].ID == id {
			d := doctors[i]
			return &d, nil
		}
	}
	return nil, apperrors.NewNotFoundError("doctor not found")
}

func (s *DirectoryService) ready() ([]entities.Doctor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch s.status {
	case StatusReady:
		return s.doctors, nil
	case StatusFailed:
		return nil, s.err
	default:
		return nil, apperrors.NewUnavailableError("doctor directory is loading")
	}
}

func (s *DirectoryService) fetch(ctx context.Context) {
	ctx, span := observability.StartSpan(ctx, "DirectoryService.Load")
	defer span.End()
	logger := observability.LoggerFromContext(ctx)

	start := time.Now()
	doctors, err := s.client.ListDoctors(ctx)
	duration := time.Since(start)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		observability.RecordError(span, err)
		observability.RecordDirectoryLoad(ctx, s.metrics, string(StatusFailed), 0, duration)
		logger.Error().Err(err).Dur("duration", duration).Msg("Failed to load doctor directory")

		if apperrors.TypeOf(err) != apperrors.ErrorTypeExternal {
			err = apperrors.NewExternalError("failed to fetch doctor data", err)
		}
		s.status = StatusFailed
		s.err = err
		return
	}

	if doctors == nil {
		doctors = []entities.Doctor{}
	}
	observability.SetSpanAttributes(span, attribute.Int("directory.doctors", len(doctors)))
	observability.RecordDirectoryLoad(ctx, s.metrics, string(StatusReady), len(doctors), duration)
	logger.Info().Int("doctors", len(doctors)).Dur("duration", duration).Msg("Doctor directory loaded")

	s.status = StatusReady
	s.doctors = doctors
}
