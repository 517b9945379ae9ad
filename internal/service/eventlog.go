package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"library_api/internal/logger"
	"library_api/internal/models"
	"library_api/internal/repository"
)

type EventLogService struct {
	eventRepo repository.EventRepo
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo}
}

var errInvalidTimeRange = errors.New("from must be <= to")

var knownEventTypes = map[string]struct{}{
	models.EventUserAdded:    {},
	models.EventLogin:        {},
	models.EventLoginFailed:  {},
	models.EventAuthorAdded:  {},
	models.EventBookAdded:    {},
	models.EventAuthorEdited: {},
}

func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter is the only place log filters are cleaned
// up; bad input comes back as *ValidationError.
func normalizeAndValidateFilter(f LogFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", &ValidationError{
			Field: "from", Value: from, Reason: errInvalidTimeRange.Error(), Err: errInvalidTimeRange,
		}
	}
	typ := normalizeEventType(f.Type)
	if typ != "" {
		if _, ok := knownEventTypes[typ]; !ok {
			return time.Time{}, time.Time{}, "", &ValidationError{Field: "type", Value: f.Type, Reason: "unknown event type"}
		}
	}
	return from, to, typ, nil
}

func (s *EventLogService) List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, from, to, typ)
}

// activityRecorder appends activity events on behalf of the mutating
// services. Appends are best effort: a failure is logged and the
// operation that triggered it still succeeds.
type activityRecorder struct {
	repo repository.EventRepo
	log  *logger.Logger
	now  func() time.Time
}

func newActivityRecorder(repo repository.EventRepo, log *logger.Logger) *activityRecorder {
	return &activityRecorder{repo: repo, log: log, now: time.Now}
}

func (r *activityRecorder) record(ctx context.Context, typ, description string, meta map[string]any) {
	if r == nil || r.repo == nil {
		return
	}
	err := r.repo.Append(ctx, models.ActivityEvent{
		OccurredAt:  r.now().UTC(),
		Type:        typ,
		Description: description,
		Metadata:    meta,
	})
	if err != nil {
		r.log.Errorw("activity_append_failed", "type", typ, "err", err)
	}
}
