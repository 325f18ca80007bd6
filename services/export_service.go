package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-system/storage"
	"github.com/google/uuid"
)

type ExportResult struct {
	LeagueEventID int       `json:"league_event_id"`
	Key           string    `json:"key"`
	URL           string    `json:"url"`
	ExportedAt    time.Time `json:"exported_at"`
}

// standingsSnapshot is the document written to the bucket.
type standingsSnapshot struct {
	ExportedAt time.Time  `json:"exported_at"`
	View       *EventView `json:"league_event"`
}

// StandingsExporter publishes an immutable JSON snapshot of an event view.
type StandingsExporter interface {
	ExportEventStandings(ctx context.Context, eventID int) (*ExportResult, error)
}

type standingsExporter struct {
	events   LeagueEventService
	uploader storage.FileUploader
	logger   *slog.Logger
	now      func() time.Time
}

// NewStandingsExporter returns an exporter; with a nil uploader every
// export fails with ErrExportDisabled.
func NewStandingsExporter(events LeagueEventService, uploader storage.FileUploader, logger *slog.Logger) StandingsExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &standingsExporter{events: events, uploader: uploader, logger: logger, now: time.Now}
}

func exportObjectKey(eventID int) string {
	return fmt.Sprintf("league-events/%d/standings-%s.json", eventID, uuid.NewString())
}

func (e *standingsExporter) ExportEventStandings(ctx context.Context, eventID int) (*ExportResult, error) {
	if e.uploader == nil {
		return nil, ErrExportDisabled
	}
	view, err := e.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	exportedAt := e.now().UTC()
	body, err := json.Marshal(standingsSnapshot{ExportedAt: exportedAt, View: view})
	if err != nil {
		return nil, fmt.Errorf("failed to encode standings snapshot: %w", err)
	}

	key := exportObjectKey(eventID)
	uploaded, err := e.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		e.logger.ErrorContext(ctx, "standings export upload failed", slog.Int("event_id", eventID), slog.String("key", key), slog.Any("error", err))
		return nil, fmt.Errorf("failed to upload standings snapshot: %w", err)
	}

	url := e.uploader.GetPublicURL(key)
	if url == "" && uploaded != nil {
		url = uploaded.Location
	}
	e.logger.InfoContext(ctx, "standings exported", slog.Int("event_id", eventID), slog.String("key", key))
	return &ExportResult{LeagueEventID: eventID, Key: key, URL: url, ExportedAt: exportedAt}, nil
}
