package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// TailFilter narrows a tail/export/stats query. Zero values mean "no filter"
// except Session, where a nil pointer means "no filter" (session 0 is never
// valid, but filtering by it is harmless).
type TailFilter struct {
	Tag     string
	Origin  string
	Session *uint8
}

func (f TailFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Tag != "" {
		q = q.Where("tag = ?", f.Tag)
	}
	if f.Origin != "" {
		q = q.Where("origin = ?", f.Origin)
	}
	if f.Session != nil {
		q = q.Where("session = ?", *f.Session)
	}
	return q
}

// PersistLogEvent inserts event, and optionally a RawPayload and an
// ApduEvent derived from it, inside a single transaction, so the derived
// rows never exist without their source event. raw and
// apdu may both be nil. It returns the assigned LogEvent id.
func (s *GORMStore) PersistLogEvent(ctx context.Context, event *LogEvent, raw []byte, apdu *ApduEvent) (int64, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("insert log event: %w", err)
		}
		if raw != nil {
			if err := tx.Create(&RawPayload{LogID: event.ID, Payload: raw}).Error; err != nil {
				return fmt.Errorf("insert raw payload: %w", err)
			}
		}
		if apdu != nil {
			if err := tx.Create(apdu).Error; err != nil {
				return fmt.Errorf("insert apdu event: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

// TailLogs returns up to limit of the most recent log events matching
// filter, newest first.
func (s *GORMStore) TailLogs(ctx context.Context, limit int, filter TailFilter) ([]LogEvent, error) {
	var rows []LogEvent
	q := filter.apply(s.db.WithContext(ctx)).Order("ts_unix DESC, id DESC").Limit(limit)
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("tail logs: %w", err)
	}
	return rows, nil
}

// ExportLogs streams log events within [fromUnix, toUnix] in ascending
// order to fn, matching filter. fn is called once per row; returning an
// error from fn aborts the export.
func (s *GORMStore) ExportLogs(ctx context.Context, fromUnix, toUnix int64, filter TailFilter, fn func(LogEvent) error) error {
	q := filter.apply(s.db.WithContext(ctx)).
		Where("ts_unix >= ? AND ts_unix <= ?", fromUnix, toUnix).
		Order("ts_unix ASC, id ASC")

	rows, err := q.Model(&LogEvent{}).Rows()
	if err != nil {
		return fmt.Errorf("export logs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var event LogEvent
		if err := s.db.ScanRows(rows, &event); err != nil {
			return fmt.Errorf("export logs: scan: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
	return rows.Err()
}

// DeleteAgedLogs deletes logs and apdu_events rows older than cutoffUnix,
// used by the Retention Sweeper. payloads rows whose log_id was
// deleted are left behind; see DESIGN.md for the Open Question decision.
func (s *GORMStore) DeleteAgedLogs(ctx context.Context, cutoffUnix int64) error {
	if err := s.db.WithContext(ctx).Where("ts_unix < ?", cutoffUnix).Delete(&LogEvent{}).Error; err != nil {
		return fmt.Errorf("delete aged logs: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("ts_unix < ?", cutoffUnix).Delete(&ApduEvent{}).Error; err != nil {
		return fmt.Errorf("delete aged apdu events: %w", err)
	}
	return nil
}

// HealthCounts reports the row counts GET /api/health exposes.
type HealthCounts struct {
	Logs            int64
	ApduEvents      int64
	Payloads        int64
	LatestLogUnix   int64
	LatestApduUnix  int64
}

// Counts gathers the row-count and latest-timestamp figures for the health
// endpoint.
func (s *GORMStore) Counts(ctx context.Context) (HealthCounts, error) {
	var c HealthCounts
	db := s.db.WithContext(ctx)

	if err := db.Model(&LogEvent{}).Count(&c.Logs).Error; err != nil {
		return c, fmt.Errorf("count logs: %w", err)
	}
	if err := db.Model(&ApduEvent{}).Count(&c.ApduEvents).Error; err != nil {
		return c, fmt.Errorf("count apdu events: %w", err)
	}
	if err := db.Model(&RawPayload{}).Count(&c.Payloads).Error; err != nil {
		return c, fmt.Errorf("count payloads: %w", err)
	}

	var latestLog LogEvent
	if err := db.Order("ts_unix DESC").Limit(1).Find(&latestLog).Error; err != nil {
		return c, fmt.Errorf("latest log: %w", err)
	}
	c.LatestLogUnix = latestLog.TSUnix

	var latestApdu ApduEvent
	if err := db.Order("ts_unix DESC").Limit(1).Find(&latestApdu).Error; err != nil {
		return c, fmt.Errorf("latest apdu event: %w", err)
	}
	c.LatestApduUnix = latestApdu.TSUnix

	return c, nil
}
