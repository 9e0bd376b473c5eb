package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/teamdesk/platform/internal/domain"
	"github.com/teamdesk/platform/internal/reconcile"
	"github.com/teamdesk/platform/internal/repository"
)

// AttendanceService records whole days of attendance.
type AttendanceService struct {
	store  repository.TableStore
	events EventPublisher
	logger *slog.Logger
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(store repository.TableStore, events EventPublisher, logger *slog.Logger) *AttendanceService {
	return &AttendanceService{store: store, events: events, logger: logger}
}

func sameDayMatcher(date time.Time) func(repository.Row) bool {
	return func(r repository.Row) bool {
		d, err := repository.ParseDate(r.Cell(repository.AttendanceDateCol))
		return err == nil && domain.SameDay(d, date)
	}
}

// SaveDay replaces every attendance row of sheet.Date. A suspended session
// writes a suspended row for every roster player; otherwise only the
// players present in Statuses get a row.
func (s *AttendanceService) SaveDay(ctx context.Context, sheet domain.DaySheet) (reconcile.DayResult, error) {
	if err := domain.ValidateDaySheet(sheet); err != nil {
		return reconcile.DayResult{}, domain.ErrValidation(err.Error())
	}
	date := domain.Day(sheet.Date)
	roster, err := loadRoster(ctx, s.store, s.logger)
	if err != nil {
		return reconcile.DayResult{}, err
	}

	var fresh []repository.Row
	add := func(id string, st domain.AttendanceStatus) {
		fresh = append(fresh, repository.EncodeAttendance(domain.AttendanceEvent{
			Date: date, NationalID: id, Status: st,
			Session: sheet.Session, Observation: sheet.Observation,
		}))
	}
	if sheet.Session == domain.SessionSuspended {
		for _, p := range roster {
			add(p.NationalID, domain.StatusSuspended)
		}
	} else {
		// roster order first, then marked ids that are not on the roster
		written := make(map[string]bool, len(sheet.Statuses))
		for _, id := range append(rosterIDs(roster), sortedKeys(sheet.Statuses)...) {
			st := sheet.Statuses[id]
			if st == "" || written[id] {
				continue
			}
			add(id, st)
			written[id] = true
		}
	}

	res, err := reconcile.DayReplace(ctx, s.store, repository.TableAttendance, sameDayMatcher(date), fresh)
	if err != nil {
		return reconcile.DayResult{}, err
	}
	s.logger.Info("attendance day saved",
		"date", repository.FormatDate(date),
		"session", sheet.Session,
		"removed", res.Removed,
		"written", res.Written,
	)
	s.events.Publish(ctx, domain.NewDayReplacedEvent(date, sheet.Session, res.Written))
	return res, nil
}

// DeleteDay removes every attendance row of date.
func (s *AttendanceService) DeleteDay(ctx context.Context, date time.Time) (reconcile.DayResult, error) {
	date = domain.Day(date)
	res, err := reconcile.DayReplace(ctx, s.store, repository.TableAttendance, sameDayMatcher(date), nil)
	if err != nil {
		return reconcile.DayResult{}, err
	}
	s.logger.Info("attendance day deleted", "date", repository.FormatDate(date), "removed", res.Removed)
	s.events.Publish(ctx, domain.NewDayDeletedEvent(date, res.Removed))
	return res, nil
}

// DayRecord is what the store holds for one date.
type DayRecord struct {
	Date        time.Time                          `json:"date"`
	Recorded    bool                               `json:"recorded"`
	Session     domain.SessionType                 `json:"session,omitempty"`
	Observation string                             `json:"observation,omitempty"`
	Statuses    map[string]domain.AttendanceStatus `json:"statuses"`
}

// LoadDay returns the attendance already recorded for date. The first row
// of a player wins; session and observation come from the last row that
// carries them.
func (s *AttendanceService) LoadDay(ctx context.Context, date time.Time) (DayRecord, error) {
	date = domain.Day(date)
	events, _, err := readTable(ctx, s.store, s.logger, repository.TableAttendance, -1, repository.DecodeAttendance)
	if err != nil {
		return DayRecord{}, err
	}
	rec := DayRecord{Date: date, Statuses: map[string]domain.AttendanceStatus{}}
	for _, e := range events {
		if !domain.SameDay(e.Date, date) {
			continue
		}
		rec.Recorded = true
		if _, ok := rec.Statuses[e.NationalID]; !ok {
			rec.Statuses[e.NationalID] = e.Status
		}
		if e.Session != "" {
			rec.Session = e.Session
		}
		if e.Observation != "" {
			rec.Observation = e.Observation
		}
	}
	return rec, nil
}
