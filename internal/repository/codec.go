package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teamdesk/platform/internal/domain"
)

// Wire tokens as they appear in the store.
const (
	tokenYes       = "SI"
	tokenNo        = "NO"
	tokenSuspended = "-"

	tokenTraining         = "Entrenamiento"
	tokenMatch            = "Partido"
	tokenSessionSuspended = "Suspendido"

	tokenHome = "Local"
	tokenAway = "Visitante"
)

// ParseDate parses a store date cell.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(domain.ParseLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as a store date cell.
func FormatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// parseInt reads an integer cell, defaulting to 0. Decimal cells such as
// "7.0" written by spreadsheet frontends are rounded.
func parseInt(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(math.Round(f))
	}
	return 0
}

func decodeStatus(s string) domain.AttendanceStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case tokenYes:
		return domain.StatusPresent
	case tokenNo:
		return domain.StatusAbsent
	case tokenSuspended:
		return domain.StatusSuspended
	}
	return ""
}

func encodeStatus(s domain.AttendanceStatus) string {
	switch s {
	case domain.StatusPresent:
		return tokenYes
	case domain.StatusAbsent:
		return tokenNo
	}
	return tokenSuspended
}

func decodeSession(s string) domain.SessionType {
	switch strings.TrimSpace(s) {
	case tokenTraining:
		return domain.SessionTraining
	case tokenMatch:
		return domain.SessionMatch
	case tokenSessionSuspended:
		return domain.SessionSuspended
	}
	return ""
}

func encodeSession(s domain.SessionType) string {
	switch s {
	case domain.SessionMatch:
		return tokenMatch
	case domain.SessionSuspended:
		return tokenSessionSuspended
	}
	return tokenTraining
}

func decodeVenue(s string) domain.Venue {
	if strings.EqualFold(strings.TrimSpace(s), tokenAway) {
		return domain.VenueAway
	}
	return domain.VenueHome
}

func encodeVenue(v domain.Venue) string {
	if v == domain.VenueAway {
		return tokenAway
	}
	return tokenHome
}

// DecodePlayer parses a players row. Only "NO" marks a player inactive.
func DecodePlayer(r Row) (domain.Player, error) {
	id := r.Cell(PlayerNationalIDCol)
	if id == "" {
		return domain.Player{}, fmt.Errorf("national id is empty")
	}
	return domain.Player{
		ID:         r.Cell(0),
		FirstName:  r.Cell(1),
		LastName:   r.Cell(2),
		NationalID: id,
		BirthDate:  r.Cell(4),
		Position:   r.Cell(5),
		Phone:      r.Cell(6),
		Active:     !strings.EqualFold(r.Cell(7), tokenNo),
		Jersey:     r.Cell(8),
	}, nil
}

func EncodePlayer(p domain.Player) Row {
	active := tokenYes
	if !p.Active {
		active = tokenNo
	}
	return Row{p.ID, p.FirstName, p.LastName, p.NationalID, p.BirthDate, p.Position, p.Phone, active, p.Jersey}
}

func DecodeAttendance(r Row) (domain.AttendanceEvent, error) {
	date, err := ParseDate(r.Cell(AttendanceDateCol))
	if err != nil {
		return domain.AttendanceEvent{}, err
	}
	return domain.AttendanceEvent{
		Date:        date,
		NationalID:  r.Cell(AttendanceNationalIDCol),
		Status:      decodeStatus(r.Cell(2)),
		Session:     decodeSession(r.Cell(3)),
		Observation: r.Cell(4),
	}, nil
}

func EncodeAttendance(e domain.AttendanceEvent) Row {
	return Row{FormatDate(e.Date), e.NationalID, encodeStatus(e.Status), encodeSession(e.Session), e.Observation}
}

// DecodeEvaluation parses an evaluations row. Unparsable scores are 0.
func DecodeEvaluation(r Row) (domain.SkillEvaluation, error) {
	date, err := ParseDate(r.Cell(EvaluationDateCol))
	if err != nil {
		return domain.SkillEvaluation{}, err
	}
	ev := domain.SkillEvaluation{
		Period:      domain.PeriodOf(date),
		NationalID:  r.Cell(EvaluationNationalIDCol),
		Observation: r.Cell(EvaluationFirstScoreCol + domain.SkillCount),
	}
	for i := range ev.Scores {
		ev.Scores[i] = parseInt(r.Cell(EvaluationFirstScoreCol + i))
	}
	return ev, nil
}

// EvaluationScores renders the score cells, the only part of an existing
// evaluation row that an upsert overwrites. Date and observation stay.
func EvaluationScores(scores domain.Scores) Row {
	out := make(Row, 0, domain.SkillCount)
	for _, v := range scores {
		out = append(out, strconv.Itoa(v))
	}
	return out
}

func EncodeEvaluation(e domain.SkillEvaluation) Row {
	row := Row{FormatDate(e.Period.FirstDay()), e.NationalID}
	row = append(row, EvaluationScores(e.Scores)...)
	return append(row, e.Observation)
}

// DecodeMatch parses a matches row. The key cell must already be filled;
// read rows through WithKeys first.
func DecodeMatch(r Row) (domain.MatchRecord, error) {
	date, err := ParseDate(r.Cell(0))
	if err != nil {
		return domain.MatchRecord{}, err
	}
	key, err := uuid.Parse(r.Cell(MatchKeyCol))
	if err != nil {
		return domain.MatchRecord{}, fmt.Errorf("parse key: %w", err)
	}
	return domain.MatchRecord{
		Key:            key,
		Date:           date,
		Opponent:       r.Cell(1),
		Venue:          decodeVenue(r.Cell(2)),
		GoalsFor:       parseInt(r.Cell(3)),
		GoalsAgainst:   parseInt(r.Cell(4)),
		CornersFor:     parseInt(r.Cell(5)),
		CornersAgainst: parseInt(r.Cell(6)),
		ScorerTally:    r.Cell(7),
	}, nil
}

func EncodeMatch(m domain.MatchRecord) Row {
	return Row{
		FormatDate(m.Date), m.Opponent, encodeVenue(m.Venue),
		strconv.Itoa(m.GoalsFor), strconv.Itoa(m.GoalsAgainst),
		strconv.Itoa(m.CornersFor), strconv.Itoa(m.CornersAgainst),
		m.ScorerTally, m.Key.String(),
	}
}

func DecodeFixture(r Row) (domain.FixtureEntry, error) {
	date, err := ParseDate(r.Cell(0))
	if err != nil {
		return domain.FixtureEntry{}, err
	}
	key, err := uuid.Parse(r.Cell(FixtureKeyCol))
	if err != nil {
		return domain.FixtureEntry{}, fmt.Errorf("parse key: %w", err)
	}
	return domain.FixtureEntry{
		Key:          key,
		Date:         date,
		Opponent:     r.Cell(1),
		Venue:        decodeVenue(r.Cell(2)),
		LocationLink: r.Cell(3),
	}, nil
}

func EncodeFixture(f domain.FixtureEntry) Row {
	return Row{FormatDate(f.Date), f.Opponent, encodeVenue(f.Venue), f.LocationLink, f.Key.String()}
}

// DecodeAll decodes every row, skipping the malformed ones. Each skipped
// row is reported as a MalformedRow error carrying its 1-based position.
func DecodeAll[T any](table string, rows []Row, decode func(Row) (T, error)) ([]T, []error) {
	out := make([]T, 0, len(rows))
	var errs []error
	for i, r := range rows {
		v, err := decode(r)
		if err != nil {
			errs = append(errs, domain.ErrMalformedRow(table, i+1, err))
			continue
		}
		out = append(out, v)
	}
	return out, errs
}
