package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdesk/platform/internal/domain"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"padded", "05/03/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"bare", "5/3/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), false},
		{"spaces", " 29/02/2024 ", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"iso", "2024-03-05", time.Time{}, true},
		{"impossible day", "30/02/2024", time.Time{}, true},
		{"empty", "", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 7, parseInt("7"))
	assert.Equal(t, 7, parseInt(" 7.0 "))
	assert.Equal(t, 8, parseInt("7,5"))
	assert.Equal(t, 0, parseInt(""))
	assert.Equal(t, 0, parseInt("n/a"))
}

func TestDecodePlayer(t *testing.T) {
	p, err := DecodePlayer(Row{"1", "Ana", "Diaz", "40123456", "01/02/2005", "Libero", "555", "SI", "2"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Diaz", p.DisplayName())
	assert.True(t, p.Active)
	assert.Equal(t, "2", p.Jersey)

	t.Run("short row is padded and active", func(t *testing.T) {
		p, err := DecodePlayer(Row{"", "Eva", "Ruiz", "40999888"})
		require.NoError(t, err)
		assert.True(t, p.Active)
		assert.Equal(t, "", p.Jersey)
	})

	t.Run("only NO is inactive", func(t *testing.T) {
		p, err := DecodePlayer(Row{"", "Eva", "Ruiz", "40999888", "", "", "", "no"})
		require.NoError(t, err)
		assert.False(t, p.Active)
	})

	t.Run("missing national id", func(t *testing.T) {
		_, err := DecodePlayer(Row{"1", "Ana", "Diaz", ""})
		require.Error(t, err)
	})

	assert.Equal(t, "NO", EncodePlayer(domain.Player{Active: false})[7])
	assert.Len(t, EncodePlayer(p), PlayerColumns)
}

func TestAttendanceCodec(t *testing.T) {
	tests := []struct {
		row     Row
		status  domain.AttendanceStatus
		session domain.SessionType
	}{
		{Row{"05/03/2024", "1", "SI", "Entrenamiento", ""}, domain.StatusPresent, domain.SessionTraining},
		{Row{"05/03/2024", "1", "NO", "Partido", ""}, domain.StatusAbsent, domain.SessionMatch},
		{Row{"05/03/2024", "1", "-", "Suspendido", "lluvia"}, domain.StatusSuspended, domain.SessionSuspended},
		{Row{"05/03/2024", "1", "?", "other"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.row.Cell(2), func(t *testing.T) {
			ev, err := DecodeAttendance(tt.row)
			require.NoError(t, err)
			assert.Equal(t, tt.status, ev.Status)
			assert.Equal(t, tt.session, ev.Session)
		})
	}

	ev := domain.AttendanceEvent{
		Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), NationalID: "1",
		Status: domain.StatusSuspended, Session: domain.SessionSuspended, Observation: "lluvia",
	}
	assert.Equal(t, Row{"05/03/2024", "1", "-", "Suspendido", "lluvia"}, EncodeAttendance(ev))

	_, err := DecodeAttendance(Row{"soon", "1", "SI"})
	require.Error(t, err)
}

func TestEvaluationCodec(t *testing.T) {
	ev, err := DecodeEvaluation(Row{"01/03/2024", "1", "7", "8", "x", "6", "5", "9"})
	require.NoError(t, err)
	assert.Equal(t, domain.Period{Year: 2024, Month: time.March}, ev.Period)
	assert.Equal(t, domain.Scores{7, 8, 0, 6, 5, 9, 0}, ev.Scores)

	row := EncodeEvaluation(domain.SkillEvaluation{
		Period: domain.Period{Year: 2024, Month: time.March}, NationalID: "1",
		Scores: domain.Scores{1, 2, 3, 4, 5, 6, 7}, Observation: "ok",
	})
	assert.Equal(t, Row{"01/03/2024", "1", "1", "2", "3", "4", "5", "6", "7", "ok"}, row)
	assert.Len(t, row, EvaluationColumns)
}

func TestMatchCodec(t *testing.T) {
	key := uuid.New()
	m := domain.MatchRecord{
		Key: key, Date: time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC), Opponent: "Lions",
		Venue: domain.VenueAway, GoalsFor: 3, GoalsAgainst: 1, CornersFor: 4, CornersAgainst: 2,
		ScorerTally: "Smith (2), Doe (1)",
	}
	row := EncodeMatch(m)
	assert.Equal(t, "Visitante", row[2])
	assert.Equal(t, key.String(), row[MatchKeyCol])

	got, err := DecodeMatch(row)
	require.NoError(t, err)
	assert.Equal(t, m, got)

	_, err = DecodeMatch(Row{"06/04/2024", "Lions", "Local", "1", "0", "0", "0", ""})
	require.Error(t, err, "rows must be keyed before decoding")
}

func TestFixtureCodec(t *testing.T) {
	f := domain.FixtureEntry{
		Key: uuid.New(), Date: time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC),
		Opponent: "Tigers", Venue: domain.VenueHome, LocationLink: "https://maps.example/1",
	}
	got, err := DecodeFixture(EncodeFixture(f))
	require.NoError(t, err)
	assert.Equal(t, f, got)
}

func TestDecodeAll_SkipsMalformed(t *testing.T) {
	in := []Row{
		{"05/03/2024", "1", "SI", "Entrenamiento"},
		{"garbage", "2", "SI", "Entrenamiento"},
		{"06/03/2024", "3", "NO", "Entrenamiento"},
	}
	events, errs := DecodeAll(TableAttendance, in, DecodeAttendance)
	require.Len(t, events, 2)
	require.Len(t, errs, 1)
	assert.True(t, domain.HasCode(errs[0], domain.CodeMalformedRow))
	assert.Contains(t, errs[0].Error(), "attendance row 2")
}

func TestWithKeys(t *testing.T) {
	existing := uuid.New()
	legacy := Row{"06/04/2024", "Lions", "Local", "1", "0", "0", "0", ""}
	in := []Row{legacy, append(Row{}, legacy...), {"07/04/2024", "Tigers", "Local", "0", "0", "0", "0", "", existing.String()}}

	keyed, filled := WithKeys(TableMatches, in, MatchKeyCol)
	assert.Equal(t, []int{1, 2}, filled)
	assert.Equal(t, existing.String(), keyed[2].Cell(MatchKeyCol))

	k1, err := uuid.Parse(keyed[0].Cell(MatchKeyCol))
	require.NoError(t, err)
	k2, err := uuid.Parse(keyed[1].Cell(MatchKeyCol))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2, "identical rows get distinct keys")
	assert.Len(t, in[0], 8, "input is untouched")

	again, _ := WithKeys(TableMatches, in, MatchKeyCol)
	assert.Equal(t, keyed, again, "keys are deterministic")
}

func TestDeterministicKey(t *testing.T) {
	a := DeterministicKey(TableMatches, Row{"x"}, 0)
	assert.Equal(t, a, DeterministicKey(TableMatches, Row{"x"}, 0))
	assert.NotEqual(t, a, DeterministicKey(TableFixtures, Row{"x"}, 0))
	assert.NotEqual(t, a, DeterministicKey(TableMatches, Row{"x"}, 1))
	assert.Equal(t, byte(5), a[6]>>4)
	assert.Equal(t, byte(2), a[8]>>6)
}

func TestWithKeys_WhitespaceVariants(t *testing.T) {
	in := []Row{
		{"01/03/2024", "Rival ", "Local", ""},
		{"01/03/2024", "Rival", "Local", ""},
	}

	keyed, filled := WithKeys(TableFixtures, in, FixtureKeyCol)
	assert.Equal(t, []int{1, 2}, filled)
	assert.NotEqual(t, keyed[0].Cell(FixtureKeyCol), keyed[1].Cell(FixtureKeyCol),
		"rows equal after trimming still get distinct keys")

	// row order decides which variant takes occurrence 0
	assert.Equal(t, DeterministicKey(TableFixtures, in[0][:FixtureKeyCol], 0).String(), keyed[0].Cell(FixtureKeyCol))
	assert.Equal(t, DeterministicKey(TableFixtures, in[1][:FixtureKeyCol], 1).String(), keyed[1].Cell(FixtureKeyCol))
}
