package availability

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

const (
	testDate  = "2024-05-17"
	regSalon  = "Avlu Salon"
	regTable  = "Masa 7"
	vipSalon  = "Eblehan VIP Salon"
	vipTable  = "Masa 1"
	vipSalon2 = "Galaaltı VIP Salon"
)

type fakeStore struct {
	rows  []model.Reservation
	err   error
	calls int
}

func (f *fakeStore) QueryActive(_ context.Context, salon, table, date string) ([]model.Reservation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Reservation
	for _, r := range f.rows {
		if r.Salon == salon && r.Masa == table && r.Date == date && r.Status == model.StatusActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func booking(id, salon, table, clock string) model.Reservation {
	return model.Reservation{
		ID: id, Salon: salon, Masa: table, Date: testDate, Time: clock, Status: model.StatusActive,
	}
}

func TestRegularConflictScenario(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: []model.Reservation{booking("a", regSalon, regTable, "19:00")}}
	c := NewChecker(store)
	ctx := context.Background()

	res, err := c.CheckTableAvailability(ctx, regSalon, regTable, testDate, "20:00")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "21:01", res.NextTime)
	assert.Contains(t, res.Message, "21:01")

	next, err := c.NextAvailableTime(ctx, regSalon, regTable, testDate, "20:00")
	require.NoError(t, err)
	assert.Equal(t, "21:01", next)
}

func TestRegularTripleConditionBoundaries(t *testing.T) {
	t.Parallel()

	existing := []model.Reservation{booking("a", regSalon, regTable, "19:00")} // window 19:00-21:00

	tests := []struct {
		clock     string
		available bool
		why       string
	}{
		{"16:59", true, "candidate ends 18:59, before the existing start"},
		{"17:00", false, "candidate end 19:00 equals existing start (inclusive)"},
		{"18:00", false, "existing start inside candidate"},
		{"19:00", false, "same start"},
		{"20:59", false, "candidate start inside existing"},
		{"21:00", false, "candidate start equals existing end (inclusive)"},
		{"21:01", true, "one minute past the existing end"},
		{"09:00", true, "far before"},
	}
	for _, tt := range tests {
		res, err := Evaluate(existing, regSalon, regTable, testDate, tt.clock)
		require.NoError(t, err, tt.clock)
		assert.Equal(t, tt.available, res.Available, "%s: %s", tt.clock, tt.why)
	}
}

func TestRegularOtherTablesAndDatesDoNotBlock(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: []model.Reservation{
		booking("a", regSalon, "Masa 8", "19:00"),
		{ID: "b", Salon: regSalon, Masa: regTable, Date: "2024-05-18", Time: "19:00", Status: model.StatusActive},
		booking("c", "Yazıcık Salon", regTable, "19:00"),
	}}
	res, err := NewChecker(store).CheckTableAvailability(context.Background(), regSalon, regTable, testDate, "19:00")
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestCancelledReservationsNeverBlock(t *testing.T) {
	t.Parallel()

	cancelled := booking("a", regSalon, regTable, "19:00")
	cancelled.Status = model.StatusCancelled

	res, err := Evaluate([]model.Reservation{cancelled}, regSalon, regTable, testDate, "19:00")
	require.NoError(t, err)
	assert.True(t, res.Available)

	next, err := NextAvailable([]model.Reservation{cancelled}, testDate, "19:00")
	require.NoError(t, err)
	assert.Equal(t, "19:00", next)

	vipCancelled := booking("v", vipSalon, vipTable, "13:00")
	vipCancelled.Status = model.StatusCancelled
	res, err = Evaluate([]model.Reservation{vipCancelled}, vipSalon, vipTable, testDate, "15:00")
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestVIPSessionScenario(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: []model.Reservation{booking("a", vipSalon, vipTable, "13:00")}}
	c := NewChecker(store)
	ctx := context.Background()

	res, err := c.CheckTableAvailability(ctx, vipSalon, vipTable, testDate, "15:00")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Contains(t, res.Message, "12:00-16:00")
	assert.Empty(t, res.NextTime)

	res, err = c.CheckTableAvailability(ctx, vipSalon, vipTable, testDate, "18:00")
	require.NoError(t, err)
	assert.True(t, res.Available)

	// The other VIP salon is independent.
	res, err = c.CheckTableAvailability(ctx, vipSalon2, vipTable, testDate, "13:00")
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestVIPEveningBlocked(t *testing.T) {
	t.Parallel()

	existing := []model.Reservation{booking("a", vipSalon, vipTable, "20:00")}
	res, err := Evaluate(existing, vipSalon, vipTable, testDate, "17:00")
	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Contains(t, res.Message, "17:00-20:00")

	res, err = Evaluate(existing, vipSalon, vipTable, testDate, "12:00")
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestVIPIgnoresMinuteOverlap(t *testing.T) {
	t.Parallel()

	// 16:00 is midday and 17:00 is evening; they are different sessions
	// even though a 120 minute window would overlap.
	existing := []model.Reservation{booking("a", vipSalon, vipTable, "16:00")}
	res, err := Evaluate(existing, vipSalon, vipTable, testDate, "17:00")
	require.NoError(t, err)
	assert.True(t, res.Available)
}

func TestVIPAtMostOnePerSession(t *testing.T) {
	t.Parallel()

	var accepted []model.Reservation
	hours := []string{"12:00", "13:00", "14:00", "15:00", "16:00", "17:00", "18:00", "19:00", "20:00"}
	for i, h := range hours {
		res, err := Evaluate(accepted, vipSalon, vipTable, testDate, h)
		require.NoError(t, err)
		if res.Available {
			accepted = append(accepted, booking(fmt.Sprint(i), vipSalon, vipTable, h))
		}
	}
	require.Len(t, accepted, 2)
	assert.Equal(t, "12:00", accepted[0].Time)
	assert.Equal(t, "17:00", accepted[1].Time)
}

func TestNextAvailableIdentity(t *testing.T) {
	t.Parallel()

	for _, clock := range []string{"06:00", "12:34", "22:00"} {
		got, err := NextAvailable(nil, testDate, clock)
		require.NoError(t, err)
		assert.Equal(t, clock, got)
	}

	got, err := NewChecker(&fakeStore{}).NextAvailableTime(context.Background(), regSalon, regTable, testDate, "19:00")
	require.NoError(t, err)
	assert.Equal(t, "19:00", got)
}

func TestNextAvailableRescansAfterAdvancing(t *testing.T) {
	t.Parallel()

	// Advancing past 18:00 lands inside 19:30, then inside 21:40.
	existing := []model.Reservation{
		booking("c", regSalon, regTable, "21:40"),
		booking("a", regSalon, regTable, "18:00"),
		booking("b", regSalon, regTable, "19:30"),
	}
	got, err := NextAvailable(existing, testDate, "18:30")
	require.NoError(t, err)
	assert.Equal(t, "23:41", got)
}

func TestNextAvailableIsFixedPoint(t *testing.T) {
	t.Parallel()

	existing := []model.Reservation{
		booking("a", regSalon, regTable, "12:00"),
		booking("b", regSalon, regTable, "15:30"),
		booking("c", regSalon, regTable, "19:00"),
	}
	for h := 6; h <= 22; h++ {
		for _, m := range []int{0, 15, 30, 45} {
			clock := fmt.Sprintf("%02d:%02d", h, m)
			next, err := NextAvailable(existing, testDate, clock)
			require.NoError(t, err, clock)

			res, err := Evaluate(existing, regSalon, regTable, testDate, next)
			require.NoError(t, err, clock)
			assert.True(t, res.Available, "request %s -> next %s must be free", clock, next)
			assert.GreaterOrEqual(t, next, clock, "next slot never moves backwards within the day")
		}
	}
}

func TestNextAvailableRejectsVIP(t *testing.T) {
	t.Parallel()

	_, err := NewChecker(&fakeStore{}).NextAvailableTime(context.Background(), vipSalon, vipTable, testDate, "13:00")
	require.ErrorIs(t, err, ErrVIPTable)
}

func TestCheckExcludingIgnoresSelf(t *testing.T) {
	t.Parallel()

	store := &fakeStore{rows: []model.Reservation{booking("self", regSalon, regTable, "19:00")}}
	c := NewChecker(store)

	res, err := c.CheckExcluding(context.Background(), "self", regSalon, regTable, testDate, "19:30")
	require.NoError(t, err)
	assert.True(t, res.Available)

	res, err = c.CheckExcluding(context.Background(), "other", regSalon, regTable, testDate, "19:30")
	require.NoError(t, err)
	assert.False(t, res.Available)
	require.Len(t, store.rows, 1, "store snapshot must not be modified")
}

func TestStoreFailureFailsClosed(t *testing.T) {
	t.Parallel()

	boom := errors.New("firestore unavailable")
	c := NewChecker(&fakeStore{err: boom})

	res, err := c.CheckTableAvailability(context.Background(), regSalon, regTable, testDate, "19:00")
	require.ErrorIs(t, err, boom)
	assert.False(t, res.Available)

	_, err = c.NextAvailableTime(context.Background(), regSalon, regTable, testDate, "19:00")
	require.ErrorIs(t, err, boom)
}

func TestCalculateEndTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		salon, table, clock, want string
	}{
		{vipSalon, vipTable, "12:00", "16:00"},
		{vipSalon, vipTable, "16:00", "16:00"},
		{vipSalon2, vipTable, "17:00", "20:00"},
		{vipSalon2, vipTable, "20:00", "20:00"},
		{regSalon, regTable, "19:00", "21:00"},
		{regSalon, regTable, "06:15", "08:15"},
		{regSalon, regTable, "22:00", "00:00"},
	}
	for _, tt := range tests {
		got, err := CalculateEndTime(testDate, tt.clock, tt.salon, tt.table)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s/%s %s", tt.salon, tt.table, tt.clock)

		again, err := CalculateEndTime("2025-01-01", tt.clock, tt.salon, tt.table)
		require.NoError(t, err)
		assert.Equal(t, got, again, "end time must not depend on the date")
	}
}

func TestMalformedInput(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(nil, regSalon, regTable, testDate, "7pm")
	require.Error(t, err)

	_, err = CalculateEndTime("bad", "19:00", regSalon, regTable)
	require.Error(t, err)
}
