package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gantt-golang/internal/storage"
)

func mustWindow(t *testing.T) *Window {
	t.Helper()
	w, err := New("07:45", "17:45")
	require.NoError(t, err)
	return w
}

func day(d, h, m int) time.Time {
	return time.Date(2026, time.March, d, h, m, 0, 0, time.UTC)
}

func TestNewRejectsInvertedWindow(t *testing.T) {
	_, err := New("17:45", "07:45")
	var verr *storage.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestClipToWindow(t *testing.T) {
	w := mustWindow(t)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"antes de jornada", day(10, 6, 0), day(10, 7, 45)},
		{"después de jornada", day(10, 21, 30), day(10, 17, 45)},
		{"dentro de jornada", day(10, 12, 0), day(10, 12, 0)},
		{"justo al inicio", day(10, 7, 45), day(10, 7, 45)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.ClipToWindow(tt.in))
		})
	}
}

func TestExpandMultiDaySingleDayUnchanged(t *testing.T) {
	w := mustWindow(t)
	iv := storage.ScheduleInterval{
		ID:       "b-1",
		Start:    day(10, 9, 0),
		End:      day(10, 15, 0),
		Quantity: 240,
	}

	subs, err := w.ExpandMultiDay(iv)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "b-1", subs[0].ID)
	assert.Equal(t, iv.Start, subs[0].Start)
	assert.Equal(t, iv.End, subs[0].End)
	assert.Equal(t, 240.0, subs[0].Quantity)
	assert.True(t, subs[0].FirstSegment)
}

func TestExpandMultiDayThreeDays(t *testing.T) {
	w := mustWindow(t)
	iv := storage.ScheduleInterval{
		ID:       "b-7",
		Start:    day(10, 14, 45),
		End:      day(12, 10, 45),
		Quantity: 900,
	}

	subs, err := w.ExpandMultiDay(iv)
	require.NoError(t, err)
	require.Len(t, subs, 3)

	// primer tramo: del inicio original al fin de jornada
	assert.Equal(t, "b-7-0", subs[0].ID)
	assert.Equal(t, iv.Start, subs[0].Start)
	assert.Equal(t, day(10, 17, 45), subs[0].End)
	assert.True(t, subs[0].FirstSegment)

	// día intermedio: jornada completa, continuación
	assert.Equal(t, "b-7-1", subs[1].ID)
	assert.Equal(t, day(11, 7, 45), subs[1].Start)
	assert.Equal(t, day(11, 17, 45), subs[1].End)
	assert.False(t, subs[1].FirstSegment)

	// último tramo: del inicio de jornada al fin original
	assert.Equal(t, "b-7-2", subs[2].ID)
	assert.Equal(t, day(12, 7, 45), subs[2].Start)
	assert.Equal(t, iv.End, subs[2].End)
	assert.False(t, subs[2].FirstSegment)

	// sin huecos ni traslapes dentro de jornada
	for i := 1; i < len(subs); i++ {
		assert.False(t, subs[i].Start.Before(subs[i-1].End))
	}

	var sum float64
	for _, s := range subs {
		sum += s.Quantity
	}
	assert.InDelta(t, 900.0, sum, 1e-9)

	// el tramo de jornada completa (10h) carga más que el inicial (3h)
	assert.Greater(t, subs[1].Quantity, subs[0].Quantity)
}

func TestExpandMultiDayRejectsInverted(t *testing.T) {
	w := mustWindow(t)
	_, err := w.ExpandMultiDay(storage.ScheduleInterval{
		ID:    "b-9",
		Start: day(12, 10, 0),
		End:   day(10, 10, 0),
	})
	var verr *storage.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestWorkedHoursBetween(t *testing.T) {
	w := mustWindow(t)

	t.Run("rango vacío vale cero", func(t *testing.T) {
		d, err := w.WorkedHoursBetween(day(10, 9, 0), day(10, 9, 0))
		assert.NoError(t, err)
		assert.Equal(t, time.Duration(0), d)
	})

	t.Run("dentro de un día", func(t *testing.T) {
		d, err := w.WorkedHoursBetween(day(10, 9, 0), day(10, 15, 0))
		assert.NoError(t, err)
		assert.Equal(t, 6*time.Hour, d)
	})

	t.Run("descuenta tiempo fuera de jornada", func(t *testing.T) {
		// de las 16:45 del día 10 a las 8:45 del día 11: 1h + 1h
		d, err := w.WorkedHoursBetween(day(10, 16, 45), day(11, 8, 45))
		assert.NoError(t, err)
		assert.Equal(t, 2*time.Hour, d)
	})

	t.Run("día intermedio completo", func(t *testing.T) {
		// 1h del día 10, 10h del día 11, 1h del día 12
		d, err := w.WorkedHoursBetween(day(10, 16, 45), day(12, 8, 45))
		assert.NoError(t, err)
		assert.Equal(t, 12*time.Hour, d)
	})

	t.Run("rango invertido es error", func(t *testing.T) {
		_, err := w.WorkedHoursBetween(day(11, 9, 0), day(10, 9, 0))
		var verr *storage.ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
