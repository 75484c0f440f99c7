package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gantt-golang/internal/storage"
)

// Window es la jornada laboral recurrente de la planta (por defecto
// 07:45–17:45, todos los días). Todas las operaciones son puras.
type Window struct {
	startHour, startMin int
	endHour, endMin     int
}

func New(start, end string) (*Window, error) {
	const op = "calendar.New"

	sh, sm, err := parseClock(start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if eh*60+em <= sh*60+sm {
		return nil, &storage.ValidationError{Field: "jornada", Reason: "fin de jornada debe ser posterior al inicio"}
	}

	return &Window{startHour: sh, startMin: sm, endHour: eh, endMin: em}, nil
}

// MustDefault es la jornada estándar de la planta.
func MustDefault() *Window {
	w, err := New("07:45", "17:45")
	if err != nil {
		panic(err)
	}
	return w
}

func parseClock(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, &storage.ValidationError{Field: "hora", Reason: "formato esperado HH:MM, llegó " + s}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, &storage.ValidationError{Field: "hora", Reason: "hora inválida en " + s}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, &storage.ValidationError{Field: "hora", Reason: "minutos inválidos en " + s}
	}
	return h, m, nil
}

func (w *Window) dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), w.startHour, w.startMin, 0, 0, t.Location())
}

func (w *Window) dayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), w.endHour, w.endMin, 0, 0, t.Location())
}

// ClipToWindow lleva un instante dentro de la jornada de su propio día:
// antes del inicio → inicio, después del fin → fin, dentro → sin cambio.
func (w *Window) ClipToWindow(t time.Time) time.Time {
	if s := w.dayStart(t); t.Before(s) {
		return s
	}
	if e := w.dayEnd(t); t.After(e) {
		return e
	}
	return t
}

// SubInterval es un tramo diario de un bloque unificado. El primero lleva
// borde sólido en el Gantt, las continuaciones van punteadas.
type SubInterval struct {
	ID           string    `json:"id"`
	Start        time.Time `json:"inicio"`
	End          time.Time `json:"fin"`
	Quantity     float64   `json:"cantidad"`
	FirstSegment bool      `json:"primer_tramo"`
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ExpandMultiDay parte un bloque programado en un tramo por día tocado.
// Un bloque dentro de un solo día vuelve idéntico, en secuencia de largo 1.
// La cantidad se reparte proporcional a la duración en jornada de cada tramo
// y el último tramo se lleva el resto exacto, así la suma siempre cuadra.
func (w *Window) ExpandMultiDay(iv storage.ScheduleInterval) ([]SubInterval, error) {
	const op = "calendar.ExpandMultiDay"

	if !iv.End.After(iv.Start) {
		return nil, fmt.Errorf("%s: %w", op,
			&storage.ValidationError{Field: "intervalo " + iv.ID, Reason: "fin debe ser posterior al inicio"})
	}

	if sameDay(iv.Start, iv.End) {
		return []SubInterval{{
			ID:           iv.ID,
			Start:        iv.Start,
			End:          iv.End,
			Quantity:     iv.Quantity,
			FirstSegment: true,
		}}, nil
	}

	var subs []SubInterval
	for day, idx := iv.Start, 0; ; day, idx = day.AddDate(0, 0, 1), idx+1 {
		segStart := w.dayStart(day)
		segEnd := w.dayEnd(day)
		if idx == 0 {
			segStart = iv.Start
		}
		if sameDay(day, iv.End) {
			segEnd = iv.End
		}
		if segEnd.Before(segStart) {
			segEnd = segStart
		}
		subs = append(subs, SubInterval{
			ID:           fmt.Sprintf("%s-%d", iv.ID, idx),
			Start:        segStart,
			End:          segEnd,
			FirstSegment: idx == 0,
		})
		if sameDay(day, iv.End) {
			break
		}
	}

	apportion(subs, iv.Quantity)
	return subs, nil
}

// apportion reparte qty proporcional a la duración de cada tramo; el último
// recibe el resto para que la suma sea exacta.
func apportion(subs []SubInterval, qty float64) {
	var total time.Duration
	for _, s := range subs {
		total += s.End.Sub(s.Start)
	}

	if total <= 0 {
		// bloque degenerado: todo al primer tramo
		if len(subs) > 0 {
			subs[0].Quantity = qty
		}
		return
	}

	var assigned float64
	for i := range subs {
		if i == len(subs)-1 {
			subs[i].Quantity = qty - assigned
			break
		}
		part := qty * float64(subs[i].End.Sub(subs[i].Start)) / float64(total)
		subs[i].Quantity = part
		assigned += part
	}
}

// WorkedHoursBetween suma solo el tiempo dentro de jornada del rango
// [start, end), caminando día a día. Rango invertido o igual a cero es error
// de validación, salvo start == end que vale 0.
func (w *Window) WorkedHoursBetween(start, end time.Time) (time.Duration, error) {
	const op = "calendar.WorkedHoursBetween"

	if end.Before(start) {
		return 0, fmt.Errorf("%s: %w", op,
			&storage.ValidationError{Field: "rango", Reason: "fin debe ser igual o posterior al inicio"})
	}
	if end.Equal(start) {
		return 0, nil
	}

	var worked time.Duration
	for day := start; !day.After(end); day = w.dayStart(day).AddDate(0, 0, 1) {
		segStart := w.dayStart(day)
		if day.After(segStart) {
			segStart = day
		}
		segEnd := w.dayEnd(day)
		if sameDay(day, end) && end.Before(segEnd) {
			segEnd = end
		}
		if segEnd.After(segStart) {
			worked += segEnd.Sub(segStart)
		}
		if sameDay(day, end) {
			break
		}
	}

	return worked, nil
}
