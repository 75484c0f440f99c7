package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gantt-golang/internal/match"
	"gantt-golang/internal/service/snapshot"
	"gantt-golang/internal/storage"
)

type DiffStorage interface {
	GetSnapshotByDate(ctx context.Context, programID int64, date time.Time) (*storage.Snapshot, error)
}

type ResponseDiffOrder struct {
	Delta  *snapshot.WorkOrderDelta `json:"delta,omitempty"`
	Status string                   `json:"status"`
	Error  string                   `json:"error,omitempty"`
}

type ResponsePeriod struct {
	Evolution *snapshot.PeriodEvolution `json:"evolucion,omitempty"`
	NewOrders []*storage.WorkOrder      `json:"ot_nuevas,omitempty"`
	Status    string                    `json:"status"`
	Error     string                    `json:"error,omitempty"`
}

func parsePeriod(r *http.Request) (programID int64, from, to time.Time, err error) {
	programID, err = strconv.ParseInt(r.URL.Query().Get("program_id"), 10, 64)
	if err != nil {
		return
	}
	from, err = time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		return
	}
	to, err = time.Parse("2006-01-02", r.URL.Query().Get("to"))
	return
}

// DiffWorkOrder compara una OT puntual entre dos fotos persistidas,
// emparejada por código.
func DiffWorkOrder(log *slog.Logger, st DiffStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.diff.DiffWorkOrder"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		code := chi.URLParam(r, "code")
		programID, from, to, err := parsePeriod(r)
		if err != nil {
			http.Error(w, "program_id, from y to son obligatorios (fecha 2006-01-02)", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snapA, err := st.GetSnapshotByDate(ctx, programID, from)
		if err != nil {
			log.Error("foto inicial no disponible", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, ResponseDiffOrder{Error: "no hay foto para la fecha inicial"})
			return
		}
		snapB, err := st.GetSnapshotByDate(ctx, programID, to)
		if err != nil {
			log.Error("foto final no disponible", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, ResponseDiffOrder{Error: "no hay foto para la fecha final"})
			return
		}

		byCode := func(o *storage.WorkOrder) string { return o.Code }
		before := match.Index(snapA.WorkOrders, byCode)[code]
		if before == nil {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, ResponseDiffOrder{Error: "OT " + code + " no existe en la foto inicial"})
			return
		}
		after := match.Index(snapB.WorkOrders, byCode)[code]

		delta := snapshot.DiffWorkOrder(before, after)
		render.JSON(w, r, ResponseDiffOrder{
			Delta:  &delta,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}

// DiffPeriod resume la evolución entre dos fotos, con la lista aparte de OT
// nuevas en el período.
func DiffPeriod(log *slog.Logger, st DiffStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.diff.DiffPeriod"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		programID, from, to, err := parsePeriod(r)
		if err != nil {
			http.Error(w, "program_id, from y to son obligatorios (fecha 2006-01-02)", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snapA, err := st.GetSnapshotByDate(ctx, programID, from)
		if err != nil {
			log.Error("foto inicial no disponible", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, ResponsePeriod{Error: "no hay foto para la fecha inicial"})
			return
		}
		snapB, err := st.GetSnapshotByDate(ctx, programID, to)
		if err != nil {
			log.Error("foto final no disponible", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, ResponsePeriod{Error: "no hay foto para la fecha final"})
			return
		}

		ev := snapshot.AggregatePeriod(snapA, snapB)
		if ev.Swapped {
			snapA, snapB = snapB, snapA
		}
		_, nuevas := snapshot.DiffAll(snapA.WorkOrders, snapB.WorkOrders)

		render.JSON(w, r, ResponsePeriod{
			Evolution: &ev,
			NewOrders: nuevas,
			Status:    strconv.Itoa(http.StatusOK),
		})
	}
}
