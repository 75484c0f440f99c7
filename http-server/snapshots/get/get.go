package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gantt-golang/internal/storage"
)

type SnapshotStorage interface {
	GetSnapshot(ctx context.Context, id string) (*storage.Snapshot, error)
	GetSnapshotsMonth(ctx context.Context, programID int64, year, month int) ([]*storage.Snapshot, error)
}

type ResponseSnapshots struct {
	Snapshots []*storage.Snapshot `json:"snapshots,omitempty"`
	Snapshot  *storage.Snapshot   `json:"snapshot,omitempty"`
	Status    string              `json:"status"`
	Error     string              `json:"error,omitempty"`
}

// GetSnapshotsMonth lista las fotos de un mes para la vista de historia,
// sin el detalle materializado.
func GetSnapshotsMonth(log *slog.Logger, st SnapshotStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.snapshots.GetSnapshotsMonth"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		programID, err1 := strconv.ParseInt(r.URL.Query().Get("program_id"), 10, 64)
		year, err2 := strconv.Atoi(r.URL.Query().Get("year"))
		month, err3 := strconv.Atoi(r.URL.Query().Get("month"))
		if err1 != nil || err2 != nil || err3 != nil {
			http.Error(w, "program_id, year y month son obligatorios", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snaps, err := st.GetSnapshotsMonth(ctx, programID, year, month)
		if err != nil {
			log.Error("error listando snapshots", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseSnapshots{Error: "no se pudo leer la historia"})
			return
		}

		render.JSON(w, r, ResponseSnapshots{
			Snapshots: snaps,
			Status:    strconv.Itoa(http.StatusOK),
		})
	}
}

// GetSnapshot entrega una foto completa, con el estado materializado.
func GetSnapshot(log *slog.Logger, st SnapshotStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.snapshots.GetSnapshot"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		snap, err := st.GetSnapshot(ctx, id)
		if err != nil {
			var nferr *storage.NotFoundError
			if errors.As(err, &nferr) {
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, ResponseSnapshots{Error: nferr.Error()})
				return
			}
			log.Error("error leyendo snapshot", slog.String("id", id), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseSnapshots{Error: "no se pudo leer la foto"})
			return
		}

		render.JSON(w, r, ResponseSnapshots{
			Snapshot: snap,
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
