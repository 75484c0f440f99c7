package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gantt-golang/internal/service/timeline"
	"gantt-golang/internal/storage"
)

type TimelineStorage interface {
	GetProgramState(ctx context.Context, programID int64) ([]*storage.WorkOrder, error)
	GetScheduleIntervals(ctx context.Context, programID int64) ([]*storage.ScheduleInterval, error)
	GetAssignments(ctx context.Context, programID int64) ([]*storage.Assignment, error)
}

type ResponseTimeline struct {
	Groups []timeline.Group `json:"groups"`
	Items  []timeline.Item  `json:"items"`
	Status string           `json:"status"`
	Error  string           `json:"error,omitempty"`
}

// GetTimeline entrega las filas y bloques del Gantt del programa.
// mode=planificacion pinta por tipo de proceso, cualquier otro valor pinta
// por estado de ejecución.
func GetTimeline(log *slog.Logger, st TimelineStorage, builder *timeline.Builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.timeline.GetTimeline"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		programID, err := strconv.ParseInt(r.URL.Query().Get("program_id"), 10, 64)
		if err != nil {
			log.Error("program_id inválido", slog.String("error", err.Error()))
			http.Error(w, "program_id inválido", http.StatusBadRequest)
			return
		}

		mode := timeline.ModeExecution
		if r.URL.Query().Get("mode") == string(timeline.ModePlanning) {
			mode = timeline.ModePlanning
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := st.GetProgramState(ctx, programID)
		if err != nil {
			log.Error("error leyendo el programa", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseTimeline{Error: "no se pudo leer el programa"})
			return
		}

		intervals, err := st.GetScheduleIntervals(ctx, programID)
		if err != nil {
			log.Error("error leyendo bloques", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseTimeline{Error: "no se pudieron leer los bloques"})
			return
		}

		assigns, err := st.GetAssignments(ctx, programID)
		if err != nil {
			log.Error("error leyendo asignaciones", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseTimeline{Error: "no se pudieron leer las asignaciones"})
			return
		}

		items, err := builder.BuildItems(intervals, mode, orders, assigns)
		if err != nil {
			log.Error("error armando items", slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		render.JSON(w, r, ResponseTimeline{
			Groups: builder.BuildGroups(orders),
			Items:  items,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
