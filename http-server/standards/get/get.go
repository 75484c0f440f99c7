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

	"gantt-golang/internal/service/standards"
)

type ResponseStandards struct {
	Machines []standards.MachineStandard `json:"maquinas"`
	Status   string                      `json:"status"`
	Error    string                      `json:"error,omitempty"`
}

// GetStandards resuelve las máquinas compatibles del proceso con su
// estándar. Una máquina sin estándar llega con estandar 0: el operador debe
// ingresarlo antes de guardar, nunca se arrastra el de otra máquina.
func GetStandards(log *slog.Logger, resolver *standards.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.standards.GetStandards"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		processID, err := strconv.ParseInt(chi.URLParam(r, "processId"), 10, 64)
		if err != nil {
			http.Error(w, "processId inválido", http.StatusBadRequest)
			return
		}

		subjectType := r.URL.Query().Get("subject_type")
		subjectID, err := strconv.ParseInt(r.URL.Query().Get("subject_id"), 10, 64)
		if err != nil || subjectType == "" {
			http.Error(w, "subject_type y subject_id son obligatorios", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		resolved, err := resolver.Resolve(ctx, processID, subjectType, subjectID)
		if err != nil {
			log.Error("error resolviendo estándares", slog.Int64("proceso", processID), slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseStandards{Error: "no se pudieron resolver los estándares"})
			return
		}

		render.JSON(w, r, ResponseStandards{
			Machines: resolved,
			Status:   strconv.Itoa(http.StatusOK),
		})
	}
}
