package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"gantt-golang/internal/service/finalize"
)

type RequestFinalize struct {
	ProgramID  int64  `json:"programa_id"`
	Date       string `json:"fecha"` // 2006-01-02
	ImportFlag bool   `json:"importar_avances"`
	Notes      string `json:"notas"`
}

type ResponseFinalize struct {
	Result   *finalize.FinalizeResult `json:"resultado,omitempty"`
	FailedAt finalize.State           `json:"fallo_en,omitempty"`
	Status   string                   `json:"status"`
	Error    string                   `json:"error,omitempty"`
}

// FinalizeDay cierra el día del programa: foto, comparación y avance de
// fecha, todo o nada según la máquina de estados del servicio.
func FinalizeDay(log *slog.Logger, finalizer *finalize.Finalizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.finalize.FinalizeDay"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req RequestFinalize
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("JSON inválido", slog.String("error", err.Error()))
			http.Error(w, "datos inválidos", http.StatusBadRequest)
			return
		}

		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "fecha inválida, formato 2006-01-02", http.StatusBadRequest)
			return
		}

		// el cierre completo puede tardar más que una consulta normal
		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		log.Info("cierre de día solicitado",
			slog.Int64("programa", req.ProgramID),
			slog.String("fecha", req.Date),
			slog.Bool("importar", req.ImportFlag))

		result, err := finalizer.FinalizeDay(ctx, req.ProgramID, date, req.ImportFlag, req.Notes)
		if err != nil {
			var ferr *finalize.FinalizeError
			if errors.As(err, &ferr) {
				log.Error("cierre de día falló",
					slog.String("paso", string(ferr.FailedAt)),
					slog.String("error", ferr.Err.Error()))
				w.WriteHeader(http.StatusConflict)
				render.JSON(w, r, ResponseFinalize{FailedAt: ferr.FailedAt, Error: ferr.Error()})
				return
			}
			log.Error("cierre de día falló", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseFinalize{Error: "no se pudo cerrar el día"})
			return
		}

		log.Info("día cerrado", slog.String("snapshot", result.SnapshotID))

		render.JSON(w, r, ResponseFinalize{
			Result: result,
			Status: strconv.Itoa(http.StatusOK),
		})
	}
}
