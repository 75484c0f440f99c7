package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"gantt-golang/internal/service/standards"
	"gantt-golang/internal/storage"
)

type RequestStandard struct {
	RouteID     int64   `json:"ruta_id"`
	ProcessID   int64   `json:"proceso_id"`
	MachineID   int64   `json:"maquina_id"`
	Rate        float64 `json:"estandar"`
	IsPrincipal bool    `json:"es_principal"`
}

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// UpdateStandard guarda un estándar editado por el operador y refresca el
// cache del proceso afectado.
func UpdateStandard(log *slog.Logger, resolver *standards.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.standards.UpdateStandard"

		var req RequestStandard
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("JSON inválido", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "datos inválidos", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err := resolver.UpdateStandard(ctx, req.RouteID, req.ProcessID, req.MachineID, req.Rate, req.IsPrincipal)
		if err != nil {
			var verr *storage.ValidationError
			if errors.As(err, &verr) {
				log.Info("estándar rechazado", slog.String("op", op), slog.String("motivo", verr.Reason))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, Response{Error: verr.Error()})
				return
			}
			log.Error("error guardando estándar", slog.String("op", op),
				slog.Int64("ruta", req.RouteID), slog.Int64("maquina", req.MachineID),
				slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{Error: "no se pudo guardar el estándar"})
			return
		}

		log.Info("estándar guardado", slog.Int64("ruta", req.RouteID),
			slog.Int64("maquina", req.MachineID), slog.Float64("estandar", req.Rate))

		render.JSON(w, r, Response{Status: strconv.Itoa(http.StatusOK)})
	}
}
