package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	generate_excel "gantt-golang/internal/service/generate-excel"
)

// GenerateReportExcel descarga el informe de evolución del período en xlsx.
func GenerateReportExcel(log *slog.Logger, service *generate_excel.ReportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.report.GenerateReportExcel"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		programID, err := strconv.ParseInt(r.URL.Query().Get("program_id"), 10, 64)
		if err != nil {
			http.Error(w, "program_id inválido", http.StatusBadRequest)
			return
		}
		from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
		if err != nil {
			http.Error(w, "from inválido, formato 2006-01-02", http.StatusBadRequest)
			return
		}
		to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
		if err != nil {
			http.Error(w, "to inválido, formato 2006-01-02", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		data, err := service.GenerateEvolutionExcel(ctx, programID, from, to)
		if err != nil {
			log.Error("error generando informe", slog.String("error", err.Error()))
			http.Error(w, "no se pudo generar el informe", http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("evolucion_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.Write(data)
	}
}
