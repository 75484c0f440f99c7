package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getdiff "gantt-golang/http-server/diff/get"
	savefinalize "gantt-golang/http-server/finalize/save"
	reportexcel "gantt-golang/http-server/generate-report/generate-excel"
	getsnapshots "gantt-golang/http-server/snapshots/get"
	getstandards "gantt-golang/http-server/standards/get"
	upstandards "gantt-golang/http-server/standards/update"
	gettimeline "gantt-golang/http-server/timeline/get"
	"gantt-golang/internal/config"
	"gantt-golang/internal/middleware/auth"
	"gantt-golang/internal/service/finalize"
	generate_excel "gantt-golang/internal/service/generate-excel"
	"gantt-golang/internal/service/standards"
	"gantt-golang/internal/service/timeline"
	"gantt-golang/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage,
	builder *timeline.Builder, resolver *standards.Resolver,
	finalizer *finalize.Finalizer, reportService *generate_excel.ReportService) *chi.Mux {

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Gantt del programa
	router.Get("/api/timeline", gettimeline.GetTimeline(log, storage, builder))

	// estándares por proceso
	router.Get("/api/standards/{processId}", getstandards.GetStandards(log, resolver))
	router.Put("/api/standards/update", upstandards.UpdateStandard(log, resolver))

	// comparación contra planificación base / entre fotos
	router.Get("/api/diff/ot/{code}", getdiff.DiffWorkOrder(log, storage))
	router.Get("/api/diff/period", getdiff.DiffPeriod(log, storage))

	// cierre del día
	router.Post("/api/finalize", savefinalize.FinalizeDay(log, finalizer))

	// historia de fotos
	router.Get("/api/snapshots", getsnapshots.GetSnapshotsMonth(log, storage))
	router.Get("/api/snapshots/{id}", getsnapshots.GetSnapshot(log, storage))

	// informe del período en excel
	router.Get("/api/report/excel", reportexcel.GenerateReportExcel(log, reportService))

	// panel de supervisores: edición de estándares detrás de basic auth
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))
	adminRouter.Get("/standards/{processId}", getstandards.GetStandards(log, resolver))
	adminRouter.Put("/standards/update", upstandards.UpdateStandard(log, resolver))
	router.Mount("/api/admin", adminRouter)

	return router
}
