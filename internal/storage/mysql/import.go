package mysql

import (
	"context"
	"fmt"
	"time"

	"gantt-golang/internal/storage"
)

// ImportProgress lee los avances del día reportados por el sistema de
// planta (esquema externo replicado) y los aplica sobre los procesos del
// programa. Un registro que no cruza con ningún proceso queda como
// advertencia, no bota la importación completa.
func (s *Storage) ImportProgress(ctx context.Context, programID int64, date time.Time) (*storage.ImportResult, error) {
	const op = "storage.mysql.ImportProgress"

	rows, err := s.db.QueryContext(ctx, `
		SELECT av.codigo_ot, av.codigo_proceso, av.etapa, av.cantidad_buena
		FROM avances_planta av
		WHERE av.fecha = ?`, date)
	if err != nil {
		return nil, &storage.IntegrationError{Source: "avances_planta", Err: fmt.Errorf("%s: %w", op, err)}
	}
	defer rows.Close()

	type avance struct {
		otCode   string
		procCode string
		stage    int
		qty      float64
	}
	var avances []avance
	for rows.Next() {
		var a avance
		if err := rows.Scan(&a.otCode, &a.procCode, &a.stage, &a.qty); err != nil {
			return nil, &storage.IntegrationError{Source: "avances_planta", Err: fmt.Errorf("%s: %w", op, err)}
		}
		avances = append(avances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, &storage.IntegrationError{Source: "avances_planta", Err: fmt.Errorf("%s: %w", op, err)}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &storage.PersistenceError{Op: op, Err: err}
	}
	defer tx.Rollback()

	result := &storage.ImportResult{}
	for _, a := range avances {
		// el cruce va por código de negocio: OT + proceso + etapa
		res, err := tx.ExecContext(ctx, `
			UPDATE procesos_ruta p
			JOIN ordenes_trabajo ot ON ot.id = p.ot_id
			SET p.cantidad_buena = p.cantidad_buena + ?
			WHERE ot.programa_id = ? AND ot.codigo_ot = ? AND p.codigo_proceso = ? AND p.etapa = ?`,
			a.qty, programID, a.otCode, a.procCode, a.stage)
		if err != nil {
			return nil, &storage.PersistenceError{Op: op, Err: err}
		}
		if n, _ := res.RowsAffected(); n == 0 {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("avance sin proceso destino: OT %s proceso %s etapa %d", a.otCode, a.procCode, a.stage))
			continue
		}
		result.RecordsImported++
	}

	// el avance de la OT se recalcula desde su último proceso de ruta
	_, err = tx.ExecContext(ctx, `
		UPDATE ordenes_trabajo ot
		JOIN (
			SELECT p.ot_id, p.cantidad_buena
			FROM procesos_ruta p
			JOIN (
				SELECT ot_id, MAX(etapa) AS etapa FROM procesos_ruta GROUP BY ot_id
			) ult ON ult.ot_id = p.ot_id AND ult.etapa = p.etapa
		) fin ON fin.ot_id = ot.id
		SET ot.cantidad_avance = fin.cantidad_buena
		WHERE ot.programa_id = ?`, programID)
	if err != nil {
		return nil, &storage.PersistenceError{Op: op, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &storage.PersistenceError{Op: op, Err: err}
	}
	return result, nil
}
