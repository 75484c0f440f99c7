package mysql

import (
	"context"
	"fmt"

	"gantt-golang/internal/storage"
)

// GetProgramState materializa el estado completo del programa: OTs con sus
// rutas, en orden de prioridad. Dos consultas y armado en memoria.
func (s *Storage) GetProgramState(ctx context.Context, programID int64) ([]*storage.WorkOrder, error) {
	const op = "storage.mysql.GetProgramState"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, codigo_ot, descripcion, prioridad, cantidad_total, cantidad_avance, peso_unitario, valor_unitario
		FROM ordenes_trabajo
		WHERE programa_id = ?
		ORDER BY prioridad, codigo_ot`, programID)
	if err != nil {
		return nil, fmt.Errorf("%s: programa %d: %w", op, programID, err)
	}
	defer rows.Close()

	var orders []*storage.WorkOrder
	byID := map[int64]*storage.WorkOrder{}
	for rows.Next() {
		var o storage.WorkOrder
		if err := rows.Scan(&o.ID, &o.Code, &o.Description, &o.Priority,
			&o.QuantityTotal, &o.QuantityAdvanced, &o.UnitWeight, &o.UnitValue); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, &o)
		byID[o.ID] = &o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stepRows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.ot_id, ot.codigo_ot, p.etapa, p.codigo_proceso, p.nombre_proceso,
		       p.maquina_id, m.codigo, p.estandar, p.cantidad_total, p.cantidad_buena, p.detenido
		FROM procesos_ruta p
		JOIN ordenes_trabajo ot ON ot.id = p.ot_id
		LEFT JOIN maquinas m ON m.id = p.maquina_id
		WHERE ot.programa_id = ?
		ORDER BY p.ot_id, p.etapa, p.id`, programID)
	if err != nil {
		return nil, fmt.Errorf("%s: procesos programa %d: %w", op, programID, err)
	}
	defer stepRows.Close()

	for stepRows.Next() {
		var p storage.ProcessStep
		if err := stepRows.Scan(&p.ID, &p.WorkOrderID, &p.WorkOrderCode, &p.Stage, &p.ProcessCode, &p.ProcessName,
			&p.MachineID, &p.MachineCode, &p.Rate, &p.QuantityTotal, &p.QuantityDone, &p.Stopped); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if o, ok := byID[p.WorkOrderID]; ok {
			o.Steps = append(o.Steps, &p)
		}
	}
	if err := stepRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

// GetScheduleIntervals trae los bloques programados del programa, tal como
// los dejó el proceso de asignación. La partición por día la hace el
// calendario laboral, no la base.
func (s *Storage) GetScheduleIntervals(ctx context.Context, programID int64) ([]*storage.ScheduleInterval, error) {
	const op = "storage.mysql.GetScheduleIntervals"

	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.proceso_id, b.inicio, b.fin, b.cantidad, b.cantidad_acumulada
		FROM bloques_programa b
		JOIN procesos_ruta p ON p.id = b.proceso_id
		JOIN ordenes_trabajo ot ON ot.id = p.ot_id
		WHERE ot.programa_id = ?
		ORDER BY b.inicio`, programID)
	if err != nil {
		return nil, fmt.Errorf("%s: programa %d: %w", op, programID, err)
	}
	defer rows.Close()

	var intervals []*storage.ScheduleInterval
	for rows.Next() {
		var iv storage.ScheduleInterval
		if err := rows.Scan(&iv.ID, &iv.ProcessStepID, &iv.Start, &iv.End, &iv.Quantity, &iv.Cumulative); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		intervals = append(intervals, &iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return intervals, nil
}
