package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"gantt-golang/internal/storage"
)

// GetCompatibleMachines lista las máquinas que pueden correr el proceso,
// según la tabla de compatibilidad que mantiene ingeniería.
func (s *Storage) GetCompatibleMachines(ctx context.Context, processID int64, subjectType string, subjectID int64) ([]*storage.Machine, error) {
	const op = "storage.mysql.GetCompatibleMachines"

	// la compatibilidad puede depender del sujeto (OT o pieza), no solo
	// del tipo de proceso
	query := `
		SELECT m.id, m.codigo, m.descripcion
		FROM maquinas m
		JOIN maquinas_compatibles mc ON mc.maquina_id = m.id
		WHERE mc.proceso_id = ?
		  AND mc.tipo_sujeto = ?
		  AND (mc.sujeto_id = ? OR mc.sujeto_id IS NULL)
		ORDER BY m.codigo`

	rows, err := s.db.QueryContext(ctx, query, processID, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%s: proceso %d: %w", op, processID, err)
	}
	defer rows.Close()

	var machines []*storage.Machine
	for rows.Next() {
		var m storage.Machine
		if err := rows.Scan(&m.ID, &m.Code, &m.Description); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		machines = append(machines, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if machines == nil {
		// sin máquinas no es lo mismo que sujeto inválido
		if err := s.subjectExists(ctx, subjectType, subjectID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return []*storage.Machine{}, nil
	}
	return machines, nil
}

func (s *Storage) subjectExists(ctx context.Context, subjectType string, subjectID int64) error {
	table := "ordenes_trabajo"
	if subjectType == "pieza" {
		table = "piezas"
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = ?)`, subjectID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return &storage.NotFoundError{Entity: subjectType, Key: strconv.FormatInt(subjectID, 10)}
	}
	return nil
}

// GetStandards trae los estándares definidos para el proceso. Sin estándares
// no es error: vuelve lista vacía.
func (s *Storage) GetStandards(ctx context.Context, processID int64, subjectType string, subjectID int64) ([]*storage.Standard, error) {
	const op = "storage.mysql.GetStandards"

	query := `
		SELECT e.ruta_id, e.proceso_id, e.maquina_id, e.estandar, e.es_principal
		FROM estandares e
		WHERE e.proceso_id = ?
		  AND e.tipo_sujeto = ?
		  AND e.sujeto_id = ?`

	rows, err := s.db.QueryContext(ctx, query, processID, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%s: proceso %d: %w", op, processID, err)
	}
	defer rows.Close()

	stds := []*storage.Standard{}
	for rows.Next() {
		var st storage.Standard
		if err := rows.Scan(&st.RouteID, &st.ProcessID, &st.MachineID, &st.Rate, &st.IsPrincipal); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stds = append(stds, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stds, nil
}

// SaveStandard inserta o actualiza el estándar de una máquina en la ruta.
// Si queda como principal, en la misma transacción se baja el flag de las
// demás máquinas de esa ruta: una sola principal por ruta.
func (s *Storage) SaveStandard(ctx context.Context, routeID, machineID int64, rate float64, isPrincipal bool) error {
	const op = "storage.mysql.SaveStandard"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}
	defer tx.Rollback()

	if isPrincipal {
		_, err = tx.ExecContext(ctx,
			`UPDATE estandares SET es_principal = 0 WHERE ruta_id = ? AND maquina_id <> ?`,
			routeID, machineID)
		if err != nil {
			return &storage.PersistenceError{Op: op, Err: err}
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO estandares (ruta_id, proceso_id, tipo_sujeto, sujeto_id, maquina_id, estandar, es_principal)
		SELECT r.id, r.proceso_id, r.tipo_sujeto, r.sujeto_id, ?, ?, ?
		FROM rutas r WHERE r.id = ?
		ON DUPLICATE KEY UPDATE estandar = VALUES(estandar), es_principal = VALUES(es_principal)`,
		machineID, rate, isPrincipal, routeID)
	if err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}
	return nil
}

// GetAssignments trae la asignación vigente de operador por proceso del
// programa. A lo más una activa por proceso: la más reciente supersede.
func (s *Storage) GetAssignments(ctx context.Context, programID int64) ([]*storage.Assignment, error) {
	const op = "storage.mysql.GetAssignments"

	query := `
		SELECT a.proceso_id, a.operador_id, o.nombre, o.rut, a.inicio, a.fin
		FROM asignaciones a
		JOIN operadores o ON o.id = a.operador_id
		JOIN procesos_ruta p ON p.id = a.proceso_id
		JOIN ordenes_trabajo ot ON ot.id = p.ot_id
		WHERE ot.programa_id = ?
		ORDER BY a.proceso_id, a.inicio DESC`

	rows, err := s.db.QueryContext(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("%s: programa %d: %w", op, programID, err)
	}
	defer rows.Close()

	seen := map[int64]bool{}
	var assigns []*storage.Assignment
	for rows.Next() {
		var a storage.Assignment
		if err := rows.Scan(&a.ProcessStepID, &a.Operator.ID, &a.Operator.Name, &a.Operator.NationalID, &a.Start, &a.End); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if seen[a.ProcessStepID] {
			continue
		}
		seen[a.ProcessStepID] = true
		assigns = append(assigns, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return assigns, nil
}

// SaveAssignment reemplaza la asignación del proceso: crear una nueva para
// el mismo proceso es una actualización, no una adición.
func (s *Storage) SaveAssignment(ctx context.Context, a storage.Assignment) error {
	const op = "storage.mysql.SaveAssignment"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO asignaciones (proceso_id, operador_id, inicio, fin)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE operador_id = VALUES(operador_id), inicio = VALUES(inicio), fin = VALUES(fin)`,
		a.ProcessStepID, a.Operator.ID, a.Start, a.End)
	if err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
