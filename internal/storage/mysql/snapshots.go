package mysql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gantt-golang/internal/storage"
)

// SaveSnapshot persiste la foto del cierre. Las métricas van en columnas
// para consultar la historia sin deserializar; el detalle completo de las
// OT va serializado en estado_json. La foto es inmutable: solo INSERT.
func (s *Storage) SaveSnapshot(ctx context.Context, programID int64, snap *storage.Snapshot) (string, error) {
	const op = "storage.mysql.SaveSnapshot"

	stateJSON, err := json.Marshal(snap.WorkOrders)
	if err != nil {
		return "", &storage.PersistenceError{Op: op, Err: err}
	}
	countsJSON, err := json.Marshal(snap.StateCounts)
	if err != nil {
		return "", &storage.PersistenceError{Op: op, Err: err}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots
			(id, programa_id, fecha, total_ot, avance_total, avance_dia, porcentaje_avance,
			 valor_producido, peso_producido, eficiencia, conteo_estados, notas, importacion_realizada, estado_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, programID, snap.Date, snap.TotalWorkOrders, snap.TotalAdvanced, snap.DayAdvanced,
		snap.PercentAdvanced, snap.ValueProduced, snap.WeightProduced, snap.Efficiency,
		countsJSON, snap.Notes, snap.ImportPerformed, stateJSON)
	if err != nil {
		return "", &storage.PersistenceError{Op: op, Err: err}
	}

	return snap.ID, nil
}

func (s *Storage) scanSnapshot(row interface {
	Scan(dest ...any) error
}) (*storage.Snapshot, error) {
	var snap storage.Snapshot
	var countsJSON, stateJSON []byte
	err := row.Scan(&snap.ID, &snap.Date, &snap.TotalWorkOrders, &snap.TotalAdvanced, &snap.DayAdvanced,
		&snap.PercentAdvanced, &snap.ValueProduced, &snap.WeightProduced, &snap.Efficiency,
		&countsJSON, &snap.Notes, &snap.ImportPerformed, &stateJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(countsJSON, &snap.StateCounts); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stateJSON, &snap.WorkOrders); err != nil {
		return nil, err
	}
	return &snap, nil
}

const snapshotColumns = `id, fecha, total_ot, avance_total, avance_dia, porcentaje_avance,
	valor_producido, peso_producido, eficiencia, conteo_estados, notas, importacion_realizada, estado_json`

func (s *Storage) GetSnapshot(ctx context.Context, id string) (*storage.Snapshot, error) {
	const op = "storage.mysql.GetSnapshot"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE id = ?`, id)

	snap, err := s.scanSnapshot(row)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%s: %w", op, &storage.NotFoundError{Entity: "snapshot", Key: id})
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return snap, nil
}

// GetSnapshotByDate busca la foto de un día puntual del programa.
func (s *Storage) GetSnapshotByDate(ctx context.Context, programID int64, date time.Time) (*storage.Snapshot, error) {
	const op = "storage.mysql.GetSnapshotByDate"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE programa_id = ? AND fecha = ?`, programID, date)

	snap, err := s.scanSnapshot(row)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%s: %w", op,
				&storage.NotFoundError{Entity: "snapshot", Key: date.Format("2006-01-02")})
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return snap, nil
}

// GetSnapshotsMonth lista las fotos de un mes, sin el estado materializado
// (estado_json queda vacío) para no arrastrar megas a la vista de historia.
func (s *Storage) GetSnapshotsMonth(ctx context.Context, programID int64, year, month int) ([]*storage.Snapshot, error) {
	const op = "storage.mysql.GetSnapshotsMonth"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fecha, total_ot, avance_total, avance_dia, porcentaje_avance,
		       valor_producido, peso_producido, eficiencia, conteo_estados, notas, importacion_realizada
		FROM snapshots
		WHERE programa_id = ? AND YEAR(fecha) = ? AND MONTH(fecha) = ?
		ORDER BY fecha`, programID, year, month)
	if err != nil {
		return nil, fmt.Errorf("%s: programa %d: %w", op, programID, err)
	}
	defer rows.Close()

	var snaps []*storage.Snapshot
	for rows.Next() {
		var snap storage.Snapshot
		var countsJSON []byte
		if err := rows.Scan(&snap.ID, &snap.Date, &snap.TotalWorkOrders, &snap.TotalAdvanced, &snap.DayAdvanced,
			&snap.PercentAdvanced, &snap.ValueProduced, &snap.WeightProduced, &snap.Efficiency,
			&countsJSON, &snap.Notes, &snap.ImportPerformed); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(countsJSON, &snap.StateCounts); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		snaps = append(snaps, &snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return snaps, nil
}

// AdvanceScheduleDate corre la fecha de trabajo del programa. Solo la llama
// el cierre de día, después de persistir la foto.
func (s *Storage) AdvanceScheduleDate(ctx context.Context, programID int64, newDate time.Time) error {
	const op = "storage.mysql.AdvanceScheduleDate"

	res, err := s.db.ExecContext(ctx,
		`UPDATE programas SET fecha_trabajo = ? WHERE id = ?`, newDate, programID)
	if err != nil {
		return &storage.PersistenceError{Op: op, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &storage.NotFoundError{Entity: "programa", Key: fmt.Sprint(programID)}
	}
	return nil
}
