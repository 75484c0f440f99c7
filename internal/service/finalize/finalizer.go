// Package finalize orquesta el cierre del día: captura el estado del
// programa, importa avances si corresponde, vuelve a capturar, compara,
// persiste la foto y recién ahí corre la fecha de trabajo.
package finalize

import (
	"context"
	"fmt"
	"time"

	"gantt-golang/internal/service/snapshot"
	"gantt-golang/internal/storage"
)

type State string

const (
	StateIdle            State = "IDLE"
	StateCapturingBefore State = "CAPTURING_BEFORE"
	StateImporting       State = "IMPORTING"
	StateCapturingAfter  State = "CAPTURING_AFTER"
	StateDiffing         State = "DIFFING"
	StatePersisting      State = "PERSISTING"
	StateAdvancingDate   State = "ADVANCING_DATE"
	StateDone            State = "DONE"
	StateFailed          State = "FAILED"
)

type FinalizeStorage interface {
	GetProgramState(ctx context.Context, programID int64) ([]*storage.WorkOrder, error)
	ImportProgress(ctx context.Context, programID int64, date time.Time) (*storage.ImportResult, error)
	SaveSnapshot(ctx context.Context, programID int64, snap *storage.Snapshot) (string, error)
	AdvanceScheduleDate(ctx context.Context, programID int64, newDate time.Time) error
}

// FinalizeError deja registrado en qué paso reventó el cierre y conserva la
// captura previa para diagnóstico del operador.
type FinalizeError struct {
	FailedAt State
	Before   []*storage.WorkOrder
	Err      error
}

func (e *FinalizeError) Error() string {
	return fmt.Sprintf("cierre de día falló en %s: %v", e.FailedAt, e.Err)
}

func (e *FinalizeError) Unwrap() error { return e.Err }

type FinalizeResult struct {
	SnapshotID    string                    `json:"snapshot_id"`
	State         State                     `json:"estado"`
	Snapshot      *storage.Snapshot         `json:"snapshot"`
	Deltas        []snapshot.WorkOrderDelta `json:"deltas"`
	NewWorkOrders []*storage.WorkOrder      `json:"ot_nuevas,omitempty"`
	Import        *storage.ImportResult     `json:"importacion,omitempty"`
}

type Finalizer struct {
	storage FinalizeStorage
}

func NewFinalizer(st FinalizeStorage) *Finalizer {
	return &Finalizer{storage: st}
}

// FinalizeDay corre la máquina de estados del cierre. Invariante central:
// la fecha de trabajo jamás avanza sin una foto persistida; cualquier fallo
// (incluida una cancelación a mitad de paso) termina en FAILED con el paso
// que lo causó. Sin flag de importación no hay segunda lectura: la captura
// posterior reutiliza la previa y la comparación sale trivialmente vacía.
func (f *Finalizer) FinalizeDay(ctx context.Context, programID int64, date time.Time, importFlag bool, notes string) (*FinalizeResult, error) {
	fail := func(at State, before []*storage.WorkOrder, err error) (*FinalizeResult, error) {
		return nil, &FinalizeError{FailedAt: at, Before: before, Err: err}
	}

	// CAPTURING_BEFORE: la captura previa debe quedar completa en memoria
	// antes de tocar cualquier importación.
	before, err := f.storage.GetProgramState(ctx, programID)
	if err != nil {
		return fail(StateCapturingBefore, nil, err)
	}

	after := before
	var imp *storage.ImportResult

	if importFlag {
		// IMPORTING: un fallo acá no persiste nada.
		if err := ctx.Err(); err != nil {
			return fail(StateImporting, before, err)
		}
		imp, err = f.storage.ImportProgress(ctx, programID, date)
		if err != nil {
			return fail(StateImporting, before, err)
		}

		// CAPTURING_AFTER: debe reflejar los efectos de la importación,
		// por eso recién ahora se vuelve a leer.
		after, err = f.storage.GetProgramState(ctx, programID)
		if err != nil {
			return fail(StateCapturingAfter, before, err)
		}
	}

	// DIFFING
	deltas, nuevas := snapshot.DiffAll(before, after)
	snap := snapshot.Build(date, after, notes, importFlag)
	for _, d := range deltas {
		if !d.NotFound {
			snap.DayAdvanced += d.Quantity.Diff
		}
	}

	// PERSISTING
	if err := ctx.Err(); err != nil {
		return fail(StatePersisting, before, err)
	}
	snapID, err := f.storage.SaveSnapshot(ctx, programID, snap)
	if err != nil {
		return fail(StatePersisting, before, err)
	}
	snap.ID = snapID

	// ADVANCING_DATE: solo después de persistir.
	if err := f.storage.AdvanceScheduleDate(ctx, programID, date.AddDate(0, 0, 1)); err != nil {
		return fail(StateAdvancingDate, before, err)
	}

	return &FinalizeResult{
		SnapshotID:    snapID,
		State:         StateDone,
		Snapshot:      snap,
		Deltas:        deltas,
		NewWorkOrders: nuevas,
		Import:        imp,
	}, nil
}
