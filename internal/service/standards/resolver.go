package standards

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"gantt-golang/internal/storage"
)

type StandardStorage interface {
	GetCompatibleMachines(ctx context.Context, processID int64, subjectType string, subjectID int64) ([]*storage.Machine, error)
	GetStandards(ctx context.Context, processID int64, subjectType string, subjectID int64) ([]*storage.Standard, error)
	SaveStandard(ctx context.Context, routeID, machineID int64, rate float64, isPrincipal bool) error
}

// MachineStandard es una máquina compatible con su estándar resuelto.
// Rate 0 significa "sin estándar definido", no cero producción.
type MachineStandard struct {
	Machine     *storage.Machine `json:"maquina"`
	Rate        float64          `json:"estandar"`
	IsPrincipal bool             `json:"es_principal"`
}

type Resolver struct {
	storage StandardStorage
	cache   *resolveCache
}

func NewResolver(st StandardStorage) *Resolver {
	return &Resolver{storage: st, cache: newResolveCache()}
}

// CompatibleMachines delega en la capa de datos; las reglas de
// compatibilidad no viven en este núcleo.
func (r *Resolver) CompatibleMachines(ctx context.Context, processID int64, subjectType string, subjectID int64) ([]*storage.Machine, error) {
	const op = "standards.CompatibleMachines"

	machines, err := r.storage.GetCompatibleMachines(ctx, processID, subjectType, subjectID)
	if err != nil {
		return nil, fmt.Errorf("%s: proceso %d: %w", op, processID, err)
	}
	return machines, nil
}

// StandardsFor devuelve los estándares por máquina. Un fallo del lookup
// degrada a mapa vacío: "sin estándares" nunca es fatal para el que llama.
func (r *Resolver) StandardsFor(ctx context.Context, processID int64, subjectType string, subjectID int64) map[int64]*storage.Standard {
	stds, err := r.storage.GetStandards(ctx, processID, subjectType, subjectID)
	if err != nil {
		return map[int64]*storage.Standard{}
	}

	byMachine := make(map[int64]*storage.Standard, len(stds))
	for _, s := range stds {
		byMachine[s.MachineID] = s
	}
	return byMachine
}

// Resolve junta máquinas compatibles con sus estándares. Es un left join
// desde las máquinas: una máquina sin estándar sale con rate 0 y no
// principal, nunca se cae del resultado. Los dos lookups son independientes
// y van en paralelo; los resultados solo se juntan al final.
func (r *Resolver) Resolve(ctx context.Context, processID int64, subjectType string, subjectID int64) ([]MachineStandard, error) {
	const op = "standards.Resolve"

	if cached, ok := r.cache.Get(processID); ok {
		return cached, nil
	}

	var (
		machines []*storage.Machine
		stds     map[int64]*storage.Standard
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		machines, err = r.storage.GetCompatibleMachines(gCtx, processID, subjectType, subjectID)
		if err != nil {
			return fmt.Errorf("máquinas compatibles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		stds = r.StandardsFor(gCtx, processID, subjectType, subjectID)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: proceso %d: %w", op, processID, err)
	}

	resolved := make([]MachineStandard, 0, len(machines))
	for _, m := range machines {
		ms := MachineStandard{Machine: m}
		if s, ok := stds[m.ID]; ok {
			ms.Rate = s.Rate
			ms.IsPrincipal = s.IsPrincipal
		}
		resolved = append(resolved, ms)
	}

	r.cache.Put(processID, resolved)
	return resolved, nil
}

// UpdateStandard persiste un estándar nuevo o editado y recién después
// invalida la entrada de cache del proceso, para que ningún lector vea una
// entrada a medio escribir.
func (r *Resolver) UpdateStandard(ctx context.Context, routeID, processID, machineID int64, rate float64, isPrincipal bool) error {
	const op = "standards.UpdateStandard"

	if rate < 0 {
		return fmt.Errorf("%s: %w", op,
			&storage.ValidationError{Field: "estandar", Reason: fmt.Sprintf("no puede ser negativo (%.2f)", rate)})
	}

	if err := r.storage.SaveStandard(ctx, routeID, machineID, rate, isPrincipal); err != nil {
		return fmt.Errorf("%s: ruta %d máquina %d: %w", op, routeID, machineID, err)
	}

	r.cache.Invalidate(processID)
	return nil
}
