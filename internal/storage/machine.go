package storage

import "time"

type Machine struct {
	ID          int64  `json:"id"`
	Code        string `json:"codigo"`
	Description string `json:"descripcion"`
}

// Standard es el estándar (unidades/hora) de un par proceso-máquina dentro
// de una ruta. Solo una máquina por ruta debe quedar como principal; esa
// unicidad la garantiza la capa mysql al guardar.
type Standard struct {
	RouteID     int64   `json:"ruta_id"`
	ProcessID   int64   `json:"proceso_id"`
	MachineID   int64   `json:"maquina_id"`
	Rate        float64 `json:"estandar"`
	IsPrincipal bool    `json:"es_principal"`
}

type Operator struct {
	ID         int64  `json:"id"`
	Name       string `json:"nombre"`
	NationalID string `json:"rut"`
}

// Assignment relaciona un operador con un proceso en una ventana de tiempo.
// Crear una nueva para el mismo proceso reemplaza la anterior.
type Assignment struct {
	ProcessStepID int64     `json:"proceso_id"`
	Operator      Operator  `json:"operador"`
	Start         time.Time `json:"inicio"`
	End           time.Time `json:"fin"`
}
