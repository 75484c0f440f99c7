package storage

import "time"

// ScheduleInterval es un bloque programado para un proceso. Un proceso que
// cruza varios días del calendario laboral tiene varios bloques.
type ScheduleInterval struct {
	ID            string    `json:"id"`
	ProcessStepID int64     `json:"proceso_id"`
	Start         time.Time `json:"inicio"`
	End           time.Time `json:"fin"`
	Quantity      float64   `json:"cantidad"`
	Cumulative    float64   `json:"cantidad_acumulada"`
}

// Snapshot es la foto inmutable del programa al cierre de un día. Las
// métricas agregadas van en columnas propias; el detalle completo de las OT
// se serializa aparte para no tener que recalcular la historia.
type Snapshot struct {
	ID              string               `json:"id"`
	Date            time.Time            `json:"fecha"`
	TotalWorkOrders int                  `json:"total_ot"`
	TotalAdvanced   float64              `json:"avance_total"`
	PercentAdvanced float64              `json:"porcentaje_avance"`
	DayAdvanced     float64              `json:"avance_dia"`
	ValueProduced   float64              `json:"valor_producido"`
	WeightProduced  float64              `json:"peso_producido"`
	Efficiency      float64              `json:"eficiencia"`
	StateCounts     map[ProcessState]int `json:"conteo_estados"`
	Notes           string               `json:"notas"`
	ImportPerformed bool                 `json:"importacion_realizada"`
	WorkOrders      []*WorkOrder         `json:"ordenes"`
}

// ImportResult es lo que devuelve la importación de avances del sistema de
// planta (colaborador externo).
type ImportResult struct {
	RecordsImported int      `json:"registros_importados"`
	Warnings        []string `json:"advertencias"`
}
