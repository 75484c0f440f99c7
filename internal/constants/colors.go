package constants

import "gantt-golang/internal/storage"

// Colores del Gantt. En modo ejecución el color sale del estado del proceso;
// en modo planificación, del tipo de proceso. Clave desconocida → DefaultColor.

var StateColors = map[storage.ProcessState]string{
	storage.StatePending:    "#9e9e9e",
	storage.StateInProgress: "#1e88e5",
	storage.StateCompleted:  "#43a047",
	storage.StateStopped:    "#e53935",
}

var StageColors = map[string]string{
	"URD": "#8e24aa", // urdido
	"TEJ": "#3949ab", // tejido
	"TIN": "#00897b", // tintorería
	"REV": "#f4511e", // revisado
	"EMB": "#6d4c41", // embalaje
}

const DefaultColor = "#607d8b"
