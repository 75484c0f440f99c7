package generate_excel

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"gantt-golang/internal/service/snapshot"
	"gantt-golang/internal/storage"
)

type ReportStorage interface {
	GetSnapshotByDate(ctx context.Context, programID int64, date time.Time) (*storage.Snapshot, error)
}

type ReportService struct {
	storage ReportStorage
}

func NewReportService(st ReportStorage) *ReportService {
	return &ReportService{storage: st}
}

// GenerateEvolutionExcel arma el informe de evolución del período entre dos
// fotos persistidas: resumen arriba, una fila por OT con sus deltas abajo.
func (g *ReportService) GenerateEvolutionExcel(ctx context.Context, programID int64, from, to time.Time) ([]byte, error) {
	const op = "generate_excel.GenerateEvolutionExcel"

	snapA, err := g.storage.GetSnapshotByDate(ctx, programID, from)
	if err != nil {
		return nil, fmt.Errorf("%s: foto inicial: %w", op, err)
	}
	snapB, err := g.storage.GetSnapshotByDate(ctx, programID, to)
	if err != nil {
		return nil, fmt.Errorf("%s: foto final: %w", op, err)
	}

	ev := snapshot.AggregatePeriod(snapA, snapB)
	if ev.Swapped {
		snapA, snapB = snapB, snapA
	}
	deltas, nuevas := snapshot.DiffAll(snapA.WorkOrders, snapB.WorkOrders)

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Evolución"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	// resumen del período
	f.SetCellValue(sheet, "A1", "Período")
	f.SetCellValue(sheet, "B1", fmt.Sprintf("%s a %s", ev.From.Format("02-01-2006"), ev.To.Format("02-01-2006")))
	f.SetCellValue(sheet, "A2", "Avance del período")
	f.SetCellValue(sheet, "B2", ev.AdvancedDelta)
	f.SetCellValue(sheet, "A3", "Puntos de porcentaje")
	f.SetCellValue(sheet, "B3", ev.PercentPointDelta)
	f.SetCellValue(sheet, "A4", "Valor producido")
	f.SetCellValue(sheet, "B4", ev.ValueDelta)
	f.SetCellValue(sheet, "A5", "OT completadas")
	f.SetCellValue(sheet, "B5", ev.CompletedTransitions)

	headers := []string{"OT", "Avance inicial", "Avance final", "Diferencia", "% inicial", "% final", "Observación"}
	headerRow := 7
	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(sheet, cell, name)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), headerRow)
	firstCol, _ := excelize.CoordinatesToCellName(1, headerRow)
	f.SetCellStyle(sheet, firstCol, lastCol, headerStyle)

	row := headerRow + 1
	for _, d := range deltas {
		f.SetCellValue(sheet, cellName(1, row), d.Code)
		if d.NotFound {
			f.SetCellValue(sheet, cellName(7, row), "no encontrada en la foto final")
			row++
			continue
		}
		f.SetCellValue(sheet, cellName(2, row), d.Quantity.Before)
		f.SetCellValue(sheet, cellName(3, row), d.Quantity.After)
		f.SetCellValue(sheet, cellName(4, row), d.Quantity.Diff)
		f.SetCellValue(sheet, cellName(5, row), d.Percent.Before)
		f.SetCellValue(sheet, cellName(6, row), d.Percent.After)
		row++
	}
	for _, o := range nuevas {
		f.SetCellValue(sheet, cellName(1, row), o.Code)
		f.SetCellValue(sheet, cellName(3, row), o.QuantityAdvanced)
		f.SetCellValue(sheet, cellName(7, row), "nueva en el período")
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	return cell
}
