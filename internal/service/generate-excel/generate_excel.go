package generate_excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"prod-scheduler/internal/service/planner"
)

const (
	scheduleSheet  = "Schedule"
	materialsSheet = "Materials"
)

type GenerateExcelStorage interface {
	Snapshot(ctx context.Context) (planner.State, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

// GenerateExcel строит xlsx: план на days дней вперёд и остатки материалов.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, days int) ([]byte, error) {
	const op = "service.generate_excel.GenerateExcel"

	state, err := g.storage.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch data: %w", op, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scheduleSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := f.NewSheet(materialsSheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	fullStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "C00000"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: full style: %w", op, err)
	}

	// --- План ---
	// шапка: Дата | изделие 1 | изделие 2 ...
	f.SetCellValue(scheduleSheet, cellName(1, 1), "Date")
	for i, c := range state.Capacities {
		f.SetCellValue(scheduleSheet, cellName(i+2, 1), c.Name)
	}
	f.SetCellStyle(scheduleSheet, "A1", cellName(len(state.Capacities)+1, 1), headerStyle)

	for rowIdx, day := range state.Schedule.Window(days) {
		rowNum := rowIdx + 2
		f.SetCellValue(scheduleSheet, cellName(1, rowNum), day.Date)

		for _, e := range day.Entries {
			col := capacityColumn(state, e.Product)
			if col < 0 {
				continue
			}
			cell := cellName(col, rowNum)
			f.SetCellValue(scheduleSheet, cell, fmt.Sprintf("%d/%d", e.Allocated, e.Capacity))
			if e.Full() {
				f.SetCellStyle(scheduleSheet, cell, cell, fullStyle)
			}
		}
	}

	f.SetPanes(scheduleSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
	f.SetColWidth(scheduleSheet, "A", "A", 14)

	// --- Материалы ---
	f.SetCellValue(materialsSheet, "A1", "Material")
	f.SetCellValue(materialsSheet, "B1", "Remaining")
	f.SetCellStyle(materialsSheet, "A1", "B1", headerStyle)

	for i, m := range state.Materials {
		rowNum := i + 2
		f.SetCellValue(materialsSheet, cellName(1, rowNum), m.Name)
		f.SetCellValue(materialsSheet, cellName(2, rowNum), m.Remaining.InexactFloat64())
		if m.Remaining.IsNegative() {
			f.SetCellStyle(materialsSheet, cellName(2, rowNum), cellName(2, rowNum), fullStyle)
		}
	}
	f.SetColWidth(materialsSheet, "A", "B", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return buf.Bytes(), nil
}

func capacityColumn(state planner.State, product string) int {
	for i, c := range state.Capacities {
		if c.Name == product {
			return i + 2
		}
	}
	return -1
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
