package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"kvitto/internal/domain"
)

const auditSheet = "Audit Log"

// AuditXLSX renders audit entries as an Excel workbook with a bold, frozen
// header row. Column order matches the CSV export.
func AuditXLSX(entries []domain.AuditLogEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(auditSheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for col, title := range auditHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(auditSheet, cell, title); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		end, _ := excelize.CoordinatesToCellName(len(auditHeader), 1)
		_ = f.SetCellStyle(auditSheet, "A1", end, headerStyle)
	}
	_ = f.SetPanes(auditSheet, &excelize.Panes{Freeze: true, YSplit: 1, ActivePane: "bottomLeft"})

	for row, e := range entries {
		for col, val := range auditRecord(e) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(auditSheet, cell, val); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row+2, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
