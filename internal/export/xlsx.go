package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dlr1251/chimeneasluque/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Reservas"

var headers = []string{
	"ID", "Fecha", "Hora", "Nombre", "Teléfono", "Email",
	"Dirección", "Producto", "Notas", "Creada",
}

// BuildWorkbook renders the reservation collection as an xlsx workbook.
func BuildWorkbook(reservations []models.Reservation) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for row, r := range reservations {
		values := []any{
			r.ID, r.Date, r.Time, r.ContactName, r.Phone, r.Email,
			r.Address, r.ProductType, r.Notes,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 30)
	_ = f.SetColWidth(sheetName, "B", "J", 20)

	return f, nil
}

// WriteWorkbook renders and saves the workbook at path, creating the
// directory if needed.
func WriteWorkbook(path string, reservations []models.Reservation) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating export directory: %w", err)
	}

	f, err := BuildWorkbook(reservations)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}
