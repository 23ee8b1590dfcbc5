// Package export renders work-order listings as spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/telconova/portal/internal/domains/orders/domain"
	"github.com/telconova/portal/internal/domains/orders/ports"
)

// SheetName is the worksheet holding the orders in xlsx exports.
const SheetName = "Ordenes"

var headers = []string{
	"Número", "Cliente", "Identificación", "Teléfono", "Actividad",
	"Prioridad", "Estado", "Descripción", "Responsable", "Creada", "Actualizada",
}

// Exporter writes xlsx and csv documents.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Write(w io.Writer, format ports.ExportFormat, orders []domain.EnrichedOrder) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, row(o))
	}
	switch format {
	case ports.FormatCSV:
		return writeCSV(w, rows)
	case ports.FormatXLSX:
		return writeXLSX(w, rows)
	}
	return fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, format)
}

func row(o domain.EnrichedOrder) []string {
	clientName := o.ClientName.String()
	var identification, phone string
	if o.Client != nil {
		clientName = o.Client.Name
		identification = o.Client.Identification
		phone = o.Client.Phone
	}
	return []string{
		o.OrderNumber.String(),
		clientName,
		identification,
		phone,
		string(o.Activity),
		string(o.Priority),
		string(o.Status),
		o.Description,
		o.ResponsibleUserID.String(),
		o.CreatedAt.String(),
		o.UpdatedAt.String(),
	}
}

func writeCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := setRow(f, 1, headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	for i, values := range rows {
		if err := setRow(f, i+2, values); err != nil {
			return err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

var _ ports.Exporter = (*Exporter)(nil)
