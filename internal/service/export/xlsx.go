package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/brewmetric/brewmetric-backend/internal/domain"
	"github.com/brewmetric/brewmetric-backend/pkg/ctxutil"
)

const inventorySheet = "Inventory"

// InventoryXLSX writes the full non-deleted inventory as an XLSX
// workbook with the same columns as the CSV export.
func (s *Service) InventoryXLSX(ctx context.Context, w io.Writer) error {
	sess, ok := ctxutil.SessionFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := domain.Authorize(sess.Role, domain.ActionExportInventory); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(inventorySheet)
	if err != nil {
		return fmt.Errorf("export.InventoryXLSX new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export.InventoryXLSX drop default sheet: %w", err)
	}

	header := make([]any, len(inventoryHeader))
	for i, h := range inventoryHeader {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		return fmt.Errorf("export.InventoryXLSX write header: %w", err)
	}

	now := time.Now()
	rowNo := 1
	total := 0
	err = s.eachItem(ctx, func(it *domain.InventoryItem) error {
		rowNo++
		total++
		cells := s.inventoryRow(it, now)
		row := make([]any, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		return setRow(f, rowNo, row)
	})
	if err != nil {
		return fmt.Errorf("export.InventoryXLSX: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.InventoryXLSX write workbook: %w", err)
	}

	s.recordExport(ctx, sess, fmt.Sprintf("inventory xlsx, %d rows", total))
	return nil
}

func setRow(f *excelize.File, rowNo int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNo)
	if err != nil {
		return err
	}
	return f.SetSheetRow(inventorySheet, cell, &cells)
}
