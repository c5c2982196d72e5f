package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeaders = []string{
	"ID", "Customer", "Package", "Destination", "Travelers", "TotalPrice", "Status", "DateBooked",
}

// ExportBookings writes all bookings, newest first, as an .xlsx workbook.
func (s *ReportingService) ExportBookings(ctx context.Context, w io.Writer) error {
	bookings, err := s.ListAllBookings(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	for i, b := range bookings {
		row := i + 2
		var customer, pkg, destination string
		if b.Account != nil {
			customer = b.Account.Username
		}
		if b.Package != nil {
			pkg = b.Package.Name
			if b.Package.Destination != nil {
				destination = b.Package.Destination.Name
			}
		}
		values := []any{
			b.ID, customer, pkg, destination, b.Travelers, b.TotalPrice, string(b.Status),
			b.BookedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(exportSheet, cell, v)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
