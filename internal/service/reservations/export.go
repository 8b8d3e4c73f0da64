package reservations

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
	"github.com/m04kA/SMC-TourBookingService/internal/service/reservations/models"
)

const (
	exportSheet   = "Reservations"
	exportMaxRows = 10000
)

var exportColumns = []string{
	"ID", "Code", "Activity", "Date", "Time", "Seats", "Status", "Source",
	"Customer", "Email", "Phone", "Total", "Currency", "External ID", "Notes", "Created At",
}

// Export пишет XLSX с бронированиями по фильтру. Limit и Offset игнорируются,
// выгрузка ограничена exportMaxRows строками.
func (s *Service) Export(ctx context.Context, req *models.ListRequest, w io.Writer) error {
	filter, err := toFilter(req)
	if err != nil {
		return err
	}
	filter.Limit = exportMaxRows
	filter.Offset = 0

	list, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("Export: repository error: %v", err)
		return fmt.Errorf("%w: Export - repository error: %v", ErrInternal, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, list); err != nil {
		s.logger.Error("Export: build workbook: %v", err)
		return fmt.Errorf("%w: Export - build workbook: %v", ErrInternal, err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: Export - write workbook: %v", ErrInternal, err)
	}

	s.logger.Info("Export: %d reservations exported", len(list))
	return nil
}

func writeSheet(f *excelize.File, list []*domain.Reservation) error {
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c
	}
	if err := writeRow(f, 1, header); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		end, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = f.SetCellStyle(exportSheet, "A1", end, style)
	}

	for i, r := range list {
		row := []interface{}{
			r.ID,
			r.Code,
			r.ActivityName,
			r.Date.Format(domain.DateFormat),
			r.Time.String(),
			r.Seats,
			string(r.Status),
			string(r.Source),
			r.CustomerName,
			r.CustomerEmail,
			r.CustomerPhone,
			r.TotalPrice,
			r.Currency,
			deref(r.ExternalID),
			deref(r.Notes),
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(exportSheet, cell, &values)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
