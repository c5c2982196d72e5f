package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/travel-desk/agency-api/internal/apierr"
	"github.com/travel-desk/agency-api/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	reports *service.ReportingService
}

func NewAdminHandler(reports *service.ReportingService) *AdminHandler {
	return &AdminHandler{reports: reports}
}

type DashboardResponse struct {
	Body *service.Dashboard
}

func (h *AdminHandler) HandleDashboard(ctx context.Context, _ *struct{}) (*DashboardResponse, error) {
	dashboard, err := h.reports.Dashboard(ctx)
	if err != nil {
		return nil, apierr.From(err)
	}
	return &DashboardResponse{Body: dashboard}, nil
}

type ExportResponse struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func (h *AdminHandler) HandleExport(ctx context.Context, _ *struct{}) (*ExportResponse, error) {
	var buf bytes.Buffer
	if err := h.reports.ExportBookings(ctx, &buf); err != nil {
		return nil, apierr.From(err)
	}
	return &ExportResponse{
		ContentType:        xlsxContentType,
		ContentDisposition: fmt.Sprintf(`attachment; filename="bookings-%s.xlsx"`, time.Now().UTC().Format("20060102")),
		Body:               buf.Bytes(),
	}, nil
}
