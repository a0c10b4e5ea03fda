package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gov-dx-sandbox/home-inventory/shared/monitoring"
	"github.com/gov-dx-sandbox/home-inventory/v1/i18n"
	"github.com/gov-dx-sandbox/home-inventory/v1/report"
)

// ReportFilename is the download name of the PDF report
const ReportFilename = "home-inventory.pdf"

func (h *V1Handler) downloadReport(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListRoomsWithItems(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, r, err, "load report rooms")
		return
	}

	doc := report.BuildReport(i18n.FromContext(r.Context()), rooms)
	pdf, err := report.Render(doc)
	if err != nil {
		monitoring.RecordBusinessEvent("report_generated", "failure")
		handleServiceError(w, r, err, "render report")
		return
	}

	monitoring.RecordBusinessEvent("report_generated", "success")
	slog.Info("Report generated", "userId", user.UserID, "rooms", len(rooms), "pages", doc.Pages)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+ReportFilename)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("Failed to write report", "error", err)
	}
}
