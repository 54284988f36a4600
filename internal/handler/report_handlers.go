package handler

import (
	"fmt"
	"net/http"
	"time"

	"launchtracker/internal/domain"
	"launchtracker/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func calendarHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		calendar, err := svc.Calendar(r.Context(), user.ID, planID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, calendar)
	}
}

func dayViewHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		date := chi.URLParam(r, "date")
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			handleServiceError(w, &domain.ErrValidation{Message: "Invalid date in URL"}, logger)
			return
		}

		day, err := svc.Day(r.Context(), user.ID, planID, date)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, day)
	}
}

func reportHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		report, err := svc.Report(r.Context(), user.ID, planID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, report)
	}
}

func exportCSVHandler(svc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		filename, data, err := svc.ExportCSV(r.Context(), user.ID, planID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
