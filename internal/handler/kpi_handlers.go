package handler

import (
	"net/http"

	"launchtracker/internal/domain"
	"launchtracker/internal/service"
	"launchtracker/internal/validate"

	"go.uber.org/zap"
)

func listKpisHandler(svc *service.KpiService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		kpis, err := svc.List(r.Context(), user.ID, planID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, kpis)
	}
}

func createKpiHandler(svc *service.KpiService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.CreateKpiInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		kpi, err := svc.Create(r.Context(), user.ID, planID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, kpi)
	}
}

func deleteKpiHandler(svc *service.KpiService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		kpiID, err := pathID(r, "kpiId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if err := svc.Delete(r.Context(), user.ID, planID, kpiID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "KPI deleted")
	}
}

func listKpiEntriesHandler(svc *service.KpiService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		kpiID, err := pathID(r, "kpiId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		entries, err := svc.ListEntries(r.Context(), user.ID, planID, kpiID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, entries)
	}
}

func addKpiEntryHandler(svc *service.KpiService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		kpiID, err := pathID(r, "kpiId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.CreateKpiEntryInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		entry, err := svc.AddEntry(r.Context(), user.ID, planID, kpiID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, entry)
	}
}

func listAlertsHandler(svc *service.KpiService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		// ?resolved=false narrows to open alerts; anything else returns all.
		unresolvedOnly := r.URL.Query().Get("resolved") == "false"

		alerts, err := svc.ListAlerts(r.Context(), user.ID, planID, unresolvedOnly)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, alerts)
	}
}

func resolveAlertHandler(svc *service.KpiService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		alertID, err := pathID(r, "alertId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.ResolveAlertInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		alert, err := svc.ResolveAlert(r.Context(), user.ID, planID, alertID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, alert)
	}
}
