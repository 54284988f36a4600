package handler

import (
	"net/http"

	"launchtracker/internal/domain"
	"launchtracker/internal/service"
	"launchtracker/internal/validate"

	"go.uber.org/zap"
)

func listPlansHandler(svc *service.PlanService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		plans, err := svc.List(r.Context(), user.ID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, plans)
	}
}

func listTemplatesHandler(svc *service.PlanService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, svc.Templates(r.Context()))
	}
}

func getPlanHandler(svc *service.PlanService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		plan, err := svc.Get(r.Context(), user.ID, planID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, plan)
	}
}

func createPlanHandler(svc *service.PlanService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())

		var in domain.CreatePlanInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		plan, err := svc.Create(r.Context(), user.ID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, plan)
	}
}

func updatePlanHandler(svc *service.PlanService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.UpdatePlanInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		plan, err := svc.Update(r.Context(), user.ID, planID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, plan)
	}
}

func deletePlanHandler(svc *service.PlanService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if err := svc.Delete(r.Context(), user.ID, planID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "Plan deleted")
	}
}
