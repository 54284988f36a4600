package handler

import (
	"net/http"

	"launchtracker/internal/domain"
	"launchtracker/internal/service"
	"launchtracker/internal/validate"

	"go.uber.org/zap"
)

func listTasksHandler(svc *service.TaskService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		q := r.URL.Query()
		filter := domain.TaskFilter{
			Status:   q.Get("status"),
			Priority: q.Get("priority"),
			Category: q.Get("category"),
			Date:     q.Get("date"),
		}

		tasks, err := svc.List(r.Context(), user.ID, planID, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, tasks)
	}
}

func createTaskHandler(svc *service.TaskService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.CreateTaskInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		task, err := svc.Create(r.Context(), user.ID, planID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, task)
	}
}

func updateTaskHandler(svc *service.TaskService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		taskID, err := pathID(r, "taskId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.UpdateTaskInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		task, err := svc.Update(r.Context(), user.ID, planID, taskID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, task)
	}
}

func completeTaskHandler(svc *service.TaskService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		taskID, err := pathID(r, "taskId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		// Body is optional for the quick action.
		var in domain.CompleteTaskInput
		if r.ContentLength > 0 {
			if err := decodeJSON(r, &in); err != nil {
				handleServiceError(w, err, logger)
				return
			}
		}

		task, err := svc.Complete(r.Context(), user.ID, planID, taskID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, task)
	}
}

func deleteTaskHandler(svc *service.TaskService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		taskID, err := pathID(r, "taskId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if err := svc.Delete(r.Context(), user.ID, planID, taskID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "Task deleted")
	}
}
