package handler

import (
	"net/http"

	"launchtracker/internal/domain"
	"launchtracker/internal/service"
	"launchtracker/internal/validate"

	"go.uber.org/zap"
)

func listContactsHandler(svc *service.ContactService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		q := r.URL.Query()
		filter := domain.ContactFilter{Segment: q.Get("segment"), Status: q.Get("status")}

		contacts, err := svc.List(r.Context(), user.ID, planID, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, contacts)
	}
}

func createContactHandler(svc *service.ContactService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.CreateContactInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		contact, err := svc.Create(r.Context(), user.ID, planID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, contact)
	}
}

func updateContactHandler(svc *service.ContactService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		contactID, err := pathID(r, "contactId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.UpdateContactInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		contact, err := svc.Update(r.Context(), user.ID, planID, contactID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, contact)
	}
}

func deleteContactHandler(svc *service.ContactService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		contactID, err := pathID(r, "contactId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if err := svc.Delete(r.Context(), user.ID, planID, contactID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "Contact deleted")
	}
}

func importContactsHandler(svc *service.ContactService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.ImportContactsInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		result, err := svc.Import(r.Context(), user.ID, planID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, result)
	}
}

func listOutreachEventsHandler(svc *service.ContactService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		events, err := svc.ListEvents(r.Context(), user.ID, planID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, events)
	}
}

func createOutreachEventHandler(svc *service.ContactService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.CreateOutreachEventInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		event, err := svc.CreateEvent(r.Context(), user.ID, planID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, event)
	}
}
