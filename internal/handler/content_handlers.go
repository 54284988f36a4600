package handler

import (
	"net/http"

	"launchtracker/internal/domain"
	"launchtracker/internal/service"
	"launchtracker/internal/validate"

	"go.uber.org/zap"
)

func listAssetsHandler(svc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		assets, err := svc.ListAssets(r.Context(), user.ID, planID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, assets)
	}
}

func createAssetHandler(svc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.CreateAssetInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		asset, err := svc.CreateAsset(r.Context(), user.ID, planID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, asset)
	}
}

func deleteAssetHandler(svc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		assetID, err := pathID(r, "assetId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if err := svc.DeleteAsset(r.Context(), user.ID, planID, assetID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "Asset deleted")
	}
}

func listNotesHandler(svc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		q := r.URL.Query()
		filter := domain.NoteFilter{LinkedType: q.Get("linkedType"), LinkedID: q.Get("linkedId")}

		notes, err := svc.ListNotes(r.Context(), user.ID, planID, filter)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusOK, notes)
	}
}

func createNoteHandler(svc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var in domain.CreateNoteInput
		if err := decodeJSON(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if err := validate.Struct(in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		note, err := svc.CreateNote(r.Context(), user.ID, planID, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, http.StatusCreated, note)
	}
}

func deleteNoteHandler(svc *service.ContentService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		planID, err := pathID(r, "id")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		noteID, err := pathID(r, "noteId")
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		if err := svc.DeleteNote(r.Context(), user.ID, planID, noteID); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeMessage(w, http.StatusOK, "Note deleted")
	}
}
