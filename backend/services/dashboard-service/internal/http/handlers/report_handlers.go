package handlers

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"citydash/backend/services/dashboard-service/internal/apperr"
	"citydash/backend/services/dashboard-service/internal/media"
	"citydash/backend/services/dashboard-service/internal/models"
	"citydash/backend/services/dashboard-service/internal/validation"
)

const maxUploadBytes = 10 << 20

// ReportManager runs the citizen report lifecycle.
type ReportManager interface {
	Create(ctx context.Context, report *models.CitizenReport) (*models.CitizenReport, error)
	Get(ctx context.Context, id int64) (*models.CitizenReport, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.CitizenReport, error)
	Update(ctx context.Context, id int64, patch models.ReportPatch) (*models.CitizenReport, error)
}

// ReportHandlers serves the citizen report endpoints.
type ReportHandlers struct {
	reports ReportManager
	media   media.Store
	logger  *zap.Logger
}

// NewReportHandlers builds handlers. store may be nil, which rejects file uploads.
func NewReportHandlers(reports ReportManager, store media.Store, logger *zap.Logger) *ReportHandlers {
	return &ReportHandlers{reports: reports, media: store, logger: logger}
}

// Create handles POST /reports with a JSON, urlencoded or multipart body.
func (h *ReportHandlers) Create(w http.ResponseWriter, r *http.Request) {
	obj, err := decodeObject(w, r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	report, err := validation.ReportFromObject(obj)
	if err != nil {
		writeAppError(w, err)
		return
	}

	key, err := h.saveUpload(r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if key != "" {
		report.Image = &key
	}

	created, err := h.reports.Create(r.Context(), report)
	if err != nil {
		h.discardUpload(r.Context(), key)
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// discardUpload removes a stored image whose report was never inserted.
func (h *ReportHandlers) discardUpload(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.media.Delete(context.WithoutCancel(ctx), key); err != nil {
		h.logger.Warn("remove orphaned report image", zap.String("key", key), zap.Error(err))
	}
}

// saveUpload stores the multipart "image" file part, if any, and returns its key.
func (h *ReportHandlers) saveUpload(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" || r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return "", nil
	}
	if h.media == nil {
		return "", apperr.Validation("Invalid report", apperr.FieldErrors{"image": {"File uploads are not enabled."}})
	}

	header := r.MultipartForm.File["image"][0]
	file, err := header.Open()
	if err != nil {
		return "", apperr.Validation("Invalid report", apperr.FieldErrors{"image": {"The submitted file could not be read."}})
	}
	defer file.Close()

	key, err := h.media.Save(r.Context(), header.Filename, file)
	switch {
	case errors.Is(err, media.ErrUnsupportedType):
		return "", apperr.Validation("Invalid report", apperr.FieldErrors{
			"image": {"Upload a valid image. The file you uploaded was either not an image or a corrupted image."},
		})
	case err != nil:
		h.logger.Error("save report image", zap.Error(err))
		return "", apperr.Storage("Failed to store image", err)
	}
	return key, nil
}

// List handles GET /reports?status=&issue_type=&ordering=.
func (h *ReportHandlers) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ReportFilter{
		Status:    models.ReportStatus(q.Get("status")),
		IssueType: models.IssueType(q.Get("issue_type")),
		Ordering:  q.Get("ordering"),
	}
	reports, err := h.reports.List(r.Context(), filter)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// Get handles GET /reports/{id}.
func (h *ReportHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	report, err := h.reports.Get(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Update handles PATCH /reports/{id}.
func (h *ReportHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := reportID(w, r)
	if !ok {
		return
	}
	obj, err := decodeObject(w, r)
	if err != nil {
		writeAppError(w, err)
		return
	}
	patch, err := validation.ReportPatchFromObject(obj)
	if err != nil {
		writeAppError(w, err)
		return
	}
	report, err := h.reports.Update(r.Context(), id, patch)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func reportID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusNotFound, string(apperr.KindNotFound), "Report "+raw+" not found")
		return 0, false
	}
	return id, true
}
