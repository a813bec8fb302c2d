package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hr-onboarding/internal/events"
	"hr-onboarding/internal/export"
	"hr-onboarding/internal/logger"
	"hr-onboarding/internal/models"
	"hr-onboarding/internal/repository/onboarding"
	"hr-onboarding/internal/storage"
)

// multipart field values are small; this is added on top of the file limits.
const formFieldBytes = 1 << 20

type OnboardingStore interface {
	Create(ctx context.Context, rec *models.OnboardingRecord, beforeCommit func() error) error
	List(ctx context.Context, f onboarding.Filter) ([]models.OnboardingRecord, int, error)
	ListAll(ctx context.Context, f onboarding.Filter) ([]models.OnboardingRecord, error)
	Get(ctx context.Context, id int64) (models.OnboardingRecord, error)
	UpdateStatus(ctx context.Context, id int64, status models.Status) (models.OnboardingRecord, error)
	FileReference(ctx context.Context, id int64, slot models.Slot) (models.StoredFile, error)
}

type FileStash interface {
	Stage(slot models.Slot, fh *multipart.FileHeader) (*storage.StagedFile, error)
	Promote(files []*storage.StagedFile) error
	Discard(files []*storage.StagedFile)
	Resolve(path string) (string, error)
}

type OnboardingHandler struct {
	store   OnboardingStore
	stash   FileStash
	events  events.Publisher
	maxBody int64
	now     func() time.Time
}

func NewOnboardingHandler(store OnboardingStore, stash FileStash, pub events.Publisher, limits storage.Limits) *OnboardingHandler {
	return &OnboardingHandler{
		store:   store,
		stash:   stash,
		events:  pub,
		maxBody: limits.ProfilePic + int64(len(models.Slots)-1)*limits.Document + formFieldBytes,
		now:     time.Now,
	}
}

// Create handles POST /api/employees.
func (h *OnboardingHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			badRequest(c, "Request body too large")
			return
		}
		badRequest(c, "Invalid multipart form")
		return
	}

	rec, err := parseOnboardingForm(form.Value, h.now(), log)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	staged, err := h.stage(form.File, rec)
	if err != nil {
		h.stash.Discard(staged)
		var (
			typeErr *storage.InvalidFileTypeError
			sizeErr *storage.FileTooLargeError
			vErr    *validationError
		)
		switch {
		case errors.As(err, &typeErr), errors.As(err, &sizeErr), errors.As(err, &vErr):
			badRequest(c, err.Error())
		default:
			serverError(c, "Failed to store uploaded files", err, "")
		}
		return
	}

	err = h.store.Create(ctx, rec, func() error { return h.stash.Promote(staged) })
	if err != nil {
		h.stash.Discard(staged)
		var dup *onboarding.DuplicateError
		if errors.As(err, &dup) {
			serverError(c, "Failed to submit form data", err, dup.Error())
			return
		}
		serverError(c, "Failed to submit form data", err, "")
		return
	}

	log.Info().Int64("id", rec.ID).Str("emp_id", rec.EmpID).Int("files", len(staged)).Msg("onboarding record created")
	h.publish(ctx, events.NewEvent(events.KindOnboardingCreated, rec.ID, rec.EmpID, rec.Status, rec.Department))

	c.JSON(http.StatusCreated, gin.H{
		"message": "Employee onboarding form submitted successfully",
		"id":      rec.ID,
		"emp_id":  rec.EmpID,
	})
}

// stage validates and stages every uploaded slot. The returned files must be
// discarded by the caller on error.
func (h *OnboardingHandler) stage(files map[string][]*multipart.FileHeader, rec *models.OnboardingRecord) ([]*storage.StagedFile, error) {
	var staged []*storage.StagedFile
	for _, slot := range models.Slots {
		fhs := files[string(slot)]
		if len(fhs) == 0 {
			continue
		}
		if len(fhs) > 1 {
			return staged, invalid("only one file allowed for '%s'", slot)
		}
		f, err := h.stash.Stage(slot, fhs[0])
		if err != nil {
			return staged, err
		}
		staged = append(staged, f)
		rec.SetDocument(slot, f.Stored())
	}
	return staged, nil
}

func (h *OnboardingHandler) filter(c *gin.Context) (onboarding.Filter, bool) {
	f := onboarding.Filter{
		Search: c.Query("search"),
		Page:   queryInt(c, "page", onboarding.DefaultPage),
		Limit:  queryInt(c, "limit", onboarding.DefaultLimit),
	}
	if raw := c.Query("status"); raw != "" {
		s, ok := models.ParseStatus(raw)
		if !ok {
			badRequest(c, "Invalid status filter; allowed: "+models.StatusNames())
			return f, false
		}
		f.Status = s
	}
	return f.Normalize(), true
}

// List handles GET /api/onboarding.
func (h *OnboardingHandler) List(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}

	data, total, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		serverError(c, "Failed to fetch records", err, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       data,
		"total":      total,
		"page":       f.Page,
		"limit":      f.Limit,
		"totalPages": f.TotalPages(total),
	})
}

// Export handles GET /api/onboarding/export.
func (h *OnboardingHandler) Export(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}

	data, err := h.store.ListAll(c.Request.Context(), f)
	if err != nil {
		serverError(c, "Failed to fetch records", err, "")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteOnboarding(&buf, data); err != nil {
		serverError(c, "Failed to export records", err, "")
		return
	}

	name := fmt.Sprintf("onboarding-%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// Get handles GET /api/onboarding/:id.
func (h *OnboardingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	rec, err := h.store.Get(c.Request.Context(), id)
	if errors.Is(err, onboarding.ErrNotFound) {
		notFound(c, "Record not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to fetch record", err, "")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Active handles GET /api/employees/active.
func (h *OnboardingHandler) Active(c *gin.Context) {
	data, err := h.store.ListAll(c.Request.Context(), onboarding.Filter{
		Status: models.StatusActive,
		Search: c.Query("search"),
	})
	if err != nil {
		serverError(c, "Failed to fetch active employees", err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// File handles GET /api/onboarding/:id/file/:field.
func (h *OnboardingHandler) File(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	slot, ok := models.ParseSlot(c.Param("field"))
	if !ok {
		badRequest(c, "Invalid file field")
		return
	}

	ref, err := h.store.FileReference(c.Request.Context(), id, slot)
	switch {
	case errors.Is(err, onboarding.ErrUnknownSlot):
		badRequest(c, "Invalid file field")
		return
	case errors.Is(err, onboarding.ErrNotFound):
		notFound(c, "File not found")
		return
	case err != nil:
		serverError(c, "Failed to serve file", err, "")
		return
	}

	path, err := h.stash.Resolve(ref.Path)
	if errors.Is(err, storage.ErrFileMissing) {
		logger.FromContext(c.Request.Context()).Warn().Int64("id", id).Str("path", ref.Path).Msg("stored file missing on disk")
		notFound(c, "File not found")
		return
	}
	if err != nil {
		serverError(c, "Failed to serve file", err, "")
		return
	}

	name := ref.Name
	if name == "" {
		name = string(slot)
	}
	if slot.Inline() {
		c.Header("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": name}))
		c.File(path)
		return
	}
	c.FileAttachment(path, name)
}

type statusInput struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/onboarding/:id.
func (h *OnboardingHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// an empty body is treated as a missing status
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid JSON body")
		return
	}
	if in.Status == "" {
		badRequest(c, "Status is required")
		return
	}
	status, ok := models.ParseStatus(in.Status)
	if !ok {
		badRequest(c, "Invalid status; allowed: "+models.StatusNames())
		return
	}

	ctx := c.Request.Context()
	rec, err := h.store.UpdateStatus(ctx, id, status)
	switch {
	case errors.Is(err, onboarding.ErrNotFound):
		notFound(c, "Record not found")
		return
	case errors.Is(err, onboarding.ErrInvalidStatus):
		badRequest(c, "Invalid status; allowed: "+models.StatusNames())
		return
	case err != nil:
		serverError(c, "Failed to update record", err, "")
		return
	}

	h.publish(ctx, events.NewEvent(events.KindOnboardingStatusChanged, rec.ID, rec.EmpID, rec.Status, rec.Department))
	c.JSON(http.StatusOK, rec)
}

// publish never fails the request; the record is already committed.
func (h *OnboardingHandler) publish(ctx context.Context, e events.Event) {
	if err := h.events.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("kind", e.Kind).Str("emp_id", e.EmpID).Msg("publish event")
	}
}
