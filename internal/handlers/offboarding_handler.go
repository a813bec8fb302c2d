package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"hr-onboarding/internal/events"
	"hr-onboarding/internal/logger"
	"hr-onboarding/internal/models"
)

type OffboardingStore interface {
	Create(ctx context.Context, rec *models.OffboardingRecord) error
	List(ctx context.Context) ([]models.OffboardingRecord, error)
}

type OffboardingHandler struct {
	store  OffboardingStore
	events events.Publisher
}

func NewOffboardingHandler(store OffboardingStore, pub events.Publisher) *OffboardingHandler {
	return &OffboardingHandler{store: store, events: pub}
}

type offboardingInput struct {
	Name         string          `json:"name" binding:"required"`
	EmpID        string          `json:"empId" binding:"required"`
	Position     string          `json:"position" binding:"required"`
	Department   string          `json:"department" binding:"required"`
	Feedback     string          `json:"feedback"`
	FinalSalary  decimal.Decimal `json:"finalSalary"`
	Bonus        decimal.Decimal `json:"bonus"`
	Acknowledged bool            `json:"acknowledged"`
}

// Submit handles POST /submit-offboarding.
func (h *OffboardingHandler) Submit(c *gin.Context) {
	var in offboardingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid input: "+err.Error())
		return
	}
	if in.FinalSalary.IsNegative() || in.Bonus.IsNegative() {
		badRequest(c, "finalSalary and bonus cannot be negative")
		return
	}

	rec := &models.OffboardingRecord{
		Name:         strings.TrimSpace(in.Name),
		EmpID:        strings.TrimSpace(in.EmpID),
		Position:     strings.TrimSpace(in.Position),
		Department:   strings.TrimSpace(in.Department),
		FinalSalary:  in.FinalSalary,
		Bonus:        in.Bonus,
		Acknowledged: in.Acknowledged,
		Status:       models.StatusPending,
	}
	if fb := strings.TrimSpace(in.Feedback); fb != "" {
		rec.Feedback = &fb
	}

	ctx := c.Request.Context()
	if err := h.store.Create(ctx, rec); err != nil {
		serverError(c, "Failed to submit offboarding form", err, "")
		return
	}

	e := events.NewEvent(events.KindOffboardingCreated, rec.ID, rec.EmpID, rec.Status, rec.Department)
	if err := h.events.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("kind", e.Kind).Msg("publish event")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Offboarding form submitted successfully",
		"id":      rec.ID,
	})
}

// List handles GET /offboarding-records.
func (h *OffboardingHandler) List(c *gin.Context) {
	rows, err := h.store.List(c.Request.Context())
	if err != nil {
		serverError(c, "Failed to fetch offboarding records", err, "")
		return
	}
	c.JSON(http.StatusOK, rows)
}
