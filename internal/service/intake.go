package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"healthe/internal/model"
	"healthe/internal/refid"
	"healthe/internal/report"
	"healthe/internal/repository"
	"healthe/internal/storage"
)

var (
	ErrTermsNotAccepted = errors.New("terms must be accepted")
	ErrRefIDRequired    = errors.New("ref id is required")
	ErrNotFound         = errors.New("intake record not found")
)

// ValidationError carries field-level detail for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+" "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// SubmitRequest is the intake form as received from the client. Age is a
// pointer so a body that omits it fails `required` instead of validating as
// zero.
type SubmitRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=120"`
	Age           *int   `json:"age" validate:"required,min=0,max=120"`
	Sex           string `json:"sex" validate:"required,oneof=Male Female"`
	AcceptedTerms bool   `json:"acceptedTerms"`
}

// SubmitResult is returned for a successful submission.
type SubmitResult struct {
	RefID        string `json:"refId"`
	ReportPDFURL string `json:"reportPdfUrl"`
}

// IntakeService defines the use cases for intake submissions and report reads.
type IntakeService interface {
	// Submit validates the form, then generates a reference ID, synthesizes
	// the placeholder screening result, renders the PDF, and persists the
	// record — in that order. Validation happens before any side effect.
	Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error)

	// GetReport returns the stored payload document for a reference ID, or
	// ErrNotFound.
	GetReport(ctx context.Context, refID string) (*model.Payload, error)
}

// intakeService is a concrete implementation of IntakeService.
type intakeService struct {
	repo     repository.IntakeRepository
	renderer report.Renderer
	files    *storage.FileStore
	archive  storage.Archiver // nil when archival is disabled
	validate *validator.Validate
	newRefID func() string
}

// NewIntakeService constructs a new IntakeService. archive may be nil.
func NewIntakeService(repo repository.IntakeRepository, renderer report.Renderer, files *storage.FileStore, archive storage.Archiver) IntakeService {
	return &intakeService{
		repo:     repo,
		renderer: renderer,
		files:    files,
		archive:  archive,
		validate: validator.New(),
		newRefID: refid.New,
	}
}

func (s *intakeService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	if !req.AcceptedTerms {
		return nil, ErrTermsNotAccepted
	}

	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, asValidationError(err)
	}

	refID := s.newRefID()
	now := time.Now().UTC()
	age := *req.Age // non-nil after validation
	payload := model.Payload{
		Intake:       model.Intake{Name: req.Name, Age: &age, Sex: req.Sex},
		AI:           placeholderResult(),
		CreatedAtUTC: now.Format(time.RFC3339),
	}

	if err := s.renderer.Render(s.files.Path(refID), refID, &payload); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	stored, err := s.repo.Create(ctx, &model.IntakeRecord{
		RefID:     refID,
		Payload:   payload,
		CreatedAt: now,
	})
	if err != nil {
		// The rendered PDF stays behind with no matching record; there is
		// no reconciliation step. A duplicate ref_id also lands here — the
		// submission fails rather than retrying with a fresh ID.
		return nil, fmt.Errorf("store intake: %w", err)
	}

	s.archiveReport(ctx, stored.RefID)

	return &SubmitResult{
		RefID:        stored.RefID,
		ReportPDFURL: "/api/report/" + stored.RefID + ".pdf",
	}, nil
}

func (s *intakeService) GetReport(ctx context.Context, refID string) (*model.Payload, error) {
	if refID == "" {
		return nil, ErrRefIDRequired
	}
	rec, err := s.repo.FindByRefID(ctx, refID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec.Payload, nil
}

// archiveReport copies the rendered PDF to the archive bucket. Failures are
// logged and swallowed; the record is already durable.
func (s *intakeService) archiveReport(ctx context.Context, refID string) {
	if s.archive == nil {
		return
	}
	rc, size, err := s.files.Open(refID)
	if err != nil {
		logArchiveFailure(refID, err)
		return
	}
	defer rc.Close()

	key := "reports/" + refID + ".pdf"
	if err := s.archive.Put(ctx, key, rc, size, "application/pdf"); err != nil {
		logArchiveFailure(refID, err)
	}
}

// placeholderResult is the hardcoded screening output attached to every
// submission until a real model is plugged in.
func placeholderResult() model.AIResult {
	return model.AIResult{
		Condition: "Non-specific symptoms (screening suggestion)",
		OTC: []string{
			"Acetaminophen (as directed on label) for pain/fever",
			"Oral rehydration + rest",
		},
		Notes: "Based on limited intake data only. Add symptoms/chat to enable better screening. " +
			"Verify allergies, contraindications, pregnancy status, and current meds before use.",
	}
}

func asValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}

func logArchiveFailure(refID string, err error) {
	b, mErr := json.Marshal(map[string]any{
		"ts":        time.Now().UTC().Format(time.RFC3339Nano),
		"level":     "warn",
		"component": "service",
		"event":     "report_archive_failed",
		"ref_id":    refID,
		"error":     err.Error(),
	})
	if mErr != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
