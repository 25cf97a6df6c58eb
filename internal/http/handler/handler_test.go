package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"healthe/internal/model"
	"healthe/internal/service"
	serviceMocks "healthe/internal/service/mocks"
	"healthe/internal/storage"
)

const testRefID = "AAAABBBBCCCC11112222"

func intPtr(v int) *int { return &v }

func newFileStore(t *testing.T) *storage.FileStore {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return files
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHealth(t *testing.T) {
	app := fiber.New()
	app.Get("/health", Health())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "ok", body["status"])
}

func TestReadiness(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/readyz", Readiness(db))

	t.Run("ready", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("db unavailable", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestStartIntake(t *testing.T) {
	mockSvc := new(serviceMocks.MockIntakeService)
	app := fiber.New()
	app.Post("/api/intake/start", StartIntake(mockSvc))

	validBody := service.SubmitRequest{Name: "Jane Doe", Age: intPtr(34), Sex: "Female", AcceptedTerms: true}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, validBody).Return(&service.SubmitResult{
			RefID:        testRefID,
			ReportPDFURL: "/api/report/" + testRefID + ".pdf",
		}, nil).Once()

		resp := postJSON(t, app, "/api/intake/start", validBody)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.SubmitResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, testRefID, result.RefID)
		assert.Equal(t, "/api/report/"+testRefID+".pdf", result.ReportPDFURL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("terms not accepted", func(t *testing.T) {
		body := validBody
		body.AcceptedTerms = false
		mockSvc.On("Submit", mock.Anything, body).Return(nil, service.ErrTermsNotAccepted).Once()

		resp := postJSON(t, app, "/api/intake/start", body)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "TERMS_NOT_ACCEPTED", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation failure carries field detail", func(t *testing.T) {
		body := validBody
		body.Age = intPtr(150)
		mockSvc.On("Submit", mock.Anything, body).Return(nil, &service.ValidationError{
			Fields: map[string]string{"age": "must be at most 120"},
		}).Once()

		resp := postJSON(t, app, "/api/intake/start", body)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
		assert.Equal(t, "must be at most 120", res.Error.Details["age"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/intake/start", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_BODY", res.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Submit", mock.Anything, validBody).Return(nil, errors.New("db down")).Once()

		resp := postJSON(t, app, "/api/intake/start", validBody)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetReportJSON(t *testing.T) {
	mockSvc := new(serviceMocks.MockIntakeService)
	app := fiber.New()
	app.Get("/api/report/:refId", GetReportJSON(mockSvc))

	t.Run("success", func(t *testing.T) {
		payload := &model.Payload{
			Intake:       model.Intake{Name: "Jane Doe", Age: intPtr(34), Sex: "Female"},
			AI:           model.AIResult{Condition: "Non-specific symptoms (screening suggestion)"},
			CreatedAtUTC: "2025-03-14T09:26:53Z",
		}
		mockSvc.On("GetReport", mock.Anything, testRefID).Return(payload, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/report/"+testRefID, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Payload
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, "Jane Doe", result.Intake.Name)
		assert.Equal(t, 34, *result.Intake.Age)
		assert.Equal(t, "Female", result.Intake.Sex)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("GetReport", mock.Anything, "ZZZZZZZZZZZZZZZZZZZZ").
			Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/report/ZZZZZZZZZZZZZZZZZZZZ", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("GetReport", mock.Anything, testRefID).
			Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/report/"+testRefID, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetReportPDF(t *testing.T) {
	files := newFileStore(t)
	app := fiber.New()
	app.Get("/api/report/:refId.pdf", GetReportPDF(files))

	t.Run("streams existing file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(files.Path(testRefID), []byte("%PDF-1.4 content"), 0o644))

		req := httptest.NewRequest(http.MethodGet, "/api/report/"+testRefID+".pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), "Health-E_"+testRefID+".pdf")

		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 content", string(b))
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/report/ZZZZZZZZZZZZZZZZZZZZ.pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})
}

func TestRouting(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockIntakeService)
	files := newFileStore(t)
	RegisterRoutes(app, db, mockSvc, files)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("pdf route takes precedence over json route", func(t *testing.T) {
		require.NoError(t, os.WriteFile(files.Path(testRefID), []byte("%PDF"), 0o644))

		req := httptest.NewRequest(http.MethodGet, "/api/report/"+testRefID+".pdf", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		// GetReport must not have been consulted for the .pdf path
		mockSvc.AssertNotCalled(t, "GetReport", mock.Anything, mock.Anything)
	})
}
