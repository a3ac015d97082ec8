package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlibdev/catalog-export/internal/database"
	"github.com/openlibdev/catalog-export/internal/database/status"
	"github.com/openlibdev/catalog-export/internal/entities"
	"github.com/openlibdev/catalog-export/internal/export"
)

func setupExportsTestDB(t *testing.T) (*status.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_exports_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return status.NewRepository(db.DB), cleanup
}

// stubStrategy only exists so the registry recognizes an export type;
// the controller never runs it.
type stubStrategy struct {
	name string
}

func (s stubStrategy) Name() string       { return s.name }
func (s stubStrategy) MaxRecChunk() int   { return 500 }
func (s stubStrategy) MaxDelChunk() int   { return 1000 }
func (s stubStrategy) Prefetch() []string { return nil }

func (s stubStrategy) GetRecords(ctx context.Context, f database.ResolvedFilter, preloads []string, offset, limit int) ([]any, error) {
	return nil, nil
}

func (s stubStrategy) GetDeletions(ctx context.Context, f database.ResolvedFilter) ([]string, error) {
	return nil, nil
}

func (s stubStrategy) ExportRecords(ctx context.Context, records []any) (export.ChunkResult, error) {
	return export.ChunkResult{}, nil
}

func (s stubStrategy) DeleteRecords(ctx context.Context, ids []string) (export.ChunkResult, error) {
	return export.ChunkResult{}, nil
}

func (s stubStrategy) CompileVals(chunks []export.Vals) export.Vals { return nil }

func (s stubStrategy) FinalCallback(ctx context.Context, vals export.Vals, st entities.ExportStatus) error {
	return nil
}

func testRegistry() *export.Registry {
	r := export.NewRegistry()
	r.Register(stubStrategy{name: "bibs_to_solr"})
	r.Register(stubStrategy{name: "items_to_solr"})
	return r
}

type triggerCall struct {
	exportType string
	filter     export.FilterSpec
	failOnZero bool
}

func recordingTrigger(calls *[]triggerCall) TriggerFunc {
	return func(ctx context.Context, exportType string, filter export.FilterSpec, failOnZero bool) (string, error) {
		*calls = append(*calls, triggerCall{exportType, filter, failOnZero})
		return "job-123", nil
	}
}

func TestExportsController_Run(t *testing.T) {
	t.Run("triggers export and returns job id", func(t *testing.T) {
		statusRepo, cleanup := setupExportsTestDB(t)
		defer cleanup()

		var calls []triggerCall
		controller := NewExportsController(statusRepo, testRegistry(), recordingTrigger(&calls))
		router := gin.New()
		router.POST("/api/exports", controller.Run)

		body := bytes.NewBufferString(`{"export_type": "bibs_to_solr", "filter": {"type": "full_export"}}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/exports", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "job-123", response["job_id"])
		assert.Equal(t, "bibs_to_solr", response["export_type"])

		require.Len(t, calls, 1)
		assert.Equal(t, "bibs_to_solr", calls[0].exportType)
		assert.Equal(t, database.FilterFullExport, calls[0].filter.Type)
		assert.False(t, calls[0].failOnZero)
	})

	t.Run("defaults to full_export when no filter given", func(t *testing.T) {
		statusRepo, cleanup := setupExportsTestDB(t)
		defer cleanup()

		var calls []triggerCall
		controller := NewExportsController(statusRepo, testRegistry(), recordingTrigger(&calls))
		router := gin.New()
		router.POST("/api/exports", controller.Run)

		body := bytes.NewBufferString(`{"export_type": "items_to_solr"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/exports", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusAccepted, w.Code)
		require.Len(t, calls, 1)
		assert.Equal(t, database.FilterFullExport, calls[0].filter.Type)
	})

	t.Run("rejects unknown export type", func(t *testing.T) {
		statusRepo, cleanup := setupExportsTestDB(t)
		defer cleanup()

		var calls []triggerCall
		controller := NewExportsController(statusRepo, testRegistry(), recordingTrigger(&calls))
		router := gin.New()
		router.POST("/api/exports", controller.Run)

		body := bytes.NewBufferString(`{"export_type": "records_to_nowhere"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/exports", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, calls)
	})

	t.Run("rejects unknown filter type", func(t *testing.T) {
		statusRepo, cleanup := setupExportsTestDB(t)
		defer cleanup()

		var calls []triggerCall
		controller := NewExportsController(statusRepo, testRegistry(), recordingTrigger(&calls))
		router := gin.New()
		router.POST("/api/exports", controller.Run)

		body := bytes.NewBufferString(`{"export_type": "bibs_to_solr", "filter": {"type": "incremental"}}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/exports", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, calls)
	})

	t.Run("rejects missing export_type", func(t *testing.T) {
		statusRepo, cleanup := setupExportsTestDB(t)
		defer cleanup()

		var calls []triggerCall
		controller := NewExportsController(statusRepo, testRegistry(), recordingTrigger(&calls))
		router := gin.New()
		router.POST("/api/exports", controller.Run)

		body := bytes.NewBufferString(`{}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/exports", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, calls)
	})
}

func TestExportsController_Get(t *testing.T) {
	t.Run("returns an existing job", func(t *testing.T) {
		statusRepo, cleanup := setupExportsTestDB(t)
		defer cleanup()

		_, err := statusRepo.Create("job-abc", "bibs_to_solr", "full_export")
		require.NoError(t, err)

		controller := NewExportsController(statusRepo, testRegistry(), nil)
		router := gin.New()
		router.GET("/api/exports/:job_id", controller.Get)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/exports/job-abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var instance entities.ExportInstance
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &instance))
		assert.Equal(t, "job-abc", instance.JobID)
		assert.Equal(t, entities.ExportStatusWaiting, instance.Status)
	})

	t.Run("returns 404 for unknown job", func(t *testing.T) {
		statusRepo, cleanup := setupExportsTestDB(t)
		defer cleanup()

		controller := NewExportsController(statusRepo, testRegistry(), nil)
		router := gin.New()
		router.GET("/api/exports/:job_id", controller.Get)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/exports/nope", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestExportsController_List(t *testing.T) {
	t.Run("returns recent jobs with count", func(t *testing.T) {
		statusRepo, cleanup := setupExportsTestDB(t)
		defer cleanup()

		for _, id := range []string{"job-1", "job-2", "job-3"} {
			_, err := statusRepo.Create(id, "bibs_to_solr", "full_export")
			require.NoError(t, err)
		}

		controller := NewExportsController(statusRepo, testRegistry(), nil)
		router := gin.New()
		router.GET("/api/exports", controller.List)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/exports?limit=2", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Exports []entities.ExportInstance `json:"exports"`
			Count   int                       `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 2, response.Count)
		assert.Len(t, response.Exports, 2)
	})
}

func TestExportsController_Types(t *testing.T) {
	statusRepo, cleanup := setupExportsTestDB(t)
	defer cleanup()

	controller := NewExportsController(statusRepo, testRegistry(), nil)
	router := gin.New()
	router.GET("/api/exports/types", controller.Types)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/exports/types", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		ExportTypes []string `json:"export_types"`
		FilterTypes []string `json:"filter_types"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []string{"bibs_to_solr", "items_to_solr"}, response.ExportTypes)
	assert.Contains(t, response.FilterTypes, database.FilterLastExport)
}
