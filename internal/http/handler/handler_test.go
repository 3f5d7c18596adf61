package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doclib/internal/http/middleware"
	"doclib/internal/model"
	"doclib/internal/service"
	serviceMocks "doclib/internal/service/mocks"
)

const testUserID = "user-1"

// newTestApp returns an app whose requests are already signed in as testUserID.
func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.PrincipalLocalKey, model.Principal{UserID: testUserID})
		return c.Next()
	})
	return app
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Get("/documents", ListDocuments(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items:         []model.Document{{ID: uuid.New().String(), FileName: "test.pdf"}},
			Total:         3,
			Matched:       1,
			AvailableTags: []string{"x", "y"},
		}
		wantQuery := service.Query{
			SearchTerm:  "test",
			SubjectName: "Math",
			Tags:        []string{"x", "y"},
			Sort:        service.SortNameAsc,
			Limit:       10,
		}
		mockSvc.On("List", mock.Anything, testUserID, wantQuery).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?q=test&subject=Math&tags=x,%20y&sort=name_asc&limit=10", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, []string{"x", "y"}, result.AvailableTags)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid sort", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?sort=size", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_SORT", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUserID, mock.Anything).
			Return(nil, &service.DatabaseError{Op: "list documents", Err: errors.New("db down")}).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "DATABASE_ERROR", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func multipartUpload(t *testing.T, fields map[string]string, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.NoError(t, err)
		part.Write([]byte(content))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Post("/documents", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartUpload(t, map[string]string{"subject": "Math", "tags": "exam, week 1"}, "test.txt", "hello world")

		expectedDoc := &model.Document{ID: uuid.New().String(), FileName: "test.txt"}
		mockSvc.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.UserID == testUserID &&
				in.FileName == "test.txt" &&
				in.Size == 11 &&
				in.SubjectName == "Math" &&
				assert.ObjectsAreEqual([]string{"exam, week 1"}, in.Tags) &&
				in.Content != nil
		})).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expectedDoc.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("orphaned object after failed insert", func(t *testing.T) {
		body, ct := multipartUpload(t, nil, "test.txt", "hello")

		mockSvc.On("Upload", mock.Anything, mock.Anything).
			Return(nil, &service.DatabaseError{Op: "insert document", Err: errors.New("insert failed"), OrphanedKey: "user-1/k"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "DATABASE_ERROR", res.Error.Code)
		assert.NotContains(t, res.Error.Message, "user-1/k")
		mockSvc.AssertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		body, ct := multipartUpload(t, nil, "test.txt", "hello")

		mockSvc.On("Upload", mock.Anything, mock.Anything).
			Return(nil, &service.StorageError{Op: "put", Key: "k", Err: errors.New("boom")}).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Equal(t, "STORAGE_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestUploadDocument_SizeLimit(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	// streamed bodies skip fasthttp's own limit, so the handler has to enforce it
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(), BodyLimit: 1024, StreamRequestBody: true})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.PrincipalLocalKey, model.Principal{UserID: testUserID})
		return c.Next()
	})
	app.Post("/documents", UploadDocument(mockSvc))

	body, ct := multipartUpload(t, nil, "big.bin", strings.Repeat("x", 64*1024))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decodeError(t, resp).Error.Code)
	mockSvc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Get("/documents/:id", GetDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expectedDoc := &model.Document{ID: id, FileName: "test.txt"}
		mockSvc.On("Get", mock.Anything, testUserID, id).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, testUserID, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		assert.NotEmpty(t, res.RequestID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("unexpected error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, testUserID, id).Return(nil, errors.New("boom")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestUpdateDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Patch("/documents/:id", UpdateDocument(mockSvc))

	send := func(id, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPatch, "/documents/"+id, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("no changes", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, testUserID, id, service.UpdateInput{Tags: []string{"x"}}).Return(false, nil).Once()

		resp := send(id, `{"subject_id":null,"tags":["x"]}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]any
		json.NewDecoder(resp.Body).Decode(&out)
		assert.Equal(t, false, out["changed"])
		assert.NotContains(t, out, "document")
		mockSvc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, id)
	})

	t.Run("changed returns the fresh document", func(t *testing.T) {
		id := uuid.New().String()
		subjectID := uuid.New().String()
		mockSvc.On("Update", mock.Anything, testUserID, id, mock.MatchedBy(func(in service.UpdateInput) bool {
			return in.SubjectID != nil && *in.SubjectID == subjectID
		})).Return(true, nil).Once()
		mockSvc.On("Get", mock.Anything, testUserID, id).Return(&model.Document{ID: id, SubjectID: &subjectID}, nil).Once()

		resp := send(id, `{"subject_id":"`+subjectID+`","tags":[]}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out updateDocumentResponse
		json.NewDecoder(resp.Body).Decode(&out)
		assert.True(t, out.Changed)
		require.NotNil(t, out.Document)
		assert.Equal(t, id, out.Document.ID)
	})

	t.Run("foreign subject", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Update", mock.Anything, testUserID, id, mock.Anything).
			Return(false, errors.Join(service.ErrValidation, errors.New("subject does not exist"))).Once()

		resp := send(id, `{"subject_id":"abc","tags":[]}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		resp := send(uuid.New().String(), `{"tags":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Error.Code)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Delete("/documents/:id", DeleteDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, testUserID, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, testUserID, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("row left behind is retryable", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, testUserID, id).
			Return(&service.DatabaseError{Op: "delete document", Err: errors.New("db fail"), Retryable: true}).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "DATABASE_ERROR", res.Error.Code)
		assert.True(t, res.Error.Retryable)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadAndContent(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Get("/documents/:id/download", DownloadDocument(mockSvc))
	app.Get("/documents/:id/content", DocumentContent(mockSvc))
	id := uuid.New().String()

	mockSvc.On("DownloadURL", mock.Anything, testUserID, id).
		Return(&service.DownloadLink{URL: "https://minio.local/signed", ExpiresIn: 60}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var link service.DownloadLink
	json.NewDecoder(resp.Body).Decode(&link)
	assert.Equal(t, "https://minio.local/signed", link.URL)
	assert.Equal(t, 60, link.ExpiresIn)

	size := int64(5)
	mockSvc.On("Open", mock.Anything, testUserID, id).
		Return(io.NopCloser(strings.NewReader("hello")), &model.Document{ID: id, FileName: "notes.txt", FileType: "text/plain", FileSize: &size}, nil).Once()

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/content", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/plain", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename=notes.txt`)
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "hello", string(b))

	mockSvc.AssertExpectations(t)
}

func TestGetStats(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newTestApp()
	app.Get("/stats", GetStats(mockSvc))

	mockSvc.On("Stats", mock.Anything, testUserID).
		Return(&model.Stats{TotalDocuments: 2, TotalSubjects: 1, TotalTags: 2, TotalSizeMB: 3}, nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var st model.Stats
	json.NewDecoder(resp.Body).Decode(&st)
	assert.Equal(t, 2, st.TotalDocuments)
	assert.InDelta(t, 3.0, st.TotalSizeMB, 1e-9)
}

func TestSubjects(t *testing.T) {
	mockSvc := new(serviceMocks.MockSubjectService)
	app := newTestApp()
	app.Get("/subjects", ListSubjects(mockSvc))
	app.Post("/subjects", CreateSubject(mockSvc))
	app.Patch("/subjects/:id", RenameSubject(mockSvc))
	app.Delete("/subjects/:id", DeleteSubject(mockSvc))

	jsonReq := func(method, path, body string) *http.Request {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	t.Run("list", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUserID).Return([]model.SubjectSummary{
			{Subject: model.Subject{ID: "s1", Name: "Math"}, DocumentCount: 2},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/subjects", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out struct {
			Data  []model.SubjectSummary `json:"data"`
			Total int                    `json:"total"`
		}
		json.NewDecoder(resp.Body).Decode(&out)
		require.Len(t, out.Data, 1)
		assert.Equal(t, 2, out.Data[0].DocumentCount)
	})

	t.Run("create", func(t *testing.T) {
		mockSvc.On("Add", mock.Anything, testUserID, "Math").Return(&model.Subject{ID: "s1", Name: "Math"}, nil).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/subjects", `{"name":"Math"}`))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("create duplicate", func(t *testing.T) {
		mockSvc.On("Add", mock.Anything, testUserID, "math").Return(nil, service.ErrDuplicateName).Once()

		resp, _ := app.Test(jsonReq(http.MethodPost, "/subjects", `{"name":"math"}`))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "DUPLICATE_NAME", decodeError(t, resp).Error.Code)
	})

	t.Run("rename", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Rename", mock.Anything, testUserID, id, "Algebra").Return(&model.Subject{ID: id, Name: "Algebra"}, nil).Once()

		resp, _ := app.Test(jsonReq(http.MethodPatch, "/subjects/"+id, `{"name":"Algebra"}`))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("delete in use", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, testUserID, id).Return(service.ErrSubjectInUse).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/subjects/"+id, nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "SUBJECT_IN_USE", decodeError(t, resp).Error.Code)
	})

	mockSvc.AssertExpectations(t)
}

func TestAuthHandlers(t *testing.T) {
	mockSvc := new(serviceMocks.MockAuthService)
	app := newTestApp()
	app.Post("/auth/signup", SignUp(mockSvc))
	app.Post("/auth/signin", SignIn(mockSvc))
	app.Post("/auth/signout", SignOut(mockSvc))

	post := func(path, body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("sign up", func(t *testing.T) {
		mockSvc.On("SignUp", mock.Anything, "ann@example.com", "secret123").
			Return(&model.User{ID: "u1", Email: "ann@example.com", PasswordHash: "hash"}, nil).Once()

		resp := post("/auth/signup", `{"email":"ann@example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(b), "hash")
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockSvc.On("SignIn", mock.Anything, "ann@example.com", "nope").
			Return(nil, errors.Join(service.ErrAuth, errors.New("invalid login credentials"))).Once()

		resp := post("/auth/signin", `{"email":"ann@example.com","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "AUTH_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("sign in", func(t *testing.T) {
		mockSvc.On("SignIn", mock.Anything, "ann@example.com", "secret123").
			Return(&model.Session{AccessToken: "tok", User: model.User{ID: "u1"}}, nil).Once()

		resp := post("/auth/signin", `{"email":"ann@example.com","password":"secret123"}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var sess model.Session
		json.NewDecoder(resp.Body).Decode(&sess)
		assert.Equal(t, "tok", sess.AccessToken)
	})

	t.Run("sign out", func(t *testing.T) {
		mockSvc.On("SignOut", mock.Anything, model.Principal{UserID: testUserID}).Once()

		resp := post("/auth/signout", "")

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	authSvc := new(serviceMocks.MockAuthService)
	RegisterRoutes(app, nil, Services{
		Documents: new(serviceMocks.MockDocumentService),
		Subjects:  new(serviceMocks.MockSubjectService),
		Auth:      authSvc,
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("library routes require a token", func(t *testing.T) {
		for _, path := range []string{"/documents", "/subjects", "/stats"} {
			resp, _ := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
			assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
		}
		authSvc.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})
}
