package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"pcshop_service/internal/adapter/http/handlers/mocks"
	"pcshop_service/internal/adapter/http/middleware"
	"pcshop_service/internal/domain/entities"
	"pcshop_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

var customerIdentity = entities.Identity{UserID: "user-1", Authority: entities.AuthorityOrdinary}

type formFile struct {
	field, name string
	content     []byte
}

// multipartRequest builds a multipart body with the given fields and files.
func multipartRequest(t *testing.T, method, path string, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = fw.Write(f.content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newServiceRequestRouter(h *ServiceRequestHandler, identity entities.Identity) *gin.Engine {
	r := gin.New()
	r.Use(middleware.WithIdentity(identity))
	r.POST("/v1/service-requests", h.CreateServiceRequest)
	r.GET("/v1/service-requests", h.ListServiceRequests)
	r.GET("/v1/service-requests/:id", h.GetServiceRequest)
	r.PATCH("/v1/service-requests/:id/status", h.UpdateStatus)
	r.DELETE("/v1/service-requests/:id", h.DeleteServiceRequest)
	return r
}

func TestServiceRequestHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repairFields := map[string]string{
		"kind":    "repair",
		"name":    "Kim",
		"phone":   "010-1111-2222",
		"content": "no display",
		"details": `{"device":"desktop"}`,
	}

	t.Run("missing kind", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/v1/service-requests", map[string]string{"name": "Kim"}))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("malformed details", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/v1/service-requests", map[string]string{"kind": "repair", "details": "["}))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("files are forwarded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		uc.EXPECT().Create(gomock.Any(), customerIdentity, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ entities.Identity, sr entities.ServiceRequest, files []entities.UploadFile) (entities.ServiceRequest, error) {
				if sr.Kind != entities.KindRepair || sr.Details["device"] != "desktop" {
					t.Fatalf("unexpected request %+v", sr)
				}
				if len(files) != 2 || files[0].Filename != "board.png" || files[0].MimeType != "image/png" || files[0].Size != 3 {
					t.Fatalf("unexpected files %+v", files)
				}
				sr.ID = "sr-1"
				sr.Status = entities.RequestStatusReceived
				sr.Attachments = []entities.Attachment{{URL: "https://cdn/board.png"}, {URL: "https://cdn/log.txt"}}
				return sr, nil
			})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/v1/service-requests", repairFields,
			formFile{field: "files", name: "board.png", content: []byte("png")},
			formFile{field: "files", name: "log.txt", content: []byte("boot failed")},
		))
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["id"] != "sr-1" || len(body["attachments"].([]any)) != 2 {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("upload failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		uc.EXPECT().Create(gomock.Any(), customerIdentity, gomock.Any(), gomock.Any()).Return(entities.ServiceRequest{}, usecase.ErrAttachmentUpload)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/v1/service-requests", repairFields,
			formFile{field: "files", name: "a.png", content: []byte("png")}))
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("too many files", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		uc.EXPECT().Create(gomock.Any(), customerIdentity, gomock.Any(), gomock.Any()).Return(entities.ServiceRequest{}, usecase.ErrTooManyFiles)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartRequest(t, http.MethodPost, "/v1/service-requests", repairFields))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestServiceRequestHandler_ListAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("list forwards kind and status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		want := entities.ServiceRequestFilter{Kind: entities.KindInquiry, Status: entities.RequestStatusReceived}
		uc.EXPECT().List(gomock.Any(), customerIdentity, want, 1, 20).Return([]entities.ServiceRequest{{ID: "sr-1"}}, 1, nil)

		w := doJSON(r, http.MethodGet, "/v1/service-requests?kind=inquiry&status=received", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["total"] != float64(1) || body["page"] != float64(1) {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("get forbidden", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		uc.EXPECT().GetByID(gomock.Any(), customerIdentity, "sr-9").Return(entities.ServiceRequest{}, usecase.ErrForbidden)

		if w := doJSON(r, http.MethodGet, "/v1/service-requests/sr-9", ""); w.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", w.Code)
		}
	})

	t.Run("get not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		uc.EXPECT().GetByID(gomock.Any(), customerIdentity, "sr-9").Return(entities.ServiceRequest{}, usecase.ErrServiceRequestNotFound)

		if w := doJSON(r, http.MethodGet, "/v1/service-requests/sr-9", ""); w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestServiceRequestHandler_UpdateStatusAndDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), adminIdentity)

		if w := doJSON(r, http.MethodPatch, "/v1/service-requests/sr-1/status", `{}`); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("invalid transition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), adminIdentity)

		uc.EXPECT().UpdateStatus(gomock.Any(), adminIdentity, "sr-1", entities.RequestStatusReceived).Return(entities.ServiceRequest{}, usecase.ErrInvalidStatusTransition)

		if w := doJSON(r, http.MethodPatch, "/v1/service-requests/sr-1/status", `{"status":"received"}`); w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("status updated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), adminIdentity)

		uc.EXPECT().UpdateStatus(gomock.Any(), adminIdentity, "sr-1", entities.RequestStatusInProgress).
			Return(entities.ServiceRequest{ID: "sr-1", Status: entities.RequestStatusInProgress}, nil)

		w := doJSON(r, http.MethodPatch, "/v1/service-requests/sr-1/status", `{"status":"in_progress"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "in_progress" {
			t.Fatalf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIServiceRequestUseCase(ctrl)
		r := newServiceRequestRouter(NewServiceRequestHandler(uc), customerIdentity)

		uc.EXPECT().Delete(gomock.Any(), customerIdentity, "sr-1").Return(nil)

		if w := doJSON(r, http.MethodDelete, "/v1/service-requests/sr-1", ""); w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})
}
