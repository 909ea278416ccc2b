package attachment_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/attachment"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

var _ = Describe("Handler", func() {
	var (
		client *mockClient
		router *chi.Mux
	)

	BeforeEach(func() {
		client = &mockClient{failNames: map[string]bool{}, files: []docservice.Record{
			{
				"name": "F-1", "file_name": "a.pdf", "file_url": "/files/F-1/a.pdf", "file_size": int64(0),
				"attached_to_doctype": docservice.DoctypeTimesheet, "attached_to_name": "TS-1",
			},
		}}
		handler := attachment.NewHandler(client, quietLogger())
		router = chi.NewRouter()
		router.Get("/api/v1/timesheets/{name}/attachments", handler.ListAttachments)
		router.Post("/api/v1/timesheets/{name}/attachments", handler.UploadAttachments)
		router.Delete("/api/v1/timesheets/{name}/attachments/{file}", handler.RemoveAttachment)
	})

	It("lists attachments", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/timesheets/TS-1/attachments", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		var items []attachment.Attachment
		Expect(json.Unmarshal(rec.Body.Bytes(), &items)).To(Succeed())
		Expect(items).To(HaveLen(1))
		Expect(items[0].Size).To(Equal("0 Bytes"))
		Expect(items[0].Icon).To(Equal("📄"))
	})

	It("answers with the owning record's error", func() {
		client.getErr = appErrors.NewNotFoundError("Timesheet not found", appErrors.ErrCodeDocumentNotFound)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/timesheets/TS-1/attachments", nil))
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("uploads dropped files", func() {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("files", "b.png")
		Expect(err).NotTo(HaveOccurred())
		_, _ = part.Write([]byte("png"))
		Expect(mw.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/timesheets/TS-1/attachments", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		var resp attachment.UploadResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Notices).To(HaveLen(1))
		Expect(resp.Notices[0].Message).To(Equal("File b.png uploaded"))
		Expect(resp.Attachments).To(HaveLen(2))
	})

	It("requires confirmation before removing", func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/timesheets/TS-1/attachments/F-1", nil))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(client.deleted).To(BeEmpty())

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/timesheets/TS-1/attachments/F-1?confirm=true", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(client.deleted).To(ConsistOf("F-1"))
	})

	It("refuses files that belong to another record or do not exist", func() {
		client.files = append(client.files, docservice.Record{
			"name": "F-2", "attached_to_doctype": docservice.DoctypeTimesheet, "attached_to_name": "TS-2",
		})
		for _, id := range []string{"F-2", "F-9"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/timesheets/TS-1/attachments/"+id+"?confirm=true", nil))
			Expect(rec.Code).To(Equal(http.StatusNotFound), id)
		}
		Expect(client.deleted).To(BeEmpty())
	})

	It("removes a file missing from the capped list page", func() {
		client.listFunc = func(int) ([]docservice.Record, error) { return nil, nil }
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/timesheets/TS-1/attachments/F-1?confirm=true", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(client.deleted).To(ConsistOf("F-1"))
	})
})
