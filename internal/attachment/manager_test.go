package attachment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"os"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appErrors "github.com/frahmantamala/custom-timesheet/internal"
	"github.com/frahmantamala/custom-timesheet/internal/attachment"
	"github.com/frahmantamala/custom-timesheet/internal/docservice"
)

type mockClient struct {
	mu        sync.Mutex
	files     []docservice.Record
	listCalls int
	listFunc  func(call int) ([]docservice.Record, error)
	uploads   []docservice.Upload
	failNames map[string]bool
	deleted   []string
	deleteErr error
	getErr    error
}

func (m *mockClient) List(_ context.Context, doctype string, query docservice.ListQuery) ([]docservice.Record, error) {
	m.mu.Lock()
	m.listCalls++
	call := m.listCalls
	fn := m.listFunc
	files := append([]docservice.Record(nil), m.files...)
	m.mu.Unlock()

	Expect(doctype).To(Equal(docservice.DoctypeFile))
	Expect(query.Filters).To(ContainElement(docservice.Eq("attached_to_name", "TS-1")))
	if fn != nil {
		return fn(call)
	}
	return files, nil
}

func (m *mockClient) Get(_ context.Context, doctype, name string) (docservice.Record, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if doctype != docservice.DoctypeFile {
		return docservice.Record{"name": name}, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.String("name") == name {
			return f, nil
		}
	}
	return nil, appErrors.NewNotFoundError("File not found", appErrors.ErrCodeDocumentNotFound)
}

func (m *mockClient) Delete(_ context.Context, _, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, name)
	kept := m.files[:0]
	for _, f := range m.files {
		if f.String("name") != name {
			kept = append(kept, f)
		}
	}
	m.files = kept
	return nil
}

func (m *mockClient) Upload(_ context.Context, upload docservice.Upload) (*docservice.UploadedFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads = append(m.uploads, upload)
	if m.failNames[upload.FileName] {
		return nil, appErrors.NewExternalError("upload rejected", appErrors.ErrCodeUploadFailed, nil)
	}
	name := "F-" + upload.FileName
	m.files = append(m.files, docservice.Record{
		"name": name, "file_name": upload.FileName, "file_url": "/files/" + name, "file_size": int64(len(upload.Content)),
		"attached_to_doctype": upload.Doctype, "attached_to_name": upload.Docname,
	})
	return &docservice.UploadedFile{Name: name, FileName: upload.FileName}, nil
}

func (m *mockClient) Invoke(context.Context, string, map[string]any) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

func (m *mockClient) CurrentActor(context.Context) (string, error) {
	return "emp@example.com", nil
}

func (m *mockClient) listCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("Manager", func() {
	var (
		client  *mockClient
		manager *attachment.Manager
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		client = &mockClient{failNames: map[string]bool{}}
		manager = attachment.NewManager(client, docservice.DoctypeTimesheet, "TS-1", quietLogger())
	})

	Describe("List", func() {
		It("decorates files with size and icon", func() {
			client.files = []docservice.Record{{"name": "F-1", "file_name": "hours.xlsx", "file_url": "/files/F-1/hours.xlsx", "file_size": int64(1536)}}

			items, err := manager.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Size).To(Equal("1.5 KB"))
			Expect(items[0].Category).To(Equal(attachment.CategorySpreadsheet))
		})

		It("skips the call for an unsaved record", func() {
			unsaved := attachment.NewManager(client, docservice.DoctypeTimesheet, "", quietLogger())
			items, err := unsaved.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(BeEmpty())
			Expect(client.listCallCount()).To(Equal(0))
		})

		It("keeps the later request's list when an earlier response arrives last", func() {
			release := make(chan struct{})
			client.listFunc = func(call int) ([]docservice.Record, error) {
				if call == 1 {
					<-release
					return []docservice.Record{{"name": "stale", "file_name": "old.txt"}}, nil
				}
				return []docservice.Record{{"name": "fresh", "file_name": "new.txt"}}, nil
			}

			done := make(chan struct{})
			go func() {
				defer GinkgoRecover()
				defer close(done)
				_, err := manager.List(ctx)
				Expect(err).NotTo(HaveOccurred())
			}()
			Eventually(client.listCallCount).Should(Equal(1))

			items, err := manager.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items[0].Name).To(Equal("fresh"))

			close(release)
			Eventually(done).Should(BeClosed())
			Expect(manager.Items()).To(HaveLen(1))
			Expect(manager.Items()[0].Name).To(Equal("fresh"))
		})

		It("leaves the list intact when the call fails", func() {
			client.files = []docservice.Record{{"name": "F-1", "file_name": "a.txt"}}
			_, err := manager.List(ctx)
			Expect(err).NotTo(HaveOccurred())

			client.listFunc = func(int) ([]docservice.Record, error) { return nil, errors.New("boom") }
			_, err = manager.List(ctx)
			Expect(err).To(HaveOccurred())
			Expect(manager.Items()).To(HaveLen(1))
		})
	})

	Describe("Upload", func() {
		It("uploads each file independently and names it in the notice", func() {
			client.failNames["broken.pdf"] = true

			notices := manager.Upload(ctx, []attachment.File{
				{Name: "receipt.png", Content: []byte("png")},
				{Name: "broken.pdf", Content: []byte("pdf")},
				{Name: "notes.txt", Content: []byte("txt")},
			})

			Expect(notices).To(Equal([]attachment.Notice{
				{Level: attachment.NoticeSuccess, FileName: "receipt.png", Message: "File receipt.png uploaded"},
				{Level: attachment.NoticeError, FileName: "broken.pdf", Message: "Failed to upload broken.pdf"},
				{Level: attachment.NoticeSuccess, FileName: "notes.txt", Message: "File notes.txt uploaded"},
			}))
			Expect(client.uploads).To(HaveLen(3))
			for _, u := range client.uploads {
				Expect(u.Doctype).To(Equal(docservice.DoctypeTimesheet))
				Expect(u.Docname).To(Equal("TS-1"))
				Expect(u.IsPrivate).To(BeFalse())
			}
			Expect(client.listCallCount()).To(Equal(2))
			Expect(manager.Items()).To(HaveLen(2))
		})

		It("marks uploads private when asked", func() {
			manager.SetPrivate(true)
			manager.Upload(ctx, []attachment.File{{Name: "a.txt"}})
			Expect(client.uploads[0].IsPrivate).To(BeTrue())
		})
	})

	Describe("Remove", func() {
		BeforeEach(func() {
			client.files = []docservice.Record{{"name": "F-1", "file_name": "a.txt"}}
			_, err := manager.List(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("does nothing when the user declines", func() {
			var prompt string
			removed, err := manager.Remove(ctx, "F-1", func(p string) bool { prompt = p; return false })
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeFalse())
			Expect(prompt).To(Equal(attachment.RemovePrompt))
			Expect(client.deleted).To(BeEmpty())
			Expect(manager.Items()).To(HaveLen(1))
		})

		It("deletes and refreshes once confirmed", func() {
			removed, err := manager.Remove(ctx, "F-1", func(string) bool { return true })
			Expect(err).NotTo(HaveOccurred())
			Expect(removed).To(BeTrue())
			Expect(client.deleted).To(ConsistOf("F-1"))
			Expect(manager.Items()).To(BeEmpty())
		})

		It("keeps the list when the delete fails", func() {
			client.deleteErr = errors.New("network down")
			removed, err := manager.Remove(ctx, "F-1", func(string) bool { return true })
			Expect(err).To(HaveOccurred())
			Expect(removed).To(BeFalse())
			Expect(manager.Items()).To(HaveLen(1))
		})
	})

	Describe("Owns", func() {
		BeforeEach(func() {
			client.files = []docservice.Record{
				{"name": "F-1", "attached_to_doctype": docservice.DoctypeTimesheet, "attached_to_name": "TS-1"},
				{"name": "F-2", "attached_to_doctype": docservice.DoctypeTimesheet, "attached_to_name": "TS-2"},
				{"name": "F-3", "attached_to_doctype": docservice.DoctypeProject, "attached_to_name": "TS-1"},
			}
		})

		It("checks the file's parent rather than the listed page", func() {
			owned, err := manager.Owns(ctx, "F-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(owned).To(BeTrue())
			Expect(client.listCallCount()).To(Equal(0))
		})

		It("refuses files of another record or doctype and unknown files", func() {
			for _, id := range []string{"F-2", "F-3", "F-404"} {
				owned, err := manager.Owns(ctx, id)
				Expect(err).NotTo(HaveOccurred())
				Expect(owned).To(BeFalse(), id)
			}
		})

		It("passes other lookup failures through", func() {
			client.getErr = errors.New("network down")
			_, err := manager.Owns(ctx, "F-1")
			Expect(err).To(MatchError("network down"))
		})
	})
})

var _ = Describe("FilesFromMultipart", func() {
	It("accepts picker and drop zone fields", func() {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "picked.txt")
		Expect(err).NotTo(HaveOccurred())
		_, _ = part.Write([]byte("picked"))
		for _, name := range []string{"one.png", "two.png"} {
			part, err = mw.CreateFormFile("files", name)
			Expect(err).NotTo(HaveOccurred())
			_, _ = part.Write([]byte(name))
		}
		Expect(mw.Close()).To(Succeed())

		form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
		Expect(err).NotTo(HaveOccurred())

		files, err := attachment.FilesFromMultipart(form)
		Expect(err).NotTo(HaveOccurred())
		Expect(files).To(HaveLen(3))
		Expect(files[0]).To(Equal(attachment.File{Name: "picked.txt", Content: []byte("picked")}))
		Expect(files[2].Name).To(Equal("two.png"))
	})

	It("rejects a request without files", func() {
		_, err := attachment.FilesFromMultipart(&multipart.Form{})
		appErr, ok := appErrors.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(appErrors.ErrCodeNoFiles))
	})
})
