package attachment_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/custom-timesheet/internal/attachment"
)

var _ = Describe("FormatFileSize", func() {
	DescribeTable("renders binary units",
		func(bytes int64, expected string) {
			Expect(attachment.FormatFileSize(bytes)).To(Equal(expected))
		},
		Entry("zero", int64(0), "0 Bytes"),
		Entry("bytes", int64(512), "512 Bytes"),
		Entry("one and a half kilobytes", int64(1536), "1.5 KB"),
		Entry("exact megabyte", int64(1<<20), "1 MB"),
		Entry("rounded to two decimals", int64(1234567), "1.18 MB"),
		Entry("gigabytes", int64(3<<30), "3 GB"),
		Entry("beyond gigabytes stays in GB", int64(2<<40), "2048 GB"),
	)
})

var _ = Describe("Classify", func() {
	DescribeTable("maps extensions to categories",
		func(fileName string, category attachment.Category, icon string) {
			gotCategory, gotIcon := attachment.Classify(fileName)
			Expect(gotCategory).To(Equal(category))
			Expect(gotIcon).To(Equal(icon))
		},
		Entry("pdf", "report.pdf", attachment.CategoryDocument, "📄"),
		Entry("word", "notes.DOCX", attachment.CategoryDocument, "📝"),
		Entry("spreadsheet", "hours.xlsx", attachment.CategorySpreadsheet, "📊"),
		Entry("presentation", "deck.ppt", attachment.CategoryPresentation, "📊"),
		Entry("image", "receipt.jpeg", attachment.CategoryImage, "🖼️"),
		Entry("archive", "bundle.zip", attachment.CategoryArchive, "📦"),
		Entry("text", "readme.txt", attachment.CategoryText, "📃"),
		Entry("csv", "export.csv", attachment.CategoryText, "📋"),
		Entry("unknown", "binary.exe", attachment.CategoryGeneric, "📎"),
		Entry("no extension", "Makefile", attachment.CategoryGeneric, "📎"),
	)
})
