// Package attachment manages the files attached to a timesheet through the
// document service.
package attachment

import (
	"math"
	"path"
	"strconv"
	"strings"
)

type Category string

const (
	CategoryDocument     Category = "document"
	CategorySpreadsheet  Category = "spreadsheet"
	CategoryPresentation Category = "presentation"
	CategoryImage        Category = "image"
	CategoryArchive      Category = "archive"
	CategoryText         Category = "text"
	CategoryGeneric      Category = "generic"
)

var extensionCategories = map[string]Category{
	"pdf":  CategoryDocument,
	"doc":  CategoryDocument,
	"docx": CategoryDocument,
	"xls":  CategorySpreadsheet,
	"xlsx": CategorySpreadsheet,
	"ppt":  CategoryPresentation,
	"pptx": CategoryPresentation,
	"jpg":  CategoryImage,
	"jpeg": CategoryImage,
	"png":  CategoryImage,
	"gif":  CategoryImage,
	"zip":  CategoryArchive,
	"rar":  CategoryArchive,
	"txt":  CategoryText,
	"csv":  CategoryText,
}

var categoryIcons = map[Category]string{
	CategoryDocument:     "📄",
	CategorySpreadsheet:  "📊",
	CategoryPresentation: "📊",
	CategoryImage:        "🖼️",
	CategoryArchive:      "📦",
	CategoryText:         "📃",
	CategoryGeneric:      "📎",
}

// Word and CSV files keep their own icons inside their category.
var extensionIcons = map[string]string{
	"doc":  "📝",
	"docx": "📝",
	"csv":  "📋",
}

// Attachment is a File document as shown in the attachment list.
type Attachment struct {
	Name     string   `json:"name"`
	FileName string   `json:"file_name"`
	FileURL  string   `json:"file_url"`
	FileSize int64    `json:"file_size"`
	Size     string   `json:"size"`
	Category Category `json:"category"`
	Icon     string   `json:"icon"`
}

func newAttachment(name, fileName, fileURL string, size int64) Attachment {
	category, icon := Classify(fileName)
	return Attachment{
		Name:     name,
		FileName: fileName,
		FileURL:  fileURL,
		FileSize: size,
		Size:     FormatFileSize(size),
		Category: category,
		Icon:     icon,
	}
}

func extension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
}

// Classify picks the display category and icon from the file extension.
func Classify(fileName string) (Category, string) {
	ext := extension(fileName)
	category, ok := extensionCategories[ext]
	if !ok {
		category = CategoryGeneric
	}
	if icon, ok := extensionIcons[ext]; ok {
		return category, icon
	}
	return category, categoryIcons[category]
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders bytes in 1024-based units rounded to two decimals.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	value := math.Round(float64(bytes)/math.Pow(1024, float64(i))*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}
