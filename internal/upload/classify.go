// File path: internal/upload/classify.go
package upload

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultCategory is assigned when no category keyword matches.
const DefaultCategory = "Project Updates"

// DefaultTag is used when no tag keyword matches.
const DefaultTag = "document"

type categoryRule struct {
	category string
	keywords []string
}

// Order matters: the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{category: "Tax", keywords: []string{"tax", "return"}},
	{category: "Legal", keywords: []string{"legal", "contract", "agreement"}},
	{category: "Insurance", keywords: []string{"insurance", "policy"}},
	{category: "Valuation", keywords: []string{"valuation", "appraisal"}},
}

var tagKeywords = []string{"tax", "legal", "contract", "2024", "2023"}

var fileTypes = map[string]string{
	"pdf":  "PDF",
	"xlsx": "Excel",
	"xls":  "Excel",
	"mp4":  "Video",
	"mov":  "Video",
	"avi":  "Video",
	"zip":  "Archive",
	"rar":  "Archive",
}

var allowedExtensions = []string{".pdf", ".doc", ".docx", ".xlsx", ".xls", ".zip", ".mp4", ".mov"}

// Classification is the metadata derived from a file name.
type Classification struct {
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Type     string   `json:"type"`
}

// Classify derives category, tags and file type from filename.
func Classify(filename string) Classification {
	return Classification{
		Category: Category(filename),
		Tags:     Tags(filename),
		Type:     FileType(filename),
	}
}

// Category returns the first category whose keyword appears in the
// lower-cased file name.
func Category(filename string) string {
	lower := strings.ToLower(filename)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

// Tags collects every tag keyword present in the lower-cased file name.
func Tags(filename string) []string {
	lower := strings.ToLower(filename)
	var tags []string
	for _, keyword := range tagKeywords {
		if strings.Contains(lower, keyword) {
			tags = append(tags, keyword)
		}
	}
	if len(tags) == 0 {
		return []string{DefaultTag}
	}
	return tags
}

// FileType maps the file extension to a display type.
func FileType(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if t, ok := fileTypes[ext]; ok {
		return t
	}
	return "Document"
}

// Allowed reports whether the file extension is on the upload allowlist.
func Allowed(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// AllowedExtensions returns the upload allowlist.
func AllowedExtensions() []string {
	return append([]string(nil), allowedExtensions...)
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count with 1024-based units rounded to two
// decimals, e.g. "1.5 KB" or "1 MB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	const k = 1024
	i := 0
	for scaled := bytes; scaled >= k && i < len(sizeUnits)-1; scaled /= k {
		i++
	}
	value := float64(bytes) / math.Pow(k, float64(i))
	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[i]
}
