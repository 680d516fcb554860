package constants

import "strings"

// FileFormat is the coarse document family the extractor dispatches on.
type FileFormat string

const (
	PDF   FileFormat = "PDF"
	IMAGE FileFormat = "IMAGE"
)

// AllowedExtensions holds the file extensions accepted at upload.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// extToMIME maps known extensions to a declared MIME type when the upload
// carries none (or a generic application/octet-stream).
var extToMIME = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat returns the file format for a (possibly dotted) extension,
// or "" when the extension is not supported.
func MapExtToFormat(ext string) FileFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png", "webp":
		return IMAGE
	default:
		return ""
	}
}

// MapMIMEToFormat returns the file format for a declared MIME type,
// or "" when the type is not supported.
func MapMIMEToFormat(mimeType string) FileFormat {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch mt {
	case "application/pdf":
		return PDF
	case "image/jpeg", "image/png", "image/webp":
		return IMAGE
	default:
		return ""
	}
}

// MIMEForExt returns the canonical MIME type for a supported extension.
func MIMEForExt(ext string) string {
	return extToMIME[NormalizeExt(ext)]
}

// IsGenericMIME reports whether a declared content type carries no real
// information and should be re-inferred from the filename or the bytes.
func IsGenericMIME(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	return mt == "" || mt == "application/octet-stream" || mt == "binary/octet-stream"
}
