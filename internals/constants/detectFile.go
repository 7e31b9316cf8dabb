package constants

import (
	"path/filepath"
	"strings"
)

// Jenis file untuk materi & submission
const (
	FileKindAudio   = "audio"
	FileKindDoc     = "doc"
	FileKindPDF     = "pdf"
	FileKindSlides  = "slides"
	FileKindImage   = "image"
	FileKindArchive = "archive"
	FileKindText    = "text"
	FileKindUnknown = "unknown"
)

func DetectFileKindFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".mp3", ".wav":
		return FileKindAudio
	case ".doc", ".docx", ".odt":
		return FileKindDoc
	case ".pdf":
		return FileKindPDF
	case ".ppt", ".pptx":
		return FileKindSlides
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileKindImage
	case ".zip":
		return FileKindArchive
	case ".txt", ".md":
		return FileKindText
	default:
		return FileKindUnknown
	}
}

// Upload yang tidak dikenali ditolak
func IsAllowedUpload(filename string) bool {
	return DetectFileKindFromExt(filename) != FileKindUnknown
}
