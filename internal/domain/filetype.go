package domain

import "strings"

func IsDocumentExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".xmp", ".djvu", ".epub":
		return true
	default:
		return IsImageExtension(ext)
	}
}

func IsImageExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".tif", ".tiff", ".png":
		return true
	default:
		return false
	}
}
