package handlers

import (
	"net/http"
	"path/filepath"
	"strings"
)

type UploadResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	URL          string `json:"url,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

// formatOf returns the lowercase filename extension without the dot.
func formatOf(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// UploadFile handles direct media uploads to Cloudinary.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if cloudinaryService == nil {
		fail(w, http.StatusInternalServerError, "File upload service not available")
		return
	}

	if err := r.ParseMultipartForm(50 << 20); err != nil { // 50MB
		fail(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		fail(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "melodia"
	}

	result, err := cloudinaryService.UploadFileFromHeader(r.Context(), fileHeader, folder)
	if err != nil {
		fail(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	respondJSON(w, http.StatusOK, UploadResponse{
		Success:      true,
		Message:      "File uploaded successfully",
		URL:          result.URL,
		ResourceType: result.ResourceType,
	})
}
