package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"tindler_server/services"
)

// PhotoController handles presigned URL requests for profile photos
type PhotoController struct {
	PhotoService *services.PhotoService
}

// NewPhotoController creates a new PhotoController instance
func NewPhotoController(photoService *services.PhotoService) *PhotoController {
	return &PhotoController{PhotoService: photoService}
}

// HandleUploadURL generates a presigned URL for uploading a profile photo
func (pc *PhotoController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	if pc.PhotoService == nil {
		http.Error(w, "Photo storage is not configured", http.StatusServiceUnavailable)
		return
	}

	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if request.FileName == "" || request.FileType == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}

	url, key, err := pc.PhotoService.UploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		log.Printf("Error generating upload URL: %v", err)
		http.Error(w, "Failed to generate upload URL", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"url": url, "key": key})
}

// HandleReadURL generates a presigned URL for reading a stored photo
func (pc *PhotoController) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	if pc.PhotoService == nil {
		http.Error(w, "Photo storage is not configured", http.StatusServiceUnavailable)
		return
	}

	var request struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Key == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, err := pc.PhotoService.ReadURL(r.Context(), request.Key)
	if err != nil {
		log.Printf("Error generating read URL: %v", err)
		http.Error(w, "Failed to generate read URL", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
