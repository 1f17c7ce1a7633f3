package media

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	mediaService "github.com/princekumarofficial/autohouse-service/internal/services/media"
	mediaTypes "github.com/princekumarofficial/autohouse-service/internal/types/media"
	"github.com/princekumarofficial/autohouse-service/internal/utils/response"
)

type MediaHandlers struct {
	mediaService *mediaService.Service
	presignTTL   time.Duration
}

// NewMediaHandlers creates a new media handlers instance
func NewMediaHandlers(mediaService *mediaService.Service, presignTTL time.Duration) *MediaHandlers {
	if presignTTL <= 0 {
		presignTTL = time.Hour
	}
	return &MediaHandlers{
		mediaService: mediaService,
		presignTTL:   presignTTL,
	}
}

func mediaID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("mediaID"))
	if err != nil {
		return uuid.Nil, errors.New("invalid media id")
	}
	return id, nil
}

// GetMedia streams a stored file, or returns its metadata when info=true
// @Summary Download media file
// @Description Streams the file from the backend that stored it. With info=true returns metadata instead.
// @Tags media
// @Produce octet-stream
// @Param mediaID path string true "Media ID"
// @Param info query bool false "Return metadata only"
// @Param redirect query bool false "Redirect to a presigned URL when the backend supports it"
// @Success 200 {object} media.MediaInfoResponse "Media information"
// @Failure 404 {object} response.Response "Media not found"
// @Failure 503 {object} response.Response "Storage not configured"
// @Router /media/{mediaID} [get]
func (h *MediaHandlers) GetMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := mediaID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		if r.URL.Query().Get("info") == "true" {
			file, err := h.mediaService.Load(r.Context(), id)
			if err != nil {
				response.WriteError(w, err)
				return
			}
			response.WriteJSON(w, http.StatusOK, mediaTypes.MediaInfoResponse{
				ID:          file.ID,
				FileKey:     file.FileKey,
				Size:        file.Size,
				ContentType: file.ContentType,
				StorageType: file.StorageType,
				UploadedAt:  file.CreatedAt,
			})
			return
		}

		if r.URL.Query().Get("redirect") == "true" {
			link, ok, err := h.mediaService.PresignedURL(r.Context(), id, h.presignTTL)
			if err != nil {
				response.WriteError(w, err)
				return
			}
			if ok {
				http.Redirect(w, r, link, http.StatusTemporaryRedirect)
				return
			}
		}

		data, file, err := h.mediaService.Bytes(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// DeleteMedia removes a stored file and its metadata
// @Summary Delete media file
// @Tags media
// @Param mediaID path string true "Media ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response "Media not found"
// @Security BearerAuth
// @Router /media/{mediaID} [delete]
func (h *MediaHandlers) DeleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := mediaID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if err := h.mediaService.Remove(r.Context(), id); err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Media deleted", nil))
	}
}
