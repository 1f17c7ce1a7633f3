package offers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/princekumarofficial/autohouse-service/internal/http/middleware"
	offerService "github.com/princekumarofficial/autohouse-service/internal/services/offers"
	"github.com/princekumarofficial/autohouse-service/internal/types/offers"
	"github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/princekumarofficial/autohouse-service/internal/utils/response"
)

const maxImages = 10

func offerID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("offerID"))
	if err != nil {
		return uuid.Nil, errors.New("invalid offer id")
	}
	return id, nil
}

func writeOffers(w http.ResponseWriter, list []offers.Offer) {
	if list == nil {
		list = []offers.Offer{}
	}
	response.WriteJSON(w, http.StatusOK, list)
}

// TopOffers returns the newest offers
// @Summary Latest offers
// @Tags offers
// @Produce json
// @Success 200 {array} offers.Offer
// @Router /offers/top [get]
func TopOffers(svc *offerService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Top(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}
		writeOffers(w, list)
	}
}

func parseFloat(q map[string][]string, key string) (*float64, error) {
	v := ""
	if vs := q[key]; len(vs) > 0 {
		v = vs[0]
	}
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &f, nil
}

func parseInt(q map[string][]string, key string) (int64, error) {
	if vs := q[key]; len(vs) > 0 && vs[0] != "" {
		n, err := strconv.ParseInt(vs[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s", key)
		}
		return n, nil
	}
	return 0, nil
}

// SearchFilterFromQuery reads maker_id, model_id, lat, lng, radius and limit.
func SearchFilterFromQuery(r *http.Request) (offers.SearchFilter, error) {
	q := r.URL.Query()
	var (
		f   offers.SearchFilter
		err error
		n   int64
	)
	if f.MakerID, err = parseInt(q, "maker_id"); err != nil {
		return f, err
	}
	if f.ModelID, err = parseInt(q, "model_id"); err != nil {
		return f, err
	}
	if f.Latitude, err = parseFloat(q, "lat"); err != nil {
		return f, err
	}
	if f.Longitude, err = parseFloat(q, "lng"); err != nil {
		return f, err
	}
	if n, err = parseInt(q, "radius"); err != nil {
		return f, err
	}
	f.RadiusMeters = int(n)
	if n, err = parseInt(q, "limit"); err != nil {
		return f, err
	}
	f.Limit = int(n)
	return f, nil
}

// SearchOffers filters offers
// @Summary Search offers
// @Tags offers
// @Produce json
// @Param maker_id query int false "Maker ID"
// @Param model_id query int false "Model ID (requires maker_id)"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Param radius query int false "Radius in meters"
// @Param limit query int false "Maximum results"
// @Success 200 {array} offers.Offer
// @Failure 400 {object} response.Response "Invalid location"
// @Router /offers/search [get]
func SearchOffers(svc *offerService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := SearchFilterFromQuery(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		list, err := svc.Search(r.Context(), filter)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		writeOffers(w, list)
	}
}

// GetOffer returns one offer
// @Summary Get offer
// @Tags offers
// @Produce json
// @Param offerID path string true "Offer ID"
// @Success 200 {object} offers.Offer
// @Failure 404 {object} response.Response "Offer not found"
// @Router /offers/{offerID} [get]
func GetOffer(svc *offerService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := offerID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		offer, err := svc.Get(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, offer)
	}
}

// CreateOffer creates an offer from a multipart form: an "offer" JSON field
// and any number of "images" files
// @Summary Create offer
// @Tags offers
// @Accept multipart/form-data
// @Produce json
// @Param offer formData string true "offers.OfferCreateRequest as JSON"
// @Param images formData file false "Offer images"
// @Success 201 {object} offers.Offer
// @Failure 400 {object} response.Response "Bad request"
// @Failure 415 {object} response.Response "Unsupported image type"
// @Failure 429 {object} response.Response "Too many requests"
// @Failure 503 {object} response.Response "No storage configured"
// @Security BearerAuth
// @Router /offers [post]
func CreateOffer(svc *offerService.Service, maxFileSize int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxFileSize*maxImages+1<<20)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(fmt.Errorf("invalid multipart form: %w", err)))
			return
		}

		var req offers.OfferCreateRequest
		if err := json.Unmarshal([]byte(r.FormValue("offer")), &req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(fmt.Errorf("invalid offer field: %w", err)))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			response.WriteValidation(w, err)
			return
		}

		headers := r.MultipartForm.File["images"]
		if len(headers) > maxImages {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(fmt.Errorf("at most %d images allowed", maxImages)))
			return
		}

		images := make([]offers.Image, 0, len(headers))
		for _, fh := range headers {
			if fh.Size > maxFileSize {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(fmt.Errorf("image %s exceeds %d bytes", fh.Filename, maxFileSize)))
				return
			}
			f, err := fh.Open()
			if err != nil {
				response.WriteError(w, err)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				response.WriteError(w, err)
				return
			}
			contentType := fh.Header.Get("Content-Type")
			if contentType == "" {
				contentType = http.DetectContentType(data)
			}
			images = append(images, offers.Image{Data: data, ContentType: contentType, OriginalFilename: fh.Filename})
		}

		offer, err := svc.Create(r.Context(), userID, req, images)
		if err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				response.WriteValidation(w, err)
				return
			}
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, offer)
	}
}

// DeleteOffer removes an offer and its images. Owners and admins only.
// @Summary Delete offer
// @Tags offers
// @Param offerID path string true "Offer ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response "Forbidden"
// @Failure 404 {object} response.Response "Offer not found"
// @Security BearerAuth
// @Router /offers/{offerID} [delete]
func DeleteOffer(svc *offerService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("user not authenticated")))
			return
		}
		id, err := offerID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		isAdmin := middleware.HasRole(r.Context(), users.RoleAdmin)
		if err := svc.Delete(r.Context(), id, userID, isAdmin); err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, response.RequestOK("Offer deleted", nil))
	}
}
