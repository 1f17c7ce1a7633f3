package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/autohouse-service/internal/events"
	"github.com/princekumarofficial/autohouse-service/internal/http/middleware"
	adminService "github.com/princekumarofficial/autohouse-service/internal/services/admin"
	catalogService "github.com/princekumarofficial/autohouse-service/internal/services/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/types/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/types/offers"
	"github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/princekumarofficial/autohouse-service/internal/utils/response"
)

// ImportCatalog bulk-imports makers with their models and trims
// @Summary Bulk catalog import
// @Description Imports makers, models and trims in one transaction. Any duplicate aborts the whole import.
// @Tags admin
// @Accept json
// @Produce json
// @Param makers body []catalog.MakerImportRequest true "Makers to import"
// @Success 200 {object} catalog.ImportResult
// @Failure 400 {object} response.Response "Bad request"
// @Failure 409 {object} response.Response "Maker or model already exists"
// @Security BearerAuth
// @Router /admin/catalog/import [post]
func ImportCatalog(svc *catalogService.Service, publisher events.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req []catalog.MakerImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		start := time.Now()
		count, err := svc.Import(r.Context(), req)
		if err != nil {
			var ve validator.ValidationErrors
			if errors.As(err, &ve) {
				response.WriteValidation(w, err)
				return
			}
			response.WriteError(w, err)
			return
		}

		publisher.PublishCatalogImported(len(req), count, time.Since(start))
		response.WriteJSON(w, http.StatusOK, catalog.ImportResult{MakerCount: count})
	}
}

// BulkRegisterUsers creates accounts with generated passwords
// @Summary Bulk register users
// @Tags admin
// @Accept json
// @Produce json
// @Param request body users.BulkRegisterRequest true "Usernames"
// @Success 201 {object} admin.BulkRegisterResult
// @Failure 403 {object} response.Response "Forbidden"
// @Security BearerAuth
// @Router /admin/users/bulk [post]
func BulkRegisterUsers(svc *adminService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("unauthorized")))
			return
		}

		var req users.BulkRegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			response.WriteValidation(w, err)
			return
		}

		result, err := svc.BulkRegisterUsers(r.Context(), adminID, req.Usernames)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, result)
	}
}

// ListUsers returns the id and username of every account
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {array} users.UserSummary
// @Security BearerAuth
// @Router /admin/users [get]
func ListUsers(svc *adminService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListUsers(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if list == nil {
			list = []users.UserSummary{}
		}
		response.WriteJSON(w, http.StatusOK, list)
	}
}

// ListLocations returns every location
// @Summary List locations
// @Tags admin
// @Produce json
// @Success 200 {array} offers.Location
// @Security BearerAuth
// @Router /admin/locations [get]
func ListLocations(svc *adminService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListLocations(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if list == nil {
			list = []offers.Location{}
		}
		response.WriteJSON(w, http.StatusOK, list)
	}
}

// CreateLocation adds a location
// @Summary Create location
// @Tags admin
// @Accept json
// @Produce json
// @Param location body offers.Location true "Location"
// @Success 201 {object} offers.Location
// @Failure 400 {object} response.Response "Invalid coordinates"
// @Security BearerAuth
// @Router /admin/locations [post]
func CreateLocation(svc *adminService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req offers.Location
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			response.WriteValidation(w, err)
			return
		}

		loc, err := svc.CreateLocation(r.Context(), req)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, loc)
	}
}
