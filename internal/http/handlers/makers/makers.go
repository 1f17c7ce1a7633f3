package makers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	catalogService "github.com/princekumarofficial/autohouse-service/internal/services/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/types/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/utils/response"
)

func makerID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("makerID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid maker id")
	}
	return id, nil
}

// ListMakers returns every maker with its models
// @Summary List makers
// @Tags makers
// @Produce json
// @Success 200 {array} catalog.Maker
// @Router /makers [get]
func ListMakers(svc *catalogService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		makers, err := svc.ListMakersWithModels(r.Context())
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if makers == nil {
			makers = []catalog.Maker{}
		}
		response.WriteJSON(w, http.StatusOK, makers)
	}
}

// GetMaker returns one maker with its models
// @Summary Get maker
// @Tags makers
// @Produce json
// @Param makerID path int true "Maker ID"
// @Success 200 {object} catalog.Maker
// @Failure 404 {object} response.Response "Maker not found"
// @Router /makers/{makerID} [get]
func GetMaker(svc *catalogService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := makerID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		maker, err := svc.GetMaker(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, maker)
	}
}

// ListModels returns a maker's models with their trims
// @Summary List models with trims
// @Tags makers
// @Produce json
// @Param makerID path int true "Maker ID"
// @Success 200 {array} catalog.Model
// @Router /makers/{makerID}/models [get]
func ListModels(svc *catalogService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := makerID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		models, err := svc.ListModelsWithTrims(r.Context(), id)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		if models == nil {
			models = []catalog.Model{}
		}
		response.WriteJSON(w, http.StatusOK, models)
	}
}

// GetModel looks a model up by maker and model name
// @Summary Get model by names
// @Tags makers
// @Produce json
// @Param makerName path string true "Maker name"
// @Param modelName path string true "Model name"
// @Success 200 {object} catalog.Model
// @Failure 404 {object} response.Response "Model not found"
// @Router /models/{makerName}/{modelName} [get]
func GetModel(svc *catalogService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		model, err := svc.GetModel(r.Context(), r.PathValue("makerName"), r.PathValue("modelName"))
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, model)
	}
}

// CreateMaker adds a maker
// @Summary Create maker
// @Tags makers
// @Accept json
// @Produce json
// @Param maker body catalog.MakerCreateRequest true "Maker"
// @Success 201 {object} catalog.Maker
// @Failure 409 {object} response.Response "Maker already exists"
// @Security BearerAuth
// @Router /makers [post]
func CreateMaker(svc *catalogService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req catalog.MakerCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			response.WriteValidation(w, err)
			return
		}

		maker, err := svc.CreateMaker(r.Context(), req.Name)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, maker)
	}
}

// AddModel adds a model to a maker
// @Summary Add model to maker
// @Tags makers
// @Accept json
// @Produce json
// @Param makerID path int true "Maker ID"
// @Param model body catalog.ModelCreateRequest true "Model"
// @Success 201 {object} catalog.Maker
// @Failure 404 {object} response.Response "Maker not found"
// @Failure 409 {object} response.Response "Model already exists"
// @Security BearerAuth
// @Router /makers/{makerID}/models [post]
func AddModel(svc *catalogService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := makerID(r)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		var req catalog.ModelCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		if err := validator.New().Struct(req); err != nil {
			response.WriteValidation(w, err)
			return
		}

		maker, err := svc.AddModelToMaker(r.Context(), id, req.Name)
		if err != nil {
			response.WriteError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, maker)
	}
}
