package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/princekumarofficial/autohouse-service/internal/http/middleware"
	userService "github.com/princekumarofficial/autohouse-service/internal/services/users"
	"github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/princekumarofficial/autohouse-service/internal/utils/response"
)

// SignUp handles user registration
// @Summary Register a new user
// @Description Register a new user account with the USER role
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignUpRequest true "User registration details"
// @Success 201 {object} map[string]string "User created successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 409 {object} response.Response "Username already taken"
// @Failure 429 {object} response.Response "Too many requests"
// @Router /signup [post]
func SignUp(svc *userService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var signupReq users.SignUpRequest

		if err := json.NewDecoder(r.Body).Decode(&signupReq); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		validate := validator.New()
		if err := validate.Struct(signupReq); err != nil {
			response.WriteValidation(w, err)
			return
		}

		user, err := svc.Register(r.Context(), signupReq.Email, signupReq.Password, users.RoleUser)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, map[string]string{
			"id": user.ID,
		})
	}
}

// Login handles user authentication
// @Summary Authenticate a user
// @Description Authenticate a user and return JWT token
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignInRequest true "User login details"
// @Success 200 {object} map[string]string "User authenticated successfully with token"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 429 {object} response.Response "Too many requests"
// @Router /login [post]
func Login(svc *userService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var signinReq users.SignInRequest

		if err := json.NewDecoder(r.Body).Decode(&signinReq); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		validate := validator.New()
		if err := validate.Struct(signinReq); err != nil {
			response.WriteValidation(w, err)
			return
		}

		token, user, err := svc.Login(r.Context(), signinReq.Email, signinReq.Password)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{
			"user_id": user.ID,
			"token":   token,
		})
	}
}

// Me returns the authenticated user
// @Summary Current user
// @Tags users
// @Produce json
// @Success 200 {object} users.User
// @Failure 401 {object} response.Response "Unauthorized"
// @Security BearerAuth
// @Router /me [get]
func Me(svc *userService.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("unauthorized")))
			return
		}

		user, err := svc.Get(r.Context(), userID)
		if err != nil {
			response.WriteError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, user)
	}
}
