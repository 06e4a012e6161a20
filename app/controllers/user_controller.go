package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type UserController struct {
	users *repositories.UserRepository
}

func NewUserController(users *repositories.UserRepository) *UserController {
	return &UserController{users: users}
}

type registerInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type updateProfileInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

type addressInput struct {
	Street    string `json:"street" validate:"required,max=255"`
	City      string `json:"city" validate:"required,max=100"`
	State     string `json:"state" validate:"required,max=100"`
	ZipCode   string `json:"zipCode" validate:"required,max=20"`
	Country   string `json:"country" validate:"required,max=100"`
	IsDefault bool   `json:"isDefault"`
}

type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and signs the caller in. Every account starts
// as CUSTOMER; the role field is not accepted from the wire.
func (c *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var in registerInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		fail(w, r, err, "", "")
		return
	}

	user := &models.User{
		Email:     in.Email,
		Password:  hash,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      models.RoleCustomer,
	}
	if err := c.users.Create(r.Context(), user); err != nil {
		fail(w, r, err, "", "User already exists")
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		fail(w, r, err, "", "")
		return
	}

	logger.WithCtx(r.Context()).Info("user registered", "user_id", user.ID)
	response.Created(w, authPayload{User: user, Token: token})
}

// Login verifies credentials and issues a token. A wrong email and a wrong
// password produce the same reply.
func (c *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.users.FindByEmail(r.Context(), in.Email)
	if err != nil || !auth.CheckPassword(user.Password, in.Password) {
		response.Unauthorized(w, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID)
	if err != nil {
		fail(w, r, err, "", "")
		return
	}

	response.OK(w, authPayload{User: user, Token: token})
}

func (c *UserController) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := c.users.FindByID(r.Context(), middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		fail(w, r, err, "User not found", "")
		return
	}
	response.OK(w, user)
}

func (c *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in updateProfileInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.UserIDFromCtx(r.Context())
	user := &models.User{ID: userID, FirstName: in.FirstName, LastName: in.LastName}
	if err := c.users.Update(r.Context(), user); err != nil {
		fail(w, r, err, "User not found", "")
		return
	}

	fresh, err := c.users.FindByID(r.Context(), userID)
	if err != nil {
		fail(w, r, err, "User not found", "")
		return
	}
	response.OK(w, fresh)
}

func (c *UserController) Addresses(w http.ResponseWriter, r *http.Request) {
	addresses, err := c.users.Addresses(r.Context(), middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		fail(w, r, err, "", "")
		return
	}
	response.OK(w, addresses)
}

func (c *UserController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	var in addressInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	address := &models.Address{
		UserID:    middleware.UserIDFromCtx(r.Context()),
		Street:    in.Street,
		City:      in.City,
		State:     in.State,
		ZipCode:   in.ZipCode,
		Country:   in.Country,
		IsDefault: in.IsDefault,
	}
	if err := c.users.CreateAddress(r.Context(), address); err != nil {
		fail(w, r, err, "", "")
		return
	}
	response.Created(w, address)
}

func (c *UserController) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Address not found")
	if !ok {
		return
	}

	address, err := c.users.SetDefaultAddress(r.Context(), middleware.UserIDFromCtx(r.Context()), id)
	if err != nil {
		fail(w, r, err, "Address not found", "")
		return
	}
	response.OK(w, address)
}
