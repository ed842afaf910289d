package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-records-api/internal/application"
	"github.com/oksasatya/user-records-api/pkg/response"
	"github.com/oksasatya/user-records-api/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.UserService
	Logger *logrus.Logger
	Env    string
}

func NewUserHandler(svc *userapp.UserService, logger *logrus.Logger, env string) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Env: env}
}

// respondError maps the error taxonomy onto status codes. Unclassified
// errors are logged in full and surfaced with a generic message outside
// development.
func (h *UserHandler) respondError(c *gin.Context, err error) {
	var verr *userapp.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error(c, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, userapp.ErrEmailExists):
		response.Error(c, http.StatusConflict, "email already exists", nil)
	default:
		h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("request failed")
		msg := "internal server error"
		if h.Env == "development" {
			msg = err.Error()
		}
		response.Error(c, http.StatusInternalServerError, msg, nil)
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var in validation.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.BindingErrors(err))
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "user created", u)
}

func (h *UserHandler) List(c *gin.Context) {
	q := userapp.ListQuery{
		City:   c.Query("city"),
		Gender: c.Query("gender"),
		Search: c.Query("search"),
	}
	var limit, offset int
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.Error(c, http.StatusBadRequest, "invalid query", []string{"limit must be a non-negative integer"})
			return
		}
		limit = n
		q.Limit = &limit
	}
	if v := c.Query("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			response.Error(c, http.StatusBadRequest, "invalid query", []string{"offset must be a non-negative integer"})
			return
		}
		offset = n
		q.Offset = &offset
	}

	users, total, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, "users retrieved", users, response.Pagination{
		Total:  total,
		Limit:  limit,
		Offset: offset,
		Count:  len(users),
	})
}

func (h *UserHandler) Search(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		response.Error(c, http.StatusBadRequest, "missing search query", []string{"q is required"})
		return
	}
	users, err := h.Svc.Search(c.Request.Context(), term)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithCount(c, http.StatusOK, "search results", users, len(users))
}

func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user statistics", stats)
}

func (h *UserHandler) ByCity(c *gin.Context) {
	users, err := h.Svc.Filter(c.Request.Context(), userapp.ListQuery{City: c.Param("city")})
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithCount(c, http.StatusOK, "users retrieved", users, len(users))
}

func (h *UserHandler) ByGender(c *gin.Context) {
	users, err := h.Svc.Filter(c.Request.Context(), userapp.ListQuery{Gender: c.Param("gender")})
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.SuccessWithCount(c, http.StatusOK, "users retrieved", users, len(users))
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user retrieved", u)
}

func (h *UserHandler) Update(c *gin.Context) {
	var in validation.UserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.BindingErrors(err))
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user updated", u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "user deleted successfully", nil)
}
