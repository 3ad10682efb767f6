package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/book-exchange/market/internal/model"
)

func (h *Handler) CreateBook(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.svc.CreateBook(c.Request().Context(), ownerID, req)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) GetBook(c echo.Context) error {
	bookID, err := pathID(c, "bookId")
	if err != nil {
		return err
	}
	book, err := h.svc.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c echo.Context) error {
	filter, err := bookFilter(c)
	if err != nil {
		return err
	}
	if ownerParam := c.QueryParam("owner"); ownerParam != "" {
		if filter.OwnerID, err = uuid.Parse(ownerParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("owner is invalid"))
		}
	}
	books, err := h.svc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) MyBooks(c echo.Context) error {
	ownerID, err := callerID(c)
	if err != nil {
		return err
	}
	filter, err := bookFilter(c)
	if err != nil {
		return err
	}
	filter.OwnerID = ownerID
	books, err := h.svc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, books)
}

const (
	maxPage     = 100_000
	maxPageSize = 100
)

// bookFilter reads page and size; size is clamped to maxPageSize.
func bookFilter(c echo.Context) (model.BookFilter, error) {
	var (
		err    error
		filter model.BookFilter
	)
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if filter.Page, err = strconv.Atoi(pageParam); err != nil || filter.Page < 0 || filter.Page > maxPage {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.New("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if filter.Size, err = strconv.Atoi(sizeParam); err != nil || filter.Size < 0 {
			return filter, echo.NewHTTPError(http.StatusBadRequest, errors.New("size is invalid"))
		}
		filter.Size = min(filter.Size, maxPageSize)
	}
	return filter, nil
}
