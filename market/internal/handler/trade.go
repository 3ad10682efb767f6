package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/book-exchange/market/internal/model"
	"github.com/Astemirdum/book-exchange/pkg/auth"
)

func callerID(c echo.Context) (uuid.UUID, error) {
	id, err := auth.GetUserID(c.Request().Context())
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" is invalid")
	}
	return id, nil
}

// ProposeTrade
// @Summary      Propose a trade
// @Tags         trades
// @Accept       json
// @Produce      json
// @Param        request body model.ProposeTradeRequest true "target and offered books"
// @Success      201 {object} model.TradeView
// @Failure      400,404 {object} echo.HTTPError
// @Security     Bearer
// @Router       /trades [post]
func (h *Handler) ProposeTrade(c echo.Context) error {
	proposerID, err := callerID(c)
	if err != nil {
		return err
	}
	var req model.ProposeTradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	trade, err := h.svc.ProposeTrade(c.Request().Context(), proposerID, req)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusCreated, trade)
}

// RespondToTrade
// @Summary      Accept or reject an incoming trade
// @Tags         trades
// @Accept       json
// @Produce      json
// @Param        tradeId path string true "trade id"
// @Param        request body model.RespondTradeRequest true "decision"
// @Success      200 {object} model.TradeView
// @Failure      400,403,404 {object} echo.HTTPError
// @Security     Bearer
// @Router       /trades/{tradeId} [put]
func (h *Handler) RespondToTrade(c echo.Context) error {
	actorID, err := callerID(c)
	if err != nil {
		return err
	}
	tradeID, err := pathID(c, "tradeId")
	if err != nil {
		return err
	}
	var req model.RespondTradeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	trade, err := h.svc.RespondToTrade(c.Request().Context(), actorID, tradeID, req.Status)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, trade)
}

// GetTrade
// @Summary      Get a trade the caller takes part in
// @Tags         trades
// @Produce      json
// @Param        tradeId path string true "trade id"
// @Success      200 {object} model.TradeView
// @Failure      403,404 {object} echo.HTTPError
// @Security     Bearer
// @Router       /trades/{tradeId} [get]
func (h *Handler) GetTrade(c echo.Context) error {
	actorID, err := callerID(c)
	if err != nil {
		return err
	}
	tradeID, err := pathID(c, "tradeId")
	if err != nil {
		return err
	}
	trade, err := h.svc.GetTrade(c.Request().Context(), actorID, tradeID)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, trade)
}

// ListIncoming
// @Summary      Trades proposed to the caller, newest first
// @Tags         trades
// @Produce      json
// @Success      200 {array} model.TradeView
// @Security     Bearer
// @Router       /trades/incoming [get]
func (h *Handler) ListIncoming(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	trades, err := h.svc.ListIncoming(c.Request().Context(), userID)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, trades)
}

// ListOutgoing
// @Summary      Trades proposed by the caller, newest first
// @Tags         trades
// @Produce      json
// @Success      200 {array} model.TradeView
// @Security     Bearer
// @Router       /trades/outgoing [get]
func (h *Handler) ListOutgoing(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	trades, err := h.svc.ListOutgoing(c.Request().Context(), userID)
	if err != nil {
		return h.errorResponse(err)
	}
	return c.JSON(http.StatusOK, trades)
}
