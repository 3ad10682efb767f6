package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	_ "github.com/Astemirdum/book-exchange/market/docs"
	"github.com/Astemirdum/book-exchange/market/internal/errs"
	"github.com/Astemirdum/book-exchange/pkg/auth"
	mw "github.com/Astemirdum/book-exchange/pkg/middleware"
	"github.com/Astemirdum/book-exchange/pkg/validate"
)

type Handler struct {
	svc     MarketService
	authCfg auth.Config
	log     *zap.Logger
}

func New(svc MarketService, authCfg auth.Config, log *zap.Logger) *Handler {
	return &Handler{
		svc:     svc,
		authCfg: authCfg,
		log:     log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)
	base.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		mw.NewRateLimiter(apiRPS),
	)
	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookId", h.GetBook)

	api = api.Group("", mw.JwtAuthentication(h.authCfg), h.trackTrader)
	api.POST("/books", h.CreateBook)
	api.GET("/me/books", h.MyBooks)

	api.POST("/trades", h.ProposeTrade)
	api.GET("/trades/incoming", h.ListIncoming)
	api.GET("/trades/outgoing", h.ListOutgoing)
	api.GET("/trades/:tradeId", h.GetTrade)
	api.PUT("/trades/:tradeId", h.RespondToTrade)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// trackTrader records callers of write endpoints in the trader projection.
func (h *Handler) trackTrader(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodGet {
			ctx := c.Request().Context()
			if p, err := auth.GetProfile(ctx); err == nil {
				if err := h.svc.EnsureTrader(ctx, p); err != nil {
					h.log.Warn("ensure trader", zap.Error(err), zap.Stringer("user_id", p.UserID))
				}
			}
		}
		return next(c)
	}
}

func (h *Handler) errorResponse(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrInvalidOperation),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrCancelled):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		h.log.Error("internal error", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
