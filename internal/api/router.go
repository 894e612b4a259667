package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sixcities/rental-api/docs"
	"github.com/sixcities/rental-api/internal/api/handler"
	"github.com/sixcities/rental-api/internal/api/middleware"
	"github.com/sixcities/rental-api/internal/core/ports"
	"github.com/sixcities/rental-api/internal/infrastructure/storage"
)

const (
	avatarField = "avatar"
	// multipartOverhead covers boundaries and part headers around the file.
	multipartOverhead = 64 << 10
)

// Dependencies is everything the router wires into handlers and middleware.
type Dependencies struct {
	Users    ports.UserService
	Offers   ports.OfferService
	Comments ports.CommentService

	Tokens      ports.TokenVerifier
	UserOwners  ports.OwnerLookup
	OfferOwners ports.OwnerLookup

	Storage        ports.FileStorage
	UploadMaxBytes int64
	// StaticDir is served under /uploads when avatars are stored locally.
	StaticDir string

	Health map[string]handler.Pinger
	Log    zerolog.Logger
	// Registerer receives the HTTP request metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

type route struct {
	method      string
	path        string
	handler     echo.HandlerFunc
	middlewares []echo.MiddlewareFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sixcities",
		Registerer: deps.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	register(e, routes(deps))

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if deps.StaticDir != "" {
		e.Static(storage.PublicPrefix, deps.StaticDir)
	}

	return e
}

func routes(deps Dependencies) []route {
	users := handler.NewUserHandler(deps.Users)
	offers := handler.NewOfferHandler(deps.Offers)
	comments := handler.NewCommentHandler(deps.Comments)
	health := handler.NewHealthHandler(deps.Health)

	auth := middleware.Authenticate(deps.Tokens, deps.Log)
	optional := middleware.AuthenticateOptional(deps.Tokens, deps.Log)

	offerID := middleware.ValidateObjectID("offerId")
	offerExists := middleware.CheckEntityExists(deps.OfferOwners, "offerId", "Offer")
	avatarBody := echomiddleware.BodyLimit(strconv.FormatInt(deps.UploadMaxBytes+multipartOverhead, 10) + "B")

	ownOffer := func(action string) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{
			offerID,
			auth,
			offerExists,
			middleware.RequireOwner(action, "Offer", deps.Log),
		}
	}

	return []route{
		// --- Users ---
		{http.MethodPost, "/users/register", users.Register, nil},
		{http.MethodPost, "/users/login", users.Login, nil},
		{http.MethodGet, "/users/login", users.Me, []echo.MiddlewareFunc{auth}},
		{http.MethodPost, "/users/logout", users.Logout, []echo.MiddlewareFunc{auth}},
		{http.MethodPost, "/users/:id/avatar", users.UploadAvatar, []echo.MiddlewareFunc{
			avatarBody,
			middleware.ValidateObjectID("id"),
			auth,
			middleware.CheckEntityExists(deps.UserOwners, "id", "User"),
			middleware.RequireOwner("change", "avatar", deps.Log),
			middleware.UploadFile(avatarField, deps.UploadMaxBytes, deps.Storage, deps.Log),
		}},

		// --- Offers ---
		{http.MethodGet, "/offers", offers.List, []echo.MiddlewareFunc{optional}},
		{http.MethodGet, "/offers/premium", offers.Premium, []echo.MiddlewareFunc{optional}},
		{http.MethodGet, "/offers/:offerId", offers.Get, []echo.MiddlewareFunc{offerID, optional}},
		{http.MethodPost, "/offers", offers.Create, []echo.MiddlewareFunc{auth}},
		{http.MethodPatch, "/offers/:offerId", offers.Update, ownOffer("update")},
		{http.MethodDelete, "/offers/:offerId", offers.Delete, ownOffer("delete")},

		// --- Favorites ---
		{http.MethodGet, "/favorites", offers.Favorites, []echo.MiddlewareFunc{auth}},
		{http.MethodPost, "/favorites/:offerId", offers.AddFavorite, []echo.MiddlewareFunc{offerID, auth}},
		{http.MethodDelete, "/favorites/:offerId", offers.RemoveFavorite, []echo.MiddlewareFunc{offerID, auth}},

		// --- Comments ---
		{http.MethodGet, "/comments/:offerId", comments.List, []echo.MiddlewareFunc{offerID, offerExists}},
		{http.MethodPost, "/comments/:offerId", comments.Create, []echo.MiddlewareFunc{offerID, auth, offerExists}},

		// --- Health probes (no auth required) ---
		{http.MethodGet, "/health", health.Liveness, nil},
		{http.MethodGet, "/health/ready", health.Readiness, nil},
	}
}

func register(e *echo.Echo, rs []route) {
	for _, r := range rs {
		e.Add(r.method, r.path, r.handler, r.middlewares...)
	}
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
