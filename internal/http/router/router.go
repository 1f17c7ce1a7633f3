// Package router mounts every HTTP handler on a ServeMux.
package router

import (
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/princekumarofficial/autohouse-service/docs"
	"github.com/princekumarofficial/autohouse-service/internal/cache"
	"github.com/princekumarofficial/autohouse-service/internal/events"
	adminHandlers "github.com/princekumarofficial/autohouse-service/internal/http/handlers/admin"
	"github.com/princekumarofficial/autohouse-service/internal/http/handlers/makers"
	mediaHandlers "github.com/princekumarofficial/autohouse-service/internal/http/handlers/media"
	offerHandlers "github.com/princekumarofficial/autohouse-service/internal/http/handlers/offers"
	userHandlers "github.com/princekumarofficial/autohouse-service/internal/http/handlers/users"
	wsHandlers "github.com/princekumarofficial/autohouse-service/internal/http/handlers/websocket"
	"github.com/princekumarofficial/autohouse-service/internal/http/middleware"
	"github.com/princekumarofficial/autohouse-service/internal/services/admin"
	"github.com/princekumarofficial/autohouse-service/internal/services/catalog"
	"github.com/princekumarofficial/autohouse-service/internal/services/media"
	"github.com/princekumarofficial/autohouse-service/internal/services/offers"
	"github.com/princekumarofficial/autohouse-service/internal/services/users"
	userTypes "github.com/princekumarofficial/autohouse-service/internal/types/users"
	"github.com/princekumarofficial/autohouse-service/internal/websocket"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Deps are the services the routes need.
type Deps struct {
	JWTSecret   string
	MaxFileSize int64
	PresignTTL  time.Duration
	Redis       *redis.Client
	Hub         *websocket.Hub
	Publisher   events.Publisher
	Users       *users.Service
	Catalog     *catalog.Service
	Admin       *admin.Service
	Offers      *offers.Service
	Media       *media.Service
}

func New(d Deps) *http.ServeMux {
	router := http.NewServeMux()

	auth := middleware.AuthMiddleware(d.JWTSecret)
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, auth, middleware.RequireRole(userTypes.RoleAdmin))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h, auth)
	}
	rl := middleware.NewRateLimitConfig(d.Redis)

	router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// users
	router.Handle("POST /signup", rl.IPRateLimitMiddleware(middleware.ActionSignUp)(userHandlers.SignUp(d.Users)))
	router.Handle("POST /login", rl.IPRateLimitMiddleware(middleware.ActionLogin)(userHandlers.Login(d.Users)))
	router.Handle("GET /me", authed(userHandlers.Me(d.Users)))

	// catalog
	router.HandleFunc("GET /makers", makers.ListMakers(d.Catalog))
	router.HandleFunc("GET /makers/{makerID}", makers.GetMaker(d.Catalog))
	router.HandleFunc("GET /makers/{makerID}/models", makers.ListModels(d.Catalog))
	router.HandleFunc("GET /models/{makerName}/{modelName}", makers.GetModel(d.Catalog))
	router.Handle("POST /makers", adminOnly(makers.CreateMaker(d.Catalog)))
	router.Handle("POST /makers/{makerID}/models", adminOnly(makers.AddModel(d.Catalog)))

	// admin
	router.Handle("POST /admin/catalog/import", adminOnly(adminHandlers.ImportCatalog(d.Catalog, d.Publisher)))
	router.Handle("POST /admin/users/bulk", adminOnly(adminHandlers.BulkRegisterUsers(d.Admin)))
	router.Handle("GET /admin/users", adminOnly(adminHandlers.ListUsers(d.Admin)))
	router.Handle("GET /admin/locations", adminOnly(adminHandlers.ListLocations(d.Admin)))
	router.Handle("POST /admin/locations", adminOnly(adminHandlers.CreateLocation(d.Admin)))
	router.Handle("GET /admin/cache/stats", adminOnly(cache.GetCacheStats(d.Redis)))
	router.Handle("DELETE /admin/cache", adminOnly(cache.ClearCache(d.Redis)))

	// offers
	router.HandleFunc("GET /offers/top", offerHandlers.TopOffers(d.Offers))
	router.HandleFunc("GET /offers/search", offerHandlers.SearchOffers(d.Offers))
	router.HandleFunc("GET /offers/{offerID}", offerHandlers.GetOffer(d.Offers))
	router.Handle("POST /offers", middleware.Chain(
		offerHandlers.CreateOffer(d.Offers, d.MaxFileSize),
		auth, rl.RateLimitMiddleware(middleware.ActionOffers),
	))
	router.Handle("DELETE /offers/{offerID}", authed(offerHandlers.DeleteOffer(d.Offers)))

	// media
	mh := mediaHandlers.NewMediaHandlers(d.Media, d.PresignTTL)
	router.HandleFunc("GET /media/{mediaID}", mh.GetMedia())
	router.Handle("DELETE /media/{mediaID}", adminOnly(mh.DeleteMedia()))

	// websocket
	router.HandleFunc("GET /ws", wsHandlers.WebSocketHandler(d.Hub, d.JWTSecret))

	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	return router
}
