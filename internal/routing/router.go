package routing

import (
	"net/http"
	"time"

	"github.com/pelyams/car_catalog_service/internal/auth"
)

// Route policy. Reads are open and cached; creating a product needs an
// authenticated caller.
const (
	DefaultCacheTTL      = 30 * time.Minute
	createRequiresAuth   = true
	updateRequiresAuth   = false
	deleteRequiresAuth   = false
	listCacheEnabled     = true
	filterCacheEnabled   = true
	retrieveCacheEnabled = false
)

type RouterConfig struct {
	// CacheTTL is how long list responses are cached. Zero disables
	// response caching.
	CacheTTL      time.Duration
	Authenticator Authenticator
	Checks        map[string]Checker
	// Metrics, when set, is served on /metrics.
	Metrics       http.Handler
}

type Router struct {
	handler *ProductHandler
	cacher  *ResponseCacher
	config  RouterConfig
}

func NewRouter(handler *ProductHandler, cacher *ResponseCacher, config RouterConfig) *Router {
	if config.Authenticator == nil {
		config.Authenticator = auth.NewJWTAuthenticator(auth.JWTConfig{})
	}
	return &Router{
		handler: handler,
		cacher:  cacher,
		config:  config,
	}
}

func (router *Router) cached(enabled bool, h http.HandlerFunc) http.HandlerFunc {
	if !enabled || router.cacher == nil {
		return h
	}
	return router.cacher.Cached(router.config.CacheTTL, h)
}

func (router *Router) authenticated(required bool, h http.HandlerFunc) http.HandlerFunc {
	if !required {
		return h
	}
	return RequireAuth(router.config.Authenticator, h)
}

func (router *Router) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	listProducts := router.cached(listCacheEnabled, router.handler.ListProducts)
	createProduct := router.authenticated(createRequiresAuth, router.handler.CreateProduct)
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listProducts(w, r)
		case http.MethodPost:
			createProduct(w, r)
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	listFiltered := router.cached(filterCacheEnabled, router.handler.ListFilteredProducts)
	mux.HandleFunc("/products/filtered", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listFiltered(w, r)
		default:
			w.Header().Set("Allow", "GET")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	getProduct := router.cached(retrieveCacheEnabled, router.handler.GetProductById)
	updateProduct := router.authenticated(updateRequiresAuth, router.handler.UpdateProduct)
	patchProduct := router.authenticated(updateRequiresAuth, router.handler.PatchProduct)
	deleteProduct := router.authenticated(deleteRequiresAuth, router.handler.DeleteProduct)
	mux.HandleFunc("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			getProduct(w, r)
		case http.MethodPut:
			updateProduct(w, r)
		case http.MethodPatch:
			patchProduct(w, r)
		case http.MethodDelete:
			deleteProduct(w, r)
		default:
			w.Header().Set("Allow", "GET, PUT, PATCH, DELETE")
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.Handle("GET /healthz", LivenessHandler())
	mux.Handle("GET /readyz", ReadinessHandler(router.config.Checks))
	if router.config.Metrics != nil {
		mux.Handle("GET /metrics", router.config.Metrics)
	}

	return countRequests(mux)
}
