package routes

import (
	"net/http"

	"deliciasmz/auth"
	"deliciasmz/chef"
	"deliciasmz/home"
	"deliciasmz/middleware"
	"deliciasmz/ratelim"
	"deliciasmz/recipes"
	"deliciasmz/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries every handler the router wires.
type Deps struct {
	Auth     *middleware.Auth
	Limiter  *ratelim.RateLimiter
	Recipes  *recipes.Handler
	Home     *home.Handler
	Identity *auth.Service
	Chef     *chef.Chef
	Uploader *utils.Uploader
}

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Write([]byte("200"))
	})
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
}

func AddRecipeRoutes(router *httprouter.Router, d Deps) {
	h, a := d.Recipes, d.Auth
	router.GET("/api/v1/recipes", a.OptionalAuth(h.GetRecipes))
	router.GET("/api/v1/recipes/categories", h.GetCategories)
	router.GET("/api/v1/recipes/recipe/:id", a.OptionalAuth(h.GetRecipe))
	router.POST("/api/v1/recipes", d.Limiter.Limit(a.Authenticate(h.CreateRecipe)))
	router.PUT("/api/v1/recipes/recipe/:id", a.Authenticate(h.UpdateRecipe))
	router.DELETE("/api/v1/recipes/recipe/:id", a.Authenticate(h.DeleteRecipe))

	router.POST("/api/v1/recipes/recipe/:id/like", d.Limiter.Limit(a.Authenticate(h.ToggleLike)))
	router.POST("/api/v1/recipes/recipe/:id/comments", d.Limiter.Limit(a.Authenticate(h.AddComment)))
	router.POST("/api/v1/recipes/recipe/:id/comments/:commentid/replies", d.Limiter.Limit(a.Authenticate(h.AddReply)))
}

func AddFavoriteRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/v1/favorites", middleware.WithDevice(d.Recipes.GetFavorites))
	router.PUT("/api/v1/favorites/:id", middleware.WithDevice(d.Recipes.ToggleFavorite))
}

func AddHomeRoutes(router *httprouter.Router, d Deps) {
	router.GET("/api/v1/home/:apiRoute", d.Auth.OptionalAuth(d.Home.GetHomeContent))
}

func AddAuthRoutes(router *httprouter.Router, d Deps) {
	s, l := d.Identity, d.Limiter
	router.POST("/api/v1/auth/register", l.Limit(s.RegisterHandler))
	router.POST("/api/v1/auth/confirm", l.Limit(s.ConfirmHandler))
	router.POST("/api/v1/auth/login", l.Limit(s.LoginHandler))
	router.POST("/api/v1/auth/guest", l.Limit(s.GuestHandler))
	router.POST("/api/v1/auth/logout", d.Auth.Authenticate(s.LogoutHandler))
	router.POST("/api/v1/auth/admin", l.Limit(d.Auth.Authenticate(s.AdminHandler)))
}

func AddChefRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/v1/chef/recipe", d.Limiter.Limit(d.Chef.RecipeHandler))
	router.POST("/api/v1/chef/tip", d.Limiter.Limit(d.Chef.TipHandler))
}

func AddUploadRoutes(router *httprouter.Router, d Deps) {
	router.POST("/api/v1/upload/images", d.Limiter.Limit(d.Auth.Authenticate(d.Uploader.UploadImages)))
}

// New builds the router with every route group.
func New(d Deps) *httprouter.Router {
	router := httprouter.New()
	AddUtilityRoutes(router)
	AddStaticRoutes(router, d.Uploader.Dir)
	AddRecipeRoutes(router, d)
	AddFavoriteRoutes(router, d)
	AddHomeRoutes(router, d)
	AddAuthRoutes(router, d)
	AddChefRoutes(router, d)
	AddUploadRoutes(router, d)
	return router
}
