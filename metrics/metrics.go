package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecipesSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deliciasmz_recipes_saved_total",
			Help: "Total number of recipes published or edited.",
		})
	RecipesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deliciasmz_recipes_deleted_total",
			Help: "Total number of recipes deleted.",
		})
	LikesToggled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deliciasmz_likes_toggled_total",
			Help: "Total number of like toggles.",
		})
	Comments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deliciasmz_comments_total",
			Help: "Total number of Comments.",
		})
	Replies = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deliciasmz_reply_total",
			Help: "Total number of Replies.",
		})
	FavoritesToggled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "deliciasmz_favorites_toggled_total",
			Help: "Total number of favorite toggles.",
		})
	DemoFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliciasmz_demo_fallbacks_total",
			Help: "Times an operation degraded to demo mode, by operation.",
		}, []string{"op"})
	ChefRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliciasmz_chef_requests_total",
			Help: "AI chef requests by kind and outcome.",
		}, []string{"kind", "outcome"})
)
