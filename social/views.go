package social

import (
	"sort"
	"time"

	"deliciasmz/models"
)

// FilterByCategory returns the recipes of category, or all of them when
// category is empty.
func FilterByCategory(list []models.Recipe, category string) []models.Recipe {
	if category == "" {
		return list
	}
	out := []models.Recipe{}
	for _, r := range list {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// FavoriteRecipes resolves favorite IDs against the collection. IDs of
// recipes that no longer exist are skipped.
func FavoriteRecipes(list []models.Recipe, favorites []string) []models.Recipe {
	set := make(map[string]struct{}, len(favorites))
	for _, id := range favorites {
		set[id] = struct{}{}
	}
	out := []models.Recipe{}
	for _, r := range list {
		if _, ok := set[r.ID]; ok {
			out = append(out, r)
		}
	}
	return out
}

// CommentsNewestFirst returns a sorted copy of the recipe's comments.
// Unparseable timestamps sort last.
func CommentsNewestFirst(r models.Recipe) []models.Comment {
	out := append([]models.Comment{}, r.Comments...)
	sort.SliceStable(out, func(i, j int) bool {
		return parseTime(out[i].CreatedAt).After(parseTime(out[j].CreatedAt))
	})
	return out
}

// Popular returns up to n recipes ordered by like count.
func Popular(list []models.Recipe, n int) []models.Recipe {
	out := append([]models.Recipe{}, list...)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].LikedBy) > len(out[j].LikedBy)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CategoryCounts reports how many recipes each known category holds.
func CategoryCounts(list []models.Recipe) map[string]int {
	counts := make(map[string]int, len(models.Categories))
	for _, c := range models.Categories {
		counts[c] = 0
	}
	for _, r := range list {
		counts[r.Category]++
	}
	return counts
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
