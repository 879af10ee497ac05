package storage

import (
	"deliciasmz/models"
)

const (
	unknownUser   = "Usuário Desconhecido"
	defaultAvatar = "https://via.placeholder.com/150"
)

func profileOf(refs []models.ProfileRef) (name, avatar string) {
	name, avatar = unknownUser, defaultAvatar
	if len(refs) == 0 {
		return
	}
	if refs[0].FullName != "" {
		name = refs[0].FullName
	}
	if refs[0].AvatarURL != "" {
		avatar = refs[0].AvatarURL
	}
	return
}

// RecipeFromRow maps a joined backend row onto the shared entity shape.
func RecipeFromRow(row models.RecipeRow) models.Recipe {
	name, avatar := profileOf(row.Profiles)
	r := models.Recipe{
		ID:           row.ID.Hex(),
		Title:        row.Title,
		Description:  row.Description,
		Image:        row.Image,
		Category:     row.Category,
		PrepTime:     row.PrepTime,
		Servings:     row.Servings,
		Ingredients:  row.Ingredients,
		Instructions: row.Instructions,
		Author:       models.User{ID: row.UserID, Name: name, Avatar: avatar},
		LikedBy:      make([]string, 0, len(row.Likes)),
		Comments:     make([]models.Comment, 0, len(row.Comments)),
	}

	seen := make(map[string]bool, len(row.Likes))
	for _, like := range row.Likes {
		if !seen[like.UserID] {
			seen[like.UserID] = true
			r.LikedBy = append(r.LikedBy, like.UserID)
		}
	}
	for _, c := range row.Comments {
		r.Comments = append(r.Comments, commentFromRow(c))
	}
	r.Normalize()
	return r
}

func commentFromRow(row models.CommentRow) models.Comment {
	name, _ := profileOf(row.Profiles)
	c := models.Comment{
		ID:        row.ID.Hex(),
		UserID:    row.UserID,
		UserName:  name,
		Text:      row.Text,
		CreatedAt: models.FormatTime(row.CreatedAt),
		Replies:   make([]models.Reply, 0, len(row.Replies)),
	}
	for _, reply := range row.Replies {
		c.Replies = append(c.Replies, replyFromRow(reply))
	}
	return c
}

func replyFromRow(row models.ReplyRow) models.Reply {
	name, _ := profileOf(row.Profiles)
	return models.Reply{
		ID:        row.ID.Hex(),
		UserID:    row.UserID,
		UserName:  name,
		Text:      row.Text,
		CreatedAt: models.FormatTime(row.CreatedAt),
	}
}
