package httpapi

import (
	"unicode"

	"github.com/ykachan/blogapi/internal/server/models"
	"github.com/ykachan/blogapi/internal/server/repositories/blogs"
)

type signUpRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

type createBlogRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=100"`
	Content  string `json:"content" binding:"required,min=10,max=1200"`
	Category string `json:"category" binding:"required"`
}

type updateBlogRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=3,max=100"`
	Content  *string `json:"content" binding:"omitempty,min=10,max=1200"`
	Category *string `json:"category" binding:"omitempty,min=1"`
}

func (r updateBlogRequest) toUpdate() blogs.Update {
	return blogs.Update{Title: r.Title, Content: r.Content, Category: r.Category}
}

type ownerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type blogResponse struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Category string         `json:"category"`
	OwnerID  string         `json:"ownerId"`
	Owner    *ownerResponse `json:"owner,omitempty"`
}

type pageResponse struct {
	Data  []blogResponse `json:"data"`
	Total int64          `json:"total"`
}

type userResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Blogs []string `json:"blogs"`
}

func toBlogResponse(b *models.Blog) blogResponse {
	resp := blogResponse{
		ID:       b.ID,
		Title:    b.Title,
		Content:  b.Content,
		Category: b.Category,
		OwnerID:  b.OwnerID,
	}
	if b.Owner != nil {
		resp.Owner = &ownerResponse{ID: b.Owner.ID, Name: b.Owner.Name, Email: b.Owner.Email}
	}
	return resp
}

func toBlogResponses(list []*models.Blog) []blogResponse {
	out := make([]blogResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBlogResponse(b))
	}
	return out
}

func toUserResponse(u *models.User) userResponse {
	blogIDs := u.BlogIDs
	if blogIDs == nil {
		blogIDs = []string{}
	}
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Blogs: blogIDs}
}

// isStrongPassword enforces the signup strength rule: at least 2 lowercase
// letters, 1 uppercase letter, 2 digits, and 1 symbol. Length is checked by
// the binding tag.
func isStrongPassword(password string) bool {
	var lower, upper, digit, symbol int
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower++
		case unicode.IsUpper(r):
			upper++
		case unicode.IsDigit(r):
			digit++
		default:
			symbol++
		}
	}
	return lower >= 2 && upper >= 1 && digit >= 2 && symbol >= 1
}
