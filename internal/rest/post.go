package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/rest/request"
	"github.com/Guyuepp/blog-comments/internal/rest/response"
)

// PostHandler represent the httphandler for posts
type PostHandler struct {
	Service  domain.PostUsecase
	Comments domain.CommentUsecase
}

func NewPostHandler(svc domain.PostUsecase, comments domain.CommentUsecase) *PostHandler {
	return &PostHandler{
		Service:  svc,
		Comments: comments,
	}
}

// Fetch will fetch the posts based on given params
func (h *PostHandler) Fetch(c *gin.Context) {
	f, ok := bindPostQuery(c)
	if !ok {
		return
	}
	h.list(c, f)
}

// GetByID returns the post with its top-level comments and their reply trees
func (h *PostHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	p, err := h.Service.GetByID(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	trees, err := h.Comments.ListPostComments(ctx, id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	html := wantHTML(c)
	res := response.NewPostFromDomain(&p, html)
	res.Comments = response.NewCommentTrees(trees, html)
	res.CommentsCount = int64(len(trees))
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// Store will store the post by given request body
func (h *PostHandler) Store(c *gin.Context) {
	var req request.CreatePost
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	p := req.ToDomain()
	if err := h.Service.Store(c.Request.Context(), callerFrom(c), &p); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": response.NewPostFromDomain(&p, wantHTML(c))})
}

func (h *PostHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.UpdatePost
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	p, err := h.Service.Update(c.Request.Context(), callerFrom(c), id, req.ToPatch())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewPostFromDomain(&p, wantHTML(c))})
}

// Delete removes the post together with all of its comments
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.Service.Delete(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewPostFromDomain(&p, false)})
}

func (h *PostHandler) FetchByUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.listByAuthor(c, id, false)
}

func (h *PostHandler) FetchActiveByUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.listByAuthor(c, id, true)
}

func (h *PostHandler) FetchMine(c *gin.Context) {
	caller := callerFrom(c)
	if !caller.Authenticated() {
		abortWithError(c, domain.ErrUnauthorized)
		return
	}
	h.listByAuthor(c, caller.UserID, false)
}

func (h *PostHandler) listByAuthor(c *gin.Context, userID int64, activeOnly bool) {
	f, ok := bindPostQuery(c)
	if !ok {
		return
	}
	f.UserID = &userID
	if activeOnly {
		active := true
		f.IsActive = &active
	}
	h.list(c, f)
}

func (h *PostHandler) list(c *gin.Context, f domain.PostFilter) {
	page, err := h.Service.Fetch(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(response.NewPostsFromDomain(page.Items, wantHTML(c)), page.Meta))
}

func bindPostQuery(c *gin.Context) (domain.PostFilter, bool) {
	var q request.PostQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithBindError(c, err)
		return domain.PostFilter{}, false
	}
	f, err := q.ToFilter()
	if err != nil {
		abortWithError(c, err)
		return domain.PostFilter{}, false
	}
	return f, true
}
