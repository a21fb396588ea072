package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/rest/request"
	"github.com/Guyuepp/blog-comments/internal/rest/response"
)

// CommentHandler represent the httphandler for comments
type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

// Fetch lists comments with filters, sorting and pagination
func (h *CommentHandler) Fetch(c *gin.Context) {
	var q request.CommentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithBindError(c, err)
		return
	}
	f, err := q.ToFilter()
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.list(c, f)
}

// GetByID returns the comment with its full reply tree
func (h *CommentHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	tree, err := h.Service.GetWithReplies(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewCommentTree(tree, wantHTML(c))})
}

// Store creates a comment on an explicitly named parent
func (h *CommentHandler) Store(c *gin.Context) {
	var req request.CreateCommentFor
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	parent, err := req.Parent()
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.create(c, req.Body, parent)
}

func (h *CommentHandler) StoreForPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.CreateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.create(c, req.Body, domain.PostRef(id))
}

func (h *CommentHandler) StoreReply(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.CreateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	h.create(c, req.Body, domain.CommentRef(id))
}

func (h *CommentHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.UpdateComment
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	updated, err := h.Service.Update(c.Request.Context(), callerFrom(c), id, req.Body)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewCommentFromDomain(&updated, wantHTML(c))})
}

// Delete removes the comment and every reply beneath it
func (h *CommentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.Service.Delete(c.Request.Context(), callerFrom(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewCommentFromDomain(&deleted, false)})
}

// FetchByPost returns the top-level comments of a post, each with its full reply tree
func (h *CommentHandler) FetchByPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trees, err := h.Service.ListPostComments(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewCommentTrees(trees, wantHTML(c))})
}

// FetchReplies returns the direct replies of a comment, each with its full reply tree
func (h *CommentHandler) FetchReplies(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	trees, err := h.Service.ListReplies(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewCommentTrees(trees, wantHTML(c))})
}

// FetchByUser lists one author's comments, newest first
func (h *CommentHandler) FetchByUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.listByAuthor(c, id)
}

func (h *CommentHandler) FetchMine(c *gin.Context) {
	caller := callerFrom(c)
	if !caller.Authenticated() {
		abortWithError(c, domain.ErrUnauthorized)
		return
	}
	h.listByAuthor(c, caller.UserID)
}

func (h *CommentHandler) listByAuthor(c *gin.Context, userID int64) {
	var q request.CommentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithBindError(c, err)
		return
	}
	f, err := q.ToFilter()
	if err != nil {
		abortWithError(c, err)
		return
	}
	f.UserID = &userID
	if f.Order == "" {
		f.Order = domain.OrderDesc
	}
	h.list(c, f)
}

func (h *CommentHandler) list(c *gin.Context, f domain.CommentFilter) {
	page, err := h.Service.List(c.Request.Context(), f)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewPage(response.NewCommentsFromDomain(page.Items, wantHTML(c)), page.Meta))
}

func (h *CommentHandler) create(c *gin.Context, body string, parent domain.Commentable) {
	created, err := h.Service.Create(c.Request.Context(), callerFrom(c), body, parent)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": response.NewCommentFromDomain(&created, wantHTML(c))})
}
