package domain

import (
	"fmt"
	"strings"
)

// CommentableKind names the kind of entity a comment is attached to.
type CommentableKind string

const (
	CommentableNone    CommentableKind = ""
	CommentablePost    CommentableKind = "post"
	CommentableComment CommentableKind = "comment"
)

// ParseCommentableKind accepts "post"/"comment" case-insensitively ("Post" is what responses emit).
func ParseCommentableKind(s string) (CommentableKind, error) {
	switch CommentableKind(strings.ToLower(strings.TrimSpace(s))) {
	case CommentablePost:
		return CommentablePost, nil
	case CommentableComment:
		return CommentableComment, nil
	default:
		return CommentableNone, fmt.Errorf("invalid commentable type %q, must be post or comment: %w", s, ErrBadParamInput)
	}
}

func (k CommentableKind) Valid() bool {
	return k == CommentablePost || k == CommentableComment
}

// TypeName is the display form used in serialized comments.
func (k CommentableKind) TypeName() string {
	switch k {
	case CommentablePost:
		return "Post"
	case CommentableComment:
		return "Comment"
	default:
		return ""
	}
}

// Commentable is the attach point of a comment: a post or another comment.
type Commentable struct {
	Kind CommentableKind
	ID   int64
}

func PostRef(id int64) Commentable    { return Commentable{Kind: CommentablePost, ID: id} }
func CommentRef(id int64) Commentable { return Commentable{Kind: CommentableComment, ID: id} }

func (c Commentable) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("invalid commentable type %q: %w", c.Kind, ErrBadParamInput)
	}
	if c.ID <= 0 {
		return fmt.Errorf("invalid commentable id %d: %w", c.ID, ErrBadParamInput)
	}
	return nil
}

func (c Commentable) String() string {
	return fmt.Sprintf("%s:%d", c.Kind, c.ID)
}
