package request

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/blog-comments/domain"
)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logrus.Fatal("gin binding does not use go-playground/validator")
	}
	if err := v.RegisterValidation("commentable", validCommentable); err != nil {
		logrus.Fatalf("register commentable validation: %v", err)
	}
}

// validCommentable accepts the commentable_type spellings ParseCommentableKind does.
func validCommentable(fl validator.FieldLevel) bool {
	_, err := domain.ParseCommentableKind(fl.Field().String())
	return err == nil
}
