package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "restaurant-service/common/errors"
)

// pathID parses a positive numeric path parameter.
func pathID(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest(fmt.Sprintf("Invalid %s", name))
	}
	return id, nil
}

// fail hands err to the error middleware, which renders it.
func fail(ctx *gin.Context, err error) {
	_ = ctx.Error(err)
	ctx.Abort()
}

func invalidRequest(ctx *gin.Context, err error) {
	fail(ctx, apperrors.Wrap(apperrors.ErrBadRequest, "Invalid request", err))
}
