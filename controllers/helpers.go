package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/yatube/store"
	"github.com/cppla/yatube/utils"
)

// fail maps store errors onto responses. form is echoed back on validation errors.
func fail(ctx *gin.Context, log *zap.SugaredLogger, err error, form interface{}) {
	if ve, ok := store.IsValidation(err); ok {
		utils.Invalid(ctx, ve.Fields, form)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, err.Error())
		return
	}
	log.Errorw("request failed", "path", ctx.Request.URL.Path, "err", err)
	utils.Error(ctx, http.StatusInternalServerError, utils.CodeInternal, "internal server error")
}

func notFound(ctx *gin.Context, what string) {
	utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, what+" not found")
}

// paramID parses a positive integer path parameter.
func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func profileURL(username string) string {
	return "/profile/" + url.PathEscape(username)
}

func postURL(id uint) string {
	return "/posts/" + strconv.FormatUint(uint64(id), 10)
}
