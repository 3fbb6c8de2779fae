package controller

import (
	"errors"
	"js_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError 统一把业务哨兵错误映射为 HTTP 状态码，
// 未识别的错误按 500 记录日志
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrTestNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx, "无权进行此操作")
	case errors.Is(err, util.ErrLessonNotPublished),
		errors.Is(err, util.ErrPrevTestNotPassed),
		errors.Is(err, util.ErrPrevLessonNotCompleted),
		errors.Is(err, util.ErrNotEnrolled):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrTestNotActive),
		errors.Is(err, util.ErrTestHasNoQuestions),
		errors.Is(err, util.ErrCourseTitleRequired),
		errors.Is(err, util.ErrLessonTitleRequired),
		errors.Is(err, util.ErrTestTitleRequired),
		errors.Is(err, util.ErrInvalidPassingScore),
		errors.Is(err, util.ErrInvalidQuestion),
		errors.Is(err, util.ErrInvalidCredentials):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
