package controller

import (
	"js_learning_backend/internal/service"
	"js_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TestController struct {
	TestService    *service.TestService
	LessonService  *service.LessonService
	GradingService *service.GradingService
}

func NewTestController(
	testService *service.TestService,
	lessonService *service.LessonService,
	gradingService *service.GradingService,
) *TestController {
	return &TestController{
		TestService:    testService,
		LessonService:  lessonService,
		GradingService: gradingService,
	}
}

// SubmitRequest 测验提交请求。answers 以题目ID为键，
// 选择题填 optionIds，填空题填 text。
// swagger:model SubmitRequest
type SubmitRequest struct {
	Answers map[uint]service.RawAnswer `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary 提交测验作答
// @Description 评分并记录一次尝试。校验失败和超次拒绝不消耗尝试次数。
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body SubmitRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.SubmitOutcome} "评分完成"
// @Failure 400 {object} util.Response{data=service.SubmitOutcome} "作答不合法"
// @Failure 403 {object} util.Response "尝试次数用尽或课时不可访问"
// @Failure 404 {object} util.Response "课时或测验不存在"
// @Router /api/lessons/{id}/test/submit [post]
func (c *TestController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("id"))

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.LessonRepo.FindByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		handleServiceError(ctx, util.ErrLessonNotFound)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if err := c.LessonService.CheckAccess(claims, lesson); err != nil {
		handleServiceError(ctx, err)
		return
	}

	test, err := c.TestService.TestRepo.FindByLesson(lessonID)
	if err == gorm.ErrRecordNotFound {
		handleServiceError(ctx, util.ErrTestNotFound)
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	outcome, err := c.GradingService.Submit(claims.UserID, lessonID, test.ID, req.Answers)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	switch outcome.Status {
	case service.SubmitValidationError:
		ctx.JSON(400, util.Response{Code: 400, Message: outcome.Message, Data: outcome})
	case service.SubmitRejectedMaxAttempt:
		ctx.JSON(403, util.Response{Code: 403, Message: outcome.Message, Data: outcome})
	default:
		util.Success(ctx, outcome)
	}
}

// Results godoc
// @Summary 测验成绩历史
// @Description 当前学生在该课时的全部尝试及平均/最高/最低分
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/lessons/{id}/test/results [get]
func (c *TestController) Results(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("id"))

	results, stats, err := c.GradingService.Results(claims.UserID, lessonID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"results": results,
		"stats":   stats,
	})
}

// CreateTest godoc
// @Summary 为课时创建测验
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body service.TestReq true "测验信息"
// @Success 201 {object} util.Response{data=model.Test} "创建成功"
// @Failure 400 {object} util.Response "标题缺失或及格线不合法"
// @Router /api/teacher/lessons/{id}/test [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("id"))

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.Create(claims, lessonID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// GetTest godoc
// @Summary 测验详情（含正确答案）
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Test} "成功"
// @Router /api/teacher/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	testID := util.MustParseUint(ctx.Param("id"))

	test, err := c.TestService.Get(claims, testID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// UpdateTest godoc
// @Summary 更新测验
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body service.TestReq true "更新字段"
// @Success 200 {object} util.Response{data=model.Test} "成功"
// @Router /api/teacher/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	testID := util.MustParseUint(ctx.Param("id"))

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.Update(claims, testID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary 删除测验
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	testID := util.MustParseUint(ctx.Param("id"))

	if err := c.TestService.Delete(claims, testID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": testID})
}

// AddQuestion godoc
// @Summary 添加题目
// @Description 单选题必须恰好一个正确选项，多选题至少一个，填空题恰好一个
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body service.QuestionReq true "题目信息"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 400 {object} util.Response "题目不满足完整性约束"
// @Router /api/teacher/tests/{id}/questions [post]
func (c *TestController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	testID := util.MustParseUint(ctx.Param("id"))

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.TestService.AddQuestion(claims, testID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 整体替换题目文本、类型和选项
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body service.QuestionReq true "题目信息"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Router /api/teacher/questions/{id} [put]
func (c *TestController) UpdateQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	questionID := util.MustParseUint(ctx.Param("id"))

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.TestService.UpdateQuestion(claims, questionID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 测验管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/questions/{id} [delete]
func (c *TestController) DeleteQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	questionID := util.MustParseUint(ctx.Param("id"))

	if err := c.TestService.DeleteQuestion(claims, questionID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": questionID})
}
