package controller

import (
	"js_learning_backend/internal/service"
	"js_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// Detail godoc
// @Summary 课时详情
// @Description 课时内容、相邻课时、测验视图及尝试状态。学生受顺序闯关限制。
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonDetail} "成功"
// @Failure 403 {object} util.Response "上一课时未完成"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/lessons/{id} [get]
func (c *LessonController) Detail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("id"))

	detail, err := c.LessonService.GetDetail(claims, lessonID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// Complete godoc
// @Summary 手动完成课时
// @Description 仅对没有激活测验的课时开放，幂等
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "该课时需通过测验完成"
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("id"))

	if err := c.LessonService.Complete(claims, lessonID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"completed": lessonID})
}

// Create godoc
// @Summary 创建课时
// @Tags 课时管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body service.LessonReq true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson} "创建成功"
// @Router /api/teacher/courses/{id}/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Create(claims, courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// Update godoc
// @Summary 更新课时
// @Tags 课时管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body service.LessonReq true "更新字段"
// @Success 200 {object} util.Response{data=model.Lesson} "成功"
// @Router /api/teacher/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("id"))

	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(claims, lessonID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary 删除课时
// @Description 级联删除课时下的测验和答题记录
// @Tags 课时管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("id"))

	if err := c.LessonService.Delete(claims, lessonID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": lessonID})
}

// ReorderRequest 课时重排请求，按目标顺序给出全部课时ID
type ReorderRequest struct {
	LessonIDs []uint `json:"lessonIds" binding:"required,min=1"`
}

// Reorder godoc
// @Summary 调整课时顺序
// @Tags 课时管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body ReorderRequest true "课时ID顺序"
// @Success 200 {object} util.Response "成功"
// @Router /api/teacher/courses/{id}/lessons/reorder [put]
func (c *LessonController) Reorder(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	var req ReorderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.LessonService.Reorder(claims, courseID, req.LessonIDs); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"reordered": courseID})
}
