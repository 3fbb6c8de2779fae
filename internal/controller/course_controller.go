package controller

import (
	"js_learning_backend/internal/service"
	"js_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
	LessonService *service.LessonService
}

func NewCourseController(courseService *service.CourseService, lessonService *service.LessonService) *CourseController {
	return &CourseController{
		CourseService: courseService,
		LessonService: lessonService,
	}
}

// Catalog godoc
// @Summary 课程目录
// @Description 列出已上架课程，登录学生附带选课状态
// @Tags 课程
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.CourseSummary} "成功"
// @Router /api/courses [get]
func (c *CourseController) Catalog(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	summaries, err := c.CourseService.Catalog(ctx, claims)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// Get godoc
// @Summary 课程详情
// @Description 课程信息及已发布课时列表，学生附带每课时完成状态
// @Tags 课程
// @Produce  json
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	course, err := c.CourseService.Get(claims, courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	lessons, err := c.LessonService.ListForCourse(claims, courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"course":  course,
		"lessons": lessons,
	})
}

// Create godoc
// @Summary 创建课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CourseReq true "课程信息"
// @Success 201 {object} util.Response{data=model.Course} "创建成功"
// @Failure 400 {object} util.Response "标题缺失"
// @Router /api/teacher/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(ctx, claims, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Update godoc
// @Summary 更新课程
// @Tags 课程管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body service.CourseReq true "更新字段"
// @Success 200 {object} util.Response{data=model.Course} "成功"
// @Failure 403 {object} util.Response "无权操作"
// @Router /api/teacher/courses/{id} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	var req service.CourseReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Update(ctx, claims, courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// Delete godoc
// @Summary 删除课程
// @Description 级联删除课程下的课时、测验及学生答题记录
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权操作"
// @Router /api/teacher/courses/{id} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.Delete(ctx, claims, courseID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": courseID})
}

// UploadImage godoc
// @Summary 上传课程封面
// @Tags 课程管理
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   image formData file true "封面图片"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件类型不合法"
// @Router /api/teacher/courses/{id}/image [post]
func (c *CourseController) UploadImage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	file, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "缺少 image 文件字段")
		return
	}

	url, err := c.CourseService.UploadImage(ctx, claims, courseID, file)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

// Enroll godoc
// @Summary 学生选课
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.Enroll(claims, courseID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"enrolled": courseID})
}

// Unenroll godoc
// @Summary 学生退课
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response "成功"
// @Router /api/courses/{id}/enroll [delete]
func (c *CourseController) Unenroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	if err := c.CourseService.Unenroll(claims, courseID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unenrolled": courseID})
}

// ListMine godoc
// @Summary 我的课程
// @Description 教师名下课程，管理员可见全部
// @Tags 课程管理
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Course} "成功"
// @Router /api/teacher/courses [get]
func (c *CourseController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courses, err := c.CourseService.ListMine(claims)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}
