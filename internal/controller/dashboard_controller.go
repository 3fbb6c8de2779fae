package controller

import (
	"js_learning_backend/internal/service"
	"js_learning_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// Student godoc
// @Summary 学生仪表盘
// @Description 已选课程进度、最近成绩和获得的徽章
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StudentDashboard} "成功"
// @Router /api/dashboard [get]
func (c *DashboardController) Student(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	dashboard, err := c.DashboardService.GetStudentDashboard(claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// Teacher godoc
// @Summary 教师仪表盘
// @Description 名下课程的课时数与在读学生数
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.TeacherDashboard} "成功"
// @Router /api/teacher/dashboard [get]
func (c *DashboardController) Teacher(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	dashboard, err := c.DashboardService.GetTeacherDashboard(claims)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// CourseResults godoc
// @Summary 课程成绩明细
// @Description 教师查看课程内所有学生的答题记录
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]repository.CourseResultRow} "成功"
// @Failure 403 {object} util.Response "无权查看"
// @Router /api/teacher/courses/{id}/results [get]
func (c *DashboardController) CourseResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID := util.MustParseUint(ctx.Param("id"))

	rows, err := c.DashboardService.CourseResults(claims, courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}
