package service

import (
	"js_learning_backend/internal/model"
	"js_learning_backend/internal/repository"
	"js_learning_backend/internal/util"

	"gorm.io/gorm"
)

type DashboardService struct {
	CourseRepo      *repository.CourseRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	LessonRepo      *repository.LessonRepository
	ProgressRepo    *repository.ProgressRepository
	ResultRepo      *repository.TestResultRepository
	AchievementRepo *repository.AchievementRepository
}

func NewDashboardService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	lessonRepo *repository.LessonRepository,
	progressRepo *repository.ProgressRepository,
	resultRepo *repository.TestResultRepository,
	achievementRepo *repository.AchievementRepository,
) *DashboardService {
	return &DashboardService{
		CourseRepo:      courseRepo,
		EnrollmentRepo:  enrollmentRepo,
		LessonRepo:      lessonRepo,
		ProgressRepo:    progressRepo,
		ResultRepo:      resultRepo,
		AchievementRepo: achievementRepo,
	}
}

type CourseProgress struct {
	Course           model.Course `json:"course"`
	TotalLessons     int64        `json:"totalLessons"`
	CompletedLessons int64        `json:"completedLessons"`
	Percent          float64      `json:"percent"`
}

type StudentDashboard struct {
	Courses      []CourseProgress              `json:"courses"`
	Results      []repository.StudentResultRow `json:"recentResults"`
	Achievements []model.UserAchievement       `json:"achievements"`
}

// GetStudentDashboard 汇总学生已选课程的完成进度、最近成绩和徽章
func (s *DashboardService) GetStudentDashboard(studentID uint) (*StudentDashboard, error) {
	enrollments, err := s.EnrollmentRepo.FindByStudent(studentID)
	if err != nil {
		return nil, err
	}

	dashboard := &StudentDashboard{
		Courses: make([]CourseProgress, 0, len(enrollments)),
		Results: []repository.StudentResultRow{},
	}

	for _, enrollment := range enrollments {
		course, err := s.CourseRepo.FindByID(enrollment.CourseID)
		if err == gorm.ErrRecordNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}

		lessons, err := s.LessonRepo.FindPublishedByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		completed, err := s.ProgressRepo.CountCompletedInCourse(studentID, course.ID)
		if err != nil {
			return nil, err
		}

		progress := CourseProgress{
			Course:           *course,
			TotalLessons:     int64(len(lessons)),
			CompletedLessons: completed,
		}
		if progress.TotalLessons > 0 {
			progress.Percent = float64(completed) / float64(progress.TotalLessons) * 100
		}
		dashboard.Courses = append(dashboard.Courses, progress)

		rows, err := s.ResultRepo.FindByStudentAndCourse(studentID, course.ID)
		if err != nil {
			return nil, err
		}
		dashboard.Results = append(dashboard.Results, rows...)
	}

	achievements, err := s.AchievementRepo.FindByUser(studentID)
	if err != nil {
		return nil, err
	}
	dashboard.Achievements = achievements

	return dashboard, nil
}

type TeacherCourseStats struct {
	Course       model.Course `json:"course"`
	LessonCount  int64        `json:"lessonCount"`
	StudentCount int64        `json:"studentCount"`
}

type TeacherDashboard struct {
	Courses []TeacherCourseStats `json:"courses"`
}

// GetTeacherDashboard 汇总教师名下课程的课时数和在读学生数
func (s *DashboardService) GetTeacherDashboard(claims *util.Claims) (*TeacherDashboard, error) {
	var courses []model.Course
	var err error
	if claims.Role == model.Admin {
		courses, err = s.CourseRepo.FindAll()
	} else {
		courses, err = s.CourseRepo.FindByCreator(claims.UserID)
	}
	if err != nil {
		return nil, err
	}

	dashboard := &TeacherDashboard{Courses: make([]TeacherCourseStats, 0, len(courses))}
	for _, course := range courses {
		lessonCount, err := s.LessonRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		studentCount, err := s.EnrollmentRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		dashboard.Courses = append(dashboard.Courses, TeacherCourseStats{
			Course:       course,
			LessonCount:  lessonCount,
			StudentCount: studentCount,
		})
	}
	return dashboard, nil
}

// CourseResults 教师查看课程内所有学生的答题明细
func (s *DashboardService) CourseResults(claims *util.Claims, courseID uint) ([]repository.CourseResultRow, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if claims.Role != model.Admin && course.CreatorID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}
	return s.ResultRepo.FindByCourse(courseID)
}
