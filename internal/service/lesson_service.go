package service

import (
	"js_learning_backend/internal/model"
	"js_learning_backend/internal/repository"
	"js_learning_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	TestRepo       *repository.TestRepository
	ProgressRepo   *repository.ProgressRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Grading        *GradingService
	Achievement    *AchievementService
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	testRepo *repository.TestRepository,
	progressRepo *repository.ProgressRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	grading *GradingService,
	achievement *AchievementService,
) *LessonService {
	return &LessonService{
		LessonRepo:     lessonRepo,
		CourseRepo:     courseRepo,
		TestRepo:       testRepo,
		ProgressRepo:   progressRepo,
		EnrollmentRepo: enrollmentRepo,
		Grading:        grading,
		Achievement:    achievement,
	}
}

// CheckAccess 读取课时前的访问检查：课时必须已发布（教师/管理员除外）、
// 课程可访问，且学生已完成紧邻的上一个已发布课时。
// 错误信息区分"上一课时测验未通过"和"上一课时未完成"。
func (s *LessonService) CheckAccess(claims *util.Claims, lesson *model.Lesson) error {
	if claims == nil {
		return util.ErrPermissionDenied
	}

	isStaff := claims.Role == model.Teacher || claims.Role == model.Admin
	if !lesson.IsPublished && !isStaff {
		return util.ErrLessonNotPublished
	}

	course, err := s.CourseRepo.FindByID(lesson.CourseID)
	if err != nil {
		return util.ErrCourseNotFound
	}
	if !course.IsActive && !isStaff {
		return util.ErrPermissionDenied
	}

	if claims.Role != model.Student {
		return nil
	}

	// 学生必须先选课
	enrolled, err := s.EnrollmentRepo.IsEnrolled(claims.UserID, lesson.CourseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return util.ErrNotEnrolled
	}

	// 顺序闯关：检查紧邻的上一个已发布课时
	lessons, err := s.LessonRepo.FindPublishedByCourse(lesson.CourseID)
	if err != nil {
		return err
	}
	prev := previousLesson(lessons, lesson.ID)
	if prev == nil {
		return nil
	}

	completed, err := s.ProgressRepo.IsCompleted(claims.UserID, prev.ID)
	if err != nil {
		return err
	}
	if completed {
		return nil
	}

	hasTest, err := s.TestRepo.HasTest(prev.ID)
	if err != nil {
		return err
	}
	return sequentialGateError(hasTest)
}

// previousLesson 返回列表中紧邻 target 之前的课时，target 是第一个时返回 nil
func previousLesson(lessons []model.Lesson, targetID uint) *model.Lesson {
	for i := range lessons {
		if lessons[i].ID == targetID {
			if i == 0 {
				return nil
			}
			return &lessons[i-1]
		}
	}
	return nil
}

// sequentialGateError 上一课时带测验时给出"先通过测验"的提示，否则提示先完成课时
func sequentialGateError(prevHasTest bool) error {
	if prevHasTest {
		return util.ErrPrevTestNotPassed
	}
	return util.ErrPrevLessonNotCompleted
}

// StudentOption 展示给学生的选项，不携带 is_correct
type StudentOption struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type StudentQuestion struct {
	ID      uint               `json:"id"`
	Text    string             `json:"text"`
	Type    model.QuestionType `json:"type"`
	Points  int                `json:"points"`
	Options []StudentOption    `json:"options"`
}

type StudentTest struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	PassingScore int               `json:"passingScore"`
	Questions    []StudentQuestion `json:"questions"`
}

// LessonDetail 课时详情：相邻课时、测验视图、尝试状态和下一课时可达性
type LessonDetail struct {
	Lesson        *model.Lesson `json:"lesson"`
	PrevLessonID  *uint         `json:"prevLessonId,omitempty"`
	NextLessonID  *uint         `json:"nextLessonId,omitempty"`
	HasTest       bool          `json:"hasTest"`
	Test          *StudentTest  `json:"test,omitempty"`
	Completed     bool          `json:"completed"`
	CanAccessNext bool          `json:"canAccessNext"`
	Attempts      *AttemptInfo  `json:"attempts,omitempty"`
}

func (s *LessonService) GetDetail(claims *util.Claims, lessonID uint) (*LessonDetail, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.CheckAccess(claims, lesson); err != nil {
		return nil, err
	}

	detail := &LessonDetail{Lesson: lesson, CanAccessNext: true}

	lessons, err := s.LessonRepo.FindPublishedByCourse(lesson.CourseID)
	if err != nil {
		return nil, err
	}
	for i := range lessons {
		if lessons[i].ID != lesson.ID {
			continue
		}
		if i > 0 {
			detail.PrevLessonID = &lessons[i-1].ID
		}
		if i < len(lessons)-1 {
			detail.NextLessonID = &lessons[i+1].ID
		}
		break
	}

	test, err := s.TestRepo.FindByLesson(lessonID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	hasTest := err == nil && test.IsActive && len(test.Questions) > 0
	detail.HasTest = hasTest

	if claims.Role == model.Student {
		completed, err := s.ProgressRepo.IsCompleted(claims.UserID, lessonID)
		if err != nil {
			return nil, err
		}
		detail.Completed = completed

		// 带激活测验的课时：以本课时的完成状态门控下一课时
		if hasTest {
			detail.CanAccessNext = completed

			attempts, err := s.Grading.AttemptStatus(claims.UserID, lessonID, test.ID)
			if err != nil {
				return nil, err
			}
			detail.Attempts = attempts
			if !attempts.Exhausted || completed {
				detail.Test = studentTestView(test)
			}
		}
	} else if hasTest {
		detail.Test = studentTestView(test)
	}

	return detail, nil
}

func studentTestView(test *model.Test) *StudentTest {
	view := &StudentTest{
		ID:           test.ID,
		Title:        test.Title,
		Description:  test.Description,
		PassingScore: test.PassingScore,
	}
	for _, q := range test.Questions {
		sq := StudentQuestion{
			ID:     q.ID,
			Text:   q.Text,
			Type:   q.Type,
			Points: q.Points,
		}
		if q.Type != model.FreeText {
			for _, opt := range q.Options {
				sq.Options = append(sq.Options, StudentOption{
					ID:    opt.ID,
					Text:  opt.Text,
					Order: opt.Order,
				})
			}
		}
		view.Questions = append(view.Questions, sq)
	}
	return view
}

// Complete 手动完成课时。只对没有激活测验的课时开放，幂等，
// 重复调用只刷新时间戳。
func (s *LessonService) Complete(claims *util.Claims, lessonID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrLessonNotFound
	}
	if err != nil {
		return err
	}

	if err := s.CheckAccess(claims, lesson); err != nil {
		return err
	}

	test, err := s.TestRepo.FindByLesson(lessonID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == nil && test.IsActive && len(test.Questions) > 0 {
		// 带测验的课时只能通过测验完成
		return util.ErrPermissionDenied
	}

	if err := s.ProgressRepo.MarkCompleted(claims.UserID, lessonID); err != nil {
		return err
	}

	if s.Achievement != nil {
		s.Achievement.OnLessonCompleted(claims.UserID)
	}
	return nil
}

type LessonReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	VideoURL    *string `json:"videoUrl"`
	Order       *int    `json:"order"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *LessonService) Create(claims *util.Claims, courseID uint, req LessonReq) (*model.Lesson, error) {
	if err := s.checkCourseOwnership(claims, courseID); err != nil {
		return nil, err
	}
	if req.Title == nil || *req.Title == "" {
		return nil, util.ErrLessonTitleRequired
	}

	lesson := &model.Lesson{
		CourseID:    courseID,
		Title:       *req.Title,
		IsPublished: true,
	}
	applyLessonReq(lesson, req)

	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Update(claims *util.Claims, lessonID uint, req LessonReq) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkCourseOwnership(claims, lesson.CourseID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	applyLessonReq(lesson, req)

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func applyLessonReq(lesson *model.Lesson, req LessonReq) {
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}
}

func (s *LessonService) Delete(claims *util.Claims, lessonID uint) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrLessonNotFound
	}
	if err != nil {
		return err
	}
	if err := s.checkCourseOwnership(claims, lesson.CourseID); err != nil {
		return err
	}
	return s.LessonRepo.DeleteCascade(lessonID)
}

func (s *LessonService) Reorder(claims *util.Claims, courseID uint, orderedIDs []uint) error {
	if err := s.checkCourseOwnership(claims, courseID); err != nil {
		return err
	}
	return s.LessonRepo.Reorder(courseID, orderedIDs)
}

// LessonSummary 课程详情页的课时条目，学生视角附带完成状态
type LessonSummary struct {
	model.Lesson
	Completed bool `json:"completed"`
}

func (s *LessonService) ListForCourse(claims *util.Claims, courseID uint) ([]LessonSummary, error) {
	var lessons []model.Lesson
	var err error
	if claims != nil && (claims.Role == model.Teacher || claims.Role == model.Admin) {
		lessons, err = s.LessonRepo.FindByCourse(courseID)
	} else {
		lessons, err = s.LessonRepo.FindPublishedByCourse(courseID)
	}
	if err != nil {
		return nil, err
	}

	completed := map[uint]bool{}
	if claims != nil && claims.Role == model.Student {
		ids := make([]uint, 0, len(lessons))
		for _, lesson := range lessons {
			ids = append(ids, lesson.ID)
		}
		completed, err = s.ProgressRepo.CompletedLessons(claims.UserID, ids)
		if err != nil {
			return nil, err
		}
	}

	summaries := make([]LessonSummary, 0, len(lessons))
	for _, lesson := range lessons {
		summaries = append(summaries, LessonSummary{Lesson: lesson, Completed: completed[lesson.ID]})
	}
	return summaries, nil
}

func (s *LessonService) checkCourseOwnership(claims *util.Claims, courseID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if claims.Role != model.Admin && course.CreatorID != claims.UserID {
		return util.ErrPermissionDenied
	}
	return nil
}
