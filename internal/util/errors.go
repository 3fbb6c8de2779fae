package util

import "errors"

var (
	ErrUserNotFound           = errors.New("用户不存在")
	ErrEmailRegistered        = errors.New("该邮箱已被注册")
	ErrUsernameRegistered     = errors.New("该用户名已被注册")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrCourseNotFound         = errors.New("course not found")
	ErrLessonNotFound         = errors.New("lesson not found")
	ErrLessonNotPublished     = errors.New("lesson is not published")
	ErrTestNotFound           = errors.New("test not found")
	ErrTestNotActive          = errors.New("test not active or not accessible")
	ErrTestHasNoQuestions     = errors.New("this test has no questions yet")
	ErrMaxAttemptsExceeded    = errors.New("you have exceeded the maximum number of attempts for this test")
	ErrPrevTestNotPassed      = errors.New("you must pass the test for the previous lesson to access this one")
	ErrPrevLessonNotCompleted = errors.New("you must complete the previous lesson to access this one")
	ErrNotEnrolled            = errors.New("you are not enrolled in this course")
	ErrQuestionNotFound       = errors.New("question not found")
	ErrLessonTitleRequired    = errors.New("lesson title is required")
	ErrCourseTitleRequired    = errors.New("course title is required")
	ErrTestTitleRequired      = errors.New("test title is required")
	ErrInvalidPassingScore    = errors.New("passing score must be between 0 and 100")
	ErrInvalidQuestion        = errors.New("invalid question")
)
