package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"js_learning_backend/internal/config"
	"js_learning_backend/internal/model"
	"js_learning_backend/internal/repository"
	"js_learning_backend/internal/util"
	"js_learning_backend/pkg/logger"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const courseCatalogCacheKey = "course_catalog:active"
const courseCatalogCacheTTL = 5 * time.Minute

// CourseService 课程目录、选课和封面上传
type CourseService struct {
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	LessonRepo     *repository.LessonRepository
	ProgressRepo   *repository.ProgressRepository
	StorageService *StorageService
	Cfg            *config.Config
	Redis          *redis.Client
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	lessonRepo *repository.LessonRepository,
	progressRepo *repository.ProgressRepository,
	storageService *StorageService,
	cfg *config.Config,
	rdb *redis.Client,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		LessonRepo:     lessonRepo,
		ProgressRepo:   progressRepo,
		StorageService: storageService,
		Cfg:            cfg,
		Redis:          rdb,
	}
}

type CourseReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// CourseSummary 课程目录条目，附当前学生的选课状态
type CourseSummary struct {
	model.Course
	LessonCount int64 `json:"lessonCount"`
	Enrolled    bool  `json:"enrolled"`
}

// Catalog 返回已上架课程列表。列表本身走 Redis 缓存，
// 学生个人的选课标记每次现查。
func (s *CourseService) Catalog(ctx context.Context, claims *util.Claims) ([]CourseSummary, error) {
	courses, err := s.cachedActiveCourses(ctx)
	if err != nil {
		return nil, err
	}

	var enrolled map[uint]bool
	if claims != nil && claims.Role == model.Student {
		enrollments, err := s.EnrollmentRepo.FindByStudent(claims.UserID)
		if err != nil {
			return nil, err
		}
		enrolled = make(map[uint]bool, len(enrollments))
		for _, e := range enrollments {
			enrolled[e.CourseID] = true
		}
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, course := range courses {
		count, err := s.LessonRepo.CountByCourse(course.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, CourseSummary{
			Course:      course,
			LessonCount: count,
			Enrolled:    enrolled[course.ID],
		})
	}
	return summaries, nil
}

func (s *CourseService) cachedActiveCourses(ctx context.Context) ([]model.Course, error) {
	if s.Redis != nil {
		val, err := s.Redis.Get(ctx, courseCatalogCacheKey).Result()
		if err == nil {
			var courses []model.Course
			if err := json.Unmarshal([]byte(val), &courses); err == nil {
				return courses, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("课程目录缓存读取失败", zap.Error(err))
		}
	}

	courses, err := s.CourseRepo.FindActive()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		data, err := json.Marshal(courses)
		if err == nil {
			if err := s.Redis.Set(ctx, courseCatalogCacheKey, data, courseCatalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("课程目录缓存写入失败", zap.Error(err))
			}
		}
	}
	return courses, nil
}

func (s *CourseService) invalidateCatalog(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, courseCatalogCacheKey).Err(); err != nil {
		logger.Log.Warn("课程目录缓存清理失败", zap.Error(err))
	}
}

func (s *CourseService) Get(claims *util.Claims, courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if !course.IsActive && (claims == nil || claims.Role == model.Student) {
		return nil, util.ErrCourseNotFound
	}
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, claims *util.Claims, req CourseReq) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, util.ErrCourseTitleRequired
	}

	course := &model.Course{
		Title:     *req.Title,
		CreatorID: claims.UserID,
		IsActive:  true,
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, claims *util.Claims, courseID uint, req CourseReq) (*model.Course, error) {
	course, err := s.findOwned(claims, courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, util.ErrCourseTitleRequired
		}
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return course, nil
}

// Delete 连课程下的课时、测验、答题记录一起级联删除
func (s *CourseService) Delete(ctx context.Context, claims *util.Claims, courseID uint) error {
	if _, err := s.findOwned(claims, courseID); err != nil {
		return err
	}
	if err := s.CourseRepo.DeleteCascade(courseID); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// UploadImage 上传课程封面图
func (s *CourseService) UploadImage(c *gin.Context, claims *util.Claims, courseID uint, file *multipart.FileHeader) (string, error) {
	course, err := s.findOwned(claims, courseID)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil || !util.IsImage(mimeType) {
		return "", fmt.Errorf("非法的文件内容: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	ext := filepath.Ext(file.Filename)
	filename := "courses/" + uuid.NewString() + ext

	url, err := s.StorageService.Upload(c, filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	course.Image = url
	if err := s.CourseRepo.Update(course); err != nil {
		return "", err
	}
	s.invalidateCatalog(c)
	return url, nil
}

// Enroll 学生选课，重复选课不报错
func (s *CourseService) Enroll(claims *util.Claims, courseID uint) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err == gorm.ErrRecordNotFound {
		return util.ErrCourseNotFound
	}
	if err != nil {
		return err
	}
	if !course.IsActive {
		return util.ErrCourseNotFound
	}
	return s.EnrollmentRepo.Enroll(claims.UserID, courseID)
}

func (s *CourseService) Unenroll(claims *util.Claims, courseID uint) error {
	return s.EnrollmentRepo.Unenroll(claims.UserID, courseID)
}

func (s *CourseService) ListMine(claims *util.Claims) ([]model.Course, error) {
	if claims.Role == model.Admin {
		return s.CourseRepo.FindAll()
	}
	return s.CourseRepo.FindByCreator(claims.UserID)
}

func (s *CourseService) findOwned(claims *util.Claims, courseID uint) (*model.Course, error) {
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
	return course, nil
}
