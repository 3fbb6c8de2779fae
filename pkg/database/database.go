package database

import (
	"fmt"
	"js_learning_backend/internal/config"
	"js_learning_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 建立连接；migrate 为 true 时执行 AutoMigrate 并播种默认成就。
// release 模式默认跳过迁移，--migrate 可强制执行。
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Lesson{},
		&model.Test{},
		&model.Question{},
		&model.AnswerOption{},
		&model.TestResult{},
		&model.Progress{},
		&model.Achievement{},
		&model.UserAchievement{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认成就（首次完成课时）
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count == 0 {
		defaults := []model.Achievement{
			{Name: "First lesson completed", Description: "Completed your first lesson"},
			{Name: "First test passed", Description: "Passed your first test"},
		}
		for _, a := range defaults {
			db.Create(&a)
		}
	}

	return db, nil
}
