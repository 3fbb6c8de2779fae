package repository

import (
	"testing"

	"js_learning_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievementFirstOrCreate_PopulatesNameOnMiss(t *testing.T) {
	db := openTestDB(t, &model.Achievement{}, &model.UserAchievement{})
	repo := NewAchievementRepository(db)

	a, err := repo.FirstOrCreate("First lesson completed", "Completed your first lesson")
	require.NoError(t, err)
	require.NotZero(t, a.ID)

	var saved model.Achievement
	require.NoError(t, db.First(&saved, a.ID).Error)
	assert.Equal(t, "First lesson completed", saved.Name)
	assert.Equal(t, "Completed your first lesson", saved.Description)

	// 二次调用命中已有行，不再新建
	again, err := repo.FirstOrCreate("First lesson completed", "ignored")
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID)
}

func TestAward_Idempotent(t *testing.T) {
	db := openTestDB(t, &model.Achievement{}, &model.UserAchievement{})
	repo := NewAchievementRepository(db)

	a, err := repo.FirstOrCreate("First test passed", "Passed your first test")
	require.NoError(t, err)

	require.NoError(t, repo.Award(5, a.ID))
	require.NoError(t, repo.Award(5, a.ID))

	var count int64
	require.NoError(t, db.Model(&model.UserAchievement{}).
		Where("user_id = ?", 5).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
