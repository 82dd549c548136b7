package helpers

import (
	"fmt"
	"testing"

	"fanstero_backend/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB открывает отдельную in-memory sqlite базу на тест и мигрирует все модели.
// Одно соединение: транзакции внутри сервисов не должны ходить мимо tx.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=0", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...), "AutoMigrate не должен падать")

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateCreator создает создателя (User) с заданным telegram id
func CreateCreator(t *testing.T, db *gorm.DB, telegramID int64) *models.User {
	t.Helper()
	user := &models.User{
		TelegramID: telegramID,
		Name:       fmt.Sprintf("creator-%d", telegramID),
		Language:   "en",
	}
	require.NoError(t, db.Create(user).Error, "Не удалось создать создателя")
	return user
}

// CreateProject создает проект; channelID != 0 - проект сразу подключен к каналу
func CreateProject(t *testing.T, db *gorm.DB, owner *models.User, channelID int64) *models.Project {
	t.Helper()
	project := &models.Project{
		UserID:         owner.ID,
		Title:          "Test channel",
		ConnectionCode: uuid.NewString(),
		Status:         models.ProjectStatusPending,
		Active:         true,
	}
	if channelID != 0 {
		project.TelegramChannelID = &channelID
		project.Status = models.ProjectStatusConnected
	}
	require.NoError(t, db.Create(project).Error, "Не удалось создать проект")
	return project
}

// CreatePlan создает активный план; price - строка вида "10.00"
func CreatePlan(t *testing.T, db *gorm.DB, project *models.Project, price string, days int) *models.SubscriptionPlan {
	t.Helper()
	plan := &models.SubscriptionPlan{
		ProjectID:    project.ID,
		Name:         fmt.Sprintf("%d days", days),
		Price:        decimal.RequireFromString(price),
		Currency:     "EUR",
		DurationDays: days,
		Active:       true,
	}
	require.NoError(t, db.Create(plan).Error, "Не удалось создать план")
	return plan
}

// ReloadUser перечитывает создателя из БД (баланс меняется через UPDATE ... SET)
func ReloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}
