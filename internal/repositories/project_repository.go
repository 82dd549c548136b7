package repositories

import (
	"errors"

	"fanstero_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProjectNotFound       = errors.New("project not found")
	ErrProjectAlreadyLinked  = errors.New("project already connected")
	ErrChannelAlreadyClaimed = errors.New("channel already connected to another project")
)

type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByID(db *gorm.DB, id uint) (*models.Project, error)
	FindByConnectionCode(db *gorm.DB, code string) (*models.Project, error)
	FindByChannelID(db *gorm.DB, channelID int64) (*models.Project, error)
	FindAll(db *gorm.DB, limit, offset int) ([]models.Project, int64, error)
	FindByOwner(db *gorm.DB, userID uint) ([]models.Project, error)
	Update(db *gorm.DB, id uint, fields map[string]interface{}) error
	UpdateConnectionCode(db *gorm.DB, id uint, code string) error
	// MarkConnected привязывает канал; срабатывает только для проекта в статусе pending
	MarkConnected(db *gorm.DB, id uint, channelID int64, title, username string) error
}

type projectRepository struct{}

func NewProjectRepository() ProjectRepository {
	return &projectRepository{}
}

func (r *projectRepository) Create(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *projectRepository) FindByID(db *gorm.DB, id uint) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByConnectionCode(db *gorm.DB, code string) (*models.Project, error) {
	var project models.Project
	if err := db.Where("connection_code = ?", code).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindByChannelID(db *gorm.DB, channelID int64) (*models.Project, error) {
	var project models.Project
	if err := db.Where("telegram_channel_id = ?", channelID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) FindAll(db *gorm.DB, limit, offset int) ([]models.Project, int64, error) {
	var projects []models.Project
	var total int64

	query := db.Model(&models.Project{}).Where("active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("id ASC").Limit(limit).Offset(offset).Find(&projects).Error
	return projects, total, err
}

func (r *projectRepository) FindByOwner(db *gorm.DB, userID uint) ([]models.Project, error) {
	var projects []models.Project
	err := db.Where("user_id = ?", userID).Order("id ASC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) Update(db *gorm.DB, id uint, fields map[string]interface{}) error {
	result := db.Model(&models.Project{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *projectRepository) UpdateConnectionCode(db *gorm.DB, id uint, code string) error {
	return r.Update(db, id, map[string]interface{}{"connection_code": code})
}

func (r *projectRepository) MarkConnected(db *gorm.DB, id uint, channelID int64, title, username string) error {
	fields := map[string]interface{}{
		"telegram_channel_id": channelID,
		"status":              models.ProjectStatusConnected,
	}
	if title != "" {
		fields["title"] = title
	}
	if username != "" {
		fields["username"] = username
	}

	result := db.Model(&models.Project{}).
		Where("id = ? AND status = ?", id, models.ProjectStatusPending).
		Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectAlreadyLinked
	}
	return nil
}
