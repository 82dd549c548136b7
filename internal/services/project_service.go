package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fanstero_backend/internal/dto"
	"fanstero_backend/internal/logger"
	"fanstero_backend/internal/models"
	"fanstero_backend/internal/repositories"
	"fanstero_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Префикс deep-link payload для подключения канала
const ConnectPayloadPrefix = "connect_"

type ProjectService interface {
	Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateProjectRequest) (*models.Project, error)
	ListAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]models.Project, int64, error)
	ListByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]models.Project, error)
	ListByOwnerTelegramID(ctx context.Context, db *gorm.DB, telegramID int64) ([]models.Project, error)
	Get(ctx context.Context, db *gorm.DB, id uint) (*models.Project, error)
	// GetOwned возвращает проект, только если ownerID - его владелец
	GetOwned(ctx context.Context, db *gorm.DB, ownerID, projectID uint) (*models.Project, error)
	Update(ctx context.Context, db *gorm.DB, ownerID, projectID uint, req *dto.UpdateProjectRequest) (*models.Project, error)
	GetConnectLink(ctx context.Context, db *gorm.DB, ownerID, projectID uint, regenerate bool) (*dto.ConnectLinkResponse, error)
	// ConnectChannel привязывает канал к проекту по коду подключения (вызывается ботом)
	ConnectChannel(ctx context.Context, db *gorm.DB, req *dto.ConnectChannelRequest) (*models.Project, error)
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
	notifier    Notifier
	botUsername string
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	notifier Notifier,
	botUsername string,
) ProjectService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &projectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		botUsername: strings.TrimPrefix(botUsername, "@"),
	}
}

func newConnectionCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *projectService) Create(ctx context.Context, db *gorm.DB, ownerID uint, req *dto.CreateProjectRequest) (*models.Project, error) {
	if _, err := s.userRepo.FindByID(db, ownerID); err != nil {
		return nil, mapUserError(err)
	}

	project := &models.Project{
		UserID:         ownerID,
		Title:          strings.TrimSpace(req.Title),
		Username:       strings.TrimPrefix(req.Username, "@"),
		ConnectionCode: newConnectionCode(),
		Status:         models.ProjectStatusPending,
		Active:         true,
	}
	if len(req.Settings) > 0 {
		project.Settings = datatypes.JSON(req.Settings)
	}

	if err := s.projectRepo.Create(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Project created", "project_id", project.ID, "owner_id", ownerID)
	return project, nil
}

func (s *projectService) ListAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]models.Project, int64, error) {
	projects, total, err := s.projectRepo.FindAll(db, limit, offset)
	if err != nil {
		return nil, 0, apperrors.InternalError(err)
	}
	return projects, total, nil
}

func (s *projectService) ListByOwner(ctx context.Context, db *gorm.DB, ownerID uint) ([]models.Project, error) {
	projects, err := s.projectRepo.FindByOwner(db, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return projects, nil
}

func (s *projectService) ListByOwnerTelegramID(ctx context.Context, db *gorm.DB, telegramID int64) ([]models.Project, error) {
	user, err := s.userRepo.FindByTelegramID(db, telegramID)
	if err != nil {
		return nil, mapUserError(err)
	}
	return s.ListByOwner(ctx, db, user.ID)
}

func (s *projectService) Get(ctx context.Context, db *gorm.DB, id uint) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(db, id)
	if err != nil {
		return nil, mapProjectError(err)
	}
	return project, nil
}

func (s *projectService) GetOwned(ctx context.Context, db *gorm.DB, ownerID, projectID uint) (*models.Project, error) {
	project, err := s.Get(ctx, db, projectID)
	if err != nil {
		return nil, err
	}
	if project.UserID != ownerID {
		return nil, apperrors.ErrNotProjectOwner
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, db *gorm.DB, ownerID, projectID uint, req *dto.UpdateProjectRequest) (*models.Project, error) {
	if _, err := s.GetOwned(ctx, db, ownerID, projectID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Active != nil {
		fields["active"] = *req.Active
	}
	if len(req.Settings) > 0 {
		fields["settings"] = datatypes.JSON(req.Settings)
	}

	if len(fields) > 0 {
		if err := s.projectRepo.Update(db, projectID, fields); err != nil {
			return nil, mapProjectError(err)
		}
	}
	return s.Get(ctx, db, projectID)
}

func (s *projectService) GetConnectLink(ctx context.Context, db *gorm.DB, ownerID, projectID uint, regenerate bool) (*dto.ConnectLinkResponse, error) {
	project, err := s.GetOwned(ctx, db, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	if project.IsConnected() {
		return nil, apperrors.ErrProjectAlreadyConnected
	}

	if regenerate {
		project.ConnectionCode = newConnectionCode()
		if err := s.projectRepo.UpdateConnectionCode(db, project.ID, project.ConnectionCode); err != nil {
			return nil, mapProjectError(err)
		}
	}

	return &dto.ConnectLinkResponse{
		ProjectID:      project.ID,
		ConnectionCode: project.ConnectionCode,
		URL:            s.connectURL(project.ConnectionCode),
	}, nil
}

func (s *projectService) connectURL(code string) string {
	if s.botUsername == "" {
		return ""
	}
	return fmt.Sprintf("https://t.me/%s?start=%s%s", s.botUsername, ConnectPayloadPrefix, code)
}

func (s *projectService) ConnectChannel(ctx context.Context, db *gorm.DB, req *dto.ConnectChannelRequest) (*models.Project, error) {
	code := strings.TrimPrefix(req.ConnectionCode, ConnectPayloadPrefix)

	var project *models.Project
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := s.projectRepo.FindByConnectionCode(tx, code)
		if err != nil {
			if errors.Is(err, repositories.ErrProjectNotFound) {
				return apperrors.ErrConnectionCodeNotFound
			}
			return apperrors.InternalError(err)
		}
		if found.IsConnected() {
			if found.TelegramChannelID != nil && *found.TelegramChannelID == req.TelegramChannelID {
				// повторное событие от бота для того же канала
				project = found
				return nil
			}
			return apperrors.ErrProjectAlreadyConnected
		}

		other, err := s.projectRepo.FindByChannelID(tx, req.TelegramChannelID)
		if err == nil && other.ID != found.ID {
			return apperrors.ErrChannelAlreadyConnected
		}
		if err != nil && !errors.Is(err, repositories.ErrProjectNotFound) {
			return apperrors.InternalError(err)
		}

		title := req.ChannelTitle
		if title == "" {
			title = found.Title
		}
		if err := s.projectRepo.MarkConnected(tx, found.ID, req.TelegramChannelID, title, strings.TrimPrefix(req.ChannelUsername, "@")); err != nil {
			return mapProjectError(err)
		}

		project, err = s.projectRepo.FindByID(tx, found.ID)
		if err != nil {
			return mapProjectError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Channel connected", "project_id", project.ID, "channel_id", req.TelegramChannelID)

	if owner, err := s.userRepo.FindByID(db, project.UserID); err == nil {
		if err := s.notifier.NotifyChannelConnected(ctx, owner.TelegramID, project); err != nil {
			logger.CtxWithError(ctx, "Failed to notify creator about connected channel", err, "project_id", project.ID)
		}
	}
	return project, nil
}

func mapProjectError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, repositories.ErrProjectNotFound):
		return apperrors.ErrProjectNotFound
	case errors.Is(err, repositories.ErrProjectAlreadyLinked):
		return apperrors.ErrProjectAlreadyConnected
	case errors.Is(err, repositories.ErrChannelAlreadyClaimed):
		return apperrors.ErrChannelAlreadyConnected
	}
	return apperrors.InternalError(err)
}
