package database

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"weatherbot.app/internal/ports"
	"weatherbot.app/pkg/errors"
)

// NotificationModel is one chat's schedule; a chat has at most one row
type NotificationModel struct {
	ChatID    int64  `gorm:"primaryKey;autoIncrement:false"`
	City      string `gorm:"not null"`
	Time      string `gorm:"size:5;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// GormNotificationStore implements ports.NotificationStore on SQLite or PostgreSQL
type GormNotificationStore struct {
	db *gorm.DB
}

func NewGormNotificationStore(db *gorm.DB) *GormNotificationStore {
	return &GormNotificationStore{db: db}
}

// Save upserts the chat's schedule
func (s *GormNotificationStore) Save(ctx context.Context, chatID int64, city, timeOfDay string) error {
	model := &NotificationModel{ChatID: chatID, City: city, Time: timeOfDay}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"city", "time", "updated_at"}),
	}).Create(model)
	if result.Error != nil {
		return errors.NewStoreIOError("failed to save notification", result.Error)
	}
	return nil
}

func (s *GormNotificationStore) Get(ctx context.Context, chatID int64) (*ports.ScheduleData, error) {
	var model NotificationModel
	result := s.db.WithContext(ctx).First(&model, "chat_id = ?", chatID)
	if result.Error != nil {
		if stderrors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("notification not found")
		}
		return nil, errors.NewStoreIOError("failed to find notification", result.Error)
	}

	data := modelToData(&model)
	return &data, nil
}

func (s *GormNotificationStore) GetAll(ctx context.Context) (map[string]ports.ScheduleData, error) {
	var models []NotificationModel
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, errors.NewStoreIOError("failed to list notifications", err)
	}

	result := make(map[string]ports.ScheduleData, len(models))
	for i := range models {
		data := modelToData(&models[i])
		result[data.ChatID] = data
	}
	return result, nil
}

func (s *GormNotificationStore) Delete(ctx context.Context, chatID int64) (bool, error) {
	result := s.db.WithContext(ctx).Delete(&NotificationModel{}, "chat_id = ?", chatID)
	if result.Error != nil {
		return false, errors.NewStoreIOError("failed to delete notification", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *GormNotificationStore) Close() error {
	return CloseDB(s.db)
}

// Ping checks the underlying connection
func (s *GormNotificationStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.NewStoreIOError("failed to get database instance", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.NewStoreIOError("database ping failed", err)
	}
	return nil
}

func modelToData(model *NotificationModel) ports.ScheduleData {
	return ports.ScheduleData{
		ChatID: chatKey(model.ChatID),
		City:   model.City,
		Time:   model.Time,
	}
}
