package model

import (
	"time"

	"github.com/tientruong05/todo-talk-quynhon/internal/domain"
)

type UserModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    string    `gorm:"uniqueIndex:idx_user_uid;size:36;not null;column:user_id"`
	Username  string    `gorm:"uniqueIndex:idx_username;size:50;not null;column:username"`
	FullName  string    `gorm:"size:100;column:full_name"`
	AvatarURL string    `gorm:"size:255;column:avatar_url"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null;column:created_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (m *UserModel) ToDomain() *domain.User {
	return &domain.User{
		ID:        m.UserID,
		Username:  m.Username,
		FullName:  m.FullName,
		AvatarURL: m.AvatarURL,
		CreatedAt: m.CreatedAt,
	}
}
