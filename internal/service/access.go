package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/internal/repository"
)

// apprenticeOf 读取调用者本人的学徒记录
func apprenticeOf(ctx context.Context, repo *repository.Repository, logger *zap.Logger, userID string) (*model.Apprentice, error) {
	a, err := repo.Apprentice.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApprenticeNotFound
		}
		logger.Error("查询学徒记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return a, nil
}

// apprenticeByID 按 ID 读取学徒（含 mentor_id 最新值）
func apprenticeByID(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Apprentice, error) {
	a, err := repo.Apprentice.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApprenticeNotFound
		}
		logger.Error("查询学徒失败", zap.String("apprentice_id", id), zap.Error(err))
		return nil, err
	}
	return a, nil
}

// profileOf 读取调用者档案，角色以此为准
func profileOf(ctx context.Context, repo *repository.Repository, logger *zap.Logger, userID string) (*model.Profile, error) {
	p, err := repo.Profile.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("查询用户档案失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// authorizeApprenticeView 本人、当前导师或管理员可查看学徒数据
func authorizeApprenticeView(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id Identity, a *model.Apprentice) error {
	if a.UserID == id.UserID || a.IsMentoredBy(id.UserID) {
		return nil
	}
	caller, err := profileOf(ctx, repo, logger, id.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrApprenticeAccessDeny
		}
		return err
	}
	if caller.IsStaff() {
		return nil
	}
	return ErrApprenticeAccessDeny
}
