package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/model"
	"github.com/Maddrobots/hangar13demo/internal/repository"
	pkgerrors "github.com/Maddrobots/hangar13demo/pkg/errors"
)

// UserService 用户档案业务接口
type UserService interface {
	// GetProfile userID 为空时返回调用者本人
	GetProfile(ctx context.Context, id Identity, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, id Identity, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UpdateRole(ctx context.Context, id Identity, userID string, req *dto.UpdateRoleRequest) (*dto.ProfileResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// canManageRole 角色层级 apprentice < mentor < manager < god
// manager 只能管理 apprentice / mentor，manager 与 god 只能由 god 管理
func canManageRole(callerRole, targetRole, newRole string) bool {
	switch callerRole {
	case model.RoleGod:
		return true
	case model.RoleManager:
		limit := model.RoleRank(model.RoleMentor)
		return model.RoleRank(targetRole) <= limit && model.RoleRank(newRole) <= limit
	default:
		return false
	}
}

// ────────────────────── GetProfile ──────────────────────

func (s *userService) GetProfile(ctx context.Context, id Identity, userID string) (*dto.ProfileResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = id.UserID
	}
	if userID != id.UserID {
		caller, err := profileOf(ctx, s.repo, s.logger, id.UserID)
		if err != nil {
			return nil, err
		}
		if caller.Role == model.RoleApprentice {
			return nil, ErrStaffOnly
		}
	}
	profile, err := profileOf(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

// ────────────────────── UpdateProfile ──────────────────────

func (s *userService) UpdateProfile(ctx context.Context, id Identity, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, pkgerrors.Kind(pkgerrors.ErrValidation, "请求体不能为空")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = *req.AvatarURL
	}
	if len(fields) > 0 {
		if err := s.repo.Profile.UpdateProfile(ctx, id.UserID, fields); err != nil {
			s.logger.Error("更新用户档案失败", zap.String("user_id", id.UserID), zap.Error(err))
			return nil, err
		}
	}

	profile, err := profileOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

// ────────────────────── UpdateRole ──────────────────────

func (s *userService) UpdateRole(ctx context.Context, id Identity, userID string, req *dto.UpdateRoleRequest) (*dto.ProfileResponse, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, pkgerrors.Kind(pkgerrors.ErrValidation, "请求体不能为空")
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if userID == id.UserID {
		return nil, ErrCannotChangeOwnRole
	}

	caller, err := profileOf(ctx, s.repo, s.logger, id.UserID)
	if err != nil {
		return nil, err
	}
	target, err := profileOf(ctx, s.repo, s.logger, userID)
	if err != nil {
		return nil, err
	}
	if !canManageRole(caller.Role, target.Role, req.Role) {
		return nil, ErrRoleChangeForbidden
	}

	if target.Role != req.Role {
		if err := s.repo.Profile.UpdateRole(ctx, userID, req.Role); err != nil {
			s.logger.Error("修改用户角色失败", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		s.logger.Info("用户角色已修改",
			zap.String("user_id", userID),
			zap.String("from", target.Role),
			zap.String("to", req.Role),
			zap.String("operator", id.UserID),
		)
		target.Role = req.Role
	}

	resp := toProfileResponse(target)
	return &resp, nil
}
