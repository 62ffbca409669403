package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Maddrobots/hangar13demo/internal/dto"
	"github.com/Maddrobots/hangar13demo/internal/model"
)

func setupTestUserService() (UserService, *testFixture) {
	f := newTestFixture()
	f.addProfile("u-god", "Gale God", model.RoleGod)
	f.addProfile("u-manager", "Pat Manager", model.RoleManager)
	f.addProfile("u-manager2", "Sam Manager", model.RoleManager)
	f.addProfile("u-mentor", "Morgan Mentor", model.RoleMentor)
	f.addProfile("u-app", "Alex Apprentice", model.RoleApprentice)
	return NewUserService(f.repo, f.logger), f
}

func TestCanManageRole(t *testing.T) {
	tests := []struct {
		caller, target, next string
		want                 bool
	}{
		{model.RoleGod, model.RoleManager, model.RoleGod, true},
		{model.RoleGod, model.RoleApprentice, model.RoleMentor, true},
		{model.RoleManager, model.RoleApprentice, model.RoleMentor, true},
		{model.RoleManager, model.RoleMentor, model.RoleApprentice, true},
		{model.RoleManager, model.RoleApprentice, model.RoleManager, false},
		{model.RoleManager, model.RoleManager, model.RoleApprentice, false},
		{model.RoleManager, model.RoleGod, model.RoleMentor, false},
		{model.RoleMentor, model.RoleApprentice, model.RoleMentor, false},
		{model.RoleApprentice, model.RoleApprentice, model.RoleMentor, false},
	}
	for _, tt := range tests {
		if got := canManageRole(tt.caller, tt.target, tt.next); got != tt.want {
			t.Errorf("canManageRole(%s, %s, %s) = %v，期望 %v", tt.caller, tt.target, tt.next, got, tt.want)
		}
	}
}

func TestUserService_UpdateRole(t *testing.T) {
	svc, f := setupTestUserService()
	ctx := context.Background()

	resp, err := svc.UpdateRole(ctx, Identity{UserID: "u-manager"}, "u-app", &dto.UpdateRoleRequest{Role: model.RoleMentor})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if resp.Role != model.RoleMentor || f.profiles.profiles["u-app"].Role != model.RoleMentor {
		t.Error("角色应已更新为 mentor")
	}

	_, err = svc.UpdateRole(ctx, Identity{UserID: "u-manager"}, "u-manager2", &dto.UpdateRoleRequest{Role: model.RoleMentor})
	if !errors.Is(err, ErrRoleChangeForbidden) {
		t.Errorf("manager 不能管理 manager，实际: %v", err)
	}

	if _, err := svc.UpdateRole(ctx, Identity{UserID: "u-god"}, "u-manager2", &dto.UpdateRoleRequest{Role: model.RoleMentor}); err != nil {
		t.Errorf("god 可以管理 manager，实际错误: %v", err)
	}
}

func TestUserService_UpdateRole_Self(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.UpdateRole(context.Background(), Identity{UserID: "u-god"}, "u-god", &dto.UpdateRoleRequest{Role: model.RoleApprentice})
	if !errors.Is(err, ErrCannotChangeOwnRole) {
		t.Errorf("期望 ErrCannotChangeOwnRole，实际: %v", err)
	}
}

func TestUserService_UpdateRole_InvalidRole(t *testing.T) {
	svc, _ := setupTestUserService()

	_, err := svc.UpdateRole(context.Background(), Identity{UserID: "u-god"}, "u-app", &dto.UpdateRoleRequest{Role: "admin"})
	if err == nil {
		t.Error("未知角色应校验失败")
	}
}

func TestUserService_GetProfile(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	me, err := svc.GetProfile(ctx, Identity{UserID: "u-app"}, "")
	if err != nil || me.ID != "u-app" {
		t.Fatalf("应返回本人档案，实际 %+v, %v", me, err)
	}
	if _, err := svc.GetProfile(ctx, Identity{UserID: "u-app"}, "u-mentor"); !errors.Is(err, ErrStaffOnly) {
		t.Errorf("学徒不能查看他人档案，实际: %v", err)
	}
	if _, err := svc.GetProfile(ctx, Identity{UserID: "u-mentor"}, "u-app"); err != nil {
		t.Errorf("导师可查看学徒档案，实际错误: %v", err)
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, f := setupTestUserService()

	resp, err := svc.UpdateProfile(context.Background(), Identity{UserID: "u-app"}, &dto.UpdateProfileRequest{FullName: strPtr("  Alex Rivera ")})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if resp.FullName != "Alex Rivera" || f.profiles.profiles["u-app"].FullName != "Alex Rivera" {
		t.Errorf("姓名未更新: %+v", resp)
	}
}
