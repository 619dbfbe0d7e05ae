// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Andres Sumihe

package service

import (
	"context"
	"fmt"

	"github.com/andres-sumihe/workspace-organizer-sub004/internal/logger"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/store"
	"github.com/andres-sumihe/workspace-organizer-sub004/internal/utils"
)

const manageAction = "manage"

// rbacService is the concrete implementation of [RbacService].
//
// Solo mode carries no permission model at all: the single local account
// implicitly holds every permission, so checks pass without touching any
// store. Shared mode resolves the caller's permission set from the shared
// store on every check; permissions are not cached across requests so a
// role change takes effect on the next call.
type rbacService struct {
	mode                 ModeService
	permissionRepository store.PermissionRepository
	logger               *logger.Logger
}

// NewRbacService constructs an [RbacService]. permissionRepository is nil
// when no shared store is attached, which pins the installation to solo
// semantics.
func NewRbacService(mode ModeService, permissionRepository store.PermissionRepository, logger *logger.Logger) RbacService {
	return &rbacService{
		mode:                 mode,
		permissionRepository: permissionRepository,
		logger:               logger,
	}
}

func (r *rbacService) RequirePermission(ctx context.Context, resource, action string) error {
	if !r.mode.Mode(ctx).IsShared() {
		return nil
	}

	permissions, err := r.resolve(ctx)
	if err != nil {
		return err
	}

	if hasPermission(permissions, resource, action) {
		return nil
	}

	return &PermissionError{Resource: resource, Action: action}
}

func (r *rbacService) RequireAnyPermission(ctx context.Context, permissions ...[2]string) error {
	if !r.mode.Mode(ctx).IsShared() {
		return nil
	}
	if len(permissions) == 0 {
		return nil
	}

	granted, err := r.resolve(ctx)
	if err != nil {
		return err
	}

	for _, p := range permissions {
		if hasPermission(granted, p[0], p[1]) {
			return nil
		}
	}

	// report the first tuple as the missing one
	return &PermissionError{Resource: permissions[0][0], Action: permissions[0][1]}
}

func (r *rbacService) RequireAllPermissions(ctx context.Context, permissions ...[2]string) error {
	if !r.mode.Mode(ctx).IsShared() {
		return nil
	}

	granted, err := r.resolve(ctx)
	if err != nil {
		return err
	}

	for _, p := range permissions {
		if !hasPermission(granted, p[0], p[1]) {
			return &PermissionError{Resource: p[0], Action: p[1]}
		}
	}

	return nil
}

// resolve fetches the caller's permission set from the shared store. The
// caller's identity comes from the request context set by the auth
// middleware; a missing principal is an authentication failure, not an
// authorization one.
func (r *rbacService) resolve(ctx context.Context) (map[string]struct{}, error) {
	log := logger.FromContext(ctx)

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	if r.permissionRepository == nil {
		return nil, ErrSharedModeNotAvailable
	}

	permissions, err := r.permissionRepository.ResolvePermissions(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("error occured during permission resolution")
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}

	set := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}

	return set, nil
}

// hasPermission checks for the exact "resource:action" grant or a
// "resource:manage" grant, which implies every action on the resource.
func hasPermission(granted map[string]struct{}, resource, action string) bool {
	if _, ok := granted[resource+":"+action]; ok {
		return true
	}
	_, ok := granted[resource+":"+manageAction]
	return ok
}
