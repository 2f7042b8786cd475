package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/splitledger/splitledger/internal/apperr"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// GroupService handles group lifecycle and membership.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// Create creates a group owned by userID, with the owner as first member.
func (s *GroupService) Create(ctx context.Context, userID, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.BadRequest(apperr.CodeValidation, "group name is required")
	}

	group := &models.Group{
		Name:        name,
		OwnerUserID: userID,
	}
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, apperr.Internal("failed to create group", err)
	}

	s.logger.Info("group created", "group_id", group.ID, "owner_id", userID)
	return group, nil
}

// List returns the groups the user belongs to.
func (s *GroupService) List(ctx context.Context, userID string) ([]models.Group, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list groups", err)
	}
	return groups, nil
}

// Get returns a group the caller is a member of.
func (s *GroupService) Get(ctx context.Context, userID, groupID string) (*models.Group, error) {
	return s.requireMember(ctx, userID, groupID)
}

// Members returns the full user records of a group's current members.
func (s *GroupService) Members(ctx context.Context, userID, groupID string) ([]models.User, error) {
	if _, err := s.requireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}
	members, err := s.store.GroupMembers(ctx, groupID)
	if err != nil {
		return nil, apperr.Internal("failed to list group members", err)
	}
	return members, nil
}

// AddMember adds the user with the given email to the group. Any current
// member may invite; adding an existing member is a no-op.
func (s *GroupService) AddMember(ctx context.Context, userID, groupID, email string) (*models.Group, error) {
	if _, err := s.requireMember(ctx, userID, groupID); err != nil {
		return nil, err
	}

	invitee, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound(apperr.CodeUserNotFound,
				fmt.Sprintf("no user registered with email %s", email))
		}
		return nil, apperr.Internal("failed to look up user", err)
	}

	if err := s.store.AddGroupMember(ctx, groupID, invitee.ID); err != nil {
		return nil, apperr.Internal("failed to add group member", err)
	}

	s.logger.Info("member added", "group_id", groupID, "user_id", invitee.ID)
	return s.store.GetGroup(ctx, groupID)
}

// RemoveMember removes targetID from the group. The owner may remove any
// member, themselves included; any other member may only remove themselves.
// A target who is not a member is a 404.
func (s *GroupService) RemoveMember(ctx context.Context, userID, groupID, targetID string) error {
	group, err := s.requireMember(ctx, userID, groupID)
	if err != nil {
		return err
	}
	if userID != group.OwnerUserID && userID != targetID {
		return apperr.Forbidden("you may only remove yourself from a group unless you are the owner")
	}

	if err := s.store.RemoveGroupMember(ctx, groupID, targetID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound(apperr.CodeUserNotFound, "user is not a member of this group")
		}
		return apperr.Internal("failed to remove group member", err)
	}

	s.logger.Info("member removed", "group_id", groupID, "user_id", targetID, "removed_by", userID)
	return nil
}

// requireMember loads the group and verifies the caller's membership.
// Non-members get 403, not 404: the group's existence is not a secret,
// its contents are.
func (s *GroupService) requireMember(ctx context.Context, userID, groupID string) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound(apperr.CodeGroupNotFound, "group not found")
		}
		return nil, apperr.Internal("failed to load group", err)
	}
	if !group.HasMember(userID) {
		return nil, apperr.Forbidden("you are not a member of this group")
	}
	return group, nil
}
