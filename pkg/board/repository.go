// Package board implements the Domain Repository: CRUD over groups,
// memberships and tasks on top of a ports.Store, including referential
// cleanup when a group is deleted.
//
// The repository is the single owner of domain records; every read
// re-fetches from the store and no caller keeps a copy across calls. It
// is deliberately policy-free: status transition rules live in the
// workflow engine, not here.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/questboard/internal/logging"
	"github.com/aretw0/questboard/pkg/domain"
	"github.com/aretw0/questboard/pkg/ports"
	"github.com/google/uuid"
)

// DefaultInviteLinkBase is the deep-link base used when none is
// configured.
const DefaultInviteLinkBase = "https://t.me/questboard_bot"

// Repository provides CRUD over Group, Membership and Task entities.
type Repository struct {
	store    ports.Store
	linkBase string
	logger   *slog.Logger
}

// Option configures the Repository.
type Option func(*Repository)

// WithInviteLinkBase sets the base URL invite links are derived from.
func WithInviteLinkBase(base string) Option {
	return func(r *Repository) {
		r.linkBase = base
	}
}

// WithLogger configures a logger for cascade diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// New creates a Repository over the given store.
func New(store ports.Store, opts ...Option) *Repository {
	r := &Repository{
		store:    store,
		linkBase: DefaultInviteLinkBase,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// inviteLink derives the link deterministically from the group id.
func (r *Repository) inviteLink(groupID string) string {
	return r.linkBase + "?start=" + domain.JoinPayload(groupID)
}

// CreateGroup allocates a fresh id and writes a group with no members
// and no tasks.
func (r *Repository) CreateGroup(ctx context.Context, name string) (*domain.Group, error) {
	id := uuid.NewString()
	link := r.inviteLink(id)

	err := r.store.PutMap(ctx, groupKey(id), map[string]string{
		"name": name,
		"link": link,
	})
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}

	return &domain.Group{ID: id, Name: name, InviteLink: link}, nil
}

// GetGroup fetches a group with its member and task id sets.
func (r *Repository) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	fields, err := r.store.GetMap(ctx, groupKey(groupID))
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
	}

	members, err := r.store.SetMembers(ctx, groupUsersKey(groupID))
	if err != nil {
		return nil, fmt.Errorf("get group members: %w", err)
	}
	tasks, err := r.store.SetMembers(ctx, groupTasksKey(groupID))
	if err != nil {
		return nil, fmt.Errorf("get group tasks: %w", err)
	}

	link := fields["link"]
	if link == "" {
		link = r.inviteLink(groupID)
	}

	return &domain.Group{
		ID:         groupID,
		Name:       fields["name"],
		InviteLink: link,
		Members:    members,
		Tasks:      tasks,
	}, nil
}

// ListGroups returns every group, for the master's listing screens.
func (r *Repository) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	keys, err := r.store.Scan(ctx, groupPrefix)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	var groups []*domain.Group
	for _, key := range keys {
		id, ok := groupIDFromKey(key)
		if !ok {
			continue
		}
		g, err := r.GetGroup(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted between scan and fetch.
			continue
		}
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// DeleteGroup removes a group and cascades: both sides of every
// membership, every task under the group, and the group's own sets.
// Idempotent; deleting an absent group is a no-op success.
//
// The cascade is not atomic. A mid-cascade failure leaves partial state
// behind, which a retry cleans up: every step is itself idempotent.
func (r *Repository) DeleteGroup(ctx context.Context, groupID string) error {
	g, err := r.GetGroup(ctx, groupID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	// Memberships unlink first so the group drops out of player menus.
	// Task records go before the group's task set: a reader may briefly
	// see an id that no longer resolves, but after a partial failure a
	// retry can still find the surviving records through the set.
	for _, user := range g.Members {
		if err := r.store.SetRem(ctx, userGroupsKey(user), groupID); err != nil {
			r.logger.Error("group cascade interrupted", "group_id", groupID, "err", err)
			return fmt.Errorf("delete group membership: %w", err)
		}
	}
	for _, taskID := range g.Tasks {
		if err := r.store.Delete(ctx, taskKey(taskID)); err != nil {
			r.logger.Error("group cascade interrupted", "group_id", groupID, "err", err)
			return fmt.Errorf("delete group task: %w", err)
		}
	}

	err = r.store.Delete(ctx, groupTasksKey(groupID), groupUsersKey(groupID), groupKey(groupID))
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}

// AddMember joins a user to a group, writing both sides of the
// membership relation. Idempotent; joining a dead group is NotFound.
func (r *Repository) AddMember(ctx context.Context, userID, groupID string) error {
	fields, err := r.store.GetMap(ctx, groupKey(groupID))
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
	}

	if err := r.store.SetAdd(ctx, groupUsersKey(groupID), userID); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	if err := r.store.SetAdd(ctx, userGroupsKey(userID), groupID); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

// ListUserGroups returns the ids of the groups a user belongs to.
func (r *Repository) ListUserGroups(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.store.SetMembers(ctx, userGroupsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list user groups: %w", err)
	}
	return ids, nil
}

// CreateTask creates a task under a group with status Open. Fails
// NotFound if the group does not exist.
func (r *Repository) CreateTask(ctx context.Context, groupID, name, description, customer string) (*domain.Task, error) {
	fields, err := r.store.GetMap(ctx, groupKey(groupID))
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("group %s: %w", groupID, domain.ErrNotFound)
	}

	id := uuid.NewString()
	task := &domain.Task{
		ID:          id,
		GroupID:     groupID,
		Name:        name,
		Description: description,
		Customer:    customer,
		Status:      domain.StatusOpen,
	}

	// Record before reference: a listed id must always resolve.
	err = r.store.PutMap(ctx, taskKey(id), map[string]string{
		"group_id":    groupID,
		"name":        name,
		"description": description,
		"customer":    customer,
		"status":      string(domain.StatusOpen),
	})
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	if err := r.store.SetAdd(ctx, groupTasksKey(groupID), id); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// GetTask fetches a single task.
func (r *Repository) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	fields, err := r.store.GetMap(ctx, taskKey(taskID))
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
	}

	status, err := domain.ParseStatus(fields["status"])
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", taskID, err)
	}

	return &domain.Task{
		ID:          taskID,
		GroupID:     fields["group_id"],
		Name:        fields["name"],
		Description: fields["description"],
		Customer:    fields["customer"],
		Status:      status,
	}, nil
}

// ListGroupTasks returns the ids of the tasks under a group.
func (r *Repository) ListGroupTasks(ctx context.Context, groupID string) ([]string, error) {
	ids, err := r.store.SetMembers(ctx, groupTasksKey(groupID))
	if err != nil {
		return nil, fmt.Errorf("list group tasks: %w", err)
	}
	return ids, nil
}

// SetTaskStatus stores a new status. It does not validate the
// transition; that is the workflow engine's job.
func (r *Repository) SetTaskStatus(ctx context.Context, taskID string, status domain.Status) error {
	fields, err := r.store.GetMap(ctx, taskKey(taskID))
	if err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("task %s: %w", taskID, domain.ErrNotFound)
	}

	if err := r.store.SetField(ctx, taskKey(taskID), "status", string(status)); err != nil {
		return fmt.Errorf("set task status: %w", err)
	}
	return nil
}

// DeleteTask removes a task. Idempotent. The owning group's reference
// goes first so concurrent readers never see a dangling id.
func (r *Repository) DeleteTask(ctx context.Context, taskID string) error {
	fields, err := r.store.GetMap(ctx, taskKey(taskID))
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}

	if groupID := fields["group_id"]; groupID != "" {
		if err := r.store.SetRem(ctx, groupTasksKey(groupID), taskID); err != nil {
			return fmt.Errorf("delete task reference: %w", err)
		}
	}
	if err := r.store.Delete(ctx, taskKey(taskID)); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
