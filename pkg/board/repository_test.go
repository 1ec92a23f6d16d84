package board_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/questboard/pkg/adapters/memory"
	redisadapter "github.com/aretw0/questboard/pkg/adapters/redis"
	"github.com/aretw0/questboard/pkg/board"
	"github.com/aretw0/questboard/pkg/domain"
	"github.com/aretw0/questboard/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *board.Repository {
	t.Helper()
	return board.New(memory.NewStore())
}

func TestCreateGroup(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Contains(t, created.InviteLink, "join_"+created.ID)

	got, err := repo.GetGroup(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Guild", got.Name)
	assert.Empty(t, got.Members)
	assert.Empty(t, got.Tasks)
	assert.Equal(t, created.InviteLink, got.InviteLink)
}

func TestCreateGroup_FreshIDs(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	a, err := repo.CreateGroup(ctx, "A")
	require.NoError(t, err)
	b, err := repo.CreateGroup(ctx, "A")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddMember(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)

	require.NoError(t, repo.AddMember(ctx, "player-1", g.ID))
	// Re-adding is a no-op.
	require.NoError(t, repo.AddMember(ctx, "player-1", g.ID))

	got, err := repo.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"player-1"}, got.Members)

	groups, err := repo.ListUserGroups(ctx, "player-1")
	require.NoError(t, err)
	assert.Equal(t, []string{g.ID}, groups)
}

func TestAddMember_DeadGroup(t *testing.T) {
	repo := newRepo(t)

	err := repo.AddMember(context.Background(), "player-1", "no-such-group")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMembershipSymmetry(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	g1, err := repo.CreateGroup(ctx, "One")
	require.NoError(t, err)
	g2, err := repo.CreateGroup(ctx, "Two")
	require.NoError(t, err)

	require.NoError(t, repo.AddMember(ctx, "p1", g1.ID))
	require.NoError(t, repo.AddMember(ctx, "p1", g2.ID))
	require.NoError(t, repo.AddMember(ctx, "p2", g1.ID))

	assertSymmetry(t, repo, []string{g1.ID, g2.ID}, []string{"p1", "p2"})

	require.NoError(t, repo.DeleteGroup(ctx, g1.ID))
	assertSymmetry(t, repo, []string{g2.ID}, []string{"p1", "p2"})
}

// assertSymmetry checks user ∈ group.Members ⇔ group ∈ user.groups for
// the given universe of groups and users.
func assertSymmetry(t *testing.T, repo *board.Repository, groupIDs, userIDs []string) {
	t.Helper()
	ctx := context.Background()

	for _, gid := range groupIDs {
		g, err := repo.GetGroup(ctx, gid)
		require.NoError(t, err)
		for _, uid := range g.Members {
			groups, err := repo.ListUserGroups(ctx, uid)
			require.NoError(t, err)
			assert.Contains(t, groups, gid, "user %s missing back-reference to group %s", uid, gid)
		}
	}
	for _, uid := range userIDs {
		groups, err := repo.ListUserGroups(ctx, uid)
		require.NoError(t, err)
		for _, gid := range groups {
			g, err := repo.GetGroup(ctx, gid)
			require.NoError(t, err)
			assert.Contains(t, g.Members, uid, "group %s missing member %s", gid, uid)
		}
	}
}

func TestCreateTask(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)

	task, err := repo.CreateTask(ctx, g.ID, "Fetch Water", "From the well", "Innkeeper")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, task.Status)

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.GroupID)
	assert.Equal(t, "Fetch Water", got.Name)
	assert.Equal(t, "From the well", got.Description)
	assert.Equal(t, "Innkeeper", got.Customer)

	ids, err := repo.ListGroupTasks(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{task.ID}, ids)
}

func TestCreateTask_DeadGroup(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.CreateTask(context.Background(), "ghost", "x", "y", "z")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskBackReferences(t *testing.T) {
	// Every id in a group's task set resolves to a task pointing back.
	repo := newRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	for _, name := range []string{"a", "b", "c"} {
		_, err := repo.CreateTask(ctx, g.ID, name, "", "")
		require.NoError(t, err)
	}

	ids, err := repo.ListGroupTasks(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, ids, 3)
	for _, id := range ids {
		task, err := repo.GetTask(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, g.ID, task.GroupID)
	}
}

func TestSetTaskStatus(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	task, err := repo.CreateTask(ctx, g.ID, "Fetch Water", "", "")
	require.NoError(t, err)

	// The repository stores whatever it is told; it does not validate
	// transitions.
	require.NoError(t, repo.SetTaskStatus(ctx, task.ID, domain.StatusDone))

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, got.Status)

	err = repo.SetTaskStatus(ctx, "ghost", domain.StatusOpen)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteTask_Idempotent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	task, err := repo.CreateTask(ctx, g.ID, "Fetch Water", "", "")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTask(ctx, task.ID))
	require.NoError(t, repo.DeleteTask(ctx, task.ID), "second delete must be a no-op")

	_, err = repo.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ids, err := repo.ListGroupTasks(ctx, g.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDeleteGroup_Cascade(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(ctx, "player-1", g.ID))
	task, err := repo.CreateTask(ctx, g.ID, "Fetch Water", "", "")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteGroup(ctx, g.ID))

	_, err = repo.GetGroup(ctx, g.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = repo.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "no orphan tasks may remain queryable")

	groups, err := repo.ListUserGroups(ctx, "player-1")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestDeleteGroup_Idempotent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)

	require.NoError(t, repo.DeleteGroup(ctx, g.ID))
	require.NoError(t, repo.DeleteGroup(ctx, g.ID), "deleting a non-existent group is a no-op success")
	require.NoError(t, repo.DeleteGroup(ctx, "never-existed"))
}

// deleteFailingStore fails the first Delete of a task record,
// simulating a cascade interrupted mid-flight.
type deleteFailingStore struct {
	ports.Store
	tripped bool
}

func (s *deleteFailingStore) Delete(ctx context.Context, keys ...string) error {
	if !s.tripped && strings.HasPrefix(keys[0], "task:") {
		s.tripped = true
		return fmt.Errorf("connection reset: %w", domain.ErrStoreUnavailable)
	}
	return s.Store.Delete(ctx, keys...)
}

func TestDeleteGroup_PartialCascadeIsRetryable(t *testing.T) {
	store := &deleteFailingStore{Store: memory.NewStore()}
	repo := board.New(store)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(ctx, "player-1", g.ID))
	_, err = repo.CreateTask(ctx, g.ID, "a", "", "")
	require.NoError(t, err)
	_, err = repo.CreateTask(ctx, g.ID, "b", "", "")
	require.NoError(t, err)

	err = repo.DeleteGroup(ctx, g.ID)
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	// The task set outlives the interrupted pass, so the retry can still
	// discover the records that were not deleted yet.
	ids, err := repo.ListGroupTasks(ctx, g.ID)
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	require.NoError(t, repo.DeleteGroup(ctx, g.ID))

	_, err = repo.GetGroup(ctx, g.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	for _, id := range ids {
		_, err := repo.GetTask(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}

func TestListGroups(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	groups, err := repo.ListGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)

	g1, err := repo.CreateGroup(ctx, "One")
	require.NoError(t, err)
	g2, err := repo.CreateGroup(ctx, "Two")
	require.NoError(t, err)

	// Membership and task set keys share the scan prefix; they must not
	// show up as phantom groups.
	require.NoError(t, repo.AddMember(ctx, "p1", g1.ID))
	_, err = repo.CreateTask(ctx, g2.ID, "t", "", "")
	require.NoError(t, err)

	groups, err = repo.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	names := map[string]string{}
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	assert.Equal(t, map[string]string{g1.ID: "One", g2.ID: "Two"}, names)
}

// The repository behaves identically on the redis backend.
func TestRepository_RedisBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	repo := board.New(redisadapter.NewFromClient(client))
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(ctx, "player-1", g.ID))
	task, err := repo.CreateTask(ctx, g.ID, "Fetch Water", "From the well", "Innkeeper")
	require.NoError(t, err)

	groups, err := repo.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"player-1"}, groups[0].Members)

	require.NoError(t, repo.DeleteGroup(ctx, g.ID))
	_, err = repo.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
