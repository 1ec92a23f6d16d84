package engine_test

import (
	"context"
	"testing"

	"github.com/aretw0/questboard/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerJoinViaInviteLink(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)

	v := send(t, e, playerID, start(playerID, domain.JoinPayload(g.ID)))
	assert.Contains(t, v.Text, `You joined "Guild"!`)
	buttonByLabel(t, v, "Guild")

	got, err := repo.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Members, playerID)

	groups, err := repo.ListUserGroups(ctx, playerID)
	require.NoError(t, err)
	assert.Equal(t, []string{g.ID}, groups)
}

func TestPlayerJoin_DeadLink(t *testing.T) {
	e, _ := newTestEngine(t)

	v := send(t, e, playerID, start(playerID, "join_ghost"))
	assert.Contains(t, v.Text, "invite link is no longer valid")
}

func TestPlayerMenu_NoGroupsIsTerminal(t *testing.T) {
	e, _ := newTestEngine(t)

	v := send(t, e, playerID, start(playerID))
	assert.Contains(t, v.Text, "not in any group")
	assert.Empty(t, v.Buttons)
}

func TestPlayerTaskLifecycle(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	task, err := repo.CreateTask(ctx, g.ID, "Fetch Water", "From the well", "Innkeeper")
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(ctx, playerID, g.ID))

	v := send(t, e, playerID, start(playerID))
	v = press(t, e, playerID, buttonByLabel(t, v, "Guild").Action)
	assert.Contains(t, v.Text, `Tasks in "Guild":`)

	v = press(t, e, playerID, buttonByLabel(t, v, "Fetch Water (Open)").Action)
	assert.Contains(t, v.Text, "Status: Open")
	buttonByLabel(t, v, "Take")

	// Open + take -> Claimed.
	v = press(t, e, playerID, domain.Action{Kind: domain.ActionTake, ID: task.ID})
	assert.Contains(t, v.Text, "Status: Claimed")
	buttonByLabel(t, v, "Complete")
	buttonByLabel(t, v, "Cancel claim")

	// Claimed + take is rejected: the view re-renders unchanged.
	v = press(t, e, playerID, domain.Action{Kind: domain.ActionTake, ID: task.ID})
	assert.Contains(t, v.Text, "Status: Claimed")

	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClaimed, got.Status)

	// Claimed + cancel-claim -> Open again.
	v = press(t, e, playerID, domain.Action{Kind: domain.ActionCancelClaim, ID: task.ID})
	assert.Contains(t, v.Text, "Status: Open")

	// Take and complete.
	press(t, e, playerID, domain.Action{Kind: domain.ActionTake, ID: task.ID})
	v = press(t, e, playerID, domain.Action{Kind: domain.ActionComplete, ID: task.ID})
	assert.Contains(t, v.Text, "Status: Done")
	assert.Len(t, v.Buttons, 1, "a done task offers only Back")

	// Done rejects everything.
	v = press(t, e, playerID, domain.Action{Kind: domain.ActionTake, ID: task.ID})
	assert.Contains(t, v.Text, "Status: Done")
}

func TestGroupTaskList_EmptyReturnsToPlayerMenu(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(ctx, playerID, g.ID))

	v := send(t, e, playerID, start(playerID))
	v = press(t, e, playerID, buttonByLabel(t, v, "Guild").Action)

	assert.Contains(t, v.Text, "This group has no tasks yet.")
	buttonByLabel(t, v, "Guild")
}

func TestPlayerBackNavigation(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)
	_, err = repo.CreateTask(ctx, g.ID, "Fetch Water", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(ctx, playerID, g.ID))

	v := send(t, e, playerID, start(playerID))
	v = press(t, e, playerID, buttonByLabel(t, v, "Guild").Action)
	v = press(t, e, playerID, buttonByLabel(t, v, "Fetch Water (Open)").Action)

	// Detail -> back -> task list -> back -> player menu.
	v = press(t, e, playerID, domain.Action{Kind: domain.ActionBack})
	assert.Contains(t, v.Text, `Tasks in "Guild":`)

	v = press(t, e, playerID, domain.Action{Kind: domain.ActionBack})
	assert.Contains(t, v.Text, "Your groups:")
}

func TestJoinShortCircuitsInProgressFlow(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	g1, err := repo.CreateGroup(ctx, "First")
	require.NoError(t, err)
	task, err := repo.CreateTask(ctx, g1.ID, "Fetch Water", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(ctx, playerID, g1.ID))

	// Park the player deep in the task detail flow.
	v := send(t, e, playerID, start(playerID))
	v = press(t, e, playerID, buttonByLabel(t, v, "First").Action)
	press(t, e, playerID, buttonByLabel(t, v, "Fetch Water (Open)").Action)

	// A new invite wins over the in-progress flow.
	g2, err := repo.CreateGroup(ctx, "Second")
	require.NoError(t, err)
	v = send(t, e, playerID, start(playerID, domain.JoinPayload(g2.ID)))
	assert.Contains(t, v.Text, `You joined "Second"!`)
	buttonByLabel(t, v, "First")
	buttonByLabel(t, v, "Second")

	// The old selection is gone; the task is untouched.
	got, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, got.Status)
}

// The master can also follow an invite link into their own group.
func TestMasterJoinsOwnGroup(t *testing.T) {
	e, repo := newTestEngine(t)
	ctx := context.Background()

	g, err := repo.CreateGroup(ctx, "Guild")
	require.NoError(t, err)

	v := send(t, e, masterID, start(masterID, domain.JoinPayload(g.ID)))
	assert.Contains(t, v.Text, `You joined "Guild"!`)
	assert.Contains(t, v.Text, "Master menu")

	got, err := repo.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Contains(t, got.Members, masterID)
}
