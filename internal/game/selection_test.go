package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_OncePerNight(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RolePolice, RoleCitizen, RoleCitizen)

	require.NoError(t, r.Select("p2", 1))
	assert.ErrorIs(t, r.Select("p2", 3), ErrRejected)
	assert.True(t, box.has("p2", "[ 이미 능력을 사용했습니다. ]"))

	picked, ok := locked(r, func() map[string]string { return r.selections[RolePolice] })["p2"]
	require.True(t, ok)
	assert.Equal(t, "p1", picked)
	assert.False(t, box.has("p2", "[ p3 님은 마피아가 아닙니다. ]"))
}

func TestSelect_MafiaMayChangeTarget(t *testing.T) {
	r, _ := newTestRoom(t, RoleMafia, RolePolice, RoleCitizen, RoleCitizen)

	require.NoError(t, r.Select("p1", 3))
	require.NoError(t, r.Select("p1", 4))
	advance(r)

	assert.False(t, isDead(r, "p3"))
	assert.True(t, isDead(r, "p4"))
}

func TestSelect_Rejections(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)

	cases := []struct {
		name   string
		player string
		seat   int
		notice string
	}{
		{name: "missing seat", player: "p2", seat: 9, notice: "[ 9 번 님은 존재하지 않습니다. ]"},
		{name: "zero seat", player: "p2", seat: 0, notice: "[ 0 번 님은 존재하지 않습니다. ]"},
		{name: "no ability", player: "p3", seat: 1, notice: "[ 능력을 사용할 수 없습니다. ]"},
		{name: "stranger", player: "nobody", seat: 1, notice: "[ 능력을 사용할 수 없습니다. ]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			box.reset()
			assert.ErrorIs(t, r.Select(tc.player, tc.seat), ErrRejected)
			assert.True(t, box.has(tc.player, tc.notice))
		})
	}

	// the dead do not act
	require.NoError(t, r.Select("p1", 2))
	advance(r)
	require.True(t, isDead(r, "p2"))
	advanceTo(t, r, PhaseNight)
	assert.ErrorIs(t, r.Select("p2", 1), ErrRejected)
}

func TestSelect_OutsideGame(t *testing.T) {
	r := newRoom("lobby", "host", roomDeps{})
	assert.ErrorIs(t, r.Select("host", 1), ErrRejected)
	assert.ErrorIs(t, r.Agree("host"), ErrRejected)
	assert.ErrorIs(t, r.AddTime("host"), ErrRejected)
}

func TestSelect_VoteRules(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)
	require.NoError(t, r.Select("p1", 5))
	advanceTo(t, r, PhaseVote)
	require.True(t, isDead(r, "p5"))

	assert.ErrorIs(t, r.Select("p5", 1), ErrRejected, "dead voter")
	assert.ErrorIs(t, r.Select("p2", 5), ErrRejected, "dead candidate")
	assert.True(t, box.has("p2", "[ 선택할 수 없는 대상입니다. ]"))

	require.NoError(t, r.Select("p2", 1))
	assert.ErrorIs(t, r.Select("p2", 3), ErrRejected)
	assert.True(t, box.has("p2", "[ 이미 투표하셨습니다. ]"))
	assert.Equal(t, 1, locked(r, func() int { return r.vote["p1"] }))
	assert.Zero(t, locked(r, func() int { return r.vote["p3"] }))
}

func TestSelect_MadamSeduces(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleMadam, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)

	// the madam has nothing to pick at night
	assert.ErrorIs(t, r.Select("p2", 3), ErrRejected)

	advanceTo(t, r, PhaseVote)
	require.NoError(t, r.Select("p2", 3))
	assert.True(t, box.has("p2", "[ p3 님을 유혹했습니다. ]"))
	assert.True(t, box.has("p3", "마담이 죽을 때 까지 능력을 사용하지 못합니다."))

	advanceTo(t, r, PhaseNight)
	assert.ErrorIs(t, r.Select("p3", 1), ErrRejected)
	assert.True(t, box.has("p3", "[ 능력을 사용할 수 없습니다. ]"))

	// the spell breaks when the madam dies
	require.NoError(t, r.Select("p1", 2))
	advance(r)
	require.True(t, isDead(r, "p2"))
	advanceTo(t, r, PhaseNight)
	require.NoError(t, r.Select("p3", 1))
	assert.True(t, box.has("p3", "[ p1 님은 마피아 입니다. ]"))
}

func TestSelect_MadamContactsMafia(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleMadam, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)
	advanceTo(t, r, PhaseVote)

	require.NoError(t, r.Select("p2", 1))
	assert.True(t, box.has("p2", "[ 접선했습니다. ]"))
	assert.True(t, box.has("p1", "[ p2 마담과 접선했습니다. ]"))
	assert.True(t, binding(r, "p2").Contact)
	assert.False(t, locked(r, func() bool { return r.cantUse["p1"] }))
}

func TestSelect_ThiefBorrowsUntilDawn(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleThief, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)
	advanceTo(t, r, PhaseVote)

	require.NoError(t, r.Select("p2", 3))
	assert.True(t, box.has("p2", "[ p3 님의 경찰 직업을 훔쳤습니다. ]"))
	assert.Equal(t, RolePolice, binding(r, "p2").Ability)
	assert.Equal(t, RoleThief, binding(r, "p2").Identity)

	advanceTo(t, r, PhaseNight)
	require.NoError(t, r.Select("p2", 1))
	assert.True(t, box.has("p2", "[ p1 님은 마피아 입니다. ]"))
	// one police pick per night, shared with the real police
	assert.ErrorIs(t, r.Select("p3", 4), ErrRejected)

	advance(r)
	assert.Equal(t, RoleThief, binding(r, "p2").Ability)
}

func TestSelect_ThiefFailsOnSoldier(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleThief, RoleSoldier, RoleCitizen, RoleCitizen, RoleCitizen)
	advanceTo(t, r, PhaseVote)

	require.NoError(t, r.Select("p2", 3))
	assert.True(t, box.has("p2", "[ 훔치는 데에 실패하였습니다. ]"))
	assert.True(t, box.has("p3", "[ 도둑 p2 님이 직업을 훔치려고 시도했습니다. ]"))
	assert.Equal(t, RoleThief, binding(r, "p2").Ability)
}

func TestSelect_TrickedBodyIsPassive(t *testing.T) {
	r, _ := newTestRoom(t, RoleMafia, RoleMagician, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)

	require.NoError(t, r.Select("p2", 3))
	require.NoError(t, r.Select("p1", 2))
	advance(r)
	require.True(t, isDead(r, "p2"))

	advanceTo(t, r, PhaseVote)
	// p3's body belongs to the magician now
	assert.ErrorIs(t, r.Select("p3", 1), ErrRejected)
	require.NoError(t, r.Select("p2", 1))
	assert.Equal(t, 1, locked(r, func() int { return r.vote["p1"] }))

	advanceTo(t, r, PhaseNight)
	// neither the magician nor the body can use the police ability
	assert.ErrorIs(t, r.Select("p2", 1), ErrRejected)
	assert.ErrorIs(t, r.Select("p3", 1), ErrRejected)
}
