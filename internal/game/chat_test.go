package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_Lobby(t *testing.T) {
	box := newInbox()
	r := newRoom("lobby", "host", roomDeps{out: box})
	require.NoError(t, r.join("guest"))
	box.reset()

	require.NoError(t, r.Chat("guest", "hi"))
	assert.Equal(t, []string{"▸ 【2】\n▸ guest\n▸ hi"}, box.of("host"))
	assert.Empty(t, box.of("guest"))
}

func TestChat_NightChannels(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleMafia, RoleLovers, RoleLovers, RoleCitizen, RoleCitizen, RoleCitizen, RoleCitizen)

	require.NoError(t, r.Chat("p1", "p5?"))
	assert.Equal(t, []string{chatLine(1, "마피아", "p1", "p5?")}, box.of("p2"))
	assert.Empty(t, box.of("p3"))
	assert.Empty(t, box.of("p5"))

	box.reset()
	require.NoError(t, r.Chat("p3", "stay safe"))
	assert.Equal(t, []string{chatLine(3, "연인", "p3", "stay safe")}, box.of("p4"))
	assert.Empty(t, box.of("p1"))

	box.reset()
	assert.ErrorIs(t, r.Chat("p5", "anyone?"), ErrRejected)
	for _, p := range []string{"p1", "p2", "p3", "p4", "p6"} {
		assert.Empty(t, box.of(p))
	}
}

func TestChat_DeadHearMafiaAtNight(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)
	require.NoError(t, r.Select("p1", 3))
	advance(r)
	advanceTo(t, r, PhaseNight)
	box.reset()

	require.NoError(t, r.Chat("p1", "next"))
	assert.Equal(t, []string{chatLine(1, noNote, "p1 [마피아 팀]", "next")}, box.of("p3"))
	assert.Empty(t, box.of("p2"))
}

func TestChat_Day(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)
	require.NoError(t, r.Select("p1", 3))
	advance(r)
	require.Equal(t, PhaseDiscussion, r.Phase())
	box.reset()

	require.NoError(t, r.Chat("p2", "it was p1"))
	line := chatLine(2, noNote, "p2", "it was p1")
	assert.Equal(t, []string{line}, box.of("p4"))
	assert.Equal(t, []string{line}, box.of("p5"))
	assert.Equal(t, []string{chatLine(2, noNote, "p2", "it was p1")}, box.of("p1"))
	assert.Empty(t, box.of("p2"), "no echo")
	assert.Empty(t, box.of("p3"), "the dead do not hear the day")
}

func TestChat_GhostsAndMedium(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleMedium, RoleCitizen, RoleCitizen, RoleCitizen, RoleCitizen)
	require.NoError(t, r.Select("p1", 3))
	advance(r)
	require.True(t, isDead(r, "p3"))
	box.reset()

	require.NoError(t, r.Chat("p3", "boo"))
	assert.Equal(t, []string{chatLine(3, noNote, "p3 ☠", "boo")}, box.of("p2"))
	assert.Empty(t, box.of("p1"))
	assert.Empty(t, box.of("p4"))

	// the medium talks to the dead at night
	advanceTo(t, r, PhaseNight)
	box.reset()
	require.NoError(t, r.Chat("p2", "who killed you"))
	assert.Equal(t, []string{chatLine(2, noNote, "p2 [영매]", "who killed you")}, box.of("p3"))
	assert.Empty(t, box.of("p4"))
}

func TestChat_ContactedSpyJoinsMafia(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleSpy, RoleCitizen, RoleCitizen, RoleCitizen, RoleCitizen)

	assert.ErrorIs(t, r.Chat("p2", "hello?"), ErrRejected)

	require.NoError(t, r.Select("p2", 1))
	box.reset()

	require.NoError(t, r.Chat("p2", "found you"))
	assert.Equal(t, []string{"▸ 스파이\n▸ [2] p2\n▸ found you"}, box.of("p1"))

	require.NoError(t, r.Chat("p1", "welcome"))
	assert.Equal(t, []string{chatLine(1, "마피아", "p1", "welcome")}, box.of("p2"))
}

func TestChat_CultLeaderBroadcasts(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleCultLeader, RoleCitizen, RoleCitizen, RoleCitizen, RoleCitizen)
	require.NoError(t, r.Select("p2", 3))
	box.reset()

	require.NoError(t, r.Chat("p2", "join us"))
	assert.Equal(t, []string{chatLine(2, "교주", "p2 [교주]", "join us")}, box.of("p3"))
	assert.Empty(t, box.of("p4"))
	assert.Empty(t, box.of("p2"))
}

func TestChat_MagicianSpeaksThroughBody(t *testing.T) {
	r, box := newTestRoom(t, RoleMafia, RoleMagician, RolePolice, RoleCitizen, RoleCitizen, RoleCitizen)
	require.NoError(t, r.Select("p2", 3))
	require.NoError(t, r.Select("p1", 2))
	advance(r)
	box.reset()

	require.NoError(t, r.Chat("p2", "trust me"))
	line := chatLine(3, noNote, "p3", "trust me")
	assert.Equal(t, []string{line}, box.of("p4"))
	assert.Equal(t, []string{line}, box.of("p2"), "the magician sees their own line")

	// the body's owner only reaches the dead
	box.reset()
	require.NoError(t, r.Chat("p3", "that was not me"))
	assert.Empty(t, box.of("p4"))
	assert.Empty(t, box.of("p1"))
}
