package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		line string
		want Command
	}{
		{line: "/방생성 놀이터", want: Command{Kind: CmdCreate, Name: "놀이터"}},
		{line: "/create room pw", want: Command{Kind: CmdCreate, Name: "room", Password: "pw"}},
		{line: "/방생성", want: Command{Kind: CmdChat, Text: "/방생성"}},
		{line: "/참가 2", want: Command{Kind: CmdJoin, Number: 2}},
		{line: "/JOIN 1 secret", want: Command{Kind: CmdJoin, Number: 1, Password: "secret"}},
		{line: "/참가 둘", want: Command{Kind: CmdChat, Text: "/참가 둘"}},
		{line: "/퇴장", want: Command{Kind: CmdQuit}},
		{line: "/추방 3", want: Command{Kind: CmdKick, Number: 3}},
		{line: "/시작", want: Command{Kind: CmdStart}},
		{line: "/start now", want: Command{Kind: CmdChat, Text: "/start now"}},
		{line: "/스킵", want: Command{Kind: CmdSkip}},
		{line: "/종료", want: Command{Kind: CmdEnd}},
		{line: "/목록", want: Command{Kind: CmdRooms}},
		{line: "/시간증가", want: Command{Kind: CmdAddTime}},
		{line: "/reducetime", want: Command{Kind: CmdReduceTime}},
		{line: "찬성", want: Command{Kind: CmdAgree}},
		{line: " 반대 ", want: Command{Kind: CmdOppose}},
		{line: "4", want: Command{Kind: CmdSelect, Number: 4}},
		{line: "/select 7", want: Command{Kind: CmdSelect, Number: 7}},
		{line: "4 번", want: Command{Kind: CmdChat, Text: "4 번"}},
		{line: "안녕하세요", want: Command{Kind: CmdChat, Text: "안녕하세요"}},
		{line: "", want: Command{Kind: CmdChat, Text: ""}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseCommand(tc.line))
		})
	}
}

func TestDispatch_Flow(t *testing.T) {
	g, box := newTestRegistry(t)

	require.NoError(t, g.Dispatch("host", "/방생성 밤"))
	for _, p := range []string{"a", "b", "c"} {
		require.NoError(t, g.Dispatch(p, "/참가 1"))
	}

	// numbers in the lobby are chat
	require.NoError(t, g.Dispatch("a", "3"))
	assert.True(t, box.has("host", "▸ 【2】\n▸ a\n▸ 3"))

	require.NoError(t, g.Dispatch("host", "/목록"))
	assert.True(t, box.has("host", "[ ▸1 | 밤 (4명) ]"))

	require.NoError(t, g.Dispatch("host", "/시작"))
	r, ok := g.RoomOf("c")
	require.True(t, ok)
	assert.Equal(t, PhaseNight, r.Phase())

	require.NoError(t, g.Dispatch("host", "/스킵"))
	assert.Equal(t, PhaseDiscussion, r.Phase())
	require.NoError(t, g.Dispatch("host", "/종료"))
	assert.Equal(t, PhaseLobby, r.Phase())

	require.NoError(t, g.Dispatch("c", "/퇴장"))
	_, ok = g.RoomOf("c")
	assert.False(t, ok)

	// outside a room nothing is delivered
	assert.ErrorIs(t, g.Dispatch("c", "hello"), ErrNotInRoom)
	assert.ErrorIs(t, g.Dispatch("c", "/시작"), ErrNotInRoom)
}
