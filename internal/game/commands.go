package game

import (
	"strconv"
	"strings"
)

type CommandKind int

const (
	CmdChat CommandKind = iota
	CmdCreate
	CmdJoin
	CmdQuit
	CmdKick
	CmdStart
	CmdSkip
	CmdEnd
	CmdRooms
	CmdAddTime
	CmdReduceTime
	CmdAgree
	CmdOppose
	CmdSelect
)

// Command is one parsed line of player input.
type Command struct {
	Kind     CommandKind
	Name     string // room name for CmdCreate
	Password string
	Number   int // room index for CmdJoin, seat for CmdKick and CmdSelect
	Text     string
}

func commandKind(word string) (CommandKind, bool) {
	switch strings.ToLower(word) {
	case "/방생성", "/create":
		return CmdCreate, true
	case "/참가", "/join":
		return CmdJoin, true
	case "/퇴장", "/quit":
		return CmdQuit, true
	case "/추방", "/kick":
		return CmdKick, true
	case "/시작", "/start":
		return CmdStart, true
	case "/스킵", "/skip":
		return CmdSkip, true
	case "/종료", "/end":
		return CmdEnd, true
	case "/목록", "/rooms":
		return CmdRooms, true
	case "/시간증가", "/addtime":
		return CmdAddTime, true
	case "/시간단축", "/reducetime":
		return CmdReduceTime, true
	case "찬성", "/agree":
		return CmdAgree, true
	case "반대", "/oppose":
		return CmdOppose, true
	case "/select":
		return CmdSelect, true
	}
	return CmdChat, false
}

// ParseCommand reads one line. Anything that is not a well-formed command
// is chat.
func ParseCommand(line string) Command {
	chat := Command{Kind: CmdChat, Text: line}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return chat
	}

	if len(parts) == 1 {
		if n, err := strconv.Atoi(parts[0]); err == nil {
			return Command{Kind: CmdSelect, Number: n}
		}
	}

	kind, ok := commandKind(parts[0])
	if !ok {
		return chat
	}
	args := parts[1:]

	switch kind {
	case CmdCreate:
		if len(args) < 1 || len(args) > 2 {
			return chat
		}
		c := Command{Kind: kind, Name: args[0]}
		if len(args) == 2 {
			c.Password = args[1]
		}
		return c

	case CmdJoin:
		if len(args) < 1 || len(args) > 2 {
			return chat
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return chat
		}
		c := Command{Kind: kind, Number: n}
		if len(args) == 2 {
			c.Password = args[1]
		}
		return c

	case CmdKick, CmdSelect:
		if len(args) != 1 {
			return chat
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return chat
		}
		return Command{Kind: kind, Number: n}
	}

	if len(args) > 0 {
		return chat
	}
	return Command{Kind: kind}
}

// Dispatch parses line and runs it for player.
func (g *Registry) Dispatch(player, line string) error {
	c := ParseCommand(line)

	switch c.Kind {
	case CmdCreate:
		_, err := g.CreateRoom(player, c.Name, c.Password)
		return err
	case CmdJoin:
		return g.JoinRoom(player, c.Number, c.Password)
	case CmdQuit:
		return g.QuitRoom(player)
	case CmdKick:
		return g.Kick(player, c.Number)
	case CmdStart:
		return g.Start(player)
	case CmdSkip:
		return g.Skip(player)
	case CmdEnd:
		return g.EndGame(player)
	case CmdRooms:
		g.SayRooms(player)
		return nil
	case CmdAddTime:
		return g.AddTime(player)
	case CmdReduceTime:
		return g.ReduceTime(player)
	case CmdAgree:
		return g.Agree(player)
	case CmdOppose:
		return g.Oppose(player)
	case CmdSelect:
		// a number typed in the lobby is just chat
		if r, ok := g.RoomOf(player); !ok || r.Phase() == PhaseLobby {
			return g.Chat(player, line)
		}
		return g.Select(player, c.Number)
	}
	return g.Chat(player, c.Text)
}
