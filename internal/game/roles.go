package game

type RoleName string

const (
	RoleMafia       RoleName = "마피아"
	RolePolice      RoleName = "경찰"
	RoleDoctor      RoleName = "의사"
	RoleSoldier     RoleName = "군인"
	RolePolitician  RoleName = "정치인"
	RoleMedium      RoleName = "영매"
	RoleLovers      RoleName = "연인"
	RoleReporter    RoleName = "기자"
	RoleThug        RoleName = "건달"
	RoleGraveRobber RoleName = "도굴꾼"
	RoleDetective   RoleName = "사립탐정"
	RoleTerrorist   RoleName = "테러리스트"
	RolePriest      RoleName = "성직자"
	RoleMagician    RoleName = "마술사"
	RoleSpy         RoleName = "스파이"
	RoleMadam       RoleName = "마담"
	RoleThief       RoleName = "도둑"
	RoleBeastman    RoleName = "짐승인간"
	RoleCultLeader  RoleName = "교주"

	// no ability; handed out by the draw and the grave robber
	RoleCitizen RoleName = "시민"
	RoleVillain RoleName = "악인"
)

type Faction string

const (
	FactionCitizen Faction = "citizen"
	FactionMafia   Faction = "mafia"
	FactionSect    Faction = "sect"
)

// SelectPolicy says whether and how often a role may pick a target at night.
type SelectPolicy int

const (
	SelectNone      SelectPolicy = iota // no ability
	SelectUnlimited                     // may re-pick every night
	SelectOnce                          // one pick per role per night
	SelectDisabled                      // ability exists but never from the night menu
)

// Role is an immutable catalog entry. Behavior lives in hooks.go and is
// dispatched on Name.
type Role struct {
	Name        RoleName
	Faction     Faction
	Description string

	Select   SelectPolicy
	DeadOnly bool // may only target eliminated players

	Important  bool // drawn without replacement
	SubMafia   bool // at most one per game
	Sect       bool // a living holder keeps the sect's win rule strict
	MinPlayers int  // eligible only with at least this many players
	Count      int  // copies in the draw pool, 0 means 1
	Votes      int  // ballots, 0 means 1
}

func (r Role) copies() int {
	if r.Count <= 0 {
		return 1
	}
	return r.Count
}

func (r Role) ballots() int {
	if r.Votes <= 0 {
		return 1
	}
	return r.Votes
}

var catalog = []Role{
	{Name: RoleMafia, Faction: FactionMafia, Important: true, Select: SelectUnlimited,
		Description: "밤마다 플레이어 한 명을 죽일 수 있다."},
	{Name: RolePolice, Faction: FactionCitizen, Important: true, Select: SelectOnce,
		Description: "밤마다 한 사람을 조사하여 그 사람의 직업이 마피아인지 여부를 알 수 있다."},
	{Name: RoleDoctor, Faction: FactionCitizen, Important: true, Select: SelectUnlimited,
		Description: "밤마다 한 사람을 지목하여 대상이 마피아에게 공격받을 경우, 대상을 치료한다."},

	{Name: RoleSoldier, Faction: FactionCitizen,
		Description: "마피아의 공격을 한번 버텨낼 수 있다."},
	{Name: RolePolitician, Faction: FactionCitizen, Votes: 2,
		Description: "플레이어간의 투표로 처형당하지 않는다.\n정치인의 투표권은 두 표로 인정된다."},
	{Name: RoleMedium, Faction: FactionCitizen, Select: SelectOnce, DeadOnly: true,
		Description: "죽은 사람이 하는 채팅을 들을 수 있으며, 밤에 죽은사람과 대화를 할 수 있다.\n밤마다 죽은 사람 한명을 선택하여 그 사람의 직업을 알아내고 성불 상태로 만든다. (되살리기 불가능)"},
	{Name: RoleLovers, Faction: FactionCitizen, Select: SelectOnce, Count: 2,
		Description: "밤에 다른 연인과 서로 대화가 가능하다.\n연인 두 명이 모두 생존하고 있을 때,연인 한명이 마피아에게 지목당할 경우 다른 연인이 대신 죽게 된다."},
	{Name: RoleReporter, Faction: FactionCitizen, Select: SelectUnlimited,
		Description: "첫날 밤이 아닌 밤에 한 명을 선택하여 취재해 다음 날 그 사람의 직업을 모두에게 공개한다. (1회용)"},
	{Name: RoleThug, Faction: FactionCitizen, Select: SelectOnce,
		Description: "밤에 지목된 플레이어는 다음 날 찬반 투표를 포함한 모든 투표를 할 수 없다."},
	{Name: RoleGraveRobber, Faction: FactionCitizen,
		Description: "첫날 마피아에게 살해당한 사람의 직업을 얻는다."},
	{Name: RoleDetective, Faction: FactionCitizen, Select: SelectOnce,
		Description: "밤에 한 사람을 조사하여 그 사람이 능력 사용 대상으로 누굴 선택하는지 볼 수 있다."},
	{Name: RoleTerrorist, Faction: FactionCitizen, Select: SelectUnlimited,
		Description: "밤마다 플레이어 한 명을 지목하여 해당 플레이어가 마피아일 때, 자신이 마피아의 공격을 받을 경우 지목한 마피아와 함께 사망한다.\n투표로 죽을 때, 최후에 반론 시간 때 플레이어 한 명을 골라 같이 처형될 수 있다."},
	{Name: RolePriest, Faction: FactionCitizen, Select: SelectUnlimited, DeadOnly: true,
		Description: "죽은 플레이어 한명을 밤에 선택하여 부활시킨다. (1회용)\n교주에게 포교당하지 않는다. (포교 시도당할 경우 교주가 누군지 알 수 있다.)"},
	{Name: RoleMagician, Faction: FactionCitizen, Select: SelectOnce,
		Description: "밤에 플레이어 한 명에게 트릭을 걸어 자신이 사망할 때 해당 플레이어와 자신을 바꿔치기한다. (1회용)"},

	{Name: RoleSpy, Faction: FactionCitizen, Select: SelectOnce, SubMafia: true, Important: true, MinPlayers: 6,
		Description: "밤마다 플레이어 한 명을 골라 그 사람의 직업을 알아낼 수 있다.\n능력을 사용한 대상이 마피아일 경우 접선한다."},
	{Name: RoleMadam, Faction: FactionCitizen, Select: SelectDisabled, SubMafia: true, Important: true, MinPlayers: 6,
		Description: "낮에 투표한 사람을 마담이 죽기전까지 능력을 사용하지 못하도록 한다.\n마피아를 유혹할 경우 접선한다."},
	{Name: RoleThief, Faction: FactionCitizen, Select: SelectDisabled, SubMafia: true, Important: true, MinPlayers: 6,
		Description: "투표한 플레이어의 능력을 훔쳐 다음날 낮까지 사용할 수 있다.\n마피아 직업을 훔칠 경우, 마피아와 접선한다."},
	{Name: RoleBeastman, Faction: FactionCitizen, Select: SelectUnlimited, SubMafia: true, Important: true, MinPlayers: 6,
		Description: "자신이 밤에 선택한 사람을 마피아가 선택할 경우, 마피아와 접선한다.\n이 때, 대상에게 발동되는 처형 방해 효과를 무시한다."},

	{Name: RoleCultLeader, Faction: FactionSect, Select: SelectOnce, Sect: true, Important: true, MinPlayers: 9,
		Description: "홀수번째 밤마다 마피아, 성직자에 해당하지 않는 플레이어를 포교상태로 만들 수 있다.\n포교한 대상의 직업을 알 수 있으며, 밤마다 일방적으로 대화를 전달할 수 있다."},
}

var specialRoles = []Role{
	{Name: RoleCitizen, Faction: FactionCitizen, Description: "아무 능력이 없습니다."},
	{Name: RoleVillain, Faction: FactionMafia, Description: "아무 능력이 없습니다."},
}

var roleIndex = func() map[RoleName]Role {
	idx := make(map[RoleName]Role, len(catalog)+len(specialRoles))
	for _, r := range catalog {
		idx[r.Name] = r
	}
	for _, r := range specialRoles {
		idx[r.Name] = r
	}
	return idx
}()

// LookupRole returns the catalog entry for name, including the special
// no-ability roles.
func LookupRole(name RoleName) (Role, bool) {
	r, ok := roleIndex[name]
	return r, ok
}

func roleOf(name RoleName) Role {
	if r, ok := roleIndex[name]; ok {
		return r
	}
	return roleIndex[RoleCitizen]
}

// MafiaSeats is the number of mafia copies dealt for a table of n players.
func MafiaSeats(n int) int {
	switch {
	case n >= 12:
		return 3
	case n >= 8:
		return 2
	default:
		return 1
	}
}

// EligibleFor filters the catalog down to the roles that can be drawn with
// the given number of players. The mafia entry carries the seat count for
// that table size.
func EligibleFor(living int) []Role {
	out := make([]Role, 0, len(catalog))
	for _, r := range catalog {
		if r.MinPlayers > living {
			continue
		}
		if r.Name == RoleMafia {
			r.Count = MafiaSeats(living)
		}
		out = append(out, r)
	}
	return out
}
