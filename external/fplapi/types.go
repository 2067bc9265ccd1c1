package fplapi

type staticEnvelope struct {
	Teams        []feedTeamItem        `json:"teams"`
	Elements     []feedElementItem     `json:"elements"`
	ElementTypes []feedElementTypeItem `json:"element_types"`
}

type feedTeamItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type feedElementItem struct {
	ID                       int64  `json:"id"`
	Team                     int64  `json:"team"`
	FirstName                string `json:"first_name"`
	SecondName               string `json:"second_name"`
	WebName                  string `json:"web_name"`
	ElementType              int64  `json:"element_type"`
	GoalsScored              int    `json:"goals_scored"`
	Assists                  int    `json:"assists"`
	TotalPoints              int    `json:"total_points"`
	Minutes                  int    `json:"minutes"`
	YellowCards              int    `json:"yellow_cards"`
	RedCards                 int    `json:"red_cards"`
	NowCost                  int    `json:"now_cost"`
	Form                     string `json:"form"`
	ChanceOfPlayingNextRound *int   `json:"chance_of_playing_next_round"`
	Status                   string `json:"status"`
	News                     string `json:"news"`
}

type feedElementTypeItem struct {
	ID           int64  `json:"id"`
	SingularName string `json:"singular_name"`
}

type feedFixtureItem struct {
	ID              int64   `json:"id"`
	Event           *int    `json:"event"`
	KickoffTime     *string `json:"kickoff_time"`
	TeamH           int64   `json:"team_h"`
	TeamA           int64   `json:"team_a"`
	TeamHScore      *int    `json:"team_h_score"`
	TeamAScore      *int    `json:"team_a_score"`
	Finished        bool    `json:"finished"`
	Started         bool    `json:"started"`
	TeamHDifficulty int     `json:"team_h_difficulty"`
}
