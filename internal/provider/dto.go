package provider

// Wire shapes of the upstream API. Only the fields the pipeline reads are declared.

type nameDTO struct {
	Name string `json:"name"`
}

type dailyRadarResponse struct {
	// pointer so a missing container can be told apart from an empty one
	DailyRadar *[]regionDTO `json:"dailyRadar"`
}

type regionDTO struct {
	Name    string      `json:"name"`
	Seasons []seasonDTO `json:"seasons"`
}

type seasonDTO struct {
	Name    string     `json:"name"`
	League  *nameDTO   `json:"league"`
	Matches []matchDTO `json:"matches"`
}

type matchDTO struct {
	ID        flexString `json:"id"`
	HomeTeam  nameDTO    `json:"homeTeam"`
	AwayTeam  nameDTO    `json:"awayTeam"`
	MatchTime flexTime   `json:"matchTime"`
	Status    flexStatus `json:"status"`
	HomeScore *flexFloat `json:"homeScore"`
	AwayScore *flexFloat `json:"awayScore"`
}

type prepRadarResponse struct {
	ID         flexString     `json:"id"`
	StartTime  flexTime       `json:"startTime"`
	HomeTeam   nameDTO        `json:"homeTeam"`
	AwayTeam   nameDTO        `json:"awayTeam"`
	League     nameDTO        `json:"league"`
	Status     flexStatus     `json:"status"`
	MarketOdds *marketOddsDTO `json:"marketOdds"`
}

type marketOddsDTO struct {
	ResultFt  *threeWayDTO `json:"resultFt"`
	GoalsOu15 *totalDTO    `json:"goalsOu15"`
	GoalsOu25 *totalDTO    `json:"goalsOu25"`
	GoalsOu35 *totalDTO    `json:"goalsOu35"`
	BTTS      *bttsDTO     `json:"btts"`
}

type threeWayDTO struct {
	Home flexFloat `json:"home"`
	Draw flexFloat `json:"draw"`
	Away flexFloat `json:"away"`
}

type totalDTO struct {
	Over  flexFloat `json:"over"`
	Under flexFloat `json:"under"`
}

type bttsDTO struct {
	Yes flexFloat `json:"yes"`
	No  flexFloat `json:"no"`
}

type goalRadarResponse struct {
	Data       *goalRadarData `json:"data"`
	MatchCount *flexFloat     `json:"matchCount"`
}

type goalRadarData struct {
	MatchCount *flexFloat    `json:"matchCount"`
	Sums       goalSumsDTO   `json:"sums"`
	Counts     goalCountsDTO `json:"counts"`
	Race       []raceResult  `json:"race"`
}

type periodDTO struct {
	FullTime flexFloat `json:"fullTime"`
}

type goalSumsDTO struct {
	GoalsScored   *periodDTO `json:"goalsScored"`
	GoalsConceded *periodDTO `json:"goalsConceded"`
}

type goalCountsDTO struct {
	Won         periodDTO `json:"won"`
	Drew        periodDTO `json:"drew"`
	Lost        periodDTO `json:"lost"`
	FailToScore periodDTO `json:"failToScore"`
	CleanSheet  periodDTO `json:"cleanSheet"`
	Markets     struct {
		MatchGoals struct {
			Over15 flexFloat `json:"over15"`
			Over25 flexFloat `json:"over25"`
			BTTS   flexFloat `json:"btts"`
		} `json:"matchGoals"`
	} `json:"markets"`
}
