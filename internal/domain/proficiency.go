package domain

import "time"

// Состояние пары (user, tech). Untouched = записи нет вообще.
type ProficiencyState int

const (
	StateUntouched ProficiencyState = iota
	StateAttempted
	StateRated
)

const (
	LevelMin = 1
	LevelMax = 5
)

// Подписи уровней 1..5
var LevelLabels = map[int]string{
	1: "Can't do",
	2: "Struggle",
	3: "Sometimes",
	4: "Usually",
	5: "Consistently",
}

func ValidLevel(level int) bool {
	return level >= LevelMin && level <= LevelMax
}

type UserProficiency struct {
	UserID      string    `json:"userId"`
	TechID      string    `json:"techId"`
	Attempted   bool      `json:"attempted"`
	Level       *int      `json:"proficiencyLevel,omitempty"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// State восстанавливает состояние машины из полей записи.
// Уровень без attempted — непредставимое состояние, запись так не сохраняется.
func (p *UserProficiency) State() ProficiencyState {
	switch {
	case p == nil || !p.Attempted:
		return StateUntouched
	case p.Level != nil:
		return StateRated
	default:
		return StateAttempted
	}
}

// ProficiencyInput — один запрос обновления с транспорта.
// attempted=false означает полное удаление записи.
type ProficiencyInput struct {
	Attempted bool `json:"attempted"`
	Level     *int `json:"level"`
}

type Overview struct {
	TotalTechs     int         `json:"totalTechs"`
	AttemptedCount int         `json:"attemptedCount"`
	RatedCount     int         `json:"ratedCount"`
	AverageLevel   float64     `json:"averageLevel"`
	Distribution   map[int]int `json:"distribution"`
}
