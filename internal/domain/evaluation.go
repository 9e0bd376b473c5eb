package domain

// Skill indexes the seven evaluated skills, in column order.
type Skill int

const (
	SkillPush Skill = iota
	SkillDribbling
	SkillFlick
	SkillHitting
	SkillSweep
	SkillPhysical
	SkillTackling
)

// SkillCount is the number of scored skills per evaluation.
const SkillCount = 7

// TechnicalSkills is the number of leading skills averaged as "technical".
const TechnicalSkills = 5

const (
	MinScore = 1
	MaxScore = 10
)

var skillNames = [SkillCount]string{"Push", "Dribbling", "Flick", "Hitting", "Sweep", "Physical", "Tackling"}

func (s Skill) String() string {
	if s < 0 || int(s) >= SkillCount {
		return "?"
	}
	return skillNames[s]
}

// SkillNames returns the display names in column order.
func SkillNames() []string {
	out := make([]string, SkillCount)
	copy(out, skillNames[:])
	return out
}

// Scores holds one value per skill.
type Scores [SkillCount]int

// SkillEvaluation is one player's scores for one month.
type SkillEvaluation struct {
	Period      Period `json:"period"`
	NationalID  string `json:"national_id"`
	Scores      Scores `json:"scores"`
	Observation string `json:"observation,omitempty"`
}
