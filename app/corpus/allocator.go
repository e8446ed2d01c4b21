package corpus

import (
	"math"
	"strings"
)

// Token budget bounds. The cap is the enforced value; every allocation is
// clamped to [TokenFloor, TokenCap].
const (
	TokenFloor = 6144
	TokenCap   = 16384
)

// Factor contribution constants. Each group is capped independently so no
// single signal can dominate the budget.
const (
	answerVoteBonus    = 16   // per answer vote
	answerVoteCap      = 2048 // per single answer
	answerVoteTotalCap = 4096

	acceptedBonus   = 512
	acceptedCap     = 1024
	extraAnswerStep = 1024 // per quality answer beyond the first
	extraAnswerCap  = 4096

	questionVoteBonus = 16
	questionVoteCap   = 2048

	lengthInterval = 200 // characters of question text per step
	lengthBonus    = 256
	lengthCap      = 1024

	snippetBonus = 384
	snippetCap   = 2048

	techBonus = 512
)

// Tier labels for allocation breakdowns.
const (
	TierElite    = "elite"
	TierPremium  = "premium"
	TierStandard = "standard"
	TierBasic    = "basic"
)

// popularTechnologies earn the technology-relevance bonus.
var popularTechnologies = map[string]bool{
	"javascript": true, "typescript": true, "python": true, "java": true,
	"react": true, "vue": true, "angular": true, "node.js": true,
	"nodejs": true, "django": true, "flask": true, "spring": true,
	"go": true, "rust": true, "c#": true, "csharp": true, "php": true,
	"html": true, "css": true, "sql": true, "mysql": true,
	"postgresql": true, "docker": true, "kubernetes": true, "linux": true,
	"bash": true, "git": true, "android": true, "ios": true, "swift": true,
	"kotlin": true,
}

// Factors breaks an allocation down into its weighted signal groups.
type Factors struct {
	AnswerQuality       int `json:"answerQuality"`
	QuestionValue       int `json:"questionValue"`
	ContentComplexity   int `json:"contentComplexity"`
	TechnologyRelevance int `json:"technologyRelevance"`
}

// Allocation is the sized generation budget for a record. It is a pure
// function of the record's content.
type Allocation struct {
	Tokens  int     `json:"tokens"`
	Tier    string  `json:"tier"`
	Factors Factors `json:"factors"`
}

// Allocate computes the token budget for a record. Deterministic, no side
// effects, linear in the number of answers.
func Allocate(rec *Record) Allocation {
	quality := SelectQualityAnswers(rec.Answers)

	var factors Factors

	// Answer quality (~40%): vote-scaled bonus per answer, flat accepted
	// bonus, flat bonus per additional quality answer.
	voteTotal := 0
	acceptedTotal := 0
	for _, a := range quality {
		if a.Votes > 0 {
			voteTotal += capInt(a.Votes*answerVoteBonus, answerVoteCap)
		}
		if a.IsAccepted {
			acceptedTotal += acceptedBonus
		}
	}
	voteTotal = capInt(voteTotal, answerVoteTotalCap)
	acceptedTotal = capInt(acceptedTotal, acceptedCap)
	extraTotal := 0
	if len(quality) > 1 {
		extraTotal = capInt((len(quality)-1)*extraAnswerStep, extraAnswerCap)
	}
	factors.AnswerQuality = voteTotal + acceptedTotal + extraTotal

	// Question value (~30%): question votes.
	if rec.Votes > 0 {
		factors.QuestionValue = capInt(rec.Votes*questionVoteBonus, questionVoteCap)
	}

	// Content complexity (~20%): question length buckets plus code snippets.
	lengthSteps := len(rec.QuestionText) / lengthInterval
	factors.ContentComplexity = capInt(lengthSteps*lengthBonus, lengthCap)
	snippets := len(rec.CodeSnippets)
	for _, a := range quality {
		snippets += len(a.CodeSnippets)
	}
	factors.ContentComplexity += capInt(snippets*snippetBonus, snippetCap)

	// Technology relevance (~10%): flat bonus for popular tags.
	for _, tag := range rec.Tags {
		if popularTechnologies[strings.ToLower(tag)] {
			factors.TechnologyRelevance = techBonus
			break
		}
	}

	tokens := TokenFloor + factors.AnswerQuality + factors.QuestionValue +
		factors.ContentComplexity + factors.TechnologyRelevance
	tokens = int(math.Min(math.Max(float64(tokens), TokenFloor), TokenCap))

	return Allocation{
		Tokens:  tokens,
		Tier:    tierFor(tokens),
		Factors: factors,
	}
}

func tierFor(tokens int) string {
	switch {
	case tokens >= TokenCap:
		return TierElite
	case tokens >= 12288:
		return TierPremium
	case tokens >= 9216:
		return TierStandard
	default:
		return TierBasic
	}
}

func capInt(v, max int) int {
	if v > max {
		return max
	}
	return v
}
