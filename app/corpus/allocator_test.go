package corpus

import "testing"

func TestAllocate_MinimalRecordGetsFloor(t *testing.T) {
	rec := &Record{Votes: 0, QuestionText: "", Tags: nil, Answers: nil}

	got := Allocate(rec)
	if got.Tokens != TokenFloor {
		t.Errorf("Expected exactly %d tokens for minimal record, got %d", TokenFloor, got.Tokens)
	}
	if got.Tier != TierBasic {
		t.Errorf("Expected basic tier, got %s", got.Tier)
	}
}

func TestAllocate_EnforcedCap(t *testing.T) {
	// Extreme values on every factor must still clamp to the enforced cap.
	answers := make([]Answer, 20)
	for i := range answers {
		snippets := make([]string, 50)
		answers[i] = Answer{Votes: 1000, IsAccepted: i == 0, CodeSnippets: snippets}
	}
	rec := &Record{
		Votes:        10000,
		QuestionText: string(make([]byte, 10000)),
		Tags:         []string{"python", "javascript"},
		CodeSnippets: make([]string, 100),
		Answers:      answers,
	}

	got := Allocate(rec)
	if got.Tokens != TokenCap {
		t.Errorf("Expected cap of %d tokens, got %d", TokenCap, got.Tokens)
	}
	if got.Tier != TierElite {
		t.Errorf("Expected elite tier at cap, got %s", got.Tier)
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	rec := &Record{
		Votes:        50,
		QuestionText: "How do I remove duplicates from a slice?",
		Tags:         []string{"go"},
		CodeSnippets: []string{"s := []int{1, 1, 2}"},
		Answers: []Answer{
			{Text: "use a map", Votes: 25, IsAccepted: true},
			{Text: "sort first", Votes: 8},
		},
	}

	first := Allocate(rec)
	for i := 0; i < 5; i++ {
		if again := Allocate(rec); again != first {
			t.Fatalf("Non-deterministic allocation: %+v vs %+v", first, again)
		}
	}
}

func TestAllocate_AnswerVotesIncreaseTokens(t *testing.T) {
	base := &Record{
		Votes:        50,
		QuestionText: "Test question",
		Answers:      []Answer{{Votes: 5, IsAccepted: true}},
	}
	high := &Record{
		Votes:        50,
		QuestionText: "Test question",
		Answers:      []Answer{{Votes: 100, IsAccepted: true}},
	}

	lowTokens := Allocate(base).Tokens
	highTokens := Allocate(high).Tokens
	if highTokens <= lowTokens {
		t.Fatalf("High-vote answers should earn more tokens: %d vs %d", highTokens, lowTokens)
	}
	if diff := highTokens - lowTokens; diff < 1000 {
		t.Errorf("Answer quality difference should be substantial, got %d", diff)
	}
}

func TestAllocate_Monotonicity(t *testing.T) {
	base := Record{
		Votes:        10,
		QuestionText: "How to parse JSON safely in production code?",
		Tags:         []string{"go"},
		Answers: []Answer{
			{Votes: 5, IsAccepted: true, CodeSnippets: []string{"x"}},
			{Votes: 2},
		},
	}
	baseTokens := Allocate(&base).Tokens

	moreQuestionVotes := base
	moreQuestionVotes.Votes = 40
	if Allocate(&moreQuestionVotes).Tokens < baseTokens {
		t.Error("Raising question votes must not decrease tokens")
	}

	longerQuestion := base
	longerQuestion.QuestionText = base.QuestionText + string(make([]byte, 800))
	if Allocate(&longerQuestion).Tokens < baseTokens {
		t.Error("Longer question text must not decrease tokens")
	}

	moreSnippets := base
	moreSnippets.CodeSnippets = []string{"a", "b", "c"}
	if Allocate(&moreSnippets).Tokens < baseTokens {
		t.Error("More code snippets must not decrease tokens")
	}

	moreAnswerVotes := base
	moreAnswerVotes.Answers = []Answer{
		{Votes: 50, IsAccepted: true, CodeSnippets: []string{"x"}},
		{Votes: 2},
	}
	if Allocate(&moreAnswerVotes).Tokens < baseTokens {
		t.Error("Higher answer votes must not decrease tokens")
	}
}

func TestAllocate_TechnologyBonus(t *testing.T) {
	plain := &Record{QuestionText: "q", Tags: []string{"obscure-language"}}
	popular := &Record{QuestionText: "q", Tags: []string{"obscure-language", "Python"}}

	if Allocate(plain).Factors.TechnologyRelevance != 0 {
		t.Error("Unknown tags should earn no technology bonus")
	}
	if got := Allocate(popular).Factors.TechnologyRelevance; got != techBonus {
		t.Errorf("Popular tag should earn %d, got %d", techBonus, got)
	}
}

func TestAllocate_FactorCaps(t *testing.T) {
	rec := &Record{
		Votes: 500, // 500*16 = 8000, capped at 2048
		Answers: []Answer{
			{Votes: 400, IsAccepted: true},
			{Votes: 400, IsAccepted: true},
			{Votes: 400, IsAccepted: true},
		},
	}

	got := Allocate(rec)
	if got.Factors.QuestionValue != questionVoteCap {
		t.Errorf("Question value should cap at %d, got %d", questionVoteCap, got.Factors.QuestionValue)
	}
	// Three answers at 400 votes each: per-answer cap 2048 applies, total
	// vote cap 4096, accepted cap 1024, two extra answers at 1024 each.
	wantAnswer := answerVoteTotalCap + acceptedCap + 2*extraAnswerStep
	if got.Factors.AnswerQuality != wantAnswer {
		t.Errorf("Answer quality should be %d, got %d", wantAnswer, got.Factors.AnswerQuality)
	}
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		tokens int
		tier   string
	}{
		{TokenFloor, TierBasic},
		{9216, TierStandard},
		{12288, TierPremium},
		{TokenCap, TierElite},
		{12287, TierStandard},
	}
	for _, c := range cases {
		if got := tierFor(c.tokens); got != c.tier {
			t.Errorf("tierFor(%d) = %s, expected %s", c.tokens, got, c.tier)
		}
	}
}
