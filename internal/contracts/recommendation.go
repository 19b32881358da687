package contracts

// Action is the discrete recommendation label
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

// Factor is one named, capped sub-score
type Factor struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// Verdict is the action label with its display metadata
type Verdict struct {
	Action      Action `json:"action"`
	Color       string `json:"color"` // green, yellow, red
	Description string `json:"description"`
}

// Recommendation is the engine output for one symbol.
// Factors are ordered: Price Performance, Fundamentals, Technical Analysis, Volume Analysis.
// ⭐ SSOT: 추천 결과 타입은 여기서만
type Recommendation struct {
	Score   float64  `json:"score"` // 0 ~ 10, one decimal
	Verdict Verdict  `json:"recommendation"`
	Factors []Factor `json:"factors"`
}

// Action shortcut
func (r Recommendation) Action() Action {
	return r.Verdict.Action
}
