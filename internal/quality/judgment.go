package quality

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Judgment is the outcome of reading a text-judgment response. It is either
// Parsed or Unparsed; callers switch on the concrete type.
type Judgment interface {
	judgment()
}

// Parsed is a response that matched the fixed schema.
type Parsed struct {
	Score   float64
	Passed  bool
	Details map[string]any
}

// Unparsed is a response that could not be read, or a call that failed.
// The check fails open with DefaultScore.
type Unparsed struct {
	DefaultScore float64
	Raw          string
	Reason       string
}

func (Parsed) judgment()   {}
func (Unparsed) judgment() {}

// ParseJudgment extracts {"passed": bool, "score": number, ...} from an LLM
// reply. Code fences and prose around the object are tolerated. When
// "passed" is absent it is derived from passScore.
func ParseJudgment(raw string, fallback, passScore float64) Judgment {
	object, ok := extractObject(raw)
	if !ok {
		return Unparsed{DefaultScore: fallback, Raw: raw, Reason: "no JSON object in response"}
	}

	score, ok := readScore(gjson.Get(object, "score"))
	if !ok {
		return Unparsed{DefaultScore: fallback, Raw: raw, Reason: "missing or non-numeric score"}
	}
	score = clamp01(score)

	passed := score >= passScore
	if p := gjson.Get(object, "passed"); p.IsBool() {
		passed = p.Bool()
	}

	details := make(map[string]any)
	gjson.Parse(object).ForEach(func(key, value gjson.Result) bool {
		if k := key.String(); k != "score" && k != "passed" {
			details[k] = value.Value()
		}
		return true
	})

	return Parsed{Score: score, Passed: passed, Details: details}
}

func extractObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	object := raw[start : end+1]
	if !gjson.Valid(object) {
		return "", false
	}
	return object, true
}

func readScore(r gjson.Result) (float64, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Float(), true
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
