package service

import (
	"js_learning_backend/internal/model"
	"js_learning_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// RawAnswer 学生针对单个题目的原始提交值。选择题用 OptionIDs，
// 填空题用 Text。
type RawAnswer struct {
	OptionIDs []uint `json:"optionIds"`
	Text      string `json:"text"`
}

// NormalizedAnswer 规范化后的单题作答
type NormalizedAnswer struct {
	QuestionID uint
	Selected   map[uint]bool
	Text       string
}

// 规范化阶段的逐题校验消息
const (
	MsgFieldRequired          = "This field is required."
	MsgInvalidAnswerSelected  = "Invalid answer selected."
	MsgInvalidAnswersSelected = "Invalid answers selected."
)

// NormalizeSubmission 把按题目ID键控的原始提交转成规范化作答。
// 校验错误按题目ID逐题收集，一次性全部返回，不抛异常。
func NormalizeSubmission(questions []model.Question, raw map[uint]RawAnswer) (map[uint]NormalizedAnswer, map[uint]string) {
	normalized := make(map[uint]NormalizedAnswer, len(questions))
	fieldErrors := make(map[uint]string)

	for _, q := range questions {
		optionSet := make(map[uint]bool, len(q.Options))
		for _, opt := range q.Options {
			optionSet[opt.ID] = true
		}

		ans, present := raw[q.ID]

		switch q.Type {
		case model.SingleChoice:
			if !present || len(ans.OptionIDs) == 0 {
				fieldErrors[q.ID] = MsgFieldRequired
				continue
			}
			if len(ans.OptionIDs) != 1 || !optionSet[ans.OptionIDs[0]] {
				fieldErrors[q.ID] = MsgInvalidAnswerSelected
				continue
			}
			normalized[q.ID] = NormalizedAnswer{
				QuestionID: q.ID,
				Selected:   map[uint]bool{ans.OptionIDs[0]: true},
			}

		case model.MultipleChoice:
			if !present || len(ans.OptionIDs) == 0 {
				fieldErrors[q.ID] = MsgFieldRequired
				continue
			}
			// 每个ID都必须属于该题，且去重后的数量与提交数量一致，
			// 防止重复或悬空的选项ID混入
			selected := make(map[uint]bool, len(ans.OptionIDs))
			valid := true
			for _, id := range ans.OptionIDs {
				if !optionSet[id] || selected[id] {
					valid = false
					break
				}
				selected[id] = true
			}
			if !valid {
				fieldErrors[q.ID] = MsgInvalidAnswersSelected
				continue
			}
			normalized[q.ID] = NormalizedAnswer{QuestionID: q.ID, Selected: selected}

		case model.FreeText:
			// 缺失的文本按空字符串处理，字面保留提交内容
			normalized[q.ID] = NormalizedAnswer{QuestionID: q.ID, Text: ans.Text}
		}
	}

	return normalized, fieldErrors
}

// ScoreTest 计算百分比得分。逐题按类型穷举判分，答对累加该题分值，
// 返回 score/total*100，引擎本身不做四舍五入。
func ScoreTest(questions []model.Question, responses map[uint]NormalizedAnswer) float64 {
	totalPoints := 0
	for _, q := range questions {
		totalPoints += q.Points
	}
	if totalPoints == 0 {
		return 0
	}

	score := 0
	for _, q := range questions {
		resp, ok := responses[q.ID]
		if !ok {
			continue
		}
		if questionCorrect(q, resp) {
			score += q.Points
		}
	}

	return float64(score) / float64(totalPoints) * 100
}

func questionCorrect(q model.Question, resp NormalizedAnswer) bool {
	switch q.Type {
	case model.FreeText:
		correct := firstCorrectOption(q)
		if correct == nil {
			// 没有标准答案的填空题无条件判错
			return false
		}
		return strings.EqualFold(
			strings.TrimSpace(resp.Text),
			strings.TrimSpace(correct.Text),
		)

	case model.SingleChoice, model.MultipleChoice:
		// 严格集合相等，不给部分分
		correctSet := correctOptionSet(q)
		if len(correctSet) == 0 || len(resp.Selected) != len(correctSet) {
			return false
		}
		for id := range correctSet {
			if !resp.Selected[id] {
				return false
			}
		}
		return true

	default:
		// 到这里说明数据越过了建题校验，按内部契约破坏记录并判零分
		logger.Log.Error("unknown question type during scoring",
			zap.Uint("questionId", q.ID),
			zap.String("type", string(q.Type)))
		return false
	}
}

func firstCorrectOption(q model.Question) *model.AnswerOption {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

func correctOptionSet(q model.Question) map[uint]bool {
	set := make(map[uint]bool)
	for _, opt := range q.Options {
		if opt.IsCorrect {
			set[opt.ID] = true
		}
	}
	return set
}

// AttemptPolicy 尝试次数上限。上限来自显式配置，构造时注入。
type AttemptPolicy struct {
	MaxAttempts int
}

// Next 下一个尝试号 = 既有成绩行数 + 1，单调递增，不复用
func (p AttemptPolicy) Next(existing int64) int {
	return int(existing) + 1
}

// Allowed 尝试号超过上限即拒绝
func (p AttemptPolicy) Allowed(attempt int) bool {
	return attempt <= p.MaxAttempts
}

// ReachedThreshold 进度门：得分达到通过线才算通过
func ReachedThreshold(score float64, passingScore int) bool {
	return score >= float64(passingScore)
}
