package scorer

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/upandey0/eval-sys/internal/models"
	"github.com/upandey0/eval-sys/internal/normalizer"
)

// Breakdown keys. The two penalty entries are present in every breakdown so
// a report always shows whether a deduction applied.
const (
	FactorIssueResolution     = "issue_resolution"
	FactorEscalationAvoidance = "escalation_avoidance"
	FactorUserExperience      = "user_experience"
	FactorChatCompletion      = "chat_completion"
	FactorResponseQuality     = "response_quality"
	FactorAccuracy            = "accuracy"
	FactorResponseComponents  = "response_components"
	FactorUserSentiment       = "user_sentiment"
	FactorUserEffort          = "user_effort"
	FactorBotTone             = "bot_tone"

	PenaltyEscalation = "unnecessary_escalation_penalty"
	PenaltyLatency    = "latency_penalty"
)

// Weights holds each factor's share of the 100 available points.
type Weights struct {
	IssueResolution     float64
	EscalationAvoidance float64
	UserExperience      float64
	ChatCompletion      float64
	ResponseQuality     float64
	Accuracy            float64
	ResponseComponents  float64
	UserSentiment       float64
	UserEffort          float64
	BotTone             float64
}

func DefaultWeights() Weights {
	return Weights{
		IssueResolution:     25,
		EscalationAvoidance: 20,
		UserExperience:      15,
		ChatCompletion:      10,
		ResponseQuality:     8,
		Accuracy:            7,
		ResponseComponents:  5,
		UserSentiment:       5,
		UserEffort:          3,
		BotTone:             2,
	}
}

// Sum of all factor shares. Config validation requires this to be 100.
func (w Weights) Sum() float64 {
	return w.IssueResolution + w.EscalationAvoidance + w.UserExperience +
		w.ChatCompletion + w.ResponseQuality + w.Accuracy +
		w.ResponseComponents + w.UserSentiment + w.UserEffort + w.BotTone
}

// Penalties are flat point deductions applied after the weighted sum.
type Penalties struct {
	UnnecessaryEscalation float64
	AverageLatency        float64
	BadLatency            float64
}

func DefaultPenalties() Penalties {
	return Penalties{
		UnnecessaryEscalation: 10,
		AverageLatency:        2,
		BadLatency:            5,
	}
}

// A factor maps one slice of the analysis onto a 0-100 raw score, which its
// weight then scales into points.
type factor struct {
	name   string
	weight float64
	eval   func(f normalizer.Facets) float64
}

type Scorer struct {
	factors   []factor
	penalties Penalties
	logger    *zerolog.Logger
}

func NewScorer(weights Weights, penalties Penalties, logger *zerolog.Logger) *Scorer {
	return &Scorer{
		factors: []factor{
			{FactorIssueResolution, weights.IssueResolution, evalIssueResolution},
			{FactorEscalationAvoidance, weights.EscalationAvoidance, evalEscalationAvoidance},
			{FactorUserExperience, weights.UserExperience, evalUserExperience},
			{FactorChatCompletion, weights.ChatCompletion, evalChatCompletion},
			{FactorResponseQuality, weights.ResponseQuality, evalResponseQuality},
			{FactorAccuracy, weights.Accuracy, evalAccuracy},
			{FactorResponseComponents, weights.ResponseComponents, evalResponseComponents},
			{FactorUserSentiment, weights.UserSentiment, evalUserSentiment},
			{FactorUserEffort, weights.UserEffort, evalUserEffort},
			{FactorBotTone, weights.BotTone, evalBotTone},
		},
		penalties: penalties,
		logger:    logger,
	}
}

// Score turns one normalized analysis record into a ScoreBreakdown. Absent
// or malformed fields contribute zero to their factor; Score never fails.
func (s *Scorer) Score(rec models.Record) models.ScoreBreakdown {
	facets := normalizer.Decode(rec)
	if bad := facets.Unrecognized(); len(bad) > 0 {
		s.logger.Debug().Strs("fields", bad).Msg("analysis values outside the recognized sets")
	}

	breakdown := models.ScoreBreakdown{
		Factors: make(map[string]float64, len(s.factors)+2),
	}

	sum := 0.0
	for _, fc := range s.factors {
		points := round2(fc.eval(facets) * fc.weight / 100)
		breakdown.Factors[fc.name] = points
		sum += points
	}

	escalation := s.escalationPenalty(facets)
	latency := s.latencyPenalty(facets)
	breakdown.Factors[PenaltyEscalation] = escalation
	breakdown.Factors[PenaltyLatency] = latency
	sum += escalation + latency

	breakdown.TotalScore = math.Max(0, round2(sum))
	return breakdown
}

// An escalation that the analysis judged unnecessary costs flat points.
func (s *Scorer) escalationPenalty(f normalizer.Facets) float64 {
	if f.EscalationRequired == normalizer.FlagNo && f.Escalated == normalizer.FlagYes {
		return -s.penalties.UnnecessaryEscalation
	}
	return 0
}

func (s *Scorer) latencyPenalty(f normalizer.Facets) float64 {
	switch f.Latency {
	case normalizer.LatencyAverage:
		return -s.penalties.AverageLatency
	case normalizer.LatencyBad:
		return -s.penalties.BadLatency
	}
	return 0
}

func evalIssueResolution(f normalizer.Facets) float64 {
	if f.IssueStatus == normalizer.IssueResolved {
		return 100
	}
	return 0
}

func evalEscalationAvoidance(f normalizer.Facets) float64 {
	if f.Escalated == normalizer.FlagNo {
		return 100
	}
	return 0
}

func evalUserExperience(f normalizer.Facets) float64 {
	if f.ExperienceLevel >= 1 && f.ExperienceLevel <= 5 {
		return float64(f.ExperienceLevel) * 20
	}
	return 0
}

func evalChatCompletion(f normalizer.Facets) float64 {
	if f.ChatCompleted == normalizer.FlagYes {
		return 100
	}
	return 0
}

func evalResponseQuality(f normalizer.Facets) float64 {
	switch f.RespOverall {
	case normalizer.QualityExcellent:
		return 100
	case normalizer.QualityGood:
		return 75
	case normalizer.QualityFair:
		return 50
	case normalizer.QualityPoor:
		return 25
	}
	return 0
}

func evalAccuracy(f normalizer.Facets) float64 {
	switch f.Accuracy {
	case normalizer.AccuracyCorrect:
		return 100
	case normalizer.AccuracyPartial:
		return 50
	}
	return 0
}

// Average of the four response flags, each worth 100 when "yes".
func evalResponseComponents(f normalizer.Facets) float64 {
	total := 0.0
	for _, flag := range []normalizer.Flag{f.RespClear, f.RespConcise, f.RespUnderstandable, f.RespRelevant} {
		if flag == normalizer.FlagYes {
			total += 100
		}
	}
	return total / 4
}

func evalUserSentiment(f normalizer.Facets) float64 {
	switch f.Sentiment {
	case normalizer.SentimentPositive:
		return 100
	case normalizer.SentimentNeutral:
		return 70
	case normalizer.SentimentNegative:
		return 30
	case normalizer.SentimentFrustrated:
		return 0
	case normalizer.SentimentUnknown:
		return 70
	}
	return 0
}

// Effort is inverted: the less work the user had to do, the better.
func evalUserEffort(f normalizer.Facets) float64 {
	if f.EffortLevel >= 1 && f.EffortLevel <= 5 {
		return float64(6-f.EffortLevel) * 20
	}
	return 0
}

func evalBotTone(f normalizer.Facets) float64 {
	switch f.Tone {
	case normalizer.ToneProfessional:
		return 100
	case normalizer.ToneFriendly:
		return 95
	case normalizer.ToneNeutral:
		return 70
	case normalizer.ToneInappropriate:
		return 0
	case normalizer.ToneUnknown:
		return 70
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
