package normalizer

import (
	"strings"

	"github.com/upandey0/eval-sys/internal/models"
)

// Closed variants for each enum-valued analysis field. The zero value of
// every type means the field was absent; Unknown means it was present but
// carried a value outside the recognized set.

type Flag string

const (
	FlagAbsent  Flag = ""
	FlagYes     Flag = "yes"
	FlagNo      Flag = "no"
	FlagUnknown Flag = "unknown"
)

type IssueStatus string

const (
	IssueAbsent     IssueStatus = ""
	IssueResolved   IssueStatus = "resolved"
	IssueUnresolved IssueStatus = "unresolved"
	IssuePending    IssueStatus = "pending"
	IssueUnknown    IssueStatus = "unknown"
)

type Accuracy string

const (
	AccuracyAbsent  Accuracy = ""
	AccuracyCorrect Accuracy = "correct"
	AccuracyPartial Accuracy = "partially correct"
	AccuracyWrong   Accuracy = "wrong"
	AccuracyUnknown Accuracy = "unknown"
)

type Quality string

const (
	QualityAbsent    Quality = ""
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityUnknown   Quality = "unknown"
)

type Sentiment string

const (
	SentimentAbsent     Sentiment = ""
	SentimentPositive   Sentiment = "positive"
	SentimentNeutral    Sentiment = "neutral"
	SentimentNegative   Sentiment = "negative"
	SentimentFrustrated Sentiment = "frustrated"
	SentimentUnknown    Sentiment = "unknown"
)

type Tone string

const (
	ToneAbsent        Tone = ""
	ToneProfessional  Tone = "professional"
	ToneFriendly      Tone = "friendly"
	ToneNeutral       Tone = "neutral"
	ToneInappropriate Tone = "inappropriate"
	ToneUnknown       Tone = "unknown"
)

type Latency string

const (
	LatencyAbsent  Latency = ""
	LatencyGood    Latency = "good"
	LatencyAverage Latency = "average"
	LatencyBad     Latency = "bad"
	LatencyUnknown Latency = "unknown"
)

// Facets is the typed view of one analysis record the scorer works from.
// Level fields are 0 when absent or non-numeric.
type Facets struct {
	IssueStatus        IssueStatus
	Escalated          Flag
	EscalationRequired Flag
	ChatCompleted      Flag
	Accuracy           Accuracy
	RespClear          Flag
	RespConcise        Flag
	RespUnderstandable Flag
	RespRelevant       Flag
	RespOverall        Quality
	Sentiment          Sentiment
	Tone               Tone
	Latency            Latency
	ExperienceLevel    int
	EffortLevel        int

	unrecognized []string
}

// Unrecognized lists "path=value" pairs that decoded to an Unknown variant,
// for logging. Empty when every present field matched its closed set.
func (f Facets) Unrecognized() []string {
	return f.unrecognized
}

const unknown = "unknown"

var (
	flagSet      = variantSet(string(FlagYes), string(FlagNo))
	issueSet     = variantSet(string(IssueResolved), string(IssueUnresolved), string(IssuePending))
	accuracySet  = variantSet(string(AccuracyCorrect), string(AccuracyPartial), string(AccuracyWrong))
	qualitySet   = variantSet(string(QualityExcellent), string(QualityGood), string(QualityFair), string(QualityPoor))
	sentimentSet = variantSet(string(SentimentPositive), string(SentimentNeutral), string(SentimentNegative), string(SentimentFrustrated))
	toneSet      = variantSet(string(ToneProfessional), string(ToneFriendly), string(ToneNeutral), string(ToneInappropriate))
	latencySet   = variantSet(string(LatencyGood), string(LatencyAverage), string(LatencyBad))
)

// Decode maps one analysis record into Facets. Matching is case-insensitive,
// so it is safe on raw records too, though the pipeline always normalizes
// first.
func Decode(rec models.Record) Facets {
	d := decoder{rec: rec}
	f := Facets{
		IssueStatus:        IssueStatus(d.enum(issueSet, models.GroupIssueStatus, models.FieldStatus)),
		Escalated:          Flag(d.enum(flagSet, models.GroupEscalation, models.FieldEscalated)),
		EscalationRequired: Flag(d.enum(flagSet, models.GroupNecessity, models.FieldNecessary)),
		ChatCompleted:      Flag(d.enum(flagSet, models.FieldChatCompleted)),
		Accuracy:           Accuracy(d.enum(accuracySet, models.FieldAccuracy)),
		RespClear:          Flag(d.enum(flagSet, models.GroupRespQuality, models.FieldClear)),
		RespConcise:        Flag(d.enum(flagSet, models.GroupRespQuality, models.FieldConcise)),
		RespUnderstandable: Flag(d.enum(flagSet, models.GroupRespQuality, models.FieldUnderstandable)),
		RespRelevant:       Flag(d.enum(flagSet, models.GroupRespQuality, models.FieldRelevant)),
		RespOverall:        Quality(d.enum(qualitySet, models.GroupRespQuality, models.FieldOverallQuality)),
		Sentiment:          Sentiment(d.enum(sentimentSet, models.GroupSentiment, models.FieldSentiment)),
		Tone:               Tone(d.enum(toneSet, models.GroupTone, models.FieldTone)),
		Latency:            Latency(d.enum(latencySet, models.FieldLatency)),
		ExperienceLevel:    d.level(models.FieldExperience),
		EffortLevel:        d.level(models.FieldEffort),
	}
	f.unrecognized = d.unrecognized
	return f
}

type decoder struct {
	rec          models.Record
	unrecognized []string
}

func (d *decoder) enum(allowed map[string]struct{}, path ...string) string {
	s, ok := d.rec.String(path...)
	if !ok {
		return ""
	}
	s = strings.ToLower(s)
	if _, known := allowed[s]; known {
		return s
	}
	d.unrecognized = append(d.unrecognized, strings.Join(path, ".")+"="+s)
	return unknown
}

func (d *decoder) level(field string) int {
	n, ok := d.rec.Number(field)
	if !ok {
		return 0
	}
	return int(n)
}

func variantSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
