package models

// JSON keys of the analysis record produced by the analysis service.
// Nested groups hold their enum value under a single inner key.
const (
	FieldAccuracy      = "accuracy_level"
	FieldChatCompleted = "is_chat_completed"
	FieldLatency       = "overall_latency_classification"
	FieldExperience    = "user_experience_level"
	FieldEffort        = "user_effort_level"

	GroupEscalation = "human_escalation"
	FieldEscalated  = "is_escalated"

	GroupIssueStatus = "issue_status"
	FieldStatus      = "status"

	GroupNecessity = "escalation_necessity"
	FieldNecessary = "is_necessary"

	GroupTone = "bot_tone"
	FieldTone = "tone"

	GroupSentiment = "user_sentiment"
	FieldSentiment = "sentiment"

	GroupConvQuality  = "conversation_quality"
	FieldRating       = "rating"
	FieldRemoteAssist = "remote_assistance_required"

	GroupRespQuality    = "response_quality"
	FieldClear          = "is_clear"
	FieldConcise        = "is_concise"
	FieldUnderstandable = "is_understandable"
	FieldRelevant       = "is_relevant"
	FieldOverallQuality = "overall_quality"
)

// Session identifier aliases, in lookup order.
var SessionIDFields = []string{"_id", "id", "session_id"}

// Session timestamp aliases accepted by the store query.
var SessionTimeFields = []string{"created_at", "createdAt", "timestamp", "date"}
