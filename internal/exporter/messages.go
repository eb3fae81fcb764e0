package exporter

import (
	"encoding/json"

	"expense-ledger-go/internal/models"
)

// FeedbackMessage is the wire form of one categorization feedback event
// delivered to the training/analysis consumer.
type FeedbackMessage struct {
	Id                  string   `json:"id"`
	Seq                 int64    `json:"seq"`
	UserId              string   `json:"user_id"`
	OriginalText        string   `json:"original_text"`
	AiPredictedCategory *string  `json:"ai_predicted_category"`
	AiConfidence        *float64 `json:"ai_confidence"`
	UserChosenCategory  string   `json:"user_chosen_category"`
	IsCorrection        bool     `json:"is_correction"`
	TimestampMs         int64    `json:"timestamp_ms"`
}

func NewFeedbackMessage(f models.CategoryFeedback) FeedbackMessage {
	return FeedbackMessage{
		Id:                  f.Id,
		Seq:                 f.Seq,
		UserId:              f.UserId,
		OriginalText:        f.OriginalText,
		AiPredictedCategory: f.AiPredictedCategory,
		AiConfidence:        f.AiConfidence,
		UserChosenCategory:  f.UserChosenCategory,
		IsCorrection:        f.IsCorrection,
		TimestampMs:         f.Timestamp,
	}
}

// ToJSON converts the message to JSON bytes
func (m FeedbackMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FeedbackMessageFromJSON decodes a message produced by ToJSON.
func FeedbackMessageFromJSON(data []byte) (FeedbackMessage, error) {
	var msg FeedbackMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return FeedbackMessage{}, err
	}
	return msg, nil
}
