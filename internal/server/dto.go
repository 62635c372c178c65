package server

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string  `json:"session_id"`
	Reply     string  `json:"reply"`
	Emotion   string  `json:"emotion"`
	Polarity  float64 `json:"polarity"`
	Mood      string  `json:"mood"`
	Distress  bool    `json:"distress"`
}

type DayMoodResponse struct {
	Date     string `json:"date"`
	Positive int    `json:"positive"`
	Neutral  int    `json:"neutral"`
	Negative int    `json:"negative"`
}

type MoodTotalsResponse struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type MoodsResponse struct {
	Days   []DayMoodResponse  `json:"days"`
	Latest *DayMoodResponse   `json:"latest"`
	Totals MoodTotalsResponse `json:"totals"`
}
