package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mindguard/internal/core"
	"mindguard/internal/storage"
	"mindguard/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ChatPipeline is the part of the message pipeline the HTTP boundary needs
type ChatPipeline interface {
	HandleMessage(ctx context.Context, conv *pkg.Conversation, text string) (*core.ProcessorOutput, error)
	LoadMoods(ctx context.Context) (pkg.MoodLog, error)
}

type ChatHandler struct {
	pipeline ChatPipeline
	sessions *storage.SessionManager
	log      zerolog.Logger
}

func NewChatHandler(pipeline ChatPipeline, sessions *storage.SessionManager, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{pipeline: pipeline, sessions: sessions, log: log}
}

func (h *ChatHandler) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	session := h.sessions.GetOrCreate(req.SessionID)
	session.Lock()
	out, err := h.pipeline.HandleMessage(c.Request.Context(), &session.Conversation, message)
	session.Unlock()
	h.sessions.Touch(session)

	if err != nil {
		h.log.Error().Err(err).Str("session_id", session.ID).Msg("error handling message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not process message"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		SessionID: session.ID,
		Reply:     out.Reply,
		Emotion:   string(out.Emotion),
		Polarity:  out.Polarity,
		Mood:      string(out.Bucket),
		Distress:  out.Distress,
	})
}

func (h *ChatHandler) GetMoods(c *gin.Context) {
	moods, err := h.pipeline.LoadMoods(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("error loading moods")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Mood store unavailable"})
		return
	}

	res := MoodsResponse{Days: make([]DayMoodResponse, 0, len(moods))}
	for _, date := range moods.Dates() {
		res.Days = append(res.Days, toDayResponse(date, moods[date]))
	}
	if date, rec, ok := moods.Latest(); ok {
		latest := toDayResponse(date, rec)
		res.Latest = &latest
	}
	totals := moods.Totals()
	res.Totals = MoodTotalsResponse{
		Positive: totals.Positive,
		Neutral:  totals.Neutral,
		Negative: totals.Negative,
	}

	c.JSON(http.StatusOK, res)
}

func (h *ChatHandler) GetSession(c *gin.Context) {
	stats, err := h.sessions.Stats(c.Param("id"))
	if errors.Is(err, storage.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load session"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ChatHandler) DeleteSession(c *gin.Context) {
	err := h.sessions.Delete(c.Param("id"))
	if errors.Is(err, storage.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not end session"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func toDayResponse(date string, r pkg.DailyMoodRecord) DayMoodResponse {
	return DayMoodResponse{
		Date:     date,
		Positive: r.Positive,
		Neutral:  r.Neutral,
		Negative: r.Negative,
	}
}
