package reply

import (
	"strings"

	"mindguard/pkg"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// Both templates are rendered with FString, so literal braces must not appear
// outside the placeholders.
func getSystemTemplate() string {
	return `You are MindGuard AI, a friendly emotional support companion for teenagers.

Safety rules:
- Do NOT give medical, psychological, or mental health advice.
- Do NOT diagnose any condition.
- Do NOT recommend medicines, therapy, or treatment.
- Do NOT mention hotlines or specific organisations.
- Use simple, warm, age-appropriate language.
- Be supportive, non-judgmental, and respectful.
- Encourage only safe actions: deep breaths, a short break, drinking water,
  gentle movement, journaling, listening to calming music, or talking to a trusted adult.
- Never promise secrecy.
- Do NOT say that you are an AI or language model.

Style rules:
- Write like a kind, understanding senior who is gently supporting a younger student.
- Use 4–10 short sentences, up to about 180–220 words.
- You may use small friendly emojis like 🙂, 🌱, 💙, but use them sparingly.
- Vary your wording from message to message. Do not repeat the same sentences every time.
- You may ask ONE gentle follow-up question ONLY when the student seems upset,
  confused, or needs to open up more (usually when emotion is negative or very_negative).
- For positive or neutral emotions, a follow-up question is usually not needed.`
}

func getUserTemplate() string {
	return `Detected emotion: {emotion}
Student message: "{message}"

Recent conversation:
{history}

Please respond with:
- A kind, personalized message that clearly reacts to what the student said.
- One or two simple, healthy suggestions if helpful.
- At most ONE gentle follow-up question, and only if the student seems upset or might want to share more.
Try to keep the whole reply within 4–10 sentences.`
}

// createReplyTemplate builds the system + user chat template
func createReplyTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(getSystemTemplate()),
		schema.UserMessage(getUserTemplate()),
	)
}

// FormatHistory renders the last n turns as "speaker: text" lines, or "None." when empty
func FormatHistory(turns []pkg.ConversationTurn, n int) string {
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	if n <= 0 || len(turns) == 0 {
		return "None."
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, t.Role.Label()+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

func templateVariables(text string, emotion pkg.Emotion, history string) map[string]any {
	return map[string]any{
		"emotion": string(emotion),
		"message": text,
		"history": history,
	}
}
