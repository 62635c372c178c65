package reply

import (
	"fmt"
	"strings"

	"mindguard/pkg"
)

const (
	sadReply = "I am sorry that you are feeling sad. " +
		"It is okay to feel this way sometimes. " +
		"Doing something small that you enjoy or talking to someone you trust " +
		"can help you feel a little lighter."

	angryReply = "Feeling angry can be very intense. " +
		"Taking a few deep breaths, counting slowly, or stepping away for a short break may help. " +
		"You deserve some calm time for yourself."

	friendReply = "Friendship problems can really hurt. " +
		"It is normal to feel upset when things are not going well with friends. " +
		"You might feel better by calmly sharing your feelings with them " +
		"or talking to a trusted adult."

	examReply = "Exams can feel stressful for many students. " +
		"Breaking your study time into small parts and taking short breaks " +
		"can make it feel more manageable."

	positiveReply = "That is wonderful to hear. " +
		"Enjoy this happy moment and keep doing the things that make you feel good and relaxed."

	echoNegativeReply = "You said: “%s”. " +
		"I am sorry that this is bothering you. " +
		"Writing your thoughts in a journal or talking to a trusted adult " +
		"may help you feel more supported."

	echoReply = "You said: “%s”. " +
		"Thank you for sharing how you feel."
)

// Fallback picks a fixed reply by keyword, in priority order. It is deterministic
// and never empty. Keywords match anywhere in the lowercased message.
func Fallback(text string, emotion pkg.Emotion) string {
	msg := strings.ToLower(text)

	switch {
	case strings.Contains(msg, "sad"):
		return sadReply
	case strings.Contains(msg, "angry"):
		return angryReply
	case strings.Contains(msg, "friend"):
		return friendReply
	case strings.Contains(msg, "exam"), strings.Contains(msg, "test"):
		return examReply
	case strings.Contains(msg, "happy"), strings.Contains(msg, "hapy"), emotion == pkg.EmotionPositive:
		return positiveReply
	case emotion.IsNegative():
		return fmt.Sprintf(echoNegativeReply, text)
	default:
		return fmt.Sprintf(echoReply, text)
	}
}
