package dispatch

import (
	"fmt"

	"github.com/staffpulse/backend/internal/domain"
)

// messageBody renders the outbound check-in prompt for one employee. Every
// template asks for a 1-5 reply so the webhook extractor can score the
// response without free-text parsing.
func messageBody(template domain.MessageTemplate, name string) string {
	greeting := "Hi"
	if name != "" {
		greeting = fmt.Sprintf("Hi %s", name)
	}

	switch template {
	case domain.TemplateWeekly:
		return fmt.Sprintf("%s! 🌟 How was your week? Reply with a number from 1 (rough week) to 5 (great week). Feel free to add a few words about what's on your mind.", greeting)
	case domain.TemplateBiweekly:
		return fmt.Sprintf("%s! 👋 Quick check-in: how have the last two weeks felt? Reply 1 (tough) to 5 (excellent), and add anything you'd like us to know.", greeting)
	default:
		return fmt.Sprintf("%s! How are you feeling today? Reply with a number from 1 (struggling) to 5 (thriving). You can also add a short note if you like.", greeting)
	}
}
