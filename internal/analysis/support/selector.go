package support

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Category names the rule that produced a reply.
type Category string

const (
	Crisis     Category = "crisis"
	Anxiety    Category = "anxiety"
	Depression Category = "depression"
	Stress     Category = "stress"
	Sleep      Category = "sleep"
	Positive   Category = "positive"
	Fallback   Category = "fallback"
)

// FallbackStrategy decides which generic reply is used when no rule matches.
type FallbackStrategy string

const (
	// RoundRobin cycles through the generic replies per chat session.
	RoundRobin FallbackStrategy = "round-robin"
	// ByLength keys the reply on the number of characters (runes) in the message.
	ByLength FallbackStrategy = "length"
)

// ParseFallbackStrategy maps a configuration value onto a strategy.
func ParseFallbackStrategy(raw string) (FallbackStrategy, error) {
	switch FallbackStrategy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", RoundRobin:
		return RoundRobin, nil
	case ByLength:
		return ByLength, nil
	default:
		return "", fmt.Errorf("unknown fallback strategy %q", raw)
	}
}

// Rule pairs a keyword set with the canned reply it triggers.
type Rule struct {
	Category Category
	Keywords []string
	Reply    string
}

// Matches reports whether any keyword occurs in the already lowercased text.
func (r Rule) Matches(normalized string) bool {
	for _, word := range r.Keywords {
		if word != "" && strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}

// Reply is the outcome of a selection.
type Reply struct {
	Category      Category `json:"category"`
	Text          string   `json:"text"`
	Crisis        bool     `json:"crisis"`
	FallbackIndex int      `json:"fallbackIndex"`
}

// IsFallback reports whether no rule matched.
func (r Reply) IsFallback() bool {
	return r.Category == Fallback
}

// Selector evaluates rules in order; the first match wins.
type Selector struct {
	rules     []Rule
	fallbacks []string
	strategy  FallbackStrategy
}

// NewSelector builds a selector over the default rule chain.
func NewSelector(strategy FallbackStrategy) *Selector {
	if strategy == "" {
		strategy = RoundRobin
	}
	return &Selector{
		rules:     DefaultRules(),
		fallbacks: append([]string(nil), fallbackReplies...),
		strategy:  strategy,
	}
}

// Strategy returns the configured fallback strategy.
func (s *Selector) Strategy() FallbackStrategy {
	return s.strategy
}

// Select picks the reply for message. turn is the number of fallback replies the
// session has already received and only matters for the RoundRobin strategy.
func (s *Selector) Select(message string, turn int) Reply {
	normalized := strings.ToLower(message)

	for _, rule := range s.rules {
		if rule.Matches(normalized) {
			return Reply{
				Category: rule.Category,
				Text:     rule.Reply,
				Crisis:   rule.Category == Crisis,
			}
		}
	}

	idx := s.fallbackIndex(message, turn)
	return Reply{
		Category:      Fallback,
		Text:          s.fallbacks[idx],
		FallbackIndex: idx,
	}
}

func (s *Selector) fallbackIndex(message string, turn int) int {
	n := len(s.fallbacks)
	switch s.strategy {
	case ByLength:
		return utf8.RuneCountInString(message) % n
	default:
		if turn < 0 {
			turn = 0
		}
		return turn % n
	}
}

// Select runs the default round-robin selector.
func Select(message string, turn int) Reply {
	return defaultSelector.Select(message, turn)
}

var defaultSelector = NewSelector(RoundRobin)

// DefaultRules returns the rule chain in precedence order. Crisis must stay first.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: Crisis,
			Keywords: []string{"suicide", "kill myself", "end it all", "not worth living", "better off dead", "harm myself"},
			Reply:    crisisReply,
		},
		{
			Category: Anxiety,
			Keywords: []string{"anxious", "anxiety", "worried", "panic", "nervous"},
			Reply:    "I hear that you're feeling anxious right now. Anxiety can be really overwhelming. Try this grounding technique: Name 5 things you can see, 4 things you can touch, 3 things you can hear, 2 things you can smell, and 1 thing you can taste. This can help bring you back to the present moment. Would you like to talk more about what's causing your anxiety?",
		},
		{
			Category: Depression,
			Keywords: []string{"depressed", "sad", "hopeless", "empty", "worthless"},
			Reply:    "I'm sorry you're feeling this way. Depression can make everything feel heavy and hopeless. Remember that these feelings are temporary, even when they don't feel like it. Small steps like going for a walk, eating something nourishing, or calling a friend can help. Have you been able to do any self-care activities today?",
		},
		{
			Category: Stress,
			Keywords: []string{"stressed", "overwhelmed", "pressure", "burnout"},
			Reply:    "Stress can feel overwhelming when it builds up. It's important to recognize when you need a break. Try the 4-7-8 breathing technique: Inhale for 4 counts, hold for 7 counts, exhale for 8 counts. This can help activate your body's relaxation response. What seems to be causing the most stress right now?",
		},
		{
			Category: Sleep,
			Keywords: []string{"sleep", "insomnia", "tired", "exhausted"},
			Reply:    "Sleep issues can really affect our mental health. Establishing a consistent bedtime routine can help. Try dimming lights an hour before bed, avoiding screens, and doing something relaxing like reading. If sleep problems persist, talking to a healthcare provider about sleep hygiene or other treatments might be helpful.",
		},
		{
			Category: Positive,
			Keywords: []string{"good", "better", "happy", "grateful", "thankful"},
			Reply:    "I'm glad to hear you're feeling positive! It's important to notice and celebrate these moments. What helped you feel this way? Recognizing what works for you can help you incorporate more of it into your life.",
		},
	}
}

// FallbackReplies returns the generic replies in index order.
func FallbackReplies() []string {
	return append([]string(nil), fallbackReplies...)
}

// QuickHelp is the message posted when the user asks for crisis help directly.
func QuickHelp() string {
	return quickHelpReply
}

// Greeting opens every chat session.
func Greeting() string {
	return greeting
}

const crisisReply = "I'm really concerned about what you're saying. If you're having thoughts of harming yourself, please reach out immediately to the 988 Suicide & Crisis Lifeline (call or text 988) or go to your nearest emergency room. You are valuable and worthy of help. You're not alone in this."

const quickHelpReply = "I'm here to help. If you're in crisis, please call 988 (Suicide & Crisis Lifeline) or text HOME to 741741 (Crisis Text Line). You can also go to your nearest emergency room. You're not alone, and help is available 24/7."

const greeting = "👋 Hi! I'm MindCare's support assistant. I'm here to listen, provide coping strategies, and offer guidance. How are you feeling today?"

var fallbackReplies = []string{
	"Thank you for sharing that with me. It takes courage to open up about how you're feeling. How long have you been feeling this way?",
	"I appreciate you trusting me with your thoughts. Everyone's mental health journey is unique. What coping strategies have worked for you in the past?",
	"It's completely valid to feel the way you do. Mental health challenges affect millions of people. You're not alone in this. What would be most helpful for you right now?",
	"Your feelings matter, and it's important to acknowledge them. Would you like to explore some coping strategies together, or would you prefer to talk more about what's on your mind?",
	"I'm here to listen without judgment. Sometimes just having someone to talk to can make a difference. What's one thing that's been particularly challenging lately?",
}
