package support

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCrisisOverridesEverything(t *testing.T) {
	messages := []string{
		"I feel anxious and sad and I want to END IT ALL",
		"sometimes I think everyone would be better off dead without me, I'm so stressed",
		"Suicide",
		"I might harm myself tonight, I'm happy nobody knows",
	}
	for _, msg := range messages {
		reply := Select(msg, 0)
		assert.Equal(t, Crisis, reply.Category, msg)
		assert.True(t, reply.Crisis, msg)
		assert.Contains(t, reply.Text, "988")
	}
}

func TestSelectPrecedenceOrder(t *testing.T) {
	cases := []struct {
		msg  string
		want Category
	}{
		{"I'm worried and depressed", Anxiety},
		{"feeling hopeless and overwhelmed", Depression},
		{"burnout is keeping me from sleep", Stress},
		{"so tired but grateful", Sleep},
		{"Today was GOOD", Positive},
	}
	for _, tc := range cases {
		t.Run(tc.msg, func(t *testing.T) {
			reply := Select(tc.msg, 0)
			assert.Equal(t, tc.want, reply.Category)
			assert.False(t, reply.Crisis)
		})
	}
}

func TestSelectEmptyMessageFallsBackToFirstReply(t *testing.T) {
	for _, strategy := range []FallbackStrategy{RoundRobin, ByLength} {
		reply := NewSelector(strategy).Select("", 0)
		require.True(t, reply.IsFallback())
		assert.Equal(t, 0, reply.FallbackIndex)
		assert.Equal(t, FallbackReplies()[0], reply.Text)
	}
}

func TestRoundRobinCyclesByTurn(t *testing.T) {
	selector := NewSelector(RoundRobin)
	replies := FallbackReplies()
	for turn := 0; turn < 2*len(replies); turn++ {
		reply := selector.Select("hello there", turn)
		assert.Equal(t, turn%len(replies), reply.FallbackIndex)
		assert.Equal(t, replies[turn%len(replies)], reply.Text)
	}
}

func TestByLengthUsesMessageLength(t *testing.T) {
	selector := NewSelector(ByLength)
	msg := "hello there" // 11 characters
	reply := selector.Select(msg, 3)
	assert.Equal(t, 1, reply.FallbackIndex)

	// characters, not bytes: "héllo" is 5 runes but 6 bytes
	assert.Equal(t, 0, selector.Select("héllo", 0).FallbackIndex)
	assert.Equal(t, 4, selector.Select("hi 🙂", 0).FallbackIndex)
}

func TestSelectIsDeterministic(t *testing.T) {
	msg := "I just wanted to say hi"
	assert.Equal(t, Select(msg, 2), Select(msg, 2))
}

func TestParseFallbackStrategy(t *testing.T) {
	s, err := ParseFallbackStrategy("")
	require.NoError(t, err)
	assert.Equal(t, RoundRobin, s)

	s, err = ParseFallbackStrategy(" Length ")
	require.NoError(t, err)
	assert.Equal(t, ByLength, s)

	_, err = ParseFallbackStrategy("random")
	assert.Error(t, err)
}

func TestQuickHelpMentionsTextLine(t *testing.T) {
	assert.True(t, strings.Contains(QuickHelp(), "741741"))
	assert.NotEmpty(t, Greeting())
}
