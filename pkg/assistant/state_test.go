package assistant

import (
	"testing"

	"campusbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteSources(t *testing.T) {
	assert.Equal(t, "RAG", DocumentRetrieval.Source())
	assert.Equal(t, "SQL", StructuredQuery.Source())
	assert.Equal(t, "External Help", ContactLookup.Source())
	assert.Equal(t, "General", Conversation.Source())

	r, ok := RouteFromSource("External Help")
	assert.True(t, ok)
	assert.Equal(t, ContactLookup, r)

	for _, s := range []string{"Web", "rag", " External Help ", "external help", ""} {
		_, ok = RouteFromSource(s)
		assert.False(t, ok, s)
	}
}

func TestNewTurnStateRejectsEmptyQuery(t *testing.T) {
	_, err := NewTurnState("   ", nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestTurnStateSetOnce(t *testing.T) {
	history := []llm.Message{{Role: llm.RoleUser, Content: "hi"}}
	s, err := NewTurnState("When is the fee deadline?", history)
	require.NoError(t, err)

	history[0].Content = "mutated"
	assert.Equal(t, "hi", s.History()[0].Content)

	require.NoError(t, s.SetDetectedLanguage("en"))
	assert.ErrorIs(t, s.SetDetectedLanguage("hi"), ErrStateAlreadySet)

	assert.Error(t, s.SetRefinedQuery(" "))
	require.NoError(t, s.SetRefinedQuery("semester fee payment deadline"))
	assert.ErrorIs(t, s.SetRefinedQuery("again"), ErrStateAlreadySet)

	assert.Error(t, s.SetRoute(Route("Web")))
	require.NoError(t, s.SetRoute(DocumentRetrieval))
	assert.ErrorIs(t, s.SetRoute(Conversation), ErrStateAlreadySet)

	assert.ErrorIs(t, s.ReplaceAnswer("early"), ErrNoAnswer)
	require.NoError(t, s.SetAnswer("The deadline is March 31."))
	assert.ErrorIs(t, s.SetAnswer("second"), ErrStateAlreadySet)

	require.NoError(t, s.ReplaceAnswer("समय सीमा 31 मार्च है।"))
	assert.True(t, s.Translated())
	assert.ErrorIs(t, s.ReplaceAnswer("third"), ErrStateAlreadySet)
	assert.Equal(t, "समय सीमा 31 मार्च है।", s.Answer())
}

func TestStateMachineTransitions(t *testing.T) {
	assert.True(t, CanTransition(StageStart, StageLanguageDetected))
	assert.True(t, CanTransition(StageToolExecuted, StageDone))
	assert.True(t, CanTransition(StageToolExecuted, StageTranslated))
	assert.False(t, CanTransition(StageStart, StageRouted))
	assert.False(t, CanTransition(StageDone, StageStart))

	m := newMachine()
	require.NoError(t, m.advance(StageLanguageDetected))
	assert.Error(t, m.advance(StageToolExecuted))
	require.NoError(t, m.advance(StageRefined))
	require.NoError(t, m.advance(StageRouted))
	require.NoError(t, m.advance(StageToolExecuted))
	require.NoError(t, m.advance(StageDone))
	assert.Equal(t, []Stage{StageStart, StageLanguageDetected, StageRefined, StageRouted, StageToolExecuted, StageDone}, m.path())
}
