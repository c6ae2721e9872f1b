package model_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	dialogue "kiosk/internal/domains/dialogue/model"
	"kiosk/internal/domains/session/model"
)

func TestSession_AppendKeepsLatestTurns(t *testing.T) {
	session := model.New("kiosk-1", "tenant-1")

	for i := range model.MaxHistory + 7 {
		session.Append(dialogue.RoleUser, fmt.Sprintf("turn %d", i))
	}

	assert.Len(t, session.History, model.MaxHistory)
	assert.Equal(t, "turn 7", session.History[0].Text)
	assert.Equal(t, fmt.Sprintf("turn %d", model.MaxHistory+6), session.History[model.MaxHistory-1].Text)
}

func TestSession_Recent(t *testing.T) {
	session := model.New("kiosk-1", "tenant-1")
	session.Append(dialogue.RoleUser, "hi")
	session.Append(dialogue.RoleAssistant, "Welcome!")
	session.Append(dialogue.RoleUser, "a deluxe room")

	assert.Equal(t, []dialogue.Turn{
		{Role: dialogue.RoleAssistant, Text: "Welcome!"},
		{Role: dialogue.RoleUser, Text: "a deluxe room"},
	}, session.Recent(2))
	assert.Len(t, session.Recent(0), 3)
	assert.Len(t, session.Recent(10), 3)
}
