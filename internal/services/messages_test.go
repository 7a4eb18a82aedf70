package services

import (
	"net/http"
	"strings"
	"testing"

	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAppendMessage_Validation(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")

	// Neither text nor attachments
	_, err := AppendMessage(room.ID, alice.ID, "   ", nil)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	// Oversized text
	_, err = AppendMessage(room.ID, alice.ID, strings.Repeat("a", models.MaxMessageLength+1), nil)
	appErr, ok = err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)

	// Exactly at the limit is fine
	_, err = AppendMessage(room.ID, alice.ID, strings.Repeat("a", models.MaxMessageLength), nil)
	assert.NoError(t, err)
}

func TestAppendMessage_NonMemberForbidden(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	mallory := createUser(t, "mallory")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")

	_, err := AppendMessage(room.ID, mallory.ID, "hi", nil)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, appErr.Code)
}

func TestAppendMessage_AttachmentOnly(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")
	att := createAttachment(t, alice.ID, "image", "attachments/pic.png")

	msg, err := AppendMessage(room.ID, alice.ID, "", []string{att.ID})
	assert.NoError(t, err)
	assert.Empty(t, msg.Text)
	assert.Len(t, msg.Attachments, 1)
}

func TestAppendMessage_UnknownAttachment(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")

	_, err := AppendMessage(room.ID, alice.ID, "", []string{"missing"})
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestAppendMessage_SeqTotalOrder(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")

	// Bursts land within the same wall-clock instant; Seq still orders them
	var lastSeq int64
	for i := 0; i < 5; i++ {
		msg, err := AppendMessage(room.ID, alice.ID, "burst", nil)
		assert.NoError(t, err)
		assert.Greater(t, msg.Seq, lastSeq)
		lastSeq = msg.Seq
	}
}

func TestPageMessages_Keyset(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")

	texts := []string{"one", "two", "three", "four", "five"}
	for _, text := range texts {
		_, err := AppendMessage(room.ID, alice.ID, text, nil)
		assert.NoError(t, err)
	}

	// First page: newest first
	page1, err := PageMessages(room.ID, alice.ID, "", 2)
	assert.NoError(t, err)
	assert.Len(t, page1, 2)
	assert.Equal(t, "five", page1[0].Message.Text)
	assert.Equal(t, "four", page1[1].Message.Text)

	// A concurrent insert must not shift the next page
	_, err = AppendMessage(room.ID, bob.ID, "six", nil)
	assert.NoError(t, err)

	page2, err := PageMessages(room.ID, alice.ID, page1[1].Message.ID, 2)
	assert.NoError(t, err)
	assert.Len(t, page2, 2)
	assert.Equal(t, "three", page2[0].Message.Text)
	assert.Equal(t, "two", page2[1].Message.Text)

	page3, err := PageMessages(room.ID, alice.ID, page2[1].Message.ID, 2)
	assert.NoError(t, err)
	assert.Len(t, page3, 1)
	assert.Equal(t, "one", page3[0].Message.Text)
}

func TestPageMessages_UnknownCursor(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")

	_, err := PageMessages(room.ID, alice.ID, "missing", 10)
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, appErr.Code)
}

func TestPageMessages_AuthorReadFlag(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")

	_, err := AppendMessage(room.ID, alice.ID, "hello", nil)
	assert.NoError(t, err)

	// Unread: no checkmark for the author yet
	page, err := PageMessages(room.ID, alice.ID, "", 10)
	assert.NoError(t, err)
	assert.False(t, page[0].Read)

	_, err = MarkRoomRead(room.ID, bob.ID)
	assert.NoError(t, err)

	// The author now sees the message as read...
	page, err = PageMessages(room.ID, alice.ID, "", 10)
	assert.NoError(t, err)
	assert.True(t, page[0].Read)

	// ...but the flag stays author-scoped
	page, err = PageMessages(room.ID, bob.ID, "", 10)
	assert.NoError(t, err)
	assert.False(t, page[0].Read)
}
