package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListDialogs_OrderedByLastActivity(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")

	r1, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")
	r3, _ := CreateRoom(alice.ID, []string{carol.ID}, "", "")

	_, err := AppendMessage(r1.ID, alice.ID, "older", nil)
	assert.NoError(t, err)
	_, err = AppendMessage(r3.ID, carol.ID, "newer", nil)
	assert.NoError(t, err)

	dialogs, err := ListDialogs(alice.ID, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, dialogs, 2)
	assert.Equal(t, r3.ID, dialogs[0].Room.ID)
	assert.Equal(t, r1.ID, dialogs[1].Room.ID)
	assert.Equal(t, "newer", dialogs[0].LastMessage.Text)

	// New activity in r1 reorders the list
	_, err = AppendMessage(r1.ID, bob.ID, "newest", nil)
	assert.NoError(t, err)

	dialogs, err = ListDialogs(alice.ID, 10, 0)
	assert.NoError(t, err)
	assert.Equal(t, r1.ID, dialogs[0].Room.ID)
	assert.Equal(t, "newest", dialogs[0].LastMessage.Text)
}

func TestListDialogs_EmptyRoomSortsLast(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")

	active, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")
	silent, _ := CreateRoom(alice.ID, []string{carol.ID}, "", "")

	_, err := AppendMessage(active.ID, bob.ID, "hi", nil)
	assert.NoError(t, err)

	dialogs, err := ListDialogs(alice.ID, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, dialogs, 2)
	assert.Equal(t, active.ID, dialogs[0].Room.ID)
	assert.Equal(t, silent.ID, dialogs[1].Room.ID)
	assert.Nil(t, dialogs[1].LastMessage)
}

func TestListDialogs_Counterpart(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")

	direct, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")
	group, _ := CreateRoom(alice.ID, []string{bob.ID, carol.ID}, "group", "")

	_, err := AppendMessage(direct.ID, alice.ID, "dm", nil)
	assert.NoError(t, err)
	_, err = AppendMessage(group.ID, alice.ID, "group msg", nil)
	assert.NoError(t, err)

	// As creator of the direct room, the counterpart is the invitee
	dialogs, err := ListDialogs(alice.ID, 10, 0)
	assert.NoError(t, err)
	for _, d := range dialogs {
		switch d.Room.ID {
		case direct.ID:
			assert.True(t, d.Room.IsDirect)
			assert.NotNil(t, d.Counterpart)
			assert.Equal(t, bob.ID, d.Counterpart.ID)
		case group.ID:
			assert.False(t, d.Room.IsDirect)
			assert.Nil(t, d.Counterpart)
		}
	}

	// As the invitee, the counterpart is the creator
	dialogs, err = ListDialogs(bob.ID, 10, 0)
	assert.NoError(t, err)
	for _, d := range dialogs {
		if d.Room.ID == direct.ID {
			assert.NotNil(t, d.Counterpart)
			assert.Equal(t, alice.ID, d.Counterpart.ID)
		}
	}
}

func TestListDialogs_HasAttachmentFlag(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")
	att := createAttachment(t, alice.ID, "image", "attachments/photo.jpg")

	_, err := AppendMessage(room.ID, alice.ID, "", []string{att.ID})
	assert.NoError(t, err)

	dialogs, err := ListDialogs(alice.ID, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, dialogs, 1)
	assert.True(t, dialogs[0].HasAttachment)

	// A newer plain-text message clears the flag
	_, err = AppendMessage(room.ID, bob.ID, "just text", nil)
	assert.NoError(t, err)

	dialogs, err = ListDialogs(alice.ID, 10, 0)
	assert.NoError(t, err)
	assert.False(t, dialogs[0].HasAttachment)
}

func TestListDialogs_OffsetSlicing(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	carol := createUser(t, "carol")
	dave := createUser(t, "dave")

	r1, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")
	r2, _ := CreateRoom(alice.ID, []string{carol.ID}, "", "")
	r3, _ := CreateRoom(alice.ID, []string{dave.ID}, "", "")

	_, _ = AppendMessage(r1.ID, bob.ID, "first", nil)
	_, _ = AppendMessage(r2.ID, carol.ID, "second", nil)
	_, _ = AppendMessage(r3.ID, dave.ID, "third", nil)

	// Full order is [r3, r2, r1]; offset=1 limit=1 picks r2
	page, err := ListDialogs(alice.ID, 1, 1)
	assert.NoError(t, err)
	assert.Len(t, page, 1)
	assert.Equal(t, r2.ID, page[0].Room.ID)

	// Offset past the end yields an empty page, not an error
	page, err = ListDialogs(alice.ID, 10, 5)
	assert.NoError(t, err)
	assert.Empty(t, page)
}

func TestListDialogs_UnreadBadge(t *testing.T) {
	SetupTestDB(t)
	alice := createUser(t, "alice")
	bob := createUser(t, "bob")
	room, _ := CreateRoom(alice.ID, []string{bob.ID}, "", "")

	_, _ = AppendMessage(room.ID, alice.ID, "one", nil)
	_, _ = AppendMessage(room.ID, alice.ID, "two", nil)

	dialogs, err := ListDialogs(bob.ID, 10, 0)
	assert.NoError(t, err)
	assert.EqualValues(t, 2, dialogs[0].UnreadCount)

	_, err = MarkRoomRead(room.ID, bob.ID)
	assert.NoError(t, err)

	dialogs, err = ListDialogs(bob.ID, 10, 0)
	assert.NoError(t, err)
	assert.EqualValues(t, 0, dialogs[0].UnreadCount)
}

func TestListDialogs_NoRooms(t *testing.T) {
	SetupTestDB(t)
	loner := createUser(t, "loner")

	dialogs, err := ListDialogs(loner.ID, 10, 0)
	assert.NoError(t, err)
	assert.Empty(t, dialogs)
}
