package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RympeR/blob-ai/internal/config"
	"github.com/RympeR/blob-ai/internal/database"
	"github.com/RympeR/blob-ai/internal/models"
	"github.com/RympeR/blob-ai/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite DB for testing
func SetupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Attachment{},
		&models.Message{},
		&models.DeliveryRecord{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	database.DB = db
	database.Redis = nil
	config.AppConfig = &config.Config{PublicBaseURL: "http://media.test"}
	gin.SetMode(gin.TestMode)
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Name: username}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSendMessage(t *testing.T) {
	SetupTestDB(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	room, err := services.CreateRoom(alice.ID, []string{bob.ID}, "", "")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, "POST", "/api/chat/messages", map[string]interface{}{
		"roomId": room.ID,
		"text":   "hi bob",
	})
	c.Set("userId", alice.ID)

	SendMessage(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Message struct {
			ID     string `json:"id"`
			RoomID string `json:"room_id"`
			Text   string `json:"text"`
		} `json:"message"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, room.ID, response.Message.RoomID)
	assert.Equal(t, "hi bob", response.Message.Text)

	count, err := services.UnreadCount(bob.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestSendMessage_ForbiddenForNonMember(t *testing.T) {
	SetupTestDB(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	mallory := createTestUser(t, "mallory")
	room, err := services.CreateRoom(alice.ID, []string{bob.ID}, "", "")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, "POST", "/api/chat/messages", map[string]interface{}{
		"roomId": room.ID,
		"text":   "let me in",
	})
	c.Set("userId", mallory.ID)

	SendMessage(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateRoom_DuplicateDirectReturnsConflictId(t *testing.T) {
	SetupTestDB(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	existing, err := services.CreateRoom(alice.ID, []string{bob.ID}, "", "")
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, "POST", "/api/rooms", map[string]interface{}{
		"invited": []string{bob.ID},
	})
	c.Set("userId", alice.ID)

	CreateRoom(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response struct {
		ID string `json:"id"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, existing.ID, response.ID)
}

func TestMarkRoomReadAndUnreadCount(t *testing.T) {
	SetupTestDB(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	room, err := services.CreateRoom(alice.ID, []string{bob.ID}, "", "")
	assert.NoError(t, err)
	_, err = services.AppendMessage(room.ID, alice.ID, "unread me", nil)
	assert.NoError(t, err)

	// Unread count before the ack
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/chat/unread", nil)
	c.Set("userId", bob.ID)
	GetUnreadCount(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"newMessagesCount":1}`, w.Body.String())

	// Ack
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = jsonRequest(t, "PUT", "/api/chat/read", map[string]interface{}{
		"room_id": room.ID,
	})
	c.Set("userId", bob.ID)
	MarkRoomRead(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"markedRead":1}`, w.Body.String())

	// Count drops to zero
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/chat/unread", nil)
	c.Set("userId", bob.ID)
	GetUnreadCount(c)
	assert.JSONEq(t, `{"newMessagesCount":0}`, w.Body.String())
}

func TestListDialogsEndpoint(t *testing.T) {
	SetupTestDB(t)

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")
	carol := createTestUser(t, "carol")

	r1, _ := services.CreateRoom(alice.ID, []string{bob.ID}, "", "")
	r2, _ := services.CreateRoom(alice.ID, []string{carol.ID}, "", "")
	_, err := services.AppendMessage(r1.ID, bob.ID, "older", nil)
	assert.NoError(t, err)
	_, err = services.AppendMessage(r2.ID, carol.ID, "newer", nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/api/chat/dialogs", nil)
	c.Set("userId", alice.ID)

	ListDialogs(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Dialogs []struct {
			Room struct {
				ID string `json:"id"`
			} `json:"room"`
		} `json:"dialogs"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Dialogs, 2)
	assert.Equal(t, r2.ID, response.Dialogs[0].Room.ID)
	assert.Equal(t, r1.ID, response.Dialogs[1].Room.ID)
}
