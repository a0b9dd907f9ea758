package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"atlas/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&models.User{},
		&models.Pairing{},
		&models.Presence{},
		&models.Message{},
		&models.Poke{},
		&models.Memory{},
		&models.CalendarEvent{},
		&models.GameStat{},
	))
	return conn
}

func registerUser(t *testing.T, users *UserService, code, name string) *models.User {
	t.Helper()
	user, err := users.Register(context.Background(), code, name, nil)
	require.NoError(t, err)
	return user
}

// linkPair registers two users and pairs them.
func linkPair(t *testing.T, conn *gorm.DB) (*models.User, *models.User) {
	t.Helper()
	users := NewUserService(conn)
	pairing := NewPairingService(conn)
	a := registerUser(t, users, "ATLAS-AAAAAA", "Alice")
	b := registerUser(t, users, "ATLAS-BBBBBB", "Bob")
	_, err := pairing.Link(context.Background(), a, b.FriendCode)
	require.NoError(t, err)
	return a, b
}
