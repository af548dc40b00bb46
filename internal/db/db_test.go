package db

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/models"
	"github.com/Windi-Fikriyansyah/easyrepair_be/internal/utils"
)

func TestConnectUnknownDriver(t *testing.T) {
	_, err := Connect("oracle", "x")
	require.Error(t, err)
}

type recordingWriter struct {
	mu    sync.Mutex
	lines []string
}

func (w *recordingWriter) Printf(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lines = append(w.lines, fmt.Sprintf(format, args...))
}

func (w *recordingWriter) text() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return strings.Join(w.lines, "\n")
}

func TestQueryLogSkipsRecordNotFound(t *testing.T) {
	w := &recordingWriter{}
	prev := logWriter
	logWriter = w
	t.Cleanup(func() { logWriter = prev })

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := Connect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	var u models.User
	err = gdb.Where("username = ?", "nobody").First(&u).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	require.NotContains(t, w.text(), "record not found")

	// real failures are still logged
	var rows []map[string]interface{}
	require.Error(t, gdb.Table("missing_table").Find(&rows).Error)
	require.Contains(t, w.text(), "missing_table")
}

func TestMigrateAndEnsureAdmin(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := Connect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	require.NoError(t, EnsureAdmin(gdb, "", ""))
	require.Error(t, EnsureAdmin(gdb, "admin", "123"))

	require.NoError(t, EnsureAdmin(gdb, "admin", "secret123"))
	require.NoError(t, EnsureAdmin(gdb, "admin", "secret123"))

	var users []models.User
	require.NoError(t, gdb.Find(&users).Error)
	require.Len(t, users, 1)
	require.True(t, users[0].IsAdmin)
	require.True(t, utils.CheckPassword(users[0].PasswordHash, "secret123"))
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := Connect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	u := models.User{Username: "boss", PasswordHash: "x"}
	require.NoError(t, gdb.Create(&u).Error)

	require.NoError(t, EnsureAdmin(gdb, "boss", ""))

	var got models.User
	require.NoError(t, gdb.First(&got, "id = ?", u.ID).Error)
	require.True(t, got.IsAdmin)
}
