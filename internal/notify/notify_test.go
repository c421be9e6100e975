package notify_test

import (
	"testing"
	"time"

	"github.com/finvoy/spendsheet/internal/notify"
	"github.com/stretchr/testify/require"
)

func TestCenter_PushAndDismiss(t *testing.T) {
	center := notify.NewCenter(time.Minute)

	a := center.Success("expense added")
	b := center.Error("upload failed")

	active := center.Active()
	require.Len(t, active, 2)
	require.Equal(t, notify.LevelSuccess, active[0].Level)
	require.Equal(t, notify.LevelError, active[1].Level)
	require.NotEqual(t, a.ID, b.ID)

	center.Dismiss(a.ID)
	active = center.Active()
	require.Len(t, active, 1)
	require.Equal(t, b.ID, active[0].ID)

	// Dismissing twice is harmless.
	center.Dismiss(a.ID)
	require.Len(t, center.Active(), 1)
}

func TestCenter_AutoDismiss(t *testing.T) {
	center := notify.NewCenter(20 * time.Millisecond)
	center.Success("ephemeral")

	require.Eventually(t, func() bool {
		return len(center.Active()) == 0
	}, time.Second, 5*time.Millisecond)
}
