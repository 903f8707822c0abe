package clock_test

import (
	"testing"
	"time"

	"github.com/rpggio/require/internal/clock"
	"github.com/stretchr/testify/require"
)

func TestFake_AdvanceFiresInDeadlineOrder(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := clock.NewFake(start)

	var fired []string
	fc.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "late") })
	fc.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "early") })

	fc.Advance(150 * time.Millisecond)
	require.Equal(t, []string{"early"}, fired)
	require.Equal(t, start.Add(150*time.Millisecond), fc.Now())

	fc.Advance(50 * time.Millisecond)
	require.Equal(t, []string{"early", "late"}, fired)
	require.Equal(t, 0, fc.Pending())
}

func TestFake_StopPreventsFiring(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))

	fired := false
	timer := fc.AfterFunc(time.Second, func() { fired = true })
	require.True(t, timer.Stop())
	require.False(t, timer.Stop())

	fc.Advance(2 * time.Second)
	require.False(t, fired)
}

func TestFake_CallbackCanRearm(t *testing.T) {
	fc := clock.NewFake(time.Unix(0, 0))

	count := 0
	var arm func()
	arm = func() {
		count++
		if count < 3 {
			fc.AfterFunc(10*time.Millisecond, arm)
		}
	}
	fc.AfterFunc(10*time.Millisecond, arm)

	fc.Advance(time.Second)
	require.Equal(t, 3, count)
}
