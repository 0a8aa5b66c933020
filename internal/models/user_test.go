package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationPrefsDefaultEnabled(t *testing.T) {
	var prefs NotificationPrefs
	assert.True(t, prefs.Enabled("task_completed"))

	prefs = NotificationPrefs{"task_completed": false}
	assert.False(t, prefs.Enabled("task_completed"))
	assert.True(t, prefs.Enabled("habit_completed"), "unset kinds stay enabled")
}

func TestParseNotificationPrefs(t *testing.T) {
	prefs := ParseNotificationPrefs(`{"streak_milestone": false, "task_completed": true}`)
	assert.False(t, prefs.Enabled("streak_milestone"))
	assert.True(t, prefs.Enabled("task_completed"))
	assert.True(t, prefs.Enabled("achievement_unlock"))
}

func TestParseNotificationPrefsMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json", "[1,2,3]"} {
		prefs := ParseNotificationPrefs(raw)
		assert.True(t, prefs.Enabled("task_completed"), "raw=%q", raw)
	}
}

func TestGroupProgress(t *testing.T) {
	assert.Equal(t, 0.0, GroupProgress(0, 0))
	assert.Equal(t, 0.0, GroupProgress(0, 4))
	assert.Equal(t, 50.0, GroupProgress(2, 4))
	assert.Equal(t, 100.0, GroupProgress(4, 4))
}
