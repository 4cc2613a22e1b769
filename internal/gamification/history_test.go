package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_Record(t *testing.T) {
	var h History
	h = h.Record("2026-03-14", 3, 20)
	h = h.Record("2026-03-14", 3, 35)
	h = h.Record("2026-03-15", 0, 10)

	require.Len(t, h, 2)
	rec, ok := h.Find("2026-03-14")
	require.True(t, ok)
	assert.Equal(t, CompletionRecord{Date: "2026-03-14", Completed: 2, Total: 3, XPEarned: 55}, rec)

	rec, _ = h.Find("2026-03-15")
	assert.Equal(t, 1, rec.Total, "total never drops below completed")
}

func TestHistory_Normalize(t *testing.T) {
	h := History{
		{Date: "2026-03-15", Completed: 1, Total: 2},
		{Date: "", Completed: 9},
		{Date: "2026-03-14", Completed: 2, Total: 2, XPEarned: 30},
		{Date: "2026-03-15", Completed: 2, Total: 2, XPEarned: 5},
	}.Normalize()

	require.Len(t, h, 2)
	assert.Equal(t, "2026-03-14", h[0].Date)
	assert.Equal(t, CompletionRecord{Date: "2026-03-15", Completed: 3, Total: 3, XPEarned: 5}, h[1])
}

func TestCompletionRecord_Ratio(t *testing.T) {
	_, ok := CompletionRecord{}.Ratio()
	assert.False(t, ok)

	r, ok := CompletionRecord{Completed: 1, Total: 4}.Ratio()
	assert.True(t, ok)
	assert.InDelta(t, 0.25, r, 1e-9)
}

func TestNotification_Expired(t *testing.T) {
	n := InfoNotification("hi", "there", now)
	assert.False(t, n.Expired(now.Add(NotificationTTL-time.Millisecond)))
	assert.True(t, n.Expired(now.Add(NotificationTTL)))
	assert.NotEmpty(t, n.ID)
}

func TestProfile_Normalize(t *testing.T) {
	p := Profile{Level: 0, XP: 1200, Badges: nil}
	p.Normalize(now)

	assert.Equal(t, DefaultProfileName, p.Name)
	assert.Equal(t, 3, p.Level) // 1200 - 500 - 575 = 125
	assert.Equal(t, 125, p.XP)
	assert.Equal(t, 661, p.XPToNextLevel)
	assert.Len(t, p.Badges, 12)
	assert.Equal(t, "2026-03-14", p.JoinedDate)
	assert.Equal(t, DefaultPreferences(), p.Preferences)
}

func TestPreferencesPatch_Apply(t *testing.T) {
	prefs := DefaultPreferences()
	light := ThemeLight
	bogus := Theme("neon")
	off := false
	PreferencesPatch{Theme: &light, Sound: &off}.Apply(&prefs)
	assert.Equal(t, ThemeLight, prefs.Theme)
	assert.False(t, prefs.Sound)
	assert.True(t, prefs.Celebrations)

	PreferencesPatch{Theme: &bogus}.Apply(&prefs)
	assert.Equal(t, ThemeLight, prefs.Theme)
}
