package messages

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BatmanBruc/bat-bot-checkin/internal/i18n"
	"github.com/BatmanBruc/bat-bot-checkin/types"
)

func TestStatsReportRendering(t *testing.T) {
	report := &types.Report{
		PerUser: []types.UserCheckinCount{
			{UserID: 1, Username: "alice", FirstName: "Alice", LastName: "Liddell", CheckinCount: 5},
			{UserID: 2, FirstName: "Bob", CheckinCount: 2},
		},
		Total: 7,
	}

	en := StatsReport(i18n.EN, report)
	assert.Contains(t, en, "Alice Liddell (@alice) - check-ins: 5")
	assert.Contains(t, en, "Bob (no username) - check-ins: 2")
	assert.Contains(t, en, "Total check-ins: 7")

	zh := StatsReport(i18n.ZH, report)
	assert.Contains(t, zh, "Alice Liddell (@alice) - 签到次数: 5")
	assert.Contains(t, zh, "Bob (无用户名) - 签到次数: 2")
	assert.Contains(t, zh, "总签到次数: 7")
}

func TestStatsReportEscapesNames(t *testing.T) {
	report := &types.Report{
		PerUser: []types.UserCheckinCount{
			{UserID: 1, FirstName: "<b>Mallory</b>", CheckinCount: 1},
		},
		Total: 1,
	}
	out := StatsReport(i18n.EN, report)
	assert.NotContains(t, out, "<b>Mallory</b>")
	assert.Contains(t, out, "&lt;b&gt;Mallory&lt;/b&gt;")
}

func TestStartWelcomeUsesFirstName(t *testing.T) {
	assert.Contains(t, StartWelcome(i18n.EN, "Alice"), "Alice")
	assert.Contains(t, StartWelcome(i18n.ZH, "张三"), "张三")
	assert.True(t, strings.Contains(StartWelcome(i18n.EN, "Alice"), "/checkin"))
}

func TestDisplayNameFallsBackToUserID(t *testing.T) {
	u := types.UserCheckinCount{UserID: 99}
	assert.Equal(t, "99", u.DisplayName())
}
