package messages

import (
	"fmt"
	"strings"

	"github.com/BatmanBruc/bat-bot-checkin/internal/i18n"
	"github.com/BatmanBruc/bat-bot-checkin/types"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

func StartWelcome(lang i18n.Lang, firstName string) string {
	name := Escape(firstName)
	if lang == i18n.ZH {
		return fmt.Sprintf("👋 你好 %s!\n我是签到机器人，使用 /checkin 每日签到获取积分。\n管理员可以使用 /stats 查看所有用户签到记录。", name)
	}
	return fmt.Sprintf("👋 Hi %s!\nI'm the check-in bot. Use /checkin once a day to earn points.\nAdmins can use /stats to see everyone's check-in record.", name)
}

func CheckinSuccess(lang i18n.Lang, points int) string {
	if lang == i18n.ZH {
		return fmt.Sprintf("✅ <b>签到成功！</b>获得%d积分。", points)
	}
	return fmt.Sprintf("✅ <b>Checked in!</b> You earned %d point(s).", points)
}

func CheckinAlready(lang i18n.Lang) string {
	if lang == i18n.ZH {
		return "📅 今天已经签到过了，明天再来吧！"
	}
	return "📅 You already checked in today — come back tomorrow!"
}

func StatsDenied(lang i18n.Lang) string {
	if lang == i18n.ZH {
		return "🚫 您没有权限使用此命令。"
	}
	return "🚫 You don't have permission to use this command."
}

func StatsEmpty(lang i18n.Lang) string {
	if lang == i18n.ZH {
		return "暂无签到记录。"
	}
	return "No check-ins yet."
}

// StatsReport renders the full admin report. Callers are responsible for
// chunking; the report grows one line per registered user.
func StatsReport(lang i18n.Lang, report *types.Report) string {
	var sb strings.Builder
	if lang == i18n.ZH {
		sb.WriteString("📊 <b>签到统计:</b>\n\n")
	} else {
		sb.WriteString("📊 <b>Check-in stats:</b>\n\n")
	}
	for _, u := range report.PerUser {
		sb.WriteString(statsLine(lang, u))
		sb.WriteByte('\n')
	}
	if lang == i18n.ZH {
		sb.WriteString(fmt.Sprintf("\n总签到次数: %d", report.Total))
	} else {
		sb.WriteString(fmt.Sprintf("\nTotal check-ins: %d", report.Total))
	}
	return sb.String()
}

func statsLine(lang i18n.Lang, u types.UserCheckinCount) string {
	username := "@" + u.Username
	if u.Username == "" {
		if lang == i18n.ZH {
			username = "无用户名"
		} else {
			username = "no username"
		}
	}
	if lang == i18n.ZH {
		return fmt.Sprintf("%s (%s) - 签到次数: %d", Escape(u.DisplayName()), Escape(username), u.CheckinCount)
	}
	return fmt.Sprintf("%s (%s) - check-ins: %d", Escape(u.DisplayName()), Escape(username), u.CheckinCount)
}

func UsageHint(lang i18n.Lang) string {
	if lang == i18n.ZH {
		return "🤖 发送 /checkin 进行每日签到。"
	}
	return "🤖 Send /checkin to record your daily check-in."
}

func ErrorUnknownCommand(lang i18n.Lang) string {
	if lang == i18n.ZH {
		return "❓ <b>命令不存在</b>"
	}
	return "❓ <b>Unknown command</b>"
}

func ErrorDefault(lang i18n.Lang) string {
	if lang == i18n.ZH {
		return "🚫 <b>抱歉，处理您的请求时出现了错误。</b>"
	}
	return "🚫 <b>Sorry, something went wrong handling your request.</b>"
}
