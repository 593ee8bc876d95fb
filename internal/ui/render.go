package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
)

func RenderStart(privileged bool) string {
	var b strings.Builder
	b.WriteString("💜 Добро пожаловать в бот знакомств для подростков!\n\n")
	b.WriteString("Здесь ты можешь найти новых друзей.\n\n")
	b.WriteString("Используй команды:\n")
	b.WriteString("/create - Создать анкету\n")
	b.WriteString("/browse - Смотреть анкеты\n")
	b.WriteString("/matches - Взаимные лайки\n")
	b.WriteString("/profile - Моя анкета\n")
	b.WriteString("/help - Помощь\n")
	if privileged {
		b.WriteString("\n🛡️ Команды модератора:\n")
		b.WriteString("/moderate - Проверить анкеты\n")
		b.WriteString("/reports - Просмотреть жалобы\n")
		b.WriteString("/stats - Статистика бота")
	}
	return b.String()
}

func RenderHelp(likesPerDay, ageMin, ageMax int) string {
	return "ℹ️ Помощь:\n\n" +
		"🔹 Создай анкету командой /create\n" +
		"🔹 Просматривай анкеты - /browse\n" +
		fmt.Sprintf("🔹 Ставь лайки (%d в день)\n", likesPerDay) +
		"🔹 При взаимном лайке откроется username\n" +
		"🔹 Все анкеты проверяет модератор\n\n" +
		"⚠️ Правила:\n" +
		fmt.Sprintf("- Возраст %d-%d лет\n", ageMin, ageMax) +
		"- Уважительное общение\n" +
		"- Реальные фото"
}

func RenderCreatePrompt(ageMin, ageMax int) string {
	return fmt.Sprintf(MsgCreatePrompt, ageMin, ageMax)
}

func GenderLabel(g enums.Gender) string {
	if g == enums.GenderMale {
		return "Парень"
	}
	return "Девушка"
}

func StatusLabel(s enums.ModerationStatus) string {
	switch s {
	case enums.ModerationStatusApproved:
		return "✅ Одобрено"
	case enums.ModerationStatusRejected:
		return "❌ Отклонено"
	default:
		return "⏳ На модерации"
	}
}

// Contact renders how to reach a user: @handle when known, else the numeric id.
func Contact(p model.Profile) string {
	if h := p.Handle(); h != "" {
		return h
	}
	if p.TelegramID != 0 {
		return "ID " + strconv.FormatInt(p.TelegramID, 10)
	}
	return MsgNoUsername
}

func RenderOwnProfile(p model.Profile) string {
	var b strings.Builder
	b.WriteString("📋 Твоя анкета:\n\n")
	fmt.Fprintf(&b, "Имя: %s\n", p.Name)
	fmt.Fprintf(&b, "Возраст: %d\n", p.Age)
	fmt.Fprintf(&b, "Город: %s\n", p.City)
	fmt.Fprintf(&b, "Пол: %s\n", GenderLabel(p.Gender))
	if p.Bio != "" {
		fmt.Fprintf(&b, "О себе: %s\n", p.Bio)
	}
	fmt.Fprintf(&b, "\nСтатус: %s", StatusLabel(p.Status))
	return b.String()
}

func RenderCard(p model.Profile, used, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s, %d\n", p.Name, p.Age)
	fmt.Fprintf(&b, "📍 %s\n", p.City)
	fmt.Fprintf(&b, "👥 %s\n", GenderLabel(p.Gender))
	if p.Bio != "" {
		fmt.Fprintf(&b, "\n💬 %s\n", p.Bio)
	}
	fmt.Fprintf(&b, "\n❤️ Лайков сегодня: %d/%d", used, limit)
	return b.String()
}

func RenderMatches(items []model.Profile) string {
	if len(items) == 0 {
		return MsgNoMatches
	}
	var b strings.Builder
	b.WriteString("💜 Взаимные симпатии:\n\n")
	for _, p := range items {
		fmt.Fprintf(&b, "👤 %s, %d — %s\n", p.Name, p.Age, Contact(p))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderPendingProfile(p model.Profile) string {
	var b strings.Builder
	b.WriteString("🔍 Анкета на проверку:\n\n")
	fmt.Fprintf(&b, "👤 %s, %d\n", p.Name, p.Age)
	fmt.Fprintf(&b, "📍 %s\n", p.City)
	fmt.Fprintf(&b, "👥 %s\n", GenderLabel(p.Gender))
	if p.Bio != "" {
		fmt.Fprintf(&b, "💬 %s\n", p.Bio)
	}
	fmt.Fprintf(&b, "\n🆔 Telegram ID: %d", p.TelegramID)
	return b.String()
}

func RenderReport(r model.ReportView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🚩 Жалоба #%d:\n\n", r.ID)
	fmt.Fprintf(&b, "От: %s (ID: %d)\n", nameOrDash(r.ReporterName), r.ReporterID)
	fmt.Fprintf(&b, "На: %s (ID: %d)\n", nameOrDash(r.ReportedName), r.ReportedUserID)
	if r.Reason != "" {
		fmt.Fprintf(&b, "\nПричина: %s", r.Reason)
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderStats(s model.Stats) string {
	return "📊 Статистика бота:\n\n" +
		fmt.Sprintf("👥 Всего анкет: %d\n", s.TotalProfiles) +
		fmt.Sprintf("✅ Одобренных анкет: %d\n", s.Approved) +
		fmt.Sprintf("⏳ На модерации: %d\n", s.Pending) +
		fmt.Sprintf("❌ Отклонённых: %d\n", s.Rejected) +
		fmt.Sprintf("💜 Совпадений: %d\n", s.Matches) +
		fmt.Sprintf("🚩 Активных жалоб: %d\n", s.PendingReports) +
		fmt.Sprintf("❤️ Лайков за 24ч: %d", s.LikesLast24h)
}

func nameOrDash(name string) string {
	if strings.TrimSpace(name) == "" {
		return "—"
	}
	return name
}
