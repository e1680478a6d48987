package tg

import (
	"fmt"
	"strings"
	"time"

	"github.com/pvzzle/polywatch/internal/storage"
)

// FormatActivity строит текст уведомления о событии. Чистая функция:
// пустые опциональные поля просто пропускают свою строку.
func FormatActivity(rec storage.ActivityRecord) string {
	lines := []string{"🆕 Polymarket activity"}

	if title := strings.TrimSpace(rec.Title); title != "" {
		lines = append(lines, "📝 "+title)
	}
	lines = append(lines, fmt.Sprintf("🔁 %s / %s", rec.Type, rec.Side))
	if rec.Size != 0 || rec.UsdcSize != 0 {
		lines = append(lines, fmt.Sprintf("📦 size=%v | usdc=%v", rec.Size, rec.UsdcSize))
	}
	if rec.Price != 0 {
		lines = append(lines, fmt.Sprintf("💲 price=%v", rec.Price))
	}
	lines = append(lines, "🧾 tx="+rec.TxHash)

	return strings.Join(lines, "\n")
}

// FormatRecent — короткий дайджест для /recent.
func FormatRecent(recs []storage.ActivityRecord) string {
	if len(recs) == 0 {
		return "История пуста."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🕘 Recent activity (%d)\n\n", len(recs)))

	for _, rec := range recs {
		line := fmt.Sprintf("• %s %s/%s", shortenHash(rec.TxHash), rec.Type, rec.Side)
		if rec.Timestamp > 0 {
			line += " " + time.Unix(rec.Timestamp, 0).UTC().Format("2006-01-02 15:04")
		}
		sb.WriteString(line + "\n")

		if title := strings.TrimSpace(rec.Title); title != "" {
			sb.WriteString("  " + title + "\n")
		}
	}

	return sb.String()
}

func shortenHash(h string) string {
	if len(h) <= 14 {
		return h
	}
	return h[:10] + "…" + h[len(h)-4:]
}
