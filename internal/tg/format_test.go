package tg

import (
	"strings"
	"testing"

	"github.com/pvzzle/polywatch/internal/storage"
)

func TestFormatActivity_AllFields(t *testing.T) {
	rec := storage.ActivityRecord{
		TxHash:   "0x" + strings.Repeat("1", 64),
		Type:     "TRADE",
		Side:     "BUY",
		Price:    0.42,
		Size:     10.5,
		UsdcSize: 4.41,
		Title:    "Will it rain?",
	}

	txt := FormatActivity(rec)
	if txt == "" {
		t.Fatal("expected non-empty")
	}

	for _, want := range []string{
		"🆕 Polymarket activity",
		"📝 Will it rain?",
		"🔁 TRADE / BUY",
		"📦 size=10.5 | usdc=4.41",
		"💲 price=0.42",
		"🧾 tx=" + rec.TxHash,
	} {
		if !strings.Contains(txt, want) {
			t.Fatalf("expected %q in message:\n%s", want, txt)
		}
	}
}

func TestFormatActivity_OptionalLinesOmitted(t *testing.T) {
	rec := storage.ActivityRecord{
		TxHash: "0xabc",
		Type:   "REDEEM",
	}

	txt := FormatActivity(rec)

	if strings.Contains(txt, "📝") {
		t.Fatalf("expected no title line:\n%s", txt)
	}
	if strings.Contains(txt, "📦") {
		t.Fatalf("expected no size line:\n%s", txt)
	}
	if strings.Contains(txt, "💲") {
		t.Fatalf("expected no price line:\n%s", txt)
	}
	if !strings.Contains(txt, "🧾 tx=0xabc") {
		t.Fatalf("expected tx line:\n%s", txt)
	}
}

func TestFormatRecent(t *testing.T) {
	if got := FormatRecent(nil); got != "История пуста." {
		t.Fatalf("expected empty-history text, got=%q", got)
	}

	recs := []storage.ActivityRecord{
		{
			TxHash:    "0x" + strings.Repeat("2", 64),
			Type:      "TRADE",
			Side:      "SELL",
			Timestamp: 1700000000,
			Title:     "Will it rain?",
		},
	}

	txt := FormatRecent(recs)
	if !strings.Contains(txt, "…") {
		t.Fatalf("expected shortened hash:\n%s", txt)
	}
	if !strings.Contains(txt, "TRADE/SELL") {
		t.Fatalf("expected type/side:\n%s", txt)
	}
	if !strings.Contains(txt, "2023-11-14") {
		t.Fatalf("expected formatted timestamp:\n%s", txt)
	}
	if !strings.Contains(txt, "Will it rain?") {
		t.Fatalf("expected title:\n%s", txt)
	}
}

func TestShortenHash(t *testing.T) {
	if got := shortenHash("0xshort"); got != "0xshort" {
		t.Fatalf("expected short hash unchanged, got=%q", got)
	}

	long := "0x" + strings.Repeat("a", 64)
	got := shortenHash(long)
	if len(got) >= len(long) || !strings.HasPrefix(got, "0xaaaaaaaa") {
		t.Fatalf("unexpected shortening: %q", got)
	}
}
