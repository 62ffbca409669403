package logbook

import "testing"

func TestChapterTable_Size(t *testing.T) {
	if len(ataChapters) != TotalChapters {
		t.Errorf("章节表应有 %d 项，实际 %d", TotalChapters, len(ataChapters))
	}
	chapters := Chapters()
	if chapters[0].Code != "00" || chapters[len(chapters)-1].Code != "91" {
		t.Errorf("Chapters 应按代码升序，首尾为 %s/%s", chapters[0].Code, chapters[len(chapters)-1].Code)
	}
}

func TestChapterRoundTrip(t *testing.T) {
	for code := range ataChapters {
		if got := CodeFromLabel(LabelFor(code)); got != code {
			t.Errorf("CodeFromLabel(LabelFor(%s)) = %s", code, got)
		}
		if got := DecodeLegacyChapter(EncodeLegacyChapter(code)); got != code {
			t.Errorf("DecodeLegacyChapter(EncodeLegacyChapter(%s)) = %s", code, got)
		}
	}
}

func TestLabelFor_Unknown(t *testing.T) {
	if got := LabelFor("99"); got != "99" {
		t.Errorf("未收录代码应原样返回，实际 %s", got)
	}
	if IsKnownChapter("99") {
		t.Error("99 不在章节表中")
	}
}

func TestCodeFromLabel(t *testing.T) {
	tests := map[string]string{
		"32 - Landing Gear":                "32",
		"72 - Engine - Turbine/Turbo Prop": "72",
		"05-Time Limits":                   "05",
		"Landing Gear":                     "",
		"":                                 "",
		"ATA: 32 - Landing Gear":           "",
	}
	for label, want := range tests {
		if got := CodeFromLabel(label); got != want {
			t.Errorf("CodeFromLabel(%q) 期望=%q，实际=%q", label, want, got)
		}
	}
}

func TestLegacyEncoding(t *testing.T) {
	got := EncodeLegacyChapter("32")
	if len(got) != 1 || got[0] != "ATA: 32 - Landing Gear" {
		t.Errorf("旧版编码不符: %v", got)
	}
	if DecodeLegacyChapter(nil) != "" {
		t.Error("空数组应解码为空串")
	}
	if DecodeLegacyChapter([]string{"torque wrench", "ATA: 28 - Fuel"}) != "28" {
		t.Error("应从任意位置解码章节")
	}
}
