package logbook

import (
	"regexp"
	"sort"
)

// TotalChapters 章节覆盖率的固定分母
const TotalChapters = 46

const legacyChapterPrefix = "ATA: "

var ataChapters = map[string]string{
	"00": "00 - General",
	"05": "05 - Time Limits/Maintenance Checks",
	"06": "06 - Dimensions & Areas",
	"07": "07 - Lifting & Shoring",
	"08": "08 - Leveling & Weighing",
	"09": "09 - Towing & Taxiing",
	"10": "10 - Parking, Mooring, Storage",
	"11": "11 - Placards & Markings",
	"12": "12 - Servicing",
	"20": "20 - Standard Practices - Airframe",
	"21": "21 - Air Conditioning",
	"23": "23 - Communications",
	"24": "24 - Electrical Power",
	"25": "25 - Equipment/Furnishings",
	"26": "26 - Fire Protection",
	"27": "27 - Flight Controls",
	"28": "28 - Fuel",
	"29": "29 - Hydraulic Power",
	"30": "30 - Ice & Rain Protection",
	"31": "31 - Indicating/Recording Systems",
	"32": "32 - Landing Gear",
	"33": "33 - Lights",
	"34": "34 - Navigation",
	"35": "35 - Oxygen",
	"36": "36 - Pneumatic",
	"38": "38 - Water/Waste",
	"49": "49 - Airborne Auxiliary Power",
	"51": "51 - Structures",
	"52": "52 - Doors",
	"53": "53 - Fuselage",
	"54": "54 - Nacelles/Pylons",
	"55": "55 - Stabilizers",
	"56": "56 - Windows",
	"57": "57 - Wings",
	"61": "61 - Propellers/Propulsors",
	"71": "71 - Powerplant",
	"72": "72 - Engine - Turbine/Turbo Prop",
	"73": "73 - Engine Fuel & Control",
	"74": "74 - Ignition",
	"75": "75 - Air",
	"76": "76 - Engine Controls",
	"77": "77 - Engine Indicating",
	"78": "78 - Exhaust",
	"79": "79 - Oil",
	"80": "80 - Starting",
	"91": "91 - Charts",
}

var (
	labelCodePattern  = regexp.MustCompile(`^(\d+)\s*-`)
	legacyCodePattern = regexp.MustCompile(`ATA:\s*(\d+)\s*-`)
)

// Chapter 章节选项
type Chapter struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Chapters 按代码升序返回全部章节
func Chapters() []Chapter {
	out := make([]Chapter, 0, len(ataChapters))
	for code, label := range ataChapters {
		out = append(out, Chapter{Code: code, Label: label})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// IsKnownChapter 是否为章节表中的代码
func IsKnownChapter(code string) bool {
	_, ok := ataChapters[code]
	return ok
}

// LabelFor 返回章节标签，未收录的代码原样返回
func LabelFor(code string) string {
	if label, ok := ataChapters[code]; ok {
		return label
	}
	return code
}

// CodeFromLabel 从 "<code> - <name>" 中提取代码，不匹配时返回空串
func CodeFromLabel(label string) string {
	m := labelCodePattern.FindStringSubmatch(label)
	if m == nil {
		return ""
	}
	return m[1]
}

// EncodeLegacyChapter 旧版 skills_practiced 编码：["ATA: <label>"]
func EncodeLegacyChapter(code string) []string {
	return []string{legacyChapterPrefix + LabelFor(code)}
}

// DecodeLegacyChapter 从旧版 skills_practiced 中还原章节代码
func DecodeLegacyChapter(skills []string) string {
	for _, s := range skills {
		if m := legacyCodePattern.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}
