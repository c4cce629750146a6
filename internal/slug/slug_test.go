// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Georgian ---
		{name: "specialist name", input: "ნინო ბერიძე", want: "nino-beridze"},
		{name: "practice area", input: "სისხლის სამართალი", want: "siskhlis-samartali"},
		{name: "tax practice", input: "საგადასახადო სამართალი", want: "sagadasakhado-samartali"},
		{name: "labour code", input: "შრომის კოდექსი", want: "shromis-kodeksi"},
		{name: "digraph letters", input: "ღვინო შაქარი ჭადრაკი", want: "ghvino-shakari-chadraki"},
		{name: "ts and q letters", input: "წყალი და ჰაერი", want: "tsqali-da-haeri"},
		{name: "zh dz j with commas", input: "ჟიური, ძმა, ჯგუფი", want: "zhiuri-dzma-jgupi"},
		{name: "mtavruli capitals", input: "ᲜᲘᲜᲝ", want: "nino"},
		{name: "article number", input: "მუხლი 12.3", want: "mukhli-123"},
		{name: "mixed with latin", input: "იურისტი 24/7 Tbilisi", want: "iuristi-247-tbilisi"},

		// --- Russian ---
		{name: "shch", input: "Щука и рак", want: "shchuka-i-rak"},
		{name: "family law heading", input: "Семейное право: развод", want: "semeynoe-pravo-razvod"},
		{name: "tax code", input: "Налоговый кодекс Грузии", want: "nalogovyy-kodeks-gruzii"},
		{name: "soft and hard signs dropped", input: "Объявление о подъезде", want: "obyavlenie-o-podezde"},
		{name: "yo and ya", input: "Ёлка Ярослава", want: "elka-yaroslava"},
		{name: "hyphenated title", input: "Юрист-консультант", want: "yurist-konsultant"},
		{name: "kh and e", input: "Чехов, Жуков и Хэмингуэй", want: "chekhov-zhukov-i-kheminguey"},
		{name: "company with guillemets", input: "ООО «Закон и Право»", want: "ooo-zakon-i-pravo"},

		// --- English ---
		{name: "service name", input: "Family Law & Divorce (2026)", want: "family-law-divorce-2026"},
		{name: "post title", input: "Tax Advice: Q&A", want: "tax-advice-qa"},
		{name: "already a slug", input: "company-registration", want: "company-registration"},

		// --- Mixed and unsupported scripts ---
		{name: "three scripts", input: "  --Mixed ქართული и русский--  ", want: "mixed-kartuli-i-russkiy"},
		{name: "accented latin dropped", input: "Ünïcödé", want: "ncd"},
		{name: "cjk dropped", input: "中文 Law", want: "law"},

		// --- Separators ---
		{name: "tabs and newlines", input: "ნინო\tბერიძე\n", want: "nino-beridze"},
		{name: "repeated hyphens", input: "შრომის---კოდექსი", want: "shromis-kodeksi"},
		{name: "surrounding hyphens", input: "-право-", want: "pravo"},

		// --- Empty results ---
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "     ", want: ""},
		{name: "only hyphens", input: "---", want: ""},
		{name: "only punctuation", input: "«»!?№", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerateIdempotent verifies Generate(Generate(x)) == Generate(x).
func TestGenerateIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"«»",
		"ნინო ბერიძე",
		"Налоговый кодекс Грузии",
		"  --Mixed ქართული и русский--  ",
		"მუხლი 12.3",
		"nino-beridze",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := Generate(in)
			if twice := Generate(once); once != twice {
				t.Errorf("Generate not idempotent for %q: %q then %q", in, once, twice)
			}
		})
	}
}

func TestGenerateIgnoresCase(t *testing.T) {
	for _, input := range []string{"СЕМЕЙНОЕ ПРАВО", "Семейное Право", "семейное право"} {
		if got := Generate(input); got != "semeynoe-pravo" {
			t.Errorf("Generate(%q) = %q, want %q", input, got, "semeynoe-pravo")
		}
	}
}

func TestTransliterate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "ღ", want: "gh"},
		{input: "ხ", want: "kh"},
		{input: "щ", want: "shch"},
		{input: "ъь", want: ""},
		{input: "law", want: "law"},
		// Uppercase Cyrillic is not in the table.
		{input: "Щ", want: "Щ"},
	}

	for _, tt := range tests {
		if got := Transliterate(tt.input); got != tt.want {
			t.Errorf("Transliterate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTransliterationTableCoverage(t *testing.T) {
	alphabets := map[string]string{
		"georgian": "აბგდევზთიკლმნოპჟრსტუფქღყშჩცძწჭხჯჰ",
		"russian":  "абвгдеёжзийклмнопрстуфхцчшщъыьэюя",
	}

	for name, letters := range alphabets {
		if n := len([]rune(letters)); n != 33 {
			t.Errorf("%s alphabet has %d letters, want 33", name, n)
		}
		for _, r := range letters {
			if _, ok := transliteration[r]; !ok {
				t.Errorf("%s letter %q missing from transliteration table", name, r)
			}
		}
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "nino-beridze", want: true},
		{input: "mukhli-123", want: true},
		{input: "", want: false},
		{input: "Nino", want: false},
		{input: "-lead", want: false},
		{input: "double--hyphen", want: false},
		{input: "with space", want: false},
		{input: "ნინო", want: false},
		{input: "право", want: false},
	}
	for _, tt := range tests {
		if got := Valid(tt.input); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
