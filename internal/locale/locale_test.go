package locale

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		code string
		want Locale
	}{
		{"ja", Japanese},
		{"ko", Korean},
		{"en", English},
		{"", Japanese},
		{"fr", Japanese},
		{"ja-JP", Japanese},
	}
	for _, tc := range cases {
		if got := Resolve(tc.code); got != tc.want {
			t.Errorf("Resolve(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestHealthLabelBands(t *testing.T) {
	// Every band boundary for every locale must hit the exact table entry.
	cases := []struct {
		loc   Locale
		score int
		want  string
	}{
		{Japanese, 100, "とても健全"},
		{Japanese, 90, "とても健全"},
		{Japanese, 89, "良好"},
		{Japanese, 70, "良好"},
		{Japanese, 69, "要注意"},
		{Japanese, 50, "要注意"},
		{Japanese, 49, "改善しましょう"},
		{Japanese, 0, "改善しましょう"},

		{Korean, 100, "매우 건강"},
		{Korean, 90, "매우 건강"},
		{Korean, 89, "양호"},
		{Korean, 70, "양호"},
		{Korean, 69, "주의 필요"},
		{Korean, 50, "주의 필요"},
		{Korean, 49, "개선이 필요해요"},
		{Korean, 0, "개선이 필요해요"},

		{English, 100, "Excellent"},
		{English, 90, "Excellent"},
		{English, 89, "Good"},
		{English, 70, "Good"},
		{English, 69, "Needs Attention"},
		{English, 50, "Needs Attention"},
		{English, 49, "Let's Improve"},
		{English, 0, "Let's Improve"},
	}
	for _, tc := range cases {
		if got := tc.loc.HealthLabel(tc.score); got != tc.want {
			t.Errorf("%s.HealthLabel(%d) = %q, want %q", tc.loc, tc.score, got, tc.want)
		}
	}
}

func TestNoDataLabel(t *testing.T) {
	if got := Japanese.NoDataLabel(); got != "データなし" {
		t.Errorf("ja no-data label = %q", got)
	}
	if got := Korean.NoDataLabel(); got != "데이터 없음" {
		t.Errorf("ko no-data label = %q", got)
	}
	if got := English.NoDataLabel(); got != "No Data" {
		t.Errorf("en no-data label = %q", got)
	}
}

func TestPromptDirective(t *testing.T) {
	if got := English.PromptDirective(); got != "Respond in English" {
		t.Errorf("en directive = %q", got)
	}
	if got := Resolve("unknown").PromptDirective(); got != "Respond in Japanese (日本語)" {
		t.Errorf("fallback directive = %q", got)
	}
}
