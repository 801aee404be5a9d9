package insights

import (
	"time"

	"github.com/hareru-app/backend/internal/locale"
	"github.com/hareru-app/backend/internal/model"
)

// FallbackInsight is the canned document returned when generation fails
// twice. It carries the neutral mid-range score and its locale's real
// 50-band label so canned and generated documents agree on the tables. It
// is never written to the cache.
func FallbackInsight(loc locale.Locale, now time.Time) *model.Insight {
	doc := &model.Insight{
		HealthScore:      50,
		HealthLabel:      loc.HealthLabel(50),
		SavingsPotential: 0,
		GeneratedAt:      now,
	}

	switch loc {
	case locale.Korean:
		doc.HealthDescription = "분석 데이터를 준비 중입니다."
		doc.SavingsDescription = "다음 분석에서 절약 포인트를 찾아드릴게요."
		doc.TopInsight = "이번 달 지출 기록을 확인해주세요."
		doc.WeeklyTrend = "데이터를 모으는 중입니다."
		doc.Suggestions = []string{
			"매일 지출을 기록하는 습관을 만들어 보세요.",
			"고정비를 먼저 정리하면 전체 흐름이 보여요.",
			"일주일 단위로 예산을 세워보는 것도 좋아요.",
		}
		doc.Encouragement = "기록을 계속하면 더 정확한 분석을 받을 수 있어요!"
	case locale.English:
		doc.HealthDescription = "We're preparing your analysis data."
		doc.SavingsDescription = "We'll find savings opportunities in your next analysis."
		doc.TopInsight = "Please review your spending records for this month."
		doc.WeeklyTrend = "Still gathering data."
		doc.Suggestions = []string{
			"Try building a habit of recording daily expenses.",
			"Start by organizing your fixed costs for a clearer picture.",
			"Setting a weekly budget can help you stay on track.",
		}
		doc.Encouragement = "Keep recording — the more data we have, the better insights you'll get!"
	default:
		doc.HealthDescription = "分析データを準備中です。"
		doc.SavingsDescription = "次の分析で節約ポイントをお探しします。"
		doc.TopInsight = "今月の支出記録をご確認ください。"
		doc.WeeklyTrend = "データを収集中です。"
		doc.Suggestions = []string{
			"毎日の支出を記録する習慣をつけてみましょう。",
			"まずは固定費を整理すると、全体の流れが見えてきます。",
			"一週間単位で予算を立ててみるのもおすすめです。",
		}
		doc.Encouragement = "記録を続けると、より正確な分析ができるようになりますよ！"
	}

	return doc
}

// NoDataInsight is the fixed document for a month with no transactions.
// This path never touches the model or the cache.
func NoDataInsight(loc locale.Locale, now time.Time) *model.Insight {
	doc := &model.Insight{
		HealthScore:      0,
		HealthLabel:      loc.NoDataLabel(),
		SavingsPotential: 0,
		GeneratedAt:      now,
	}

	switch loc {
	case locale.Korean:
		doc.HealthDescription = "이번 달 거래 내역이 없습니다."
		doc.TopInsight = "지출을 기록하면 맞춤 인사이트를 받을 수 있어요."
		doc.Suggestions = []string{
			"첫 지출을 기록해 보세요!",
			"고정비(월세, 통신비 등)부터 입력하면 편해요.",
			"영수증이 있다면 바로 기록해 보세요.",
		}
		doc.Encouragement = "첫 기록이 가장 중요한 한 걸음이에요!"
	case locale.English:
		doc.HealthDescription = "No transactions found for this month."
		doc.TopInsight = "Start recording your expenses to get personalized insights."
		doc.Suggestions = []string{
			"Record your first expense to get started!",
			"Start with fixed costs like rent and utilities.",
			"If you have a receipt handy, log it now.",
		}
		doc.Encouragement = "Your first record is the most important step!"
	default:
		doc.HealthDescription = "今月の取引データがありません。"
		doc.TopInsight = "支出を記録すると、あなたに合ったインサイトが届きます。"
		doc.Suggestions = []string{
			"最初の支出を記録してみましょう！",
			"家賃や通信費などの固定費から入力すると楽ですよ。",
			"レシートがあれば、今すぐ記録してみてください。",
		}
		doc.Encouragement = "最初の一歩が一番大切です！"
	}

	return doc
}
