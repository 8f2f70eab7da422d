package canonical

import "github.com/okaimono/sage/internal/model"

// Tables is the immutable rule configuration for a Resolver. It is built
// once at process start and shared by concurrent callers without locking.
type Tables struct {
	Items            []model.ItemRule
	RescueNormalize  []model.RescueNormalizeEntry
	RescueCandidates []model.RescueCandidateRule
	Exclusions       []string
}

// DefaultTables returns the built-in rule set. Table order is priority
// order: earlier rules are more specific and win outright.
func DefaultTables() Tables {
	return Tables{
		Items: []model.ItemRule{
			{Canonical: "牛乳", Keywords: []string{"牛乳", "ミルク", "MILK"}},
			{Canonical: "食パン", Keywords: []string{"食パン", "食ﾊﾟﾝ"}},
			{Canonical: "鶏卵", Keywords: []string{"鶏卵", "卵", "たまご", "玉子", "EGG", "タマゴ"}},
			{Canonical: "米", Keywords: []string{"米", "コメ", "こしひかり", "あきたこまち"}},
			{Canonical: "バナナ", Keywords: []string{"バナナ", "BANANA"}},
			{Canonical: "キャベツ", Keywords: []string{"キャベツ"}},
			{Canonical: "たまねぎ", Keywords: []string{"たまねぎ", "玉ねぎ", "オニオン"}},
			{Canonical: "じゃがいも", Keywords: []string{"じゃがいも", "ジャガ", "ポテト"}},
			{Canonical: "トマト", Keywords: []string{"トマト"}},
			{Canonical: "りんご", Keywords: []string{"リンゴ", "林檎", "APPLE"}},
			{Canonical: "アイスクリーム", Keywords: []string{"アイス", "アイスクリーム", "ICE"}},
			{
				Canonical: "即席めん",
				Keywords:  []string{"即席", "インスタント", "カップ麺", "カップラーメン", "カップうどん", "カップそば", "袋麺"},
				Patterns: []string{
					`(カップ|即席|インスタント)\s*(ラーメン|らーめん|うどん|そば|焼そば|焼きそば)`,
					`(ラーメン|らーめん|うどん|そば|焼そば|焼きそば)\s*(カップ|即席|インスタント)`,
				},
			},
			{
				Canonical: "さば缶詰",
				Keywords:  []string{"サバ水煮", "さば水煮", "鯖水煮", "サバミズニ", "さば缶", "サバ缶"},
				Patterns: []string{
					`(サバ|さば|鯖).*(水煮|みずに|ミズニ|味噌煮|みそ煮).*(缶|CAN|\d+\s*[Gg])?`,
				},
			},
			{Canonical: "ティッシュ", Keywords: []string{"ティッシュ", "ﾃｨｯｼｭ", "TISSUE"}},
			{Canonical: "トイレットペーパー", Keywords: []string{"トイレット", "ﾄｲﾚｯﾄ", "ペーパー", "TP"}},
		},
		RescueNormalize: []model.RescueNormalizeEntry{
			{Key: "タマゴ", Canonical: "鶏卵"},
			{Key: "たまご", Canonical: "鶏卵"},
			{Key: "玉子", Canonical: "鶏卵"},
			{Key: "卵", Canonical: "鶏卵"},
		},
		RescueCandidates: []model.RescueCandidateRule{
			{
				ID:            "canned_foods",
				MatchAny:      []string{"缶詰", "CAN"},
				MatchPatterns: []string{`缶$`},
				Candidates:    []string{"さば水煮", "魚介缶詰", "さば缶", "まぐろ缶", "つな缶", "魚介加工品", "加工食品"},
			},
			{
				ID:         "kitsune_udon",
				MatchAny:   []string{"きつねうどん"},
				Candidates: []string{"うどん", "めん類", "即席めん", "ゆでうどん", "調理麺"},
			},
			{
				ID:         "udon",
				MatchAll:   []string{"うどん", "きつね"},
				Candidates: []string{"うどん", "めん類", "即席めん", "ゆでうどん", "調理麺"},
			},
		},
		Exclusions: []string{
			"合計", "小計", "消費税", "内税", "外税",
			"お預り", "預り", "お預かり",
			"お釣り", "釣り", "釣",
			"レジ", "TEL",
		},
	}
}
