package service

import "PollingNav-App/internal/domain/model"

// phrases は1言語分の案内文テンプレート
type phrases struct {
	continueGeneric   string // 全距離をカバーする汎用ステップ
	headToward        string // %[1]s: ランドマーク名, %[2]s: カテゴリ名
	continuePast      string // %s: ランドマーク名
	destinationNearby string // %s: 最後のランドマーク名
	destinationRight  string // %s: 最後のランドマーク名
	almostThere       string
	continueFor       string // %d: 残りメートル
	approaching       string // %s: ランドマーク名
	headTowardAhead   string // %[1]s: ランドマーク名, %[2]s: カテゴリ名, %[3]s: 距離
	aboutRange        string // %[1]d–%[2]d 分
	aboutSingle       string // %d 分
	aboutRangeText    string // %[1]s–%[2]s（1時間以上）
	straightLine      string // %s: 距離

	categories map[model.LandmarkCategory]string
	landmark   string
}

var phraseTable = map[model.LanguageCode]phrases{
	model.LanguageEnglish: {
		continueGeneric:   "Continue following the directions provided to your polling unit",
		headToward:        "Head toward %[1]s, a %[2]s",
		continuePast:      "Continue past %s",
		destinationNearby: "After %s, your polling unit is nearby",
		destinationRight:  "Your polling unit is on your right after %s",
		almostThere:       "You are almost there. Check your right for the polling unit",
		continueFor:       "Continue for %d meters",
		approaching:       "You are approaching %s. Walk past it",
		headTowardAhead:   "Head toward %[1]s (%[2]s), %[3]s ahead",
		aboutRange:        "about %d–%d minutes",
		aboutSingle:       "about %d minutes",
		aboutRangeText:    "about %s–%s",
		straightLine:      "~%s (straight line)",
		categories: map[model.LandmarkCategory]string{
			model.CategorySchool:  "school",
			model.CategoryMosque:  "mosque",
			model.CategoryChurch:  "church",
			model.CategoryMarket:  "market",
			model.CategoryBusStop: "bus stop",
			model.CategoryOther:   "landmark",
		},
		landmark: "landmark",
	},
	model.LanguageYoruba: {
		continueGeneric:   "Tẹ̀síwájú ní títẹ̀lé ìtọ́sọ́nà tí a fún ọ lọ sí ibùdó ìdìbò rẹ",
		headToward:        "Lọ sí ọ̀dọ̀ %[1]s, %[2]s kan",
		continuePast:      "Tẹ̀síwájú kọjá %s",
		destinationNearby: "Lẹ́yìn %s, ibùdó ìdìbò rẹ wà nítòsí",
		destinationRight:  "Ibùdó ìdìbò rẹ wà ní ọwọ́ ọ̀tún rẹ lẹ́yìn %s",
		almostThere:       "O ti fẹ́rẹ̀ dé. Wo ọwọ́ ọ̀tún rẹ fún ibùdó ìdìbò",
		continueFor:       "Tẹ̀síwájú fún mítà %d",
		approaching:       "O ń sún mọ́ %s. Kọjá rẹ̀",
		headTowardAhead:   "Lọ sí ọ̀dọ̀ %[1]s (%[2]s), %[3]s níwájú",
		aboutRange:        "nǹkan bí ìṣẹ́jú %d–%d",
		aboutSingle:       "nǹkan bí ìṣẹ́jú %d",
		aboutRangeText:    "nǹkan bí %s–%s",
		straightLine:      "~%s (ní títọ́)",
		categories: map[model.LandmarkCategory]string{
			model.CategorySchool:  "ilé ìwé",
			model.CategoryMosque:  "mọ́sálásí",
			model.CategoryChurch:  "ṣọ́ọ̀ṣì",
			model.CategoryMarket:  "ọjà",
			model.CategoryBusStop: "ibùdókọ̀ bọ́ọ̀sì",
			model.CategoryOther:   "àmì ilẹ̀",
		},
		landmark: "àmì ilẹ̀",
	},
	model.LanguagePidgin: {
		continueGeneric:   "Continue dey follow di direction wey we give you go your polling unit",
		headToward:        "Waka go %[1]s, e be %[2]s",
		continuePast:      "Continue waka pass %s",
		destinationNearby: "After %s, your polling unit dey near",
		destinationRight:  "Your polling unit dey your right hand after %s",
		almostThere:       "You don almost reach. Check your right hand for di polling unit",
		continueFor:       "Continue waka for %d meters",
		approaching:       "You don near %s. Waka pass am",
		headTowardAhead:   "Waka go %[1]s (%[2]s), e remain %[3]s",
		aboutRange:        "about %d–%d minutes",
		aboutSingle:       "about %d minutes",
		aboutRangeText:    "about %s–%s",
		straightLine:      "~%s (straight line)",
		categories: map[model.LandmarkCategory]string{
			model.CategorySchool:  "school",
			model.CategoryMosque:  "mosque",
			model.CategoryChurch:  "church",
			model.CategoryMarket:  "market",
			model.CategoryBusStop: "bus stop",
			model.CategoryOther:   "landmark",
		},
		landmark: "landmark",
	},
}

// phrasesFor は言語の文言を返す（未対応の言語は英語）
func phrasesFor(lang model.LanguageCode) phrases {
	if p, ok := phraseTable[lang]; ok {
		return p
	}
	return phraseTable[model.LanguageEnglish]
}

// CategoryName はカテゴリの言語別名称を返す（未知のカテゴリは「ランドマーク」）
func CategoryName(category model.LandmarkCategory, lang model.LanguageCode) string {
	p := phrasesFor(lang)
	if name, ok := p.categories[category]; ok {
		return name
	}
	return p.landmark
}
