package model

import "strings"

// LandmarkCategory はランドマークの種別
type LandmarkCategory string

// LandmarkCategoryConstants は案内で使用するランドマーク種別の定数
const (
	CategorySchool  LandmarkCategory = "school"
	CategoryMosque  LandmarkCategory = "mosque"
	CategoryChurch  LandmarkCategory = "church"
	CategoryMarket  LandmarkCategory = "market"
	CategoryBusStop LandmarkCategory = "bus_stop"
	CategoryOther   LandmarkCategory = "other"
)

// TravelMode は移動手段
type TravelMode string

const (
	TravelModeWalking TravelMode = "walking"
	TravelModeDriving TravelMode = "driving"
)

// ParseTravelMode は文字列から移動手段を取得する（不明な場合は徒歩）
func ParseTravelMode(mode string) TravelMode {
	if TravelMode(mode) == TravelModeDriving {
		return TravelModeDriving
	}
	return TravelModeWalking
}

// categoryAliases は外部POIデータのカテゴリ表記を正規化するためのマッピング
var categoryAliases = map[string]LandmarkCategory{
	"school":      CategorySchool,
	"primary":     CategorySchool,
	"secondary":   CategorySchool,
	"university":  CategorySchool,
	"mosque":      CategoryMosque,
	"church":      CategoryChurch,
	"cathedral":   CategoryChurch,
	"market":      CategoryMarket,
	"marketplace": CategoryMarket,
	"bus_stop":    CategoryBusStop,
	"bus_station": CategoryBusStop,
	"motor_park":  CategoryBusStop,
}

// ParseLandmarkCategory はPOIのカテゴリ文字列を案内用カテゴリに変換する
func ParseLandmarkCategory(category string) LandmarkCategory {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(category))]; ok {
		return c
	}
	return CategoryOther
}

// GetAllCategories は全カテゴリの一覧を取得する
func GetAllCategories() []LandmarkCategory {
	return []LandmarkCategory{
		CategorySchool,
		CategoryMosque,
		CategoryChurch,
		CategoryMarket,
		CategoryBusStop,
		CategoryOther,
	}
}
