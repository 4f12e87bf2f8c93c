package model

import "fmt"

// PollingUnitCode は正規化済みの投票所コード
type PollingUnitCode struct {
	Raw      string `json:"raw"`
	WardCode string `json:"ward_code"` // 2桁
	PUCode   string `json:"pu_code"`   // 3桁
}

// Normalized は "WW-PPP" 形式の文字列を返す
func (c PollingUnitCode) Normalized() string {
	return fmt.Sprintf("%s-%s", c.WardCode, c.PUCode)
}

// PollingUnit 投票所（案内の目的地）
type PollingUnit struct {
	ID       string    `json:"id" db:"id"`
	Code     string    `json:"code" db:"code"` // "WW-PPP"
	Name     string    `json:"name" db:"name"`
	WardName string    `json:"ward_name" db:"ward_name"`
	LGA      string    `json:"lga" db:"lga"`
	Location *Geometry `json:"location" db:"location"`
}

// ToLatLng 投票所の位置をLatLng型に変換
func (p *PollingUnit) ToLatLng() LatLng {
	return p.Location.ToLatLng()
}

// HasLocation 位置情報が設定されているかチェック
func (p *PollingUnit) HasLocation() bool {
	return p != nil && p.Location != nil && len(p.Location.Coordinates) >= 2
}
