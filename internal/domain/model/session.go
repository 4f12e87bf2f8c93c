package model

// SessionState はナビゲーションセッションの状態
type SessionState string

const (
	StateWelcome               SessionState = "welcome"
	StateLanguageSelection     SessionState = "language_selection"
	StateVoiceConsent          SessionState = "voice_consent"
	StateLocationPermission    SessionState = "location_permission"
	StatePollingUnitInput      SessionState = "polling_unit_input"
	StatePollingUnitValidation SessionState = "polling_unit_validation"
	StateNavigation            SessionState = "navigation"
	StateArrival               SessionState = "arrival"
	StateConfusionHelp         SessionState = "confusion_help"
)

// GetAllStates は全状態の一覧を取得する
func GetAllStates() []SessionState {
	return []SessionState{
		StateWelcome,
		StateLanguageSelection,
		StateVoiceConsent,
		StateLocationPermission,
		StatePollingUnitInput,
		StatePollingUnitValidation,
		StateNavigation,
		StateArrival,
		StateConfusionHelp,
	}
}

// IsValid は定義済みの状態かどうかを判定する
func (s SessionState) IsValid() bool {
	for _, st := range GetAllStates() {
		if st == s {
			return true
		}
	}
	return false
}

// SessionContext はセッション中に蓄積される利用者の状況
type SessionContext struct {
	CurrentState         SessionState  `json:"current_state"`
	PreviousState        *SessionState `json:"previous_state,omitempty"`
	LocationGranted      bool          `json:"location_granted"`
	LanguageSelected     LanguageCode  `json:"language_selected"`
	VoiceEnabled         bool          `json:"voice_enabled"`
	PollingUnitCode      *string       `json:"polling_unit_code,omitempty"`
	PollingUnitValidated bool          `json:"polling_unit_validated"`
	IsNavigating         bool          `json:"is_navigating"`
	HasArrived           bool          `json:"has_arrived"`
	NeedsHelp            bool          `json:"needs_help"`
	UserLocation         *LatLng       `json:"user_location,omitempty"`
	DestinationData      *PollingUnit  `json:"destination_data,omitempty"`
}

// DefaultSessionContext は初期状態のコンテキストを返す
func DefaultSessionContext() SessionContext {
	return SessionContext{
		CurrentState:     StateWelcome,
		LanguageSelected: LanguageEnglish,
	}
}

// HasPollingUnitCode は投票所コードが設定済みかを判定する
func (c *SessionContext) HasPollingUnitCode() bool {
	return c.PollingUnitCode != nil && *c.PollingUnitCode != ""
}

// ContextUpdate はコンテキストの部分更新（nilのフィールドは変更しない）
type ContextUpdate struct {
	LocationGranted      *bool
	LanguageSelected     *LanguageCode
	VoiceEnabled         *bool
	PollingUnitCode      *string
	PollingUnitValidated *bool
	IsNavigating         *bool
	HasArrived           *bool
	NeedsHelp            *bool
	UserLocation         *LatLng
	DestinationData      *PollingUnit
}

// Bool は bool 値のポインタを返す（ContextUpdate 構築用）
func Bool(v bool) *bool {
	return &v
}

// String は文字列のポインタを返す（ContextUpdate 構築用）
func String(v string) *string {
	return &v
}

// SessionView はAPIに返すセッションの状態
type SessionView struct {
	ID      string         `json:"session_id"`
	State   SessionState   `json:"state"`
	Context SessionContext `json:"context"`
}
