package service

import (
	"log"
	"sync"

	"PollingNav-App/internal/domain/model"
)

// allowedTransitions は各状態から遷移可能な状態の一覧
var allowedTransitions = map[model.SessionState][]model.SessionState{
	model.StateWelcome:               {model.StateLanguageSelection},
	model.StateLanguageSelection:     {model.StateVoiceConsent},
	model.StateVoiceConsent:          {model.StateLocationPermission},
	model.StateLocationPermission:    {model.StateNavigation, model.StateConfusionHelp, model.StatePollingUnitInput},
	model.StatePollingUnitInput:      {model.StatePollingUnitValidation},
	model.StatePollingUnitValidation: {model.StateNavigation, model.StatePollingUnitInput},
	model.StateNavigation:            {model.StateArrival, model.StateConfusionHelp},
	model.StateArrival:               {model.StateWelcome},
	model.StateConfusionHelp:         {model.StateNavigation, model.StatePollingUnitInput},
}

// NavigationSession は1人の利用者の案内フローの状態を保持する
// 操作はセッション単位でミューテックスにより直列化される
type NavigationSession struct {
	mu      sync.Mutex
	state   model.SessionState
	context model.SessionContext
}

// NewNavigationSession は初期状態（welcome）のセッションを生成する
func NewNavigationSession() *NavigationSession {
	return &NavigationSession{
		state:   model.StateWelcome,
		context: model.DefaultSessionContext(),
	}
}

// State は現在の状態を返す
func (s *NavigationSession) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Context は現在のコンテキストのコピーを返す
func (s *NavigationSession) Context() model.SessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// CanTransitionTo は target への遷移が許可されているかを返す（副作用なし）
func (s *NavigationSession) CanTransitionTo(target model.SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canTransitionTo(target)
}

// TransitionTo は target へ遷移する。許可されない場合は何も変更せず false を返す
func (s *NavigationSession) TransitionTo(target model.SessionState) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionTo(target)
}

// UpdateContext はコンテキストに部分更新をマージする
func (s *NavigationSession) UpdateContext(update model.ContextUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateContext(update)
}

// GrantLocationPermission は位置情報の許可を記録する
// 次の状態（案内開始か投票所コード入力か）は呼び出し側が判断するため、ここでは遷移しない
func (s *NavigationSession) GrantLocationPermission(location *model.LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateContext(model.ContextUpdate{
		LocationGranted: model.Bool(true),
		UserLocation:    location,
	})
}

// DenyLocationPermission は位置情報の拒否を記録し、ヘルプへ遷移する
func (s *NavigationSession) DenyLocationPermission() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateContext(model.ContextUpdate{LocationGranted: model.Bool(false)})
	return s.transitionTo(model.StateConfusionHelp)
}

// SelectLanguage は言語を設定し、音声案内の同意へ遷移する
func (s *NavigationSession) SelectLanguage(lang model.LanguageCode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !lang.IsSupported() {
		lang = model.LanguageEnglish
	}
	s.updateContext(model.ContextUpdate{LanguageSelected: &lang})
	return s.transitionTo(model.StateVoiceConsent)
}

// SetVoicePreference は音声案内の設定を記録し、位置情報の許可へ遷移する
func (s *NavigationSession) SetVoicePreference(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateContext(model.ContextUpdate{VoiceEnabled: model.Bool(enabled)})
	return s.transitionTo(model.StateLocationPermission)
}

// RequestPollingUnitInput は投票所コードの入力へ遷移する
func (s *NavigationSession) RequestPollingUnitInput() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionTo(model.StatePollingUnitInput)
}

// SubmitPollingUnitCode は投票所コードを記録し、検証へ遷移する
func (s *NavigationSession) SubmitPollingUnitCode(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateContext(model.ContextUpdate{PollingUnitCode: model.String(code)})
	return s.transitionTo(model.StatePollingUnitValidation)
}

// CompletePollingUnitValidation は検証結果を記録し、成功なら案内、失敗なら再入力へ遷移する
func (s *NavigationSession) CompletePollingUnitValidation(success bool, destination *model.PollingUnit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if success {
		s.updateContext(model.ContextUpdate{
			PollingUnitValidated: model.Bool(true),
			DestinationData:      destination,
		})
		return s.transitionTo(model.StateNavigation)
	}
	s.updateContext(model.ContextUpdate{PollingUnitValidated: model.Bool(false)})
	return s.transitionTo(model.StatePollingUnitInput)
}

// StartNavigation は案内を開始する
func (s *NavigationSession) StartNavigation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionTo(model.StateNavigation)
}

// ConfirmArrival は到着を確定する
func (s *NavigationSession) ConfirmArrival() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionTo(model.StateArrival)
}

// RequestHelp はヘルプへ遷移する
func (s *NavigationSession) RequestHelp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionTo(model.StateConfusionHelp)
}

// ResumeNavigation はヘルプ状態を解除して案内を再開する
func (s *NavigationSession) ResumeNavigation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canTransitionTo(model.StateNavigation) {
		log.Printf("⚠️ 案内を再開できません: %s → %s", s.state, model.StateNavigation)
		return false
	}
	s.updateContext(model.ContextUpdate{NeedsHelp: model.Bool(false)})
	return s.transitionTo(model.StateNavigation)
}

// Reset は初期状態と既定のコンテキストに戻す
func (s *NavigationSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = model.StateWelcome
	s.context = model.DefaultSessionContext()
}

func (s *NavigationSession) canTransitionTo(target model.SessionState) bool {
	// ディープリンク（投票所コード付きURL）からの入場は言語・音声設定を省略できる
	if s.state == model.StateWelcome && target == model.StateLocationPermission && s.context.HasPollingUnitCode() {
		return true
	}
	for _, allowed := range allowedTransitions[s.state] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s *NavigationSession) transitionTo(target model.SessionState) bool {
	if !s.canTransitionTo(target) {
		log.Printf("⚠️ 無効な状態遷移: %s → %s", s.state, target)
		return false
	}

	previous := s.state
	s.context.PreviousState = &previous
	s.state = target
	s.context.CurrentState = target

	switch target {
	case model.StateNavigation:
		s.context.IsNavigating = true
	case model.StateArrival:
		s.context.HasArrived = true
		s.context.IsNavigating = false
	case model.StateConfusionHelp:
		s.context.NeedsHelp = true
	}
	return true
}

func (s *NavigationSession) updateContext(u model.ContextUpdate) {
	c := &s.context
	if u.LocationGranted != nil {
		c.LocationGranted = *u.LocationGranted
	}
	if u.LanguageSelected != nil {
		c.LanguageSelected = *u.LanguageSelected
	}
	if u.VoiceEnabled != nil {
		c.VoiceEnabled = *u.VoiceEnabled
	}
	if u.PollingUnitCode != nil {
		code := *u.PollingUnitCode
		c.PollingUnitCode = &code
	}
	if u.PollingUnitValidated != nil {
		c.PollingUnitValidated = *u.PollingUnitValidated
	}
	if u.IsNavigating != nil {
		c.IsNavigating = *u.IsNavigating
	}
	if u.HasArrived != nil {
		c.HasArrived = *u.HasArrived
	}
	if u.NeedsHelp != nil {
		c.NeedsHelp = *u.NeedsHelp
	}
	if u.UserLocation != nil {
		loc := *u.UserLocation
		c.UserLocation = &loc
	}
	if u.DestinationData != nil {
		c.DestinationData = u.DestinationData
	}
	c.CurrentState = s.state
}

// snapshot はポインタを共有しないコンテキストのコピーを作る
func (s *NavigationSession) snapshot() model.SessionContext {
	c := s.context
	if c.PreviousState != nil {
		prev := *c.PreviousState
		c.PreviousState = &prev
	}
	if c.PollingUnitCode != nil {
		code := *c.PollingUnitCode
		c.PollingUnitCode = &code
	}
	if c.UserLocation != nil {
		loc := *c.UserLocation
		c.UserLocation = &loc
	}
	if c.DestinationData != nil {
		dest := *c.DestinationData
		c.DestinationData = &dest
	}
	return c
}
