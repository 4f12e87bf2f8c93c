package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"PollingNav-App/internal/config"
	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
	"PollingNav-App/internal/domain/service"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrTransitionRejected  = errors.New("transition not allowed from current state")
	ErrDestinationUnknown  = errors.New("polling unit has not been validated")
	ErrLocationUnknown     = errors.New("user location is not available")
	ErrNoRoutePlan         = errors.New("route has not been planned")
	ErrPollingUnitNotFound = errors.New("polling unit not found")
)

type NavigationUseCase interface {
	// CreateSession は新しいセッションを開始する。pollingUnitCode が指定された場合はディープリンク入場として扱う
	CreateSession(ctx context.Context, pollingUnitCode string) (*model.SessionView, error)
	GetSession(ctx context.Context, id string) (*model.SessionView, error)
	DeleteSession(ctx context.Context, id string) error

	// Transition は任意の状態への遷移を要求する（許可されない場合は ErrTransitionRejected）
	Transition(ctx context.Context, id string, target model.SessionState) (*model.SessionView, error)

	SelectLanguage(ctx context.Context, id string, language string) (*model.SessionView, error)
	SetVoicePreference(ctx context.Context, id string, enabled bool) (*model.SessionView, error)
	GrantLocation(ctx context.Context, id string, location model.LatLng) (*model.SessionView, error)
	DenyLocation(ctx context.Context, id string) (*model.SessionView, error)
	SubmitPollingUnitCode(ctx context.Context, id string, code string) (*model.SessionView, error)
	StartNavigation(ctx context.Context, id string) (*model.SessionView, error)
	ConfirmArrival(ctx context.Context, id string) (*model.SessionView, error)
	RequestHelp(ctx context.Context, id string) (*model.SessionView, error)
	ResumeNavigation(ctx context.Context, id string) (*model.SessionView, error)
	Reset(ctx context.Context, id string) (*model.SessionView, error)

	// PlanRoute は現在地から検証済みの投票所までのルート・見積もり・案内を計算する
	PlanRoute(ctx context.Context, id string, mode model.TravelMode) (*model.RoutePlan, error)
	// Progress は進捗（ルート上の距離または現在地）から次の案内を返す
	Progress(ctx context.Context, id string, input ProgressInput) (*model.NavigationStep, error)
}

// ProgressInput は進捗の入力（どちらか一方を指定）
type ProgressInput struct {
	DistanceTravelled *float64
	Location          *model.LatLng
}

// NavigationUseCaseConfig はユースケースの調整値
type NavigationUseCaseConfig struct {
	RouteTimeout  time.Duration
	CacheTTLHours int
}

// navigationUseCaseImpl はNavigationUseCaseの実装
type navigationUseCaseImpl struct {
	store              *SessionStore
	pollingUnitRepo    repository.PollingUnitsRepository
	directionsProvider repository.DirectionsProvider
	routeCache         repository.RouteCacheRepository
	poiSearchHelper    *helper.POISearchHelper
	estimator          service.TravelEstimator
	generator          service.InstructionGenerator
	cfg                NavigationUseCaseConfig
}

// NewNavigationUseCase は新しいNavigationUseCaseインスタンスを作成
// routeCache は nil でもよい（キャッシュなし）
func NewNavigationUseCase(
	store *SessionStore,
	pollingUnitRepo repository.PollingUnitsRepository,
	directionsProvider repository.DirectionsProvider,
	routeCache repository.RouteCacheRepository,
	poiSearchHelper *helper.POISearchHelper,
	cfg NavigationUseCaseConfig,
) NavigationUseCase {
	if cfg.RouteTimeout <= 0 {
		cfg.RouteTimeout = 8 * time.Second
	}
	if cfg.CacheTTLHours <= 0 {
		cfg.CacheTTLHours = 6
	}
	return &navigationUseCaseImpl{
		store:              store,
		pollingUnitRepo:    pollingUnitRepo,
		directionsProvider: directionsProvider,
		routeCache:         routeCache,
		poiSearchHelper:    poiSearchHelper,
		estimator:          service.NewTravelEstimator(),
		generator:          service.NewInstructionGenerator(),
		cfg:                cfg,
	}
}

func (u *navigationUseCaseImpl) CreateSession(ctx context.Context, pollingUnitCode string) (*model.SessionView, error) {
	id, entry := u.store.Create()
	if pollingUnitCode != "" {
		entry.session.UpdateContext(model.ContextUpdate{PollingUnitCode: model.String(pollingUnitCode)})
	}
	log.Printf("🚀 セッション開始 (ID: %s, ディープリンク: %t)", id, pollingUnitCode != "")
	return view(id, entry), nil
}

func (u *navigationUseCaseImpl) GetSession(ctx context.Context, id string) (*model.SessionView, error) {
	entry, err := u.entry(id)
	if err != nil {
		return nil, err
	}
	return view(id, entry), nil
}

func (u *navigationUseCaseImpl) DeleteSession(ctx context.Context, id string) error {
	if !u.store.Delete(id) {
		return fmt.Errorf("セッション %s: %w", id, ErrSessionNotFound)
	}
	log.Printf("✅ セッション終了 (ID: %s)", id)
	return nil
}

func (u *navigationUseCaseImpl) Transition(ctx context.Context, id string, target model.SessionState) (*model.SessionView, error) {
	return u.apply(id, func(s *service.NavigationSession) bool {
		return s.TransitionTo(target)
	})
}

func (u *navigationUseCaseImpl) SelectLanguage(ctx context.Context, id string, language string) (*model.SessionView, error) {
	return u.apply(id, func(s *service.NavigationSession) bool {
		return s.SelectLanguage(model.ParseLanguage(language))
	})
}

func (u *navigationUseCaseImpl) SetVoicePreference(ctx context.Context, id string, enabled bool) (*model.SessionView, error) {
	return u.apply(id, func(s *service.NavigationSession) bool {
		return s.SetVoicePreference(enabled)
	})
}

// GrantLocation は位置情報の許可を記録したうえで次の状態を決める
// 投票所コードが既知なら検証して案内へ、未知または不正ならコード入力へ進める
func (u *navigationUseCaseImpl) GrantLocation(ctx context.Context, id string, location model.LatLng) (*model.SessionView, error) {
	entry, err := u.entry(id)
	if err != nil {
		return nil, err
	}
	s := entry.session
	if s.State() != model.StateLocationPermission {
		return view(id, entry), fmt.Errorf("%s で位置情報を許可できません: %w", s.State(), ErrTransitionRejected)
	}
	s.GrantLocationPermission(&location)

	sc := s.Context()
	if !sc.HasPollingUnitCode() {
		s.RequestPollingUnitInput()
		return view(id, entry), nil
	}

	unit, lookupErr := u.lookupPollingUnit(ctx, *sc.PollingUnitCode)
	if lookupErr != nil {
		log.Printf("⚠️ ディープリンクの投票所コードを解決できません (ID: %s): %v", id, lookupErr)
		s.RequestPollingUnitInput()
		return view(id, entry), nil
	}

	s.UpdateContext(model.ContextUpdate{
		PollingUnitValidated: model.Bool(true),
		DestinationData:      unit,
	})
	s.StartNavigation()
	return view(id, entry), nil
}

func (u *navigationUseCaseImpl) DenyLocation(ctx context.Context, id string) (*model.SessionView, error) {
	return u.apply(id, func(s *service.NavigationSession) bool {
		return s.DenyLocationPermission()
	})
}

// SubmitPollingUnitCode はコードの形式を検証し、投票所を検索して結果をセッションに反映する
// 形式エラーは検索前に helper.ValidationError として返す
func (u *navigationUseCaseImpl) SubmitPollingUnitCode(ctx context.Context, id string, code string) (*model.SessionView, error) {
	entry, err := u.entry(id)
	if err != nil {
		return nil, err
	}

	parsed, err := helper.ValidatePollingUnitCode(code)
	if err != nil {
		return view(id, entry), err
	}

	s := entry.session
	if !s.SubmitPollingUnitCode(parsed.Normalized()) {
		return view(id, entry), fmt.Errorf("%s からコードを送信できません: %w", s.State(), ErrTransitionRejected)
	}

	unit, err := u.pollingUnitRepo.FindByCode(ctx, *parsed)
	if err != nil || !unit.HasLocation() {
		s.CompletePollingUnitValidation(false, nil)
		if err == nil || errors.Is(err, repository.ErrNotFound) {
			log.Printf("⚠️ 投票所が見つかりません (ID: %s, コード: %s)", id, parsed.Normalized())
			return view(id, entry), fmt.Errorf("%s: %w", parsed.Normalized(), ErrPollingUnitNotFound)
		}
		return view(id, entry), fmt.Errorf("投票所の検索に失敗: %w", err)
	}

	s.CompletePollingUnitValidation(true, unit)
	log.Printf("✅ 投票所を確認 (ID: %s, %s %s)", id, unit.Code, unit.Name)
	return view(id, entry), nil
}

func (u *navigationUseCaseImpl) StartNavigation(ctx context.Context, id string) (*model.SessionView, error) {
	return u.apply(id, func(s *service.NavigationSession) bool {
		return s.StartNavigation()
	})
}

func (u *navigationUseCaseImpl) ConfirmArrival(ctx context.Context, id string) (*model.SessionView, error) {
	return u.apply(id, func(s *service.NavigationSession) bool {
		return s.ConfirmArrival()
	})
}

func (u *navigationUseCaseImpl) RequestHelp(ctx context.Context, id string) (*model.SessionView, error) {
	return u.apply(id, func(s *service.NavigationSession) bool {
		return s.RequestHelp()
	})
}

func (u *navigationUseCaseImpl) ResumeNavigation(ctx context.Context, id string) (*model.SessionView, error) {
	return u.apply(id, func(s *service.NavigationSession) bool {
		return s.ResumeNavigation()
	})
}

func (u *navigationUseCaseImpl) Reset(ctx context.Context, id string) (*model.SessionView, error) {
	entry, err := u.entry(id)
	if err != nil {
		return nil, err
	}
	entry.session.Reset()
	entry.setPlan(nil)
	return view(id, entry), nil
}

func (u *navigationUseCaseImpl) PlanRoute(ctx context.Context, id string, mode model.TravelMode) (*model.RoutePlan, error) {
	defer config.TimeTrack(time.Now(), "ルート計算 (ID: "+id+")")

	entry, err := u.entry(id)
	if err != nil {
		return nil, err
	}
	sc := entry.session.Context()
	if !sc.PollingUnitValidated || !sc.DestinationData.HasLocation() {
		return nil, ErrDestinationUnknown
	}
	if sc.UserLocation == nil {
		return nil, ErrLocationUnknown
	}

	origin := *sc.UserLocation
	destination := sc.DestinationData.ToLatLng()
	lang := sc.LanguageSelected

	// Step 1: ルートを取得（失敗時は直線距離にフォールバック）
	leg := u.fetchRoute(ctx, origin, destination, mode)

	// Step 2: ジオメトリを復元
	var path []model.LatLng
	if leg != nil {
		decoded, err := helper.DecodePolyline(leg.Geometry)
		if err != nil || len(decoded) < 2 {
			log.Printf("⚠️ ルートのジオメトリを復元できません、直線にフォールバック: %v", err)
			leg = nil
		} else {
			path = decoded
		}
	}
	if leg == nil {
		path = []model.LatLng{origin, destination}
	}

	// Step 3: ルート沿いのランドマークを取得
	var landmarks []model.Landmark
	if u.poiSearchHelper != nil {
		landmarks, err = u.poiSearchHelper.FindLandmarksAlongRoute(ctx, path)
		if err != nil {
			log.Printf("⚠️ ランドマーク検索に失敗、汎用案内を使用: %v", err)
			landmarks = nil
		}
	}

	// Step 4: 見積もりと案内文を生成
	total := helper.PathLength(path)
	if leg != nil && leg.DistanceMeters > 0 {
		total = leg.DistanceMeters
	}
	plan := &model.RoutePlan{
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
		Language:    lang,
		Estimate:    u.estimator.Estimate(service.NewEstimateRequest(origin, destination, mode, leg, lang)),
		Steps:       u.generator.Generate(landmarks, total, lang),
		Landmarks:   landmarks,
		Path:        path,
		TotalMeters: total,
	}
	if leg != nil {
		plan.Polyline = leg.Geometry
	}
	entry.setPlan(plan)

	log.Printf("✅ ルート計算完了 (ID: %s, %s, %s, ランドマーク%d件)", id, plan.Estimate.DistanceText, plan.Estimate.TimeText, len(landmarks))
	return plan, nil
}

func (u *navigationUseCaseImpl) Progress(ctx context.Context, id string, input ProgressInput) (*model.NavigationStep, error) {
	entry, err := u.entry(id)
	if err != nil {
		return nil, err
	}
	plan := entry.getPlan()
	if plan == nil {
		return nil, ErrNoRoutePlan
	}

	var travelled float64
	switch {
	case input.DistanceTravelled != nil:
		travelled = *input.DistanceTravelled
	case input.Location != nil:
		travelled = helper.DistanceAlongRoute(plan.Path, *input.Location)
		entry.session.UpdateContext(model.ContextUpdate{UserLocation: input.Location})
	default:
		return nil, &helper.ValidationError{Field: "distance_travelled", Message: "distance_travelled または location が必要です"}
	}

	lang := entry.session.Context().LanguageSelected
	step := u.generator.NextInstruction(plan.Landmarks, travelled, plan.TotalMeters, lang)
	return &step, nil
}

// fetchRoute はキャッシュ → プロバイダの順でルートを取得する。取得できない場合は nil
func (u *navigationUseCaseImpl) fetchRoute(ctx context.Context, origin, destination model.LatLng, mode model.TravelMode) *model.RouteLeg {
	if u.directionsProvider == nil {
		return nil
	}
	key := RouteCacheKey(u.directionsProvider.Name(), mode, origin, destination)

	if u.routeCache != nil {
		leg, err := u.routeCache.GetRoute(ctx, key)
		if err == nil {
			log.Printf("✅ ルートキャッシュヒット: %s", key)
			return leg
		}
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("⚠️ ルートキャッシュの取得に失敗: %v", err)
		}
	}

	routeCtx, cancel := context.WithTimeout(ctx, u.cfg.RouteTimeout)
	defer cancel()

	leg, err := u.directionsProvider.GetRoute(routeCtx, origin, destination, mode)
	if err != nil {
		log.Printf("⚠️ %s からルートを取得できません、直線距離で見積もります: %v", u.directionsProvider.Name(), err)
		return nil
	}

	if u.routeCache != nil {
		if err := u.routeCache.SaveRoute(ctx, key, u.directionsProvider.Name(), leg, u.cfg.CacheTTLHours); err != nil {
			log.Printf("⚠️ ルートキャッシュの保存に失敗: %v", err)
		}
	}
	return leg
}

func (u *navigationUseCaseImpl) lookupPollingUnit(ctx context.Context, code string) (*model.PollingUnit, error) {
	parsed, err := helper.ValidatePollingUnitCode(code)
	if err != nil {
		return nil, err
	}
	unit, err := u.pollingUnitRepo.FindByCode(ctx, *parsed)
	if err != nil {
		return nil, err
	}
	if !unit.HasLocation() {
		return nil, fmt.Errorf("%s: %w", parsed.Normalized(), ErrPollingUnitNotFound)
	}
	return unit, nil
}

// apply はセッション操作を実行し、拒否された場合は ErrTransitionRejected を返す
func (u *navigationUseCaseImpl) apply(id string, op func(s *service.NavigationSession) bool) (*model.SessionView, error) {
	entry, err := u.entry(id)
	if err != nil {
		return nil, err
	}
	from := entry.session.State()
	if !op(entry.session) {
		return view(id, entry), fmt.Errorf("%s からの遷移: %w", from, ErrTransitionRejected)
	}
	return view(id, entry), nil
}

func (u *navigationUseCaseImpl) entry(id string) (*sessionEntry, error) {
	entry, ok := u.store.Get(id)
	if !ok {
		return nil, fmt.Errorf("セッション %s: %w", id, ErrSessionNotFound)
	}
	return entry, nil
}

// RouteCacheKey はプロバイダ・移動手段・小数5桁（約1.1m）に丸めた座標からキャッシュキーを作る
// キャッシュ済みの経路は始点をそのまま使い回すため、ポリラインの精度より粗く丸めない
func RouteCacheKey(provider string, mode model.TravelMode, origin, destination model.LatLng) string {
	return fmt.Sprintf("%s_%s_%.5f_%.5f_%.5f_%.5f", provider, mode, origin.Lat, origin.Lng, destination.Lat, destination.Lng)
}

func view(id string, entry *sessionEntry) *model.SessionView {
	sc := entry.session.Context()
	return &model.SessionView{
		ID:      id,
		State:   sc.CurrentState,
		Context: sc,
	}
}
