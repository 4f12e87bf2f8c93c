package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"

	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
	"PollingNav-App/internal/usecase"
)

// NavigationHandler は投票所ナビゲーションAPIのハンドラー
type NavigationHandler struct {
	navigationUseCase usecase.NavigationUseCase
}

// NewNavigationHandler は新しいNavigationHandlerインスタンスを作成
func NewNavigationHandler(navigationUseCase usecase.NavigationUseCase) *NavigationHandler {
	return &NavigationHandler{
		navigationUseCase: navigationUseCase,
	}
}

// RegisterRoutes はルーターにエンドポイントを登録する
func (h *NavigationHandler) RegisterRoutes(r gin.IRouter) {
	sessions := r.Group("/sessions")
	{
		sessions.POST("", h.PostSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.DeleteSession)
		sessions.POST("/:id/transitions", h.PostTransition)
		sessions.POST("/:id/language", h.PostLanguage)
		sessions.POST("/:id/voice", h.PostVoice)
		sessions.POST("/:id/location", h.PostLocation)
		sessions.POST("/:id/polling-unit", h.PostPollingUnit)
		sessions.POST("/:id/navigation/start", h.PostStartNavigation)
		sessions.GET("/:id/route", h.GetRoute)
		sessions.POST("/:id/progress", h.PostProgress)
		sessions.POST("/:id/help", h.PostHelp)
		sessions.POST("/:id/resume", h.PostResume)
		sessions.POST("/:id/arrival", h.PostArrival)
		sessions.POST("/:id/reset", h.PostReset)
	}
}

type createSessionRequest struct {
	PollingUnitCode string `json:"polling_unit_code"`
}

type transitionRequest struct {
	State string `json:"state" binding:"required"`
}

type languageRequest struct {
	Language string `json:"language" binding:"required"`
}

type voiceRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type locationRequest struct {
	Granted  *bool           `json:"granted" binding:"required"`
	Location *model.Location `json:"location"`
}

type pollingUnitRequest struct {
	Code string `json:"code" binding:"required"`
}

type progressRequest struct {
	DistanceTravelled *float64        `json:"distance_travelled"`
	Location          *model.Location `json:"location"`
}

// routeResponse はルート計算結果とGeoJSONジオメトリ
type routeResponse struct {
	*model.RoutePlan
	Geometry *geojson.Geometry `json:"geometry"`
}

// PostSession はセッションを開始するエンドポイント
// POST /sessions
func (h *NavigationHandler) PostSession(c *gin.Context) {
	var req createSessionRequest
	// ボディは任意（ディープリンクの場合のみコードを含む）
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	if req.PollingUnitCode == "" {
		req.PollingUnitCode = c.Query("pu")
	}

	session, err := h.navigationUseCase.CreateSession(c.Request.Context(), req.PollingUnitCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession はセッションの状態を取得するエンドポイント
// GET /sessions/:id
func (h *NavigationHandler) GetSession(c *gin.Context) {
	session, err := h.navigationUseCase.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// DeleteSession はセッションを破棄するエンドポイント
// DELETE /sessions/:id
func (h *NavigationHandler) DeleteSession(c *gin.Context) {
	if err := h.navigationUseCase.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PostTransition は任意の状態への遷移を要求するエンドポイント
// POST /sessions/:id/transitions
func (h *NavigationHandler) PostTransition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	target := model.SessionState(req.State)
	if !target.IsValid() {
		badRequest(c, &helper.ValidationError{Field: "state", Message: "未定義の状態です: " + req.State})
		return
	}

	session, err := h.navigationUseCase.Transition(c.Request.Context(), c.Param("id"), target)
	respondSession(c, session, err)
}

// PostLanguage は言語を選択するエンドポイント
// POST /sessions/:id/language
func (h *NavigationHandler) PostLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.navigationUseCase.SelectLanguage(c.Request.Context(), c.Param("id"), req.Language)
	respondSession(c, session, err)
}

// PostVoice は音声案内の設定を記録するエンドポイント
// POST /sessions/:id/voice
func (h *NavigationHandler) PostVoice(c *gin.Context) {
	var req voiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.navigationUseCase.SetVoicePreference(c.Request.Context(), c.Param("id"), *req.Enabled)
	respondSession(c, session, err)
}

// PostLocation は位置情報の許可・拒否を記録するエンドポイント
// POST /sessions/:id/location
func (h *NavigationHandler) PostLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if !*req.Granted {
		session, err := h.navigationUseCase.DenyLocation(c.Request.Context(), c.Param("id"))
		respondSession(c, session, err)
		return
	}
	if req.Location == nil {
		badRequest(c, &helper.ValidationError{Field: "location", Message: "許可した場合は現在地が必須です"})
		return
	}

	session, err := h.navigationUseCase.GrantLocation(c.Request.Context(), c.Param("id"), req.Location.ToLatLng())
	respondSession(c, session, err)
}

// PostPollingUnit は投票所コードを送信するエンドポイント
// POST /sessions/:id/polling-unit
func (h *NavigationHandler) PostPollingUnit(c *gin.Context) {
	var req pollingUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	session, err := h.navigationUseCase.SubmitPollingUnitCode(c.Request.Context(), c.Param("id"), req.Code)
	respondSession(c, session, err)
}

// PostStartNavigation は案内を開始するエンドポイント
// POST /sessions/:id/navigation/start
func (h *NavigationHandler) PostStartNavigation(c *gin.Context) {
	session, err := h.navigationUseCase.StartNavigation(c.Request.Context(), c.Param("id"))
	respondSession(c, session, err)
}

// GetRoute はルート・見積もり・案内ステップを計算するエンドポイント
// GET /sessions/:id/route?mode=walking
func (h *NavigationHandler) GetRoute(c *gin.Context) {
	mode := model.ParseTravelMode(c.DefaultQuery("mode", string(model.TravelModeWalking)))

	plan, err := h.navigationUseCase.PlanRoute(c.Request.Context(), c.Param("id"), mode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, routeResponse{
		RoutePlan: plan,
		Geometry:  geojson.NewGeometry(helper.ToLineString(plan.Path)),
	})
}

// PostProgress は進捗を送信し、次の案内を受け取るエンドポイント
// POST /sessions/:id/progress
func (h *NavigationHandler) PostProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.DistanceTravelled == nil && req.Location == nil {
		badRequest(c, &helper.ValidationError{Field: "distance_travelled", Message: "distance_travelled または location が必要です"})
		return
	}

	input := usecase.ProgressInput{DistanceTravelled: req.DistanceTravelled}
	if req.Location != nil {
		loc := req.Location.ToLatLng()
		input.Location = &loc
	}

	step, err := h.navigationUseCase.Progress(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, step)
}

// PostHelp はヘルプを要求するエンドポイント
// POST /sessions/:id/help
func (h *NavigationHandler) PostHelp(c *gin.Context) {
	session, err := h.navigationUseCase.RequestHelp(c.Request.Context(), c.Param("id"))
	respondSession(c, session, err)
}

// PostResume は案内を再開するエンドポイント
// POST /sessions/:id/resume
func (h *NavigationHandler) PostResume(c *gin.Context) {
	session, err := h.navigationUseCase.ResumeNavigation(c.Request.Context(), c.Param("id"))
	respondSession(c, session, err)
}

// PostArrival は到着を確定するエンドポイント
// POST /sessions/:id/arrival
func (h *NavigationHandler) PostArrival(c *gin.Context) {
	session, err := h.navigationUseCase.ConfirmArrival(c.Request.Context(), c.Param("id"))
	respondSession(c, session, err)
}

// PostReset はセッションを初期状態に戻すエンドポイント
// POST /sessions/:id/reset
func (h *NavigationHandler) PostReset(c *gin.Context) {
	session, err := h.navigationUseCase.Reset(c.Request.Context(), c.Param("id"))
	respondSession(c, session, err)
}

// HealthCheck はヘルスチェック用エンドポイント
// GET /api/health
func (h *NavigationHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "PollingNav-App",
	})
}

func respondSession(c *gin.Context, session *model.SessionView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "リクエストの形式が正しくありません",
		"details": err.Error(),
	})
}

// respondError はユースケースのエラーをHTTPステータスに対応付ける
func respondError(c *gin.Context, err error) {
	var validationErr *helper.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "バリデーションエラー",
			"details": err.Error(),
		})
	case errors.Is(err, usecase.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "セッションが見つかりません",
			"details": err.Error(),
		})
	case errors.Is(err, usecase.ErrPollingUnitNotFound), errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "投票所が見つかりません",
			"details": err.Error(),
		})
	case errors.Is(err, usecase.ErrTransitionRejected):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "現在の状態ではこの操作はできません",
			"details": err.Error(),
		})
	case errors.Is(err, usecase.ErrDestinationUnknown),
		errors.Is(err, usecase.ErrLocationUnknown),
		errors.Is(err, usecase.ErrNoRoutePlan):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "ルートを計算する準備ができていません",
			"details": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "内部エラーが発生しました",
			"details": err.Error(),
		})
	}
}
