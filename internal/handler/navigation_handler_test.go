package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/repository"
	"PollingNav-App/internal/usecase"
)

type stubPollingUnitsRepository struct{}

func (stubPollingUnitsRepository) FindByCode(ctx context.Context, code model.PollingUnitCode) (*model.PollingUnit, error) {
	if code.Normalized() != "08-001" {
		return nil, repository.ErrNotFound
	}
	return &model.PollingUnit{
		ID:       "pu-1",
		Code:     "08-001",
		Name:     "Oke Ado Primary School",
		Location: &model.Geometry{Type: "Point", Coordinates: []float64{3.8800, 7.3650}},
	}, nil
}

type failingDirectionsProvider struct{}

func (failingDirectionsProvider) Name() string { return "failing" }

func (failingDirectionsProvider) GetRoute(ctx context.Context, origin, destination model.LatLng, mode model.TravelMode) (*model.RouteLeg, error) {
	return nil, errors.New("no route")
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	uc := usecase.NewNavigationUseCase(
		usecase.NewSessionStore(),
		stubPollingUnitsRepository{},
		failingDirectionsProvider{},
		nil,
		nil,
		usecase.NavigationUseCaseConfig{},
	)
	h := NewNavigationHandler(uc)

	r := gin.New()
	r.GET("/api/health", h.HealthCheck)
	h.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) model.SessionView {
	t.Helper()
	var view model.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view), w.Body.String())
	return view
}

func TestNavigationHandler_HealthCheck(t *testing.T) {
	r := setupRouter()
	w := doJSON(t, r, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestNavigationHandler_FullFlow(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decodeSession(t, w).ID
	require.NotEmpty(t, id)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/transitions", gin.H{"state": "language_selection"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/language", gin.H{"language": "pcm"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.LanguagePidgin, decodeSession(t, w).Context.LanguageSelected)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/voice", gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/location", gin.H{
		"granted":  true,
		"location": gin.H{"latitude": 7.3600, "longitude": 3.8800},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.StatePollingUnitInput, decodeSession(t, w).State)

	t.Run("不正なコードは400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/polling-unit", gin.H{"code": "ABC"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "バリデーションエラー")
	})

	t.Run("存在しない投票所は404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/polling-unit", gin.H{"code": "99-999"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/polling-unit", gin.H{"code": "08-001"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.StateNavigation, decodeSession(t, w).State)

	t.Run("ルートはGeoJSONのジオメトリを含む", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/sessions/"+id+"/route?mode=walking", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body struct {
			Estimate model.TravelEstimate  `json:"estimate"`
			Steps    []model.NavigationStep `json:"steps"`
			Geometry struct {
				Type        string       `json:"type"`
				Coordinates [][2]float64 `json:"coordinates"`
			} `json:"geometry"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Estimate.IsStraightLine)
		assert.Equal(t, "LineString", body.Geometry.Type)
		require.Len(t, body.Geometry.Coordinates, 2)
		assert.Equal(t, [2]float64{3.8800, 7.3600}, body.Geometry.Coordinates[0])
		require.Len(t, body.Steps, 1)
		assert.Equal(t, "Continue dey follow di direction wey we give you go your polling unit", body.Steps[0].Instruction)
	})

	t.Run("進捗から次の案内", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/progress", gin.H{"distance_travelled": 540})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var step model.NavigationStep
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &step))
		assert.Equal(t, "You don almost reach. Check your right hand for di polling unit", step.Instruction)
	})

	t.Run("進捗の入力が無ければ400", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/progress", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/help", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StateConfusionHelp, decodeSession(t, w).State)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/resume", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StateNavigation, decodeSession(t, w).State)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/arrival", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StateArrival, decodeSession(t, w).State)

	t.Run("到着後のヘルプは409", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/sessions/"+id+"/help", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	w = doJSON(t, r, http.MethodPost, "/sessions/"+id+"/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StateWelcome, decodeSession(t, w).State)

	w = doJSON(t, r, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNavigationHandler_DeepLink(t *testing.T) {
	r := setupRouter()

	w := doJSON(t, r, http.MethodPost, "/sessions?pu=30020801", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	view := decodeSession(t, w)
	require.NotNil(t, view.Context.PollingUnitCode)

	w = doJSON(t, r, http.MethodPost, "/sessions/"+view.ID+"/transitions", gin.H{"state": "location_permission"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/sessions/"+view.ID+"/location", gin.H{
		"granted":  true,
		"location": gin.H{"latitude": 7.3600, "longitude": 3.8800},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, model.StateNavigation, decodeSession(t, w).State)
}

func TestNavigationHandler_BadRequests(t *testing.T) {
	r := setupRouter()
	w := doJSON(t, r, http.MethodPost, "/sessions", nil)
	id := decodeSession(t, w).ID

	cases := []struct {
		name string
		path string
		body any
		code int
	}{
		{"未定義の状態", "/transitions", gin.H{"state": "flying"}, http.StatusBadRequest},
		{"状態の指定なし", "/transitions", gin.H{}, http.StatusBadRequest},
		{"許可されない遷移", "/transitions", gin.H{"state": "arrival"}, http.StatusConflict},
		{"音声設定の値なし", "/voice", gin.H{}, http.StatusBadRequest},
		{"位置情報の範囲外", "/location", gin.H{"granted": true, "location": gin.H{"latitude": 120, "longitude": 3}}, http.StatusBadRequest},
		{"許可したが位置なし", "/location", gin.H{"granted": true}, http.StatusBadRequest},
		{"welcome からの案内開始", "/navigation/start", nil, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/sessions/"+id+tc.path, tc.body)
			assert.Equal(t, tc.code, w.Code, w.Body.String())
		})
	}

	t.Run("ルート未確定", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/sessions/"+id+"/route", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("存在しないセッション", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/sessions/unknown/help", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
