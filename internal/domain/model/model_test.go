package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LanguageEnglish, ParseLanguage("en"))
	assert.Equal(t, LanguageYoruba, ParseLanguage("yo"))
	assert.Equal(t, LanguagePidgin, ParseLanguage("pcm"))
	assert.Equal(t, LanguageEnglish, ParseLanguage("ha"))
	assert.Equal(t, LanguageEnglish, ParseLanguage(""))
	assert.False(t, LanguageCode("fr").IsSupported())
	assert.Len(t, GetAllLanguages(), 3)
}

func TestParseLandmarkCategory(t *testing.T) {
	assert.Equal(t, CategorySchool, ParseLandmarkCategory("school"))
	assert.Equal(t, CategorySchool, ParseLandmarkCategory("University"))
	assert.Equal(t, CategoryMarket, ParseLandmarkCategory(" marketplace "))
	assert.Equal(t, CategoryBusStop, ParseLandmarkCategory("motor_park"))
	assert.Equal(t, CategoryOther, ParseLandmarkCategory("petrol_station"))
	assert.Equal(t, CategoryOther, ParseLandmarkCategory(""))

	for _, c := range GetAllCategories() {
		assert.Equal(t, c, ParseLandmarkCategory(string(c)), c)
	}
}

func TestParseTravelMode(t *testing.T) {
	assert.Equal(t, TravelModeDriving, ParseTravelMode("driving"))
	assert.Equal(t, TravelModeWalking, ParseTravelMode("walking"))
	assert.Equal(t, TravelModeWalking, ParseTravelMode("cycling"))
}

func TestSessionState_IsValid(t *testing.T) {
	for _, s := range GetAllStates() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, SessionState("flying").IsValid())
}

func TestCachedRoute(t *testing.T) {
	leg := &RouteLeg{
		DistanceMeters:  560,
		DurationSeconds: 420,
		Geometry:        "_p~iF~ps|U",
		Steps: []RouteStep{
			{DistanceMeters: 560, CumulativeDistanceMeters: 560, Maneuver: Maneuver{Type: "depart", Location: [2]float64{3.88, 7.36}}},
		},
	}

	cached := leg.ToCachedRoute("osrm", 2)
	assert.Equal(t, "osrm", cached.Provider)
	assert.WithinDuration(t, time.Now().Add(2*time.Hour), cached.ExpireAt, time.Minute)
	assert.False(t, cached.IsExpired(time.Now()))
	assert.True(t, cached.IsExpired(time.Now().Add(3*time.Hour)))
	assert.Equal(t, leg, cached.ToRouteLeg())

	assert.False(t, (&CachedRoute{}).IsExpired(time.Now()), "期限なしは期限切れにしない")
}

func TestRouteLeg_HasDuration(t *testing.T) {
	var nilLeg *RouteLeg
	assert.False(t, nilLeg.HasDuration())
	assert.False(t, (&RouteLeg{DistanceMeters: 100}).HasDuration())
	assert.True(t, (&RouteLeg{DistanceMeters: 100, DurationSeconds: 60}).HasDuration())
}

func TestPollingUnit(t *testing.T) {
	code := PollingUnitCode{Raw: "30020801", WardCode: "08", PUCode: "001"}
	assert.Equal(t, "08-001", code.Normalized())

	unit := &PollingUnit{Location: &Geometry{Type: "Point", Coordinates: []float64{3.88, 7.36}}}
	require.True(t, unit.HasLocation())
	assert.Equal(t, LatLng{Lat: 7.36, Lng: 3.88}, unit.ToLatLng())

	var missing *PollingUnit
	assert.False(t, missing.HasLocation())
	assert.False(t, (&PollingUnit{}).HasLocation())
}

func TestLatLngConversions(t *testing.T) {
	p := LatLng{Lat: 7.36, Lng: 3.88}
	assert.Equal(t, [2]float64{3.88, 7.36}, p.LngLat())
	loc := &Location{Latitude: p.Lat, Longitude: p.Lng}
	assert.Equal(t, p, loc.ToLatLng())
	assert.Equal(t, p, loc.ToGeometry().ToLatLng())
}
