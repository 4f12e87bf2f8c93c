package service

import (
	"fmt"
	"math"
	"sort"

	"PollingNav-App/internal/domain/model"
)

const (
	// maxLandmarksPerRoute は案内に使うランドマークの最大数
	maxLandmarksPerRoute = 5
	// nearbyThresholdMeters を超える残距離は「近くにある」、以下は「右手にある」と案内する
	nearbyThresholdMeters = 20.0
	// almostThereMeters 未満の残距離では到着間近と案内する
	almostThereMeters = 30.0
	// approachingMeters 以内のランドマークは「通過する」と案内する
	approachingMeters = 50.0
)

// InstructionGenerator はランドマーク基準の案内文を生成する
type InstructionGenerator interface {
	Generate(landmarks []model.Landmark, totalDistanceMeters float64, lang model.LanguageCode) []model.NavigationStep
	NextInstruction(landmarks []model.Landmark, currentDistance, totalDistance float64, lang model.LanguageCode) model.NavigationStep
}

type instructionGenerator struct{}

// NewInstructionGenerator は新しいInstructionGeneratorを生成する
func NewInstructionGenerator() InstructionGenerator {
	return &instructionGenerator{}
}

// Generate はランドマーク一覧と総距離から案内ステップを生成する
func (g *instructionGenerator) Generate(landmarks []model.Landmark, totalDistanceMeters float64, lang model.LanguageCode) []model.NavigationStep {
	p := phrasesFor(lang)

	sorted := sortedLandmarks(landmarks)
	if len(sorted) > maxLandmarksPerRoute {
		sorted = sorted[:maxLandmarksPerRoute]
	}

	if len(sorted) == 0 {
		return []model.NavigationStep{{
			Instruction:    p.continueGeneric,
			DistanceMeters: totalDistanceMeters,
			Direction:      model.DirectionForward,
		}}
	}

	steps := make([]model.NavigationStep, 0, len(sorted)+1)
	for i, lm := range sorted {
		if i == 0 {
			steps = append(steps, model.NavigationStep{
				Instruction:    fmt.Sprintf(p.headToward, lm.Name, CategoryName(lm.Category, lang)),
				Landmark:       lm.Name,
				DistanceMeters: lm.DistanceAlongRoute,
				Direction:      model.DirectionForward,
			})
			continue
		}
		// 2つ目以降は直前のランドマークからの区間距離
		steps = append(steps, model.NavigationStep{
			Instruction:    fmt.Sprintf(p.continuePast, lm.Name),
			Landmark:       lm.Name,
			DistanceMeters: lm.DistanceAlongRoute - sorted[i-1].DistanceAlongRoute,
			Direction:      model.DirectionStraight,
		})
	}

	last := sorted[len(sorted)-1]
	remaining := totalDistanceMeters - last.DistanceAlongRoute
	if remaining > nearbyThresholdMeters {
		steps = append(steps, model.NavigationStep{
			Instruction:    fmt.Sprintf(p.destinationNearby, last.Name),
			Landmark:       last.Name,
			DistanceMeters: remaining,
			Direction:      model.DirectionForward,
		})
	} else {
		steps = append(steps, model.NavigationStep{
			Instruction:    fmt.Sprintf(p.destinationRight, last.Name),
			Landmark:       last.Name,
			DistanceMeters: remaining,
			Direction:      model.DirectionRight,
		})
	}
	return steps
}

// NextInstruction は現在の進捗から「今伝えるべき」案内を返す
func (g *instructionGenerator) NextInstruction(landmarks []model.Landmark, currentDistance, totalDistance float64, lang model.LanguageCode) model.NavigationStep {
	p := phrasesFor(lang)

	var upcoming []model.Landmark
	for _, lm := range landmarks {
		if lm.DistanceAlongRoute >= currentDistance {
			upcoming = append(upcoming, lm)
		}
	}

	if len(upcoming) == 0 {
		remaining := totalDistance - currentDistance
		if remaining < almostThereMeters {
			return model.NavigationStep{
				Instruction:    p.almostThere,
				DistanceMeters: math.Max(remaining, 0),
				Direction:      model.DirectionRight,
			}
		}
		return model.NavigationStep{
			Instruction:    fmt.Sprintf(p.continueFor, int(math.Round(remaining))),
			DistanceMeters: remaining,
			Direction:      model.DirectionForward,
		}
	}

	next := sortedLandmarks(upcoming)[0]
	distanceTo := next.DistanceAlongRoute - currentDistance
	if distanceTo <= approachingMeters {
		return model.NavigationStep{
			Instruction:    fmt.Sprintf(p.approaching, next.Name),
			Landmark:       next.Name,
			DistanceMeters: distanceTo,
			Direction:      model.DirectionStraight,
		}
	}

	rounded := math.Round(distanceTo)
	return model.NavigationStep{
		Instruction:    fmt.Sprintf(p.headTowardAhead, next.Name, CategoryName(next.Category, lang), FormatDistance(rounded)),
		Landmark:       next.Name,
		DistanceMeters: rounded,
		Direction:      model.DirectionForward,
	}
}

// sortedLandmarks は入力を変更せずに距離順のコピーを返す
func sortedLandmarks(landmarks []model.Landmark) []model.Landmark {
	sorted := make([]model.Landmark, len(landmarks))
	copy(sorted, landmarks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DistanceAlongRoute < sorted[j].DistanceAlongRoute
	})
	return sorted
}
