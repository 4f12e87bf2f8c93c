package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"PollingNav-App/internal/domain/helper"
	"PollingNav-App/internal/domain/model"
	"PollingNav-App/internal/domain/service"
	repoimpl "PollingNav-App/internal/repository"
)

var (
	verbose  bool
	language string
)

var rootCmd = &cobra.Command{
	Use:   "navctl",
	Short: "Offline tools for the polling unit navigation service",
	Long:  `Run the estimator, instruction generator, polyline codec and code validator without a server.`,
}

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate distance and travel time between two points",
	RunE:  runEstimate,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <polyline>",
	Short: "Decode an encoded polyline into coordinates",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

var encodeCmd = &cobra.Command{
	Use:   "encode <lat,lng> <lat,lng>...",
	Short: "Encode coordinates into a polyline",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runEncode,
}

var sampleCmd = &cobra.Command{
	Use:   "sample <polyline>",
	Short: "Sample points along an encoded polyline at a fixed interval",
	Args:  cobra.ExactArgs(1),
	RunE:  runSample,
}

var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "Generate landmark based instructions",
	Long:  `Landmarks are given as name:category:distance, e.g. --landmark "Central Market:market:50".`,
	RunE:  runInstructions,
}

var landmarksCmd = &cobra.Command{
	Use:   "landmarks <polyline>",
	Short: "Find landmarks from a seed file along an encoded polyline",
	Args:  cobra.ExactArgs(1),
	RunE:  runLandmarks,
}

var validateCodeCmd = &cobra.Command{
	Use:   "validate-code <code>",
	Short: "Validate and normalize a polling unit code",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidateCode,
}

var (
	fromCoord       string
	toCoord         string
	travelMode      string
	routedDistance  float64
	routedDuration  float64
	sampleInterval  float64
	landmarkSpecs   []string
	totalDistance   float64
	currentDistance float64
	seedFile        string
	searchRadius    float64
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Dump full structures")
	rootCmd.PersistentFlags().StringVarP(&language, "lang", "l", "en", "Language code ("+languageList()+")")

	estimateCmd.Flags().StringVar(&fromCoord, "from", "", "Origin as lat,lng")
	estimateCmd.Flags().StringVar(&toCoord, "to", "", "Destination as lat,lng")
	estimateCmd.Flags().StringVarP(&travelMode, "mode", "m", "walking", "Travel mode (walking, driving)")
	estimateCmd.Flags().Float64Var(&routedDistance, "distance", 0, "Routed distance in meters")
	estimateCmd.Flags().Float64Var(&routedDuration, "duration", 0, "Routed duration in seconds")
	_ = estimateCmd.MarkFlagRequired("from")
	_ = estimateCmd.MarkFlagRequired("to")

	sampleCmd.Flags().Float64VarP(&sampleInterval, "interval", "i", 100, "Sampling interval in meters")

	instructionsCmd.Flags().StringArrayVar(&landmarkSpecs, "landmark", nil, "Landmark as name:category:distance (repeatable)")
	instructionsCmd.Flags().Float64VarP(&totalDistance, "total", "t", 0, "Total route distance in meters")
	instructionsCmd.Flags().Float64Var(&currentDistance, "at", -1, "Distance travelled; prints only the next instruction")
	_ = instructionsCmd.MarkFlagRequired("total")

	landmarksCmd.Flags().StringVarP(&seedFile, "file", "f", "landmarks.json", "Landmark seed file")
	landmarksCmd.Flags().Float64VarP(&sampleInterval, "interval", "i", 100, "Sampling interval in meters")
	landmarksCmd.Flags().Float64VarP(&searchRadius, "radius", "r", 60, "Search radius in meters")

	rootCmd.AddCommand(estimateCmd, decodeCmd, encodeCmd, sampleCmd, instructionsCmd, landmarksCmd, validateCodeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runEstimate(cmd *cobra.Command, args []string) error {
	origin, err := parseLatLng(fromCoord)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}
	destination, err := parseLatLng(toCoord)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	var leg *model.RouteLeg
	if routedDistance > 0 && routedDuration > 0 {
		leg = &model.RouteLeg{DistanceMeters: routedDistance, DurationSeconds: routedDuration}
	}
	req := service.NewEstimateRequest(origin, destination, model.ParseTravelMode(travelMode), leg, model.ParseLanguage(language))
	estimate := service.NewTravelEstimator().Estimate(req)

	if verbose {
		pretty.Println(req)
		pretty.Println(estimate)
		return nil
	}
	source := "route"
	if estimate.IsStraightLine {
		source = "straight line"
	}
	fmt.Printf("%s, %s (%s)\n", estimate.DistanceText, estimate.TimeText, source)
	return nil
}

func runDecode(cmd *cobra.Command, args []string) error {
	points, err := helper.DecodePolyline(args[0])
	if err != nil {
		return err
	}
	if verbose {
		pretty.Println(points)
	} else {
		for _, p := range points {
			fmt.Printf("%.5f,%.5f\n", p.Lat, p.Lng)
		}
	}
	fmt.Printf("%d points, %s\n", len(points), service.FormatDistance(helper.PathLength(points)))
	return nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	encoded, err := encodeCoordinates(args)
	if err != nil {
		return err
	}
	fmt.Println(encoded)
	return nil
}

// encodeCoordinates は lat,lng 形式の座標列をポリラインに変換する
func encodeCoordinates(args []string) (string, error) {
	points := make([]model.LatLng, 0, len(args))
	for _, arg := range args {
		p, err := parseLatLng(arg)
		if err != nil {
			return "", err
		}
		points = append(points, p)
	}
	return helper.EncodePolyline(points), nil
}

func runSample(cmd *cobra.Command, args []string) error {
	points, err := helper.DecodePolyline(args[0])
	if err != nil {
		return err
	}
	samples := helper.SamplePoints(points, sampleInterval)
	if verbose {
		pretty.Println(samples)
		return nil
	}
	for _, p := range samples {
		fmt.Printf("%.5f,%.5f\n", p.Lat, p.Lng)
	}
	return nil
}

func runInstructions(cmd *cobra.Command, args []string) error {
	landmarks := make([]model.Landmark, 0, len(landmarkSpecs))
	for _, spec := range landmarkSpecs {
		lm, err := parseLandmark(spec)
		if err != nil {
			return err
		}
		landmarks = append(landmarks, lm)
	}

	lang := model.ParseLanguage(language)
	generator := service.NewInstructionGenerator()

	if currentDistance >= 0 {
		step := generator.NextInstruction(landmarks, currentDistance, totalDistance, lang)
		if verbose {
			pretty.Println(step)
		} else {
			fmt.Println(step.Instruction)
		}
		return nil
	}

	steps := generator.Generate(landmarks, totalDistance, lang)
	if verbose {
		pretty.Println(steps)
		return nil
	}
	for i, s := range steps {
		fmt.Printf("%d. %s\n", i+1, s.Instruction)
	}
	return nil
}

func runLandmarks(cmd *cobra.Command, args []string) error {
	route, err := helper.DecodePolyline(args[0])
	if err != nil {
		return err
	}
	repo, err := repoimpl.NewRTreeLandmarksRepositoryFromFile(seedFile)
	if err != nil {
		return err
	}

	landmarks, err := helper.NewPOISearchHelper(repo, sampleInterval, searchRadius).FindLandmarksAlongRoute(context.Background(), route)
	if err != nil {
		return err
	}
	if verbose {
		pretty.Println(landmarks)
		return nil
	}
	lang := model.ParseLanguage(language)
	for _, lm := range landmarks {
		fmt.Printf("%6s  %s (%s)\n", service.FormatDistance(lm.DistanceAlongRoute), lm.Name, service.CategoryName(lm.Category, lang))
	}
	fmt.Printf("%d of %d indexed landmarks along the route\n", len(landmarks), repo.Size())
	return nil
}

func runValidateCode(cmd *cobra.Command, args []string) error {
	code, err := helper.ValidatePollingUnitCode(args[0])
	if err != nil {
		return err
	}
	if verbose {
		pretty.Println(code)
		return nil
	}
	fmt.Println(code.Normalized())
	return nil
}

func languageList() string {
	codes := make([]string, 0, 3)
	for _, l := range model.GetAllLanguages() {
		codes = append(codes, string(l))
	}
	return strings.Join(codes, ", ")
}

func parseLatLng(s string) (model.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.LatLng{}, fmt.Errorf("expected lat,lng but got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.LatLng{}, fmt.Errorf("invalid latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.LatLng{}, fmt.Errorf("invalid longitude: %w", err)
	}
	return model.LatLng{Lat: lat, Lng: lng}, nil
}

// parseLandmark は name:category:distance 形式を解釈する（name に ':' を含めてもよい）
func parseLandmark(s string) (model.Landmark, error) {
	idx := strings.LastIndex(s, ":")
	if idx < 0 {
		return model.Landmark{}, fmt.Errorf("expected name:category:distance but got %q", s)
	}
	dist, err := strconv.ParseFloat(s[idx+1:], 64)
	if err != nil {
		return model.Landmark{}, fmt.Errorf("invalid distance in %q: %w", s, err)
	}
	rest := s[:idx]
	catIdx := strings.LastIndex(rest, ":")
	if catIdx < 0 {
		return model.Landmark{}, fmt.Errorf("expected name:category:distance but got %q", s)
	}
	return model.Landmark{
		Name:               rest[:catIdx],
		Category:           model.ParseLandmarkCategory(rest[catIdx+1:]),
		DistanceAlongRoute: dist,
	}, nil
}
