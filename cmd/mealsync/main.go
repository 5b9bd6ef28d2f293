package main

import (
	"calsnap/internal/apiclient"
	"calsnap/internal/cache"
	"calsnap/internal/mealsync"
	"calsnap/internal/models"
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
)

const defaultCachePath = "calsnap-cache.db"

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found: %v", err)
	}
}

type app struct {
	api      *apiclient.Client
	cache    *cache.MealCache
	userID   string
	tracker  *mealsync.Tracker
	profiles *mealsync.ProfileTracker
}

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		log.Fatalf("Error starting mealsync: %v", err)
	}
	defer a.cache.Close()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func newApp(ctx context.Context) (*app, error) {
	token := os.Getenv("CALSNAP_TOKEN")
	var userID string
	if token != "" {
		id, err := apiclient.UserIDFromToken(token)
		if err != nil {
			return nil, fmt.Errorf("invalid CALSNAP_TOKEN: %w", err)
		}
		userID = id
	}

	var store cache.Store
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		s, err := cache.NewRedisStore(ctx, redisURL, cache.DefaultKeyPrefix+userID+":")
		if err != nil {
			return nil, err
		}
		store = s
	} else {
		path := os.Getenv("CALSNAP_CACHE_PATH")
		if path == "" {
			path = defaultCachePath
		}
		s, err := cache.NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		store = s
	}

	api := apiclient.New(os.Getenv("CALSNAP_API_URL"), token, apiclient.DefaultTimeout)
	mealCache := cache.NewMealCache(store)

	return &app{
		api:      api,
		cache:    mealCache,
		userID:   userID,
		tracker:  mealsync.NewTracker(api, mealCache, userID, time.Now()),
		profiles: mealsync.NewProfileTracker(api, userID),
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "today":
		return a.today(ctx, args)
	case "add":
		return a.add(ctx, args)
	case "update":
		return a.update(ctx, args)
	case "delete":
		return a.delete(ctx, args)
	case "sync":
		if err := a.tracker.Sync(ctx); err != nil {
			return err
		}
		fmt.Printf("Synced %d meals\n", len(a.tracker.Meals()))
		return nil
	case "status":
		return a.status(ctx)
	case "goal":
		return a.goal(ctx, args)
	case "theme":
		return a.theme(ctx, args)
	case "snap":
		return a.snap(ctx, args)
	case "help", "-h", "--help":
		printHelp()
		return nil
	default:
		printHelp()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) today(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("today", flag.ExitOnError)
	date := cmd.String("date", "", "Day to show (YYYY-MM-DD, default today)")
	cmd.Parse(args)

	if *date != "" {
		day, err := time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			return fmt.Errorf("invalid -date: %w", err)
		}
		a.tracker.SetDay(day)
	}

	if err := a.tracker.Load(ctx); err != nil {
		// Cached meals are still shown.
		log.Printf("Warning: showing cached meals: %v", err)
	}
	if err := a.profiles.Fetch(ctx); err != nil {
		log.Printf("Warning: using default calorie goal: %v", err)
	}

	a.printDay()
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("add", flag.ExitOnError)
	food := cmd.String("food", "", "Food name")
	calories := cmd.Int("calories", -1, "Calories per serving")
	mealType := cmd.String("type", string(models.Snack), "Meal type (breakfast, lunch, dinner, snack)")
	servings := cmd.Float64("servings", 0, "Number of servings (default 1)")
	photo := cmd.String("photo", "", "Photo URL")
	cmd.Parse(args)

	draft := models.MealDraft{
		FoodName: *food,
		Calories: *calories,
		MealType: models.MealType(*mealType),
	}
	if *servings > 0 {
		draft.Servings = servings
	}
	if *photo != "" {
		draft.PhotoURL = photo
	}
	return a.save(ctx, draft)
}

func (a *app) save(ctx context.Context, draft models.MealDraft) error {
	meal, err := a.tracker.AddMeal(ctx, draft)
	if err != nil {
		return fmt.Errorf("failed to save meal: %w", err)
	}
	fmt.Printf("Saved %s (%d kcal) as %s\n", meal.FoodName, meal.Calories, meal.ID)
	a.printDay()
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("update", flag.ExitOnError)
	id := cmd.String("id", "", "Meal ID")
	food := cmd.String("food", "", "New food name")
	calories := cmd.Int("calories", -1, "New calories per serving")
	mealType := cmd.String("type", "", "New meal type")
	servings := cmd.Float64("servings", -1, "New number of servings")
	cmd.Parse(args)

	if *id == "" {
		return errors.New("-id is required")
	}

	var patch models.MealPatch
	if *food != "" {
		patch.FoodName = food
	}
	if *calories >= 0 {
		patch.Calories = calories
	}
	if *mealType != "" {
		mt := models.MealType(*mealType)
		patch.MealType = &mt
	}
	if *servings >= 0 {
		patch.Servings = servings
	}

	meal, err := a.tracker.UpdateMeal(ctx, *id, patch)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	fmt.Printf("Updated %s\n", meal.ID)
	a.printDay()
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("delete", flag.ExitOnError)
	id := cmd.String("id", "", "Meal ID")
	cmd.Parse(args)

	if *id == "" {
		return errors.New("-id is required")
	}
	if err := a.tracker.DeleteMeal(ctx, *id); err != nil {
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	fmt.Printf("Deleted %s\n", *id)
	a.printDay()
	return nil
}

func (a *app) status(ctx context.Context) error {
	stats, err := a.cache.Status(ctx)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-13s %v\n", k, stats[k])
	}
	if a.userID == "" {
		fmt.Println("user          (signed out)")
	} else {
		fmt.Printf("user          %s\n", a.userID)
	}
	return nil
}

func (a *app) goal(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("goal", flag.ExitOnError)
	set := cmd.Int("set", 0, "New daily calorie goal")
	cmd.Parse(args)

	if *set != 0 {
		profile, err := a.profiles.UpdateCalorieGoal(ctx, *set)
		if err != nil {
			return fmt.Errorf("failed to update goal: %w", err)
		}
		fmt.Printf("Daily calorie goal set to %d\n", profile.DailyCalorieGoal)
		return nil
	}

	if err := a.profiles.Fetch(ctx); err != nil {
		log.Printf("Warning: using default calorie goal: %v", err)
	}
	fmt.Printf("Daily calorie goal: %d\n", a.profiles.CalorieGoal())
	return nil
}

func (a *app) theme(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("theme", flag.ExitOnError)
	set := cmd.String("set", "", "Color scheme (light or dark)")
	cmd.Parse(args)

	if *set != "" {
		if err := a.cache.SetColorScheme(ctx, cache.ColorScheme(*set)); err != nil {
			return err
		}
	}
	scheme, err := a.cache.ColorScheme(ctx)
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	fmt.Printf("Color scheme: %s\n", scheme)
	return nil
}

// snap analyses a photo and logs the estimate. Manual -food and -calories
// values override the estimate and are the fallback when analysis fails.
func (a *app) snap(ctx context.Context, args []string) error {
	cmd := flag.NewFlagSet("snap", flag.ExitOnError)
	imagePath := cmd.String("image", "", "Path to the food photo")
	mealType := cmd.String("type", string(models.Snack), "Meal type (breakfast, lunch, dinner, snack)")
	food := cmd.String("food", "", "Food name if analysis fails or is wrong")
	calories := cmd.Int("calories", -1, "Calories if analysis fails or is wrong")
	upload := cmd.Bool("upload", false, "Store the photo with the meal")
	cmd.Parse(args)

	if *imagePath == "" {
		return errors.New("-image is required")
	}
	image, err := encodeImage(*imagePath)
	if err != nil {
		return err
	}

	draft := models.MealDraft{MealType: models.MealType(*mealType), Calories: -1}

	result, err := a.api.AnalyzeFood(ctx, image)
	if err != nil {
		log.Printf("Error analyzing image: %v", err)
	} else {
		confidence := result.Confidence
		draft.FoodName = result.Food
		draft.Calories = int(math.Round(result.Calories))
		draft.ConfidenceScore = &confidence
		fmt.Printf("Detected %s, about %d kcal (confidence %.0f%%)\n", result.Food, draft.Calories, confidence*100)
	}

	if *food != "" {
		draft.FoodName = *food
	}
	if *calories >= 0 {
		draft.Calories = *calories
	}
	if draft.FoodName == "" || draft.Calories < 0 {
		return errors.New("could not analyze the food; log it manually with -food and -calories, or use the add command")
	}

	if *upload {
		url, err := a.api.UploadPhoto(ctx, image)
		if err != nil {
			log.Printf("Warning: photo not stored: %v", err)
		} else {
			draft.PhotoURL = &url
		}
	}

	return a.save(ctx, draft)
}

func (a *app) printDay() {
	meals := a.tracker.Meals()
	day := a.tracker.Day()
	progress := a.tracker.Progress(a.profiles.CalorieGoal())

	fmt.Printf("\n%s\n", day.Start.Format("Monday, 2 January 2006"))
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTYPE\tFOOD\tKCAL\tSERVINGS\tID")
	for _, m := range meals {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%g\t%s\n",
			m.LoggedAt.Local().Format("15:04"), m.MealType, m.FoodName, m.Calories, m.ServingCount(), m.ID)
	}
	w.Flush()

	fmt.Printf("\nTotal: %.0f / %d kcal (%.0f%%), %.0f remaining\n",
		progress.Consumed, progress.Goal, progress.Fraction*100, progress.Remaining)
	if a.userID == "" {
		fmt.Println("Not signed in: set CALSNAP_TOKEN to sync meals.")
	}
}

func encodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, contentType)
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}

func printHelp() {
	fmt.Println("Usage: mealsync <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  today   [-date YYYY-MM-DD]                 Show the day's meals and progress")
	fmt.Println("  add     -food -calories [-type -servings]  Log a meal")
	fmt.Println("  update  -id [-food -calories -type -servings]")
	fmt.Println("  delete  -id                                Delete a meal")
	fmt.Println("  sync                                       Refresh from the server")
	fmt.Println("  status                                     Show local cache status")
	fmt.Println("  goal    [-set N]                           Show or change the daily calorie goal")
	fmt.Println("  theme   [-set light|dark]                  Show or change the color scheme")
	fmt.Println("  snap    -image FILE [-type -upload]        Estimate a meal from a photo and log it")
	fmt.Println("\nEnvironment:")
	fmt.Println("  CALSNAP_API_URL     API base URL (default http://localhost:3000)")
	fmt.Println("  CALSNAP_TOKEN       Access token of the signed-in user")
	fmt.Println("  CALSNAP_CACHE_PATH  Local cache file (default calsnap-cache.db)")
	fmt.Println("  REDIS_URL           Use Redis for the local cache instead")
}
