package planner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/dmitrijs2005/gophfit/internal/client/capability"
	"github.com/dmitrijs2005/gophfit/internal/logging"
	"github.com/dmitrijs2005/gophfit/internal/models"
	"github.com/dmitrijs2005/gophfit/internal/nutrition"
)

// Generator is everything the client asks of the AI provider.
type Generator interface {
	AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*models.Analysis, error)
	GeneratePlan(ctx context.Context, analysis models.Analysis, profile models.Profile) (*models.Plan, error)
	RegenerateMeal(ctx context.Context, meal models.Meal, profile models.Profile) (*models.Meal, error)
	RegenerateExercise(ctx context.Context, ex models.Exercise, profile models.Profile, focus string) (*models.Exercise, error)
	RegenerateWorkout(ctx context.Context, day int, focus string, profile models.Profile) (*models.WorkoutRevision, error)
	SendChatMessage(ctx context.Context, history []models.ChatMessage, msg string) (string, error)
	AnalyzeFood(ctx context.Context, image []byte, mimeType string) (*models.Meal, error)
	AnalyzeWorkoutVideo(ctx context.Context, video []byte, mimeType, exercise string) (string, error)
}

// Service implements Generator on top of a Model.
type Service struct {
	model  Model
	caller *capability.Caller
	now    func() time.Time
	logger logging.Logger
}

var _ Generator = (*Service)(nil)

func NewService(model Model, caller *capability.Caller, l logging.Logger) *Service {
	return &Service{
		model:  model,
		caller: caller,
		now:    time.Now,
		logger: l.With("module", "planner", "model", model.Name()),
	}
}

func (s *Service) text(ctx context.Context, req Request) (string, error) {
	return capability.Call(ctx, s.caller, func(ctx context.Context, cred capability.Credential) (string, error) {
		return s.model.Generate(ctx, cred, req)
	})
}

func generateJSON[T any](ctx context.Context, s *Service, req Request) (*T, error) {
	req.JSON = true
	v, err := capability.CallJSON[T](ctx, s.caller, func(ctx context.Context, cred capability.Credential) (string, error) {
		return s.model.Generate(ctx, cred, req)
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Service) AnalyzeImage(ctx context.Context, image []byte, mimeType string) (*models.Analysis, error) {
	a, err := generateJSON[models.Analysis](ctx, s, Request{
		Parts: []Part{DataPart(image, mimeType), TextPart(analysisPrompt)},
	})
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	if a.BodyType == "" {
		a.BodyType = models.BodyUnknown
	}
	return a, nil
}

// GeneratePlan asks for a plan sized to the Harris-Benedict calorie target.
// A plan without daily entries is rejected as malformed.
func (s *Service) GeneratePlan(ctx context.Context, analysis models.Analysis, profile models.Profile) (*models.Plan, error) {
	targets := nutrition.Compute(profile, analysis.EstimatedBodyFat, s.now())
	s.logger.Debug(ctx, "generating plan", "bmr", targets.BMR, "tdee", targets.TDEE, "target", targets.Target)

	text, err := s.text(ctx, Request{
		Parts:       []Part{TextPart(planPrompt(analysis, profile, targets))},
		JSON:        true,
		Temperature: temperature(0.8),
	})
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}

	body := capability.StripFences(text)
	if days := gjson.Get(body, "dailyPlans"); !days.IsArray() || len(days.Array()) == 0 {
		return nil, fmt.Errorf("generate plan: %w: no daily plans", capability.ErrMalformedResponse)
	}
	plan, err := capability.ParseJSON[models.Plan](body)
	if err != nil {
		return nil, fmt.Errorf("generate plan: %w", err)
	}
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if plan.DurationDays == 0 {
		plan.DurationDays = 50
	}
	return &plan, nil
}

func (s *Service) RegenerateMeal(ctx context.Context, meal models.Meal, profile models.Profile) (*models.Meal, error) {
	m, err := generateJSON[models.Meal](ctx, s, Request{Parts: []Part{TextPart(mealPrompt(meal, profile))}})
	if err != nil {
		return nil, fmt.Errorf("regenerate meal: %w", err)
	}
	return m, nil
}

func (s *Service) RegenerateExercise(ctx context.Context, ex models.Exercise, profile models.Profile, focus string) (*models.Exercise, error) {
	e, err := generateJSON[models.Exercise](ctx, s, Request{Parts: []Part{TextPart(swapPrompt(ex, profile, focus))}})
	if err != nil {
		return nil, fmt.Errorf("swap exercise: %w", err)
	}
	return e, nil
}

func (s *Service) RegenerateWorkout(ctx context.Context, day int, focus string, profile models.Profile) (*models.WorkoutRevision, error) {
	w, err := generateJSON[models.WorkoutRevision](ctx, s, Request{Parts: []Part{TextPart(workoutPrompt(day, focus, profile))}})
	if err != nil {
		return nil, fmt.Errorf("regenerate workout: %w", err)
	}
	return w, nil
}

func (s *Service) SendChatMessage(ctx context.Context, history []models.ChatMessage, msg string) (string, error) {
	reply, err := s.text(ctx, Request{System: chatSystem, Parts: []Part{TextPart(chatPrompt(history, msg))}})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func (s *Service) AnalyzeFood(ctx context.Context, image []byte, mimeType string) (*models.Meal, error) {
	m, err := generateJSON[models.Meal](ctx, s, Request{Parts: []Part{DataPart(image, mimeType), TextPart(foodPrompt)}})
	if err != nil {
		return nil, fmt.Errorf("analyze food: %w", err)
	}
	return m, nil
}

// AnalyzeWorkoutVideo returns form corrections, or VideoFallback when the model said nothing.
func (s *Service) AnalyzeWorkoutVideo(ctx context.Context, video []byte, mimeType, exercise string) (string, error) {
	reply, err := s.text(ctx, Request{Parts: []Part{DataPart(video, mimeType), TextPart(videoPrompt(exercise))}})
	if err != nil {
		return "", fmt.Errorf("analyze video: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return VideoFallback, nil
	}
	return strings.TrimSpace(reply), nil
}
