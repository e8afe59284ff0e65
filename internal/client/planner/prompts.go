package planner

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophfit/internal/models"
	"github.com/dmitrijs2005/gophfit/internal/nutrition"
)

const analysisPrompt = `Analyze this body photo for fitness planning.
Return only JSON with these fields:
{"bodyType": "Ectomorph"|"Mesomorph"|"Endomorph"|"Unknown", "estimatedBodyFat": number,
 "postureNotes": string, "focusAreas": [string], "recommendationSummary": string}`

const chatSystem = `You are CaloryIA, a personal fitness assistant. Answer in Brazilian Portuguese.
Be motivating, evidence based and direct. Only talk about training, diet and health.`

const foodPrompt = `Identify the food in this photo, estimate the portion and calculate its macros.
Return only JSON: {"name": string, "items": [string], "calories": number, "protein": number, "carbs": number, "fats": number}`

// VideoFallback is returned when the model produced no form feedback.
const VideoFallback = "Não foi possível analisar o vídeo. Tente novamente com melhor iluminação."

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "None"
	}
	return s
}

func planPrompt(a models.Analysis, p models.Profile, t nutrition.Targets) string {
	var b strings.Builder
	b.WriteString("You are an elite fitness coach and nutritionist.\n")
	b.WriteString("Create a detailed one-week fitness and meal plan that repeats for 50 days.\n\n")

	b.WriteString("USER PROFILE:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Age: %d\n", t.Age)
	fmt.Fprintf(&b, "- Gender: %s\n", p.Gender)
	fmt.Fprintf(&b, "- Height: %gcm\n", p.Height)
	fmt.Fprintf(&b, "- Weight: %gkg\n", p.Weight)
	fmt.Fprintf(&b, "- Body Type: %s (Fat: %g%%)\n", a.BodyType, a.EstimatedBodyFat)
	fmt.Fprintf(&b, "- Location: %s, %s\n", p.State, p.Country)
	fmt.Fprintf(&b, "- Activity: %s\n", p.ActivityLevel)
	fmt.Fprintf(&b, "- Medical: %s\n", orNone(p.MedicalConditions))
	fmt.Fprintf(&b, "- Dietary: %s\n\n", orNone(p.DietaryRestrictions))

	b.WriteString("HEALTH AND SAFETY:\n")
	b.WriteString("1. Never include exercises that aggravate a listed injury.\n")
	b.WriteString("2. Never include foods the user is allergic or intolerant to.\n")
	fmt.Fprintf(&b, "3. Prefer local foods from %s.\n\n", orNone(p.State))

	b.WriteString("HARRIS-BENEDICT TARGETS:\n")
	fmt.Fprintf(&b, "- Basal Metabolic Rate: %.0f kcal\n", t.BMR)
	fmt.Fprintf(&b, "- TDEE: %d kcal\n", t.TDEE)
	fmt.Fprintf(&b, "- TARGET DAILY CALORIES: %d kcal (strictly adhere to this)\n\n", t.Target)

	b.WriteString("WORKOUT LOGIC:\n")
	b.WriteString("- sedentary or light: habit building, full body 3x/week.\n")
	b.WriteString("- moderate: upper/lower split.\n")
	b.WriteString("- active or athlete: push/pull/legs or high intensity.\n")
	b.WriteString("- Do not repeat exercises across days.\n\n")

	b.WriteString(`Return only JSON: {"goal": string, "goals": [string], "durationDays": number, "summary": string,
"weeklySummaries": [{"week": number, "summary": string}],
"dailyPlans": [{"day": number, "workoutFocus": string, "durationMin": number,
  "exercises": [{"name": string, "sets": number, "reps": string, "notes": string}],
  "meals": [{"name": string, "items": [string], "calories": number, "protein": number, "carbs": number, "fats": number}],
  "totalCalories": number}]}`)
	return b.String()
}

func swapPrompt(ex models.Exercise, p models.Profile, focus string) string {
	return fmt.Sprintf(`Suggest a substitute exercise for %q (%s).
User profile: %s, %s.
Keep the same muscle group but change the equipment or movement pattern.
Return only JSON: {"name": string, "sets": number, "reps": string, "notes": string}`,
		ex.Name, focus, p.Gender, p.ActivityLevel)
}

func mealPrompt(m models.Meal, p models.Profile) string {
	return fmt.Sprintf(`Replace this meal: %s (%gkcal).
User: %s, restrictions: %s.
Keep the same calories and macros with different ingredients.
Return only JSON: {"name": string, "items": [string], "calories": number, "protein": number, "carbs": number, "fats": number}`,
		m.Name, m.Calories, orNone(p.State), orNone(p.DietaryRestrictions))
}

func workoutPrompt(day int, focus string, p models.Profile) string {
	return fmt.Sprintf(`Regenerate the workout for day %d (focus: %s).
User: %s, medical: %s.
Make it completely different from a standard routine.
Return only JSON: {"workoutFocus": string, "exercises": [{"name": string, "sets": number, "reps": string, "notes": string}], "totalCalories": number}`,
		day, focus, p.ActivityLevel, orNone(p.MedicalConditions))
}

func chatPrompt(history []models.ChatMessage, msg string) string {
	var b strings.Builder
	b.WriteString("Conversation so far:\n")
	for _, m := range history {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Content)
	}
	fmt.Fprintf(&b, "\nuser: %s", msg)
	return b.String()
}

func videoPrompt(exercise string) string {
	return fmt.Sprintf("Analyze this user performing %s. Give 3 specific technical corrections to improve form and avoid injury. Be professional and encouraging. Answer in Portuguese.", exercise)
}
