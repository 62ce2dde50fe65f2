package wellness

import "math/rand/v2"

// Prompts are the journaling questions offered to the user.
var Prompts = []string{
	"What are three things you're grateful for today?",
	"What's something that challenged you today and how did you handle it?",
	"Describe a moment that made you smile recently.",
	"What's something you're looking forward to?",
	"What's one thing you learned today?",
	"How are you feeling right now and why?",
	"What's one thing you'd like to improve about yourself?",
	"Write about a recent interaction that had an impact on you.",
	"What boundaries do you need to set or maintain in your life?",
	"Describe your ideal day. What would it look like?",
}

// RandomPrompt picks a prompt index different from exclude. Pass -1 to
// allow any prompt. A nil rnd uses the global source.
func RandomPrompt(rnd *rand.Rand, exclude int) (int, string) {
	intN := rand.IntN
	if rnd != nil {
		intN = rnd.IntN
	}

	n := len(Prompts)
	if exclude < 0 || exclude >= n || n == 1 {
		i := intN(n)
		return i, Prompts[i]
	}
	i := intN(n - 1)
	if i >= exclude {
		i++
	}
	return i, Prompts[i]
}
