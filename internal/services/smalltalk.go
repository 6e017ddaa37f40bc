package services

import (
	"math/rand"
	"strings"
	"sync"
)

// SmallTalkCategory identifies a canned-response pool
type SmallTalkCategory string

const (
	SmallTalkWhoAmI SmallTalkCategory = "quem_sou"
	SmallTalkThanks SmallTalkCategory = "agradecimento"
)

var smallTalkPools = map[SmallTalkCategory][]string{
	SmallTalkWhoAmI: {
		"🤖 Eu sou a AlineBot, assistente virtual da JCM Viagens!",
		"Sou a AlineBot! Cuido das reservas da JCM Viagens por aqui. 🧳",
		"Me chamo AlineBot, a atendente digital da JCM Viagens. ✨",
	},
	SmallTalkThanks: {
		"De nada! 😊 Precisa de mais alguma coisa?",
		"Disponha! A JCM Viagens agradece. 🧳",
		"Por nada! Estou por aqui se precisar. 👍",
	},
}

var smallTalkTriggers = []struct {
	category SmallTalkCategory
	phrases  []string
}{
	{SmallTalkWhoAmI, []string{"quem é você", "quem e voce", "quem é vc", "quem e vc", "você é um robô", "voce e um robo"}},
	{SmallTalkThanks, []string{"obrigado", "obrigada", "brigado", "valeu", "agradecido"}},
}

// SmallTalkResponder picks replies from fixed pools. The random source is
// injectable so tests can pin the selection. rand.Rand is not safe for
// concurrent use and turns from different phones run in parallel, so every
// draw goes through the mutex.
type SmallTalkResponder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSmallTalkResponder creates a responder from a seed source
func NewSmallTalkResponder(src rand.Source) *SmallTalkResponder {
	return &SmallTalkResponder{rng: rand.New(src)}
}

// DetectSmallTalk matches small-talk phrases by substring
func DetectSmallTalk(text string) (SmallTalkCategory, bool) {
	msg := strings.ToLower(strings.TrimSpace(text))
	for _, trigger := range smallTalkTriggers {
		for _, phrase := range trigger.phrases {
			if strings.Contains(msg, phrase) {
				return trigger.category, true
			}
		}
	}
	return "", false
}

// Pick returns a uniformly selected response for the category
func (r *SmallTalkResponder) Pick(category SmallTalkCategory) string {
	return r.pickFrom(smallTalkPools[category])
}

func (r *SmallTalkResponder) pickFrom(pool []string) string {
	if len(pool) == 0 {
		return ""
	}
	r.mu.Lock()
	n := r.rng.Intn(len(pool))
	r.mu.Unlock()
	return pool[n]
}
