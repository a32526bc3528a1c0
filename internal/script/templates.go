package script

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"shortreel/internal/storyboard"
)

// Options controls template-based storyboard generation.
type Options struct {
	Topic      string
	Language   string
	Style      string // education, lifestyle, product, humor, bait
	Duration   float64
	VisualMode string // stock, ai_image, ai_video, mixed
	MaxScenes  int

	// TemplatesDir may hold hooks.yaml and patterns.yaml overriding the
	// embedded tables.
	TemplatesDir string

	// Seed pins the random choices. Zero means time-based.
	Seed int64
}

type fact struct {
	Text   string
	Detail string
	Query  string
}

// factTables maps topic keywords to content. The default pool works for
// any topic via the {topic} placeholder.
var factTables = map[string][]fact{
	"default": {
		{"Research shows that {topic} can significantly impact your daily life",
			"Studies have found measurable improvements in people who practice this regularly.",
			"science research study"},
		{"Most people don't realize the connection between {topic} and overall well-being",
			"Understanding this link can help you make better decisions.",
			"wellness health connection"},
		{"Experts recommend starting with {topic} gradually",
			"Small consistent steps lead to the biggest long-term results.",
			"growth progress journey"},
		{"The history of {topic} goes back further than you think",
			"Ancient cultures already knew about these benefits centuries ago.",
			"history ancient wisdom"},
		{"One surprising benefit of {topic} is improved mental clarity",
			"Your brain functions better when you incorporate this into your routine.",
			"brain mind clarity"},
		{"The biggest mistake people make with {topic} is doing too much too fast",
			"Patience and consistency are the real keys to success here.",
			"patience consistency calm"},
		{"New studies revealed even more about {topic}",
			"Science keeps uncovering new reasons why this matters.",
			"modern science discovery"},
		{"The number one myth about {topic} is that it's complicated",
			"In reality, anyone can start benefiting from this today.",
			"simple easy beginner"},
		{"{topic} doesn't just help you, it affects everyone around you",
			"When you improve yourself, your relationships improve too.",
			"relationships community people"},
		{"The best time to start with {topic} was yesterday, the second best is now",
			"Don't wait for the perfect moment. Just begin.",
			"motivation start action"},
	},
	"sleep": {
		{"Quality sleep is more important than quantity",
			"7 hours of deep sleep beats 9 hours of restless tossing.",
			"peaceful sleep bedroom night"},
		{"Blue light from screens suppresses melatonin production",
			"Try putting your phone away 1 hour before bed.",
			"phone screen night dark"},
		{"Your bedroom temperature affects sleep quality dramatically",
			"The ideal sleeping temperature is between 60-67 degrees Fahrenheit.",
			"bedroom cozy temperature"},
	},
	"wellness": {
		{"Morning sunlight exposure sets your circadian rhythm",
			"Just 10 minutes of morning sun can improve your entire day.",
			"sunrise morning light nature"},
		{"Hydration affects your energy more than caffeine",
			"Most fatigue is actually mild dehydration in disguise.",
			"water hydration health glass"},
		{"Deep breathing activates your parasympathetic nervous system",
			"Three deep breaths can reduce your stress in under 30 seconds.",
			"breathing meditation calm peace"},
	},
}

// hookTables maps hook styles to templates.
var hookTables = map[string][]string{
	"curiosity": {
		"Did you know this about {topic}?",
		"Here's what nobody tells you about {topic}.",
		"The truth about {topic} will surprise you.",
	},
	"direct": {
		"3 things you need to know about {topic}.",
		"This is how {topic} actually works.",
	},
	"pov": {
		"POV: you finally understand {topic}.",
	},
	"controversial": {
		"Everything you learned about {topic} is wrong.",
		"Stop doing {topic} like this.",
	},
	"list": {
		"Top facts about {topic} in under a minute.",
	},
	"story": {
		"I tried {topic} for 30 days. Here's what happened.",
	},
	"challenge": {
		"Can you handle the truth about {topic}?",
	},
}

type structure struct {
	HookStyle string `yaml:"hook_style"`
	CTA       string `yaml:"cta"`
}

var styleStructures = map[string][]structure{
	"education": {
		{"curiosity", "Follow for more facts about {topic}!"},
		{"direct", "Save this so you don't forget it."},
		{"list", "Which one surprised you? Comment below!"},
	},
	"lifestyle": {
		{"pov", "Follow for daily {topic} tips!"},
		{"story", "Try it and tell me how it went."},
	},
	"product": {
		{"direct", "Link in bio to learn more."},
		{"curiosity", "Check the link before it's gone."},
	},
	"humor": {
		{"pov", "Follow if this is you."},
		{"challenge", "Tag someone who needs to see this."},
	},
	"bait": {
		{"controversial", "Follow before I delete this."},
		{"challenge", "Part 2 if this hits 10k likes."},
	},
}

var moodMap = map[string]string{
	"education": "inspiring",
	"lifestyle": "chill",
	"product":   "upbeat",
	"humor":     "funny",
	"bait":      "dramatic",
}

var transitionRotation = []storyboard.TransitionType{
	storyboard.TransitionCrossfade,
	storyboard.TransitionCut,
	storyboard.TransitionFadeBlack,
	storyboard.TransitionCrossfade,
	storyboard.TransitionZoomIn,
	storyboard.TransitionSlideLeft,
}

var defaultMixedSequence = []storyboard.VisualType{
	storyboard.VisualStock,
	storyboard.VisualTextAnim,
	storyboard.VisualStock,
	storyboard.VisualMotion,
	storyboard.VisualInfographic,
	storyboard.VisualStock,
}

// GenerateTemplate builds a storyboard from the embedded tables, no API
// calls involved.
func GenerateTemplate(opts Options) *storyboard.Storyboard {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	style := opts.Style
	if _, ok := styleStructures[style]; !ok {
		style = "education"
	}
	maxScenes := opts.MaxScenes
	if maxScenes <= 0 {
		maxScenes = 4
	}

	numSegments := segmentCount(opts.Duration, maxScenes)
	structs := styleStructures[style]
	st := structs[r.Intn(len(structs))]

	hook := randomHook(opts.TemplatesDir, opts.Topic, st.HookStyle, r)
	facts := factsForTopic(opts.Topic, numSegments, r)
	// Hook and CTA take roughly 3 seconds each off the target.
	segmentDuration := math.Max(5, math.Floor((opts.Duration-6)/float64(numSegments)))

	cta := strings.ReplaceAll(st.CTA, "{topic}", opts.Topic)

	topicWords := strings.Fields(strings.ReplaceAll(strings.ToLower(opts.Topic), ",", ""))
	var hashtags []string
	for i, w := range topicWords {
		if i >= 3 {
			break
		}
		hashtags = append(hashtags, "#"+w)
	}
	hashtags = append(hashtags, "#shorts", "#viral", "#"+style)

	mood, ok := moodMap[style]
	if !ok {
		mood = "neutral"
	}

	sb := storyboard.New(opts.Topic, opts.Language, style, opts.Duration)
	sb.Hook = hook
	sb.CTA = cta
	sb.Hashtags = hashtags
	sb.MusicMood = mood
	sb.Title = opts.Topic

	visuals := visualSequence(opts.VisualMode, numSegments, style, opts.TemplatesDir)

	for i, f := range facts {
		text := strings.ReplaceAll(f.Text, "{topic}", opts.Topic)
		vtype := visuals[i%len(visuals)]

		s := storyboard.NewScene(text+". "+f.Detail, vtype)
		s.Duration = segmentDuration
		s.TransitionIn = transitionRotation[i%len(transitionRotation)]
		s.TextOverlay = truncate(text, 50)
		s.VisualPrompt = visualPrompt(vtype, f.Query, text)
		s.VisualParams = visualParams(vtype, opts.Topic, text, r)
		sb.AddScene(s)
	}

	return sb
}

func segmentCount(duration float64, maxScenes int) int {
	switch {
	case duration <= 20:
		return 2
	case duration <= 40:
		return 3
	default:
		if maxScenes < 4 {
			return maxScenes
		}
		return 4
	}
}

func factsForTopic(topic string, count int, r *rand.Rand) []fact {
	topicLower := strings.ToLower(topic)
	pool := factTables["default"]
	for key, facts := range factTables {
		if key != "default" && strings.Contains(topicLower, key) {
			pool = facts
			break
		}
	}

	idx := r.Perm(len(pool))
	n := count
	if n > len(pool) {
		n = len(pool)
	}
	selected := make([]fact, 0, count)
	for _, i := range idx[:n] {
		selected = append(selected, pool[i])
	}
	// Top up from the default pool when the topical table is short.
	def := factTables["default"]
	for len(selected) < count {
		selected = append(selected, def[r.Intn(len(def))])
	}
	return selected
}

func randomHook(templatesDir, topic, style string, r *rand.Rand) string {
	hooks := hookTables
	if override := loadHookOverride(templatesDir); override != nil {
		hooks = override
	}

	pool, ok := hooks[style]
	if !ok {
		for _, hs := range hooks {
			pool = append(pool, hs...)
		}
	}
	if len(pool) == 0 {
		return "Here's something about " + topic + "."
	}
	tmpl := pool[r.Intn(len(pool))]
	return strings.ReplaceAll(tmpl, "{topic}", topic)
}

func loadHookOverride(dir string) map[string][]string {
	if dir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(dir, "hooks.yaml"))
	if err != nil {
		return nil
	}
	var parsed struct {
		Hooks map[string][]string `yaml:"hooks"`
	}
	if yaml.Unmarshal(data, &parsed) != nil || len(parsed.Hooks) == 0 {
		return nil
	}
	return parsed.Hooks
}

func visualSequence(mode string, count int, style, templatesDir string) []storyboard.VisualType {
	switch mode {
	case "ai_image":
		return repeatVisual(storyboard.VisualAIImage, count)
	case "ai_video":
		return repeatVisual(storyboard.VisualAIVideo, count)
	case "mixed":
		if seq := loadPatternOverride(templatesDir, style); len(seq) > 0 {
			if len(seq) > count {
				seq = seq[:count]
			}
			return seq
		}
		seq := defaultMixedSequence
		if count < len(seq) {
			seq = seq[:count]
		}
		return seq
	default: // stock
		return repeatVisual(storyboard.VisualStock, count)
	}
}

func loadPatternOverride(dir, style string) []storyboard.VisualType {
	if dir == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(dir, "patterns.yaml"))
	if err != nil {
		return nil
	}
	var parsed struct {
		Patterns map[string]struct {
			VisualSequence []string `yaml:"visual_sequence"`
		} `yaml:"patterns"`
	}
	if yaml.Unmarshal(data, &parsed) != nil {
		return nil
	}
	p, ok := parsed.Patterns[style]
	if !ok {
		p, ok = parsed.Patterns["default"]
	}
	if !ok {
		return nil
	}
	var seq []storyboard.VisualType
	for _, v := range p.VisualSequence {
		vt, _ := storyboard.ParseVisualType(v)
		seq = append(seq, vt)
	}
	return seq
}

func repeatVisual(v storyboard.VisualType, count int) []storyboard.VisualType {
	seq := make([]storyboard.VisualType, count)
	for i := range seq {
		seq[i] = v
	}
	return seq
}

func visualPrompt(v storyboard.VisualType, query, text string) string {
	switch v {
	case storyboard.VisualAIImage, storyboard.VisualAIVideo:
		return "cinematic, " + query + ", high quality, 4k"
	case storyboard.VisualTextAnim:
		return truncateRaw(text, 50)
	default:
		return query
	}
}

func visualParams(v storyboard.VisualType, topic, text string, r *rand.Rand) map[string]string {
	switch v {
	case storyboard.VisualTextAnim:
		effects := []string{"typewriter", "fade_words", "slide_in", "kinetic_typography"}
		return map[string]string{
			"effect": effects[r.Intn(len(effects))],
			"text":   truncate(text, 50),
		}
	case storyboard.VisualMotion:
		effects := []string{"lower_third", "title_card", "counter"}
		return map[string]string{
			"effect": effects[r.Intn(len(effects))],
			"text":   truncate(text, 50),
		}
	case storyboard.VisualInfographic:
		charts := []string{"bar_chart", "statistics", "comparison"}
		return map[string]string{
			"chart_type": charts[r.Intn(len(charts))],
			"title":      topic,
			"data_label": truncateRaw(text, 40),
		}
	default:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func truncateRaw(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
