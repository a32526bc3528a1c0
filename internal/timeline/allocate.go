package timeline

// Time reserved at the head of every video for the hook, and at the
// tail for the call to action when one exists.
const (
	HookDuration = 3.0
	CTADuration  = 3.0
	minSceneTime = 3.0
)

// Slot is a scene's window on the final timeline.
type Slot struct {
	Start    float64
	Duration float64
}

// Allocate divides the total runtime among scenes. The hook owns the
// first three seconds and the CTA the last three when present; the
// remainder is split evenly, never below three seconds per scene. The
// scene layer, overlay layer and subtitle layer all share this one
// allocation.
func Allocate(numScenes int, total float64, hasCTA bool) []Slot {
	if numScenes <= 0 {
		return nil
	}

	ctaTime := 0.0
	if hasCTA {
		ctaTime = CTADuration
	}
	content := total - HookDuration - ctaTime
	perScene := content / float64(numScenes)
	if perScene < minSceneTime {
		perScene = minSceneTime
	}

	slots := make([]Slot, numScenes)
	elapsed := HookDuration
	for i := range slots {
		slots[i] = Slot{Start: elapsed, Duration: perScene}
		elapsed += perScene
	}
	return slots
}
