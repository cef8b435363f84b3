package session

// KillCounter counts kills for the run. When Required > 0 and reached it asks
// for one scene transition to NextScene after FadeDuration seconds.
type KillCounter struct {
	Required     int
	NextScene    string
	FadeDuration float64

	kills     int
	triggered bool
	fade      float64
}

func (k *KillCounter) Kills() int {
	if k == nil {
		return 0
	}
	return k.kills
}

// Register records one kill and reports whether it met the requirement.
func (k *KillCounter) Register() bool {
	if k == nil {
		return false
	}
	k.kills++
	if k.triggered || k.Required <= 0 || k.kills < k.Required {
		return false
	}
	k.triggered = true
	k.fade = k.FadeDuration
	return true
}

// Triggered reports whether the requirement was met.
func (k *KillCounter) Triggered() bool {
	return k != nil && k.triggered
}

// advance returns the scene to load once the fade has elapsed.
func (k *KillCounter) advance(dt float64) (string, bool) {
	if k == nil || !k.triggered || k.fade < 0 {
		return "", false
	}
	k.fade -= dt
	if k.fade > 0 {
		return "", false
	}
	k.fade = -1
	return k.NextScene, k.NextScene != ""
}
