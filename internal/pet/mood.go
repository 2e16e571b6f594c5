package pet

// DetermineMood returns a mood string based on priority-ordered rules.
// Priority: Dead > Sleepy > Hungry > Bored > Happy > Content
func DetermineMood(s Snapshot) string {
	if !s.Alive {
		return "dead"
	}

	if s.Energy < 20 {
		return "sleepy"
	}

	if s.Hunger > 70 {
		return "hungry"
	}

	if s.Happiness < 30 {
		return "bored"
	}

	if s.Happiness > 70 && s.Hunger < 40 && s.Energy > 40 {
		return "happy"
	}

	return "content"
}
