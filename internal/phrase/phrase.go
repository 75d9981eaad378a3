// Package phrase holds the dot-phrase model, the persisted phrase store and
// the trigger matcher used by the note editor.
package phrase

import (
	"crypto/rand"
	"encoding/hex"
)

// Phrase is a single trigger→expansion mapping. The trigger is stored without
// its leading dot. Triggers are not required to be unique; duplicates simply
// show up as separate candidates.
type Phrase struct {
	ID        string `json:"id"`
	Trigger   string `json:"trigger"`
	Expansion string `json:"expansion"`
	Category  string `json:"category"`
}

// generateID creates a new phrase ID with "ph-" prefix and 8 hex chars.
func generateID() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "ph-" + hex.EncodeToString(b), nil
}

// DefaultSeed returns the built-in starter phrases used when no stored list
// exists yet or the stored list cannot be read.
func DefaultSeed() []Phrase {
	return []Phrase{
		{
			ID:        "ph-seed0001",
			Trigger:   "soap",
			Expansion: "S: ***\nO: ***\nA: ***\nP: ***",
			Category:  "General",
		},
		{
			ID:        "ph-seed0002",
			Trigger:   "ros",
			Expansion: "Review of Systems:\nConstitutional: Denies fever, chills, weight loss.\nHEENT: ***\nCardiovascular: Denies chest pain, palpitations.\nRespiratory: Denies cough, dyspnea.\nAll other systems reviewed and negative.",
			Category:  "Exam",
		},
		{
			ID:        "ph-seed0003",
			Trigger:   "normalexam",
			Expansion: "General: Alert and oriented, no acute distress.\nHEENT: Normocephalic, atraumatic. PERRL.\nCV: Regular rate and rhythm, no murmurs.\nLungs: Clear to auscultation bilaterally.\nAbd: Soft, non-tender, non-distended.",
			Category:  "Exam",
		},
		{
			ID:        "ph-seed0004",
			Trigger:   "fu",
			Expansion: "Return to clinic in *** weeks, sooner if symptoms worsen.",
			Category:  "Plan",
		},
	}
}
