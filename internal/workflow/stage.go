package workflow

// Stage is one phase of the upload → curate → research → generate →
// manage workflow. The entity-curation flow and the generation flow are
// independent sub-machines; each Controller field that holds a Stage
// belongs to exactly one of them.
type Stage int

const (
	// Curation sub-machine.
	StageBrowsing Stage = iota
	StageEntitiesLoaded
	StageSaving
	StageResearching

	// Generation sub-machine.
	StageGenerationForm
	StageGenerating
	StageLetterReady

	// Letter management.
	StageLettersBrowsing
)

var stageNames = map[Stage]string{
	StageBrowsing:        "browsing",
	StageEntitiesLoaded:  "entities_loaded",
	StageSaving:          "saving",
	StageResearching:     "researching",
	StageGenerationForm:  "generation_form",
	StageGenerating:      "generating",
	StageLetterReady:     "letter_ready",
	StageLettersBrowsing: "letters_browsing",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}
