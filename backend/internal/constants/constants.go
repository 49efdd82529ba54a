package constants

// Event filter labels
const (
	FilterFather = "father"
	FilterMother = "mother"
	FilterMale   = "male"
	FilterFemale = "female"
)

// Line filter labels; also used as line kinds and color labels
const (
	LineLifeStory  = "life_story"
	LineFamilyTree = "family_tree"
	LineSpouse     = "spouse"
)

// Event types pinned to the ends of a timeline
const (
	EventTypeBirth = "birth"
	EventTypeDeath = "death"
)

// Color constants
const (
	// DefaultPaletteSize is the number of color slots before assignment wraps
	DefaultPaletteSize = 27
	// ColorSlotPrefix prefixes the 1-based slot number in a color name
	ColorSlotPrefix = "color"
)

// Line width constants
const (
	// DefaultLineWidth is the width of a first-generation line
	DefaultLineWidth = 13
	// GenerationWidthStep is subtracted per generation of family tree lines
	GenerationWidthStep = 3
	// MinLineWidth keeps distant generations drawable
	MinLineWidth = 1
)

// Placeholder is shown when a display lookup misses
const Placeholder = "unknown"

// DefaultEventFilters returns the event filters active at session start
func DefaultEventFilters() []string {
	return []string{FilterFather, FilterMother, FilterMale, FilterFemale}
}

// DefaultLineFilters returns the line filters active at session start
func DefaultLineFilters() []string {
	return []string{LineLifeStory, LineFamilyTree, LineSpouse}
}
