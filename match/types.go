package match

import "strings"

// Profile carries the fields the engine scores on plus the categorical
// lifestyle attributes, which are display-only and never scored directly.
// Profiles are validated and persisted elsewhere; the engine treats them as
// read-only input.
type Profile struct {
	ID                   int
	Name                 string
	Age                  int
	Gender               string
	Occupation           string
	City                 string
	ZipCode              string
	Latitude             *float64
	Longitude            *float64
	RentBudgetMin        int
	RentBudgetMax        int
	SleepSchedule        string
	CleanlinessLevel     string
	NoiseTolerance       string
	Hobbies              string
	PetPreference        string
	SmokingPreference    string
	LifestyleDescription string
}

// profileText builds the text fed to the embedder: description first, then
// hobbies, space-joined. The order is fixed so identical profiles always
// embed identically.
func profileText(p Profile) string {
	desc := strings.TrimSpace(p.LifestyleDescription)
	hobbies := strings.TrimSpace(p.Hobbies)
	if hobbies == "" {
		return desc
	}
	if desc == "" {
		return hobbies
	}
	return desc + " " + hobbies
}

// Weights distributes the three sub-scores into the overall score. A valid
// set sums to 1.0.
type Weights struct {
	Similarity float64 `json:"similarity"`
	Geo        float64 `json:"geo"`
	Budget     float64 `json:"budget"`
}

// DefaultWeights are the product-chosen defaults; callers may override them
// per request.
var DefaultWeights = Weights{Similarity: 0.5, Geo: 0.3, Budget: 0.2}

// DefaultMaxRadiusMiles is the geo cutoff applied when a request does not
// set its own.
const DefaultMaxRadiusMiles = 50.0

// Config tunes a single ranking call. The zero value means "use defaults":
// standard weights, no threshold, unbounded results, 50 mile radius.
type Config struct {
	Weights        Weights
	Threshold      float64
	MaxResults     int // 0 = unbounded
	MaxRadiusMiles float64
}

// withDefaults fills in zero-value fields.
func (c Config) withDefaults() Config {
	if c.Weights == (Weights{}) {
		c.Weights = DefaultWeights
	}
	if c.MaxRadiusMiles == 0 {
		c.MaxRadiusMiles = DefaultMaxRadiusMiles
	}
	return c
}

// Request is one ranking invocation: a subject, a candidate pool, and
// optional configuration.
type Request struct {
	Subject    Profile
	Candidates []Profile
	Config     Config
}

// ScoreBreakdown holds the three normalized sub-scores and the weighted
// overall score, all in [0,1].
type ScoreBreakdown struct {
	Similarity float64 `json:"similarity_score"`
	Geo        float64 `json:"geo_score"`
	Budget     float64 `json:"budget_score"`
	Overall    float64 `json:"overall_score"`
}

// Result pairs a candidate with its breakdown. Rank returns results sorted
// descending by overall score, ties broken by ascending candidate ID.
type Result struct {
	CandidateID int `json:"profile_id"`
	ScoreBreakdown
	DistanceMiles float64  `json:"distance_miles"`
	Reasons       []string `json:"reasons,omitempty"`
}
