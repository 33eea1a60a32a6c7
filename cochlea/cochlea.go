package cochlea

// Audio preprocessing constants. These must match the values the head was
// trained with.
const (
	// SampleRate is the mono sample rate the backbone expects.
	SampleRate = 32000
	// CropSeconds is the fixed clip length fed to the backbone.
	CropSeconds = 10.0
	// CropSamples is the exact waveform length after the center crop.
	CropSamples = int(SampleRate * CropSeconds)
)

// Head hyperparameters, fixed at training time.
const (
	Hidden  = 512
	Dropout = 0.2
)

// ModelVersion identifies the trained head artifact reported in Meta.
const ModelVersion = "mt-head-v1"

// RegressionCols are the regression target names, in training order.
var RegressionCols = []string{
	"acousticness", "danceability", "energy", "instrumentalness", "liveness",
	"loudness", "speechiness", "tempo", "valence", "duration_ms",
}

// ClassificationCols are the classification target names.
var ClassificationCols = []string{"key", "mode", "time_signature"}

// LogScaledCols are regression targets trained on log1p-transformed values;
// their predictions are mapped back with expm1.
var LogScaledCols = map[string]bool{
	"tempo":       true,
	"duration_ms": true,
}

// Features holds the predicted music attributes for one clip.
type Features struct {
	// Acousticness is a confidence measure from 0.0 to 1.0 of whether the clip is acoustic.
	// 1.0 represents high confidence the clip is acoustic.
	// Example: 0.00242
	Acousticness float64 `json:"acousticness"`
	// Danceability describes how suitable the clip is for dancing based on a combination of
	// musical elements including tempo, rhythm stability, beat strength, and overall regularity.
	// A value of 0.0 is least danceable and 1.0 is most danceable.
	// Example: 0.585
	Danceability float64 `json:"danceability"`
	// Energy is a measure from 0.0 to 1.0 and represents a perceptual measure of intensity
	// and activity. Energetic tracks feel fast, loud, and noisy.
	// Example: 0.842
	Energy float64 `json:"energy"`
	// Instrumentalness predicts whether the clip contains no vocals. The closer the value
	// is to 1.0, the greater likelihood the clip contains no vocal content.
	// Example: 0.00686
	Instrumentalness float64 `json:"instrumentalness"`
	// Liveness detects the presence of an audience in the recording. A value above 0.8
	// provides strong likelihood that the clip is live.
	// Example: 0.0866
	Liveness float64 `json:"liveness"`
	// Loudness is the overall loudness of the clip in decibels (dB). Values typically
	// range between -60 and 0 db.
	// Example: -5.883
	Loudness float64 `json:"loudness"`
	// Speechiness detects the presence of spoken words. Values above 0.66 describe clips
	// that are probably made entirely of spoken words.
	// Example: 0.0556
	Speechiness float64 `json:"speechiness"`
	// Tempo is the estimated tempo in beats per minute (BPM).
	// Example: 118.211
	Tempo float64 `json:"tempo"`
	// Valence is a measure from 0.0 to 1.0 describing the musical positiveness conveyed
	// by the clip. High valence sounds more positive (happy, cheerful, euphoric).
	// Example: 0.428
	Valence float64 `json:"valence"`
	// DurationMs is the predicted duration of the full track in milliseconds.
	// Example: 237040
	DurationMs float64 `json:"duration_ms"`

	// Key is the key the clip is in. Integers map to pitches using standard Pitch Class
	// notation. E.g. 0 = C, 1 = C♯/D♭, 2 = D, and so on.
	// Range: -1 - 11
	Key int `json:"key"`
	// Mode indicates the modality (major or minor) of the clip. Major is represented
	// by 1 and minor is 0.
	Mode int `json:"mode"`
	// TimeSignature is an estimated time signature, from 3 to 7 indicating "3/4" to "7/4".
	TimeSignature int `json:"time_signature"`
}

// Meta describes how a prediction was produced.
type Meta struct {
	ModelVersion string `json:"model_version"`
	// EmbeddingDim is the width of the embedding after dimension adaptation.
	EmbeddingDim int `json:"embedding_dim"`
	LatencyMs    int `json:"latency_ms"`

	RequestID string `json:"request_id,omitempty"`
	// Format is the detected container/codec of the upload (e.g. "mp3").
	Format string `json:"format,omitempty"`
	// Title and Artist come from the upload's embedded tags, when present.
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
}

// Prediction is the JSON body returned by POST /infer.
type Prediction struct {
	Features Features `json:"features"`
	Meta     Meta     `json:"meta"`
}
