package types

import "time"

// ClassifierConfig tunes the heuristics that turn recognized lines into
// markdown. Zero values fall back to the defaults in DefaultClassifierConfig.
type ClassifierConfig struct {
	// HeadingMinHeight is the line height, as a fraction of page height,
	// above which a line starting with an uppercase letter becomes a heading
	// (default 0.021). Font size and render DPI both shift this value.
	HeadingMinHeight float64 `json:"heading_min_height" yaml:"heading_min_height"`

	// HeadingLevel is the number of '#' characters used for headings (default 2).
	HeadingLevel int `json:"heading_level" yaml:"heading_level"`

	// BulletPrefixes lists the leading characters that mark a list item
	// (default "-" and "•").
	BulletPrefixes []string `json:"bullet_prefixes" yaml:"bullet_prefixes"`

	// ListMarker replaces the leading bullet character (default "-").
	ListMarker string `json:"list_marker" yaml:"list_marker"`

	// SentenceTerminators end a paragraph (default ".").
	SentenceTerminators []string `json:"sentence_terminators" yaml:"sentence_terminators"`

	// CohesiveLists joins consecutive list items with a single newline so they
	// render as one markdown list. Off by default: every item is followed by a
	// blank line.
	CohesiveLists bool `json:"cohesive_lists" yaml:"cohesive_lists"`
}

// DefaultClassifierConfig returns the classifier settings that reproduce the
// reference output byte for byte.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		HeadingMinHeight:    0.021,
		HeadingLevel:        2,
		BulletPrefixes:      []string{"-", "•"},
		ListMarker:          "-",
		SentenceTerminators: []string{"."},
	}
}

// RecognitionBackend identifies the OCR engine.
type RecognitionBackend string

const (
	BackendTesseract RecognitionBackend = "tesseract"
	BackendExec      RecognitionBackend = "exec"
	BackendContainer RecognitionBackend = "container"
)

// RecognitionConfig holds settings for the OCR stage.
type RecognitionConfig struct {
	// Backend selects the engine: tesseract (linked library), exec (local
	// tesseract binary), or container (tesseract in docker/podman).
	Backend RecognitionBackend `json:"backend" yaml:"backend"`

	// Languages are Tesseract language codes, e.g. "eng", "deu".
	Languages []string `json:"languages" yaml:"languages"`

	// PageSegMode is the Tesseract page segmentation mode (default 3, fully automatic).
	PageSegMode int `json:"page_seg_mode" yaml:"page_seg_mode"`

	// DPI is used both to rasterise PDF pages and as Tesseract's
	// user_defined_dpi hint (default 150).
	DPI int `json:"dpi" yaml:"dpi"`

	// Variables are passed through to Tesseract as SetVariable calls.
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// TesseractBin is the binary used by the exec backend (default "tesseract").
	TesseractBin string `json:"tesseract_bin" yaml:"tesseract_bin"`

	// ContainerImage is the image used by the container backend. Its
	// entrypoint must be the tesseract binary.
	ContainerImage string `json:"container_image" yaml:"container_image"`

	// Timeout bounds a single recognition call for the exec and container
	// backends. Zero disables the bound.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Retries is how many times the exec and container backends retry a
	// failed call, with exponential backoff starting at RetryDelay.
	Retries    int           `json:"retries" yaml:"retries"`
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`
}

// OutputFormat selects the structured-mode output format.
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "markdown"
	OutputHTML     OutputFormat = "html"
)

// OutputConfig holds settings for the batch driver's output.
type OutputConfig struct {
	// FileOutput writes results next to their inputs instead of to stdout.
	FileOutput bool `json:"file_output" yaml:"file_output"`

	// PrintReport prints processed and skipped file lists at the end.
	PrintReport bool `json:"print_report" yaml:"print_report"`

	// Dir receives outputs that have no sibling path (base64 input).
	Dir string `json:"dir" yaml:"dir"`

	// Format applies to PDF output: markdown (default) or html.
	Format OutputFormat `json:"format" yaml:"format"`

	// Frontmatter prepends a YAML block with source metadata to markdown output.
	Frontmatter bool `json:"frontmatter" yaml:"frontmatter"`

	// Workers is the number of images recognized concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`

	// Progress draws a progress bar on stderr.
	Progress bool `json:"progress" yaml:"progress"`
}

// LedgerConfig holds settings for the SQLite run ledger.
type LedgerConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the database file (default ".textract/ledger.db").
	Path string `json:"path" yaml:"path"`

	// Incremental skips inputs whose content is unchanged since their last
	// successful run.
	Incremental bool `json:"incremental" yaml:"incremental"`
}

// LogConfig holds diagnostic logging settings.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level"`

	// Format is console (default) or json.
	Format string `json:"format" yaml:"format"`
}

// Config groups all settings for a textract run.
type Config struct {
	Classifier  ClassifierConfig  `json:"classifier" yaml:"classifier"`
	Recognition RecognitionConfig `json:"recognition" yaml:"recognition"`
	Output      OutputConfig      `json:"output" yaml:"output"`
	Ledger      LedgerConfig      `json:"ledger" yaml:"ledger"`
	Log         LogConfig         `json:"log" yaml:"log"`
}

// DefaultConfig returns the settings used when no flag, environment
// variable, or config file overrides them.
func DefaultConfig() Config {
	return Config{
		Classifier: DefaultClassifierConfig(),
		Recognition: RecognitionConfig{
			Backend:        BackendTesseract,
			Languages:      []string{"eng"},
			PageSegMode:    3,
			DPI:            150,
			TesseractBin:   "tesseract",
			ContainerImage: "jitesoft/tesseract-ocr:latest",
			Retries:        2,
			RetryDelay:     time.Second,
		},
		Output: OutputConfig{
			Dir:     ".",
			Format:  OutputMarkdown,
			Workers: 1,
		},
		Ledger: LedgerConfig{
			Path: ".textract/ledger.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
