package cfg

import "time"

type Mode string

const (
	ModeFile  Mode = "file"
	ModeServe Mode = "serve"
)

type Cfg struct {
	// Delivery
	Mode       Mode
	OutputPath string
	Port       string

	// Digest
	FeedsFile string
	Title     string
	Timeout   time.Duration

	// Summarization
	InferenceURL    string
	InferenceToken  string
	SummaryModel    string
	SummaryTimeout  time.Duration
	MaxSummaryInput int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
