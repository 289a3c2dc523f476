package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"time"
	_ "time/tzdata"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Delivery configuration
	Mode       string `long:"mode" env:"MODE" default:"file" choice:"file" choice:"serve" description:"Run once and write a file, or serve the digest over HTTP"`
	OutputPath string `long:"output" env:"OUTPUT_PATH" default:"index.html" description:"Output file for file mode"`
	Port       string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for serve mode"`

	// Digest configuration
	FeedsFile string `long:"feeds-file" env:"FEEDS_FILE" default:"./feeds.yml" description:"YAML file listing the feeds to follow (built-in list when missing)"`
	Title     string `long:"title" env:"DIGEST_TITLE" default:"Data Analysis Daily Digest" description:"Heading of the rendered page"`
	Timeout   int    `long:"timeout" env:"FETCH_TIMEOUT" default:"30" description:"Feed and article download timeout in seconds"`

	// Summarization configuration
	InferenceURL    string `long:"inference-url" env:"INFERENCE_URL" default:"https://router.huggingface.co/hf-inference/models" description:"Base URL of the summarization inference API"`
	InferenceToken  string `long:"inference-token" env:"HF_TOKEN" description:"Bearer token for the inference API (optional)"`
	SummaryModel    string `long:"summary-model" env:"SUMMARY_MODEL" default:"sshleifer/distilbart-cnn-12-6" description:"Pretrained summarization model"`
	SummaryTimeout  int    `long:"summary-timeout" env:"SUMMARY_TIMEOUT" default:"120" description:"Model call timeout in seconds"`
	MaxSummaryInput int    `long:"max-summary-input" env:"MAX_SUMMARY_INPUT" default:"4000" description:"Maximum article bytes sent to the model"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"News Digest/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Ho_Chi_Minh)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses command-line arguments and environment variables. A .env file
// in the working directory is read first when present. Load returns nil, nil
// when help was requested.
func Load(args []string) (*Cfg, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.Timeout <= 0 || raw.SummaryTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be positive")
	}
	if raw.MaxSummaryInput <= 0 {
		return nil, fmt.Errorf("max summary input must be positive")
	}

	cfg := &Cfg{
		Mode:            Mode(raw.Mode),
		OutputPath:      raw.OutputPath,
		Port:            raw.Port,
		FeedsFile:       raw.FeedsFile,
		Title:           raw.Title,
		Timeout:         time.Duration(raw.Timeout) * time.Second,
		InferenceURL:    raw.InferenceURL,
		InferenceToken:  raw.InferenceToken,
		SummaryModel:    raw.SummaryModel,
		SummaryTimeout:  time.Duration(raw.SummaryTimeout) * time.Second,
		MaxSummaryInput: raw.MaxSummaryInput,
		UserAgent:       raw.UserAgent,
		Timezone:        raw.Timezone,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
