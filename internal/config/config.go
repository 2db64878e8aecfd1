package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

type Config struct {
	InputDir  string
	OutputDir string
	DBPath    string

	FirstYear int
	LastYear  int
	YearStep  int

	NationalFilePattern string
	StateFilePattern    string

	NationalTableSelector string
	StateTableSelector    string
	StateTotalMarkers     []string
	HeaderSpliceMarkers   []string
	StateStrategy         string

	UnknownParty string

	OutputDelimiter    string
	NationalOutputFile string
	StateOutputFile    string
	ExportXLSX         bool

	SuggestMinSimilarity float64
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		InputDir:  getEnv("INPUT_DIR", filepath.Join(cwd, "raw_data")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "data")),
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),

		FirstYear: getEnvInt("FIRST_YEAR", 1824),
		LastYear:  getEnvInt("LAST_YEAR", 2012),
		YearStep:  getEnvInt("YEAR_STEP", 4),

		NationalFilePattern: getEnv("NATIONAL_FILE_PATTERN", "national_results_%d.html"),
		StateFilePattern:    getEnv("STATE_FILE_PATTERN", "state_results_%d.html"),

		NationalTableSelector: getEnv("NATIONAL_TABLE_SELECTOR", "table"),
		StateTableSelector:    getEnv("STATE_TABLE_SELECTOR", "table"),
		StateTotalMarkers:     getEnvList("STATE_TOTAL_MARKERS", []string{"total vote", "total"}),
		HeaderSpliceMarkers:   getEnvList("HEADER_SPLICE_MARKERS", []string{"popular vote"}),
		StateStrategy:         getEnv("STATE_STRATEGY", "header"),

		UnknownParty: getEnv("UNKNOWN_PARTY", "Unknown"),

		OutputDelimiter:    getEnv("OUTPUT_DELIMITER", "\t"),
		NationalOutputFile: getEnv("NATIONAL_OUTPUT_FILE", "national_data.txt"),
		StateOutputFile:    getEnv("STATE_OUTPUT_FILE", "state_data.txt"),
		ExportXLSX:         getEnvBool("EXPORT_XLSX", false),

		SuggestMinSimilarity: getEnvFloat("SUGGEST_MIN_SIMILARITY", 0.70),
	}

	return cfg, nil
}

// Validate reports settings the pipeline cannot run with.
func (c Config) Validate() error {
	if utf8.RuneCountInString(c.OutputDelimiter) != 1 {
		return fmt.Errorf("OUTPUT_DELIMITER must be a single character, got %q", c.OutputDelimiter)
	}
	if c.YearStep <= 0 {
		return fmt.Errorf("YEAR_STEP must be positive, got %d", c.YearStep)
	}
	if c.LastYear < c.FirstYear {
		return fmt.Errorf("LAST_YEAR %d is before FIRST_YEAR %d", c.LastYear, c.FirstYear)
	}
	if err := c.Require("UNKNOWN_PARTY", c.UnknownParty); err != nil {
		return err
	}
	switch c.StateStrategy {
	case "header", "fixed":
	default:
		return fmt.Errorf("unsupported STATE_STRATEGY: %s", c.StateStrategy)
	}
	return nil
}

// Delimiter returns the output delimiter as a rune. Validate must pass first.
func (c Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.OutputDelimiter)
	return r
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	out := []string{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
