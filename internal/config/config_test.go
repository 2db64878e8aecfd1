package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FirstYear != 1824 || cfg.LastYear != 2012 || cfg.YearStep != 4 {
		t.Fatalf("years=%d..%d step %d", cfg.FirstYear, cfg.LastYear, cfg.YearStep)
	}
	if cfg.OutputDelimiter != "\t" {
		t.Fatalf("delimiter=%q", cfg.OutputDelimiter)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FIRST_YEAR", "1900")
	t.Setenv("STATE_TOTAL_MARKERS", " Total Votes , ,Total ")
	t.Setenv("EXPORT_XLSX", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FirstYear != 1900 {
		t.Fatalf("first year=%d", cfg.FirstYear)
	}
	if len(cfg.StateTotalMarkers) != 2 || cfg.StateTotalMarkers[0] != "Total Votes" || cfg.StateTotalMarkers[1] != "Total" {
		t.Fatalf("markers=%q", cfg.StateTotalMarkers)
	}
	if !cfg.ExportXLSX {
		t.Fatal("export xlsx not enabled")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "multi char delimiter", mutate: func(c *Config) { c.OutputDelimiter = "||" }},
		{name: "zero step", mutate: func(c *Config) { c.YearStep = 0 }},
		{name: "reversed range", mutate: func(c *Config) { c.FirstYear, c.LastYear = 2000, 1900 }},
		{name: "unknown strategy", mutate: func(c *Config) { c.StateStrategy = "guess" }},
		{name: "blank sentinel", mutate: func(c *Config) { c.UnknownParty = " " }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, _ := Load()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDelimiter(t *testing.T) {
	cfg, _ := Load()
	cfg.OutputDelimiter = "|"
	if cfg.Delimiter() != '|' {
		t.Fatalf("delimiter=%q", cfg.Delimiter())
	}
}
