package manifest

// RunManifest is the YAML sidecar written next to a dataset. It gives a
// quick overview of a run without opening the dataset itself.
type RunManifest struct {
	GeneratedAt       string         `yaml:"generated_at"`
	RunID             int64          `yaml:"run_id,omitempty"`
	Input             string         `yaml:"input"`
	Output            string         `yaml:"output"`
	Format            string         `yaml:"format"`
	OutputSizeBytes   int64          `yaml:"output_size_bytes,omitempty"`
	TotalURLs         int            `yaml:"total_urls"`
	Succeeded         int            `yaml:"succeeded"`
	OK                int            `yaml:"ok"`
	TooShort          int            `yaml:"too_short"`
	Failed            int            `yaml:"failed"`
	Duplicates        int            `yaml:"duplicates"`
	Languages         map[string]int `yaml:"languages,omitempty"`
	AggregateKeywords []string       `yaml:"aggregate_keywords"`
	Results           []URLSummary   `yaml:"results"`
}

// URLSummary is one input row of the run.
type URLSummary struct {
	URL         string   `yaml:"url"`
	Code        string   `yaml:"code,omitempty"`
	Status      string   `yaml:"status"`
	Strategy    string   `yaml:"strategy,omitempty"`
	Language    string   `yaml:"language,omitempty"`
	WordCount   int      `yaml:"word_count,omitempty"`
	Duplicate   bool     `yaml:"duplicate,omitempty"` // dropped from the dataset
	TopKeywords []string `yaml:"top_keywords,omitempty"`
}
