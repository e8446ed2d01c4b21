package cfg

type Cfg struct {
	// Content directories
	CorpusDir     string
	StagingDir    string
	TrackerDir    string
	QuarantineDir string

	// Catalog database
	CatalogPath string

	// Schema and taxonomy
	SchemaFile   string
	TaxonomyFile string
	SchemaURL    string
	TaxonomyURL  string
	MaxTags      int

	// Generation service
	GenerationEndpoint string
	GenerationModel    string
	GenerationAPIKey   string
	GenerationTimeout  int

	// Application configuration
	Port              string
	APIAccessKey      string
	BatchCount        int
	SchedulerInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
