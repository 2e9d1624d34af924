package cfg

type Cfg struct {
	// Storage configuration
	DBPath string

	// Application configuration
	SectionsDir       string
	SourcesDir        string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	QueryTimeout      int // milliseconds, per store call
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
