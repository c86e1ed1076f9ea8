package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	DocumentsDir      string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string
	StatsRetention    int // days

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
