package cfg

type Cfg struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Authentication configuration
	SecretKey          string
	AccessTokenExpires int

	// AI analyzer configuration
	HuggingFaceAPIKey string
	AnalyzerURL       string

	// Cache configuration
	CacheEnabled  bool
	RedisAddr     string
	RedisPassword string
	CacheTTL      int

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
