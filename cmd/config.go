package cmd

// Config carries every environment-derived setting the service needs.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisHost     string
	RedisPort     string
	RedisPassword string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// PointsPerCurrencyUnit is the loyalty earn rate used when the settings
	// table carries no override.
	PointsPerCurrencyUnit string
}
