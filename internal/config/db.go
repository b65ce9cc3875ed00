package config

// Gorm engines.
const (
	EngineSQLite   = "sqlite"
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string `mapstructure:"extras" json:"extras"`
	Host       string `mapstructure:"host" json:"host"`
	Port       int    `mapstructure:"port" json:"port"`
	User       string `mapstructure:"user" json:"user"`
	Password   string `mapstructure:"password" json:"-"`
	Name       string `mapstructure:"name" json:"name"` // database name, or file path for sqlite
	GormEngine string `mapstructure:"gormEngine" json:"gormEngine"`
}
