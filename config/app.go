package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// AppConfig 是进程级配置，从环境变量加载（可选 .env 文件）。
// Pipeline 编排走 YAML（见 pipeline.Config），连接地址、路径
// 这类部署相关配置走环境变量，两者各管各的。
type AppConfig struct {
	// ListenAddr HTTP 服务监听地址
	ListenAddr string

	// DatasetPath 房源 CSV 数据文件路径
	DatasetPath string

	// ModelPath 模型文件路径（Save/Load）
	ModelPath string

	// PipelinePath Pipeline YAML 配置路径
	PipelinePath string

	// RedisAddr Redis 地址（host:port）；为空时不启用 RedisStore
	RedisAddr string
	RedisDB   int

	// Postgres 连接参数；Host 为空时不启用 PostgresStore
	PostgresHost     string
	PostgresPort     int
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	// Feast 在线特征服务；Host 为空时不启用 FeastProvider
	FeastHost    string
	FeastPort    int
	FeastProject string
}

// LoadAppConfig 加载配置：先尝试读取 .env（不存在不算错误），
// 再从环境变量取值，缺省用默认值。
func LoadAppConfig() *AppConfig {
	_ = godotenv.Load()

	return &AppConfig{
		ListenAddr:   getEnv("ESTATE_LISTEN_ADDR", ":8080"),
		DatasetPath:  getEnv("ESTATE_DATASET", "testdata/listings.csv"),
		ModelPath:    getEnv("ESTATE_MODEL_PATH", "model.txt"),
		PipelinePath: getEnv("ESTATE_PIPELINE", ""),

		RedisAddr: getEnv("ESTATE_REDIS_ADDR", ""),
		RedisDB:   getEnvInt("ESTATE_REDIS_DB", 0),

		PostgresHost:     getEnv("ESTATE_PG_HOST", ""),
		PostgresPort:     getEnvInt("ESTATE_PG_PORT", 5432),
		PostgresUser:     getEnv("ESTATE_PG_USER", "postgres"),
		PostgresPassword: getEnv("ESTATE_PG_PASSWORD", ""),
		PostgresDB:       getEnv("ESTATE_PG_DB", "estate"),

		FeastHost:    getEnv("ESTATE_FEAST_HOST", ""),
		FeastPort:    getEnvInt("ESTATE_FEAST_PORT", 6565),
		FeastProject: getEnv("ESTATE_FEAST_PROJECT", "estate"),
	}
}

// PostgresDSN 拼出 lib/pq 接受的连接串。
func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB)
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}
