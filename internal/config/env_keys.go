package config

// Environment Variable Keys
const (
	// EnvAppEnv 定義應用程式執行環境 (local, dev, prod)
	EnvAppEnv = "APP_ENV"

	// EnvPort 定義 HTTP/Websocket 服務 Port
	EnvPort = "PORT"

	// EnvGrpcPort 定義 Admin gRPC 服務 Port
	EnvGrpcPort = "GRPC_PORT"

	// EnvLogLevel 定義 log 等級
	EnvLogLevel = "LOG_LEVEL"

	// EnvRedisAddr 定義 Redis 服務地址 (host:port)，設定後會啟用 Redis
	EnvRedisAddr = "REDIS_ADDR"

	// EnvRedisPassword 定義 Redis 密碼
	EnvRedisPassword = "REDIS_PASSWORD"

	// EnvMySQLHost 定義 MySQL 主機，設定後會啟用 MySQL
	EnvMySQLHost = "MYSQL_HOST"

	// EnvMySQLUser 定義 MySQL 使用者
	EnvMySQLUser = "MYSQL_USER"

	// EnvMySQLDB 定義 MySQL 資料庫名稱
	EnvMySQLDB = "MYSQL_DB"

	// EnvMySQLPort 定義 MySQL Port
	EnvMySQLPort = "MYSQL_PORT"

	// EnvMySQLPassword 定義 MySQL 密碼
	EnvMySQLPassword = "MYSQL_PASSWORD"

	// EnvTickRate 定義每秒 tick 數
	EnvTickRate = "GAME_TICK_RATE"

	// EnvMaxScore 定義獲勝分數
	EnvMaxScore = "GAME_MAX_SCORE"

	// EnvAllowGuest 是否允許 guest:<name> 登入
	EnvAllowGuest = "GAME_ALLOW_GUEST"

	// EnvAllowedOrigins 以逗號分隔的 websocket 允許來源
	EnvAllowedOrigins = "WSS_ALLOWED_ORIGINS"
)
