package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	DataRoot          string
	ThumbnailSize     int
	DecodeMaxPackets  int
	VideoSeekPolicy   string
	VideoSeekOffset   time.Duration
	IngestFileTimeout time.Duration
	MaxUploadBytes    int64
	MaxPixels         int64
	FFmpegPath        string
	FFprobePath       string
	SpoolMaxAge       time.Duration

	JWTPublicKey string

	RedisAddr     string
	RedisPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	viper.SetDefault("THUMBNAIL_SIZE", 256)
	viper.SetDefault("DECODE_MAX_PACKETS", 10)
	viper.SetDefault("VIDEO_SEEK_POLICY", "midpoint")
	viper.SetDefault("VIDEO_SEEK_OFFSET_SECONDS", 1)
	viper.SetDefault("INGEST_FILE_TIMEOUT_SECONDS", 120)
	viper.SetDefault("MAX_UPLOAD_BYTES", 0)
	viper.SetDefault("MAX_PIXELS", 100_000_000)
	viper.SetDefault("FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("FFPROBE_PATH", "ffprobe")
	viper.SetDefault("SPOOL_MAX_AGE_HOURS", 24)
	viper.SetDefault("MINIO_BUCKET", "posts")

	for _, key := range []string{
		"MARIADB_DSN",
		"MARIADB_MAX_OPEN_CONN",
		"MARIADB_MAX_IDLE_CONNS",
		"MARIADB_CONN_MAX_LIFETIME",
		"SERVER_PORT",
		"DATA_ROOT",
	} {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	policy := viper.GetString("VIDEO_SEEK_POLICY")
	if policy != "midpoint" && policy != "offset" {
		return nil, fmt.Errorf("VIDEO_SEEK_POLICY must be midpoint or offset, got %q", policy)
	}

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		DataRoot:          viper.GetString("DATA_ROOT"),
		ThumbnailSize:     viper.GetInt("THUMBNAIL_SIZE"),
		DecodeMaxPackets:  viper.GetInt("DECODE_MAX_PACKETS"),
		VideoSeekPolicy:   policy,
		VideoSeekOffset:   time.Duration(viper.GetInt("VIDEO_SEEK_OFFSET_SECONDS")) * time.Second,
		IngestFileTimeout: time.Duration(viper.GetInt("INGEST_FILE_TIMEOUT_SECONDS")) * time.Second,
		MaxUploadBytes:    viper.GetInt64("MAX_UPLOAD_BYTES"),
		MaxPixels:         viper.GetInt64("MAX_PIXELS"),
		FFmpegPath:        viper.GetString("FFMPEG_PATH"),
		FFprobePath:       viper.GetString("FFPROBE_PATH"),
		SpoolMaxAge:       time.Duration(viper.GetInt("SPOOL_MAX_AGE_HOURS")) * time.Hour,

		JWTPublicKey: viper.GetString("JWT_PUBLIC_KEY"),

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		MinioBucket:    viper.GetString("MINIO_BUCKET"),
	}, nil
}
