package main

import (
	"fmt"
	"log"
	"os"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/server"
	"github.com/clipforge/clipforge/pkg/db/aws"
	redisConn "github.com/clipforge/clipforge/pkg/db/redis"
	"github.com/clipforge/clipforge/pkg/db/sqlite"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "clipforge",
		Short:        "Extract short viral clips from uploaded videos",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			return runServer(configFile)
		},
	}
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true
	root.Flags().String("config", "config.yml", "Path to the config file")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(configFile string) error {
	log.Println("Starting server")
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("loadConfig: %w", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("parseConfig: %w", err)
	}

	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s, JobStore: %s",
		cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode, cfg.Storage.JobStore)

	var db *sqlx.DB
	var redisClient *redis.Client
	switch cfg.Storage.JobStore {
	case "redis":
		redisClient, err = redisConn.NewRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer redisClient.Close()
		appLogger.Infof("redis connected")
	case "sqlite":
		db, err = sqlite.NewSqliteDB(cfg.Storage.SqlitePath)
		if err != nil {
			return fmt.Errorf("sqlite: %w", err)
		}
		defer db.Close()
		appLogger.Infof("sqlite opened at %s", cfg.Storage.SqlitePath)
	}

	var s3Client *s3.Client
	var preSignClient *s3.PresignClient
	if cfg.S3.Enabled {
		s3Client, preSignClient, err = aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
		if err != nil {
			appLogger.Warnf("object storage unavailable, clips stay local only: %s", err)
			s3Client, preSignClient = nil, nil
		} else {
			appLogger.Infof("object storage connected")
		}
	}

	s := server.NewServer(cfg, db, redisClient, s3Client, preSignClient, appLogger)
	return s.Run()
}
