package config_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/flexa/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	vars := []string{
		"FLEXA_CONFIG",
		"FLEXA_LOG_LEVEL",
		"FLEXA_ADDR",
		"FLEXA_QUEUE_SIZE",
		"FLEXA_WORKER_COUNT",
		"FLEXA_DEDUPE_SIZE",
		"FLEXA_SHARD_COUNT",
		"FLEXA_HISTORY_SIZE",
		"FLEXA_ARCHIVE_PATH",
	}
	for _, v := range vars {
		_ = os.Unsetenv(v)
	}
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.RepQueueSize, convey.ShouldEqual, 10_000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU())
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
				convey.So(cfg.HistorySize, convey.ShouldEqual, 10)
				convey.So(cfg.ArchivePath, convey.ShouldEqual, "flexa.db")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FLEXA_ADDR", ":8080")
			_ = os.Setenv("FLEXA_QUEUE_SIZE", "5000")
			_ = os.Setenv("FLEXA_WORKER_COUNT", "4")
			_ = os.Setenv("FLEXA_DEDUPE_SIZE", "25000")
			_ = os.Setenv("FLEXA_HISTORY_SIZE", "20")
			_ = os.Setenv("FLEXA_ARCHIVE_PATH", "/tmp/flexa_test.db")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RepQueueSize, convey.ShouldEqual, 5000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
				convey.So(cfg.DedupeSize, convey.ShouldEqual, 25000)
				convey.So(cfg.HistorySize, convey.ShouldEqual, 20)
				convey.So(cfg.ArchivePath, convey.ShouldEqual, "/tmp/flexa_test.db")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			clearConfigEnvVars()

			content := []byte("addr: \":7070\"\nhistory_size: 15\nlog_level: debug\n")
			path := filepath.Join(t.TempDir(), "flexa.yaml")
			convey.So(os.WriteFile(path, content, 0600), convey.ShouldBeNil)
			_ = os.Setenv("FLEXA_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.HistorySize, convey.ShouldEqual, 15)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
			})

			convey.Convey("And env vars override the file", func() {
				_ = os.Setenv("FLEXA_ADDR", ":6060")

				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.HistorySize, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			clearConfigEnvVars()
			_ = os.Setenv("FLEXA_CONFIG", "/nonexistent/flexa.yaml")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When required values are blanked out", func() {
			clearConfigEnvVars()
			_ = os.Setenv("FLEXA_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then validation rejects the config", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestConfigNew(t *testing.T) {
	convey.Convey("Given the default config constructor", t, func() {
		cfg := config.New()

		convey.Convey("Then all defaults are populated", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.RepQueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldBeGreaterThan, 0)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.ShardCount, convey.ShouldEqual, 8)
			convey.So(cfg.HistorySize, convey.ShouldEqual, 10)
			convey.So(cfg.ArchivePath, convey.ShouldEqual, "flexa.db")
		})
	})
}
