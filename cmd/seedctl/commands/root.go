package commands

import (
	"context"
	"fmt"
	"strings"

	"seedbreed/common/logger"
	"seedbreed/internal/app"
	"seedbreed/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// 子命令共用的应用实例
	seed *app.App
)

var rootCmd = &cobra.Command{
	Use:          "seedctl",
	Short:        "seedbreed 记录集合的运维工具",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		applyOverrides(cfg)

		log, err := logger.NewLogger(viper.GetString("log.level"), "console", "seedctl")
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}

		seed, err = app.New(cmd.Context(), cfg, log)
		if err != nil {
			return fmt.Errorf("failed to open record store: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if seed != nil {
			seed.Close()
			_ = seed.Logger.Sync()
		}
	},
}

// Execute 入口
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")
	rootCmd.PersistentFlags().String("backend", "", "record store backend: memory|redis|postgres")
	rootCmd.PersistentFlags().String("redis-addr", "", "redis address")
	rootCmd.PersistentFlags().String("db-host", "", "postgres host")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level")

	// 参数与环境变量同名：store.backend <-> STORE_BACKEND
	mustBind("store.backend", "backend")
	mustBind("redis.addr", "redis-addr")
	mustBind("db.host", "db-host")
	mustBind("log.level", "log-level")
}

func mustBind(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		cobra.CheckErr(fmt.Errorf("failed to read config %s: %w", cfgFile, err))
	}
}

// applyOverrides 命令行参数、配置文件优先于环境变量默认值
func applyOverrides(cfg *config.Config) {
	if v := viper.GetString("store.backend"); v != "" {
		cfg.StoreBackend = config.NormalizeBackend(v)
	}
	if v := viper.GetString("redis.addr"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := viper.GetString("db.host"); v != "" {
		cfg.Database.Host = v
	}
}
