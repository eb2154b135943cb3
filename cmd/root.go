package cmd

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	globalConfig "github.com/finmsg/finmsg/config"
	"github.com/finmsg/finmsg/pkg/utils"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "finmsg",
	Short: "Sponsored financing message service",
	Long: `fin-msg fetches sponsored financing message content and merchant
profiles from the messaging service, caching and de-duplicating requests
so integrations can re-render cheaply.`,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig)
}

func initFlags() {
	rootCmd.PersistentFlags().String("port", globalConfig.AppPort, "HTTP port for the REST surface")
	rootCmd.PersistentFlags().Bool("debug", globalConfig.AppDebug, "Enable debug logging")
	_ = viper.BindPFlag("app_port", rootCmd.PersistentFlags().Lookup("port"))
	_ = viper.BindPFlag("app_debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.AutomaticEnv()
}

// initEnvConfig loads configuration from environment variables
func initEnvConfig() {
	if envPort := viper.GetString("app_port"); envPort != "" {
		globalConfig.AppPort = envPort
	}
	if envDebug := viper.GetBool("app_debug"); envDebug {
		globalConfig.AppDebug = envDebug
	}
	if envBasePath := viper.GetString("app_base_path"); envBasePath != "" {
		globalConfig.AppBasePath = envBasePath
	}
	if envBasicAuth := viper.GetString("app_basic_auth"); envBasicAuth != "" {
		globalConfig.AppBasicAuthCredential = strings.Split(envBasicAuth, ",")
	}
	if envProxies := viper.GetString("app_trusted_proxies"); envProxies != "" {
		globalConfig.AppTrustedProxies = strings.Split(envProxies, ",")
	}

	if envName := viper.GetString("integration_name"); envName != "" {
		globalConfig.IntegrationName = envName
	}
	if envType := viper.GetString("integration_type"); envType != "" {
		globalConfig.IntegrationType = envType
	}

	if envURL := viper.GetString("service_url_live"); envURL != "" {
		globalConfig.ServiceURLLive = envURL
	}
	if envURL := viper.GetString("service_url_sandbox"); envURL != "" {
		globalConfig.ServiceURLSandbox = envURL
	}
	if envURL := viper.GetString("service_url_stage"); envURL != "" {
		globalConfig.ServiceURLStage = envURL
	}
	if envURL := viper.GetString("service_url_local"); envURL != "" {
		globalConfig.ServiceURLLocal = envURL
	}

	if envTTL := viper.GetInt("profile_soft_ttl_seconds"); envTTL > 0 {
		globalConfig.ProfileSoftTTL = time.Duration(envTTL) * time.Second
	}
	if envTTL := viper.GetInt("profile_hard_ttl_seconds"); envTTL > 0 {
		globalConfig.ProfileHardTTL = time.Duration(envTTL) * time.Second
	}

	if envPath := viper.GetString("path_storages"); envPath != "" {
		globalConfig.PathStorages = envPath
	}
	if viper.GetBool("db_valkey_enabled") {
		globalConfig.ValkeyEnabled = true
	}
	if envAddr := viper.GetString("db_valkey_address"); envAddr != "" {
		globalConfig.ValkeyAddress = envAddr
	}
	if envPass := viper.GetString("db_valkey_password"); envPass != "" {
		globalConfig.ValkeyPassword = envPass
	}
	if envDB := viper.GetInt("db_valkey_db"); envDB != 0 {
		globalConfig.ValkeyDB = envDB
	}
	if envPrefix := viper.GetString("db_valkey_key_prefix"); envPrefix != "" {
		globalConfig.ValkeyKeyPrefix = envPrefix
	}

	if globalConfig.AppDebug {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}
