package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	globalConfig "github.com/finmsg/finmsg/config"
	"github.com/finmsg/finmsg/infrastructure/keystore"
	"github.com/finmsg/finmsg/infrastructure/transport"
	infraValkey "github.com/finmsg/finmsg/infrastructure/valkey"
	"github.com/finmsg/finmsg/ui/rest"
	"github.com/finmsg/finmsg/ui/rest/middleware"
	"github.com/finmsg/finmsg/usecase"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the message API over http",
	Run:   restServer,
}

func init() {
	restCmd.Flags().String("basic-auth", "", "Basic auth for API (format: user:pass,user2:pass2)")
	rootCmd.AddCommand(restCmd)
}

func buildProfileStore() keystore.IKeyValueStore {
	if globalConfig.ValkeyEnabled {
		client, err := infraValkey.NewClient(infraValkey.Config{
			Address:   globalConfig.ValkeyAddress,
			Password:  globalConfig.ValkeyPassword,
			DB:        globalConfig.ValkeyDB,
			KeyPrefix: globalConfig.ValkeyKeyPrefix,
		})
		if err != nil {
			logrus.Fatalln("failed to connect valkey:", err)
		}
		return keystore.NewValkeyStore(client)
	}

	if err := os.MkdirAll(globalConfig.PathStorages, 0755); err != nil {
		logrus.Fatalln("failed to create storage dir:", err)
	}
	store, err := keystore.NewSQLiteStore(filepath.Join(globalConfig.PathStorages, globalConfig.ProfileStoreDB))
	if err != nil {
		logrus.Fatalln("failed to open profile store:", err)
	}
	return store
}

func restServer(cmd *cobra.Command, _ []string) {
	if baFlag, _ := cmd.Flags().GetString("basic-auth"); baFlag != "" {
		globalConfig.AppBasicAuthCredential = strings.Split(baFlag, ",")
	}

	store := buildProfileStore()
	fetcher := transport.NewHTTPFetcher()
	messageCache := usecase.NewMessageCacheService(fetcher)
	profileCache := usecase.NewProfileCacheService(store, fetcher)

	fiberConfig := fiber.Config{
		Network:               "tcp",
		AppName:               "fin-msg",
		DisableStartupMessage: false,
		ServerHeader:          "Hidden",
	}
	if len(globalConfig.AppTrustedProxies) > 0 {
		fiberConfig.EnableTrustedProxyCheck = true
		fiberConfig.TrustedProxies = globalConfig.AppTrustedProxies
		fiberConfig.ProxyHeader = fiber.HeaderXForwardedHost
	}

	app := fiber.New(fiberConfig)

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())

	if globalConfig.AppDebug {
		app.Use(logger.New())
	}

	apiGroup := app.Group(globalConfig.AppBasePath + "/api")

	if len(globalConfig.AppBasicAuthCredential) > 0 {
		account := make(map[string]string)
		for _, credential := range globalConfig.AppBasicAuthCredential {
			parts := strings.Split(credential, ":")
			if len(parts) != 2 {
				logrus.Fatalln("Basic auth is not valid, please use the format <user>:<secret>")
			}
			account[parts[0]] = parts[1]
		}
		apiGroup.Use(basicauth.New(basicauth.Config{Users: account}))
	}

	rest.InitRestMessage(apiGroup, messageCache, profileCache)
	rest.InitRestCache(apiGroup, messageCache, profileCache)
	rest.InitRestHealth(apiGroup)

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
		if err := store.Close(); err != nil {
			logrus.Errorf("[REST] Error closing profile store: %v", err)
		}
	}()

	if err := app.Listen(":" + globalConfig.AppPort); err != nil {
		logrus.Fatalln("failed to start rest server:", err)
	}
}
