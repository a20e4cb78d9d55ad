package main

import (
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/jmoiron/sqlx"
	"github.com/kardianos/osext"
	_ "github.com/mattn/go-sqlite3" // Just needed for the sqlite driver
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	hackpulse "github.com/derWhity/hackpulse/internal"
	"github.com/derWhity/hackpulse/internal/ctxhelper"
	"github.com/derWhity/hackpulse/internal/log"
	"github.com/derWhity/hackpulse/internal/migrate"
	"github.com/derWhity/hackpulse/internal/models"
	"github.com/derWhity/hackpulse/internal/repos"
	hackathonrepo "github.com/derWhity/hackpulse/internal/repos/hackathon/kv"
	boltkv "github.com/derWhity/hackpulse/internal/repos/kv/bolt"
	inmemkv "github.com/derWhity/hackpulse/internal/repos/kv/inmem"
	sqlitekv "github.com/derWhity/hackpulse/internal/repos/kv/sqlite"
	sessionrepo "github.com/derWhity/hackpulse/internal/repos/session/kv"
)

const (
	appName    = "HackPulse"
	appVersion = "0.1.0"
)

// Checks and tries to create the given directory recursively (or panics if this fails)
func checkAndCreateDir(path string, logger *logrus.Entry) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WithField(log.FldPath, path).Info("Directory does not exist - trying to create...")
			if err = os.MkdirAll(path, os.ModePerm); err != nil {
				logger.WithError(err).Fatal("Failed to create directory")
			}
			logger.Info("Directory created successfully")
		} else {
			logger.WithError(err).Fatal("Stat has failed")
		}
	} else {
		if !fileInfo.IsDir() {
			logger.Fatalf("'%s' is not a directory. Remove the plain file if you want to continue", path)
		}
	}
}

// openStore opens the key-value backend selected in the storage configuration
func openStore(conf models.AppConfig, logger *logrus.Entry) (repos.KVStore, error) {
	logger = logger.WithField(log.FldBackend, conf.Storage.Backend)
	switch conf.Storage.Backend {
	case models.BackendMemory:
		logger.Warn("Using in-memory storage - all data is lost on shutdown")
		return inmemkv.New(), nil
	case models.BackendBolt:
		checkAndCreateDir(conf.DataDir, logger)
		kv, err := boltkv.New(path.Join(conf.DataDir, conf.Storage.FileName()), logger)
		if err != nil {
			return nil, err
		}
		return kv, nil
	case models.BackendSQLite, "":
		checkAndCreateDir(conf.DataDir, logger)
		dbFileName := path.Join(conf.DataDir, conf.Storage.FileName())
		db, err := sqlx.Open("sqlite3", dbFileName)
		if err != nil {
			return nil, err
		}
		logger.Info("Performing database migrations...")
		if err = migrate.ExecuteMigrationsOnDb(db, logger); err != nil {
			db.Close()
			return nil, err
		}
		return sqlitekv.New(db, logger), nil
	}
	return nil, fmt.Errorf("unknown storage backend '%s'", conf.Storage.Backend)
}

func main() {
	execDir, err := osext.ExecutableFolder()
	if err != nil {
		panic(err)
	}

	configFile := flag.String(
		"config",
		filepath.Join(execDir, "config.json"),
		"The configuration file to load the application's configuration from",
	)
	flag.Parse()

	ctx := context.Background()

	// Initialize the logger
	logger := logrus.WithField(log.FldVersion, appVersion)
	logger.Infof("%s version %s is starting up...", appName, appVersion)
	ctx = context.WithValue(ctx, ctxhelper.KeyLogger, logger)

	// Load the main configuration file
	cs := hackpulse.NewConfigService(*configFile)
	if err := cs.Load(ctx); err != nil {
		logger.WithError(err).Error("Cannot load config. Using defaults")
	}
	conf := cs.GetConfig(ctx)

	if lvl, err := logrus.ParseLevel(conf.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	} else {
		logger.WithError(err).Warnf("Unknown log level '%s' - keeping the default", conf.LogLevel)
	}

	logger.Infof("Using '%s' as data directory", conf.DataDir)
	store, err := openStore(conf, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open the storage backend")
	}
	defer store.Close()

	// The single admin user built from the configuration
	u := models.User{
		Name:     strings.ToLower(conf.DefaultUser.Name),
		FullName: conf.DefaultUser.Name,
	}
	if err = u.SetPassword(conf.DefaultUser.Password); err != nil {
		logger.WithError(err).Fatal("Failed to set password for default user")
	}
	logger.WithField(log.FldUser, u.Name).Info("Admin user is ready")

	hackathonRepo := hackathonrepo.New(store, conf.Storage.DataKey, time.Now, logger)
	sessionRepo := sessionrepo.New(store, conf.Storage.AuthKey, time.Now)

	lServ := hackpulse.NewListingService(hackathonRepo, cs, time.Now, hackpulse.NewHackathonID, logger)
	aServ := hackpulse.NewAuthService(sessionRepo, &u, logger)
	if aServ.IsAuthenticated(ctx) {
		logger.Info("An admin session from a previous run is still active")
	}

	httpLogger := logger.WithField(log.FldTransport, "HTTP")

	eo := hackpulse.EndpointOptions{}
	if conf.SimulatedLatencyMs > 0 {
		latency := time.Duration(conf.SimulatedLatencyMs) * time.Millisecond
		logger.Infof("Simulating a latency of %s for every API call", latency)
		eo.Middlewares = append(eo.Middlewares, hackpulse.SimulateLatency(latency))
	}

	h := hackpulse.MakeHTTPHandler(
		lServ,
		aServ,
		cs,
		eo,
		filepath.Join(execDir, "ui"),
		httpLogger,
	)

	// Start listening
	errs := make(chan error)

	// Listen for stop signals that will end the service
	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		err := fmt.Errorf("%s", <-c)
		logger.Info("Caught signal to stop. Shutting down.")
		errs <- err
	}()

	go func() {
		httpLogger.WithField("addr", conf.ListenAddress).Info("Starting listening port")
		errs <- http.ListenAndServe(conf.ListenAddress, h)
	}()

	// Watchdog for systemd
	go func() {
		interval, err := daemon.SdWatchdogEnabled(false)
		if err != nil || interval == 0 {
			return
		}
		logger.Info("Activating systemd watchdog goroutine")
		_, port, err := net.SplitHostPort(conf.ListenAddress)
		if err != nil {
			logger.WithError(err).Error("Cannot determine the port for the watchdog")
			return
		}
		url := fmt.Sprintf("http://127.0.0.1:%s/alive", port)
		for {
			if resp, err := http.Get(url); err == nil {
				resp.Body.Close()
				daemon.SdNotify(false, "WATCHDOG=1")
			}
			time.Sleep(interval / 3)
		}
	}()

	// Notify systemd that we are ready to go (if available)
	daemon.SdNotify(false, "READY=1")

	logger.WithError(<-errs).Error("Shutdown complete")
}
