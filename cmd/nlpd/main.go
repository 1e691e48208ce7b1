/*
Command nlpd runs the on-device keyboard NLP core as a msgpack IPC server
and, with -c, as an interactive debug CLI.

	nlpd -dict /path/to/dictionaries -d
	nlpd -c -limit 10

Every .fldic file in the dictionary directory loads as an immutable base
dictionary. The mutable user dictionary is loaded separately, from the
user_dictionary_dir path in the config file.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/florisboard/nlp/internal/cli"
	"github.com/florisboard/nlp/internal/fsutil"
	"github.com/florisboard/nlp/pkg/config"
	"github.com/florisboard/nlp/pkg/keyproximity"
	"github.com/florisboard/nlp/pkg/server"
	"github.com/florisboard/nlp/pkg/session"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0"
	AppName = "nlpd"
)

func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		os.Exit(0)
	}()
}

func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dictDir := flag.String("dict", defaultConfig.Dict.BaseDictionaryDir, "Directory containing .fldic files")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run interactive debug CLI instead of the IPC server")
	spellMode := flag.Bool("spell", false, "In CLI mode, run spell() instead of suggest()")
	limit := flag.Int("limit", defaultConfig.Session.MaxSuggestionCount, "Max suggestion count")
	allowOffensive := flag.Bool("allow-offensive", false, "Allow possibly-offensive candidates")
	locale := flag.String("locale", defaultConfig.Session.DefaultLocale, "BCP 47 locale tag")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true)
		logger.SetStyles(styles)
		logger.Print("[ nlpd ] on-device keyboard NLP core")
		logger.Print("", "version", Version)
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := fsutil.NewPathResolver()
	if err != nil {
		log.Fatalf("failed to initialize path resolver: %v", err)
	}

	resolvedDictDir, err := pathResolver.GetDictionaryDir(*dictDir)
	if err != nil {
		log.Fatalf("failed to resolve dictionary dir: %v", err)
	}
	log.Debugf("using dictionary dir: %s", resolvedDictDir)

	configPath, err := pathResolver.GetConfigPath("nlp-config.toml")
	if err != nil {
		log.Fatalf("failed to determine config path: %v", err)
	}
	appConfig, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var keyProximity *keyproximity.Map
	if appConfig.Session.KeyProximityPath != "" {
		keyProximity, err = keyproximity.Load(appConfig.Session.KeyProximityPath)
		if err != nil {
			log.Warnf("failed to load key proximity map, continuing without it: %v", err)
		}
	}

	resolvedUserDictPath, err := pathResolver.GetUserDictionaryPath(appConfig.Dict.UserDictionaryDir)
	if err != nil {
		log.Warnf("failed to resolve user dictionary path: %v", err)
	}

	sess := session.New(*locale, keyProximity, appConfig.Session.HotCacheSize)
	loadDictionaries(sess, resolvedDictDir, resolvedUserDictPath)

	if *cliMode {
		log.SetReportTimestamp(false)
		handler := cli.NewInputHandler(sess, *limit, *allowOffensive, *spellMode)
		if err := handler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	showStartupInfo(resolvedDictDir)
	srv := server.NewServer(sess)
	if err := srv.Start(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func loadDictionaries(sess *session.Session, dictDir, userDictionaryPath string) {
	matches, err := filepath.Glob(filepath.Join(dictDir, "*.fldic"))
	if err != nil {
		log.Warnf("globbing dictionary dir %s: %v", dictDir, err)
	}
	for _, path := range matches {
		if err := sess.LoadBaseDictionary(path); err != nil {
			log.Warnf("failed to load base dictionary %s: %v", path, err)
		}
	}

	if userDictionaryPath == "" {
		return
	}
	if err := sess.LoadUserDictionary(userDictionaryPath); err != nil {
		log.Warnf("failed to load user dictionary %s: %v", userDictionaryPath, err)
	}
}

func showStartupInfo(dictDir string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	log.Infof("nlpd %s", Version)
	log.Infof("process id: %d", pid)
	log.Infof("dictionary dir: %s", dictDir)
	log.Info("status: ready")

	log.SetLevel(currentLevel)
}
